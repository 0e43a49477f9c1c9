package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// OpenAIClient вызывает OpenAI-совместимый chat completions API.
// Через него работают OpenAI, Groq и OpenRouter.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type openAIModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAIClient создает клиент OpenAI-совместимого API.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *OpenAIClient {
	trimmedURL := strings.TrimRight(baseURL, "/")
	return &OpenAIClient{
		apiKey:    apiKey,
		baseURL:   trimmedURL,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat отправляет сообщения провайдеру и возвращает текст ответа и сырой
// ответ API. Сообщения с изображениями кодируются мультимодальными частями.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, ErrNotConfigured
	}

	reqBody := openAIChatRequest{
		Model:       c.model,
		Messages:    encodeOpenAIMessages(messages),
		Temperature: 0.2,
		MaxTokens:   resolveMaxTokens(c.maxTokens),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}

	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", body, apiError(body, response.StatusCode)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", body, err
	}

	if len(parsed.Choices) == 0 {
		return "", body, errors.New("provider response missing choices")
	}

	return parsed.Choices[0].Message.Content, body, nil
}

// ListModels запрашивает список доступных моделей провайдера.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/models", c.baseURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, apiError(body, response.StatusCode)
	}

	var parsed openAIModelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	list := make([]models.ModelInfo, 0, len(parsed.Data))
	for _, model := range parsed.Data {
		list = append(list, models.ModelInfo{ID: model.ID, Name: model.ID})
	}

	return list, nil
}

func encodeOpenAIMessages(messages []Message) []openAIMessage {
	encoded := make([]openAIMessage, 0, len(messages))
	for _, message := range messages {
		if len(message.Images) == 0 {
			encoded = append(encoded, openAIMessage{Role: message.Role, Content: message.Content})
			continue
		}

		parts := make([]openAIContentPart, 0, len(message.Images)+1)
		if strings.TrimSpace(message.Content) != "" {
			parts = append(parts, openAIContentPart{Type: "text", Text: message.Content})
		}
		for _, image := range message.Images {
			parts = append(parts, openAIContentPart{
				Type: "image_url",
				ImageURL: &openAIImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", image.MimeType, image.Data),
				},
			})
		}
		encoded = append(encoded, openAIMessage{Role: message.Role, Content: parts})
	}
	return encoded
}

func apiError(body []byte, status int) error {
	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return fmt.Errorf("provider api error (%d): %s", status, parsed.Error.Message)
	}
	return fmt.Errorf("provider api error (%d): %s", status, strings.TrimSpace(string(body)))
}
