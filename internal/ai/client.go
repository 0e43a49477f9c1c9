package ai

import (
	"context"
	"errors"
	"time"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
)

const defaultMaxTokens = 4096

// ErrNotConfigured возвращается до любого сетевого вызова, если у активного
// провайдера нет токена.
var ErrNotConfigured = errors.New("api token is not configured")

// ImagePart описывает изображение, прикладываемое к сообщению.
type ImagePart struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64 без префикса data:
}

type Message struct {
	Role    string      `json:"role"`
	Content string      `json:"content"`
	Images  []ImagePart `json:"images,omitempty"`
}

// Client описывает транспорт к одному AI-провайдеру.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

// NewClient создает клиент под протокол провайдера.
func NewClient(cfg providers.Resolved, timeout time.Duration, maxTokens int) Client {
	switch cfg.Kind {
	case providers.KindGemini:
		return NewGeminiClient(cfg.Token, cfg.BaseURL, cfg.Model, timeout, maxTokens)
	default:
		return NewOpenAIClient(cfg.Token, cfg.BaseURL, cfg.Model, timeout, maxTokens)
	}
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
