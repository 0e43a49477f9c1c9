package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/ai"
	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

const (
	aiUseCaseAnalyzeText   = "analyze_text"
	aiUseCaseAnalyzeImage  = "analyze_image"
	aiUseCaseLookup        = "lookup_ingredient"
	aiUseCaseDailySummary  = "daily_summary"
	aiUseCaseGenerateGoals = "generate_goals"
)

type AIHandler struct {
	Service  *ai.Service
	Config   *repository.ConfigRepository
	Ledger   *repository.LedgerStore
	Profiles *repository.ProfileRepository
	AIRepo   *repository.AIRepository
}

// NewAIHandler создает обработчик AI-запросов.
func NewAIHandler(service *ai.Service, config *repository.ConfigRepository, ledger *repository.LedgerStore, profiles *repository.ProfileRepository, aiRepo *repository.AIRepository) *AIHandler {
	return &AIHandler{
		Service:  service,
		Config:   config,
		Ledger:   ledger,
		Profiles: profiles,
		AIRepo:   aiRepo,
	}
}

type AnalyzeTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type AnalyzeImageRequest struct {
	Image    string `json:"image" validate:"required"`
	MimeType string `json:"mime_type"`
	Comment  string `json:"comment"`
}

type LookupIngredientRequest struct {
	Name string `json:"name" validate:"required"`
}

type DailySummaryRequest struct {
	Date string `json:"date" validate:"required"`
}

type IngredientsResponse struct {
	Ingredients []models.Ingredient `json:"ingredients"`
}

// AnalyzeText распознает ингредиенты в текстовом описании еды.
func (h *AIHandler) AnalyzeText(c echo.Context) error {
	var req AnalyzeTextRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	cfg, err := h.resolveProvider(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	ingredients, prompt, raw, err := h.Service.AnalyzeText(c.Request().Context(), cfg, req.Text)
	h.logAIRequest(c.Request().Context(), aiUseCaseAnalyzeText, cfg, prompt, raw, err)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(http.StatusOK, IngredientsResponse{Ingredients: ingredients})
}

// AnalyzeImage распознает ингредиенты на фотографии еды.
func (h *AIHandler) AnalyzeImage(c echo.Context) error {
	var req AnalyzeImageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	cfg, err := h.resolveProvider(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	image := ai.ImagePart{MimeType: mimeType, Data: req.Image}
	ingredients, prompt, raw, err := h.Service.AnalyzeImage(c.Request().Context(), cfg, image, req.Comment)
	h.logAIRequest(c.Request().Context(), aiUseCaseAnalyzeImage, cfg, prompt, raw, err)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(http.StatusOK, IngredientsResponse{Ingredients: ingredients})
}

// LookupIngredient возвращает КБЖУК продукта на 100 грамм по названию.
func (h *AIHandler) LookupIngredient(c echo.Context) error {
	var req LookupIngredientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	cfg, err := h.resolveProvider(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	record, prompt, raw, err := h.Service.LookupIngredient(c.Request().Context(), cfg, req.Name)
	h.logAIRequest(c.Request().Context(), aiUseCaseLookup, cfg, prompt, raw, err)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]models.NutrientRecord{"per_100g": record})
}

// DailySummary просит модель прокомментировать съеденное за день.
func (h *AIHandler) DailySummary(c echo.Context) error {
	var req DailySummaryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if err := validateDateParam(req.Date); err != nil {
		return badRequest(c, err.Error())
	}

	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	entry, err := h.Ledger.Day(c.Request().Context(), req.Date, goals)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "day not found")
		}
		return serverError(c)
	}

	cfg, err := h.resolveProvider(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	summary, prompt, raw, err := h.Service.DailySummary(c.Request().Context(), cfg, req.Date, entry, goals)
	h.logAIRequest(c.Request().Context(), aiUseCaseDailySummary, cfg, prompt, raw, err)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

// ListModels возвращает модели активного провайдера и кеширует список
// в сохраненной конфигурации.
func (h *AIHandler) ListModels(c echo.Context) error {
	cfg, err := h.resolveProvider(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	modelList, err := h.Service.ListModels(c.Request().Context(), cfg)
	if err != nil {
		return aiError(c, err)
	}

	settings := models.ProviderSettings{Token: cfg.Token, Model: cfg.Model, Models: modelList}
	if _, err := h.Config.UpdateProvider(c.Request().Context(), cfg.ProviderID, settings); err != nil {
		slog.Warn("failed to cache model list", slog.String("provider", cfg.ProviderID), slog.String("error", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string][]models.ModelInfo{"models": modelList})
}

type AIRequestResponse struct {
	ID           string  `json:"id"`
	UseCase      string  `json:"use_case"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Prompt       string  `json:"prompt"`
	RawResponse  string  `json:"raw_response"`
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ListRequests возвращает журнал последних обращений к провайдерам.
func (h *AIHandler) ListRequests(c echo.Context) error {
	limit := 0
	if value := c.QueryParam("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = parsed
	}

	logs, err := h.AIRepo.ListRequests(c.Request().Context(), limit)
	if err != nil {
		return serverError(c)
	}

	response := make([]AIRequestResponse, 0, len(logs))
	for _, log := range logs {
		response = append(response, AIRequestResponse{
			ID:           log.ID.String(),
			UseCase:      log.UseCase,
			Provider:     log.Provider,
			Model:        log.Model,
			Prompt:       log.Prompt,
			RawResponse:  log.RawResponse,
			Success:      log.Success,
			ErrorMessage: log.ErrorMessage,
			CreatedAt:    log.CreatedAt.Format(timeLayout),
		})
	}

	return c.JSON(http.StatusOK, map[string][]AIRequestResponse{"requests": response})
}

func (h *AIHandler) resolveProvider(ctx context.Context) (providers.Resolved, error) {
	cfg, err := h.Config.Load(ctx)
	if err != nil {
		return providers.Resolved{}, err
	}
	return providers.Resolve(cfg, cfg.CurrentProviderID), nil
}

func (h *AIHandler) logAIRequest(ctx context.Context, useCase string, cfg providers.Resolved, prompt string, raw []byte, err error) {
	log := repository.AIRequestLog{
		UseCase:     useCase,
		Provider:    cfg.ProviderID,
		Model:       cfg.Model,
		Prompt:      prompt,
		RawResponse: string(raw),
		Success:     err == nil,
	}
	if err != nil {
		errMsg := err.Error()
		log.ErrorMessage = &errMsg
	}

	_ = h.AIRepo.LogRequest(ctx, log)
}

// aiError переводит ошибки AI-слоя в HTTP-статусы: непроставленный токен —
// ошибка клиента, нераспознанный ответ модели — 422, остальное — проблема
// на стороне провайдера.
func aiError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return badRequest(c, "ai provider is not configured")
	case errors.Is(err, ai.ErrNothingRecognized):
		return unprocessable(c, "no food recognized")
	case errors.Is(err, ai.ErrMalformedResponse):
		return unprocessable(c, "ai response could not be parsed")
	default:
		return badGateway(c, "ai provider request failed")
	}
}
