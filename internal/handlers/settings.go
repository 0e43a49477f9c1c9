package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

type SettingsHandler struct {
	Config *repository.ConfigRepository
}

// NewSettingsHandler создает обработчик настроек AI-провайдеров.
func NewSettingsHandler(config *repository.ConfigRepository) *SettingsHandler {
	return &SettingsHandler{Config: config}
}

type ProviderInfoResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	DefaultModel string             `json:"default_model"`
	HasToken     bool               `json:"has_token"`
	Model        string             `json:"model,omitempty"`
	Models       []models.ModelInfo `json:"models,omitempty"`
}

type SettingsResponse struct {
	CurrentProviderID string                 `json:"current_provider_id"`
	Providers         []ProviderInfoResponse `json:"providers"`
}

// Get возвращает реестр провайдеров и сохраненные настройки.
// Токены наружу не отдаются, только признак их наличия.
func (h *SettingsHandler) Get(c echo.Context) error {
	cfg, err := h.Config.Load(c.Request().Context())
	if err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, buildSettingsResponse(cfg))
}

type SetProviderRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
}

// SetProvider переключает активного провайдера.
func (h *SettingsHandler) SetProvider(c echo.Context) error {
	var req SetProviderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	cfg, err := h.Config.SetCurrentProvider(c.Request().Context(), req.ProviderID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, buildSettingsResponse(cfg))
}

type UpdateProviderRequest struct {
	Token string `json:"token"`
	Model string `json:"model"`
}

// UpdateProvider обновляет учетные данные одного провайдера.
func (h *SettingsHandler) UpdateProvider(c echo.Context) error {
	var req UpdateProviderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	settings := models.ProviderSettings{Token: req.Token, Model: req.Model}
	cfg, err := h.Config.UpdateProvider(c.Request().Context(), c.Param("id"), settings)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, buildSettingsResponse(cfg))
}

func buildSettingsResponse(cfg models.APIConfig) SettingsResponse {
	currentID := cfg.CurrentProviderID
	if currentID == "" {
		currentID = providers.DefaultID()
	}

	list := make([]ProviderInfoResponse, 0, len(providers.Registry))
	for _, entry := range providers.Registry {
		settings := cfg.Providers[entry.ID]
		list = append(list, ProviderInfoResponse{
			ID:           entry.ID,
			Title:        entry.Title,
			DefaultModel: entry.DefaultModel,
			HasToken:     settings.Token != "",
			Model:        settings.Model,
			Models:       settings.Models,
		})
	}

	return SettingsResponse{CurrentProviderID: currentID, Providers: list}
}
