package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/nutrition"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

type StatsHandler struct {
	Ledger   *repository.LedgerStore
	Profiles *repository.ProfileRepository
}

// NewStatsHandler создает обработчик статистики дневника.
func NewStatsHandler(ledger *repository.LedgerStore, profiles *repository.ProfileRepository) *StatsHandler {
	return &StatsHandler{Ledger: ledger, Profiles: profiles}
}

// Overview возвращает сводную статистику за период from..to включительно.
func (h *StatsHandler) Overview(c echo.Context) error {
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from != "" {
		if err := validateDateParam(from); err != nil {
			return badRequest(c, "invalid from date")
		}
	}
	if to != "" {
		if err := validateDateParam(to); err != nil {
			return badRequest(c, "invalid to date")
		}
	}
	if from != "" && to != "" && from > to {
		return badRequest(c, "from must not be after to")
	}

	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	history, err := h.Ledger.History(c.Request().Context(), goals)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, nutrition.Overview(history, from, to, goals))
}
