package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/notifications"
	"github.com/prepod2003/calorai-calc-ai/internal/nutrition"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

type DishHandler struct {
	Dishes   *repository.DishRepository
	Notifier *notifications.Hub
}

// NewDishHandler создает обработчик библиотеки блюд.
func NewDishHandler(dishes *repository.DishRepository, notifier *notifications.Hub) *DishHandler {
	return &DishHandler{Dishes: dishes, Notifier: notifier}
}

// List возвращает все сохраненные блюда.
func (h *DishHandler) List(c echo.Context) error {
	dishes, err := h.Dishes.List(c.Request().Context())
	if err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, dishes)
}

type CreateDishRequest struct {
	Name        string              `json:"name" validate:"required"`
	Ingredients []IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

// Create сохраняет блюдо: нутриенты на 100 г пересчитываются
// из списка ингредиентов с их фактическим весом.
func (h *DishHandler) Create(c echo.Context) error {
	var req CreateDishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	per100g := nutrition.Per100g(toIngredients(req.Ingredients))

	dish, err := h.Dishes.Create(c.Request().Context(), req.Name, per100g)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	publishDishesUpdate(h.Notifier)
	return c.JSON(http.StatusCreated, dish)
}

// Delete удаляет блюдо из библиотеки.
func (h *DishHandler) Delete(c echo.Context) error {
	if err := h.Dishes.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "dish not found")
		}
		return serverError(c)
	}

	publishDishesUpdate(h.Notifier)
	return c.NoContent(http.StatusNoContent)
}

func publishDishesUpdate(hub *notifications.Hub) {
	if hub == nil {
		return
	}
	hub.Publish(notifications.Event{Type: notifications.EventDishesUpdated})
}
