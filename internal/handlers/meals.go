package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/notifications"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type MealHandler struct {
	Ledger   *repository.LedgerStore
	Profiles *repository.ProfileRepository
	Notifier *notifications.Hub
}

// NewMealHandler создает обработчик дневника приемов пищи.
func NewMealHandler(ledger *repository.LedgerStore, profiles *repository.ProfileRepository, notifier *notifications.Hub) *MealHandler {
	return &MealHandler{Ledger: ledger, Profiles: profiles, Notifier: notifier}
}

type IngredientRequest struct {
	Name    string                `json:"name" validate:"required"`
	Weight  float64               `json:"weight" validate:"gte=0"`
	Per100g NutrientRecordRequest `json:"per_100g"`
}

type NutrientRecordRequest struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
}

type RecordMealRequest struct {
	Date        string              `json:"date" validate:"required"`
	MealType    string              `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Ingredients []IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

type RecordMealResponse struct {
	Meal models.Meal     `json:"meal"`
	Day  models.DayEntry `json:"day"`
}

// RecordMeal добавляет прием пищи в дневник.
func (h *MealHandler) RecordMeal(c echo.Context) error {
	var req RecordMealRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	meal, err := h.Ledger.RecordMeal(c.Request().Context(), req.Date, models.MealType(req.MealType), toIngredients(req.Ingredients), goals)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	entry, err := h.Ledger.Day(c.Request().Context(), req.Date, goals)
	if err != nil {
		return serverError(c)
	}

	publishDayUpdate(h.Notifier, req.Date)
	return c.JSON(http.StatusCreated, RecordMealResponse{Meal: meal, Day: entry})
}

type HistoryResponse struct {
	Dates   []string       `json:"dates"`
	History models.History `json:"history"`
}

// History возвращает всю историю с датами, отсортированными по убыванию.
func (h *MealHandler) History(c echo.Context) error {
	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	history, err := h.Ledger.History(c.Request().Context(), goals)
	if err != nil {
		return serverError(c)
	}

	dates := make([]string, 0, len(history))
	for date := range history {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	return c.JSON(http.StatusOK, HistoryResponse{Dates: dates, History: history})
}

// Day возвращает запись одного дня.
func (h *MealHandler) Day(c echo.Context) error {
	date := c.Param("date")
	if err := validateDateParam(date); err != nil {
		return badRequest(c, err.Error())
	}

	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	entry, err := h.Ledger.Day(c.Request().Context(), date, goals)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "day not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, entry)
}

// RemoveMeal удаляет прием пищи из дня.
func (h *MealHandler) RemoveMeal(c echo.Context) error {
	date := c.Param("date")
	if err := validateDateParam(date); err != nil {
		return badRequest(c, err.Error())
	}

	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	if err := h.Ledger.RemoveMeal(c.Request().Context(), date, c.Param("mealId"), goals); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal not found")
		}
		return serverError(c)
	}

	publishDayUpdate(h.Notifier, date)
	return c.NoContent(http.StatusNoContent)
}

// ClearDay удаляет день целиком.
func (h *MealHandler) ClearDay(c echo.Context) error {
	date := c.Param("date")
	if err := validateDateParam(date); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.Ledger.ClearDay(c.Request().Context(), date); err != nil {
		return serverError(c)
	}

	publishDayClear(h.Notifier, date)
	return c.NoContent(http.StatusNoContent)
}

func toIngredients(requests []IngredientRequest) []models.Ingredient {
	ingredients := make([]models.Ingredient, 0, len(requests))
	for _, req := range requests {
		weight := req.Weight
		if weight == 0 {
			weight = 100
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:   req.Name,
			Weight: weight,
			Per100g: models.NutrientRecord{
				Calories: req.Per100g.Calories,
				Protein:  req.Per100g.Protein,
				Fat:      req.Per100g.Fat,
				Carbs:    req.Per100g.Carbs,
				Fiber:    req.Per100g.Fiber,
			},
		})
	}
	return ingredients
}

func validateDateParam(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	return nil
}

func publishDayUpdate(hub *notifications.Hub, date string) {
	if hub == nil {
		return
	}
	hub.Publish(notifications.Event{Type: notifications.EventDayUpdated, Date: date})
}

func publishDayClear(hub *notifications.Hub, date string) {
	if hub == nil {
		return
	}
	hub.Publish(notifications.Event{Type: notifications.EventDayCleared, Date: date})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func unprocessable(c echo.Context, message string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": message})
}

func badGateway(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
