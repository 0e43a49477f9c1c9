package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/notifications"
	"github.com/prepod2003/calorai-calc-ai/internal/nutrition"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

type ProfileHandler struct {
	Profiles *repository.ProfileRepository
	AI       *AIHandler
	Notifier *notifications.Hub
}

// NewProfileHandler создает обработчик профиля пользователя.
func NewProfileHandler(profiles *repository.ProfileRepository, aiHandler *AIHandler, notifier *notifications.Hub) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, AI: aiHandler, Notifier: notifier}
}

type UpdateProfileRequest struct {
	Name          string             `json:"name"`
	Gender        string             `json:"gender" validate:"required,oneof=male female"`
	Age           int                `json:"age" validate:"required,gt=0,lte=120"`
	Weight        float64            `json:"weight" validate:"required,gt=0"`
	Height        float64            `json:"height" validate:"required,gt=0"`
	ActivityLevel string             `json:"activity_level" validate:"required"`
	Goal          string             `json:"goal" validate:"required"`
	DailyGoals    *DailyGoalsRequest `json:"daily_goals"`
}

type DailyGoalsRequest struct {
	BMR            float64 `json:"bmr" validate:"gte=0"`
	TDEE           float64 `json:"tdee" validate:"gte=0"`
	TargetCalories float64 `json:"target_calories" validate:"gt=0"`
	Protein        float64 `json:"protein" validate:"gte=0"`
	Fat            float64 `json:"fat" validate:"gte=0"`
	Carbs          float64 `json:"carbs" validate:"gte=0"`
	Fiber          float64 `json:"fiber" validate:"gte=0"`
}

// Get возвращает профиль; отсутствующий профиль — пустой объект.
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, _, err := h.Profiles.Get(c.Request().Context())
	if err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, profile)
}

// Update перезаписывает профиль целиком.
func (h *ProfileHandler) Update(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	profile := models.UserProfile{
		Name:          req.Name,
		Gender:        req.Gender,
		Age:           req.Age,
		Weight:        req.Weight,
		Height:        req.Height,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	}
	if req.DailyGoals != nil {
		profile.DailyGoals = &models.DailyGoals{
			BMR:            req.DailyGoals.BMR,
			TDEE:           req.DailyGoals.TDEE,
			TargetCalories: req.DailyGoals.TargetCalories,
			Protein:        req.DailyGoals.Protein,
			Fat:            req.DailyGoals.Fat,
			Carbs:          req.DailyGoals.Carbs,
			Fiber:          req.DailyGoals.Fiber,
		}
	} else {
		// Текущие цели переживают перезапись анкетных полей.
		existing, found, err := h.Profiles.Get(c.Request().Context())
		if err != nil {
			return serverError(c)
		}
		if found {
			profile.DailyGoals = existing.DailyGoals
		}
	}

	if err := h.Profiles.Save(c.Request().Context(), profile); err != nil {
		return serverError(c)
	}

	publishProfileUpdate(h.Notifier)
	return c.JSON(http.StatusOK, profile)
}

// GenerateGoals рассчитывает дневные цели через AI и сохраняет их в профиле.
func (h *ProfileHandler) GenerateGoals(c echo.Context) error {
	profile, found, err := h.Profiles.Get(c.Request().Context())
	if err != nil {
		return serverError(c)
	}
	if !found {
		return badRequest(c, "profile is not filled in")
	}

	cfg, err := h.AI.resolveProvider(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	goals, prompt, raw, err := h.AI.Service.GenerateDailyGoals(c.Request().Context(), cfg, profile)
	h.AI.logAIRequest(c.Request().Context(), aiUseCaseGenerateGoals, cfg, prompt, raw, err)
	if err != nil {
		return aiError(c, err)
	}

	goals = roundGoals(goals)
	profile.DailyGoals = &goals
	if err := h.Profiles.Save(c.Request().Context(), profile); err != nil {
		return serverError(c)
	}

	publishProfileUpdate(h.Notifier)
	return c.JSON(http.StatusOK, goals)
}

func roundGoals(goals models.DailyGoals) models.DailyGoals {
	return models.DailyGoals{
		BMR:            nutrition.Round1(goals.BMR),
		TDEE:           nutrition.Round1(goals.TDEE),
		TargetCalories: nutrition.Round1(goals.TargetCalories),
		Protein:        nutrition.Round1(goals.Protein),
		Fat:            nutrition.Round1(goals.Fat),
		Carbs:          nutrition.Round1(goals.Carbs),
		Fiber:          nutrition.Round1(goals.Fiber),
	}
}

func publishProfileUpdate(hub *notifications.Hub) {
	if hub == nil {
		return
	}
	hub.Publish(notifications.Event{Type: notifications.EventProfileUpdated})
}
