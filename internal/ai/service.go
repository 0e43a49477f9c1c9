package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
)

const jsonOnlySystemPrompt = "You are a nutrition assistant. Respond with JSON only, without extra text."

// ErrNothingRecognized возвращается, когда ответ модели не содержит ни
// одного пригодного ингредиента.
var ErrNothingRecognized = errors.New("ai response contains no usable ingredients")

const ingredientSchema = `[
  {"name": string, "weight": number (grams), "calories": number, "protein": number, "fat": number, "carbs": number, "fiber": number}
]
Nutrient values are per 100 grams of the ingredient.`

// Service строит промпты и нормализует ответы провайдеров. Клиент собирается
// на каждый вызов из разрешенной конфигурации провайдера: пользователь может
// сменить провайдера или модель между запросами.
type Service struct {
	factory   func(providers.Resolved) Client
	timeout   time.Duration
	maxTokens int
}

// NewService создает сервис работы с AI-провайдерами.
func NewService(timeout time.Duration, maxTokens int) *Service {
	s := &Service{timeout: timeout, maxTokens: maxTokens}
	s.factory = func(cfg providers.Resolved) Client {
		return NewClient(cfg, s.timeout, s.maxTokens)
	}
	return s
}

// AnalyzeText распознает ингредиенты в свободном описании еды.
func (s *Service) AnalyzeText(ctx context.Context, cfg providers.Resolved, text string) ([]models.Ingredient, string, []byte, error) {
	prompt := fmt.Sprintf(`Parse the meal description into ingredients as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- Schema:
%s
- Estimate realistic weights when the description does not state them.
- Skip items that are not food.

Meal description:
%s`, ingredientSchema, strings.TrimSpace(text))

	return s.requestIngredients(ctx, cfg, []Message{
		{Role: "system", Content: jsonOnlySystemPrompt},
		{Role: "user", Content: prompt},
	})
}

// AnalyzeImage распознает ингредиенты на фотографии еды.
func (s *Service) AnalyzeImage(ctx context.Context, cfg providers.Resolved, image ImagePart, comment string) ([]models.Ingredient, string, []byte, error) {
	prompt := fmt.Sprintf(`Identify the foods on the photo and return ingredients as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- Schema:
%s
- Estimate portion weights from the photo.`, ingredientSchema)

	if comment = strings.TrimSpace(comment); comment != "" {
		prompt += fmt.Sprintf("\n\nUser comment:\n%s", comment)
	}

	return s.requestIngredients(ctx, cfg, []Message{
		{Role: "system", Content: jsonOnlySystemPrompt},
		{Role: "user", Content: prompt, Images: []ImagePart{image}},
	})
}

// LookupIngredient возвращает КБЖУК продукта на 100 грамм по его названию.
func (s *Service) LookupIngredient(ctx context.Context, cfg providers.Resolved, name string) (models.NutrientRecord, string, []byte, error) {
	prompt := fmt.Sprintf(`Provide the nutrition facts of the product per 100 grams as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- Schema: {"calories": number, "protein": number, "fat": number, "carbs": number, "fiber": number}

Product:
%s`, strings.TrimSpace(name))

	content, raw, err := s.chat(ctx, cfg, []Message{
		{Role: "system", Content: jsonOnlySystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return models.NutrientRecord{}, prompt, raw, err
	}

	var decoded map[string]any
	if err := parseJSON(content, &decoded); err != nil {
		return models.NutrientRecord{}, prompt, raw, err
	}

	record := normalizeNutrientRecord(decoded)
	return record, prompt, raw, nil
}

// GenerateDailyGoals рассчитывает дневные цели КБЖУК по профилю пользователя.
func (s *Service) GenerateDailyGoals(ctx context.Context, cfg providers.Resolved, profile models.UserProfile) (models.DailyGoals, string, []byte, error) {
	prompt := fmt.Sprintf(`Calculate daily nutrition goals for the person as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- Schema: {"bmr": number, "tdee": number, "target_calories": number, "protein": number, "fat": number, "carbs": number, "fiber": number}
- Use the Mifflin-St Jeor equation for BMR.
- Adjust target_calories for the stated goal.

Person:
- gender: %s
- age: %d
- weight: %.1f kg
- height: %.1f cm
- activity level: %s
- goal: %s`,
		profile.Gender, profile.Age, profile.Weight, profile.Height, profile.ActivityLevel, profile.Goal)

	content, raw, err := s.chat(ctx, cfg, []Message{
		{Role: "system", Content: jsonOnlySystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return models.DailyGoals{}, prompt, raw, err
	}

	var decoded map[string]any
	if err := parseJSON(content, &decoded); err != nil {
		return models.DailyGoals{}, prompt, raw, err
	}

	goals := normalizeDailyGoals(decoded)
	if goals.TargetCalories == 0 {
		return models.DailyGoals{}, prompt, raw, fmt.Errorf("%w: missing target calories", ErrMalformedResponse)
	}

	return goals, prompt, raw, nil
}

// DailySummary просит модель прокомментировать съеденное за день.
// Ответ — свободный текст, JSON-контракта у этого вызова нет.
func (s *Service) DailySummary(ctx context.Context, cfg providers.Resolved, date string, entry models.DayEntry, goals *models.DailyGoals) (string, string, []byte, error) {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Date: %s\n", date)
	fmt.Fprintf(&builder, "Totals: %.0f kcal, protein %.1f g, fat %.1f g, carbs %.1f g, fiber %.1f g\n",
		entry.DailyTotals.Calories, entry.DailyTotals.Protein, entry.DailyTotals.Fat,
		entry.DailyTotals.Carbs, entry.DailyTotals.Fiber)
	if goals != nil {
		fmt.Fprintf(&builder, "Daily goal: %.0f kcal, protein %.1f g, fat %.1f g, carbs %.1f g, fiber %.1f g\n",
			goals.TargetCalories, goals.Protein, goals.Fat, goals.Carbs, goals.Fiber)
	}
	builder.WriteString("Meals:\n")
	for _, meal := range sortedMealList(entry.Meals) {
		names := make([]string, 0, len(meal.Ingredients))
		for _, ingredient := range meal.Ingredients {
			names = append(names, fmt.Sprintf("%s (%.0f g)", ingredient.Name, ingredient.Weight))
		}
		fmt.Fprintf(&builder, "- %s: %s\n", meal.Type, strings.Join(names, ", "))
	}

	prompt := fmt.Sprintf(`Review the day of eating below and give a short assessment with one or two practical suggestions.
Answer in the language of the food names. Plain text, 3-5 sentences, no markdown.

%s`, builder.String())

	content, raw, err := s.chat(ctx, cfg, []Message{
		{Role: "system", Content: "You are a friendly nutrition coach."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", prompt, raw, err
	}

	return strings.TrimSpace(content), prompt, raw, nil
}

// ListModels возвращает список моделей активного провайдера.
func (s *Service) ListModels(ctx context.Context, cfg providers.Resolved) ([]models.ModelInfo, error) {
	if cfg.Token == "" {
		return nil, ErrNotConfigured
	}
	return s.factory(cfg).ListModels(ctx)
}

func (s *Service) requestIngredients(ctx context.Context, cfg providers.Resolved, messages []Message) ([]models.Ingredient, string, []byte, error) {
	prompt := messages[len(messages)-1].Content

	content, raw, err := s.chat(ctx, cfg, messages)
	if err != nil {
		return nil, prompt, raw, err
	}

	var decoded any
	if err := parseJSON(content, &decoded); err != nil {
		return nil, prompt, raw, err
	}

	ingredients := NormalizeIngredients(decoded)
	if ingredients == nil {
		return nil, prompt, raw, ErrNothingRecognized
	}

	return ingredients, prompt, raw, nil
}

func (s *Service) chat(ctx context.Context, cfg providers.Resolved, messages []Message) (string, []byte, error) {
	if cfg.Token == "" {
		return "", nil, ErrNotConfigured
	}
	return s.factory(cfg).Chat(ctx, messages)
}

func normalizeNutrientRecord(decoded map[string]any) models.NutrientRecord {
	return models.NutrientRecord{
		Calories: coerceFirst(decoded, "calories"),
		Protein:  coerceFirst(decoded, "protein"),
		Fat:      coerceFirst(decoded, "fat"),
		Carbs:    coerceFirst(decoded, "carbs", "carbohydrates"),
		Fiber:    coerceFirst(decoded, "fiber"),
	}
}

func normalizeDailyGoals(decoded map[string]any) models.DailyGoals {
	return models.DailyGoals{
		BMR:            coerceFirst(decoded, "bmr"),
		TDEE:           coerceFirst(decoded, "tdee"),
		TargetCalories: coerceFirst(decoded, "target_calories", "targetCalories"),
		Protein:        coerceFirst(decoded, "protein"),
		Fat:            coerceFirst(decoded, "fat"),
		Carbs:          coerceFirst(decoded, "carbs", "carbohydrates"),
		Fiber:          coerceFirst(decoded, "fiber"),
	}
}

func sortedMealList(meals map[string]models.Meal) []models.Meal {
	list := make([]models.Meal, 0, len(meals))
	for _, meal := range meals {
		list = append(list, meal)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}
