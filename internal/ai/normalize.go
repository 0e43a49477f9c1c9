package ai

import (
	"strings"

	"github.com/google/uuid"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/nutrition"
)

const defaultWeight = 100

// NormalizeIngredients приводит произвольный ответ AI к списку ингредиентов.
// Вход обязан быть массивом, иначе результат nil. Элементы без непустого
// имени молча отбрасываются, числовые поля выживших проходят через
// nutrition.Coerce, нулевой или отсутствующий вес заменяется на 100 грамм.
// Если не выжил ни один элемент, результат тоже nil: так вызывающий код
// отличает "модель вернула мусор" от валидного ответа.
func NormalizeIngredients(value any) []models.Ingredient {
	candidates, ok := value.([]any)
	if !ok {
		return nil
	}

	ingredients := make([]models.Ingredient, 0, len(candidates))
	for _, candidate := range candidates {
		object, ok := candidate.(map[string]any)
		if !ok {
			continue
		}

		name, _ := object["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		weight := nutrition.Coerce(object["weight"])
		if weight == 0 {
			weight = defaultWeight
		}

		ingredients = append(ingredients, models.Ingredient{
			ID:     uuid.NewString(),
			Name:   name,
			Weight: weight,
			Per100g: models.NutrientRecord{
				Calories: nutrition.Coerce(object["calories"]),
				Protein:  nutrition.Coerce(object["protein"]),
				Fat:      nutrition.Coerce(object["fat"]),
				Carbs:    coerceFirst(object, "carbs", "carbohydrates"),
				Fiber:    nutrition.Coerce(object["fiber"]),
			},
		})
	}

	if len(ingredients) == 0 {
		return nil
	}

	return ingredients
}

// coerceFirst берет первый присутствующий ключ: модели иногда возвращают
// углеводы под полным именем вопреки схеме промпта.
func coerceFirst(object map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if value, ok := object[key]; ok {
			return nutrition.Coerce(value)
		}
	}
	return 0
}
