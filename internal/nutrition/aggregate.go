package nutrition

import (
	"math"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// Totals суммирует КБЖУК набора ингредиентов, масштабируя значения на 100 г
// по весу каждого ингредиента. Калории округляются до целого на каждом
// ингредиенте до суммирования: так считала историческая версия приложения,
// и изменение порядка округления сломало бы воспроизводимость старых итогов.
// Остальные макронутриенты накапливаются без округления.
func Totals(ingredients []models.Ingredient) models.NutrientTotals {
	var totals models.NutrientTotals

	for _, ingredient := range ingredients {
		factor := ingredient.Weight / 100

		totals.Calories += math.Round(ingredient.Per100g.Calories * factor)
		totals.Protein += ingredient.Per100g.Protein * factor
		totals.Fat += ingredient.Per100g.Fat * factor
		totals.Carbs += ingredient.Per100g.Carbs * factor
		totals.Fiber += ingredient.Per100g.Fiber * factor
		totals.Weight += ingredient.Weight
	}

	return totals
}

// Per100g пересчитывает суммарный КБЖУК набора на 100 грамм готового блюда.
// При нулевом общем весе возвращается нулевая запись.
func Per100g(ingredients []models.Ingredient) models.NutrientRecord {
	totals := Totals(ingredients)
	if totals.Weight == 0 {
		return models.NutrientRecord{}
	}

	factor := 100 / totals.Weight
	return models.NutrientRecord{
		Calories: totals.Calories * factor,
		Protein:  totals.Protein * factor,
		Fat:      totals.Fat * factor,
		Carbs:    totals.Carbs * factor,
		Fiber:    totals.Fiber * factor,
	}
}

// Progress возвращает процент выполнения дневных целей. Без целей результат
// nil. Нулевая цель означает "нет цели", а не деление на ноль и не мгновенные
// 100%, поэтому для нее процент равен 0.
func Progress(totals models.NutrientTotals, goals *models.DailyGoals) *models.Progress {
	if goals == nil {
		return nil
	}

	return &models.Progress{
		Calories: percentOf(totals.Calories, goals.TargetCalories),
		Protein:  percentOf(totals.Protein, goals.Protein),
		Fat:      percentOf(totals.Fat, goals.Fat),
		Carbs:    percentOf(totals.Carbs, goals.Carbs),
		Fiber:    percentOf(totals.Fiber, goals.Fiber),
	}
}

func percentOf(actual, goal float64) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(100 * actual / goal))
}

// Round1 округляет значение до одного знака после запятой. Применяется к
// макронутриентам только на границе хранения и отображения.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// RoundTotals приводит итоги к виду, в котором они сохраняются: калории уже
// целые, остальные поля округляются до одного знака.
func RoundTotals(totals models.NutrientTotals) models.NutrientTotals {
	return models.NutrientTotals{
		Calories: totals.Calories,
		Protein:  Round1(totals.Protein),
		Fat:      Round1(totals.Fat),
		Carbs:    Round1(totals.Carbs),
		Fiber:    Round1(totals.Fiber),
		Weight:   Round1(totals.Weight),
	}
}
