package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/nutrition"
)

const dateLayout = "2006-01-02"

// LedgerStore владеет историей приемов пищи. Все мутации проходят через его
// методы: каждая операция пересчитывает производные поля дня целиком и
// сохраняет историю до возврата, поэтому сериализованная форма всегда
// согласована с инвариантами (день без приемов пищи не хранится,
// daily_totals и progress_percentages соответствуют составу дня).
type LedgerStore struct {
	kv KV
}

// NewLedgerStore создает хранилище истории приемов пищи.
func NewLedgerStore(kv KV) *LedgerStore {
	return &LedgerStore{kv: kv}
}

// History загружает историю и мигрирует записи без процентов прогресса.
func (l *LedgerStore) History(ctx context.Context, goals *models.DailyGoals) (models.History, error) {
	history := models.History{}
	if _, err := loadJSON(ctx, l.kv, KeyMealHistory, &history); err != nil {
		return nil, err
	}

	return MigrateOnLoad(history, goals), nil
}

// Day возвращает запись дня.
func (l *LedgerStore) Day(ctx context.Context, date string, goals *models.DailyGoals) (models.DayEntry, error) {
	history, err := l.History(ctx, goals)
	if err != nil {
		return models.DayEntry{}, err
	}

	entry, ok := history[date]
	if !ok {
		return models.DayEntry{}, ErrNotFound
	}

	return entry, nil
}

// RecordMeal добавляет прием пищи, создавая запись дня при необходимости.
// Итоги и прогресс пересчитываются по всем ингредиентам дня, а не по дельте:
// это выравнивает день даже после ручных правок предыдущих записей.
func (l *LedgerStore) RecordMeal(ctx context.Context, date string, mealType models.MealType, ingredients []models.Ingredient, goals *models.DailyGoals) (models.Meal, error) {
	if err := validateDate(date); err != nil {
		return models.Meal{}, err
	}
	if !models.IsValidMealType(mealType) {
		return models.Meal{}, fmt.Errorf("%w: unknown meal type %q", ErrInvalid, mealType)
	}
	if len(ingredients) == 0 {
		return models.Meal{}, fmt.Errorf("%w: meal has no ingredients", ErrInvalid)
	}

	history, err := l.History(ctx, goals)
	if err != nil {
		return models.Meal{}, err
	}

	meal := models.Meal{
		ID:          uuid.NewString(),
		Type:        mealType,
		Ingredients: withIngredientIDs(ingredients),
		CreatedAt:   time.Now().UTC(),
	}

	entry := history[date]
	if entry.Meals == nil {
		entry.Meals = map[string]models.Meal{}
	}
	entry.Meals[meal.ID] = meal

	history[date] = recompute(entry, goals)

	if err := l.save(ctx, history); err != nil {
		return models.Meal{}, err
	}

	return meal, nil
}

// RemoveMeal удаляет прием пищи. Последний прием пищи дня удаляет запись
// дня целиком: пустые дни в истории не живут.
func (l *LedgerStore) RemoveMeal(ctx context.Context, date, mealID string, goals *models.DailyGoals) error {
	history, err := l.History(ctx, goals)
	if err != nil {
		return err
	}

	entry, ok := history[date]
	if !ok {
		return ErrNotFound
	}
	if _, ok := entry.Meals[mealID]; !ok {
		return ErrNotFound
	}

	delete(entry.Meals, mealID)
	if len(entry.Meals) == 0 {
		delete(history, date)
	} else {
		history[date] = recompute(entry, goals)
	}

	return l.save(ctx, history)
}

// ClearDay удаляет запись дня. Операция идемпотентна.
func (l *LedgerStore) ClearDay(ctx context.Context, date string) error {
	history, err := l.History(ctx, nil)
	if err != nil {
		return err
	}

	if _, ok := history[date]; !ok {
		return nil
	}

	delete(history, date)
	return l.save(ctx, history)
}

// MigrateOnLoad дополняет записи, сохраненные до появления целей, процентами
// прогресса, пересчитанными из сохраненных daily_totals. Уже мигрированные
// записи не изменяются, daily_totals миграция не трогает, повторный запуск
// дает тот же результат.
func MigrateOnLoad(history models.History, goals *models.DailyGoals) models.History {
	if goals == nil {
		return history
	}

	for date, entry := range history {
		if entry.ProgressPercentages != nil {
			continue
		}
		entry.ProgressPercentages = nutrition.Progress(entry.DailyTotals, goals)
		history[date] = entry
	}

	return history
}

// ExportRow описывает одну строку плоской выгрузки дневника.
type ExportRow struct {
	Date           string  `json:"date"`
	MealType       string  `json:"meal_type"`
	IngredientName string  `json:"ingredient_name"`
	Weight         float64 `json:"weight"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Fat            float64 `json:"fat"`
	Carbs          float64 `json:"carbs"`
	Fiber          float64 `json:"fiber"`
}

// ExportRows разворачивает историю в плоский список строк по ингредиентам,
// отсортированный по дате по убыванию. Приемы пищи внутри дня идут в порядке
// создания, значения нутриентов пересчитаны на фактический вес.
func ExportRows(history models.History) []ExportRow {
	dates := make([]string, 0, len(history))
	for date := range history {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	rows := make([]ExportRow, 0)
	for _, date := range dates {
		for _, meal := range sortedMeals(history[date].Meals) {
			for _, ingredient := range meal.Ingredients {
				factor := ingredient.Weight / 100
				rows = append(rows, ExportRow{
					Date:           date,
					MealType:       string(meal.Type),
					IngredientName: ingredient.Name,
					Weight:         ingredient.Weight,
					Calories:       math.Round(ingredient.Per100g.Calories * factor),
					Protein:        nutrition.Round1(ingredient.Per100g.Protein * factor),
					Fat:            nutrition.Round1(ingredient.Per100g.Fat * factor),
					Carbs:          nutrition.Round1(ingredient.Per100g.Carbs * factor),
					Fiber:          nutrition.Round1(ingredient.Per100g.Fiber * factor),
				})
			}
		}
	}

	return rows
}

func (l *LedgerStore) save(ctx context.Context, history models.History) error {
	if len(history) == 0 {
		return l.kv.Delete(ctx, KeyMealHistory)
	}
	return saveJSON(ctx, l.kv, KeyMealHistory, history)
}

func recompute(entry models.DayEntry, goals *models.DailyGoals) models.DayEntry {
	all := make([]models.Ingredient, 0)
	for _, meal := range entry.Meals {
		all = append(all, meal.Ingredients...)
	}

	entry.DailyTotals = nutrition.RoundTotals(nutrition.Totals(all))
	entry.ProgressPercentages = nutrition.Progress(entry.DailyTotals, goals)
	return entry
}

func sortedMeals(meals map[string]models.Meal) []models.Meal {
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

func withIngredientIDs(ingredients []models.Ingredient) []models.Ingredient {
	out := make([]models.Ingredient, len(ingredients))
	copy(out, ingredients)
	for i := range out {
		if strings.TrimSpace(out[i].ID) == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalid)
	}
	return nil
}
