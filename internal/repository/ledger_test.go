package repository

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

type memKV struct {
	values map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{values: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func testIngredients() []models.Ingredient {
	return []models.Ingredient{
		{
			Name:   "chicken breast",
			Weight: 150,
			Per100g: models.NutrientRecord{
				Calories: 165,
				Protein:  31,
				Fat:      3.6,
			},
		},
		{
			Name:   "cucumber",
			Weight: 70,
			Per100g: models.NutrientRecord{
				Calories: 15,
				Carbs:    3.6,
				Fiber:    0.5,
			},
		},
	}
}

// TestRecordMealComputesTotals проверяет пересчет итогов дня при записи.
func TestRecordMealComputesTotals(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()

	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeLunch, testIngredients(), nil); err != nil {
		t.Fatalf("record meal: %v", err)
	}

	entry, err := ledger.Day(ctx, "2024-05-01", nil)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}

	// round(165*1.5) + round(15*0.7) = 248 + 11
	if entry.DailyTotals.Calories != 259 {
		t.Fatalf("expected 259 calories, got %v", entry.DailyTotals.Calories)
	}
	if entry.DailyTotals.Weight != 220 {
		t.Fatalf("expected weight 220, got %v", entry.DailyTotals.Weight)
	}
	if entry.DailyTotals.Protein != 46.5 {
		t.Fatalf("expected protein 46.5, got %v", entry.DailyTotals.Protein)
	}
	if entry.ProgressPercentages != nil {
		t.Fatal("expected no progress without goals")
	}
}

// TestRecordMealWithGoals проверяет заполнение прогресса при наличии целей.
func TestRecordMealWithGoals(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()
	goals := &models.DailyGoals{TargetCalories: 2000, Protein: 93}

	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeDinner, testIngredients(), goals); err != nil {
		t.Fatalf("record meal: %v", err)
	}

	entry, err := ledger.Day(ctx, "2024-05-01", goals)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}

	if entry.ProgressPercentages == nil {
		t.Fatal("expected progress with goals")
	}
	if entry.ProgressPercentages.Calories != 13 {
		t.Fatalf("expected 13%% calories, got %d", entry.ProgressPercentages.Calories)
	}
	if entry.ProgressPercentages.Protein != 50 {
		t.Fatalf("expected 50%% protein, got %d", entry.ProgressPercentages.Protein)
	}
}

// TestRecordMealValidation проверяет отклонение некорректного ввода.
func TestRecordMealValidation(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()

	if _, err := ledger.RecordMeal(ctx, "01.05.2024", models.MealTypeLunch, testIngredients(), nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for date, got %v", err)
	}
	if _, err := ledger.RecordMeal(ctx, "2024-05-01", "brunch", testIngredients(), nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for meal type, got %v", err)
	}
	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeLunch, nil, nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty ingredients, got %v", err)
	}
}

// TestRemoveLastMealDeletesDay проверяет инвариант "нет пустых дней".
func TestRemoveLastMealDeletesDay(t *testing.T) {
	kv := newMemKV()
	ledger := NewLedgerStore(kv)
	ctx := context.Background()

	meal, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeBreakfast, testIngredients(), nil)
	if err != nil {
		t.Fatalf("record meal: %v", err)
	}

	if err := ledger.RemoveMeal(ctx, "2024-05-01", meal.ID, nil); err != nil {
		t.Fatalf("remove meal: %v", err)
	}

	history, err := ledger.History(ctx, nil)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if _, ok := history["2024-05-01"]; ok {
		t.Fatal("expected date key to be removed with the last meal")
	}
	if _, ok := kv.values[KeyMealHistory]; ok {
		t.Fatal("expected empty history key to be deleted from the store")
	}
}

// TestRemoveMealRecomputes проверяет пересчет после удаления приема пищи.
func TestRemoveMealRecomputes(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()

	first, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeBreakfast, testIngredients(), nil)
	if err != nil {
		t.Fatalf("record first meal: %v", err)
	}
	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeLunch, testIngredients(), nil); err != nil {
		t.Fatalf("record second meal: %v", err)
	}

	if err := ledger.RemoveMeal(ctx, "2024-05-01", first.ID, nil); err != nil {
		t.Fatalf("remove meal: %v", err)
	}

	entry, err := ledger.Day(ctx, "2024-05-01", nil)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if len(entry.Meals) != 1 {
		t.Fatalf("expected one meal, got %d", len(entry.Meals))
	}
	if entry.DailyTotals.Calories != 259 {
		t.Fatalf("expected totals of the remaining meal, got %v", entry.DailyTotals.Calories)
	}
}

// TestRemoveMealNotFound проверяет ошибку при удалении несуществующего.
func TestRemoveMealNotFound(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()

	if err := ledger.RemoveMeal(ctx, "2024-05-01", "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestClearDay проверяет безусловное удаление дня.
func TestClearDay(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()

	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeSnack, testIngredients(), nil); err != nil {
		t.Fatalf("record meal: %v", err)
	}

	if err := ledger.ClearDay(ctx, "2024-05-01"); err != nil {
		t.Fatalf("clear day: %v", err)
	}
	if err := ledger.ClearDay(ctx, "2024-05-01"); err != nil {
		t.Fatalf("clear day must be idempotent: %v", err)
	}

	if _, err := ledger.Day(ctx, "2024-05-01", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

// TestMigrateOnLoad проверяет дозаполнение прогресса и идемпотентность.
func TestMigrateOnLoad(t *testing.T) {
	goals := &models.DailyGoals{TargetCalories: 2000}
	existing := &models.Progress{Calories: 42}

	history := models.History{
		"2024-04-01": {
			Meals:       map[string]models.Meal{"a": {ID: "a", Type: models.MealTypeLunch}},
			DailyTotals: models.NutrientTotals{Calories: 500},
		},
		"2024-04-02": {
			Meals:               map[string]models.Meal{"b": {ID: "b", Type: models.MealTypeDinner}},
			DailyTotals:         models.NutrientTotals{Calories: 1000},
			ProgressPercentages: existing,
		},
	}

	migrated := MigrateOnLoad(history, goals)

	if migrated["2024-04-01"].ProgressPercentages == nil {
		t.Fatal("expected backfilled progress")
	}
	if migrated["2024-04-01"].ProgressPercentages.Calories != 25 {
		t.Fatalf("expected 25%%, got %d", migrated["2024-04-01"].ProgressPercentages.Calories)
	}
	if migrated["2024-04-02"].ProgressPercentages != existing {
		t.Fatal("expected already migrated entry to be left untouched")
	}
	if migrated["2024-04-01"].DailyTotals.Calories != 500 {
		t.Fatal("migration must not touch daily totals")
	}

	again := MigrateOnLoad(migrated, goals)
	if !reflect.DeepEqual(migrated, again) {
		t.Fatal("expected idempotent migration")
	}
}

// TestHistoryDiscardsCorruptBlob проверяет устойчивость к битым данным.
func TestHistoryDiscardsCorruptBlob(t *testing.T) {
	kv := newMemKV()
	kv.values[KeyMealHistory] = []byte("{not json")

	ledger := NewLedgerStore(kv)
	history, err := ledger.History(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected corrupt blob to be discarded, got %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}
}

// TestHistoryRoundTrip проверяет сохранение истории без потерь.
func TestHistoryRoundTrip(t *testing.T) {
	kv := newMemKV()
	ledger := NewLedgerStore(kv)
	ctx := context.Background()

	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeLunch, testIngredients(), nil); err != nil {
		t.Fatalf("record meal: %v", err)
	}

	saved, err := ledger.History(ctx, nil)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}

	raw, err := json.Marshal(saved)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored models.History
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(saved, restored) {
		t.Fatalf("round-trip mismatch:\n%+v\n%+v", saved, restored)
	}
}

// TestExportRows проверяет развертку истории в строки по убыванию даты.
func TestExportRows(t *testing.T) {
	ledger := NewLedgerStore(newMemKV())
	ctx := context.Background()

	if _, err := ledger.RecordMeal(ctx, "2024-05-01", models.MealTypeLunch, testIngredients(), nil); err != nil {
		t.Fatalf("record meal: %v", err)
	}
	if _, err := ledger.RecordMeal(ctx, "2024-05-03", models.MealTypeBreakfast, testIngredients()[:1], nil); err != nil {
		t.Fatalf("record meal: %v", err)
	}

	history, err := ledger.History(ctx, nil)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}

	rows := ExportRows(history)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Date != "2024-05-03" {
		t.Fatalf("expected newest date first, got %s", rows[0].Date)
	}
	if rows[0].Calories != 248 {
		t.Fatalf("expected 248 calories, got %v", rows[0].Calories)
	}
	if rows[1].Date != "2024-05-01" || rows[2].Date != "2024-05-01" {
		t.Fatal("expected older rows after newer ones")
	}
	if rows[0].Protein != 46.5 {
		t.Fatalf("expected protein 46.5, got %v", rows[0].Protein)
	}
}
