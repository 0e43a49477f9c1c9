package nutrition

import (
	"testing"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

func dayWith(calories float64, meals int, progress *models.Progress) models.DayEntry {
	entry := models.DayEntry{
		Meals:               map[string]models.Meal{},
		DailyTotals:         models.NutrientTotals{Calories: calories, Protein: 50, Weight: 500},
		ProgressPercentages: progress,
	}
	for i := 0; i < meals; i++ {
		id := string(rune('a' + i))
		entry.Meals[id] = models.Meal{ID: id}
	}
	return entry
}

// TestOverview проверяет сводку за период: суммы, средние и дни в цели.
func TestOverview(t *testing.T) {
	history := models.History{
		"2026-08-28": dayWith(1800, 3, &models.Progress{Calories: 90}),
		"2026-08-29": dayWith(2200, 2, &models.Progress{Calories: 110}),
	}

	goals := &models.DailyGoals{TargetCalories: 2000}
	stats := Overview(history, "", "", goals)

	if stats.Days != 2 || stats.Meals != 5 {
		t.Fatalf("expected 2 days and 5 meals, got %d/%d", stats.Days, stats.Meals)
	}
	if stats.Totals.Calories != 4000 {
		t.Fatalf("expected 4000 kcal, got %v", stats.Totals.Calories)
	}
	if stats.AveragePerDay.Calories != 2000 || stats.AveragePerDay.Protein != 50 {
		t.Fatalf("unexpected averages: %+v", stats.AveragePerDay)
	}
	if stats.DaysOnGoal != 1 {
		t.Fatalf("expected 1 day on goal, got %d", stats.DaysOnGoal)
	}
	if stats.AverageProgress == nil || stats.AverageProgress.Calories != 100 {
		t.Fatalf("unexpected average progress: %+v", stats.AverageProgress)
	}
}

// TestOverviewPeriodBounds проверяет включительные границы периода.
func TestOverviewPeriodBounds(t *testing.T) {
	history := models.History{
		"2026-08-01": dayWith(1000, 1, nil),
		"2026-08-15": dayWith(2000, 1, nil),
		"2026-08-31": dayWith(3000, 1, nil),
	}

	stats := Overview(history, "2026-08-15", "2026-08-31", nil)
	if stats.Days != 2 {
		t.Fatalf("expected 2 days in period, got %d", stats.Days)
	}
	if stats.Totals.Calories != 5000 {
		t.Fatalf("expected 5000 kcal, got %v", stats.Totals.Calories)
	}
	if stats.AverageProgress != nil {
		t.Fatal("expected no average progress without goals")
	}
}

// TestOverviewEmpty проверяет сводку по пустой истории.
func TestOverviewEmpty(t *testing.T) {
	stats := Overview(models.History{}, "", "", nil)
	if stats.Days != 0 || stats.Meals != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
	if stats.AveragePerDay.Calories != 0 {
		t.Fatalf("expected zero averages, got %+v", stats.AveragePerDay)
	}
}
