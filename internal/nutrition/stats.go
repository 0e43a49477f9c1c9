package nutrition

import (
	"sort"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// OverviewStats описывает сводку за период по данным дневника.
type OverviewStats struct {
	Days            int                   `json:"days"`
	Meals           int                   `json:"meals"`
	Totals          models.NutrientTotals `json:"totals"`
	AveragePerDay   models.NutrientTotals `json:"average_per_day"`
	DaysOnGoal      int                   `json:"days_on_goal"`
	AverageProgress *models.Progress      `json:"average_progress,omitempty"`
}

// Overview возвращает сводную статистику по дневнику за период.
// Границы from и to включительны; пустая граница не применяется.
// Днем "в цели" считается день, где калории в пределах 100% цели.
func Overview(history models.History, from, to string, goals *models.DailyGoals) OverviewStats {
	stats := OverviewStats{}

	dates := make([]string, 0, len(history))
	for date := range history {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var progressSum models.Progress
	progressDays := 0

	for _, date := range dates {
		entry := history[date]
		stats.Days++
		stats.Meals += len(entry.Meals)

		stats.Totals.Calories += entry.DailyTotals.Calories
		stats.Totals.Protein += entry.DailyTotals.Protein
		stats.Totals.Fat += entry.DailyTotals.Fat
		stats.Totals.Carbs += entry.DailyTotals.Carbs
		stats.Totals.Fiber += entry.DailyTotals.Fiber
		stats.Totals.Weight += entry.DailyTotals.Weight

		progress := entry.ProgressPercentages
		if progress == nil {
			progress = Progress(entry.DailyTotals, goals)
		}
		if progress != nil {
			progressDays++
			progressSum.Calories += progress.Calories
			progressSum.Protein += progress.Protein
			progressSum.Fat += progress.Fat
			progressSum.Carbs += progress.Carbs
			progressSum.Fiber += progress.Fiber
			if progress.Calories > 0 && progress.Calories <= 100 {
				stats.DaysOnGoal++
			}
		}
	}

	if stats.Days > 0 {
		divisor := float64(stats.Days)
		stats.AveragePerDay = RoundTotals(models.NutrientTotals{
			Calories: stats.Totals.Calories / divisor,
			Protein:  stats.Totals.Protein / divisor,
			Fat:      stats.Totals.Fat / divisor,
			Carbs:    stats.Totals.Carbs / divisor,
			Fiber:    stats.Totals.Fiber / divisor,
			Weight:   stats.Totals.Weight / divisor,
		})
	}

	if progressDays > 0 {
		stats.AverageProgress = &models.Progress{
			Calories: progressSum.Calories / progressDays,
			Protein:  progressSum.Protein / progressDays,
			Fat:      progressSum.Fat / progressDays,
			Carbs:    progressSum.Carbs / progressDays,
			Fiber:    progressSum.Fiber / progressDays,
		}
	}

	stats.Totals = RoundTotals(stats.Totals)
	return stats
}
