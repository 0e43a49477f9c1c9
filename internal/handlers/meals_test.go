package handlers

import (
	"testing"
)

// TestToIngredients проверяет конвертацию запроса в модель с дефолтным весом.
func TestToIngredients(t *testing.T) {
	requests := []IngredientRequest{
		{Name: "Гречка", Weight: 150, Per100g: NutrientRecordRequest{Calories: 343, Protein: 13.2}},
		{Name: "Масло", Per100g: NutrientRecordRequest{Calories: 900, Fat: 99.8}},
	}

	ingredients := toIngredients(requests)
	if len(ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(ingredients))
	}

	if ingredients[0].Weight != 150 {
		t.Fatalf("expected weight 150, got %v", ingredients[0].Weight)
	}
	if ingredients[0].Per100g.Calories != 343 || ingredients[0].Per100g.Protein != 13.2 {
		t.Fatalf("unexpected per100g: %+v", ingredients[0].Per100g)
	}

	if ingredients[1].Weight != 100 {
		t.Fatalf("expected default weight 100, got %v", ingredients[1].Weight)
	}
}

// TestValidateDateParam проверяет разбор календарной даты.
func TestValidateDateParam(t *testing.T) {
	if err := validateDateParam("2026-08-30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, value := range []string{"", "30-08-2026", "2026-13-01", "сегодня"} {
		if err := validateDateParam(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}
