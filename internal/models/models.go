package models

import "time"

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// NutrientRecord хранит КБЖУК в пересчете на 100 грамм продукта.
type NutrientRecord struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
}

// NutrientTotals хранит суммарный КБЖУК и общий вес набора ингредиентов.
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Weight   float64 `json:"weight"`
}

// Progress хранит процент выполнения дневных целей по каждому нутриенту.
type Progress struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
	Fiber    int `json:"fiber"`
}

type Ingredient struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Weight  float64        `json:"weight"`
	Per100g NutrientRecord `json:"per_100g"`
}

type Meal struct {
	ID          string       `json:"id"`
	Type        MealType     `json:"type"`
	Ingredients []Ingredient `json:"ingredients"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DayEntry содержит приемы пищи за день и производные поля.
// DailyTotals и ProgressPercentages всегда пересчитываются при мутации,
// запись без приемов пищи в истории не хранится.
type DayEntry struct {
	Meals               map[string]Meal `json:"meals"`
	DailyTotals         NutrientTotals  `json:"daily_totals"`
	ProgressPercentages *Progress       `json:"progress_percentages,omitempty"`
}

// History индексирует дни по календарной дате в формате ISO (2006-01-02).
type History map[string]DayEntry

// SavedDish хранит сохраненное блюдо как шаблон с КБЖУК на 100 грамм.
type SavedDish struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Per100g   NutrientRecord `json:"per_100g"`
	CreatedAt time.Time      `json:"created_at"`
}

type DailyGoals struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"target_calories"`
	Protein        float64 `json:"protein"`
	Fat            float64 `json:"fat"`
	Carbs          float64 `json:"carbs"`
	Fiber          float64 `json:"fiber"`
}

type UserProfile struct {
	Name          string      `json:"name"`
	Gender        string      `json:"gender"`
	Age           int         `json:"age"`
	Weight        float64     `json:"weight"`
	Height        float64     `json:"height"`
	ActivityLevel string      `json:"activity_level"`
	Goal          string      `json:"goal"`
	DailyGoals    *DailyGoals `json:"daily_goals,omitempty"`
}

type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProviderSettings хранит учетные данные одного AI-провайдера.
type ProviderSettings struct {
	Token  string      `json:"token"`
	Model  string      `json:"model"`
	Models []ModelInfo `json:"models,omitempty"`
}

// APIConfig хранит конфигурацию AI-провайдеров. Поля Token, Model и Models
// остались от устаревшего однопровайдерного формата, заполняются только при
// чтении старых данных и переносятся миграцией в Providers.
type APIConfig struct {
	CurrentProviderID string                      `json:"current_provider_id,omitempty"`
	Providers         map[string]ProviderSettings `json:"providers,omitempty"`

	Token  string      `json:"token,omitempty"`
	Model  string      `json:"model,omitempty"`
	Models []ModelInfo `json:"models,omitempty"`
}

// IsValidMealType проверяет, что значение входит в допустимые типы приема пищи.
func IsValidMealType(value MealType) bool {
	switch value {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	default:
		return false
	}
}
