package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// DishRepository хранит библиотеку сохраненных блюд.
type DishRepository struct {
	kv KV
}

// NewDishRepository создает репозиторий сохраненных блюд.
func NewDishRepository(kv KV) *DishRepository {
	return &DishRepository{kv: kv}
}

// List возвращает все сохраненные блюда.
func (r *DishRepository) List(ctx context.Context) ([]models.SavedDish, error) {
	dishes := []models.SavedDish{}
	if _, err := loadJSON(ctx, r.kv, KeySavedDishes, &dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

// Create добавляет блюдо в библиотеку.
func (r *DishRepository) Create(ctx context.Context, name string, per100g models.NutrientRecord) (models.SavedDish, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.SavedDish{}, fmt.Errorf("%w: dish name is required", ErrInvalid)
	}

	dishes, err := r.List(ctx)
	if err != nil {
		return models.SavedDish{}, err
	}

	dish := models.SavedDish{
		ID:        uuid.NewString(),
		Name:      name,
		Per100g:   per100g,
		CreatedAt: time.Now().UTC(),
	}
	dishes = append(dishes, dish)

	if err := saveJSON(ctx, r.kv, KeySavedDishes, dishes); err != nil {
		return models.SavedDish{}, err
	}

	return dish, nil
}

// Delete удаляет блюдо по идентификатору.
func (r *DishRepository) Delete(ctx context.Context, id string) error {
	dishes, err := r.List(ctx)
	if err != nil {
		return err
	}

	filtered := dishes[:0]
	for _, dish := range dishes {
		if dish.ID != id {
			filtered = append(filtered, dish)
		}
	}

	if len(filtered) == len(dishes) {
		return ErrNotFound
	}

	return saveJSON(ctx, r.kv, KeySavedDishes, filtered)
}
