package repository

import (
	"context"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// ProfileRepository хранит единственный профиль пользователя.
type ProfileRepository struct {
	kv KV
}

// NewProfileRepository создает репозиторий профиля.
func NewProfileRepository(kv KV) *ProfileRepository {
	return &ProfileRepository{kv: kv}
}

// Get возвращает профиль и признак его наличия.
func (r *ProfileRepository) Get(ctx context.Context) (models.UserProfile, bool, error) {
	var profile models.UserProfile
	found, err := loadJSON(ctx, r.kv, KeyUserProfile, &profile)
	if err != nil {
		return models.UserProfile{}, false, err
	}
	return profile, found, nil
}

// Save записывает профиль целиком.
func (r *ProfileRepository) Save(ctx context.Context, profile models.UserProfile) error {
	return saveJSON(ctx, r.kv, KeyUserProfile, profile)
}

// Goals возвращает дневные цели из профиля или nil, если их нет.
// Цели — единственный источник процентов прогресса в дневнике.
func (r *ProfileRepository) Goals(ctx context.Context) (*models.DailyGoals, error) {
	profile, found, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return profile.DailyGoals, nil
}
