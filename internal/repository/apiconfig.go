package repository

import (
	"context"
	"fmt"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
)

// ConfigRepository хранит конфигурацию AI-провайдеров.
type ConfigRepository struct {
	kv KV
}

// NewConfigRepository создает репозиторий конфигурации провайдеров.
func NewConfigRepository(kv KV) *ConfigRepository {
	return &ConfigRepository{kv: kv}
}

// Load читает конфигурацию, мигрируя устаревший однопровайдерный формат.
// Отсутствующее или нечитаемое значение дает конфигурацию по умолчанию.
func (r *ConfigRepository) Load(ctx context.Context) (models.APIConfig, error) {
	var cfg models.APIConfig
	found, err := loadJSON(ctx, r.kv, KeyAPIConfig, &cfg)
	if err != nil {
		return models.APIConfig{}, err
	}
	if !found {
		cfg = models.APIConfig{}
	}

	cfg = providers.MigrateLegacy(cfg)
	if cfg.Providers == nil {
		cfg.Providers = map[string]models.ProviderSettings{}
	}

	return cfg, nil
}

// Save записывает конфигурацию целиком.
func (r *ConfigRepository) Save(ctx context.Context, cfg models.APIConfig) error {
	return saveJSON(ctx, r.kv, KeyAPIConfig, cfg)
}

// SetCurrentProvider переключает активного провайдера. Учетные данные
// остальных провайдеров при переключении сохраняются.
func (r *ConfigRepository) SetCurrentProvider(ctx context.Context, providerID string) (models.APIConfig, error) {
	entry, ok := providers.Lookup(providerID)
	if !ok {
		return models.APIConfig{}, fmt.Errorf("%w: unknown provider %q", ErrInvalid, providerID)
	}

	cfg, err := r.Load(ctx)
	if err != nil {
		return models.APIConfig{}, err
	}

	cfg.CurrentProviderID = entry.ID
	if err := r.Save(ctx, cfg); err != nil {
		return models.APIConfig{}, err
	}

	return cfg, nil
}

// UpdateProvider обновляет учетные данные одного провайдера.
func (r *ConfigRepository) UpdateProvider(ctx context.Context, providerID string, settings models.ProviderSettings) (models.APIConfig, error) {
	entry, ok := providers.Lookup(providerID)
	if !ok {
		return models.APIConfig{}, fmt.Errorf("%w: unknown provider %q", ErrInvalid, providerID)
	}

	cfg, err := r.Load(ctx)
	if err != nil {
		return models.APIConfig{}, err
	}

	if settings.Models == nil {
		settings.Models = cfg.Providers[entry.ID].Models
	}
	cfg.Providers[entry.ID] = settings

	if err := r.Save(ctx, cfg); err != nil {
		return models.APIConfig{}, err
	}

	return cfg, nil
}
