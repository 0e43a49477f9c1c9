package providers

import (
	"strings"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// MigrateLegacy переписывает устаревшую однопровайдерную конфигурацию
// {token, model, models} в многопровайдерную форму, относя учетные данные к
// провайдеру по умолчанию. Признак старого формата — токен и модель на
// верхнем уровне при пустой карте провайдеров; такое определение по форме
// сохранено ради уже записанных данных. Современные конфигурации проходят
// без изменений, повторный вызов результата не меняет.
func MigrateLegacy(cfg models.APIConfig) models.APIConfig {
	legacy := strings.TrimSpace(cfg.Token) != "" &&
		strings.TrimSpace(cfg.Model) != "" &&
		len(cfg.Providers) == 0

	if !legacy {
		if cfg.CurrentProviderID == "" {
			cfg.CurrentProviderID = DefaultID()
		}
		cfg.Token = ""
		cfg.Model = ""
		cfg.Models = nil
		return cfg
	}

	migrated := models.APIConfig{
		CurrentProviderID: DefaultID(),
		Providers: map[string]models.ProviderSettings{
			DefaultID(): {
				Token:  strings.TrimSpace(cfg.Token),
				Model:  strings.TrimSpace(cfg.Model),
				Models: cfg.Models,
			},
		},
	}

	return migrated
}
