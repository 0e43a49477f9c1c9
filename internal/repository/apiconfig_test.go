package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
)

// TestConfigLoadDefault проверяет конфигурацию по умолчанию при пустом хранилище.
func TestConfigLoadDefault(t *testing.T) {
	repo := NewConfigRepository(newMemKV())

	cfg, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CurrentProviderID != providers.DefaultID() {
		t.Fatalf("expected default provider, got %q", cfg.CurrentProviderID)
	}
	if cfg.Providers == nil {
		t.Fatal("expected initialized providers map")
	}
}

// TestConfigLoadMigratesLegacy проверяет перенос однопровайдерного формата.
func TestConfigLoadMigratesLegacy(t *testing.T) {
	kv := newMemKV()
	if err := kv.Put(context.Background(), KeyAPIConfig, []byte(`{"token":"sk-old","model":"gpt-4"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo := NewConfigRepository(kv)
	cfg, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings := cfg.Providers[providers.DefaultID()]
	if settings.Token != "sk-old" || settings.Model != "gpt-4" {
		t.Fatalf("expected migrated credentials, got %+v", settings)
	}
	if cfg.Token != "" || cfg.Model != "" {
		t.Fatalf("expected cleared legacy fields, got %+v", cfg)
	}
}

// TestSetCurrentProvider проверяет переключение провайдера с сохранением
// учетных данных остальных.
func TestSetCurrentProvider(t *testing.T) {
	repo := NewConfigRepository(newMemKV())
	ctx := context.Background()

	if _, err := repo.UpdateProvider(ctx, "groq", models.ProviderSettings{Token: "gsk-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := repo.SetCurrentProvider(ctx, "gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CurrentProviderID != "gemini" {
		t.Fatalf("expected gemini, got %q", cfg.CurrentProviderID)
	}
	if cfg.Providers["groq"].Token != "gsk-1" {
		t.Fatal("expected groq credentials to survive the switch")
	}

	if _, err := repo.SetCurrentProvider(ctx, "unknown"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

// TestUpdateProviderKeepsCachedModels проверяет, что кеш списка моделей
// не сбрасывается при обновлении токена.
func TestUpdateProviderKeepsCachedModels(t *testing.T) {
	repo := NewConfigRepository(newMemKV())
	ctx := context.Background()

	cached := []models.ModelInfo{{ID: "gpt-4o-mini", Name: "GPT-4o mini"}}
	if _, err := repo.UpdateProvider(ctx, "openai", models.ProviderSettings{Token: "sk-1", Models: cached}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := repo.UpdateProvider(ctx, "openai", models.ProviderSettings{Token: "sk-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings := cfg.Providers["openai"]
	if settings.Token != "sk-2" {
		t.Fatalf("expected updated token, got %q", settings.Token)
	}
	if len(settings.Models) != 1 || settings.Models[0].ID != "gpt-4o-mini" {
		t.Fatalf("expected cached models to survive, got %+v", settings.Models)
	}

	if _, err := repo.UpdateProvider(ctx, "unknown", models.ProviderSettings{}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
