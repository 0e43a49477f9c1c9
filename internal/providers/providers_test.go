package providers

import (
	"reflect"
	"testing"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// TestResolveKnownProvider проверяет сборку параметров известного провайдера.
func TestResolveKnownProvider(t *testing.T) {
	cfg := models.APIConfig{
		CurrentProviderID: "groq",
		Providers: map[string]models.ProviderSettings{
			"groq": {Token: "secret", Model: "llama-3.3-70b"},
		},
	}

	resolved := Resolve(cfg, "groq")

	if resolved.ProviderID != "groq" {
		t.Fatalf("expected groq, got %s", resolved.ProviderID)
	}
	if resolved.BaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected base url: %s", resolved.BaseURL)
	}
	if resolved.Token != "secret" || resolved.Model != "llama-3.3-70b" {
		t.Fatalf("unexpected credentials: %+v", resolved)
	}
	if resolved.Kind != KindOpenAI {
		t.Fatalf("expected openai kind, got %s", resolved.Kind)
	}
}

// TestResolveUnknownProviderFallsBack проверяет откат к первой записи реестра.
func TestResolveUnknownProviderFallsBack(t *testing.T) {
	resolved := Resolve(models.APIConfig{}, "does-not-exist")

	if resolved.ProviderID != Registry[0].ID {
		t.Fatalf("expected fallback to %s, got %s", Registry[0].ID, resolved.ProviderID)
	}
	if resolved.Model != Registry[0].DefaultModel {
		t.Fatalf("expected default model, got %s", resolved.Model)
	}
}

// TestResolveEmptyModelUsesDefault проверяет подстановку модели из реестра.
func TestResolveEmptyModelUsesDefault(t *testing.T) {
	cfg := models.APIConfig{
		Providers: map[string]models.ProviderSettings{
			"gemini": {Token: "key"},
		},
	}

	resolved := Resolve(cfg, "gemini")
	if resolved.Model != "gemini-1.5-flash" {
		t.Fatalf("expected registry default model, got %s", resolved.Model)
	}
}

// TestMigrateLegacy проверяет перенос старого формата конфигурации.
func TestMigrateLegacy(t *testing.T) {
	legacy := models.APIConfig{
		Token:  "t",
		Model:  "m",
		Models: []models.ModelInfo{{ID: "m", Name: "M"}},
	}

	migrated := MigrateLegacy(legacy)

	if migrated.CurrentProviderID != DefaultID() {
		t.Fatalf("expected default provider, got %s", migrated.CurrentProviderID)
	}
	settings, ok := migrated.Providers[DefaultID()]
	if !ok {
		t.Fatal("expected default provider entry")
	}
	if settings.Token != "t" || settings.Model != "m" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if migrated.Token != "" || migrated.Model != "" || migrated.Models != nil {
		t.Fatalf("legacy fields must be cleared: %+v", migrated)
	}
}

// TestMigrateLegacyIdempotent проверяет идемпотентность миграции.
func TestMigrateLegacyIdempotent(t *testing.T) {
	legacy := models.APIConfig{Token: "t", Model: "m"}

	once := MigrateLegacy(legacy)
	twice := MigrateLegacy(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotent migration: %+v vs %+v", once, twice)
	}
}

// TestMigrateLegacyPassThrough проверяет, что современный формат не меняется.
func TestMigrateLegacyPassThrough(t *testing.T) {
	modern := models.APIConfig{
		CurrentProviderID: "gemini",
		Providers: map[string]models.ProviderSettings{
			"gemini": {Token: "key", Model: "gemini-1.5-pro"},
			"groq":   {Token: "other", Model: "llama-3.1-8b-instant"},
		},
	}

	migrated := MigrateLegacy(modern)
	if !reflect.DeepEqual(modern, migrated) {
		t.Fatalf("expected pass-through, got %+v", migrated)
	}

	// Переключение текущего провайдера не стирает чужие учетные данные.
	migrated.CurrentProviderID = "groq"
	if migrated.Providers["gemini"].Token != "key" {
		t.Fatal("expected gemini credentials to survive provider switch")
	}
}
