package handlers

import (
	"testing"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
	"github.com/prepod2003/calorai-calc-ai/internal/providers"
)

// TestBuildSettingsResponse проверяет сборку ответа настроек: токены наружу
// не отдаются, пустой текущий провайдер заменяется провайдером по умолчанию.
func TestBuildSettingsResponse(t *testing.T) {
	cfg := models.APIConfig{
		Providers: map[string]models.ProviderSettings{
			"groq": {Token: "secret", Model: "llama-3.3-70b-versatile"},
		},
	}

	response := buildSettingsResponse(cfg)

	if response.CurrentProviderID != providers.DefaultID() {
		t.Fatalf("expected default provider, got %q", response.CurrentProviderID)
	}
	if len(response.Providers) != len(providers.Registry) {
		t.Fatalf("expected %d providers, got %d", len(providers.Registry), len(response.Providers))
	}

	for _, info := range response.Providers {
		if info.ID != "groq" {
			continue
		}
		if !info.HasToken {
			t.Fatal("expected has_token for groq")
		}
		if info.Model != "llama-3.3-70b-versatile" {
			t.Fatalf("unexpected model: %q", info.Model)
		}
	}
}

// TestBuildSettingsResponseKeepsCurrent проверяет, что выбранный провайдер
// не перетирается.
func TestBuildSettingsResponseKeepsCurrent(t *testing.T) {
	cfg := models.APIConfig{CurrentProviderID: "gemini"}

	response := buildSettingsResponse(cfg)
	if response.CurrentProviderID != "gemini" {
		t.Fatalf("expected gemini, got %q", response.CurrentProviderID)
	}
}
