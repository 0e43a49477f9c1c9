package providers

import (
	"strings"

	"github.com/prepod2003/calorai-calc-ai/internal/models"
)

// Kind определяет протокол общения с провайдером.
type Kind string

const (
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
)

// Entry описывает запись статического реестра провайдеров.
type Entry struct {
	ID           string
	Title        string
	Kind         Kind
	BaseURL      string
	DefaultModel string
}

// Registry хранит поддерживаемые провайдеры в фиксированном порядке.
// Первый элемент служит провайдером по умолчанию, в том числе при миграции
// устаревшей однопровайдерной конфигурации. Базовые адреса не редактируются
// пользователем.
var Registry = []Entry{
	{
		ID:           "openai",
		Title:        "OpenAI",
		Kind:         KindOpenAI,
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-4o-mini",
	},
	{
		ID:           "groq",
		Title:        "Groq",
		Kind:         KindOpenAI,
		BaseURL:      "https://api.groq.com/openai/v1",
		DefaultModel: "llama-3.1-8b-instant",
	},
	{
		ID:           "gemini",
		Title:        "Google Gemini",
		Kind:         KindGemini,
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		DefaultModel: "gemini-1.5-flash",
	},
	{
		ID:           "openrouter",
		Title:        "OpenRouter",
		Kind:         KindOpenAI,
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: "openai/gpt-4o-mini",
	},
}

// Resolved содержит все, что нужно для вызова провайдера.
type Resolved struct {
	ProviderID string
	Kind       Kind
	BaseURL    string
	Token      string
	Model      string
	Models     []models.ModelInfo
}

// DefaultID возвращает идентификатор провайдера по умолчанию.
func DefaultID() string {
	return Registry[0].ID
}

// Lookup ищет запись реестра по идентификатору.
func Lookup(providerID string) (Entry, bool) {
	id := strings.TrimSpace(strings.ToLower(providerID))
	for _, entry := range Registry {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

// Resolve собирает параметры вызова провайдера из сохраненной конфигурации
// и статического реестра. Неизвестный провайдер откатывается к первой записи
// реестра; пустая модель берется из реестра.
func Resolve(cfg models.APIConfig, providerID string) Resolved {
	entry, ok := Lookup(providerID)
	if !ok {
		entry = Registry[0]
	}

	settings := cfg.Providers[entry.ID]
	model := strings.TrimSpace(settings.Model)
	if model == "" {
		model = entry.DefaultModel
	}

	return Resolved{
		ProviderID: entry.ID,
		Kind:       entry.Kind,
		BaseURL:    entry.BaseURL,
		Token:      strings.TrimSpace(settings.Token),
		Model:      model,
		Models:     settings.Models,
	}
}
