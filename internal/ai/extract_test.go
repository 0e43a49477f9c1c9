package ai

import (
	"strings"
	"testing"
)

// TestParseJSONDirect проверяет прямой разбор чистого JSON.
func TestParseJSONDirect(t *testing.T) {
	var decoded map[string]any
	if err := parseJSON(`{"calories": 52}`, &decoded); err != nil {
		t.Fatalf("expected direct parse, got %v", err)
	}
	if decoded["calories"] != 52.0 {
		t.Fatalf("unexpected value: %v", decoded["calories"])
	}
}

// TestParseJSONWrappedInProse проверяет вырезание объекта из прозы.
func TestParseJSONWrappedInProse(t *testing.T) {
	input := `Here are the nutrition facts you asked for: {"calories": 52, "protein": 0.3} Hope this helps!`

	var decoded map[string]any
	if err := parseJSON(input, &decoded); err != nil {
		t.Fatalf("expected fallback parse, got %v", err)
	}
	if decoded["protein"] != 0.3 {
		t.Fatalf("unexpected value: %v", decoded["protein"])
	}
}

// TestParseJSONCodeFence проверяет срезание код-блока перед разбором.
func TestParseJSONCodeFence(t *testing.T) {
	input := "```json\n{\"calories\": 89}\n```"

	var decoded map[string]any
	if err := parseJSON(input, &decoded); err != nil {
		t.Fatalf("expected fenced parse, got %v", err)
	}
	if decoded["calories"] != 89.0 {
		t.Fatalf("unexpected value: %v", decoded["calories"])
	}
}

// TestParseJSONArray проверяет вырезание массива из прозы.
func TestParseJSONArray(t *testing.T) {
	input := `Sure! [{"name": "apple", "weight": 150}] Let me know if you need more.`

	var decoded any
	if err := parseJSON(input, &decoded); err != nil {
		t.Fatalf("expected array parse, got %v", err)
	}
	items, ok := decoded.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one-element array, got %v", decoded)
	}
}

// TestParseJSONUnparsable проверяет ошибку с исходным текстом внутри.
func TestParseJSONUnparsable(t *testing.T) {
	var decoded map[string]any
	err := parseJSON("sorry, I cannot help with that", &decoded)
	if err == nil {
		t.Fatal("expected error for non-json response")
	}
	if !strings.Contains(err.Error(), "sorry, I cannot help") {
		t.Fatalf("expected original text in error, got %v", err)
	}
}

// TestExtractJSONPrefersEarlierValue проверяет выбор первой структуры в тексте.
func TestExtractJSONPrefersEarlierValue(t *testing.T) {
	got := extractJSON(`note [1, 2] and {"a": 1}`)
	if got != "[1, 2]" {
		t.Fatalf("expected array slice, got %q", got)
	}
}
