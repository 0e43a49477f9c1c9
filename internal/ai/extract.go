package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse возвращается, когда ответ модели не удалось разобрать
// как JSON ожидаемой формы.
var ErrMalformedResponse = errors.New("malformed ai response")

// parseJSON разбирает ответ модели в target. Сначала пробуется прямой разбор:
// модель просят отвечать чистым JSON, но ответ может прийти обернутым в прозу
// или код-блок. Тогда из текста вырезается первый JSON-объект или массив и
// разбирается он. Если не удалось и это, ошибка несет исходный текст для
// диагностики.
func parseJSON(input string, target any) error {
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	payload := extractJSON(input)
	if payload == "" {
		return fmt.Errorf("%w: no json found in %q", ErrMalformedResponse, truncate(input, 300))
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("%w: invalid json in %q", ErrMalformedResponse, truncate(input, 300))
	}

	return nil
}

// extractJSON вырезает из текста первый JSON-объект или массив: код-блоки
// срезаются, затем берется подстрока от первой открывающей скобки до
// последней парной закрывающей.
func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	objStart := strings.Index(trimmed, "{")
	arrStart := strings.Index(trimmed, "[")

	start, closer := objStart, "}"
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(trimmed, closer)
	if end <= start {
		return ""
	}

	return trimmed[start : end+1]
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
