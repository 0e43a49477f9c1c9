package nutrition

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce приводит произвольное значение из ответа AI к неотрицательному числу.
// Строки принимаются с запятой в роли десятичного разделителя, все остальные
// типы и неразбираемые строки дают 0. Функция никогда не паникует: через нее
// проходят все числовые поля внешнего происхождения, поэтому NaN и
// отрицательные значения в модель данных не попадают.
func Coerce(value any) float64 {
	switch v := value.(type) {
	case float64:
		return sanitize(v)
	case float32:
		return sanitize(float64(v))
	case int:
		return sanitize(float64(v))
	case int64:
		return sanitize(float64(v))
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		return sanitize(parsed)
	case string:
		normalized := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		parsed, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0
		}
		return sanitize(parsed)
	default:
		return 0
	}
}

func sanitize(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
