package nutrition

import "testing"

// TestCoerce проверяет приведение значений разных типов к числу.
func TestCoerce(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  float64
	}{
		{"number", 12.5, 12.5},
		{"integer string", "42", 42},
		{"comma decimal", "12,5", 12.5},
		{"spaces around", " 3,7 ", 3.7},
		{"garbage string", "abc", 0},
		{"nil", nil, 0},
		{"object", map[string]any{"x": 1}, 0},
		{"array", []any{1, 2}, 0},
		{"bool", true, 0},
		{"negative", -5.0, 0},
		{"negative string", "-3,2", 0},
	}

	for _, tc := range cases {
		if got := Coerce(tc.value); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
