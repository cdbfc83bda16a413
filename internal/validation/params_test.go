package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{"float64 integral", float64(7), 7, true},
		{"float64 zero", float64(0), 0, true},
		{"float64 negative", float64(-3), -3, true},
		{"float64 fractional", 2.5, 0, false},
		{"numeric string", "42", 42, true},
		{"numeric string with spaces", "  42  ", 42, true},
		{"float string integral", "3.0", 3, true},
		{"float string fractional", "3.9", 0, false},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"alpha string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"object", map[string]any{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntValue(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIntValueJSONNumber(t *testing.T) {
	got, ok := IntValue(json.Number("12"))
	require.True(t, ok)
	assert.Equal(t, int64(12), got)

	_, ok = IntValue(json.Number("12.75"))
	assert.False(t, ok)
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello"))
	assert.Equal(t, "7", StringValue(float64(7)))
	assert.Equal(t, "7.5", StringValue(7.5))
	assert.Equal(t, "true", StringValue(true))
	assert.Equal(t, "", StringValue(nil))
	assert.Equal(t, "", StringValue([]any{"x"}))
}

func TestParamsAccessors(t *testing.T) {
	// Values as they come out of encoding/json: numbers are float64.
	p := Params{
		"cart_id":      float64(12),
		"qty":          "3",
		"product_code": float64(1),
		"op":           "add",
	}

	id, ok := p.Int("cart_id")
	require.True(t, ok)
	assert.Equal(t, int64(12), id)

	qty, ok := p.Int("qty")
	require.True(t, ok)
	assert.Equal(t, int64(3), qty)

	_, ok = p.Int("missing")
	assert.False(t, ok)

	// A numeric product code reads back as its decimal string.
	assert.Equal(t, "1", p.String("product_code"))
	assert.Equal(t, "add", p.String("op"))
	assert.Equal(t, "", p.String("missing"))
}
