package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Params is the decoded `params` object of a command request. Values are
// whatever encoding/json produced: float64, string, bool, nil, nested maps.
type Params map[string]any

// Int reports the value under key as a finite integer.
//
// Clients are loose about types here: a quantity may arrive as 3, "3", or
// 3.0, and all of those mean three. Missing keys, blank or non-numeric
// strings, fractional values, and non-finite numbers all report ok=false —
// the caller treats that as "absent" and produces its own field message.
func (p Params) Int(key string) (int64, bool) {
	return IntValue(p[key])
}

// String returns the raw string form of the value under key, without
// trimming. Numbers and booleans are stringified the way clients expect
// ("7", not "7.000000"); anything non-scalar reads as "".
func (p Params) String(key string) string {
	return StringValue(p[key])
}

// IntValue coerces a decoded JSON value into a finite integer.
func IntValue(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return intFromFloat(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return intFromFloat(f)
	case json.Number:
		return IntValue(n.String())
	default:
		return 0, false
	}
}

func intFromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	// Integers beyond the int64 range are not representable either.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// StringValue returns the string form of a decoded JSON value.
func StringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// -1 precision prints the shortest representation: 7 -> "7".
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
