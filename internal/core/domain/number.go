package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a lenient numeric value used by the persisted record format.
// JSON numbers and numeric strings decode to their value, true decodes to 1 and
// anything else (null, garbage, objects) decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*n = 0
		return nil
	}
	*n = Number(Coerce(v))
	return nil
}

func (n Number) Float64() float64 { return float64(n) }

// Int truncates toward zero.
func (n Number) Int() int { return int(math.Trunc(float64(n))) }

// Coerce converts an arbitrary decoded value to a number, defaulting to 0.
func Coerce(v any) float64 {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := ParseNumber(t.String())
		return f
	case string:
		f, _ := ParseNumber(t)
		return f
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

// ParseNumber reports whether s holds a finite number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt reports whether s holds a number and returns it truncated toward zero.
func ParseInt(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
