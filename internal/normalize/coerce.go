package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Range is a closed interval with Min <= Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the centre of the range.
func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// number coerces a raw JSON-ish value into a non-negative float64.
// Missing values are 0 and negatives clamp to 0.
func number(field string, raw interface{}) (float64, error) {
	var v float64
	switch t := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int32:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, invalid(field, "not a number: %q", t.String())
		}
		v = f
	case string:
		cleaned := strings.TrimSpace(t)
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.TrimSuffix(cleaned, "%")
		if cleaned == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, invalid(field, "not a number: %q", t)
		}
		v = f
	default:
		return 0, invalid(field, "not a number: %T", raw)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(field, "not a finite number")
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}

// integer is number truncated towards zero.
func integer(field string, raw interface{}) (int, error) {
	v, err := number(field, raw)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, invalid(field, "value %v is too large", v)
	}
	return int(v), nil
}

// rangeOf builds a Range, swapping the bounds when they arrive reversed.
func rangeOf(field string, min, max interface{}) (Range, error) {
	lo, err := number(field+".min", min)
	if err != nil {
		return Range{}, err
	}
	hi, err := number(field+".max", max)
	if err != nil {
		return Range{}, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return Range{Min: lo, Max: hi}, nil
}

// Clamp bounds v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func enumKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
