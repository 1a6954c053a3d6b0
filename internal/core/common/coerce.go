package common

import (
	"strconv"
	"strings"
)

// Coercion helpers for values pulled out of a parsed model response. Each one
// is tolerant: a value of the wrong shape yields the caller's default instead
// of an error, so one bad field never aborts a whole merge.

func AsFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

func AsInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

func AsString(v any, def string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

// AsStringSlice collects the string elements of a JSON array, skipping
// anything else. Always returns a non-nil slice.
func AsStringSlice(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// Clamp01 bounds a score to [0, 1].
func Clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// NonNegative floors a value at zero.
func NonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
