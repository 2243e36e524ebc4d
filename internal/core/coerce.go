package core

import (
	"strconv"
	"strings"
	"time"
)

// Lenient try-parse helpers shared by the extractors. Malformed values
// default to unset instead of raising: sloppy field values must never fail
// a card that is otherwise decodable.

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// nestedString extracts m[key][nestedKey] when m[key] is an object,
// returning "" for absent or non-object values.
func nestedString(m map[string]any, key, nestedKey string) string {
	obj, ok := m[key].(map[string]any)
	if !ok {
		return ""
	}
	return stringValue(obj[nestedKey])
}

// toInt coerces JSON-decoded values to an integer: numbers truncate,
// numeric strings convert, everything else is rejected.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func intPtr(v any) *int {
	n, ok := toInt(v)
	if !ok {
		return nil
	}
	return &n
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate parses an ISO-8601 timestamp, returning nil on malformed input.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
