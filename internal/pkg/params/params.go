// Package params parses optional query-string values. Anything that fails
// to parse is treated as "filter absent" rather than letting a NaN or zero
// leak into a query.
package params

import (
	"strconv"
	"strings"
	"time"
)

// Float returns a pointer to the parsed value, or nil when the string is
// empty or not a finite number.
func Float(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Int parses s, falling back to def when empty or malformed.
func Int(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// PositiveInt is Int clamped to a minimum of 1 (page/limit inputs).
func PositiveInt(s string, def int) int {
	n := Int(s, def)
	if n < 1 {
		return def
	}
	return n
}

// Date parses a date query value, accepting RFC3339 or plain YYYY-MM-DD.
// Returns nil when empty or unparseable.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

// CSV splits a comma-separated list, trimming each entry and dropping empties.
func CSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
