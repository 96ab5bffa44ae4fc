// Package attrs reads values back out of slog-style key/value attribute lists.
package attrs

import "fmt"

// ExtractString returns the value stored under key in a [k1, v1, k2, v2, ...]
// slice. Strings are returned as is; typed IDs and other fmt.Stringer values
// are rendered with String. Missing keys yield "".
func ExtractString(attrs []any, key string) string {
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok || k != key {
			continue
		}
		switch v := attrs[i+1].(type) {
		case string:
			return v
		case fmt.Stringer:
			return v.String()
		}
	}
	return ""
}

// Without returns a copy of attrs with every pair keyed by one of keys removed.
func Without(attrs []any, keys ...string) []any {
	out := make([]any, 0, len(attrs))
	for i := 0; i < len(attrs)-1; i += 2 {
		k, _ := attrs[i].(string)
		skip := false
		for _, drop := range keys {
			if k == drop {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, attrs[i], attrs[i+1])
		}
	}
	return out
}
