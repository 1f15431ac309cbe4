package model

import (
	"encoding/json"
	"strings"
)

// ParseStringList decodes a stored list of strings. It accepts a JSON array,
// a JSON string that itself holds an array, or a comma separated list.
// Malformed input yields an empty list, never an error.
func ParseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []string{}
	}

	switch raw[0] {
	case '[':
		var items []any
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return []string{}
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case '"':
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return []string{}
		}
		inner = strings.TrimSpace(inner)
		if strings.HasPrefix(inner, "\"") {
			return []string{}
		}
		return ParseStringList(inner)
	case '{':
		return []string{}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
