package domain

import (
	"strings"
	"unicode"
)

// ParseListField parses a serialized list of short strings, as produced by
// tabular exports: either a Python-style literal like ['Pool', 'Garage'] or a
// JSON array like ["Pool", "Garage"]. Any input that is not a well-formed list
// of strings yields an empty slice. The result is never nil and never a raw
// unparsed string.
func ParseListField(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
		return []string{}
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return []string{}
	}

	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return []string{}
	}

	items, ok := parseStringItems(inner)
	if !ok {
		return []string{}
	}
	return items
}

// parseStringItems scans comma-separated quoted strings. Every element must be
// a quoted string; anything else fails the whole parse.
func parseStringItems(s string) ([]string, bool) {
	items := []string{}
	i := 0
	for i < len(s) {
		// Skip leading whitespace.
		for i < len(s) && unicode.IsSpace(rune(s[i])) {
			i++
		}
		if i >= len(s) {
			break
		}

		quote := s[i]
		if quote != '\'' && quote != '"' {
			return nil, false
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			b.WriteByte(c)
			i++
		}
		if !closed {
			return nil, false
		}
		items = append(items, b.String())

		// Skip trailing whitespace, then expect a comma or end of input.
		for i < len(s) && unicode.IsSpace(rune(s[i])) {
			i++
		}
		if i < len(s) {
			if s[i] != ',' {
				return nil, false
			}
			i++
		}
	}
	return items, true
}
