// Package privacy decides whether a command line should be kept out of
// the history entirely, based on user-configured ignore patterns.
package privacy

import "strings"

// ShouldIgnore reports whether the command matches any ignore pattern.
// Patterns support simple glob-style matching with `*` as wildcard;
// matching is case-insensitive.
func ShouldIgnore(command string, patterns []string) bool {
	upper := strings.ToUpper(command)
	for _, p := range patterns {
		if globMatch(upper, strings.ToUpper(p)) {
			return true
		}
	}
	return false
}

// globMatch matches text against a pattern where `*` matches any
// sequence of characters. The first and last literal segments anchor at
// the start and end of the text; middle segments must appear in order.
func globMatch(text, pattern string) bool {
	parts := strings.Split(pattern, "*")

	if len(parts) == 1 {
		return text == pattern
	}

	pos := 0

	if parts[0] != "" {
		if !strings.HasPrefix(text, parts[0]) {
			return false
		}
		pos = len(parts[0])
	}

	last := parts[len(parts)-1]
	if last != "" && !strings.HasSuffix(text, last) {
		return false
	}

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(text[pos:], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}

	return true
}
