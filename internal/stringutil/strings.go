// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCode canonicalizes a course code string (e.g. "CSE 1310 " -> "CSE 1310").
// NFKC folding maps non-breaking spaces and other compatibility characters to
// their plain forms, then all whitespace runs collapse to single ASCII spaces
// with surrounding whitespace trimmed.
//
// The function is pure, total and idempotent:
//
//	NormalizeCode(NormalizeCode(x)) == NormalizeCode(x)
func NormalizeCode(code string) string {
	folded := norm.NFKC.String(code)
	return strings.Join(strings.Fields(folded), " ")
}

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SplitCSV splits a comma-separated field into trimmed, non-empty tokens.
// Catalog requisite fields and professor tag strings both use this layout.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
