package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeKey returns the lookup key for a term: surrounding whitespace
// trimmed and letter case folded.
func NormalizeKey(text string) string {
	// Casers carry state and are not safe to share across goroutines.
	return cases.Fold().String(strings.TrimSpace(text))
}

// EqualFold reports whether a and b are equal under the same folding used for keys.
func EqualFold(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}
