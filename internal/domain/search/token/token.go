package token

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text (ASCII only), strips everything except [a-z0-9] and
// whitespace, and splits on whitespace runs. Empty tokens are never returned.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// MatchAll reports whether every query token is a substring of at least one item token.
// No query tokens match trivially.
func MatchAll(query, tokens []string) bool {
	for _, q := range query {
		if !matchAny(q, tokens) {
			return false
		}
	}
	return true
}

func matchAny(q string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}
