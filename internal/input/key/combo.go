// Package key normalizes keyboard combinations for shortcut lookup.
//
// A combination is a "+"-separated list of tokens ("Ctrl+Shift+P"). Lookup is
// case-insensitive and modifier order is irrelevant, so Normalize lowercases
// every token, resolves aliases, sorts the tokens, and rejoins them. Two
// combinations are the same shortcut iff their normalized forms are equal.
package key

import (
	"sort"
	"strings"
)

// aliases maps alternate spellings to canonical token names.
var aliases = map[string]string{
	"control":  "ctrl",
	"cmd":      "meta",
	"command":  "meta",
	"super":    "meta",
	"win":      "meta",
	"option":   "alt",
	"opt":      "alt",
	"esc":      "escape",
	"return":   "enter",
	"del":      "delete",
	"ins":      "insert",
	"spacebar": "space",
	"pgup":     "pageup",
	"pgdn":     "pagedown",
	"pgdown":   "pagedown",
}

// modifiers is the set of modifier token names.
var modifiers = map[string]bool{
	"ctrl":  true,
	"shift": true,
	"alt":   true,
	"meta":  true,
}

// Normalize canonicalizes a key combination for indexing and lookup.
// Empty and whitespace-only tokens are dropped. The result of normalizing an
// already-normalized combination is itself.
func Normalize(combo string) string {
	parts := strings.Split(combo, "+")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := strings.ToLower(strings.TrimSpace(p))
		if tok == "" {
			continue
		}
		if canonical, ok := aliases[tok]; ok {
			tok = canonical
		}
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, "+")
}

// IsModifier reports whether a normalized token is a modifier key.
func IsModifier(token string) bool {
	return modifiers[token]
}

// HasModifier reports whether a combination includes the given modifier.
func HasModifier(combo, modifier string) bool {
	for _, tok := range strings.Split(Normalize(combo), "+") {
		if tok == modifier {
			return true
		}
	}
	return false
}

// Base returns the non-modifier tokens of a combination, normalized.
func Base(combo string) []string {
	var base []string
	for _, tok := range strings.Split(Normalize(combo), "+") {
		if tok != "" && !modifiers[tok] {
			base = append(base, tok)
		}
	}
	return base
}
