// Package dedup merges near-duplicate place records observed by multiple
// discovery sources.
package dedup

import (
	"regexp"
	"strings"
)

// streetSuffixes canonicalizes common street-suffix spellings so that
// "123 Main Street" and "123 Main St" produce the same key.
var streetSuffixes = map[string]string{
	"street": "st", "avenue": "ave", "boulevard": "blvd", "drive": "dr",
	"lane": "ln", "road": "rd", "court": "ct", "place": "pl",
	"parkway": "pkwy", "circle": "cir", "highway": "hwy", "terrace": "ter",
}

// unitPattern matches suite/unit/apartment designators and their value.
var unitPattern = regexp.MustCompile(`\b(?:suite|ste|unit|apt|apartment)\.?\s*#?\s*\w+\b`)

// hashUnitPattern matches bare "#123" unit tokens.
var hashUnitPattern = regexp.MustCompile(`#\s*\w+\b`)

// punctPattern strips commas and periods before tokenizing.
var punctPattern = regexp.MustCompile(`[.,]`)

// NormalizeAddress reduces a street address to a comparable key: lowercase,
// unit designators removed, street suffixes canonicalized, whitespace
// collapsed. Returns "" for an empty or unit-only address.
func NormalizeAddress(address string) string {
	s := strings.ToLower(strings.TrimSpace(address))
	if s == "" {
		return ""
	}

	s = unitPattern.ReplaceAllString(s, " ")
	s = hashUnitPattern.ReplaceAllString(s, " ")
	s = punctPattern.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		if canon, ok := streetSuffixes[w]; ok {
			words[i] = canon
		}
	}

	return strings.Join(words, " ")
}
