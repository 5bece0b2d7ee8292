// Package normalize reduces noisy business names and websites to stable,
// comparable brand identity keys.
package normalize

import (
	"regexp"
	"strings"
)

// separators are checked in order against the raw (pre-lowercase) name; the
// name is truncated before the first occurrence of the first one that hits.
var separators = []string{" - ", " @ ", " at ", " | ", ": "}

// locationWords are stripped from the end of a name, repeatedly, unless
// protected by the brand's own domain.
var locationWords = map[string]struct{}{
	"downtown": {}, "uptown": {}, "midtown": {}, "east": {}, "west": {},
	"north": {}, "south": {}, "street": {}, "st": {}, "ave": {},
	"avenue": {}, "blvd": {}, "boulevard": {}, "road": {}, "rd": {},
	"plaza": {}, "mall": {}, "centre": {}, "center": {}, "square": {}, "park": {},
}

// storeTypes are stripped once from the end, longest first.
var storeTypes = []string{
	"factory outlet", "superstore", "clearance", "warehouse", "megastore",
	"boutique", "factory", "express", "outlet", "store", "shop",
}

var legalSuffixes = map[string]struct{}{
	"inc": {}, "llc": {}, "ltd": {}, "corp": {}, "co": {}, "company": {},
}

// storeNumberPattern matches a trailing store number like " #42" or " 12".
var storeNumberPattern = regexp.MustCompile(`\s*#?\d+$`)

// minNameLen is the floor below which stripping is abandoned and the
// original input returned instead.
const minNameLen = 3

// Normalizer reduces a raw business name to a canonical identity string.
// The city-name set comes from the configured catalogue so tests can vary
// it per instance.
type Normalizer struct {
	cityNames map[string]struct{}
}

// NewNormalizer builds a Normalizer over the given city names
// (case-insensitive).
func NewNormalizer(cityNames []string) *Normalizer {
	cities := make(map[string]struct{}, len(cityNames))
	for _, name := range cityNames {
		cities[strings.ToLower(name)] = struct{}{}
	}
	return &Normalizer{cityNames: cities}
}

// DomainHint extracts the brand token from a domain: the left-most label of
// the host, after stripping scheme and "www.". Returns "" for empty or
// unparsable input.
func DomainHint(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return ""
	}
	if idx := strings.Index(host, "."); idx >= 0 {
		return host[:idx]
	}
	return host
}

// Normalize applies the layered stripping rules, in order: separator
// truncation, case fold, legal suffixes, store types, location words, city
// names, trailing store numbers. Words appearing in the brand's own domain
// (domainHint) are protected from the location and city passes. If
// stripping would leave fewer than three characters, the original input is
// returned lowercased instead.
func (n *Normalizer) Normalize(name, domainHint string) string {
	if name == "" {
		return ""
	}

	original := name
	result := strings.TrimSpace(name)

	// Separator truncation: first separator in list order wins.
	for _, sep := range separators {
		if idx := strings.Index(result, sep); idx >= 0 {
			result = strings.TrimSpace(result[:idx])
			break
		}
	}

	result = strings.ToLower(result)

	protected := protectedWords(domainHint)

	// Legal suffixes: repeatedly pop trailing entity words.
	words := strings.Fields(result)
	for len(words) > 0 {
		last := strings.TrimRight(words[len(words)-1], ".")
		if _, ok := legalSuffixes[last]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	result = strings.Join(words, " ")

	// Store types: strip the first (longest) suffix match that leaves
	// enough of the name behind.
	for _, st := range storeTypes {
		if strings.HasSuffix(result, " "+st) {
			candidate := strings.TrimSpace(result[:len(result)-len(st)-1])
			if len(candidate) >= minNameLen {
				result = candidate
				break
			}
		}
	}

	// Location words: keep stripping the last word while it is a location
	// word, not protected, and enough remains.
	words = strings.Fields(result)
	for len(words) > 0 {
		last := words[len(words)-1]
		if _, ok := locationWords[last]; !ok {
			break
		}
		if _, ok := protected[last]; ok {
			break
		}
		candidate := strings.Join(words[:len(words)-1], " ")
		if len(candidate) < minNameLen {
			break
		}
		words = words[:len(words)-1]
		result = candidate
	}

	// City names: a single trailing pass.
	words = strings.Fields(result)
	if len(words) > 0 {
		last := words[len(words)-1]
		_, isCity := n.cityNames[last]
		_, isProtected := protected[last]
		if isCity && !isProtected {
			candidate := strings.Join(words[:len(words)-1], " ")
			if len(candidate) >= minNameLen {
				result = candidate
			}
		}
	}

	// Trailing store numbers.
	result = strings.TrimSpace(storeNumberPattern.ReplaceAllString(result, ""))

	// Never return under three characters unless the input was shorter.
	if len(result) < minNameLen && len(original) >= minNameLen {
		result = strings.ToLower(strings.TrimSpace(original))
	}

	return strings.TrimSpace(result)
}

// protectedWords derives the token set that steps operating on word
// suffixes must never strip: the domain's left-most label split on hyphens.
func protectedWords(domainHint string) map[string]struct{} {
	hint := DomainHint(domainHint)
	if hint == "" {
		return nil
	}
	protected := make(map[string]struct{})
	for _, w := range strings.Split(hint, "-") {
		if w != "" {
			protected[w] = struct{}{}
		}
	}
	return protected
}
