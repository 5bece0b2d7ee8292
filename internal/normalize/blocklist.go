package normalize

import "strings"

// Blocklist flags normalized names matching a curated list of known large
// or national chains.
type Blocklist struct {
	entries    map[string]struct{}
	ordered    []string
	normalizer *Normalizer
}

// NewBlocklist builds a checker over the configured chain names. Entries
// are stored lowercased.
func NewBlocklist(entries []string, n *Normalizer) *Blocklist {
	set := make(map[string]struct{}, len(entries))
	ordered := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := set[e]; ok {
			continue
		}
		set[e] = struct{}{}
		ordered = append(ordered, e)
	}
	return &Blocklist{entries: set, ordered: ordered, normalizer: n}
}

// Blocked reports whether a name matches the blocklist after
// normalization: exact match, or the entry followed by further whole words
// ("nike store", "nike's outlet"). Substring hits inside a longer word
// ("nikesha's boutique") never match.
func (b *Blocklist) Blocked(name string) bool {
	normalized := b.normalizer.Normalize(name, "")
	if normalized == "" {
		return false
	}

	if _, ok := b.entries[normalized]; ok {
		return true
	}

	for _, entry := range b.ordered {
		if strings.HasPrefix(normalized, entry+" ") {
			return true
		}
		if strings.HasPrefix(normalized, entry+"'s ") {
			return true
		}
	}

	return false
}
