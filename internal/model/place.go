// Package model defines the typed records passed between pipeline stages.
package model

// Provenance tags for RawPlace records. SourceSearch carries the highest
// merge priority, SourceBrandExpansion next, everything else lowest.
const (
	SourceSearch         = "search"
	SourceBrandExpansion = "brand_expansion"
	SourceScrape         = "scrape"
)

// RawPlace is a single observation of a business from one source. Records
// are immutable once created; the deduplicator and grouper consume them
// without mutation.
type RawPlace struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	PlaceID  string `json:"place_id,omitempty"`
	City     string `json:"city"` // "City, Region"
	Vertical string `json:"vertical,omitempty"`
	Source   string `json:"source"`
}

// MergedPlace is a deduplicated place record. At most one exists per
// (domain, city, normalized-address) triple, or per (domain, city) when no
// address was observed.
type MergedPlace struct {
	Name       string   `json:"name"`
	Address    string   `json:"address,omitempty"`
	Website    string   `json:"website,omitempty"`
	PlaceID    string   `json:"place_id,omitempty"`
	City       string   `json:"city"`
	Vertical   string   `json:"vertical,omitempty"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// ToRaw converts a merged place back into the RawPlace shape the grouper
// consumes. The first source tag is kept as provenance.
func (m MergedPlace) ToRaw() RawPlace {
	source := ""
	if len(m.Sources) > 0 {
		source = m.Sources[0]
	}
	return RawPlace{
		Name:     m.Name,
		Address:  m.Address,
		Website:  m.Website,
		PlaceID:  m.PlaceID,
		City:     m.City,
		Vertical: m.Vertical,
		Source:   source,
	}
}
