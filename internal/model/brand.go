package model

// Priority buckets assigned by the e-commerce check.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// BrandGroup is a candidate brand entity aggregating all known locations of
// one business. Created by the grouper; later stages mutate the
// qualification and enrichment fields in place. Groups are never deleted,
// only flagged unqualified, so the export stage can report why.
type BrandGroup struct {
	NormalizedName      string            `json:"normalized_name"`
	OriginalNames       []string          `json:"original_names"` // every raw name seen, duplicates kept
	LocationCount       int               `json:"location_count"`
	Locations           []RawPlace        `json:"locations"`
	Website             string            `json:"website,omitempty"` // first non-empty website seen
	Cities              []string          `json:"cities"`            // distinct, insertion order
	EstimatedNationwide *int              `json:"estimated_nationwide,omitempty"`
	IsLargeChain        bool              `json:"is_large_chain"`
	Marketplaces        []string          `json:"marketplaces,omitempty"`
	MarketplaceLinks    map[string]string `json:"marketplace_links,omitempty"`
	Priority            Priority          `json:"priority"`
	EcommercePlatform   string            `json:"ecommerce_platform,omitempty"`
	Qualified           bool              `json:"qualified"`
	DisqualifyReason    string            `json:"disqualify_reason,omitempty"`
}

// NewBrandGroup creates an empty, qualified group for a normalized name.
func NewBrandGroup(normalizedName string) *BrandGroup {
	return &BrandGroup{
		NormalizedName: normalizedName,
		Priority:       PriorityMedium,
		Qualified:      true,
	}
}

// AddCity records a city if it has not been seen yet, preserving insertion
// order for display.
func (g *BrandGroup) AddCity(city string) {
	if city == "" {
		return
	}
	for _, c := range g.Cities {
		if c == city {
			return
		}
	}
	g.Cities = append(g.Cities, city)
}

// Absorb merges another group's locations into this one.
func (g *BrandGroup) Absorb(other *BrandGroup) {
	g.OriginalNames = append(g.OriginalNames, other.OriginalNames...)
	g.LocationCount += other.LocationCount
	g.Locations = append(g.Locations, other.Locations...)
	for _, city := range other.Cities {
		g.AddCity(city)
	}
	if g.Website == "" {
		g.Website = other.Website
	}
}

// Disqualify marks the group unqualified with a human-readable reason. The
// first reason recorded wins; later gates never overwrite it.
func (g *BrandGroup) Disqualify(reason string) {
	if !g.Qualified {
		return
	}
	g.Qualified = false
	g.DisqualifyReason = reason
}
