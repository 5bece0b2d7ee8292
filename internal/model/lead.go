package model

import (
	"strconv"
	"strings"
)

// MaxContacts is the number of contact slots on a lead.
const MaxContacts = 4

// Contact is one person attached to a lead.
type Contact struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Empty reports whether the contact slot is unoccupied.
func (c Contact) Empty() bool { return c.Name == "" }

// Lead is a qualified brand after contact enrichment, ready for scoring and
// export. The quality gate mutates Qualified/DisqualifyReason and fills
// empty contact slots; it never drops leads.
type Lead struct {
	BrandName         string   `json:"brand_name"`
	LocationCount     int      `json:"location_count"`
	Website           string   `json:"website,omitempty"`
	HasEcommerce      bool     `json:"has_ecommerce"`
	EcommercePlatform string   `json:"ecommerce_platform,omitempty"`
	Marketplaces      []string `json:"marketplaces,omitempty"`
	Priority          Priority `json:"priority"`
	Cities            []string `json:"cities,omitempty"`

	// Enrichment-provided signals.
	CompanyProfileURL     string   `json:"company_profile_url,omitempty"`
	EmployeeCount         string   `json:"employee_count,omitempty"` // integer or range like "201-500"
	Industry              string   `json:"industry,omitempty"`
	TechnologyNames       []string `json:"technology_names,omitempty"`
	ReportedLocationCount *int     `json:"reported_location_count,omitempty"`

	Contacts [MaxContacts]Contact `json:"contacts"`

	Qualified        bool   `json:"qualified"`
	DisqualifyReason string `json:"disqualify_reason,omitempty"`

	// Scoring outputs.
	POSPlatform          string   `json:"pos_platform,omitempty"`
	DetectedMarketplaces []string `json:"detected_marketplaces,omitempty"`
	UsesLightspeed       bool     `json:"uses_lightspeed"`
	PriorityScore        int      `json:"priority_score"`
}

// HasContact reports whether a person with this name (case-insensitive)
// already occupies a contact slot.
func (l *Lead) HasContact(name string) bool {
	for _, c := range l.Contacts {
		if !c.Empty() && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// AddContact places the contact into the first empty slot. Existing slots
// are never overwritten. Returns false when all slots are occupied.
func (l *Lead) AddContact(c Contact) bool {
	for i := range l.Contacts {
		if l.Contacts[i].Empty() {
			l.Contacts[i] = c
			return true
		}
	}
	return false
}

// Disqualify marks the lead unqualified, keeping the first recorded reason.
func (l *Lead) Disqualify(reason string) {
	if !l.Qualified {
		return
	}
	l.Qualified = false
	l.DisqualifyReason = reason
}

// ParseEmployeeCount interprets an enrichment-provided employee count, which
// may be a bare integer ("350") or a range ("201-500"). For ranges the upper
// bound is returned. The second result is false when no count is present.
func ParseEmployeeCount(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if idx := strings.LastIndex(s, "-"); idx >= 0 {
		s = strings.TrimSpace(s[idx+1:])
	}
	s = strings.TrimSuffix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
