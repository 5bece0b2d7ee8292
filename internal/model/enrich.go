package model

// Enrichment is the contact-enrichment provider's output for one brand.
type Enrichment struct {
	CompanyProfileURL     string    `json:"company_profile_url,omitempty"`
	EmployeeCount         string    `json:"employee_count,omitempty"`
	Industry              string    `json:"industry,omitempty"`
	TechnologyNames       []string  `json:"technology_names,omitempty"`
	ReportedLocationCount *int      `json:"reported_location_count,omitempty"`
	Contacts              []Contact `json:"contacts,omitempty"`
}

// CompanyProfile is the result of fetching a company's public profile page,
// used by the quality gate as a fallback signal when the enrichment provider
// returned no explicit location count.
type CompanyProfile struct {
	LocationCount int       `json:"location_count,omitempty"`
	EmployeeRange string    `json:"employee_range,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	People        []Contact `json:"people,omitempty"`
}
