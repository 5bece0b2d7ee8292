package pipeline

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
	"github.com/sells-group/leadgen-cli/pkg/apollo"
)

// enrich converts every brand group to a lead and attaches contact data to
// the qualified ones. Exhausted enrichment credits stop further lookups but
// never drop leads; per-brand failures are logged and skipped.
func (p *Pipeline) enrich(ctx context.Context, groups []*model.BrandGroup) []*model.Lead {
	titleCaser := cases.Title(language.English)
	maxContacts := p.cfg.Enrichment.MaxContacts

	leads := make([]*model.Lead, 0, len(groups))
	creditsExhausted := false
	enriched := 0

	for _, brand := range groups {
		lead := brandToLead(brand, titleCaser)

		if brand.Qualified && !creditsExhausted {
			enrichment, err := p.enrichBrand(ctx, brand, maxContacts)
			switch {
			case errors.Is(err, apollo.ErrInsufficientCredits):
				creditsExhausted = true
				p.log.Warn("enrichment credits exhausted, remaining leads unenriched")
			case err != nil:
				p.log.Warn("enrichment failed",
					zap.String("brand", brand.NormalizedName),
					zap.Error(err),
				)
			case enrichment != nil:
				applyEnrichment(lead, enrichment)
				enriched++
			}
		}

		leads = append(leads, lead)
	}

	p.log.Info("enrichment complete",
		zap.Int("leads", len(leads)),
		zap.Int("enriched", enriched),
	)
	return leads
}

func (p *Pipeline) enrichBrand(ctx context.Context, brand *model.BrandGroup, maxContacts int) (*model.Enrichment, error) {
	if brand.Website == "" {
		return nil, nil
	}

	org, err := p.apollo.EnrichOrganization(ctx, apollo.OrgQuery{Domain: brand.Website})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, nil
	}

	enrichment := &model.Enrichment{
		CompanyProfileURL: org.LinkedInURL,
		Industry:          org.Industry,
		TechnologyNames:   org.TechnologyNames(),
	}
	if org.EstimatedNumEmployees > 0 {
		enrichment.EmployeeCount = strconv.Itoa(org.EstimatedNumEmployees)
	}
	if org.RetailLocationCount > 0 {
		count := org.RetailLocationCount
		enrichment.ReportedLocationCount = &count
	}

	domain := org.PrimaryDomain
	if domain == "" {
		domain = normalize.Domain(brand.Website)
	}
	if domain != "" {
		people, err := p.apollo.SearchPeople(ctx, domain, maxContacts)
		if err != nil {
			if errors.Is(err, apollo.ErrInsufficientCredits) {
				return nil, err
			}
			p.log.Warn("people search failed",
				zap.String("brand", brand.NormalizedName),
				zap.Error(err),
			)
		}
		for _, person := range people {
			enrichment.Contacts = append(enrichment.Contacts, model.Contact{
				Name:     person.Name,
				Title:    person.Title,
				Email:    person.Email,
				Phone:    person.Phone,
				LinkedIn: person.LinkedInURL,
			})
		}
	}

	return enrichment, nil
}

// brandToLead converts a brand group to its exportable lead record,
// carrying the qualification outcome forward unchanged.
func brandToLead(brand *model.BrandGroup, titleCaser cases.Caser) *model.Lead {
	return &model.Lead{
		BrandName:         titleCaser.String(brand.NormalizedName),
		LocationCount:     brand.LocationCount,
		Website:           brand.Website,
		HasEcommerce:      brand.Qualified || brand.EcommercePlatform != "",
		EcommercePlatform: brand.EcommercePlatform,
		Marketplaces:      brand.Marketplaces,
		Priority:          brand.Priority,
		Cities:            brand.Cities,
		Qualified:         brand.Qualified,
		DisqualifyReason:  brand.DisqualifyReason,
	}
}

func applyEnrichment(lead *model.Lead, e *model.Enrichment) {
	lead.CompanyProfileURL = e.CompanyProfileURL
	lead.EmployeeCount = e.EmployeeCount
	lead.Industry = e.Industry
	lead.TechnologyNames = e.TechnologyNames
	lead.ReportedLocationCount = e.ReportedLocationCount
	for _, c := range e.Contacts {
		if !lead.AddContact(c) {
			break
		}
	}
}

// apolloProfileFetcher adapts the enrichment client to the quality gate's
// profile lookup.
type apolloProfileFetcher struct {
	client apollo.Client
}

func (f *apolloProfileFetcher) FetchProfile(ctx context.Context, profileURL string) (*model.CompanyProfile, error) {
	org, err := f.client.EnrichOrganization(ctx, apollo.OrgQuery{ProfileURL: profileURL})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, errors.New("profile not found")
	}

	profile := &model.CompanyProfile{
		LocationCount: org.RetailLocationCount,
		Industry:      org.Industry,
	}
	if org.EstimatedNumEmployees > 0 {
		profile.EmployeeRange = strconv.Itoa(org.EstimatedNumEmployees)
	}

	if org.PrimaryDomain != "" {
		people, err := f.client.SearchPeople(ctx, org.PrimaryDomain, model.MaxContacts)
		if err == nil {
			for _, person := range people {
				profile.People = append(profile.People, model.Contact{
					Name:     person.Name,
					Title:    person.Title,
					Email:    person.Email,
					Phone:    person.Phone,
					LinkedIn: person.LinkedInURL,
				})
			}
		}
	}

	return profile, nil
}
