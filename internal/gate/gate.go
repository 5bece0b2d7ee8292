// Package gate applies the final enrichment-signal disqualification pass,
// catching chains that slipped through grouping-time heuristics.
package gate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// ProfileFetcher retrieves a company's public profile page. The gate uses
// it as a fallback location-count signal and as the contact source for
// slot supplementation.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, profileURL string) (*model.CompanyProfile, error)
}

// Gate disqualifies leads whose enrichment signals reveal a company too
// large to pursue. It only tightens qualification, never loosens it.
type Gate struct {
	fetcher      ProfileFetcher
	maxLocations int
	maxEmployees int
	concurrency  int
	log          *zap.Logger
}

func New(fetcher ProfileFetcher, maxLocations, maxEmployees, concurrency int) *Gate {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Gate{
		fetcher:      fetcher,
		maxLocations: maxLocations,
		maxEmployees: maxEmployees,
		concurrency:  concurrency,
		log:          zap.L().With(zap.String("component", "gate")),
	}
}

// Run evaluates every still-qualified lead in parallel, mutating leads in
// place. Disqualified leads are retained so export can report them. The
// qualified/disqualified partition does not depend on execution order;
// each lead is evaluated independently.
func (g *Gate) Run(ctx context.Context, leads []*model.Lead) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, lead := range leads {
		if !lead.Qualified {
			continue
		}
		eg.Go(func() error {
			g.evaluate(ctx, lead)
			return nil
		})
	}

	eg.Wait() //nolint:errcheck // workers never return errors

	qualified := 0
	for _, lead := range leads {
		if lead.Qualified {
			qualified++
		}
	}
	g.log.Info("quality gate complete",
		zap.Int("leads", len(leads)),
		zap.Int("qualified", qualified))
}

// evaluate applies the disqualification signals in priority order: explicit
// location count, then profile-page location count, then employee count.
// A lead that survives gets its empty contact slots supplemented from the
// profile's listed people.
func (g *Gate) evaluate(ctx context.Context, lead *model.Lead) {
	var profile *model.CompanyProfile
	fetched := false

	fetchProfile := func() *model.CompanyProfile {
		if fetched {
			return profile
		}
		fetched = true
		if g.fetcher == nil || lead.CompanyProfileURL == "" {
			return nil
		}
		p, err := g.fetcher.FetchProfile(ctx, lead.CompanyProfileURL)
		if err != nil {
			// Fetch failure means the signal is unavailable, nothing more.
			g.log.Debug("profile fetch failed",
				zap.String("brand", lead.BrandName),
				zap.Error(err))
			return nil
		}
		profile = p
		return profile
	}

	if lead.ReportedLocationCount != nil {
		if n := *lead.ReportedLocationCount; n > g.maxLocations {
			lead.Disqualify(fmt.Sprintf("too many locations (%d)", n))
			return
		}
	} else if p := fetchProfile(); p != nil && p.LocationCount > g.maxLocations {
		lead.Disqualify(fmt.Sprintf("too many locations (%d)", p.LocationCount))
		return
	}

	if n, ok := model.ParseEmployeeCount(lead.EmployeeCount); ok && n > g.maxEmployees {
		lead.Disqualify(fmt.Sprintf("too many employees (%d)", n))
		return
	}

	g.supplementContacts(lead, fetchProfile)
}

// supplementContacts fills empty slots from the profile's people list,
// skipping anyone already present by name. Occupied slots are never
// touched.
func (g *Gate) supplementContacts(lead *model.Lead, fetchProfile func() *model.CompanyProfile) {
	if !hasEmptySlot(lead) || lead.CompanyProfileURL == "" {
		return
	}

	p := fetchProfile()
	if p == nil {
		return
	}

	added := 0
	for _, person := range p.People {
		if person.Empty() || lead.HasContact(person.Name) {
			continue
		}
		if !lead.AddContact(person) {
			break
		}
		added++
	}

	if added > 0 {
		g.log.Debug("contacts supplemented",
			zap.String("brand", lead.BrandName),
			zap.Int("added", added))
	}
}

func hasEmptySlot(lead *model.Lead) bool {
	for _, c := range lead.Contacts {
		if c.Empty() {
			return true
		}
	}
	return false
}
