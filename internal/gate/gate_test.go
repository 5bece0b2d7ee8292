package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

type stubFetcher struct {
	profile *model.CompanyProfile
	err     error
	calls   int
}

func (s *stubFetcher) FetchProfile(_ context.Context, _ string) (*model.CompanyProfile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func intPtr(n int) *int { return &n }

func TestGateExplicitLocationCountWins(t *testing.T) {
	fetcher := &stubFetcher{}
	lead := &model.Lead{
		BrandName:             "corner books",
		Qualified:             true,
		ReportedLocationCount: intPtr(36),
		EmployeeCount:         "201-500",
		CompanyProfileURL:     "https://example.com/company/corner-books",
	}

	New(fetcher, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.False(t, lead.Qualified)
	assert.Equal(t, "too many locations (36)", lead.DisqualifyReason)
	assert.Zero(t, fetcher.calls)
}

func TestGateProfileLocationCountFallback(t *testing.T) {
	fetcher := &stubFetcher{profile: &model.CompanyProfile{LocationCount: 24}}
	lead := &model.Lead{
		BrandName:         "corner books",
		Qualified:         true,
		CompanyProfileURL: "https://example.com/company/corner-books",
	}

	New(fetcher, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.False(t, lead.Qualified)
	assert.Equal(t, "too many locations (24)", lead.DisqualifyReason)
}

func TestGateEmployeeCountUpperBound(t *testing.T) {
	lead := &model.Lead{
		BrandName:     "corner books",
		Qualified:     true,
		EmployeeCount: "501-1000",
	}

	New(nil, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.False(t, lead.Qualified)
	assert.Equal(t, "too many employees (1000)", lead.DisqualifyReason)
}

func TestGateFetchFailureIsSignalUnavailable(t *testing.T) {
	fetcher := &stubFetcher{err: assert.AnError}
	lead := &model.Lead{
		BrandName:         "corner books",
		Qualified:         true,
		CompanyProfileURL: "https://example.com/company/corner-books",
		EmployeeCount:     "50",
	}

	New(fetcher, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.True(t, lead.Qualified)
}

func TestGateSupplementsContacts(t *testing.T) {
	fetcher := &stubFetcher{profile: &model.CompanyProfile{
		LocationCount: 4,
		People: []model.Contact{
			{Name: "Dana Reyes", Title: "Owner"},
			{Name: "PAT HOLT", Title: "Manager"},
			{Name: "Sam Ito", Title: "Buyer"},
		},
	}}
	lead := &model.Lead{
		BrandName:         "corner books",
		Qualified:         true,
		CompanyProfileURL: "https://example.com/company/corner-books",
	}
	lead.Contacts[0] = model.Contact{Name: "Pat Holt", Email: "pat@cornerbooks.com"}

	New(fetcher, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	require.True(t, lead.Qualified)
	// Existing slot untouched, duplicate name skipped case-insensitively.
	assert.Equal(t, "pat@cornerbooks.com", lead.Contacts[0].Email)
	assert.Equal(t, "Dana Reyes", lead.Contacts[1].Name)
	assert.Equal(t, "Sam Ito", lead.Contacts[2].Name)
	assert.True(t, lead.Contacts[3].Empty())
	assert.Equal(t, 1, fetcher.calls)
}

func TestGateNoEmptySlotsSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{profile: &model.CompanyProfile{}}
	lead := &model.Lead{
		BrandName:         "corner books",
		Qualified:         true,
		CompanyProfileURL: "https://example.com/company/corner-books",
	}
	for i := 0; i < model.MaxContacts; i++ {
		lead.Contacts[i] = model.Contact{Name: "Person " + string(rune('A'+i))}
	}

	New(fetcher, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.True(t, lead.Qualified)
	assert.Zero(t, fetcher.calls)
}

func TestGatePassesUntouchedWhenDisqualified(t *testing.T) {
	lead := &model.Lead{
		BrandName:        "corner books",
		Qualified:        false,
		DisqualifyReason: "no e-commerce detected",
	}

	New(nil, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.Equal(t, "no e-commerce detected", lead.DisqualifyReason)
}

func TestGateBoundaryValuesPass(t *testing.T) {
	lead := &model.Lead{
		BrandName:             "corner books",
		Qualified:             true,
		ReportedLocationCount: intPtr(10),
		EmployeeCount:         "500",
	}

	New(nil, 10, 500, 2).Run(context.Background(), []*model.Lead{lead})

	assert.True(t, lead.Qualified)
}
