package grouper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
)

var testCities = []string{"Toronto", "Vancouver", "Calgary", "Phoenix"}

func newTestGrouper(minLoc, maxLoc int) *Grouper {
	return New(normalize.NewNormalizer(testCities), minLoc, maxLoc, nil)
}

func TestGroupNameVariantsMerge(t *testing.T) {
	places := []model.RawPlace{
		{Name: "Healthy Planet - Yonge & Dundas", Website: "https://healthyplanet.com", City: "Toronto, ON"},
		{Name: "Healthy Planet - Queen Street", Website: "https://healthyplanet.com", City: "Toronto, ON"},
		{Name: "Healthy Planet Downtown", Website: "https://www.healthyplanet.com", City: "Vancouver, BC"},
	}

	groups := newTestGrouper(1, 10).Group(context.Background(), places)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "healthy planet", g.NormalizedName)
	assert.Equal(t, 3, g.LocationCount)
	assert.Len(t, g.OriginalNames, 3)
	assert.Equal(t, []string{"Toronto, ON", "Vancouver, BC"}, g.Cities)
	assert.Equal(t, "https://healthyplanet.com", g.Website)
	assert.True(t, g.Qualified)
}

func TestGroupSameNameDifferentDomainsStaySeparate(t *testing.T) {
	places := []model.RawPlace{
		{Name: "The Running Room", Website: "https://runningroom.com", City: "Toronto, ON"},
		{Name: "The Running Room", Website: "https://runningroomaz.com", City: "Phoenix, AZ"},
	}

	groups := newTestGrouper(1, 10).Group(context.Background(), places)
	assert.Len(t, groups, 2)
}

func TestGroupNoWebsiteGroupsByNameOnly(t *testing.T) {
	places := []model.RawPlace{
		{Name: "Corner Books", City: "Toronto, ON"},
		{Name: "Corner Books Inc", City: "Calgary, AB"},
	}

	groups := newTestGrouper(1, 10).Group(context.Background(), places)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].LocationCount)
}

func TestGroupMergesRegionalNamesBySharedDomain(t *testing.T) {
	// Different normalized names, same domain, related by prefix.
	places := []model.RawPlace{
		{Name: "Brandworks Toronto", Website: "https://brandworks.com", City: "Toronto, ON"},
		{Name: "Brandworks West Outfitters", Website: "https://brandworks.com", City: "Vancouver, BC"},
	}

	groups := newTestGrouper(1, 10).Group(context.Background(), places)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].LocationCount)
	assert.Len(t, groups[0].Cities, 2)
}

func TestGroupUnrelatedNamesSameDomainStaySeparate(t *testing.T) {
	// A shared mall landing page hosting two different stores.
	places := []model.RawPlace{
		{Name: "Zephyr Shoes", Website: "https://galleriamall.com", City: "Toronto, ON"},
		{Name: "Moonlight Candles", Website: "https://galleriamall.com", City: "Toronto, ON"},
	}

	groups := newTestGrouper(1, 10).Group(context.Background(), places)
	assert.Len(t, groups, 2)
}

func TestGroupSkipsNamelessRecords(t *testing.T) {
	places := []model.RawPlace{
		{Name: "", Website: "https://example.com", City: "Toronto, ON"},
		{Name: "Real Store", City: "Toronto, ON"},
	}

	groups := newTestGrouper(1, 10).Group(context.Background(), places)
	require.Len(t, groups, 1)
	assert.Equal(t, "real", groups[0].NormalizedName)
}

func TestFilterBand(t *testing.T) {
	groups := []*model.BrandGroup{
		{NormalizedName: "too small", LocationCount: 2},
		{NormalizedName: "just right", LocationCount: 3},
		{NormalizedName: "at ceiling", LocationCount: 10},
		{NormalizedName: "too big", LocationCount: 11},
	}

	kept := newTestGrouper(3, 10).Filter(groups)
	require.Len(t, kept, 2)
	assert.Equal(t, "just right", kept[0].NormalizedName)
	assert.Equal(t, "at ceiling", kept[1].NormalizedName)
}

func TestFilterWithBlocklist(t *testing.T) {
	n := normalize.NewNormalizer(testCities)
	blocklist := normalize.NewBlocklist([]string{"nike"}, n)

	groups := []*model.BrandGroup{
		{NormalizedName: "nike", LocationCount: 5},
		{NormalizedName: "nikesha's", LocationCount: 5},
	}

	kept := New(n, 3, 10, nil).FilterWithBlocklist(groups, blocklist)
	require.Len(t, kept, 1)
	assert.Equal(t, "nikesha's", kept[0].NormalizedName)
}

func TestNamesAreRelated(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  bool
	}{
		{"shared prefix", []string{"healthy planet", "healthy planet toronto"}, true},
		{"unrelated", []string{"zephyr shoes", "moonlight candles"}, false},
		{"short prefix only", []string{"abc store", "abd store"}, false},
		{"single name", []string{"solo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, namesAreRelated(tt.names))
		})
	}
}
