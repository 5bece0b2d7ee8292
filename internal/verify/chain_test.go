package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func cities(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestVerifyKnownChainExcluded(t *testing.T) {
	v := NewChainVerifier([]string{"big mart"}, 8)
	brands := []*model.BrandGroup{
		{NormalizedName: "big mart", LocationCount: 4, Cities: cities(2)},
		{NormalizedName: "corner books", LocationCount: 4, Cities: cities(2)},
	}

	out := v.Verify(brands, 60)
	require.Len(t, out, 1)
	assert.Equal(t, "corner books", out[0].NormalizedName)

	assert.True(t, brands[0].IsLargeChain)
	require.NotNil(t, brands[0].EstimatedNationwide)
	assert.Equal(t, 500, *brands[0].EstimatedNationwide)
}

func TestVerifyKnownChainCaseInsensitive(t *testing.T) {
	v := NewChainVerifier([]string{"Big Mart"}, 8)
	brand := &model.BrandGroup{
		NormalizedName: "big mart",
		LocationCount:  4,
		Cities:         cities(2),
	}

	out := v.Verify([]*model.BrandGroup{brand}, 60)
	assert.Empty(t, out)
	assert.True(t, brand.IsLargeChain)
}

func TestVerifyCityThreshold(t *testing.T) {
	v := NewChainVerifier(nil, 8)

	tests := []struct {
		name        string
		citiesFound int
		excluded    bool
	}{
		{"below threshold passes", 7, false},
		{"at threshold excluded", 8, true},
		{"above threshold excluded", 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brand := &model.BrandGroup{
				NormalizedName: "sample brand",
				LocationCount:  tt.citiesFound,
				Cities:         cities(tt.citiesFound),
			}
			out := v.Verify([]*model.BrandGroup{brand}, 60)
			if tt.excluded {
				assert.Empty(t, out)
				assert.True(t, brand.IsLargeChain)
			} else {
				assert.Len(t, out, 1)
				assert.False(t, brand.IsLargeChain)
			}
		})
	}
}

func TestVerifyExtrapolation(t *testing.T) {
	v := NewChainVerifier(nil, 8)
	brand := &model.BrandGroup{
		NormalizedName: "wide brand",
		LocationCount:  10,
		Cities:         cities(10),
	}

	out := v.Verify([]*model.BrandGroup{brand}, 60)
	assert.Empty(t, out)
	require.NotNil(t, brand.EstimatedNationwide)
	// 10 × (60/10) × 1.5
	assert.Equal(t, 90, *brand.EstimatedNationwide)
}

func TestMinLocationsForCities(t *testing.T) {
	tests := []struct {
		cities int
		want   int
	}{
		{100, 3},
		{50, 3},
		{49, 2},
		{20, 2},
		{19, 1},
		{1, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MinLocationsForCities(tt.cities), "cities=%d", tt.cities)
	}
}
