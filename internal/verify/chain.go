// Package verify filters out large chains before any paid enrichment
// spend, using only signals already in hand.
package verify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// knownChainEstimate is the nationwide location estimate recorded for
// brands matched against the known-chain set.
const knownChainEstimate = 500

// extrapolationMargin pads the density extrapolation for under-sampling.
const extrapolationMargin = 1.5

// ChainVerifier flags brands whose observed footprint implies a national
// chain. It is a pure heuristic pass; nothing here touches the network.
type ChainVerifier struct {
	knownChains map[string]bool
	maxCities   int
	log         *zap.Logger
}

// NewChainVerifier builds a verifier from the known-chain name set and the
// cities-found threshold at which a brand is treated as a chain.
func NewChainVerifier(knownChains []string, maxCities int) *ChainVerifier {
	set := make(map[string]bool, len(knownChains))
	for _, name := range knownChains {
		set[strings.ToLower(name)] = true
	}
	return &ChainVerifier{
		knownChains: set,
		maxCities:   maxCities,
		log:         zap.L().With(zap.String("component", "chain_verifier")),
	}
}

// Verify marks large chains and returns only the brands that pass. Flagged
// groups are mutated (IsLargeChain, EstimatedNationwide) so checkpoint
// snapshots record why they were excluded.
func (v *ChainVerifier) Verify(brands []*model.BrandGroup, searchedCities int) []*model.BrandGroup {
	var verified []*model.BrandGroup

	for _, brand := range brands {
		if v.knownChains[brand.NormalizedName] {
			estimate := knownChainEstimate
			brand.IsLargeChain = true
			brand.EstimatedNationwide = &estimate
			v.log.Info("known chain excluded",
				zap.String("brand", brand.NormalizedName))
			continue
		}

		citiesFound := len(brand.Cities)
		if v.maxCities > 0 && citiesFound >= v.maxCities {
			estimate := extrapolate(brand.LocationCount, citiesFound, searchedCities)
			brand.IsLargeChain = true
			brand.EstimatedNationwide = &estimate
			v.log.Info("wide footprint excluded",
				zap.String("brand", brand.NormalizedName),
				zap.Int("cities_found", citiesFound),
				zap.Int("estimated_nationwide", estimate))
			continue
		}

		verified = append(verified, brand)
	}

	v.log.Info("chain verification complete",
		zap.Int("in", len(brands)),
		zap.Int("out", len(verified)))
	return verified
}

// extrapolate scales the observed location count from the sampled cities to
// the full search footprint, with a margin for locations the sample missed.
func extrapolate(locationCount, citiesFound, searchedCities int) int {
	if citiesFound == 0 {
		return locationCount
	}
	return int(float64(locationCount) * (float64(searchedCities) / float64(citiesFound)) * extrapolationMargin)
}

// MinLocationsForCities lowers the grouper's minimum when few cities were
// searched, since a sparse search sees fewer of each brand's locations.
func MinLocationsForCities(searchedCities int) int {
	switch {
	case searchedCities >= 50:
		return 3
	case searchedCities >= 20:
		return 2
	default:
		return 1
	}
}
