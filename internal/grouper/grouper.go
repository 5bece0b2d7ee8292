// Package grouper merges raw place records into brand groups using
// normalized names and website domains, then filters the groups down to the
// multi-location size band worth pursuing.
package grouper

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
)

// redirectParallelism bounds the pre-resolution warm-up fan-out.
const redirectParallelism = 50

type groupKey struct {
	name   string
	domain string
}

// Grouper groups places by (normalized name, domain key). Thresholds are
// per-instance so the pipeline can lower the minimum when few cities were
// searched.
type Grouper struct {
	minLocations int
	maxLocations int
	normalizer   *normalize.Normalizer
	resolver     *normalize.RedirectResolver // nil disables redirect resolution
	log          *zap.Logger
}

func New(n *normalize.Normalizer, minLocations, maxLocations int, resolver *normalize.RedirectResolver) *Grouper {
	return &Grouper{
		minLocations: minLocations,
		maxLocations: maxLocations,
		normalizer:   n,
		resolver:     resolver,
		log:          zap.L().With(zap.String("component", "grouper")),
	}
}

// Group merges places into brand groups. Places sharing a non-empty domain
// key merge even when spelled differently; places with the same normalized
// name but different non-empty domains stay apart, since distinct businesses
// often share a generic name.
func (g *Grouper) Group(ctx context.Context, places []model.RawPlace) []*model.BrandGroup {
	if g.resolver != nil {
		urls := make([]string, 0, len(places))
		for _, p := range places {
			if p.Website != "" {
				urls = append(urls, p.Website)
			}
		}
		g.resolver.ResolveAll(ctx, urls, redirectParallelism)
	}

	var keyOrder []groupKey
	groups := make(map[groupKey]*model.BrandGroup)

	for _, place := range places {
		if place.Name == "" {
			continue
		}

		domain := g.domainKey(ctx, place.Website)
		name := g.normalizer.Normalize(place.Name, place.Website)
		if name == "" {
			continue
		}

		key := groupKey{name: name, domain: domain}
		if domain == "" {
			key = groupKey{name: name}
		}

		group, ok := groups[key]
		if !ok {
			group = model.NewBrandGroup(name)
			groups[key] = group
			keyOrder = append(keyOrder, key)
		}

		group.OriginalNames = append(group.OriginalNames, place.Name)
		group.LocationCount++
		group.Locations = append(group.Locations, place)
		if group.Website == "" && place.Website != "" {
			group.Website = place.Website
		}
		group.AddCity(place.City)
	}

	ordered := make([]*model.BrandGroup, 0, len(keyOrder))
	for _, key := range keyOrder {
		ordered = append(ordered, groups[key])
	}

	merged := g.mergeByDomain(ctx, ordered)

	g.log.Info("grouping complete",
		zap.Int("places", len(places)),
		zap.Int("groups", len(merged)))
	return merged
}

// domainKey resolves redirects when enabled, then reduces the URL to its
// registrable domain.
func (g *Grouper) domainKey(ctx context.Context, website string) string {
	if website == "" {
		return ""
	}
	if g.resolver != nil {
		website = g.resolver.Resolve(ctx, website)
	}
	return normalize.Domain(website)
}

// mergeByDomain collapses groups that share a domain and have related names.
// Regional naming ("brand toronto", "brand vancouver") produces distinct
// normalized names for one business; the shared domain ties them back
// together.
func (g *Grouper) mergeByDomain(ctx context.Context, groups []*model.BrandGroup) []*model.BrandGroup {
	var domainOrder []string
	byDomain := make(map[string][]*model.BrandGroup)
	var noDomain []*model.BrandGroup

	for _, group := range groups {
		domain := g.domainKey(ctx, group.Website)
		if domain == "" {
			noDomain = append(noDomain, group)
			continue
		}
		if _, ok := byDomain[domain]; !ok {
			domainOrder = append(domainOrder, domain)
		}
		byDomain[domain] = append(byDomain[domain], group)
	}

	var merged []*model.BrandGroup
	for _, domain := range domainOrder {
		domainGroups := byDomain[domain]
		if len(domainGroups) == 1 {
			merged = append(merged, domainGroups[0])
			continue
		}

		names := make([]string, len(domainGroups))
		for i, dg := range domainGroups {
			names[i] = dg.NormalizedName
		}

		if !namesAreRelated(names) {
			merged = append(merged, domainGroups...)
			continue
		}

		base := domainGroups[0]
		for _, other := range domainGroups[1:] {
			base.Absorb(other)
		}
		merged = append(merged, base)
	}

	return append(merged, noDomain...)
}

// namesAreRelated reports whether every name shares at least a 3-character
// prefix with the shortest name in the set.
func namesAreRelated(names []string) bool {
	if len(names) < 2 {
		return true
	}

	shortest := names[0]
	for _, name := range names[1:] {
		if len(name) < len(shortest) {
			shortest = name
		}
	}

	for _, name := range names {
		if commonPrefixLen(shortest, name) < 3 {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Filter keeps only groups within the configured location-count band.
func (g *Grouper) Filter(groups []*model.BrandGroup) []*model.BrandGroup {
	var kept []*model.BrandGroup
	for _, group := range groups {
		if g.minLocations <= group.LocationCount && group.LocationCount <= g.maxLocations {
			kept = append(kept, group)
		}
	}
	return kept
}

// FilterWithBlocklist applies the size filter and then drops any group whose
// normalized name matches the known-chain blocklist.
func (g *Grouper) FilterWithBlocklist(groups []*model.BrandGroup, blocklist *normalize.Blocklist) []*model.BrandGroup {
	var kept []*model.BrandGroup
	for _, group := range g.Filter(groups) {
		if blocklist.Blocked(group.NormalizedName) {
			g.log.Debug("group blocked",
				zap.String("brand", group.NormalizedName),
				zap.Int("locations", group.LocationCount))
			continue
		}
		kept = append(kept, group)
	}
	return kept
}

// ProcessWithLLM asks the analyzer for merge and large-chain
// recommendations and applies them. Analyzer failures leave the groups
// untouched; false separation is recoverable by a reviewer, a bad merge is
// not.
func (g *Grouper) ProcessWithLLM(ctx context.Context, groups []*model.BrandGroup, analyzer Analyzer) []*model.BrandGroup {
	analysis, err := analyzer.Analyze(ctx, groups)
	if err != nil {
		g.log.Warn("brand analysis failed, keeping groups as-is", zap.Error(err))
		return groups
	}

	if len(analysis.Merges) > 0 {
		groups = applyMerges(groups, analysis.Merges)
	}

	if len(analysis.LargeChains) > 0 {
		chains := make(map[string]bool, len(analysis.LargeChains))
		for _, name := range analysis.LargeChains {
			chains[name] = true
		}
		var kept []*model.BrandGroup
		for _, group := range groups {
			if chains[group.NormalizedName] {
				g.log.Info("group dropped as large chain",
					zap.String("brand", group.NormalizedName))
				continue
			}
			kept = append(kept, group)
		}
		groups = kept
	}

	return groups
}

// applyMerges folds each recommended merge set into its first member.
// Recommendations naming unknown groups are ignored.
func applyMerges(groups []*model.BrandGroup, merges [][]string) []*model.BrandGroup {
	byName := make(map[string]*model.BrandGroup, len(groups))
	for _, group := range groups {
		byName[group.NormalizedName] = group
	}

	mergedAway := make(map[string]bool)
	for _, mergeSet := range merges {
		var toMerge []*model.BrandGroup
		for _, name := range mergeSet {
			if group, ok := byName[name]; ok {
				toMerge = append(toMerge, group)
			}
		}
		if len(toMerge) < 2 {
			continue
		}

		base := toMerge[0]
		for _, other := range toMerge[1:] {
			base.Absorb(other)
			mergedAway[other.NormalizedName] = true
		}
	}

	var kept []*model.BrandGroup
	for _, group := range groups {
		if !mergedAway[group.NormalizedName] {
			kept = append(kept, group)
		}
	}
	return kept
}
