package dedup

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
)

// nameSuffixes are stripped (in order) when building a name-based bucket key
// for records that carry no website.
var nameSuffixes = []string{" inc", " llc", " ltd", " corp", " store", " shop", " boutique"}

const (
	confidenceSingle = 1.0
	confidenceMerged = 0.95
)

// Deduplicator collapses raw place records that describe the same physical
// location into single merged records.
type Deduplicator struct {
	log *zap.Logger
}

func New() *Deduplicator {
	return &Deduplicator{log: zap.L().With(zap.String("component", "dedup"))}
}

// Dedupe merges duplicates in two phases. Phase one buckets records by
// website domain and city (falling back to a lightly normalized name and
// city for records without a website). Phase two splits each bucket by
// normalized street address, so distinct locations of the same brand in the
// same city survive as separate records.
func (d *Deduplicator) Dedupe(places []model.RawPlace) []model.MergedPlace {
	bucketOrder := make([]string, 0, len(places))
	buckets := make(map[string][]model.RawPlace, len(places))

	for _, p := range places {
		key := bucketKey(p)
		if _, ok := buckets[key]; !ok {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	merged := make([]model.MergedPlace, 0, len(buckets))
	for _, key := range bucketOrder {
		for _, sub := range splitByAddress(buckets[key]) {
			merged = append(merged, mergeGroup(sub))
		}
	}

	d.log.Info("deduplication complete",
		zap.Int("raw", len(places)),
		zap.Int("merged", len(merged)))
	return merged
}

// bucketKey prefers the website domain, which is stable across sources; the
// name fallback tolerates minor suffix differences but not misspellings.
func bucketKey(p model.RawPlace) string {
	city := strings.ToLower(strings.TrimSpace(p.City))
	if domain := normalize.Domain(p.Website); domain != "" {
		return domain + "|" + city
	}
	return lightNormalizeName(p.Name) + "|" + city
}

func lightNormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range nameSuffixes {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}

// splitByAddress partitions a bucket into per-address sub-groups. Records
// without a usable address join the first sub-group rather than forming a
// phantom location of their own.
func splitByAddress(bucket []model.RawPlace) [][]model.RawPlace {
	var (
		order     []string
		subGroups = make(map[string][]model.RawPlace)
		noAddress []model.RawPlace
	)

	for _, p := range bucket {
		key := NormalizeAddress(p.Address)
		if key == "" {
			noAddress = append(noAddress, p)
			continue
		}
		if _, ok := subGroups[key]; !ok {
			order = append(order, key)
		}
		subGroups[key] = append(subGroups[key], p)
	}

	if len(order) == 0 {
		if len(noAddress) == 0 {
			return nil
		}
		return [][]model.RawPlace{noAddress}
	}

	subGroups[order[0]] = append(subGroups[order[0]], noAddress...)

	out := make([][]model.RawPlace, 0, len(order))
	for _, key := range order {
		out = append(out, subGroups[key])
	}
	return out
}

// sourcePriority ranks record sources for choosing merged primary fields.
// Search results carry the freshest data, brand expansion results are
// derived, and everything else trails.
func sourcePriority(source string) int {
	switch source {
	case model.SourceSearch:
		return 0
	case model.SourceBrandExpansion:
		return 1
	default:
		return 2
	}
}

func mergeGroup(group []model.RawPlace) model.MergedPlace {
	sorted := make([]model.RawPlace, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sourcePriority(sorted[i].Source) < sourcePriority(sorted[j].Source)
	})

	primary := sorted[0]

	var sources []string
	seen := make(map[string]bool)
	for _, p := range sorted {
		if !seen[p.Source] {
			seen[p.Source] = true
			sources = append(sources, p.Source)
		}
	}

	website := primary.Website
	placeID := primary.PlaceID
	for _, p := range sorted {
		if website == "" && p.Website != "" {
			website = p.Website
		}
		if placeID == "" && p.PlaceID != "" {
			placeID = p.PlaceID
		}
	}

	confidence := confidenceSingle
	if len(group) > 1 {
		confidence = confidenceMerged
	}

	return model.MergedPlace{
		Name:       primary.Name,
		Address:    primary.Address,
		Website:    website,
		PlaceID:    placeID,
		City:       primary.City,
		Vertical:   primary.Vertical,
		Sources:    sources,
		Confidence: confidence,
	}
}
