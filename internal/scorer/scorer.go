// Package scorer ranks qualified leads by outreach priority, driven by
// tech-stack signals with Lightspeed POS users at the top.
package scorer

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// posPlatforms are checked in order; the first hit wins.
var posPlatforms = []string{
	"Lightspeed",
	"Shopify POS",
	"Square",
	"Clover",
	"Toast",
	"Revel",
	"Vend",
	"Heartland",
}

// knownMarketplaces are matched against the lead's marketplace list.
var knownMarketplaces = []string{
	"Amazon",
	"eBay",
	"Etsy",
	"Walmart",
	"Google Shopping",
	"Facebook Shop",
	"Instagram Shop",
}

// Weights controls how much each signal contributes to the priority score.
type Weights struct {
	Lightspeed           int `yaml:"lightspeed"`
	Marketplaces         int `yaml:"marketplaces"`
	MultipleMarketplaces int `yaml:"multiple_marketplaces"`
	Locations3to5        int `yaml:"locations_3_5"`
	Locations6to10       int `yaml:"locations_6_10"`
	Ecommerce            int `yaml:"ecommerce"`
	Contact              int `yaml:"contact"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Lightspeed:           30,
		Marketplaces:         15,
		MultipleMarketplaces: 10,
		Locations3to5:        15,
		Locations6to10:       10,
		Ecommerce:            10,
		Contact:              10,
	}
}

// LoadWeights reads a weights override file. Fields absent from the file
// keep their defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, eris.Wrap(err, "scorer: read weights file")
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, eris.Wrap(err, "scorer: parse weights file")
	}
	return w, nil
}

// Scorer computes priority scores and sorts leads for export.
type Scorer struct {
	weights Weights
	log     *zap.Logger
}

func New(weights Weights) *Scorer {
	return &Scorer{
		weights: weights,
		log:     zap.L().With(zap.String("component", "scorer")),
	}
}

// ScoreAll scores every lead in place and returns the slice sorted by
// priority score descending. The sort is stable so equally scored leads
// keep their discovery order.
func (s *Scorer) ScoreAll(leads []*model.Lead) []*model.Lead {
	for _, lead := range leads {
		s.Score(lead)
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].PriorityScore > leads[j].PriorityScore
	})

	s.log.Info("scoring complete", zap.Int("leads", len(leads)))
	return leads
}

// Score fills the lead's scoring outputs from its signals.
func (s *Scorer) Score(lead *model.Lead) {
	lead.POSPlatform = detectPOSPlatform(lead.TechnologyNames)
	lead.UsesLightspeed = lead.POSPlatform == "Lightspeed"
	lead.DetectedMarketplaces = detectKnownMarketplaces(lead.Marketplaces)

	score := 0
	if lead.UsesLightspeed {
		score += s.weights.Lightspeed
	}
	if len(lead.DetectedMarketplaces) > 0 {
		score += s.weights.Marketplaces
		if len(lead.DetectedMarketplaces) > 1 {
			score += s.weights.MultipleMarketplaces
		}
	}
	switch {
	case lead.LocationCount >= 3 && lead.LocationCount <= 5:
		score += s.weights.Locations3to5
	case lead.LocationCount >= 6 && lead.LocationCount <= 10:
		score += s.weights.Locations6to10
	}
	if lead.HasEcommerce {
		score += s.weights.Ecommerce
	}
	if !lead.Contacts[0].Empty() {
		score += s.weights.Contact
	}

	lead.PriorityScore = score
}

func detectPOSPlatform(techStack []string) string {
	for _, tech := range techStack {
		techLower := strings.ToLower(tech)
		for _, pos := range posPlatforms {
			if strings.Contains(techLower, strings.ToLower(pos)) {
				return pos
			}
		}
	}
	return ""
}

func detectKnownMarketplaces(marketplaces []string) []string {
	if len(marketplaces) == 0 {
		return nil
	}

	joined := strings.ToLower(strings.Join(marketplaces, ","))
	var detected []string
	for _, marketplace := range knownMarketplaces {
		if strings.Contains(joined, strings.ToLower(marketplace)) {
			detected = append(detected, marketplace)
		}
	}
	return detected
}
