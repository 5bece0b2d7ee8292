package grouper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// Analysis carries merge and large-chain recommendations for a set of
// brand groups.
type Analysis struct {
	Merges      [][]string `json:"merges"`
	LargeChains []string   `json:"large_chains"`
}

// Analyzer recommends group merges and large-chain reclassifications.
// Grouping correctness never depends on an analyzer being available.
type Analyzer interface {
	Analyze(ctx context.Context, groups []*model.BrandGroup) (Analysis, error)
}

// NoopAnalyzer returns empty recommendations. Used when LLM disambiguation
// is disabled.
type NoopAnalyzer struct{}

func (NoopAnalyzer) Analyze(_ context.Context, _ []*model.BrandGroup) (Analysis, error) {
	return Analysis{}, nil
}

const analyzerSystemPrompt = `You are analyzing retail brand names to help identify:
1. Groups that should be merged (same company, different name variations)
2. Brands that are large national chains (50+ locations nationwide)

Respond with JSON only, no explanation:
{"merges": [["brand1", "brand2"]], "large_chains": ["brand3"]}

Rules:
- Only merge if you're confident they're the same company
- Only mark as large_chain if you know it's a major national/international retailer
- If uncertain, don't include it`

// ClaudeAnalyzer disambiguates lexically close brand groups with a single
// model call over the ambiguous subset.
type ClaudeAnalyzer struct {
	client anthropic.Client
	model  string
	log    *zap.Logger
}

func NewClaudeAnalyzer(client anthropic.Client, modelID string) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{
		client: client,
		model:  modelID,
		log:    zap.L().With(zap.String("component", "brand_analyzer")),
	}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, groups []*model.BrandGroup) (Analysis, error) {
	ambiguous := findAmbiguousGroups(groups)
	if len(ambiguous) == 0 {
		return Analysis{}, nil
	}

	var (
		lines []string
		seen  = make(map[string]bool)
	)
	for _, set := range ambiguous {
		for _, group := range set {
			if seen[group.NormalizedName] {
				continue
			}
			seen[group.NormalizedName] = true
			lines = append(lines, fmt.Sprintf("- %s (%d locations)", group.NormalizedName, group.LocationCount))
		}
	}

	temp := 0.0
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   1000,
		Temperature: &temp,
		System:      anthropic.CachedSystem(analyzerSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: "Here are the brand groups found:\n" + strings.Join(lines, "\n")},
		},
	})
	if err != nil {
		return Analysis{}, eris.Wrap(err, "grouper: brand analysis request")
	}
	resp.Usage.LogCost(a.model, "brand_analysis")

	var analysis Analysis
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Text())), &analysis); err != nil {
		return Analysis{}, eris.Wrap(err, "grouper: parse brand analysis response")
	}

	a.log.Info("brand analysis complete",
		zap.Int("ambiguous_sets", len(ambiguous)),
		zap.Int("merges", len(analysis.Merges)),
		zap.Int("large_chains", len(analysis.LargeChains)))
	return analysis, nil
}

// findAmbiguousGroups collects sets of groups whose names overlap enough to
// need disambiguation, plus groups sitting near the size ceiling where a
// missed merge would change the filter outcome.
func findAmbiguousGroups(groups []*model.BrandGroup) [][]*model.BrandGroup {
	var sets [][]*model.BrandGroup

	for i, group := range groups {
		similar := []*model.BrandGroup{group}
		words1 := wordSet(group.NormalizedName)

		for _, other := range groups[i+1:] {
			words2 := wordSet(other.NormalizedName)
			overlap := 0
			for w := range words1 {
				if words2[w] {
					overlap++
				}
			}
			longest := len(words1)
			if len(words2) > longest {
				longest = len(words2)
			}
			if overlap >= 1 && longest > 0 && float64(overlap)/float64(longest) >= 0.5 {
				similar = append(similar, other)
			}
		}

		if len(similar) > 1 {
			sets = append(sets, similar)
		}
	}

	var borderline []*model.BrandGroup
	for _, group := range groups {
		if group.LocationCount >= 8 && group.LocationCount <= 12 {
			borderline = append(borderline, group)
		}
	}
	if len(borderline) > 0 {
		sets = append(sets, borderline)
	}

	return sets
}

func wordSet(name string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(name) {
		words[w] = true
	}
	return words
}

// stripCodeFence unwraps a ```json ... ``` fenced response body.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
