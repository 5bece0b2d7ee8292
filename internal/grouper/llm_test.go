package grouper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

func TestNoopAnalyzer(t *testing.T) {
	analysis, err := NoopAnalyzer{}.Analyze(context.Background(), []*model.BrandGroup{
		{NormalizedName: "healthy planet", LocationCount: 9},
	})
	require.NoError(t, err)
	assert.Empty(t, analysis.Merges)
	assert.Empty(t, analysis.LargeChains)
}

func TestFindAmbiguousGroups(t *testing.T) {
	groups := []*model.BrandGroup{
		{NormalizedName: "healthy planet", LocationCount: 4},
		{NormalizedName: "healthy planet natural foods", LocationCount: 3},
		{NormalizedName: "corner books", LocationCount: 5},
	}

	sets := findAmbiguousGroups(groups)
	require.Len(t, sets, 1)
	assert.Len(t, sets[0], 2)
}

func TestFindAmbiguousGroupsBorderlineCount(t *testing.T) {
	groups := []*model.BrandGroup{
		{NormalizedName: "corner books", LocationCount: 9},
		{NormalizedName: "zephyr shoes", LocationCount: 4},
	}

	sets := findAmbiguousGroups(groups)
	require.Len(t, sets, 1)
	assert.Equal(t, "corner books", sets[0][0].NormalizedName)
}

func TestFindAmbiguousGroupsNone(t *testing.T) {
	groups := []*model.BrandGroup{
		{NormalizedName: "corner books", LocationCount: 4},
		{NormalizedName: "zephyr shoes", LocationCount: 5},
	}
	assert.Empty(t, findAmbiguousGroups(groups))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"merges": []}`, `{"merges": []}`},
		{"fenced", "```json\n{\"merges\": []}\n```", `{"merges": []}`},
		{"fence no language", "```\n{}\n```", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestClaudeAnalyzerParsesResponse(t *testing.T) {
	mc := new(anthropic.MockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: `{"merges": [["healthy planet", "healthy planet natural foods"]], "large_chains": ["big mart"]}`},
		},
	}, nil)

	analyzer := NewClaudeAnalyzer(mc, "claude-haiku-4-5-20251001")
	analysis, err := analyzer.Analyze(context.Background(), []*model.BrandGroup{
		{NormalizedName: "healthy planet", LocationCount: 4},
		{NormalizedName: "healthy planet natural foods", LocationCount: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"healthy planet", "healthy planet natural foods"}}, analysis.Merges)
	assert.Equal(t, []string{"big mart"}, analysis.LargeChains)
	mc.AssertExpectations(t)
}

func TestClaudeAnalyzerSkipsWhenNothingAmbiguous(t *testing.T) {
	mc := new(anthropic.MockClient)
	analyzer := NewClaudeAnalyzer(mc, "claude-haiku-4-5-20251001")

	analysis, err := analyzer.Analyze(context.Background(), []*model.BrandGroup{
		{NormalizedName: "corner books", LocationCount: 4},
	})
	require.NoError(t, err)
	assert.Empty(t, analysis.Merges)
	mc.AssertNotCalled(t, "CreateMessage")
}

type stubAnalyzer struct {
	analysis Analysis
	err      error
}

func (s stubAnalyzer) Analyze(_ context.Context, _ []*model.BrandGroup) (Analysis, error) {
	return s.analysis, s.err
}

func TestProcessWithLLMAppliesMerges(t *testing.T) {
	g := New(normalize.NewNormalizer(nil), 1, 10, nil)
	groups := []*model.BrandGroup{
		{NormalizedName: "healthy planet", LocationCount: 2, Cities: []string{"Toronto, ON"}},
		{NormalizedName: "healthy planet natural foods", LocationCount: 3, Cities: []string{"Vancouver, BC"}},
	}

	out := g.ProcessWithLLM(context.Background(), groups, stubAnalyzer{
		analysis: Analysis{Merges: [][]string{{"healthy planet", "healthy planet natural foods"}}},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "healthy planet", out[0].NormalizedName)
	assert.Equal(t, 5, out[0].LocationCount)
	assert.Equal(t, []string{"Toronto, ON", "Vancouver, BC"}, out[0].Cities)
}

func TestProcessWithLLMDropsLargeChains(t *testing.T) {
	g := New(normalize.NewNormalizer(nil), 1, 10, nil)
	groups := []*model.BrandGroup{
		{NormalizedName: "big mart", LocationCount: 9},
		{NormalizedName: "corner books", LocationCount: 4},
	}

	out := g.ProcessWithLLM(context.Background(), groups, stubAnalyzer{
		analysis: Analysis{LargeChains: []string{"big mart"}},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "corner books", out[0].NormalizedName)
}

func TestProcessWithLLMAnalyzerFailureKeepsGroups(t *testing.T) {
	g := New(normalize.NewNormalizer(nil), 1, 10, nil)
	groups := []*model.BrandGroup{
		{NormalizedName: "healthy planet", LocationCount: 2},
		{NormalizedName: "healthy planet natural foods", LocationCount: 3},
	}

	out := g.ProcessWithLLM(context.Background(), groups, stubAnalyzer{err: assert.AnError})
	assert.Len(t, out, 2)
}
