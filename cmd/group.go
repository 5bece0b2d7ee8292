package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/grouper"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
)

var (
	groupInput  string
	groupOutput string
)

// groupCmd runs the grouping stages over captured place records without
// touching the search or enrichment APIs. Useful for tuning normalization
// and chain-filter settings against a fixed dataset.
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group captured place records into brands",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(groupInput)
		if err != nil {
			return eris.Wrap(err, "read places file")
		}
		var rawPlaces []model.RawPlace
		if err := json.Unmarshal(data, &rawPlaces); err != nil {
			return eris.Wrap(err, "parse places file")
		}

		cat, err := config.LoadCatalogue(cfg.Cities.Path)
		if err != nil {
			return err
		}

		var analyzer grouper.Analyzer = grouper.NoopAnalyzer{}
		if cfg.LLM.Enabled && cfg.Anthropic.Key != "" {
			analyzer = grouper.NewClaudeAnalyzer(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.LLM.Model)
		}

		p := pipeline.New(cfg, cat, nil, nil, nil, nil, analyzer)
		groups := p.Group(ctx, rawPlaces)

		out := os.Stdout
		if groupOutput != "" {
			f, err := os.Create(groupOutput)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	},
}

func init() {
	groupCmd.Flags().StringVarP(&groupInput, "input", "i", "", "JSON file of raw place records (required)")
	groupCmd.Flags().StringVarP(&groupOutput, "output", "o", "", "write grouped brands JSON to a file instead of stdout")
	_ = groupCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(groupCmd)
}
