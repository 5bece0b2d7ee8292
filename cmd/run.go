package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/grouper"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/apollo"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
	"github.com/sells-group/leadgen-cli/pkg/places"
)

var (
	runVerticals []string
	runCountries []string
	runResumeID  string
	runFormat    string
	runOutput    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead discovery pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runResumeID == "" && len(runVerticals) == 0 {
			return eris.New("either --verticals or --resume is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		cat, err := config.LoadCatalogue(cfg.Cities.Path)
		if err != nil {
			return err
		}

		placesClient := places.NewClient(cfg.Search.Key,
			places.WithBaseURL(cfg.Search.BaseURL),
			places.WithRateLimit(cfg.Search.RatePerSec))
		crawler := firecrawl.NewClient(cfg.Ecommerce.Key)
		apolloClient := apollo.NewClient(cfg.Enrichment.Key,
			apollo.WithBaseURL(cfg.Enrichment.BaseURL),
			apollo.WithRateLimit(cfg.Enrichment.RatePerSec))

		var analyzer grouper.Analyzer = grouper.NoopAnalyzer{}
		if cfg.LLM.Enabled && cfg.Anthropic.Key != "" {
			analyzer = grouper.NewClaudeAnalyzer(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.LLM.Model)
		}

		p := pipeline.New(cfg, cat, st, placesClient, crawler, apolloClient, analyzer)

		outPath, err := p.Run(ctx, pipeline.Options{
			Verticals:   runVerticals,
			Countries:   runCountries,
			ResumeRunID: runResumeID,
			Format:      runFormat,
			OutputPath:  runOutput,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		fmt.Println(outPath)
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runVerticals, "verticals", nil, "retail verticals to search (e.g. apparel,home_goods)")
	runCmd.Flags().StringSliceVar(&runCountries, "countries", []string{"usa", "canada"}, "countries whose city lists to search")
	runCmd.Flags().StringVar(&runResumeID, "resume", "", "resume an interrupted run from its last checkpoint")
	runCmd.Flags().StringVar(&runFormat, "format", "", "export format (csv or xlsx, default from config)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "export file path (default: timestamped file in output dir)")
	rootCmd.AddCommand(runCmd)
}
