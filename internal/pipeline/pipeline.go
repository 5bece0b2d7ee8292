// Package pipeline sequences the discovery stages from city search through
// export, checkpointing the full collection between stages so an
// interrupted run can resume.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/dedup"
	"github.com/sells-group/leadgen-cli/internal/ecommerce"
	"github.com/sells-group/leadgen-cli/internal/gate"
	"github.com/sells-group/leadgen-cli/internal/grouper"
	"github.com/sells-group/leadgen-cli/internal/health"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
	"github.com/sells-group/leadgen-cli/internal/scorer"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/internal/verify"
	"github.com/sells-group/leadgen-cli/pkg/apollo"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
	"github.com/sells-group/leadgen-cli/pkg/places"
)

// Checkpointed stages, in execution order. Gate, scoring, and export are
// cheap and local, so they rerun on every resume instead of checkpointing.
const (
	StageSearch    = "search"
	StageGroup     = "group"
	StageVerify    = "verify"
	StageEcommerce = "ecommerce"
	StageEnrich    = "enrich"
)

var stageRank = map[string]int{
	StageSearch:    0,
	StageGroup:     1,
	StageVerify:    2,
	StageEcommerce: 3,
	StageEnrich:    4,
}

// Options selects what a run searches and where its output goes.
type Options struct {
	Verticals   []string
	Countries   []string
	ResumeRunID string
	Format      string // overrides config when set
	OutputPath  string // overrides the generated path when set
}

// Pipeline orchestrates a full discovery run.
type Pipeline struct {
	cfg      *config.Config
	cat      *config.Catalogue
	store    store.Store
	places   places.Client
	crawler  firecrawl.Client
	apollo   apollo.Client
	analyzer grouper.Analyzer
	log      *zap.Logger
}

// New creates a Pipeline with all collaborators injected.
func New(
	cfg *config.Config,
	cat *config.Catalogue,
	st store.Store,
	placesClient places.Client,
	crawler firecrawl.Client,
	apolloClient apollo.Client,
	analyzer grouper.Analyzer,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		cat:      cat,
		store:    st,
		places:   placesClient,
		crawler:  crawler,
		apollo:   apolloClient,
		analyzer: analyzer,
		log:      zap.L().With(zap.String("component", "pipeline")),
	}
}

// Run executes the pipeline and returns the exported file path.
func (p *Pipeline) Run(ctx context.Context, opts Options) (string, error) {
	var (
		run       *model.Run
		payload   model.CheckpointPayload
		completed = -1
	)

	if opts.ResumeRunID != "" {
		var err error
		run, err = p.store.GetRun(ctx, opts.ResumeRunID)
		if err != nil {
			return "", eris.Wrap(err, "pipeline: load run")
		}
		opts.Verticals = run.Params.Verticals
		opts.Countries = run.Params.Countries

		cp, err := p.store.LatestCheckpoint(ctx, run.ID)
		if err != nil {
			return "", eris.Wrap(err, "pipeline: load checkpoint")
		}
		if cp != nil {
			completed = stageRank[cp.Stage]
			payload = cp.Payload
			p.log.Info("resuming run",
				zap.String("run_id", run.ID),
				zap.String("last_stage", cp.Stage),
			)
		}
		if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
			p.log.Warn("failed to update run status", zap.Error(err))
		}
	} else {
		cities := p.cat.CitiesFor(opts.Countries)
		var err error
		run, err = p.store.CreateRun(ctx, model.RunParams{
			Verticals:      opts.Verticals,
			Countries:      opts.Countries,
			CitiesSearched: len(cities),
		})
		if err != nil {
			return "", eris.Wrap(err, "pipeline: create run")
		}
		p.log.Info("starting run",
			zap.String("run_id", run.ID),
			zap.Strings("verticals", opts.Verticals),
			zap.Strings("countries", opts.Countries),
			zap.Int("cities", len(cities)),
		)
	}

	cities := p.cat.CitiesFor(opts.Countries)

	fail := func(err error) (string, error) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed); statusErr != nil {
			p.log.Warn("failed to update run status", zap.Error(statusErr))
		}
		return "", err
	}

	rawPlaces := payload.Places
	if completed < stageRank[StageSearch] {
		var err error
		rawPlaces, err = p.search(ctx, opts.Verticals, cities)
		if err != nil {
			return fail(err)
		}
		p.checkpoint(ctx, run.ID, StageSearch, model.CheckpointPayload{Places: rawPlaces})
	}

	minLocations := verify.MinLocationsForCities(len(cities))

	groups := payload.Groups
	if completed < stageRank[StageGroup] {
		groups = p.group(ctx, rawPlaces, minLocations)
		p.checkpoint(ctx, run.ID, StageGroup, model.CheckpointPayload{Groups: groups})
	}

	if completed < stageRank[StageVerify] {
		verifier := verify.NewChainVerifier(p.cfg.ChainFilter.KnownLargeChains, p.cfg.ChainFilter.MaxCities)
		groups = verifier.Verify(groups, len(cities))
		p.checkpoint(ctx, run.ID, StageVerify, model.CheckpointPayload{Groups: groups})
	}

	if completed < stageRank[StageEcommerce] {
		checker := health.NewChecker(time.Duration(p.cfg.Health.TimeoutSecs)*time.Second, p.cfg.Health.Concurrency)
		groups = checker.Check(ctx, groups)

		ec := ecommerce.NewChecker(p.crawler, p.cfg.Ecommerce.PagesToCheck,
			time.Duration(p.cfg.Ecommerce.TimeoutSecs)*time.Second, p.cfg.Ecommerce.Concurrency)
		ec.CheckAll(ctx, groups)
		p.checkpoint(ctx, run.ID, StageEcommerce, model.CheckpointPayload{Groups: groups})
	}

	leads := payload.Leads
	if completed < stageRank[StageEnrich] {
		leads = p.enrich(ctx, groups)
		p.checkpoint(ctx, run.ID, StageEnrich, model.CheckpointPayload{Leads: leads})
	}

	qualityGate := gate.New(&apolloProfileFetcher{client: p.apollo},
		p.cfg.Gate.MaxLocations, p.cfg.Gate.MaxEmployees, p.cfg.Gate.Concurrency)
	qualityGate.Run(ctx, leads)

	weights := scorer.DefaultWeights()
	if p.cfg.Scorer.WeightsPath != "" {
		var err error
		weights, err = scorer.LoadWeights(p.cfg.Scorer.WeightsPath)
		if err != nil {
			return fail(err)
		}
	}
	scorer.New(weights).ScoreAll(leads)

	outPath, err := p.export(leads, opts)
	if err != nil {
		return fail(err)
	}

	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusComplete); err != nil {
		p.log.Warn("failed to update run status", zap.Error(err))
	}
	p.log.Info("run complete",
		zap.String("run_id", run.ID),
		zap.Int("leads", len(leads)),
		zap.String("output", outPath),
	)
	return outPath, nil
}

// Group runs the offline grouping path over captured place records. Used by
// the group subcommand for QA without touching the network.
func (p *Pipeline) Group(ctx context.Context, rawPlaces []model.RawPlace) []*model.BrandGroup {
	return p.group(ctx, rawPlaces, p.cfg.Grouping.MinLocations)
}

func (p *Pipeline) group(ctx context.Context, rawPlaces []model.RawPlace, minLocations int) []*model.BrandGroup {
	merged := dedup.New().Dedupe(rawPlaces)
	deduped := make([]model.RawPlace, 0, len(merged))
	for _, m := range merged {
		deduped = append(deduped, m.ToRaw())
	}
	p.log.Info("deduplicated places",
		zap.Int("raw", len(rawPlaces)),
		zap.Int("merged", len(merged)),
	)

	normalizer := normalize.NewNormalizer(p.cat.AllCityNames())

	var resolver *normalize.RedirectResolver
	if p.cfg.Grouping.ResolveRedirects {
		resolver = normalize.NewRedirectResolver(nil,
			time.Duration(p.cfg.Grouping.RedirectTimeout)*time.Second)
	}

	g := grouper.New(normalizer, minLocations, p.cfg.Grouping.MaxLocations, resolver)
	groups := g.Group(ctx, deduped)

	blocklist := normalize.NewBlocklist(p.cfg.ChainFilter.KnownLargeChains, normalizer)
	filtered := g.FilterWithBlocklist(groups, blocklist)

	filtered = g.ProcessWithLLM(ctx, filtered, p.analyzer)

	p.log.Info("grouped brands",
		zap.Int("groups", len(groups)),
		zap.Int("filtered", len(filtered)),
		zap.Int("min_locations", minLocations),
	)
	return filtered
}

func (p *Pipeline) checkpoint(ctx context.Context, runID, stage string, payload model.CheckpointPayload) {
	if _, err := p.store.SaveCheckpoint(ctx, runID, stage, payload); err != nil {
		p.log.Warn("failed to save checkpoint",
			zap.String("stage", stage),
			zap.Error(err),
		)
		return
	}
	p.log.Info("checkpoint saved", zap.String("stage", stage))
}
