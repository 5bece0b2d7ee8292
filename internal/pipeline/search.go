package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
)

type searchTask struct {
	query    string
	city     string
	vertical string
}

// search fans out one text search per (vertical query, city) pair. Failed
// searches are logged and skipped rather than failing the run.
func (p *Pipeline) search(ctx context.Context, verticals, cities []string) ([]model.RawPlace, error) {
	var tasks []searchTask
	for _, vertical := range verticals {
		for _, query := range p.cat.QueriesFor(vertical) {
			for _, city := range cities {
				tasks = append(tasks, searchTask{query: query, city: city, vertical: vertical})
			}
		}
	}
	p.log.Info("searching places",
		zap.Int("cities", len(cities)),
		zap.Int("searches", len(tasks)),
		zap.Int("concurrency", p.cfg.Search.Concurrency),
	)

	var (
		mu  sync.Mutex
		all []model.RawPlace
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Search.Concurrency)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			resp, err := p.places.TextSearch(gctx, fmt.Sprintf("%s in %s", t.query, t.city))
			if err != nil {
				p.log.Warn("search failed",
					zap.String("query", t.query),
					zap.String("city", t.city),
					zap.Error(err),
				)
				return nil
			}

			found := make([]model.RawPlace, 0, len(resp.Places))
			for _, pl := range resp.Places {
				found = append(found, model.RawPlace{
					Name:     pl.DisplayName.Text,
					Address:  pl.FormattedAddress,
					Website:  pl.WebsiteURI,
					PlaceID:  pl.ID,
					City:     t.city,
					Vertical: t.vertical,
					Source:   model.SourceSearch,
				})
			}

			mu.Lock()
			all = append(all, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: search")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: search canceled")
	}

	p.log.Info("search complete", zap.Int("places", len(all)))
	return all, nil
}
