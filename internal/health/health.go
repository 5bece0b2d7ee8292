// Package health disqualifies brands whose website is missing or dead
// before any paid enrichment runs against them.
package health

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Disqualification reasons recorded on the brand group.
const (
	ReasonNoWebsite   = "no website"
	ReasonUnreachable = "website unreachable"
)

const userAgent = "Mozilla/5.0 (compatible; leadgen-cli/1.0)"

// Checker probes brand websites with a HEAD request. A brand is healthy
// when its site answers below HTTP 400 within the timeout.
type Checker struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	log         *zap.Logger
}

// NewChecker builds a checker with its own transport so per-probe timeouts
// cover dialing and the TLS handshake, not just the response wait.
func NewChecker(timeout time.Duration, concurrency int) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: timeout,
			}).DialContext,
			TLSHandshakeTimeout: timeout,
		},
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return &Checker{
		client:      client,
		timeout:     timeout,
		concurrency: concurrency,
		log:         zap.L().With(zap.String("component", "health")),
	}
}

// Check probes every still-qualified brand in parallel and disqualifies
// the ones without a working website. The input slice is returned for
// chaining; groups are mutated in place.
func (c *Checker) Check(ctx context.Context, brands []*model.BrandGroup) []*model.BrandGroup {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, brand := range brands {
		if !brand.Qualified {
			continue
		}

		g.Go(func() error {
			if brand.Website == "" {
				brand.Disqualify(ReasonNoWebsite)
				return nil
			}
			if !c.reachable(ctx, brand.Website) {
				c.log.Debug("website unreachable",
					zap.String("brand", brand.NormalizedName),
					zap.String("website", brand.Website))
				brand.Disqualify(ReasonUnreachable)
			}
			return nil
		})
	}

	g.Wait() //nolint:errcheck // workers never return errors

	healthy := 0
	for _, brand := range brands {
		if brand.Qualified {
			healthy++
		}
	}
	c.log.Info("health check complete",
		zap.Int("brands", len(brands)),
		zap.Int("healthy", healthy))
	return brands
}

func (c *Checker) reachable(ctx context.Context, rawURL string) bool {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	// 2xx and 3xx count as reachable.
	return resp.StatusCode < 400
}
