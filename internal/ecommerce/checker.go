// Package ecommerce detects whether a brand actually sells online, which
// platform powers its store, and whether it also sells through marketplaces.
package ecommerce

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
)

// ReasonNoEcommerce is recorded on brands with no detectable online store.
const ReasonNoEcommerce = "no e-commerce detected"

// Indicator weights and thresholds for the confidence tally.
const (
	actionWeight     = 2
	paymentWeight    = 3
	priceWeight      = 1
	earlyExitScore   = 6
	hasEcommerceMin  = 4
	platformConfid   = 0.95
	confidenceDiv    = 10.0
	negConfidenceDiv = 15.0
)

// Result is the outcome of checking one website.
type Result struct {
	URL              string
	HasEcommerce     bool
	Confidence       float64
	Indicators       []string
	Platform         string
	PagesChecked     int
	Marketplaces     []string
	MarketplaceLinks map[string]string
}

// Checker crawls brand websites and scans page content for storefront
// signals.
type Checker struct {
	crawler      firecrawl.Client
	pagesToCheck int
	timeout      time.Duration
	concurrency  int
	log          *zap.Logger
}

func NewChecker(crawler firecrawl.Client, pagesToCheck int, timeout time.Duration, concurrency int) *Checker {
	if pagesToCheck <= 0 {
		pagesToCheck = 3
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Checker{
		crawler:      crawler,
		pagesToCheck: pagesToCheck,
		timeout:      timeout,
		concurrency:  concurrency,
		log:          zap.L().With(zap.String("component", "ecommerce")),
	}
}

// CheckAll evaluates every still-qualified brand in parallel and applies
// the results in place: platform and marketplace fields on success,
// disqualification when no store is found. Crawl failures count as no
// e-commerce; a site we cannot read is a site we cannot sell to either.
func (c *Checker) CheckAll(ctx context.Context, brands []*model.BrandGroup) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, brand := range brands {
		if !brand.Qualified {
			continue
		}

		g.Go(func() error {
			result := c.Check(ctx, brand.Website)
			c.apply(brand, result)
			return nil
		})
	}

	g.Wait() //nolint:errcheck // workers never return errors

	withStore := 0
	for _, brand := range brands {
		if brand.Qualified {
			withStore++
		}
	}
	c.log.Info("e-commerce check complete",
		zap.Int("brands", len(brands)),
		zap.Int("with_store", withStore))
}

func (c *Checker) apply(brand *model.BrandGroup, result Result) {
	if !result.HasEcommerce {
		brand.Disqualify(ReasonNoEcommerce)
		return
	}

	brand.EcommercePlatform = result.Platform
	brand.Marketplaces = result.Marketplaces
	brand.MarketplaceLinks = result.MarketplaceLinks
	if len(result.Marketplaces) > 0 {
		brand.Priority = model.PriorityHigh
	}
}

// Check crawls one site and scans up to pagesToCheck pages of content.
func (c *Checker) Check(ctx context.Context, rawURL string) Result {
	url := normalizeURL(rawURL)
	result := Result{URL: url}

	contents := c.crawlSite(ctx, url)
	if len(contents) == 0 {
		return result
	}

	return c.analyze(url, contents)
}

func (c *Checker) crawlSite(ctx context.Context, url string) []string {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	crawl, err := c.crawler.Crawl(ctx, firecrawl.CrawlRequest{
		URL:           url,
		Limit:         c.pagesToCheck,
		ScrapeOptions: &firecrawl.ScrapeOptions{Formats: []string{"markdown"}},
	})
	if err != nil {
		c.log.Debug("crawl start failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	status, err := firecrawl.PollCrawl(ctx, c.crawler, crawl.ID)
	if err != nil {
		c.log.Debug("crawl poll failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	var contents []string
	for _, page := range status.Data {
		if page.Markdown != "" {
			contents = append(contents, page.Markdown)
		}
	}
	return contents
}

// analyze scans page contents in order. A platform signature is conclusive
// on its own; otherwise indicator weights accumulate toward a threshold.
func (c *Checker) analyze(url string, contents []string) Result {
	var (
		indicators []string
		seen       = make(map[string]bool)
		score      int
		platform   string
	)

	addIndicator := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			indicators = append(indicators, tag)
		}
	}

	marketplaces, links := detectMarketplaces(contents)

	for _, content := range contents {
		lower := strings.ToLower(content)

		if platform == "" {
			platform = detectPlatform(lower)
		}

		for _, p := range actionPatterns {
			if p.MatchString(lower) {
				addIndicator("action:" + p.String())
				score += actionWeight
			}
		}
		for _, p := range paymentPatterns {
			if p.MatchString(lower) {
				addIndicator("payment:" + p.String())
				score += paymentWeight
			}
		}
		for _, p := range pricePatterns {
			if p.MatchString(content) {
				addIndicator("price:" + p.String())
				score += priceWeight
				break
			}
		}

		if platform != "" {
			return Result{
				URL:              url,
				HasEcommerce:     true,
				Confidence:       platformConfid,
				Indicators:       append([]string{"platform:" + platform}, indicators...),
				Platform:         platform,
				PagesChecked:     len(contents),
				Marketplaces:     marketplaces,
				MarketplaceLinks: links,
			}
		}

		if score >= earlyExitScore {
			break
		}
	}

	hasEcommerce := score >= hasEcommerceMin
	confidence := float64(score) / negConfidenceDiv
	if hasEcommerce {
		confidence = float64(score) / confidenceDiv
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	return Result{
		URL:              url,
		HasEcommerce:     hasEcommerce,
		Confidence:       confidence,
		Indicators:       indicators,
		PagesChecked:     len(contents),
		Marketplaces:     marketplaces,
		MarketplaceLinks: links,
	}
}

func detectPlatform(lowerContent string) string {
	for _, platform := range platformOrder {
		for _, p := range platformSignatures[platform] {
			if p.MatchString(lowerContent) {
				return platform
			}
		}
	}
	return ""
}

// detectMarketplaces scans all pages for storefront URLs first, then badge
// text for marketplaces without a URL hit.
func detectMarketplaces(contents []string) ([]string, map[string]string) {
	found := make(map[string]bool)
	links := make(map[string]string)

	for _, content := range contents {
		for _, marketplace := range marketplaceOrder {
			for _, sig := range marketplaceURLSigs[marketplace] {
				if !sig.match.MatchString(content) {
					continue
				}
				found[marketplace] = true
				if _, ok := links[marketplace]; !ok {
					if url := sig.link.FindString(content); url != "" {
						links[marketplace] = url
					}
				}
				break
			}
		}

		for _, marketplace := range marketplaceOrder {
			if found[marketplace] {
				continue
			}
			for _, p := range marketplaceTextPatterns[marketplace] {
				if p.MatchString(content) {
					found[marketplace] = true
					break
				}
			}
		}
	}

	if len(found) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(links) == 0 {
		links = nil
	}
	return names, links
}

func normalizeURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	return strings.TrimRight(rawURL, "/")
}
