package normalize

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// hostOf parses out a URL's host, lowercased with any leading "www."
// removed. Returns "" on empty or unparsable input.
func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// Domain returns the normalized domain key for a URL: lowercase host, no
// scheme, no leading "www.", no path. Two URLs share a brand identity when
// their domain keys are equal. Returns "" when no key can be derived.
func Domain(rawURL string) string {
	return hostOf(rawURL)
}

// RedirectResolver follows HTTP redirects to canonicalize brand domains
// that vary by region (brandtoronto.com -> brand.com). Resolution is
// best-effort: any failure returns the original URL unchanged. Results are
// cached per URL.
type RedirectResolver struct {
	client  *http.Client
	timeout time.Duration

	mu    sync.Mutex
	cache map[string]string
}

// NewRedirectResolver builds a resolver with a per-call timeout. A nil
// client uses a default one.
func NewRedirectResolver(client *http.Client, timeout time.Duration) *RedirectResolver {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RedirectResolver{
		client:  client,
		timeout: timeout,
		cache:   make(map[string]string),
	}
}

// Resolve follows redirects for one URL and returns the final destination.
// On timeout, connection failure, or any other error the original URL is
// returned; failures are silent and never abort the grouping pass.
func (r *RedirectResolver) Resolve(ctx context.Context, rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	r.mu.Lock()
	if resolved, ok := r.cache[rawURL]; ok {
		r.mu.Unlock()
		return resolved
	}
	r.mu.Unlock()

	resolved := r.resolve(ctx, rawURL)

	r.mu.Lock()
	r.cache[rawURL] = resolved
	r.mu.Unlock()

	return resolved
}

func (r *RedirectResolver) resolve(ctx context.Context, rawURL string) string {
	target := rawURL
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, target, nil)
	if err != nil {
		return rawURL
	}

	resp, err := r.client.Do(req)
	if err != nil {
		zap.L().Debug("normalize: redirect resolution failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return rawURL
	}
	defer resp.Body.Close() //nolint:errcheck

	return resp.Request.URL.String()
}

// ResolveAll warms the cache for a batch of URLs with bounded parallelism,
// so the grouping pass never waits on the network one URL at a time.
func (r *RedirectResolver) ResolveAll(ctx context.Context, urls []string, maxParallel int) {
	if maxParallel <= 0 {
		maxParallel = 10
	}

	unique := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if u != "" {
			unique[u] = struct{}{}
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for u := range unique {
		g.Go(func() error {
			r.Resolve(gCtx, u)
			return nil
		})
	}
	_ = g.Wait()
}
