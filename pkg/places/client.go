// Package places is a Google Places text-search client used by the
// discovery stage.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// fieldMask limits the response to the fields the pipeline consumes.
const fieldMask = "places.id,places.displayName,places.formattedAddress,places.websiteUri"

// Client performs Places API operations.
type Client interface {
	TextSearch(ctx context.Context, query string) (*TextSearchResponse, error)
}

// TextSearchResponse is the response from Places Text Search.
type TextSearchResponse struct {
	Places []Place `json:"places"`
}

// Place represents a place returned by the API.
type Place struct {
	ID               string      `json:"id"`
	DisplayName      DisplayName `json:"displayName"`
	FormattedAddress string      `json:"formattedAddress"`
	WebsiteURI       string      `json:"websiteUri"`
}

// DisplayName holds the place's display name.
type DisplayName struct {
	Text string `json:"text"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSec int) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			OnRetry:        resilience.RetryLogger("places", "text_search"),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type textSearchRequest struct {
	TextQuery string `json:"textQuery"`
}

func (c *httpClient) TextSearch(ctx context.Context, query string) (*TextSearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "places: rate limit wait")
		}
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*TextSearchResponse, error) {
		return c.textSearch(ctx, query)
	})
}

func (c *httpClient) textSearch(ctx context.Context, query string) (*TextSearchResponse, error) {
	body, err := json.Marshal(textSearchRequest{TextQuery: query})
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var result TextSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal response")
	}

	return &result, nil
}
