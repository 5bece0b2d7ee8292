// Package apollo is an Apollo.io client for company and contact
// enrichment.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// targetTitles are the decision-maker titles requested in people searches.
var targetTitles = []string{
	"owner", "founder", "co-founder",
	"ceo", "chief executive officer",
	"coo", "chief operating officer",
	"president",
	"general manager",
	"operations manager", "director of operations",
	"vp operations", "vice president operations",
}

// ErrInsufficientCredits is returned when the account has run out of
// enrichment credits. Callers stop enriching but keep the run alive.
var ErrInsufficientCredits = eris.New("apollo: insufficient credits")

// Client defines the Apollo operations used by enrichment and the quality
// gate.
type Client interface {
	EnrichOrganization(ctx context.Context, q OrgQuery) (*Organization, error)
	SearchPeople(ctx context.Context, domain string, perPage int) ([]Person, error)
}

// OrgQuery identifies an organization by domain or by profile URL. Exactly
// one field should be set.
type OrgQuery struct {
	Domain     string
	ProfileURL string
}

// Organization is Apollo's company record, reduced to the fields the
// pipeline consumes.
type Organization struct {
	Name                  string `json:"name"`
	PrimaryDomain         string `json:"primary_domain"`
	Industry              string `json:"industry"`
	EstimatedNumEmployees int    `json:"estimated_num_employees"`
	RetailLocationCount   int    `json:"retail_location_count"`
	AnnualRevenuePrinted  string `json:"annual_revenue_printed"`
	LinkedInURL           string `json:"linkedin_url"`
	Technologies          []struct {
		Name string `json:"name"`
	} `json:"current_technologies"`
}

// TechnologyNames flattens the org's detected technology stack.
func (o *Organization) TechnologyNames() []string {
	if len(o.Technologies) == 0 {
		return nil
	}
	names := make([]string, 0, len(o.Technologies))
	for _, t := range o.Technologies {
		names = append(names, t.Name)
	}
	return names
}

// Person is one contact from a people search.
type Person struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedInURL string `json:"linkedin_url"`
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

// NewClient creates an Apollo client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			OnRetry:        resilience.RetryLogger("apollo", "request"),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type enrichResponse struct {
	Organization *Organization `json:"organization"`
}

func (c *httpClient) EnrichOrganization(ctx context.Context, q OrgQuery) (*Organization, error) {
	payload := map[string]any{}
	switch {
	case q.Domain != "":
		payload["domain"] = bareDomain(q.Domain)
	case q.ProfileURL != "":
		payload["linkedin_url"] = q.ProfileURL
	default:
		return nil, eris.New("apollo: empty organization query")
	}

	var resp enrichResponse
	if err := c.post(ctx, "/organizations/enrich", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Organization == nil {
		return nil, nil
	}
	return resp.Organization, nil
}

type peopleResponse struct {
	People []struct {
		Name         string `json:"name"`
		Title        string `json:"title"`
		Email        string `json:"email"`
		LinkedInURL  string `json:"linkedin_url"`
		PhoneNumbers []struct {
			SanitizedNumber string `json:"sanitized_number"`
		} `json:"phone_numbers"`
	} `json:"people"`
}

func (c *httpClient) SearchPeople(ctx context.Context, domain string, perPage int) ([]Person, error) {
	var resp peopleResponse
	err := c.post(ctx, "/mixed_people/search", map[string]any{
		"q_organization_domains": bareDomain(domain),
		"person_titles":          targetTitles,
		"page":                   1,
		"per_page":               perPage,
	}, &resp)
	if err != nil {
		return nil, err
	}

	people := make([]Person, 0, len(resp.People))
	for _, p := range resp.People {
		person := Person{
			Name:        p.Name,
			Title:       p.Title,
			Email:       p.Email,
			LinkedInURL: p.LinkedInURL,
		}
		if len(p.PhoneNumbers) > 0 {
			person.Phone = p.PhoneNumbers[0].SanitizedNumber
		}
		people = append(people, person)
	}
	return people, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "apollo: rate limit wait")
		}
	}
	payload["api_key"] = c.apiKey

	_, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.postOnce(ctx, path, payload, out)
	})
	return err
}

func (c *httpClient) postOnce(ctx context.Context, path string, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "apollo: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "apollo: execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode == http.StatusPaymentRequired ||
		strings.Contains(strings.ToLower(string(respBody)), "insufficient credits") {
		return ErrInsufficientCredits
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "apollo: unmarshal response")
	}
	return nil
}

// bareDomain strips scheme, www prefix, and path from a website URL.
func bareDomain(website string) string {
	s := strings.TrimPrefix(website, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if idx := strings.Index(s, "/"); idx >= 0 {
		s = s[:idx]
	}
	return s
}
