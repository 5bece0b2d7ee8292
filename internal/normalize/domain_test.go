package normalize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.acme.com/stores", "acme.com"},
		{"http://acme.com", "acme.com"},
		{"acme.com", "acme.com"},
		{"WWW.Acme.COM", "acme.com"},
		{"https://shop.acme.ca/en/home?q=1", "shop.acme.ca"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Domain(tc.raw), "input %q", tc.raw)
	}
}

func TestDomainEquality(t *testing.T) {
	// Two URLs normalize equal iff they share a host ignoring www, scheme and path.
	assert.Equal(t, Domain("https://www.brand.com/a"), Domain("http://brand.com/b?x=1"))
	assert.NotEqual(t, Domain("https://brand.com"), Domain("https://brand.ca"))
}

func TestRedirectResolverFollows(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusMovedPermanently)
	}))
	defer redirecting.Close()

	r := NewRedirectResolver(nil, 2*time.Second)
	got := r.Resolve(context.Background(), redirecting.URL)
	assert.Equal(t, final.URL+"/", got)
}

func TestRedirectResolverFailureReturnsOriginal(t *testing.T) {
	r := NewRedirectResolver(nil, 200*time.Millisecond)

	// Unroutable target: failure is silent, original comes back.
	original := "http://127.0.0.1:1/nowhere"
	assert.Equal(t, original, r.Resolve(context.Background(), original))

	// Empty passes through.
	assert.Equal(t, "", r.Resolve(context.Background(), ""))
}

func TestRedirectResolverCaches(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRedirectResolver(nil, time.Second)
	r.Resolve(context.Background(), srv.URL)
	r.Resolve(context.Background(), srv.URL)
	assert.Equal(t, 1, hits)
}

func TestResolveAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRedirectResolver(nil, time.Second)
	r.ResolveAll(context.Background(), []string{srv.URL, srv.URL, "", srv.URL + "/other"}, 4)

	// Warm cache: no further requests needed.
	assert.Equal(t, srv.URL, r.Resolve(context.Background(), srv.URL))
}
