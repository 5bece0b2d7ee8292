package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestCheckDisqualifiesMissingWebsite(t *testing.T) {
	brand := &model.BrandGroup{NormalizedName: "corner books", Qualified: true}

	NewChecker(time.Second, 2).Check(context.Background(), []*model.BrandGroup{brand})

	assert.False(t, brand.Qualified)
	assert.Equal(t, ReasonNoWebsite, brand.DisqualifyReason)
}

func TestCheckHealthyWebsitePasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	brand := &model.BrandGroup{NormalizedName: "corner books", Website: srv.URL, Qualified: true}
	NewChecker(time.Second, 2).Check(context.Background(), []*model.BrandGroup{brand})

	assert.True(t, brand.Qualified)
	assert.Empty(t, brand.DisqualifyReason)
}

func TestCheckDeadWebsiteDisqualified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	brand := &model.BrandGroup{NormalizedName: "corner books", Website: srv.URL, Qualified: true}
	NewChecker(time.Second, 2).Check(context.Background(), []*model.BrandGroup{brand})

	assert.False(t, brand.Qualified)
	assert.Equal(t, ReasonUnreachable, brand.DisqualifyReason)
}

func TestCheckUnreachableHostDisqualified(t *testing.T) {
	brand := &model.BrandGroup{
		NormalizedName: "corner books",
		Website:        "http://127.0.0.1:1",
		Qualified:      true,
	}
	NewChecker(500*time.Millisecond, 2).Check(context.Background(), []*model.BrandGroup{brand})

	assert.False(t, brand.Qualified)
	assert.Equal(t, ReasonUnreachable, brand.DisqualifyReason)
}

func TestCheckSkipsAlreadyDisqualified(t *testing.T) {
	brand := &model.BrandGroup{
		NormalizedName:   "corner books",
		Qualified:        false,
		DisqualifyReason: "too many locations (42)",
	}
	NewChecker(time.Second, 2).Check(context.Background(), []*model.BrandGroup{brand})

	assert.Equal(t, "too many locations (42)", brand.DisqualifyReason)
}
