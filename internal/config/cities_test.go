package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogueYAML = `
countries:
  us:
    - "Portland, OR"
    - "Seattle, WA"
  canada:
    - "Toronto, ON"
    - "Vancouver, BC"
    - "Portland, ON"
search_queries:
  sporting_goods:
    - "running store"
    - "outdoor gear shop"
`

func writeCatalogue(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogueYAML), 0o644))
	return path
}

func TestLoadCatalogue(t *testing.T) {
	cat, err := LoadCatalogue(writeCatalogue(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Toronto, ON", "Vancouver, BC", "Portland, ON"}, cat.CitiesFor([]string{"canada"}))
	assert.Len(t, cat.CitiesFor([]string{"us", "canada"}), 5)
	assert.Empty(t, cat.CitiesFor([]string{"uk"}))

	names := cat.AllCityNames()
	assert.Contains(t, names, "portland")
	assert.Contains(t, names, "toronto")
	// Deduplicated across countries.
	count := 0
	for _, n := range names {
		if n == "portland" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.Equal(t, []string{"running store", "outdoor gear shop"}, cat.QueriesFor("sporting_goods"))
	assert.Empty(t, cat.QueriesFor("apparel"))
}

func TestLoadCatalogueMissingFile(t *testing.T) {
	_, err := LoadCatalogue(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCatalogueEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("countries: {}\n"), 0o644))
	_, err := LoadCatalogue(path)
	assert.Error(t, err)
}
