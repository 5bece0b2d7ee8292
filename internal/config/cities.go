package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Catalogue is the city and search-query reference data. Cities are listed
// per country as "City, Region" strings; search queries per vertical.
type Catalogue struct {
	Countries     map[string][]string `yaml:"countries"`
	SearchQueries map[string][]string `yaml:"search_queries"`
}

// LoadCatalogue reads the city catalogue YAML file.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read catalogue %s", path)
	}

	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal catalogue")
	}

	if len(cat.Countries) == 0 {
		return nil, eris.Errorf("config: catalogue %s lists no countries", path)
	}

	return &cat, nil
}

// CitiesFor returns the combined city list for the given countries, in
// catalogue order.
func (c *Catalogue) CitiesFor(countries []string) []string {
	var cities []string
	for _, country := range countries {
		cities = append(cities, c.Countries[country]...)
	}
	return cities
}

// AllCityNames returns every bare city name (the part before the comma)
// across all countries, lowercased. Used by the name normalizer's
// city-stripping step.
func (c *Catalogue) AllCityNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, cities := range c.Countries {
		for _, city := range cities {
			name := city
			if idx := strings.Index(city, ","); idx >= 0 {
				name = city[:idx]
			}
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// QueriesFor returns the search queries configured for a vertical.
func (c *Catalogue) QueriesFor(vertical string) []string {
	return c.SearchQueries[vertical]
}
