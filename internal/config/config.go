package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Cities      CitiesConfig      `yaml:"cities" mapstructure:"cities"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Grouping    GroupingConfig    `yaml:"grouping" mapstructure:"grouping"`
	ChainFilter ChainFilterConfig `yaml:"chain_filter" mapstructure:"chain_filter"`
	Health      HealthConfig      `yaml:"health" mapstructure:"health"`
	Ecommerce   EcommerceConfig   `yaml:"ecommerce" mapstructure:"ecommerce"`
	Enrichment  EnrichmentConfig  `yaml:"enrichment" mapstructure:"enrichment"`
	Gate        GateConfig        `yaml:"gate" mapstructure:"gate"`
	Scorer      ScorerConfig      `yaml:"scorer" mapstructure:"scorer"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Export      ExportConfig      `yaml:"export" mapstructure:"export"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the checkpoint database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CitiesConfig points at the city catalogue file.
type CitiesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SearchConfig configures the places search phase.
type SearchConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	RatePerSec  int    `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// GroupingConfig configures brand grouping and filtering.
type GroupingConfig struct {
	MinLocations     int  `yaml:"min_locations" mapstructure:"min_locations"`
	MaxLocations     int  `yaml:"max_locations" mapstructure:"max_locations"`
	ResolveRedirects bool `yaml:"resolve_redirects" mapstructure:"resolve_redirects"`
	RedirectTimeout  int  `yaml:"redirect_timeout_secs" mapstructure:"redirect_timeout_secs"`
}

// ChainFilterConfig configures the chain-size verifier.
type ChainFilterConfig struct {
	MaxCities        int      `yaml:"max_cities" mapstructure:"max_cities"`
	KnownLargeChains []string `yaml:"known_large_chains" mapstructure:"known_large_chains"`
}

// HealthConfig configures the website health check.
type HealthConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// EcommerceConfig configures e-commerce detection.
type EcommerceConfig struct {
	Key          string `yaml:"key" mapstructure:"key"` // crawl provider API key
	PagesToCheck int    `yaml:"pages_to_check" mapstructure:"pages_to_check"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// EnrichmentConfig configures the contact-enrichment provider.
type EnrichmentConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	MaxContacts int    `yaml:"max_contacts" mapstructure:"max_contacts"`
	RatePerSec  int    `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// GateConfig configures the enrichment-signal quality gate.
type GateConfig struct {
	MaxLocations int `yaml:"max_locations" mapstructure:"max_locations"`
	MaxEmployees int `yaml:"max_employees" mapstructure:"max_employees"`
	Concurrency  int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ScorerConfig points at an optional scoring-weights override file.
type ScorerConfig struct {
	WeightsPath string `yaml:"weights_path" mapstructure:"weights_path"`
}

// LLMConfig configures optional LLM brand disambiguation.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// ExportConfig configures the export stage.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Format    string `yaml:"format" mapstructure:"format"` // "csv" or "xlsx"
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("cities.path", "cities.yaml")
	v.SetDefault("search.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("search.concurrency", 10)
	v.SetDefault("search.rate_per_sec", 10)
	v.SetDefault("grouping.min_locations", 3)
	v.SetDefault("grouping.max_locations", 10)
	v.SetDefault("grouping.resolve_redirects", false)
	v.SetDefault("grouping.redirect_timeout_secs", 3)
	v.SetDefault("chain_filter.max_cities", 8)
	v.SetDefault("health.timeout_secs", 5)
	v.SetDefault("health.concurrency", 10)
	v.SetDefault("ecommerce.pages_to_check", 3)
	v.SetDefault("ecommerce.timeout_secs", 60)
	v.SetDefault("ecommerce.concurrency", 5)
	v.SetDefault("enrichment.base_url", "https://api.apollo.io/v1")
	v.SetDefault("enrichment.max_contacts", 4)
	v.SetDefault("enrichment.rate_per_sec", 2)
	v.SetDefault("gate.max_locations", 10)
	v.SetDefault("gate.max_employees", 500)
	v.SetDefault("gate.concurrency", 5)
	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.model", "claude-haiku-4-5-20251001")
	v.SetDefault("export.output_dir", "output")
	v.SetDefault("export.format", "csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects inconsistent configuration at load time so the grouping
// and gate algorithms never have to handle it defensively.
func (c *Config) Validate() error {
	if c.Grouping.MinLocations < 1 {
		return eris.New("config: grouping.min_locations must be >= 1")
	}
	if c.Grouping.MinLocations > c.Grouping.MaxLocations {
		return eris.Errorf("config: grouping.min_locations %d > max_locations %d",
			c.Grouping.MinLocations, c.Grouping.MaxLocations)
	}
	if c.ChainFilter.MaxCities < 1 {
		return eris.New("config: chain_filter.max_cities must be >= 1")
	}
	if c.Gate.MaxLocations < 1 || c.Gate.MaxEmployees < 1 {
		return eris.New("config: gate thresholds must be >= 1")
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	switch c.Export.Format {
	case "csv", "xlsx":
	default:
		return eris.Errorf("config: unknown export format %q", c.Export.Format)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
