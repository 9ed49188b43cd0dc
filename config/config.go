// Package config loads websearch service configuration from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. WEBSEARCH_SEARXNG_URL -> searxng_url.
const envPrefix = "WEBSEARCH_"

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
)

// StoreType identifies a vector store backend.
type StoreType string

const (
	StoreSQLite StoreType = "sqlite"
	StoreMemory StoreType = "memory"
)

// Config is the top-level websearch configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr" koanf:"listen_addr"`

	SearxNGURL  string `yaml:"searxng_url" koanf:"searxng_url"`
	Crawl4AIURL string `yaml:"crawl4ai_url" koanf:"crawl4ai_url"`

	Provider      ProviderType `yaml:"provider" koanf:"provider"`
	OpenAIBaseURL string       `yaml:"openai_base_url" koanf:"openai_base_url"`

	Store  StoreType `yaml:"store" koanf:"store"`
	DBPath string    `yaml:"db_path" koanf:"db_path"`

	Language    string `yaml:"language" koanf:"language"`
	SearchLimit int    `yaml:"search_limit" koanf:"search_limit"`

	CrawlConcurrency      int     `yaml:"crawl_concurrency" koanf:"crawl_concurrency"`
	CrawlRequestsPerSec   float64 `yaml:"crawl_requests_per_sec" koanf:"crawl_requests_per_sec"`
	ConnectTimeoutSeconds int     `yaml:"connect_timeout_seconds" koanf:"connect_timeout_seconds"`
	CrawlTimeoutSeconds   int     `yaml:"crawl_timeout_seconds" koanf:"crawl_timeout_seconds"`
	MinDocumentChars      int     `yaml:"min_document_chars" koanf:"min_document_chars"`

	MaxChunkTokens     int `yaml:"max_chunk_tokens" koanf:"max_chunk_tokens"`
	MinChunkTokens     int `yaml:"min_chunk_tokens" koanf:"min_chunk_tokens"`
	OverlapChunkTokens int `yaml:"overlap_chunk_tokens" koanf:"overlap_chunk_tokens"`
	MinChunkChars      int `yaml:"min_chunk_chars" koanf:"min_chunk_chars"`

	TopK             int   `yaml:"top_k" koanf:"top_k"`
	EmbedWorkers     int   `yaml:"embed_workers" koanf:"embed_workers"`
	HighWaterPoints  int64 `yaml:"high_water_points" koanf:"high_water_points"`
	MaxPointAgeHours int   `yaml:"max_point_age_hours" koanf:"max_point_age_hours"`
}

// DefaultConfig returns the configuration used when neither the file nor
// the environment overrides a value.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:            ":8080",
		SearxNGURL:            "http://localhost:8888",
		Crawl4AIURL:           "http://localhost:11235",
		Provider:              ProviderGemini,
		Store:                 StoreSQLite,
		DBPath:                "websearch.db",
		Language:              "pt-BR",
		SearchLimit:           6,
		CrawlConcurrency:      5,
		CrawlRequestsPerSec:   1,
		ConnectTimeoutSeconds: 5,
		CrawlTimeoutSeconds:   30,
		MinDocumentChars:      300,
		MaxChunkTokens:        800,
		MinChunkTokens:        100,
		OverlapChunkTokens:    150,
		MinChunkChars:         200,
		TopK:                  8,
		EmbedWorkers:          4,
		HighWaterPoints:       10_000,
		MaxPointAgeHours:      24,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (WEBSEARCH_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderGemini: true,
	ProviderOpenAI: true,
}

// validStores is the set of recognized store values.
var validStores = map[StoreType]bool{
	StoreSQLite: true,
	StoreMemory: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SearxNGURL == "" {
		return fmt.Errorf("searxng_url is required")
	}
	if c.Crawl4AIURL == "" {
		return fmt.Errorf("crawl4ai_url is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of gemini, openai", c.Provider)
	}
	if !validStores[c.Store] {
		return fmt.Errorf("invalid store %q: must be one of sqlite, memory", c.Store)
	}
	if c.Store == StoreSQLite && c.DBPath == "" {
		return fmt.Errorf("db_path is required for the sqlite store")
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("search_limit must be non-negative")
	}
	if c.CrawlConcurrency < 0 {
		return fmt.Errorf("crawl_concurrency must be non-negative")
	}
	if c.MaxPointAgeHours < 0 {
		return fmt.Errorf("max_point_age_hours must be non-negative")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
