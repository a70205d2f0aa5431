package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		APIKey  string        `yaml:"api_key" json:"api_key" jsonschema:"description=Static API key for the gateway (empty disables the check)"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Cache    CacheConfig    `yaml:"cache" json:"cache" jsonschema:"description=Cache layer configuration"`
	NewsAPI  NewsAPIConfig  `yaml:"newsapi" json:"newsapi" jsonschema:"description=News search provider configuration"`
	LLM      LLMConfig      `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for article analysis"`
	Scoring  ScoringConfig  `yaml:"scoring" json:"scoring" jsonschema:"description=Relevance scoring configuration"`
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline" jsonschema:"description=Recommendation pipeline configuration"`
}

// CacheConfig holds cache layer settings. Type selects the backing store,
// TTLs are split because fetch results go stale in minutes while enrichment
// of immutable text stays valid for days.
type CacheConfig struct {
	Type      string        `yaml:"type" json:"type" jsonschema:"default=memory,enum=memory,enum=redis,enum=sqlite,description=Cache backend"`
	TTLFetch  time.Duration `yaml:"ttl_fetch" json:"ttl_fetch" jsonschema:"default=10m,description=TTL for cached fetch results"`
	TTLEnrich time.Duration `yaml:"ttl_enrich" json:"ttl_enrich" jsonschema:"default=24h,description=TTL for cached enrichment results"`

	Redis struct {
		Addr     string `yaml:"addr" json:"addr" jsonschema:"default=localhost:6379,description=Redis address"`
		Password string `yaml:"password" json:"password" jsonschema:"description=Redis password"`
		DB       int    `yaml:"db" json:"db" jsonschema:"default=0,description=Redis database number"`
	} `yaml:"redis" json:"redis" jsonschema:"description=Redis backend settings"`

	SQLite struct {
		DSN string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsrec-cache.db?cache=shared&mode=rwc,description=SQLite connection string"`
	} `yaml:"sqlite" json:"sqlite" jsonschema:"description=SQLite backend settings"`
}

// NewsAPIConfig holds settings for the external news search provider
type NewsAPIConfig struct {
	Endpoint        string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://newsapi.org/v2/everything,description=Search endpoint URL"`
	APIKey          string        `yaml:"api_key" json:"api_key" jsonschema:"required,description=Provider API key (can use environment variable)"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Request timeout"`
	PageSize        int           `yaml:"page_size" json:"page_size" jsonschema:"default=20,maximum=100,description=Articles per provider page"`
	MaxPages        int           `yaml:"max_pages" json:"max_pages" jsonschema:"default=3,description=Maximum provider pages per request"`
	OverfetchFactor int           `yaml:"overfetch_factor" json:"overfetch_factor" jsonschema:"default=3,minimum=1,description=Candidate multiplier over max_articles"`
}

// LLMConfig holds LLM configuration for article analysis
type LLMConfig struct {
	Endpoint      string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (empty for api.openai.com)"`
	APIKey        string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model         string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature   float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens     int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	MaxInputChars int           `yaml:"max_input_chars" json:"max_input_chars" jsonschema:"default=4000,description=Article text truncation bound before analysis"`
	UseJSONMode   bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (not all models support this)"`
	Categories    []string      `yaml:"categories" json:"categories" jsonschema:"description=Allowed article categories"`
}

// ScoringConfig holds relevance scoring weights and ranking knobs
type ScoringConfig struct {
	KeywordWeight    float64       `yaml:"keyword_weight" json:"keyword_weight" jsonschema:"default=2.0,description=Weight of keyword overlap"`
	CategoryWeight   float64       `yaml:"category_weight" json:"category_weight" jsonschema:"default=1.5,description=Weight of category match"`
	SourceWeight     float64       `yaml:"source_weight" json:"source_weight" jsonschema:"default=0.5,description=Weight of preferred source bonus"`
	RecencyWeight    float64       `yaml:"recency_weight" json:"recency_weight" jsonschema:"default=1.0,description=Weight of recency decay"`
	RecencyHalfLife  time.Duration `yaml:"recency_half_life" json:"recency_half_life" jsonschema:"default=24h,description=Half-life of the recency decay"`
	MaxCategoryShare float64       `yaml:"max_category_share" json:"max_category_share" jsonschema:"default=0.5,description=Maximum share of one category in the result window"`
	DiversitySeed    int64         `yaml:"diversity_seed" json:"diversity_seed" jsonschema:"default=1,description=Seed for diversity tie-breaking"`
}

// PipelineConfig holds orchestrator settings
type PipelineConfig struct {
	TimeBudget    time.Duration `yaml:"time_budget" json:"time_budget" jsonschema:"default=20s,description=Wall-clock budget per request"`
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=5,description=Maximum concurrent enrichment calls"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values with sensible defaults
func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// cache
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "memory"
	}
	if cfg.Cache.TTLFetch == 0 {
		cfg.Cache.TTLFetch = 10 * time.Minute
	}
	if cfg.Cache.TTLEnrich == 0 {
		cfg.Cache.TTLEnrich = 24 * time.Hour
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}
	if cfg.Cache.SQLite.DSN == "" {
		cfg.Cache.SQLite.DSN = "file:newsrec-cache.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	// news provider
	if cfg.NewsAPI.Endpoint == "" {
		cfg.NewsAPI.Endpoint = "https://newsapi.org/v2/everything"
	}
	if cfg.NewsAPI.Timeout == 0 {
		cfg.NewsAPI.Timeout = 10 * time.Second
	}
	if cfg.NewsAPI.PageSize == 0 {
		cfg.NewsAPI.PageSize = 20
	}
	if cfg.NewsAPI.PageSize > 100 {
		cfg.NewsAPI.PageSize = 100 // provider hard limit
	}
	if cfg.NewsAPI.MaxPages == 0 {
		cfg.NewsAPI.MaxPages = 3
	}
	if cfg.NewsAPI.OverfetchFactor == 0 {
		cfg.NewsAPI.OverfetchFactor = 3
	}

	// llm
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.MaxInputChars == 0 {
		cfg.LLM.MaxInputChars = 4000
	}
	if len(cfg.LLM.Categories) == 0 {
		cfg.LLM.Categories = []string{"technology", "business", "sports", "entertainment", "health", "science", "world"}
	}

	// scoring
	if cfg.Scoring.KeywordWeight == 0 {
		cfg.Scoring.KeywordWeight = 2.0
	}
	if cfg.Scoring.CategoryWeight == 0 {
		cfg.Scoring.CategoryWeight = 1.5
	}
	if cfg.Scoring.SourceWeight == 0 {
		cfg.Scoring.SourceWeight = 0.5
	}
	if cfg.Scoring.RecencyWeight == 0 {
		cfg.Scoring.RecencyWeight = 1.0
	}
	if cfg.Scoring.RecencyHalfLife == 0 {
		cfg.Scoring.RecencyHalfLife = 24 * time.Hour
	}
	if cfg.Scoring.MaxCategoryShare == 0 {
		cfg.Scoring.MaxCategoryShare = 0.5
	}
	if cfg.Scoring.DiversitySeed == 0 {
		cfg.Scoring.DiversitySeed = 1
	}

	// pipeline
	if cfg.Pipeline.TimeBudget == 0 {
		cfg.Pipeline.TimeBudget = 20 * time.Second
	}
	if cfg.Pipeline.MaxConcurrent == 0 {
		cfg.Pipeline.MaxConcurrent = 5
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate cache config
	switch cfg.Cache.Type {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("cache.type must be one of memory, redis, sqlite")
	}

	// validate news provider config
	if cfg.NewsAPI.APIKey == "" {
		return fmt.Errorf("newsapi.api_key is required")
	}
	if cfg.NewsAPI.OverfetchFactor < 1 {
		return fmt.Errorf("newsapi.overfetch_factor must be at least 1")
	}
	if cfg.NewsAPI.MaxPages < 1 {
		return fmt.Errorf("newsapi.max_pages must be at least 1")
	}

	// validate LLM config
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxInputChars < 100 {
		return fmt.Errorf("llm.max_input_chars must be at least 100")
	}

	// validate scoring config
	if cfg.Scoring.MaxCategoryShare <= 0 || cfg.Scoring.MaxCategoryShare > 1 {
		return fmt.Errorf("scoring.max_category_share must be in (0, 1]")
	}
	for name, w := range map[string]float64{
		"keyword_weight":  cfg.Scoring.KeywordWeight,
		"category_weight": cfg.Scoring.CategoryWeight,
		"source_weight":   cfg.Scoring.SourceWeight,
		"recency_weight":  cfg.Scoring.RecencyWeight,
	} {
		if w < 0 {
			return fmt.Errorf("scoring.%s must be non-negative", name)
		}
	}

	// validate pipeline config
	if cfg.Pipeline.TimeBudget < time.Second {
		return fmt.Errorf("pipeline.time_budget must be at least 1 second")
	}
	if cfg.Pipeline.MaxConcurrent < 1 {
		return fmt.Errorf("pipeline.max_concurrent must be at least 1")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetServerAPIKey returns the gateway API key, empty when the check is disabled
func (c *Config) GetServerAPIKey() string {
	return c.Server.APIKey
}

// GetCacheConfig returns cache layer configuration
func (c *Config) GetCacheConfig() CacheConfig {
	return c.Cache
}

// GetNewsAPIConfig returns news provider configuration
func (c *Config) GetNewsAPIConfig() NewsAPIConfig {
	return c.NewsAPI
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetScoringConfig returns scoring configuration
func (c *Config) GetScoringConfig() ScoringConfig {
	return c.Scoring
}

// GetPipelineConfig returns pipeline configuration
func (c *Config) GetPipelineConfig() PipelineConfig {
	return c.Pipeline
}
