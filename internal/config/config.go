package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	FallbackModel  string `toml:"fallback_model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	MaxRetries     int    `toml:"max_retries"`
	BackoffSeconds int    `toml:"backoff_seconds"`
}

// IndexConfig selects the document-index backend. "memory" needs no service;
// "memgraph" stores deck chunks in Memgraph via the bolt driver.
type IndexConfig struct {
	Provider string `toml:"provider"`
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type SearchConfig struct {
	Enabled             bool `toml:"enabled"`
	KLocal              int  `toml:"k_local"`
	KWeb                int  `toml:"k_web"`
	PageChars           int  `toml:"page_chars"`
	MaxContextChars     int  `toml:"max_context_chars"`
	FetchTimeoutSeconds int  `toml:"fetch_timeout_seconds"`
	Rerank              bool `toml:"rerank"`
}

// StepPrompts holds the system instruction for each extraction step. Empty
// values fall back to the compiled-in defaults below.
type StepPrompts struct {
	Deck              string `toml:"deck"`
	TechnicalDD       string `toml:"technical_dd"`
	FounderProfiling  string `toml:"founder_profiling"`
	MarketSizing      string `toml:"market_sizing"`
	FinancialAnalysis string `toml:"financial_analysis"`
	CompetitiveIntel  string `toml:"competitive_intel"`
	RiskAssessment    string `toml:"risk_assessment"`
	ExecutiveSummary  string `toml:"executive_summary"`
}

type Config struct {
	LLM     LLMConfig    `toml:"llm"`
	Index   IndexConfig  `toml:"index"`
	Search  SearchConfig `toml:"search"`
	Prompts StepPrompts  `toml:"prompts"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			FallbackModel:  "gpt-3.5-turbo",
			MaxRetries:     2,
			BackoffSeconds: 2,
		},
		Index: IndexConfig{
			Provider: "memory",
			URI:      "bolt://localhost:7687",
		},
		Search: SearchConfig{
			Enabled:             false,
			KLocal:              4,
			KWeb:                2,
			PageChars:           1500,
			MaxContextChars:     4000,
			FetchTimeoutSeconds: 5,
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
