package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dealdesk/memopipe/internal/config"
)

// NewClient builds the provider named in the config. The second return value
// is nil for providers without an embeddings endpoint.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		// Ollama speaks the OpenAI chat/embeddings API under /v1.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// NewPipelineClient wraps the configured provider in the retry/fallback
// policy: the primary model is retried with exponential backoff, then the
// fallback model (same provider) gets one attempt before the error is
// surfaced as a hard failure.
func NewPipelineClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, EmbedderClient, error) {
	primary, embedder, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	backoff := time.Duration(cfg.BackoffSeconds) * time.Second
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	attempts := []Attempt{{Name: cfg.Model, Client: primary, MaxRetries: retries, Backoff: backoff}}

	if cfg.FallbackModel != "" && cfg.FallbackModel != cfg.Model {
		fbCfg := cfg
		fbCfg.Model = cfg.FallbackModel
		fallback, _, err := NewClient(ctx, fbCfg)
		if err != nil {
			log.Printf("llm: fallback model %s unavailable: %v", cfg.FallbackModel, err)
		} else {
			attempts = append(attempts, Attempt{Name: cfg.FallbackModel, Client: fallback, MaxRetries: 1, Backoff: backoff})
		}
	}

	return NewFallbackClient(attempts...), embedder, nil
}
