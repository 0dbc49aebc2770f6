package llm

import (
	"context"
	"log"

	"surveylens/internal/config"
)

// New builds the configured client: Gemini when an API key is set, the fake client otherwise.
// The result is wrapped with logging, retry, rate limiting and per-call timeouts.
func New(ctx context.Context, cfg *config.AIConfig) (Client, error) {
	var inner Client
	if cfg.IsEnabled() {
		g, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			GenerationModel: cfg.Models.Summary,
			EmbeddingModel:  cfg.Models.Embedding,
		})
		if err != nil {
			return nil, err
		}
		inner = g
	} else {
		log.Println("llm: GEMINI_API_KEY not set, using fake client")
		inner = NewFakeClient()
	}

	return Wrap(inner,
		WithLogging(nil),
		Retry(cfg.MaxAttempts, cfg.RetryDelay()),
		RateLimit(cfg.RPS, cfg.Burst),
		Timeout(cfg.Timeout()),
	), nil
}
