package config

import (
	"os"
	"time"
)

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Summary writes cluster, question and survey-wide summaries
	Summary string `json:"summary"`

	// Embedding turns free-text answers into vectors for clustering
	Embedding string `json:"embedding"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl,omitempty"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`

	// Client middleware
	MaxAttempts  int     `json:"maxAttempts"`
	RetryDelayMS int     `json:"retryDelayMs"`
	RPS          float64 `json:"rps"`
	Burst        int     `json:"burst"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: os.Getenv("GEMINI_BASE_URL"),
		Models: GeminiModels{
			Summary:   getEnvOrDefault("GEMINI_MODEL_SUMMARY", "gemini-2.0-flash"),
			Embedding: getEnvOrDefault("GEMINI_MODEL_EMBEDDING", "text-embedding-004"),
		},
		TimeoutMS:    getInt("GEMINI_TIMEOUT_MS", 30000),
		MaxAttempts:  getInt("GEMINI_MAX_ATTEMPTS", 3),
		RetryDelayMS: getInt("GEMINI_RETRY_DELAY_MS", 300),
		RPS:          getFloat("GEMINI_RPS", 0),
		Burst:        getInt("GEMINI_BURST", 1),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout is the per-call deadline for generation and embedding requests
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// RetryDelay is the base backoff between attempts
func (c *AIConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
