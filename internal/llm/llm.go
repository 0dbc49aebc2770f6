// Package llm wraps the embedding and text-generation services used by analysis.
package llm

import (
	"context"
	"errors"
)

// SystemInstruction frames every generation request
const SystemInstruction = "You are a helpful survey analyst."

// ErrEmbeddingCount is returned when the service returns a different number of vectors than texts
var ErrEmbeddingCount = errors.New("llm: embedding count does not match input")

// Embedder turns texts into vectors, one per input text, in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces text for a prompt. An empty string is a valid result.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Model identifies the generation model for stored summaries
	Model() string
}

// Client is both an Embedder and a Generator
type Client interface {
	Embedder
	Generator
}
