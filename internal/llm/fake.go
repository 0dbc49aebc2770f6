package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const fakeDims = 32

// FakeClient returns deterministic embeddings and summaries for offline runs and tests.
// Texts that share words get nearby vectors.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Model() string { return "fake-llm" }

// Embed hashes each word into a fixed-size bag-of-words vector and normalizes it
func (f *FakeClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = fakeVector(t)
	}
	return out, nil
}

// Generate echoes the first line of the prompt with its size
func (f *FakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(prompt, "\n")
	return fmt.Sprintf("[mock] %s (%d lines)", strings.TrimSpace(first), strings.Count(prompt, "\n")+1), nil
}

func fakeVector(text string) []float64 {
	vec := make([]float64, fakeDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%fakeDims]++
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
