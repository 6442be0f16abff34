package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	vector []float32
	err    error
}

func (s *stubProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

func (s *stubProvider) Dimension() int {
	return 768
}

func TestFallbackProvider_PassThrough(t *testing.T) {
	inner := &stubProvider{vector: []float32{0.1, 0.2, 0.3}}
	provider := NewFallbackProvider(inner, nil)

	vector, err := provider.Generate(context.Background(), "hello", TaskRetrievalQuery)

	assert.NoError(t, err)
	assert.Equal(t, inner.vector, vector)
}

func TestFallbackProvider_QuotaErrorUsesPseudoEmbedding(t *testing.T) {
	inner := &stubProvider{err: errors.New("quota exceeded for this project")}
	provider := NewFallbackProvider(inner, nil)

	vector, err := provider.Generate(context.Background(), "hello", TaskRetrievalDocument)

	assert.NoError(t, err)
	assert.Len(t, vector, 768)
	assert.Equal(t, PseudoEmbedding("hello", 768), vector)
}

func TestFallbackProvider_NonTransientErrorPropagates(t *testing.T) {
	inner := &stubProvider{err: errors.New("invalid api key")}
	provider := NewFallbackProvider(inner, nil)

	_, err := provider.Generate(context.Background(), "hello", TaskRetrievalQuery)

	assert.Error(t, err)
}

func TestPseudoEmbedding_Deterministic(t *testing.T) {
	first := PseudoEmbedding("photosynthesis", 768)
	second := PseudoEmbedding("photosynthesis", 768)
	other := PseudoEmbedding("respiration", 768)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)

	for _, value := range first {
		assert.LessOrEqual(t, value, float32(0.5))
		assert.GreaterOrEqual(t, value, float32(-0.5))
	}
}
