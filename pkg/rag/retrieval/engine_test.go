package retrieval

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"edu-rag-be/internal/entity"
	"edu-rag-be/pkg/rag/filter"
)

type fakeStore struct {
	fragments     []*entity.RetrievedFragment
	requestedSize int
}

func (f *fakeStore) SearchSimilar(ctx context.Context, vector []float32, limit int, flt filter.Filter) ([]*entity.RetrievedFragment, error) {
	f.requestedSize = limit
	return f.fragments, nil
}

type fixedEmbedder struct{}

func (fixedEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (fixedEmbedder) Dimension() int {
	return 2
}

func fragment(score float64) *entity.RetrievedFragment {
	return &entity.RetrievedFragment{
		Chunk: &entity.Chunk{Id: uuid.New()},
		Score: score,
	}
}

func TestEngine_Search(t *testing.T) {
	store := &fakeStore{fragments: []*entity.RetrievedFragment{
		fragment(0.95),
		fragment(0.80),
		fragment(0.41),
		fragment(0.40),
		fragment(0.10),
	}}
	engine := NewEngine(store, fixedEmbedder{}, 0, nil)

	results, err := engine.Search(context.Background(), "what is photosynthesis", 3, nil)

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 6, store.requestedSize, "should over-fetch before pruning")
	for _, result := range results {
		assert.Greater(t, result.Score, 0.4)
	}
}

func TestEngine_Search_DedupesById(t *testing.T) {
	duplicate := fragment(0.9)
	store := &fakeStore{fragments: []*entity.RetrievedFragment{
		duplicate,
		{Chunk: duplicate.Chunk, Score: 0.85},
		fragment(0.7),
	}}
	engine := NewEngine(store, fixedEmbedder{}, 0, nil)

	results, err := engine.Search(context.Background(), "cells", 5, nil)

	assert.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestEngine_Search_NoHitsIsNotAnError(t *testing.T) {
	store := &fakeStore{fragments: []*entity.RetrievedFragment{
		fragment(0.2),
		fragment(0.1),
	}}
	engine := NewEngine(store, fixedEmbedder{}, 0, nil)

	results, err := engine.Search(context.Background(), "unrelated topic", 5, nil)

	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Search_DefaultLimit(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, fixedEmbedder{}, 0, nil)

	_, err := engine.Search(context.Background(), "anything", 0, nil)

	assert.NoError(t, err)
	assert.Equal(t, DefaultLimit*overFetchFactor, store.requestedSize)
}
