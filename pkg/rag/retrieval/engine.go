package retrieval

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"edu-rag-be/internal/entity"
	"edu-rag-be/pkg/embedding"
	"edu-rag-be/pkg/rag/filter"
)

const (
	DefaultLimit          = 5
	DefaultScoreThreshold = 0.4
	// Over-fetch factor applied before dedupe and threshold pruning.
	overFetchFactor = 2
)

// Store is the similarity search surface the engine needs from the chunk
// repository. Results come back ordered by descending score.
type Store interface {
	SearchSimilar(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]*entity.RetrievedFragment, error)
}

// Engine embeds a query and prunes the raw similarity hits down to the
// fragments worth citing.
type Engine struct {
	store          Store
	embedder       embedding.Provider
	scoreThreshold float64
	logger         *log.Logger
}

func NewEngine(store Store, embedder embedding.Provider, scoreThreshold float64, logger *log.Logger) *Engine {
	if scoreThreshold <= 0 {
		scoreThreshold = DefaultScoreThreshold
	}
	return &Engine{
		store:          store,
		embedder:       embedder,
		scoreThreshold: scoreThreshold,
		logger:         logger,
	}
}

// Search returns at most limit fragments relevant to the query. An empty
// result is a miss, not an error: the caller decides how to answer without
// sources.
func (e *Engine) Search(ctx context.Context, query string, limit int, f filter.Filter) ([]*entity.RetrievedFragment, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	vector, err := e.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	fragments, err := e.store.SearchSimilar(ctx, vector, limit*overFetchFactor, f)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(fragments))
	results := make([]*entity.RetrievedFragment, 0, limit)
	for _, fragment := range fragments {
		if fragment.Score <= e.scoreThreshold {
			continue
		}
		if seen[fragment.Chunk.Id] {
			continue
		}
		seen[fragment.Chunk.Id] = true
		results = append(results, fragment)
		if len(results) == limit {
			break
		}
	}

	if e.logger != nil {
		e.logger.Printf("[RETRIEVAL] query returned %d raw hits, %d above threshold %.2f",
			len(fragments), len(results), e.scoreThreshold)
	}

	return results, nil
}
