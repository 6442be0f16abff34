package contract

import (
	"context"
	"time"

	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/repository/specification"
	"edu-rag-be/pkg/rag/filter"
)

// DocumentSummary is the per-document view aggregated from its chunks. The
// title and tags come from the document's first chunk.
type DocumentSummary struct {
	SourceURL   string
	SourceName  string
	SourceType  string
	Title       string
	Tags        []string
	TotalChunks int
	CreatedAt   time.Time
}

// TopicSummary counts how many chunks carry a given tag.
type TopicSummary struct {
	Topic string
	Count int64
}

// TypeSummary counts distinct documents per source type.
type TypeSummary struct {
	SourceType string
	Count      int64
}

// ChunkContext is a chunk with its immediate neighbors in emission order.
// Previous and Next are nil at document boundaries.
type ChunkContext struct {
	Previous *entity.Chunk
	Current  *entity.Chunk
	Next     *entity.Chunk
}

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	// DeleteBySourceURL removes every chunk of one document, returning how
	// many rows went away.
	DeleteBySourceURL(ctx context.Context, sourceURL string) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)

	// SearchSimilar runs cosine similarity search, optionally constrained by a
	// metadata filter. When the filtered query comes back empty it retries
	// unfiltered over a wider pool and applies the filter in memory.
	SearchSimilar(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]*entity.RetrievedFragment, error)

	// Aggregations
	ListDocuments(ctx context.Context) ([]*DocumentSummary, error)
	AvailableTopics(ctx context.Context) ([]*TopicSummary, error)
	DocumentsByType(ctx context.Context) ([]*TypeSummary, error)
	DocumentMetadata(ctx context.Context, sourceURL string) (*DocumentSummary, error)
	ChunkContext(ctx context.Context, sourceURL string, chunkIndex int) (*ChunkContext, error)
}
