package implementation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-rag-be/internal/mapper"
	"edu-rag-be/internal/model"
	"edu-rag-be/pkg/rag/filter"
)

type recordedQuery struct {
	limit    int
	filtered bool
}

// scriptedRepo returns a repository whose similarity row source is scripted:
// the first call yields primary, any further call yields pool.
func scriptedRepo(primary, pool []scoredChunkRow, calls *[]recordedQuery) *ChunkRepositoryImpl {
	r := &ChunkRepositoryImpl{
		mapper:         mapper.NewChunkMapper(),
		fallbackFactor: 4,
	}
	r.query = func(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]scoredChunkRow, error) {
		*calls = append(*calls, recordedQuery{limit: limit, filtered: f != nil})
		if len(*calls) == 1 {
			return primary, nil
		}
		return pool, nil
	}
	return r
}

func scoredRow(sourceType, sourceURL string, score float64) scoredChunkRow {
	return scoredChunkRow{
		Chunk: model.Chunk{
			Id:         uuid.New(),
			Content:    "chunk content",
			SourceType: sourceType,
			SourceName: "doc",
			SourceURL:  sourceURL,
		},
		Similarity: score,
	}
}

func TestSearchSimilar_FilteredHitSkipsFallback(t *testing.T) {
	var calls []recordedQuery
	repo := scriptedRepo([]scoredChunkRow{
		scoredRow("pdf", "https://cdn/a.pdf", 0.91),
		scoredRow("pdf", "https://cdn/b.pdf", 0.84),
	}, nil, &calls)

	f := filter.Equals{Field: filter.FieldSourceType, Value: "pdf"}
	fragments, err := repo.SearchSimilar(context.Background(), []float32{0.1}, 5, f)
	require.NoError(t, err)

	require.Len(t, fragments, 2)
	assert.Equal(t, 0.91, fragments[0].Score)
	require.Len(t, calls, 1, "a non-empty filtered query must not refetch")
	assert.True(t, calls[0].filtered)
	assert.Equal(t, 5, calls[0].limit)
}

func TestSearchSimilar_FallbackRecoversWiderPool(t *testing.T) {
	var calls []recordedQuery
	pool := []scoredChunkRow{
		scoredRow("video", "https://cdn/lecture.mp4", 0.95),
		scoredRow("pdf", "https://cdn/a.pdf", 0.90),
		scoredRow("pdf", "https://cdn/b.pdf", 0.85),
		scoredRow("text", "local://notes", 0.80),
		scoredRow("pdf", "https://cdn/c.pdf", 0.75),
	}
	repo := scriptedRepo(nil, pool, &calls)

	f := filter.Equals{Field: filter.FieldSourceType, Value: "pdf"}
	fragments, err := repo.SearchSimilar(context.Background(), []float32{0.1}, 2, f)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.False(t, calls[1].filtered, "fallback requery runs unfiltered")
	assert.Equal(t, 8, calls[1].limit, "fallback pool is limit times the pool factor")

	// Matching candidates survive in score order, truncated to the limit.
	require.Len(t, fragments, 2)
	assert.Equal(t, "https://cdn/a.pdf", fragments[0].Chunk.Metadata.SourceURL)
	assert.Equal(t, "https://cdn/b.pdf", fragments[1].Chunk.Metadata.SourceURL)
}

func TestSearchSimilar_FallbackRejectsNonMatchingPool(t *testing.T) {
	var calls []recordedQuery
	pool := []scoredChunkRow{
		scoredRow("video", "https://cdn/lecture.mp4", 0.95),
		scoredRow("text", "local://notes", 0.90),
		scoredRow("image", "https://cdn/scan.png", 0.85),
	}
	repo := scriptedRepo(nil, pool, &calls)

	f := filter.Equals{Field: filter.FieldSourceType, Value: "pdf"}
	fragments, err := repo.SearchSimilar(context.Background(), []float32{0.1}, 3, f)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Empty(t, fragments, "a pool with no matches yields a miss, not unrelated chunks")
}

func TestSearchSimilar_NoFilterNeverRefetches(t *testing.T) {
	var calls []recordedQuery
	repo := scriptedRepo(nil, nil, &calls)

	fragments, err := repo.SearchSimilar(context.Background(), []float32{0.1}, 5, nil)
	require.NoError(t, err)

	assert.Empty(t, fragments)
	assert.Len(t, calls, 1)
}

func TestSearchSimilar_QueryErrorPropagates(t *testing.T) {
	queryErr := errors.New("connection refused")
	r := &ChunkRepositoryImpl{
		mapper:         mapper.NewChunkMapper(),
		fallbackFactor: 4,
	}
	r.query = func(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]scoredChunkRow, error) {
		return nil, queryErr
	}

	_, err := r.SearchSimilar(context.Background(), []float32{0.1}, 5, nil)
	assert.ErrorIs(t, err, queryErr)
}

func TestPostFilter_TagMembership(t *testing.T) {
	r := &ChunkRepositoryImpl{mapper: mapper.NewChunkMapper(), fallbackFactor: 4}

	tagged := scoredRow("pdf", "https://cdn/a.pdf", 0.9)
	tagged.Tags = []string{"biology", "plants"}
	untagged := scoredRow("pdf", "https://cdn/b.pdf", 0.8)

	kept := r.postFilter([]scoredChunkRow{tagged, untagged},
		filter.OneOf{Field: filter.FieldTags, Values: []string{"Biology"}}, 5)

	require.Len(t, kept, 1)
	assert.Equal(t, "https://cdn/a.pdf", kept[0].SourceURL)
}
