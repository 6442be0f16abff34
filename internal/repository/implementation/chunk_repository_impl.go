package implementation

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/mapper"
	"edu-rag-be/internal/model"
	"edu-rag-be/internal/repository/contract"
	"edu-rag-be/internal/repository/specification"
	"edu-rag-be/pkg/rag/filter"
)

// Pool multiplier for the unfiltered fallback query.
const defaultFallbackPoolFactor = 4

type similarityQueryFunc func(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]scoredChunkRow, error)

type ChunkRepositoryImpl struct {
	db             *gorm.DB
	mapper         *mapper.ChunkMapper
	fallbackFactor int
	query          similarityQueryFunc
}

func NewChunkRepository(db *gorm.DB, fallbackFactor int) contract.ChunkRepository {
	if fallbackFactor <= 0 {
		fallbackFactor = defaultFallbackPoolFactor
	}
	r := &ChunkRepositoryImpl{
		db:             db,
		mapper:         mapper.NewChunkMapper(),
		fallbackFactor: fallbackFactor,
	}
	r.query = r.similarityQuery
	return r
}

func (r *ChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChunkRepositoryImpl) DeleteBySourceURL(ctx context.Context, sourceURL string) (int64, error) {
	result := r.db.WithContext(ctx).Where("source_url = ?", sourceURL).Delete(&model.Chunk{})
	return result.RowsAffected, result.Error
}

func (r *ChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error) {
	var m model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type scoredChunkRow struct {
	model.Chunk
	Similarity float64
}

// SearchSimilar runs the cosine search. Distance in pgvector is
// 1 - cosine_similarity, so similarity = 1 - (embedding <=> query).
//
// When a filter is present and the filtered query returns nothing, the
// search runs again unfiltered over a wider pool and the filter is applied
// in memory over the candidates' metadata. That recovers filters whose SQL
// translation is stricter than the caller meant.
func (r *ChunkRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]*entity.RetrievedFragment, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.query(ctx, vector, limit, f)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 && f != nil {
		rows, err = r.query(ctx, vector, limit*r.fallbackFactor, nil)
		if err != nil {
			return nil, err
		}
		rows = r.postFilter(rows, f, limit)
	}

	fragments := make([]*entity.RetrievedFragment, len(rows))
	for i, row := range rows {
		fragments[i] = &entity.RetrievedFragment{
			Chunk: r.mapper.ToEntity(&row.Chunk),
			Score: row.Similarity,
		}
	}
	return fragments, nil
}

func (r *ChunkRepositoryImpl) similarityQuery(ctx context.Context, vector []float32, limit int, f filter.Filter) ([]scoredChunkRow, error) {
	queryVector := pgvector.NewVector(vector)

	query := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.*, 1 - (embedding <=> ?) as similarity", queryVector)

	if f != nil {
		clause, args, err := filterToSQL(f)
		if err != nil {
			return nil, err
		}
		query = query.Where(clause, args...)
	}

	var rows []scoredChunkRow
	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ChunkRepositoryImpl) postFilter(rows []scoredChunkRow, f filter.Filter, limit int) []scoredChunkRow {
	kept := make([]scoredChunkRow, 0, limit)
	for _, row := range rows {
		if !f.Matches(r.mapper.ToEntity(&row.Chunk).Metadata) {
			continue
		}
		kept = append(kept, row)
		if len(kept) == limit {
			break
		}
	}
	return kept
}

func (r *ChunkRepositoryImpl) ListDocuments(ctx context.Context) ([]*contract.DocumentSummary, error) {
	var models []*model.Chunk
	// The first chunk of each document carries the document-level title and
	// tags from ingestion.
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (source_url) *
		     FROM chunks
		     ORDER BY source_url, chunk_index`).
		Scan(&models).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]*contract.DocumentSummary, len(models))
	for i, m := range models {
		summaries[i] = r.toDocumentSummary(r.mapper.ToEntity(m))
	}
	return summaries, nil
}

func (r *ChunkRepositoryImpl) AvailableTopics(ctx context.Context) ([]*contract.TopicSummary, error) {
	var topics []*contract.TopicSummary
	err := r.db.WithContext(ctx).
		Raw(`SELECT tag AS topic, COUNT(*) AS count
		     FROM chunks, jsonb_array_elements_text(tags) AS tag
		     GROUP BY tag
		     ORDER BY count DESC, topic ASC`).
		Scan(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *ChunkRepositoryImpl) DocumentsByType(ctx context.Context) ([]*contract.TypeSummary, error) {
	var types []*contract.TypeSummary
	err := r.db.WithContext(ctx).
		Raw(`SELECT source_type, COUNT(DISTINCT source_url) AS count
		     FROM chunks
		     GROUP BY source_type
		     ORDER BY count DESC, source_type ASC`).
		Scan(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *ChunkRepositoryImpl) DocumentMetadata(ctx context.Context, sourceURL string) (*contract.DocumentSummary, error) {
	chunk, err := r.FindOne(ctx,
		specification.BySourceURL{SourceURL: sourceURL},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, nil
	}
	return r.toDocumentSummary(chunk), nil
}

func (r *ChunkRepositoryImpl) ChunkContext(ctx context.Context, sourceURL string, chunkIndex int) (*contract.ChunkContext, error) {
	chunks, err := r.FindAll(ctx,
		specification.BySourceURL{SourceURL: sourceURL},
		specification.ChunkIndexBetween{From: chunkIndex - 1, To: chunkIndex + 1},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, err
	}

	result := &contract.ChunkContext{}
	for _, chunk := range chunks {
		switch chunk.Metadata.ChunkIndex {
		case chunkIndex - 1:
			result.Previous = chunk
		case chunkIndex:
			result.Current = chunk
		case chunkIndex + 1:
			result.Next = chunk
		}
	}
	if result.Current == nil {
		return nil, nil
	}
	return result, nil
}

func (r *ChunkRepositoryImpl) toDocumentSummary(chunk *entity.Chunk) *contract.DocumentSummary {
	return &contract.DocumentSummary{
		SourceURL:   chunk.Metadata.SourceURL,
		SourceName:  chunk.Metadata.SourceName,
		SourceType:  string(chunk.Metadata.SourceType),
		Title:       chunk.Metadata.Title,
		Tags:        chunk.Metadata.Tags,
		TotalChunks: chunk.Metadata.TotalChunks,
		CreatedAt:   chunk.CreatedAt,
	}
}
