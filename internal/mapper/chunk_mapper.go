package mapper

import (
	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.Chunk) *entity.Chunk {
	if c == nil {
		return nil
	}

	return &entity.Chunk{
		Id:        c.Id,
		Content:   c.Content,
		Embedding: c.Embedding.Slice(),
		Metadata: entity.SourceMetadata{
			SourceType:    entity.SourceType(c.SourceType),
			SourceName:    c.SourceName,
			SourceURL:     c.SourceURL,
			Title:         c.Title,
			Tags:          c.Tags,
			ChunkIndex:    c.ChunkIndex,
			TotalChunks:   c.TotalChunks,
			Page:          c.Page,
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
			OCRConfidence: c.OCRConfidence,
		},
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChunkMapper) ToModel(c *entity.Chunk) *model.Chunk {
	if c == nil {
		return nil
	}

	return &model.Chunk{
		Id:            c.Id,
		Content:       c.Content,
		Embedding:     pgvector.NewVector(c.Embedding),
		SourceType:    string(c.Metadata.SourceType),
		SourceName:    c.Metadata.SourceName,
		SourceURL:     c.Metadata.SourceURL,
		Title:         c.Metadata.Title,
		Tags:          datatypes.JSONSlice[string](c.Metadata.Tags),
		ChunkIndex:    c.Metadata.ChunkIndex,
		TotalChunks:   c.Metadata.TotalChunks,
		Page:          c.Metadata.Page,
		StartTime:     c.Metadata.StartTime,
		EndTime:       c.Metadata.EndTime,
		OCRConfidence: c.Metadata.OCRConfidence,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
