package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Chunk struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions

	// Flattened source metadata. Kept as columns instead of one jsonb blob so
	// the retrieval filters can hit indexes.
	SourceType  string                        `gorm:"type:varchar(16);not null;index;column:source_type"`
	SourceName  string                        `gorm:"type:text;not null;column:source_name"`
	SourceURL   string                        `gorm:"type:text;index;column:source_url"`
	Title       string                        `gorm:"type:text"`
	Tags        datatypes.JSONSlice[string]   `gorm:"type:jsonb"`
	ChunkIndex  int                           `gorm:"default:0;column:chunk_index"` // 0-based, cumulative across the whole document
	TotalChunks int                           `gorm:"default:0;column:total_chunks"`

	// Per-type location. Page for PDFs, the time range for video, OCR
	// confidence for images.
	Page          *int     `gorm:"column:page"`
	StartTime     *float64 `gorm:"column:start_time"`
	EndTime       *float64 `gorm:"column:end_time"`
	OCRConfidence *float64 `gorm:"column:ocr_confidence"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
