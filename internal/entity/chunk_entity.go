package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the kind of document a chunk was extracted from.
type SourceType string

const (
	SourceTypePDF   SourceType = "pdf"
	SourceTypeImage SourceType = "image"
	SourceTypeVideo SourceType = "video"
	SourceTypeText  SourceType = "text"
	SourceTypeJSON  SourceType = "json"
)

// Valid reports whether the source type is one of the supported formats.
func (s SourceType) Valid() bool {
	switch s {
	case SourceTypePDF, SourceTypeImage, SourceTypeVideo, SourceTypeText, SourceTypeJSON:
		return true
	}
	return false
}

// SourceMetadata carries the positional and provenance metadata of a chunk.
// Location fields are populated per source type: Page for paginated sources,
// StartTime/EndTime for time-based sources, OCRConfidence for OCR sources.
type SourceMetadata struct {
	SourceType    SourceType
	SourceName    string
	SourceURL     string
	Tags          []string
	Title         string
	ChunkIndex    int
	TotalChunks   int
	Page          *int
	StartTime     *float64
	EndTime       *float64
	OCRConfidence *float64
}

// Chunk is the minimal retrievable unit: a bounded slice of document text
// plus its embedding and metadata. Immutable after ingestion.
type Chunk struct {
	Id        uuid.UUID
	Content   string
	Embedding []float32
	Metadata  SourceMetadata
	CreatedAt time.Time
}

// RetrievedFragment is a chunk enriched with a cosine similarity score at
// query time. Transient; never persisted.
type RetrievedFragment struct {
	Chunk *Chunk
	Score float64
}
