package dto

import "time"

type PageDTO struct {
	Text       string   `json:"text" validate:"required"`
	Number     *int     `json:"number,omitempty"`
	StartTime  *float64 `json:"start_time,omitempty"`
	EndTime    *float64 `json:"end_time,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type IngestDocumentRequest struct {
	SourceType string    `json:"source_type" validate:"required,oneof=pdf image video text json"`
	SourceName string    `json:"source_name" validate:"required"`
	SourceURL  string    `json:"source_url,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Pages      []PageDTO `json:"pages" validate:"required,min=1,dive"`
}

type IngestDocumentResponse struct {
	SourceURL  string   `json:"source_url"`
	SourceName string   `json:"source_name"`
	Status     string   `json:"status"`
	ChunkCount int      `json:"chunk_count,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Title      string   `json:"title,omitempty"`
}

type DocumentSummaryDTO struct {
	SourceURL   string    `json:"source_url"`
	SourceName  string    `json:"source_name"`
	SourceType  string    `json:"source_type"`
	Title       string    `json:"title,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	TotalChunks int       `json:"total_chunks"`
	CreatedAt   time.Time `json:"created_at"`
}

type TopicDTO struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

type TypeSummaryDTO struct {
	SourceType string `json:"source_type"`
	Count      int64  `json:"count"`
}

type ChunkDTO struct {
	Content    string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
	Title      string `json:"title,omitempty"`
	Reference  string `json:"reference"`
}

type ChunkContextResponse struct {
	Previous *ChunkDTO `json:"previous,omitempty"`
	Current  *ChunkDTO `json:"current"`
	Next     *ChunkDTO `json:"next,omitempty"`
}

type DeleteDocumentResponse struct {
	DeletedChunks int64 `json:"deleted_chunks"`
}
