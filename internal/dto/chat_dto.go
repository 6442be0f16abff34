package dto

import (
	"time"

	"github.com/google/uuid"

	"edu-rag-be/pkg/rag/filter"
)

type ChatRequest struct {
	ConversationId *uuid.UUID `json:"conversation_id,omitempty"`
	Message        string     `json:"message" validate:"required"`
	Filter         *FilterDTO `json:"filter,omitempty"`
	Limit          int        `json:"limit,omitempty" validate:"omitempty,min=1,max=20"`
}

// FilterDTO narrows retrieval to matching documents. All present fields must
// match (tags match when at least one listed tag is present).
type FilterDTO struct {
	SourceType string   `json:"source_type,omitempty"`
	SourceName string   `json:"source_name,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Title      string   `json:"title,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// ToFilter converts the wire shape to the retrieval filter. Returns nil when
// no constraint is present.
func (f *FilterDTO) ToFilter() filter.Filter {
	if f == nil {
		return nil
	}
	var filters []filter.Filter
	if f.SourceType != "" {
		filters = append(filters, filter.Equals{Field: filter.FieldSourceType, Value: f.SourceType})
	}
	if f.SourceName != "" {
		filters = append(filters, filter.Equals{Field: filter.FieldSourceName, Value: f.SourceName})
	}
	if f.SourceURL != "" {
		filters = append(filters, filter.Equals{Field: filter.FieldSourceURL, Value: f.SourceURL})
	}
	if f.Title != "" {
		filters = append(filters, filter.Equals{Field: filter.FieldTitle, Value: f.Title})
	}
	if len(f.Tags) > 0 {
		filters = append(filters, filter.OneOf{Field: filter.FieldTags, Values: f.Tags})
	}
	if len(filters) == 0 {
		return nil
	}
	if len(filters) == 1 {
		return filters[0]
	}
	return filter.And{Filters: filters}
}

type FragmentDTO struct {
	Id         uuid.UUID `json:"id"`
	Preview    string    `json:"preview"`
	Score      float64   `json:"score"`
	SourceName string    `json:"source_name"`
	SourceType string    `json:"source_type"`
	Title      string    `json:"title,omitempty"`
	Reference  string    `json:"reference"`
	ChunkIndex int       `json:"chunk_index"`
}

type DocumentRefDTO struct {
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`
	SourceType string `json:"source_type"`
}

type ChatResponse struct {
	ConversationId uuid.UUID        `json:"conversation_id"`
	Answer         string           `json:"answer"`
	Fragments      []FragmentDTO    `json:"fragments"`
	Documents      []DocumentRefDTO `json:"documents"`
}

type ConversationResponse struct {
	Id        uuid.UUID                `json:"id"`
	Messages  []ConversationMessageDTO `json:"messages"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

type ConversationMessageDTO struct {
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Sources   []FragmentDTO `json:"sources,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type DeleteConversationResponse struct {
	Deleted bool `json:"deleted"`
}
