package mapper

import (
	"fmt"
	"math"

	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/entity"
)

const previewLength = 200

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToFragmentDTO(fragment *entity.RetrievedFragment) dto.FragmentDTO {
	metadata := fragment.Chunk.Metadata
	return dto.FragmentDTO{
		Id:         fragment.Chunk.Id,
		Preview:    Preview(fragment.Chunk.Content),
		Score:      RoundScore(fragment.Score),
		SourceName: metadata.SourceName,
		SourceType: string(metadata.SourceType),
		Title:      metadata.Title,
		Reference:  Reference(metadata),
		ChunkIndex: metadata.ChunkIndex,
	}
}

func (m *ChatMapper) ToFragmentDTOs(fragments []*entity.RetrievedFragment) []dto.FragmentDTO {
	dtos := make([]dto.FragmentDTO, len(fragments))
	for i, fragment := range fragments {
		dtos[i] = m.ToFragmentDTO(fragment)
	}
	return dtos
}

// ToDocumentRefs collapses fragments down to the distinct documents they came
// from, deduplicated by source URL, in first-seen order.
func (m *ChatMapper) ToDocumentRefs(fragments []*entity.RetrievedFragment) []dto.DocumentRefDTO {
	seen := make(map[string]bool, len(fragments))
	refs := make([]dto.DocumentRefDTO, 0, len(fragments))
	for _, fragment := range fragments {
		metadata := fragment.Chunk.Metadata
		if seen[metadata.SourceURL] {
			continue
		}
		seen[metadata.SourceURL] = true
		refs = append(refs, dto.DocumentRefDTO{
			SourceName: metadata.SourceName,
			SourceURL:  metadata.SourceURL,
			SourceType: string(metadata.SourceType),
		})
	}
	return refs
}

func (m *ChatMapper) ToConversationResponse(conversation *entity.Conversation) *dto.ConversationResponse {
	if conversation == nil {
		return nil
	}
	messages := make([]dto.ConversationMessageDTO, len(conversation.Messages))
	for i, message := range conversation.Messages {
		messages[i] = dto.ConversationMessageDTO{
			Role:      string(message.Role),
			Content:   message.Content,
			Timestamp: message.Timestamp,
		}
		if len(message.Sources) > 0 {
			messages[i].Sources = m.ToFragmentDTOs(message.Sources)
		}
	}
	return &dto.ConversationResponse{
		Id:        conversation.Id,
		Messages:  messages,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

// Preview truncates content for display without splitting a rune.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

// RoundScore rounds a similarity score to 3 decimals for the wire.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// Reference renders a human-readable source attribution like
// "biology.pdf, p. 12" or "lecture.mp4, 30s-90s".
func Reference(metadata entity.SourceMetadata) string {
	switch {
	case metadata.Page != nil:
		return fmt.Sprintf("%s, p. %d", metadata.SourceName, *metadata.Page)
	case metadata.StartTime != nil && metadata.EndTime != nil:
		return fmt.Sprintf("%s, %.0fs-%.0fs", metadata.SourceName, *metadata.StartTime, *metadata.EndTime)
	default:
		return metadata.SourceName
	}
}
