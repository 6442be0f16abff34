package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/mapper"
	"edu-rag-be/internal/pkg/logger"
	"edu-rag-be/internal/pkg/serverutils"
	"edu-rag-be/internal/repository/contract"
	"edu-rag-be/pkg/events"
	pktNats "edu-rag-be/pkg/nats"
)

type IDocumentService interface {
	List(ctx context.Context) ([]*dto.DocumentSummaryDTO, error)
	Topics(ctx context.Context) ([]*dto.TopicDTO, error)
	Types(ctx context.Context) ([]*dto.TypeSummaryDTO, error)
	Metadata(ctx context.Context, sourceURL string) (*dto.DocumentSummaryDTO, error)
	ChunkContext(ctx context.Context, sourceURL string, chunkIndex int) (*dto.ChunkContextResponse, error)
	Delete(ctx context.Context, sourceURL string) (*dto.DeleteDocumentResponse, error)
}

type documentService struct {
	chunkRepository contract.ChunkRepository
	eventPublisher  *pktNats.Publisher
	logger          logger.ILogger
}

func NewDocumentService(
	chunkRepository contract.ChunkRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		chunkRepository: chunkRepository,
		eventPublisher:  eventPublisher,
		logger:          log,
	}
}

func (s *documentService) List(ctx context.Context) ([]*dto.DocumentSummaryDTO, error) {
	summaries, err := s.chunkRepository.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*dto.DocumentSummaryDTO, len(summaries))
	for i, summary := range summaries {
		docs[i] = toDocumentSummaryDTO(summary)
	}
	return docs, nil
}

func (s *documentService) Topics(ctx context.Context) ([]*dto.TopicDTO, error) {
	topics, err := s.chunkRepository.AvailableTopics(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TopicDTO, len(topics))
	for i, topic := range topics {
		result[i] = &dto.TopicDTO{Topic: topic.Topic, Count: topic.Count}
	}
	return result, nil
}

func (s *documentService) Types(ctx context.Context) ([]*dto.TypeSummaryDTO, error) {
	types, err := s.chunkRepository.DocumentsByType(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TypeSummaryDTO, len(types))
	for i, t := range types {
		result[i] = &dto.TypeSummaryDTO{SourceType: t.SourceType, Count: t.Count}
	}
	return result, nil
}

func (s *documentService) Metadata(ctx context.Context, sourceURL string) (*dto.DocumentSummaryDTO, error) {
	summary, err := s.chunkRepository.DocumentMetadata(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Document not found")
	}
	return toDocumentSummaryDTO(summary), nil
}

func (s *documentService) ChunkContext(ctx context.Context, sourceURL string, chunkIndex int) (*dto.ChunkContextResponse, error) {
	neighborhood, err := s.chunkRepository.ChunkContext(ctx, sourceURL, chunkIndex)
	if err != nil {
		return nil, err
	}
	if neighborhood == nil {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Chunk not found")
	}
	return &dto.ChunkContextResponse{
		Previous: toChunkDTO(neighborhood.Previous),
		Current:  toChunkDTO(neighborhood.Current),
		Next:     toChunkDTO(neighborhood.Next),
	}, nil
}

func (s *documentService) Delete(ctx context.Context, sourceURL string) (*dto.DeleteDocumentResponse, error) {
	deleted, err := s.chunkRepository.DeleteBySourceURL(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Document not found")
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeDocumentDeleted,
			Data: map[string]interface{}{
				"source_url":     sourceURL,
				"deleted_chunks": deleted,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("document", "Failed to publish deleted event", map[string]interface{}{
				"source_url": sourceURL,
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("document", "Document deleted", map[string]interface{}{
		"source_url": sourceURL,
		"chunks":     deleted,
	})
	return &dto.DeleteDocumentResponse{DeletedChunks: deleted}, nil
}

func toDocumentSummaryDTO(summary *contract.DocumentSummary) *dto.DocumentSummaryDTO {
	return &dto.DocumentSummaryDTO{
		SourceURL:   summary.SourceURL,
		SourceName:  summary.SourceName,
		SourceType:  summary.SourceType,
		Title:       summary.Title,
		Tags:        summary.Tags,
		TotalChunks: summary.TotalChunks,
		CreatedAt:   summary.CreatedAt,
	}
}

func toChunkDTO(chunk *entity.Chunk) *dto.ChunkDTO {
	if chunk == nil {
		return nil
	}
	return &dto.ChunkDTO{
		Content:    chunk.Content,
		ChunkIndex: chunk.Metadata.ChunkIndex,
		Title:      chunk.Metadata.Title,
		Reference:  mapper.Reference(chunk.Metadata),
	}
}
