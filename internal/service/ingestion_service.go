package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/pkg/logger"
	"edu-rag-be/internal/pkg/serverutils"
	"edu-rag-be/internal/repository/contract"
	"edu-rag-be/pkg/chunker"
	"edu-rag-be/pkg/embedding"
	"edu-rag-be/pkg/events"
	pktNats "edu-rag-be/pkg/nats"
	"edu-rag-be/pkg/rag/enrich"
	"edu-rag-be/pkg/storage"
)

type IIngestionService interface {
	// Enqueue validates the request and hands it to the async pipeline.
	Enqueue(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	// Process runs the full pipeline synchronously: chunk, enrich, embed, store.
	Process(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
}

type ingestionService struct {
	splitter          *chunker.Splitter
	enricher          *enrich.Enricher
	embeddingProvider embedding.Provider
	chunkRepository   contract.ChunkRepository
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	objectStorage     storage.ObjectStorage
	logger            logger.ILogger
}

func NewIngestionService(
	splitter *chunker.Splitter,
	enricher *enrich.Enricher,
	embeddingProvider embedding.Provider,
	chunkRepository contract.ChunkRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	objectStorage storage.ObjectStorage,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		splitter:          splitter,
		enricher:          enricher,
		embeddingProvider: embeddingProvider,
		chunkRepository:   chunkRepository,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		objectStorage:     objectStorage,
		logger:            log,
	}
}

func (s *ingestionService) Enqueue(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	s.ensureSourceURL(ctx, req)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal ingest request: %w", err)
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("enqueue ingest request: %w", err)
	}

	s.logger.Info("ingestion", "Document queued", map[string]interface{}{
		"source_name": req.SourceName,
		"source_url":  req.SourceURL,
		"pages":       len(req.Pages),
	})

	return &dto.IngestDocumentResponse{
		SourceURL:  req.SourceURL,
		SourceName: req.SourceName,
		Status:     "queued",
	}, nil
}

func (s *ingestionService) Process(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	if !entity.SourceType(req.SourceType).Valid() {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest,
			fmt.Sprintf("unsupported document type %q", req.SourceType))
	}
	s.ensureSourceURL(ctx, req)

	pages := make([]chunker.Page, len(req.Pages))
	for i, page := range req.Pages {
		pages[i] = chunker.Page{
			Text:       page.Text,
			Number:     page.Number,
			StartTime:  page.StartTime,
			EndTime:    page.EndTime,
			Confidence: page.Confidence,
		}
	}

	chunks, err := s.splitter.ChunkPages(pages, chunker.DocumentInfo{
		SourceType: entity.SourceType(req.SourceType),
		SourceName: req.SourceName,
		SourceURL:  req.SourceURL,
		Tags:       enrich.NormalizeTags(req.Tags),
	})
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document produced no chunks")
	}

	tags := s.resolveTags(ctx, req, chunks[0].Content)
	for _, chunk := range chunks {
		chunk.Metadata.Tags = tags
	}

	s.enrichTitles(ctx, chunks)

	for i, chunk := range chunks {
		vector, err := s.embeddingProvider.Generate(ctx, chunk.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunk.Embedding = vector
	}

	if err := s.chunkRepository.CreateBulk(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	s.publishIngested(ctx, req, len(chunks))

	s.logger.Info("ingestion", "Document processed", map[string]interface{}{
		"source_name": req.SourceName,
		"source_url":  req.SourceURL,
		"chunks":      len(chunks),
		"tags":        tags,
	})

	return &dto.IngestDocumentResponse{
		SourceURL:  req.SourceURL,
		SourceName: req.SourceName,
		Status:     "processed",
		ChunkCount: len(chunks),
		Tags:       tags,
		Title:      chunks[0].Metadata.Title,
	}, nil
}

// resolveTags merges manually supplied tags with model-generated ones. Tag
// generation failing is not fatal, the manual set still applies.
func (s *ingestionService) resolveTags(ctx context.Context, req *dto.IngestDocumentRequest, sample string) []string {
	manual := enrich.NormalizeTags(req.Tags)

	auto, err := s.enricher.GenerateTags(ctx, sample, entity.SourceType(req.SourceType))
	if err != nil {
		s.logger.Warn("ingestion", "Tag generation failed, keeping manual tags", map[string]interface{}{
			"source_url": req.SourceURL,
			"error":      err.Error(),
		})
		return manual
	}
	return enrich.NormalizeTags(append(manual, auto...))
}

func (s *ingestionService) enrichTitles(ctx context.Context, chunks []*entity.Chunk) {
	for _, chunk := range chunks {
		title, err := s.enricher.GenerateTitle(ctx, chunk.Content, chunk.Metadata.SourceType)
		if err != nil {
			s.logger.Warn("ingestion", "Title generation failed for chunk", map[string]interface{}{
				"chunk_index": chunk.Metadata.ChunkIndex,
				"error":       err.Error(),
			})
			continue
		}
		chunk.Metadata.Title = title
	}
}

// ensureSourceURL assigns a stable URL to documents that arrive without one.
// The raw text is archived to object storage so the document can be
// re-chunked later; if that fails the chunks still get a synthetic URL.
func (s *ingestionService) ensureSourceURL(ctx context.Context, req *dto.IngestDocumentRequest) {
	if req.SourceURL != "" {
		return
	}

	id := uuid.New().String()
	if s.objectStorage != nil {
		var raw strings.Builder
		for _, page := range req.Pages {
			raw.WriteString(page.Text)
			raw.WriteString("\n\n")
		}
		url, err := s.objectStorage.Upload(ctx, []byte(raw.String()), "documents/"+id+".txt")
		if err == nil {
			req.SourceURL = url
			return
		}
		s.logger.Warn("ingestion", "Failed to archive raw document", map[string]interface{}{
			"source_name": req.SourceName,
			"error":       err.Error(),
		})
	}
	req.SourceURL = "local://" + id
}

func (s *ingestionService) publishIngested(ctx context.Context, req *dto.IngestDocumentRequest, chunkCount int) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeDocumentIngested,
		Data: map[string]interface{}{
			"source_url":  req.SourceURL,
			"source_name": req.SourceName,
			"source_type": req.SourceType,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ingestion", "Failed to publish ingested event", map[string]interface{}{
			"source_url": req.SourceURL,
			"error":      err.Error(),
		})
	}
}
