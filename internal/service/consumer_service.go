package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/pkg/serverutils"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	ingestionService IIngestionService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestionService IIngestionService,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		ingestionService: ingestionService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var req dto.IngestDocumentRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing document %s (%d pages)", req.SourceName, len(req.Pages))

	res, err := cs.ingestionService.Process(ctx, &req)
	if err != nil {
		var appErr *serverutils.AppError
		if errors.As(err, &appErr) {
			// Input errors never succeed on retry.
			log.Printf("[ERROR] Rejecting document %s: %v", req.SourceName, err)
			msg.Ack()
			return
		}
		log.Printf("[ERROR] Failed to process document %s: %v", req.SourceName, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for %s", res.ChunkCount, req.SourceName)
	msg.Ack()
}
