package bootstrap

import (
	"context"
	stdlog "log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"edu-rag-be/internal/config"
	"edu-rag-be/internal/controller"
	"edu-rag-be/internal/pkg/logger"
	"edu-rag-be/internal/repository/contract"
	"edu-rag-be/internal/repository/implementation"
	"edu-rag-be/internal/repository/memory"
	"edu-rag-be/internal/repository/redisstore"
	"edu-rag-be/internal/service"
	"edu-rag-be/pkg/chunker"
	"edu-rag-be/pkg/embedding"
	"edu-rag-be/pkg/llm/factory"
	pktNats "edu-rag-be/pkg/nats"
	"edu-rag-be/pkg/rag/enrich"
	"edu-rag-be/pkg/rag/response"
	"edu-rag-be/pkg/rag/retrieval"
	"edu-rag-be/pkg/storage"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	ChatService     service.IChatService

	// Retention knobs main.go needs for the sweep loop
	ConversationMaxAge time.Duration
	SweepInterval      time.Duration
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := logger.NewIsolatedStdLogger("logs/llm_rag.log")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewFallbackProvider(
		embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey),
		ragLogger,
	)

	llmProvider, err := factory.NewProviderChain(ragLogger, factory.Config{
		GeminiAPIKey: cfg.Ai.GeminiAPIKey,
		GeminiModel:  cfg.Ai.GeminiModel,
		GrokAPIKey:   cfg.Ai.GrokAPIKey,
		GrokBaseURL:  cfg.Ai.GrokBaseURL,
		GrokModel:    cfg.Ai.GrokModel,
	})
	if err != nil {
		stdlog.Fatalf("[FATAL] Failed to initialize generation providers: %v", err)
	}

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		stdlog.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	conversationTTL := time.Duration(cfg.Rag.ConversationTTL) * time.Hour

	var conversationRepo contract.ConversationRepository
	if cfg.App.ConversationStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			stdlog.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			stdlog.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		conversationRepo = redisstore.NewConversationRepository(rdb, conversationTTL)
		stdlog.Printf("[INFO] Using Conversation Store: REDIS")
	} else {
		conversationRepo = memory.NewConversationRepository(conversationTTL)
		stdlog.Printf("[INFO] Using Conversation Store: MEMORY")
	}

	objectStorage, err := storage.NewLocalStorage(cfg.App.UploadDir, cfg.App.BaseURL)
	if err != nil {
		stdlog.Printf("[WARN] Failed to initialize object storage: %v", err)
		objectStorage = nil
	}

	// 5. Repositories
	chunkRepo := implementation.NewChunkRepository(db, cfg.Rag.FallbackPoolFactor)

	// 6. RAG Core
	splitter := chunker.NewSplitter(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap)
	enricher := enrich.NewEnricher(llmProvider)
	engine := retrieval.NewEngine(chunkRepo, embeddingProvider, cfg.Rag.ScoreThreshold, ragLogger)
	generator := response.NewGenerator(llmProvider, ragLogger)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	ingestionService := service.NewIngestionService(
		splitter,
		enricher,
		embeddingProvider,
		chunkRepo,
		publisherService,
		natsPub,
		objectStorage,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.App.IngestTopic, ingestionService)

	documentService := service.NewDocumentService(chunkRepo, natsPub, sysLogger)
	chatService := service.NewChatService(conversationRepo, chunkRepo, engine, generator, cfg.Rag.RetrievalLimit, sysLogger)

	// 8. Controllers
	chatController := controller.NewChatController(chatService)
	documentController := controller.NewDocumentController(ingestionService, documentService)

	return &Container{
		ChatController:     chatController,
		DocumentController: documentController,
		ConsumerService:    consumerService,
		ChatService:        chatService,
		ConversationMaxAge: conversationTTL,
		SweepInterval:      time.Duration(cfg.Rag.SweepInterval) * time.Minute,
	}
}
