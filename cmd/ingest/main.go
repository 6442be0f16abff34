package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"edu-rag-be/internal/config"
	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/model"
	"edu-rag-be/internal/pkg/logger"
	"edu-rag-be/internal/repository/implementation"
	"edu-rag-be/internal/service"
	"edu-rag-be/pkg/chunker"
	"edu-rag-be/pkg/database"
	"edu-rag-be/pkg/embedding"
	"edu-rag-be/pkg/llm/factory"
	"edu-rag-be/pkg/rag/enrich"
	"edu-rag-be/pkg/storage"
)

// ingest pushes a local text file through the full pipeline synchronously.
//
//	go run ./cmd/ingest <file> [tag1,tag2,...]
func main() {
	if len(os.Args) < 2 {
		color.Red("Usage: ingest <file> [tags]")
		os.Exit(1)
	}
	filePath := os.Args[1]

	var tags []string
	if len(os.Args) > 2 {
		tags = strings.Split(os.Args[2], ",")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		color.Red("Failed to read %s: %v", filePath, err)
		os.Exit(1)
	}

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(&model.Chunk{}); err != nil {
		color.Red("Failed to migrate schema: %v", err)
		os.Exit(1)
	}

	ragLogger := logger.NewIsolatedStdLogger("logs/llm_rag.log")

	llmProvider, err := factory.NewProviderChain(ragLogger, factory.Config{
		GeminiAPIKey: cfg.Ai.GeminiAPIKey,
		GeminiModel:  cfg.Ai.GeminiModel,
		GrokAPIKey:   cfg.Ai.GrokAPIKey,
		GrokBaseURL:  cfg.Ai.GrokBaseURL,
		GrokModel:    cfg.Ai.GrokModel,
	})
	if err != nil {
		color.Red("Failed to initialize generation providers: %v", err)
		os.Exit(1)
	}

	objectStorage, err := storage.NewLocalStorage(cfg.App.UploadDir, cfg.App.BaseURL)
	if err != nil {
		color.Red("Failed to initialize object storage: %v", err)
		os.Exit(1)
	}

	ingestionService := service.NewIngestionService(
		chunker.NewSplitter(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap),
		enrich.NewEnricher(llmProvider),
		embedding.NewFallbackProvider(embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey), ragLogger),
		implementation.NewChunkRepository(gormDB, cfg.Rag.FallbackPoolFactor),
		nil, // no async queue, this tool processes inline
		nil, // no event bus for one-shot runs
		objectStorage,
		logger.NewZapLogger(cfg.App.LogFilePath, false),
	)

	color.Cyan("Ingesting %s...", filePath)

	res, err := ingestionService.Process(context.Background(), &dto.IngestDocumentRequest{
		SourceType: "text",
		SourceName: filepath.Base(filePath),
		Tags:       tags,
		Pages: []dto.PageDTO{
			{Text: string(data)},
		},
	})
	if err != nil {
		color.Red("Ingestion failed: %v", err)
		os.Exit(1)
	}

	color.Green("Done: %d chunks stored", res.ChunkCount)
	fmt.Printf("  source url: %s\n", res.SourceURL)
	if res.Title != "" {
		fmt.Printf("  title:      %s\n", res.Title)
	}
	if len(res.Tags) > 0 {
		fmt.Printf("  tags:       %s\n", strings.Join(res.Tags, ", "))
	}
}
