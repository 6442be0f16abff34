package main

import (
	"context"
	"log"
	"time"

	"edu-rag-be/internal/bootstrap"
	"edu-rag-be/internal/config"
	"edu-rag-be/internal/model"
	"edu-rag-be/internal/server"
	"edu-rag-be/internal/tracer"
	"edu-rag-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.Chunk{}); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Conversation Sweeper...")
		ticker := time.NewTicker(container.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := container.ChatService.SweepConversations(context.Background(), container.ConversationMaxAge); err != nil {
				log.Printf("Background Sweeper Error: %v", err)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
