package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ConversationStore  string // "memory" or "redis"
	IngestTopic        string
	UploadDir          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	GrokAPIKey   string
	GrokBaseURL  string
	GrokModel    string
}

type RagConfig struct {
	ChunkSize          int
	ChunkOverlap       int
	ScoreThreshold     float64
	RetrievalLimit     int
	FallbackPoolFactor int
	ConversationTTL    int // Hours
	SweepInterval      int // Minutes
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ConversationStore:  getEnv("CONVERSATION_STORE", "memory"),
			IngestTopic:        getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			GeminiAPIKey: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			GrokAPIKey:   getEnv("GROK_API_KEY", ""),
			GrokBaseURL:  getEnv("GROK_BASE_URL", "https://api.x.ai/v1"),
			GrokModel:    getEnv("GROK_MODEL", "grok-4-fast-reasoning"),
		},
		Rag: RagConfig{
			ChunkSize:          getEnvAsInt("RAG_CHUNK_SIZE", 500),
			ChunkOverlap:       getEnvAsInt("RAG_CHUNK_OVERLAP", 50),
			ScoreThreshold:     getEnvAsFloat("RAG_SCORE_THRESHOLD", 0.4),
			RetrievalLimit:     getEnvAsInt("RAG_RETRIEVAL_LIMIT", 5),
			FallbackPoolFactor: getEnvAsInt("RAG_FALLBACK_POOL_FACTOR", 4),
			ConversationTTL:    getEnvAsInt("CONVERSATION_TTL_HOURS", 24),
			SweepInterval:      getEnvAsInt("CONVERSATION_SWEEP_MINUTES", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
