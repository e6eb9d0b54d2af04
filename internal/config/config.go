package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Turn      TurnConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	LLMProvider       string // "openai" or "ollama"
	ExploreModel      string
	DraftModel        string
	TitleModel        string
	OpenAIKey         string
	OpenAIBaseURL     string
	OllamaBaseURL     string
	MaxTokens         int
}

type RetrievalConfig struct {
	SimilarityThreshold float64
	TopK                int
	PreviewLength       int
	EmbedCharLimit      int
}

type TurnConfig struct {
	LockBackend string // "redis" or "memory"
	LockTTL     time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			ExploreModel:      getEnv("EXPLORE_MODEL", "gpt-4o"),
			DraftModel:        getEnv("DRAFT_MODEL", "gpt-4o"),
			TitleModel:        getEnv("TITLE_MODEL", "gpt-4o-mini"),
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 4096),
		},
		Retrieval: RetrievalConfig{
			SimilarityThreshold: getEnvAsFloat("RETRIEVAL_SIMILARITY_THRESHOLD", 0.5),
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 10),
			PreviewLength:       getEnvAsInt("RETRIEVAL_PREVIEW_LENGTH", 200),
			EmbedCharLimit:      getEnvAsInt("EMBED_CHAR_LIMIT", 8000),
		},
		Turn: TurnConfig{
			LockBackend: getEnv("TURN_LOCK_BACKEND", "redis"),
			LockTTL:     time.Duration(getEnvAsInt("TURN_LOCK_TTL_SECONDS", 300)) * time.Second,
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// OtelEnabled reports whether tracing export is switched on.
func OtelEnabled() bool {
	return getEnvAsBool("OTEL_ENABLED", false)
}

// OtelEndpoint is the OTLP HTTP collector address.
func OtelEndpoint() string {
	return getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
}
