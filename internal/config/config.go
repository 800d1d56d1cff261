package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Ai          AIConfig
	Summarizer  SummarizerConfig
	VectorIndex VectorIndexConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	WorkerLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEventsEnabled  bool
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider        string // "groq" or "ollama"
	LLMModel           string
	GroqAPIKey         string
	GroqBaseURL        string
	OllamaBaseURL      string
	EmbeddingProvider  string // "ollama" or "llm"
	EmbeddingModel     string // e.g. "all-minilm" (384 dims)
	EmbeddingDimension int
}

type SummarizerConfig struct {
	DefaultModel      string
	SemanticThreshold float64
	CacheTTL          time.Duration
	Workers           int
	JobTimeout        time.Duration
	QueueBackend      string // "channel" or "nats"
	CacheBackend      string // "redis" or "memory"
	ChunkOverlapWords int
}

type VectorIndexConfig struct {
	Backend      string // "qdrant", "pgvector" or "memory"
	QdrantURL    string
	QdrantAPIKey string
	Collection   string
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
			WorkerLogFilePath:  getEnv("WORKER_LOG_FILE_PATH", "logs/worker.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEventsEnabled:  getEnvAsBool("NATS_EVENTS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "groq"),
			LLMModel:           getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
		},
		Summarizer: SummarizerConfig{
			DefaultModel:      getEnv("SUMMARIZER_DEFAULT_MODEL", "llama-3.3-70b-versatile"),
			SemanticThreshold: getEnvAsFloat("SEMANTIC_CACHE_THRESHOLD", 0.95),
			CacheTTL:          getEnvAsDuration("CACHE_TTL", 24*time.Hour),
			Workers:           getEnvAsInt("SUMMARIZER_WORKERS", 2),
			JobTimeout:        getEnvAsDuration("SUMMARIZER_JOB_TIMEOUT", 10*time.Minute),
			QueueBackend:      getEnv("QUEUE_BACKEND", "channel"),
			CacheBackend:      getEnv("CACHE_BACKEND", "redis"),
			ChunkOverlapWords: getEnvAsInt("CHUNK_OVERLAP_WORDS", 0),
		},
		VectorIndex: VectorIndexConfig{
			Backend:      getEnv("VECTOR_INDEX_BACKEND", "qdrant"),
			QdrantURL:    getEnv("QDRANT_URL", "http://localhost:6333"),
			QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),
			Collection:   getEnv("QDRANT_COLLECTION_NAME", "blog-platform"),
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

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("86400").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
