package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver string
	DBSource string
	Port     string

	JWTSecret string
	JWTTTL    time.Duration

	ElevenLabsWebhookSecret string

	OpenAIAPIKey   string
	EmbeddingModel string

	UploadDir    string
	ChunkSize    int
	ChunkOverlap int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	return &Config{
		DBDriver:                getEnv("DB_DRIVER", "sqlite"),
		DBSource:                getEnv("DB_SOURCE", "chattable.db"),
		Port:                    getEnv("PORT", "8000"),
		JWTSecret:               getEnv("JWT_SECRET", "changeme"),
		JWTTTL:                  time.Duration(24) * time.Hour,
		ElevenLabsWebhookSecret: os.Getenv("ELEVENLABS_WEBHOOK_SECRET"),
		OpenAIAPIKey:            os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:          getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		ChunkSize:               getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:            getEnvInt("CHUNK_OVERLAP", 150),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
