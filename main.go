package main

import (
	"fmt"

	"github.com/ahmadnurfadilah/chattable/configs"
	"github.com/ahmadnurfadilah/chattable/pkg/logger"
	"github.com/ahmadnurfadilah/chattable/routes"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/ws"
	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

func main() {
	cfg := configs.LoadConfig()

	zlog := logger.New()
	defer zlog.Sync()

	// DB
	if err := configs.ConnectionDB(cfg); err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	db := configs.DB()

	// migrate
	if err := configs.SetupDatabase(); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	if err := configs.SeedAdmin(); err != nil {
		zlog.Fatal("seed admin failed", zap.Error(err))
	}

	// Embedding backend; without a key the knowledge base rejects ingestion
	// and retrieval but the rest of the API runs.
	var embedder services.Embedder
	if cfg.OpenAIAPIKey != "" {
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithEmbeddingModel(cfg.EmbeddingModel),
		)
		if err != nil {
			zlog.Fatal("embedding client init failed", zap.Error(err))
		}
		embedder, err = embeddings.NewEmbedder(llm)
		if err != nil {
			zlog.Fatal("embedder init failed", zap.Error(err))
		}
	} else {
		zlog.Warn("OPENAI_API_KEY not set, knowledge base disabled")
	}

	// Live kitchen feed
	hub := ws.NewOrderHub(zlog)
	go hub.Run()

	// HTTP
	r := gin.Default()
	r.Static("/uploads", cfg.UploadDir)
	routes.RegisterRoutes(r, db, cfg, embedder, hub, zlog)

	addr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
