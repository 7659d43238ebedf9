package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/config"
	logpkg "github.com/mirae-commerce/shopdex/internal/logger"
	"github.com/mirae-commerce/shopdex/internal/metrics"
	"github.com/mirae-commerce/shopdex/internal/searchindex"
	"github.com/mirae-commerce/shopdex/internal/transport/httpapi"
	openaitr "github.com/mirae-commerce/shopdex/internal/transport/openai"
	healthuc "github.com/mirae-commerce/shopdex/internal/usecase/health"
	recommenduc "github.com/mirae-commerce/shopdex/internal/usecase/recommend"
	retrievaluc "github.com/mirae-commerce/shopdex/internal/usecase/retrieval"
)

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shopdex API server",
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_index", cfg.Search.Index),
		zap.String("chat_model", cfg.OpenAI.ChatModel),
		zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
	)

	// Register backend metrics explicitly (no init())
	metrics.RegisterBackendMetrics()

	// One shared client for both model endpoints
	aiConfig := sdkopenai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		aiConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	aiClient := sdkopenai.NewClientWithConfig(aiConfig)

	embedder := openaitr.NewEmbedder(aiClient, cfg.OpenAI.EmbeddingModel, logger)
	completer := openaitr.NewCompleter(aiClient, openaitr.CompleterConfig{
		Model:       cfg.OpenAI.ChatModel,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Logger:      logger,
	})

	index := searchindex.NewClient(searchindex.Config{
		Endpoint:   cfg.Search.Endpoint,
		Index:      cfg.Search.Index,
		APIVersion: cfg.Search.APIVersion,
		APIKey:     cfg.Search.APIKey,
		Logger:     logger,
	})

	retriever := retrievaluc.New(index, embedder, cfg.Search.VectorField)
	recommender := recommenduc.New(retriever, completer, cfg.Search.MaxResults, logger)
	health := healthuc.New(index, embedder, completer)

	server := httpapi.NewServer(retriever, recommender, health, cfg.Search.MaxResults, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
