// Command catalog-loader vectorizes a product catalog file and pushes it
// into the hosted search index.
package main

import (
	"context"
	"flag"
	"os"

	sdkopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/catalog"
	"github.com/mirae-commerce/shopdex/internal/config"
	logpkg "github.com/mirae-commerce/shopdex/internal/logger"
	"github.com/mirae-commerce/shopdex/internal/metrics"
	"github.com/mirae-commerce/shopdex/internal/searchindex"
	openaitr "github.com/mirae-commerce/shopdex/internal/transport/openai"
)

func main() {
	var (
		file      = flag.String("file", "catalog.json", "path to the product catalog JSON file")
		batchSize = flag.Int("batch", 50, "upload batch size")
		skipEmbed = flag.Bool("skip-embed", false, "upload documents without recomputing embeddings")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterBackendMetrics()

	docs, err := catalog.Load(*file)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.String("file", *file), zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.String("file", *file), zap.Int("documents", len(docs)))

	if assigned := catalog.EnsureIDs(docs); assigned > 0 {
		logger.Info("Assigned document ids", zap.Int("count", assigned))
		// Persist generated ids so reruns stay idempotent.
		if err := catalog.Save(*file, docs); err != nil {
			logger.Fatal("Failed to write ids back", zap.Error(err))
		}
	}

	ctx := context.Background()

	if !*skipEmbed {
		aiConfig := sdkopenai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			aiConfig.BaseURL = cfg.OpenAI.BaseURL
		}
		embedder := openaitr.NewEmbedder(
			sdkopenai.NewClientWithConfig(aiConfig), cfg.OpenAI.EmbeddingModel, logger)

		attached, err := catalog.AttachEmbeddings(ctx, embedder, docs)
		if err != nil {
			logger.Fatal("Embedding pass failed",
				zap.Int("attached", attached), zap.Error(err))
		}
		logger.Info("Embeddings attached", zap.Int("count", attached))
	}

	index := searchindex.NewClient(searchindex.Config{
		Endpoint:   cfg.Search.Endpoint,
		Index:      cfg.Search.Index,
		APIVersion: cfg.Search.APIVersion,
		APIKey:     cfg.Search.APIKey,
		Logger:     logger,
	})

	summary, err := catalog.Upload(ctx, index, docs, *batchSize)
	if err != nil {
		logger.Fatal("Upload failed",
			zap.Int("succeeded", summary.Succeeded), zap.Error(err))
	}

	for _, f := range summary.Failed {
		logger.Warn("Document rejected by index",
			zap.String("key", f.Key),
			zap.Int("status_code", f.StatusCode),
			zap.String("message", f.ErrorMessage),
		)
	}

	logger.Info("Upload complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", len(summary.Failed)),
	)

	if len(summary.Failed) > 0 {
		_ = logger.Sync()
		os.Exit(1)
	}
}
