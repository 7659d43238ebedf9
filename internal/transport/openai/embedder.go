package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/metrics"
)

// Embedder wraps the hosted embedding endpoint (OpenAI-compatible API).
// No caching and no retries: every call goes to the wire.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	logger *zap.Logger
}

// NewEmbedder creates an embedding client.
func NewEmbedder(client *openai.Client, model string, logger *zap.Logger) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		client: client,
		model:  openai.EmbeddingModel(model),
		logger: logger,
	}
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// normalizeText collapses newlines to spaces and trims surrounding whitespace
// before submission, matching how catalog embeddings were produced.
func normalizeText(text string) string {
	return strings.TrimSpace(newlineReplacer.Replace(text))
}

// Embed converts text to a fixed-dimension vector. Dimensionality is whatever
// the model produces; a mismatch with the index vector field is a
// backend-reported error, not validated here.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{normalizeText(text)},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("embedding", string(e.model), "error").Inc()
		return nil, parseAPIError("embedding", err, domain.ErrEmbeddingBackend)
	}

	if len(resp.Data) == 0 {
		metrics.BackendRequestsTotal.WithLabelValues("embedding", string(e.model), "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingBackend)
	}

	metrics.BackendRequestsTotal.WithLabelValues("embedding", string(e.model), "success").Inc()
	metrics.BackendRequestDuration.WithLabelValues("embedding", string(e.model)).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.BackendTokensTotal.
			WithLabelValues("embedding", string(e.model), "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	e.logger.Debug("text embedded",
		zap.Int("dimensions", len(resp.Data[0].Embedding)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return resp.Data[0].Embedding, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response and
// wraps it with the given domain sentinel.
func parseAPIError(call string, err error, wrap error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("%s API error %d: %s: %w", call, reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", call, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("%s request failed: %w", call, wrap)
}

// extractDetail pulls the "detail" field from a JSON error body, used by
// some OpenAI-compatible gateways instead of the standard error envelope.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
