package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/metrics"
)

// Completer wraps the hosted chat completion endpoint. Purely functional from
// the caller's perspective: one request in, one generated string out.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// CompleterConfig holds completion defaults.
type CompleterConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

// NewCompleter creates a chat completion client.
func NewCompleter(client *openai.Client, cfg CompleterConfig) *Completer {
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Completer{
		client:      client,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      cfg.Logger,
	}
}

// Complete generates a single response from a multi-turn prompt.
// Product attachments on turns are never forwarded to the model.
func (c *Completer) Complete(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, len(turns))
	for i, turn := range turns {
		msgs[i] = openai.ChatCompletionMessage{Role: turn.Role, Content: turn.Content}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("completion", c.model, "error").Inc()
		return "", parseAPIError("completion", err, domain.ErrCompletionBackend)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.BackendRequestsTotal.WithLabelValues("completion", c.model, "error").Inc()
		return "", fmt.Errorf("no choices returned: %w", domain.ErrEmptyCompletion)
	}

	metrics.BackendRequestsTotal.WithLabelValues("completion", c.model, "success").Inc()
	metrics.BackendRequestDuration.WithLabelValues("completion", c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.BackendTokensTotal.
			WithLabelValues("completion", c.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.BackendTokensTotal.
			WithLabelValues("completion", c.model, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	c.logger.Debug("completion generated",
		zap.String("model", resp.Model),
		zap.Int("prompt_turns", len(turns)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
