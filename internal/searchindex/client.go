// Package searchindex is a thin REST client for the hosted document index.
// The index itself (inverted index, vector index, score fusion) is an opaque
// third-party service; this client only shapes requests and decodes results.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/metrics"
)

// Client talks to one index of a hosted search service. It is a stateless
// wrapper around outbound HTTP calls: construct once, share freely.
type Client struct {
	endpoint   string
	index      string
	apiVersion string
	apiKey     string
	httpc      *http.Client
	logger     *zap.Logger
}

// Config holds the search index connection settings.
type Config struct {
	Endpoint   string
	Index      string
	APIVersion string
	APIKey     string
	Logger     *zap.Logger
}

// NewClient creates a search index client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		index:      cfg.Index,
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Query runs one search call and returns the raw result documents in backend
// order. Relevance scores arrive inside each document under "@search.score".
func (c *Client) Query(ctx context.Context, q Query) ([]map[string]any, error) {
	start := time.Now()

	var resp queryResponse
	err := c.post(ctx, "search", q, &resp)

	c.observe("index_query", start, err)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Upload submits a batch of documents with merge-or-upload semantics and
// returns per-document outcomes. A non-2xx response fails the whole batch;
// individual document failures are reported in the results, not as an error.
func (c *Client) Upload(ctx context.Context, docs []map[string]any) ([]UploadResult, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	batch := make([]map[string]any, len(docs))
	for i, doc := range docs {
		withAction := make(map[string]any, len(doc)+1)
		for k, v := range doc {
			withAction[k] = v
		}
		withAction["@search.action"] = "mergeOrUpload"
		batch[i] = withAction
	}

	start := time.Now()

	var resp uploadResponse
	err := c.post(ctx, "index", uploadRequest{Value: batch}, &resp)

	c.observe("index_upload", start, err)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Ping verifies index reachability with a minimal match-everything query.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, Query{Search: "*", Top: 1})
	return err
}

func (c *Client) post(ctx context.Context, action string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", action, err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/%s?api-version=%s",
		c.endpoint, c.index, action, c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("index %s request: %w: %w", action, err, domain.ErrSearchBackend)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseServiceError(action, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", action, err, domain.ErrSearchBackend)
	}
	return nil
}

func (c *Client) observe(call string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.BackendRequestsTotal.WithLabelValues(call, c.index, status).Inc()
	metrics.BackendRequestDuration.WithLabelValues(call, c.index).Observe(time.Since(start).Seconds())
}

// parseServiceError extracts the service error message from a failed response.
func parseServiceError(action string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return fmt.Errorf("index %s: status %d: %s: %w",
			action, resp.StatusCode, parsed.Error.Message, domain.ErrSearchBackend)
	}
	return fmt.Errorf("index %s: status %d: %w", action, resp.StatusCode, domain.ErrSearchBackend)
}
