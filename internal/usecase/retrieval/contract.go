package retrieval

import (
	"context"

	"github.com/mirae-commerce/shopdex/internal/searchindex"
)

// IndexQuerier is the hosted search index contract.
type IndexQuerier interface {
	Query(ctx context.Context, q searchindex.Query) ([]map[string]any, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
