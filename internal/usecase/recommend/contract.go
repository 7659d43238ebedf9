package recommend

import (
	"context"

	"github.com/mirae-commerce/shopdex/internal/domain"
)

// Retriever executes product retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, spec domain.QuerySpec) ([]domain.ProductRecord, error)
}

// Completer generates a response from a multi-turn prompt.
type Completer interface {
	Complete(ctx context.Context, turns []domain.ChatTurn) (string, error)
}
