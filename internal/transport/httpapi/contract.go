package httpapi

import (
	"context"

	"github.com/mirae-commerce/shopdex/internal/domain"
)

// Retriever is the product retrieval surface the API serves.
type Retriever interface {
	Retrieve(ctx context.Context, spec domain.QuerySpec) ([]domain.ProductRecord, error)
	ListAll(ctx context.Context, topK int) ([]domain.ProductRecord, error)
}

// Recommender produces chat recommendations. It degrades internally and
// never fails.
type Recommender interface {
	Recommend(ctx context.Context, utterance string, history []domain.ChatTurn) domain.Recommendation
}
