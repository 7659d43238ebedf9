// Package retrieval is the gateway that unifies lexical, vector, and hybrid
// queries over the hosted index into one ranked ProductRecord contract.
package retrieval

import (
	"context"
	"fmt"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/metrics"
	"github.com/mirae-commerce/shopdex/internal/searchindex"
)

// Service dispatches QuerySpecs to the index by strategy.
type Service struct {
	index       IndexQuerier
	embed       Embedder
	vectorField string
}

// New creates a retrieval gateway. vectorField names the index field holding
// document embeddings.
func New(index IndexQuerier, embed Embedder, vectorField string) *Service {
	return &Service{index: index, embed: embed, vectorField: vectorField}
}

// Retrieve executes one search and returns records in backend relevance
// order. Tie-breaks are backend-defined. Errors wrap ErrSearchBackend or
// ErrEmbeddingBackend; callers at orchestration boundaries decide how to
// degrade.
func (s *Service) Retrieve(ctx context.Context, spec domain.QuerySpec) ([]domain.ProductRecord, error) {
	if spec.TopK <= 0 {
		return []domain.ProductRecord{}, nil
	}
	if !spec.Strategy.IsValid() {
		return nil, fmt.Errorf("%w: strategy %q", domain.ErrInvalidQuery, spec.Strategy)
	}

	fields := spec.Fields
	if len(fields) == 0 {
		fields = domain.SearchableFields()
	}

	q := searchindex.Query{
		Select: domain.SelectFields(),
		Top:    spec.TopK,
	}

	switch spec.Strategy {
	case domain.StrategyLexical:
		q.Search = spec.Text
		q.SearchFields = fields
	case domain.StrategyVector:
		// Pure nearest-neighbor: no lexical text is sent in this mode.
		vector, err := s.embedQuery(ctx, spec)
		if err != nil {
			return nil, err
		}
		q.VectorQueries = []searchindex.VectorQuery{
			searchindex.NewVectorQuery(vector, spec.TopK, s.vectorField),
		}
	case domain.StrategyHybrid:
		// Text and vector together; fusion and the fused score are
		// backend-side and opaque to this layer.
		vector, err := s.embedQuery(ctx, spec)
		if err != nil {
			return nil, err
		}
		q.Search = spec.Text
		q.SearchFields = fields
		q.VectorQueries = []searchindex.VectorQuery{
			searchindex.NewVectorQuery(vector, spec.TopK, s.vectorField),
		}
	}

	docs, err := s.index.Query(ctx, q)
	if err != nil {
		metrics.RetrievalResultsTotal.WithLabelValues(string(spec.Strategy), "error").Inc()
		return nil, fmt.Errorf("query index: %w", err)
	}

	records := normalize(docs)
	outcome := "hit"
	if len(records) == 0 {
		outcome = "empty"
	}
	metrics.RetrievalResultsTotal.WithLabelValues(string(spec.Strategy), outcome).Inc()

	return records, nil
}

// ListAll issues a match-everything scan in backend default order.
// No query-relevance scoring applies, so Score stays absent.
func (s *Service) ListAll(ctx context.Context, topK int) ([]domain.ProductRecord, error) {
	if topK <= 0 {
		return []domain.ProductRecord{}, nil
	}

	docs, err := s.index.Query(ctx, searchindex.Query{
		Search: "*",
		Select: domain.SelectFields(),
		Top:    topK,
	})
	if err != nil {
		metrics.RetrievalResultsTotal.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("list index: %w", err)
	}

	records := normalize(docs)
	for i := range records {
		records[i].Score = nil
		records[i].RerankerScore = nil
	}
	metrics.RetrievalResultsTotal.WithLabelValues("list", "hit").Inc()

	return records, nil
}

func (s *Service) embedQuery(ctx context.Context, spec domain.QuerySpec) ([]float32, error) {
	vector, err := s.embed.Embed(ctx, spec.Text)
	if err != nil {
		metrics.RetrievalResultsTotal.WithLabelValues(string(spec.Strategy), "error").Inc()
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	return vector, nil
}

func normalize(docs []map[string]any) []domain.ProductRecord {
	records := make([]domain.ProductRecord, len(docs))
	for i, doc := range docs {
		records[i] = domain.ProductFromDoc(doc)
	}
	return records
}
