package retrieval

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/searchindex"
)

// --- Mocks ---

type mockIndex struct {
	docs      []map[string]any
	err       error
	calls     int
	lastQuery searchindex.Query
}

func (m *mockIndex) Query(_ context.Context, q searchindex.Query) ([]map[string]any, error) {
	m.calls++
	m.lastQuery = q
	return m.docs, m.err
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.err
}

func newTestService() (*Service, *mockIndex, *mockEmbedder) {
	idx := &mockIndex{docs: []map[string]any{
		{"id": "p-1", "name": "Coat", "@search.score": 0.9},
		{"id": "p-2", "name": "Hat", "@search.score": 0.5},
	}}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	return New(idx, emb, "embedding"), idx, emb
}

// --- Tests ---

func TestRetrieve_LexicalNoEmbeddingCall(t *testing.T) {
	svc, idx, emb := newTestService()

	records, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: domain.StrategyLexical, TopK: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.calls != 0 {
		t.Errorf("lexical made %d embedding calls, want 0", emb.calls)
	}
	if idx.calls != 1 {
		t.Errorf("index calls = %d, want 1", idx.calls)
	}
	if idx.lastQuery.Search != "coat" {
		t.Errorf("search text = %q", idx.lastQuery.Search)
	}
	if len(idx.lastQuery.VectorQueries) != 0 {
		t.Error("lexical query must not carry vector clauses")
	}
	if len(records) != 2 || records[0].ID != "p-1" {
		t.Fatalf("records = %+v", records)
	}
}

func TestRetrieve_VectorOneEmbeddingCall(t *testing.T) {
	for _, topK := range []int{1, 5, 50} {
		svc, idx, emb := newTestService()

		_, err := svc.Retrieve(context.Background(), domain.QuerySpec{
			Text: "warm coat", Strategy: domain.StrategyVector, TopK: topK,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if emb.calls != 1 {
			t.Errorf("topK=%d: embedding calls = %d, want 1", topK, emb.calls)
		}
		if idx.lastQuery.Search != "" {
			t.Errorf("vector mode sent lexical text %q", idx.lastQuery.Search)
		}
		if len(idx.lastQuery.SearchFields) != 0 {
			t.Error("vector mode must not restrict search fields")
		}
		vqs := idx.lastQuery.VectorQueries
		if len(vqs) != 1 || vqs[0].K != topK || vqs[0].Fields != "embedding" {
			t.Errorf("vector clause = %+v", vqs)
		}
	}
}

func TestRetrieve_HybridSendsTextAndVector(t *testing.T) {
	svc, idx, emb := newTestService()

	_, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "warm coat", Strategy: domain.StrategyHybrid, TopK: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.calls != 1 {
		t.Errorf("embedding calls = %d, want 1", emb.calls)
	}
	if idx.lastQuery.Search != "warm coat" {
		t.Errorf("search text = %q", idx.lastQuery.Search)
	}
	if len(idx.lastQuery.VectorQueries) != 1 {
		t.Errorf("vector clauses = %d, want 1", len(idx.lastQuery.VectorQueries))
	}
}

func TestRetrieve_DefaultsToAllSearchableFields(t *testing.T) {
	svc, idx, _ := newTestService()

	_, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: domain.StrategyLexical, TopK: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(idx.lastQuery.SearchFields, domain.SearchableFields()) {
		t.Errorf("searchFields = %v", idx.lastQuery.SearchFields)
	}

	_, err = svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: domain.StrategyLexical, Fields: []string{"name"}, TopK: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(idx.lastQuery.SearchFields, []string{"name"}) {
		t.Errorf("restricted searchFields = %v", idx.lastQuery.SearchFields)
	}
}

func TestRetrieve_TopKZeroShortCircuits(t *testing.T) {
	svc, idx, emb := newTestService()

	records, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: domain.StrategyHybrid, TopK: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 || records == nil {
		t.Fatalf("want empty non-nil slice, got %#v", records)
	}
	if idx.calls != 0 || emb.calls != 0 {
		t.Errorf("topK=0 touched backends: index=%d embed=%d", idx.calls, emb.calls)
	}
}

func TestRetrieve_UnknownStrategy(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: "semantic", TopK: 3,
	})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}

func TestRetrieve_EmbeddingFailurePropagates(t *testing.T) {
	svc, idx, emb := newTestService()
	emb.err = domain.ErrEmbeddingBackend

	_, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: domain.StrategyVector, TopK: 3,
	})
	if !errors.Is(err, domain.ErrEmbeddingBackend) {
		t.Fatalf("err = %v, want ErrEmbeddingBackend", err)
	}
	if idx.calls != 0 {
		t.Error("index must not be queried after embedding failure")
	}
}

func TestRetrieve_IndexFailurePropagates(t *testing.T) {
	svc, idx, _ := newTestService()
	idx.err = domain.ErrSearchBackend

	_, err := svc.Retrieve(context.Background(), domain.QuerySpec{
		Text: "coat", Strategy: domain.StrategyLexical, TopK: 3,
	})
	if !errors.Is(err, domain.ErrSearchBackend) {
		t.Fatalf("err = %v, want ErrSearchBackend", err)
	}
}

func TestListAll_MatchEverythingWithoutScores(t *testing.T) {
	svc, idx, emb := newTestService()

	records, err := svc.ListAll(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.calls != 0 {
		t.Error("listAll must not embed")
	}
	if idx.lastQuery.Search != "*" {
		t.Errorf("search = %q, want *", idx.lastQuery.Search)
	}
	if idx.lastQuery.Top != 100 {
		t.Errorf("top = %d", idx.lastQuery.Top)
	}
	for _, r := range records {
		if r.Score != nil || r.RerankerScore != nil {
			t.Errorf("record %s carries a score on an unfiltered listing", r.ID)
		}
	}
}

func TestListAll_IdempotentIDSet(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.ListAll(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListAll(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := func(records []domain.ProductRecord) map[string]bool {
		set := make(map[string]bool, len(records))
		for _, r := range records {
			set[r.ID] = true
		}
		return set
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("id sets differ: %v vs %v", ids(first), ids(second))
	}
}
