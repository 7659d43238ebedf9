// Package catalog prepares product documents for the hosted index: loading
// the authoring file, assigning identifiers, vectorizing the text surface and
// pushing batches upstream. Documents stay as raw maps end to end so unknown
// authoring fields survive the round trip.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/searchindex"
)

// Embedder vectorizes one text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Uploader pushes a document batch into the index.
type Uploader interface {
	Upload(ctx context.Context, docs []map[string]any) ([]searchindex.UploadResult, error)
}

// Load reads a JSON array of product documents from path.
func Load(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return docs, nil
}

// Save writes the documents back as an indented JSON array.
func Save(path string, docs []map[string]any) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}

// NewID returns a fresh document identifier.
func NewID() string {
	return uuid.NewString()
}

// EnsureIDs assigns an identifier to every document that lacks one and
// returns how many were assigned.
func EnsureIDs(docs []map[string]any) int {
	assigned := 0
	for _, doc := range docs {
		if id, _ := doc[domain.FieldID].(string); id == "" {
			doc[domain.FieldID] = NewID()
			assigned++
		}
	}
	return assigned
}

// EmbeddingText flattens a document's text surface into the string that gets
// vectorized: name, brand, description, the image annotations and tags,
// space-joined with empty parts skipped.
func EmbeddingText(doc map[string]any) string {
	parts := make([]string, 0, 6)
	for _, field := range []string{
		domain.FieldName, domain.FieldBrand, domain.FieldDescription,
		domain.FieldImageCaption, domain.FieldImageDescription,
	} {
		if s, _ := doc[field].(string); strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	for _, tag := range tagStrings(doc) {
		if strings.TrimSpace(tag) != "" {
			parts = append(parts, strings.TrimSpace(tag))
		}
	}
	return strings.Join(parts, " ")
}

// AttachEmbeddings vectorizes each document's text surface and stores the
// vector under the embedding field. Documents with no text surface are left
// untouched. The first backend failure aborts the pass.
func AttachEmbeddings(ctx context.Context, embedder Embedder, docs []map[string]any) (int, error) {
	attached := 0
	for _, doc := range docs {
		text := EmbeddingText(doc)
		if text == "" {
			continue
		}
		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			id, _ := doc[domain.FieldID].(string)
			return attached, fmt.Errorf("embed document %s: %w", id, err)
		}
		doc[domain.FieldEmbedding] = vector
		attached++
	}
	return attached, nil
}

// UploadSummary reports an index upload outcome.
type UploadSummary struct {
	Succeeded int
	Failed    []searchindex.UploadResult
}

// Upload pushes the documents in batches of batchSize and aggregates the
// per-document outcomes. A transport failure aborts remaining batches.
func Upload(ctx context.Context, uploader Uploader, docs []map[string]any, batchSize int) (UploadSummary, error) {
	if batchSize <= 0 {
		batchSize = len(docs)
	}

	var summary UploadSummary
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		results, err := uploader.Upload(ctx, docs[start:end])
		if err != nil {
			return summary, fmt.Errorf("upload batch at %d: %w", start, err)
		}
		for _, r := range results {
			if r.Succeeded {
				summary.Succeeded++
			} else {
				summary.Failed = append(summary.Failed, r)
			}
		}
	}
	return summary, nil
}

func tagStrings(doc map[string]any) []string {
	switch v := doc[domain.FieldImageTags].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
