package domain

import "errors"

var (
	// ErrSearchBackend signals a hosted search index failure (network, auth, malformed query).
	ErrSearchBackend = errors.New("search backend error")
	// ErrEmbeddingBackend signals an embedding endpoint failure.
	ErrEmbeddingBackend = errors.New("embedding backend error")
	// ErrCompletionBackend signals a chat completion endpoint failure.
	ErrCompletionBackend = errors.New("completion backend error")
	// ErrEmptyCompletion signals a completion response with no generated text.
	ErrEmptyCompletion = errors.New("empty completion response")
	// ErrInvalidQuery signals a malformed query spec.
	ErrInvalidQuery = errors.New("invalid query")
)
