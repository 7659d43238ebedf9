package domain

import "fmt"

// Strategy is the retrieval strategy.
type Strategy string

// Retrieval strategy constants.
const (
	// StrategyLexical runs a full-text query with no embedding step.
	StrategyLexical Strategy = "lexical"
	// StrategyVector runs a pure k-nearest-neighbor query over the embedding field.
	StrategyVector Strategy = "vector"
	// StrategyHybrid submits text and vector together; fusion happens backend-side.
	StrategyHybrid Strategy = "hybrid"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == StrategyLexical || s == StrategyVector || s == StrategyHybrid
}

// ParseStrategy converts a string into a Strategy.
// "keyword" is accepted as a legacy alias for lexical.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "lexical", "keyword":
		return StrategyLexical, nil
	case "vector":
		return StrategyVector, nil
	case "hybrid":
		return StrategyHybrid, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidQuery, s)
	}
}

// QuerySpec describes one retrieval call.
type QuerySpec struct {
	Text     string
	Strategy Strategy
	// Fields restricts the lexical part of the search.
	// Empty means all searchable fields.
	Fields []string
	TopK   int
}
