// Package recommend assembles retrieval-grounded chat recommendations:
// hybrid search for the best match, a fixed-shape grounding context, and one
// completion call over a sliding window of the session transcript.
package recommend

import (
	"context"

	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/domain"
)

// historyWindow is the number of trailing transcript turns forwarded to the
// model. Older turns are dropped, not summarized.
const historyWindow = 7

// Fixed degraded responses. Neither goes through the model.
const (
	// apologyNoMatch is returned when retrieval finds nothing.
	apologyNoMatch = "Sorry, I couldn't find any products related to your request. " +
		"Could you try asking again with different keywords?"
	// apologyFailure is returned when any backend call fails.
	apologyFailure = "Sorry, something went wrong while preparing a recommendation. " +
		"Please try again in a moment."
)

// Service turns a user utterance into a grounded recommendation.
type Service struct {
	retriever Retriever
	completer Completer
	topK      int
	logger    *zap.Logger
}

// New creates a recommendation assembler. topK bounds the hybrid retrieval
// that feeds the top-1 pick.
func New(retriever Retriever, completer Completer, topK int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: retriever, completer: completer, topK: topK, logger: logger}
}

// Recommend retrieves the best-matching product for the utterance and drives
// the completion backend to produce a user-facing recommendation.
//
// history is the session transcript including the current user turn; only
// its trailing window reaches the model. Recommend never fails: retrieval
// and generation errors degrade into a fixed apology with no product so the
// transcript stays coherent.
func (s *Service) Recommend(ctx context.Context, utterance string, history []domain.ChatTurn) domain.Recommendation {
	products, err := s.retriever.Retrieve(ctx, domain.QuerySpec{
		Text:     utterance,
		Strategy: domain.StrategyHybrid,
		TopK:     s.topK,
	})
	if err != nil {
		s.logger.Warn("recommendation retrieval failed", zap.Error(err))
		return domain.Recommendation{Message: apologyFailure}
	}
	if len(products) == 0 {
		// Cost-saving short circuit: no completion call for zero matches.
		return domain.Recommendation{Message: apologyNoMatch}
	}

	top := products[0]

	message, err := s.completer.Complete(ctx, buildPrompt(top, history))
	if err != nil {
		s.logger.Warn("recommendation completion failed",
			zap.String("product_id", top.ID), zap.Error(err))
		return domain.Recommendation{Message: apologyFailure}
	}

	return domain.Recommendation{Message: message, Product: &top}
}

// buildPrompt constructs the completion input: persona, grounding context,
// then the trailing history window.
func buildPrompt(top domain.ProductRecord, history []domain.ChatTurn) []domain.ChatTurn {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	turns := make([]domain.ChatTurn, 0, 2+len(recent))
	turns = append(turns,
		domain.ChatTurn{Role: domain.RoleSystem, Content: systemPrompt},
		domain.ChatTurn{Role: domain.RoleSystem, Content: GroundingContext(top)},
	)
	turns = append(turns, recent...)
	return turns
}
