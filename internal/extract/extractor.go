package extract

import (
	"context"
	"log/slog"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// Extractor defines the interface for turning a transcript into action
// items. "No tasks found" is an empty slice, not an error; an error means
// the strategy itself could not produce a result.
type Extractor interface {
	// Extract parses the transcript and returns the action items found in it.
	Extract(ctx context.Context, transcript string) ([]domain.ActionItem, error)
}

// Chain is an ordered list of extraction strategies. Each strategy is a full
// fallback of the one before it: the chain returns the first successful
// result and only fails when every strategy fails. With the heuristic parser
// as the terminal strategy that is practically unreachable.
type Chain struct {
	strategies []Extractor
	logger     *slog.Logger
}

// NewChain builds a chain over the given strategies, tried in order.
func NewChain(logger *slog.Logger, strategies ...Extractor) *Chain {
	return &Chain{
		strategies: strategies,
		logger:     logger.With("component", "extraction_chain"),
	}
}

// Extract tries each strategy in order and returns the first success.
func (c *Chain) Extract(ctx context.Context, transcript string) ([]domain.ActionItem, error) {
	if len(c.strategies) == 0 {
		return nil, ErrNoExtractors
	}

	var lastErr error
	for i, strategy := range c.strategies {
		items, err := strategy.Extract(ctx, transcript)
		if err == nil {
			if i > 0 {
				c.logger.Info("extraction recovered by fallback strategy",
					"strategy_index", i,
					"item_count", len(items))
			}
			return items, nil
		}

		c.logger.Warn("extraction strategy failed, trying next",
			"strategy_index", i,
			"error", err)
		lastErr = err
	}

	return nil, lastErr
}

var _ Extractor = (*Chain)(nil)
