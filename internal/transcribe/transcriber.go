package transcribe

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// FailureSentinel is the transcript returned when no strategy produced
// usable text. Extraction still runs on it, legitimately yielding zero
// items; transcription failure is never fatal to a job.
const FailureSentinel = "Could not transcribe audio."

// minUsableLength is the shortest stdout/file content accepted as a
// transcript.
const minUsableLength = 3

// Common errors returned by transcription strategies
var (
	// ErrLocalDisabled is returned when the local command strategy is not configured
	ErrLocalDisabled = errors.New("local transcription is disabled or unconfigured")

	// ErrNoUsableOutput is returned when a strategy ran but produced nothing usable
	ErrNoUsableOutput = errors.New("transcription produced no usable output")
)

// Transcriber defines the interface for resolving an audio artifact into a
// transcript string.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Chain tries each strategy in order, each a full fallback of the previous.
// When every strategy fails it returns the failure sentinel with a nil
// error, so callers continue in degraded mode.
type Chain struct {
	strategies []Transcriber
	logger     *slog.Logger
}

// NewChain builds a resolver chain over the given strategies, tried in order.
func NewChain(logger *slog.Logger, strategies ...Transcriber) *Chain {
	return &Chain{
		strategies: strategies,
		logger:     logger.With("component", "transcription_chain"),
	}
}

// Transcribe returns the first usable transcript, or the failure sentinel.
func (c *Chain) Transcribe(ctx context.Context, audioPath string) (string, error) {
	for i, strategy := range c.strategies {
		transcript, err := strategy.Transcribe(ctx, audioPath)
		if err == nil && usable(transcript) {
			if i > 0 {
				c.logger.Info("transcription recovered by fallback strategy",
					"strategy_index", i,
					"transcript_length", len(transcript))
			}
			return strings.TrimSpace(transcript), nil
		}

		c.logger.Warn("transcription strategy failed, trying next",
			"strategy_index", i,
			"audio_path", audioPath,
			"error", err)
	}

	c.logger.Warn("all transcription strategies failed, returning sentinel",
		"audio_path", audioPath)
	return FailureSentinel, nil
}

// usable reports whether the text is long enough to be a real transcript.
func usable(text string) bool {
	return len(strings.TrimSpace(text)) >= minUsableLength
}

var _ Transcriber = (*Chain)(nil)
