package extract

import "errors"

// Common errors returned by extraction strategies
var (
	// ErrExtractionFailed is returned when extraction fails for any general reason
	ErrExtractionFailed = errors.New("failed to extract action items from transcript")

	// ErrInvalidResponse is returned when a structured result is missing or fails schema validation
	ErrInvalidResponse = errors.New("invalid structured response from language model")

	// ErrContentBlocked is returned when the language model blocks the content
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during extraction")

	// ErrInvalidConfig is returned when an extractor configuration is invalid
	ErrInvalidConfig = errors.New("invalid extractor configuration")

	// ErrNoExtractors is returned by a chain constructed without strategies
	ErrNoExtractors = errors.New("extraction chain has no strategies")
)
