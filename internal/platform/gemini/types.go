package gemini

// itemSchema mirrors one element of the declared response schema: the JSON
// object the model must emit per extracted action item.
type itemSchema struct {
	// Description is the core action item text. Required, non-empty.
	Description string `json:"description"`

	// Datetime is an ISO-8601 timestamp, or empty/null when the transcript
	// names no time.
	Datetime string `json:"datetime,omitempty"`

	// Priority is low, medium, or high; empty defaults to medium.
	Priority string `json:"priority,omitempty"`
}
