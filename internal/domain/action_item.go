package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority represents the urgency of an action item.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ItemStatus represents the lifecycle state of an action item.
// Items are created pending; completion belongs to the storage layer.
type ItemStatus string

// Possible item status values
const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusDone    ItemStatus = "done"
)

// Common validation errors for ActionItem
var (
	ErrEmptyItemID          = errors.New("action item ID cannot be empty")
	ErrEmptyItemDescription = errors.New("action item description cannot be empty")
	ErrInvalidPriority      = errors.New("invalid action item priority")
)

// ActionItem is one extracted action item: a description, an optional due
// time, and a priority. Items are immutable value records once produced by
// the extraction engine.
type ActionItem struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"datetime,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewActionItem creates a pending ActionItem with the given description,
// optional due time, and priority. An empty priority defaults to medium.
// Returns an error if validation fails.
func NewActionItem(description string, dueAt *time.Time, priority Priority) (ActionItem, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	item := ActionItem{
		ID:          uuid.New(),
		Description: description,
		DueAt:       dueAt,
		Priority:    priority,
		Status:      ItemStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return ActionItem{}, err
	}

	return item, nil
}

// Validate checks if the ActionItem has valid data.
func (i ActionItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyItemID
	}

	if i.Description == "" {
		return ErrEmptyItemDescription
	}

	if !isValidPriority(i.Priority) {
		return ErrInvalidPriority
	}

	return nil
}

// isValidPriority checks if the given priority is a valid Priority.
func isValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
