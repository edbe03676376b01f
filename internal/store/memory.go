package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// MemoryActionItemStore is an in-memory ActionItemStore. It backs
// deployments without a configured database and keeps tests hermetic.
type MemoryActionItemStore struct {
	mu     sync.RWMutex
	items  map[uuid.UUID]domain.ActionItem
	logger *slog.Logger
}

// NewMemoryActionItemStore creates an empty in-memory action item store.
func NewMemoryActionItemStore(logger *slog.Logger) *MemoryActionItemStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryActionItemStore{
		items:  make(map[uuid.UUID]domain.ActionItem),
		logger: logger.With("component", "memory_action_item_store"),
	}
}

var _ ActionItemStore = (*MemoryActionItemStore)(nil)

// Save stores the action item, replacing any prior item with the same ID.
func (s *MemoryActionItemStore) Save(_ context.Context, item domain.ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	return nil
}

// List returns all stored items ordered by creation time, oldest first.
func (s *MemoryActionItemStore) List(_ context.Context) ([]domain.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.ActionItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// UpdateStatus transitions the item to the given status.
func (s *MemoryActionItemStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ItemStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return ErrItemNotFound
	}
	item.Status = status
	s.items[id] = item
	return nil
}
