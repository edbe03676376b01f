package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// ErrItemNotFound indicates the requested action item does not exist.
var ErrItemNotFound = errors.New("action item not found")

// ActionItemStore defines persistence operations for extracted action items.
type ActionItemStore interface {
	// Save persists a single action item.
	Save(ctx context.Context, item domain.ActionItem) error

	// List returns all stored action items ordered by creation time,
	// oldest first.
	List(ctx context.Context) ([]domain.ActionItem, error)

	// UpdateStatus transitions the item to the given status. Returns
	// ErrItemNotFound if no item has the given ID.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error
}

// PostgresActionItemStore implements ActionItemStore against Postgres.
type PostgresActionItemStore struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresActionItemStore creates a Postgres-backed action item store.
func NewPostgresActionItemStore(db DBTX, logger *slog.Logger) *PostgresActionItemStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresActionItemStore{
		db:     db,
		logger: logger.With("component", "action_item_store"),
	}
}

var _ ActionItemStore = (*PostgresActionItemStore)(nil)

// Save persists the action item. Saving an item with an existing ID updates
// it in place, so re-processing a note does not duplicate rows.
func (s *PostgresActionItemStore) Save(ctx context.Context, item domain.ActionItem) error {
	query := `
		INSERT INTO action_items (id, description, due_at, priority, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET description = EXCLUDED.description,
		    due_at = EXCLUDED.due_at,
		    priority = EXCLUDED.priority,
		    status = EXCLUDED.status
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Description,
		item.DueAt,
		string(item.Priority),
		string(item.Status),
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save action item %s: %w", item.ID, err)
	}

	s.logger.DebugContext(ctx, "action item saved", "item_id", item.ID)
	return nil
}

// List returns all action items ordered by creation time.
func (s *PostgresActionItemStore) List(ctx context.Context) ([]domain.ActionItem, error) {
	query := `
		SELECT id, description, due_at, priority, status, created_at
		FROM action_items
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []domain.ActionItem
	for rows.Next() {
		var (
			item     domain.ActionItem
			dueAt    sql.NullTime
			priority string
			status   string
		)
		if err := rows.Scan(&item.ID, &item.Description, &dueAt, &priority, &status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action item: %w", err)
		}
		if dueAt.Valid {
			t := dueAt.Time
			item.DueAt = &t
		}
		item.Priority = domain.Priority(priority)
		item.Status = domain.ItemStatus(status)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate action items: %w", err)
	}

	return items, nil
}

// UpdateStatus transitions the item to the given status.
func (s *PostgresActionItemStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error {
	query := `UPDATE action_items SET status = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update action item %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result for %s: %w", id, err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}
