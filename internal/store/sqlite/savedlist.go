package sqlite

import (
	"context"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

// AddSavedListEntry records that a user saved an item.
// Returns store.ErrAlreadyExists if the item is already on the user's list.
func (s *Store) AddSavedListEntry(ctx context.Context, entry *domain.SavedListEntry) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_list_entries (user_id, item_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, item_id) DO NOTHING`,
		entry.UserID,
		entry.ItemID,
		formatTime(entry.AddedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrNotFound.WithMessage("user not found")
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists.WithMessage("item already in saved list")
	}
	return nil
}

// RemoveSavedListEntry removes an item from a user's list.
// Returns store.ErrNotFound if it was not there.
func (s *Store) RemoveSavedListEntry(ctx context.Context, userID, itemID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_list_entries WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListSavedListEntries returns a user's saved entries, most recently added first.
func (s *Store) ListSavedListEntries(ctx context.Context, userID string) ([]*domain.SavedListEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, item_id, added_at FROM saved_list_entries
		WHERE user_id = ?
		ORDER BY added_at DESC, item_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.SavedListEntry
	for rows.Next() {
		var (
			e       domain.SavedListEntry
			addedAt string
		)
		if err := rows.Scan(&e.UserID, &e.ItemID, &addedAt); err != nil {
			return nil, err
		}
		e.AddedAt, err = parseTime(addedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
