package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Stats counts the rows in each table. Sessions are split by expiry relative to now.
type Stats struct {
	Users           int
	PrivilegedUsers int
	ActiveSessions  int
	ExpiredSessions int
	CatalogItems    int
	Ratings         int
	SavedEntries    int
	// OrphanedSavedEntries point at items that no longer exist.
	OrphanedSavedEntries int
}

// Stats returns row counts for inspection tooling.
func (s *Store) Stats(ctx context.Context, now time.Time) (Stats, error) {
	cutoff := formatTime(now)

	var st Stats
	queries := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&st.Users, `SELECT COUNT(*) FROM users`, nil},
		{&st.PrivilegedUsers, `SELECT COUNT(*) FROM users WHERE role = 'privileged'`, nil},
		{&st.ActiveSessions, `SELECT COUNT(*) FROM sessions WHERE expires_at > ?`, []any{cutoff}},
		{&st.ExpiredSessions, `SELECT COUNT(*) FROM sessions WHERE expires_at <= ?`, []any{cutoff}},
		{&st.CatalogItems, `SELECT COUNT(*) FROM catalog_items`, nil},
		{&st.Ratings, `SELECT COUNT(*) FROM ratings`, nil},
		{&st.SavedEntries, `SELECT COUNT(*) FROM saved_list_entries`, nil},
		{&st.OrphanedSavedEntries, `
			SELECT COUNT(*) FROM saved_list_entries e
			LEFT JOIN catalog_items c ON c.id = e.item_id
			WHERE c.id IS NULL`, nil},
	}

	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("count rows: %w", err)
		}
	}

	return st, nil
}
