package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
)

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	empty, err := s.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if empty != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	admin := makeTestUser("user-admin", "admin@example.com")
	admin.Role = domain.RolePrivileged
	if err := s.CreateUser(ctx, admin); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	live := makeTestSession(t, s, "sess-live", "user-1")
	expired := makeTestSession(t, s, "sess-old", "user-1")
	expired.ExpiresAt = now.Add(-time.Hour)
	for _, sess := range []*domain.Session{live, expired} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession(%s): %v", sess.ID, err)
		}
	}

	seedItems(t, s, makeTestItem("item-1", "Alien", "horror", 1979))
	if err := s.CreateRating(ctx, makeTestRating("rating-1", "user-1", "item-1", 5)); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}
	for _, itemID := range []string{"item-1", "item-gone"} {
		entry := &domain.SavedListEntry{UserID: "user-1", ItemID: itemID, AddedAt: now}
		if err := s.AddSavedListEntry(ctx, entry); err != nil {
			t.Fatalf("AddSavedListEntry(%s): %v", itemID, err)
		}
	}

	got, err := s.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	want := Stats{
		Users:                2,
		PrivilegedUsers:      1,
		ActiveSessions:       1,
		ExpiredSessions:      1,
		CatalogItems:         1,
		Ratings:              1,
		SavedEntries:         2,
		OrphanedSavedEntries: 1,
	}
	if got != want {
		t.Errorf("Stats:\n got  %+v\n want %+v", got, want)
	}
}
