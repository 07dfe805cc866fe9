package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

// makeTestSession creates a domain.Session for testing.
// It also creates the owning user to satisfy the FK constraint.
func makeTestSession(t *testing.T, s *Store, sessionID, userID string) *domain.Session {
	t.Helper()
	ctx := context.Background()

	user := makeTestUser(userID, userID+"@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, store.ErrAlreadyExists) {
			t.Fatalf("makeTestSession: CreateUser(%s): %v", userID, err)
		}
	}

	now := time.Now().UTC()
	return &domain.Session{
		ID:        sessionID,
		UserID:    userID,
		Role:      domain.RoleStandard,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	session := makeTestSession(t, s, "sess-1", "user-sess-1")
	session.Role = domain.RolePrivileged
	if err := s.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != "user-sess-1" {
		t.Errorf("UserID: got %q", got.UserID)
	}
	if got.Role != domain.RolePrivileged {
		t.Errorf("Role: got %q", got.Role)
	}
	if !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Errorf("ExpiresAt: got %v, want %v", got.ExpiresAt, session.ExpiresAt)
	}
}

func TestCreateSession_UnknownUser(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	err := s.CreateSession(context.Background(), &domain.Session{
		ID:        "sess-x",
		UserID:    "ghost",
		Role:      domain.RoleStandard,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateSession(ctx, makeTestSession(t, s, "sess-1", "user-1")); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSession(ctx, "sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteSession(ctx, "sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"sess-1", "sess-2"} {
		if err := s.CreateSession(ctx, makeTestSession(t, s, id, "user-1")); err != nil {
			t.Fatalf("CreateSession(%s): %v", id, err)
		}
	}
	if err := s.CreateSession(ctx, makeTestSession(t, s, "sess-3", "user-2")); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := s.DeleteUserSessions(ctx, "user-1")
	if err != nil {
		t.Fatalf("DeleteUserSessions: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if _, err := s.GetSession(ctx, "sess-3"); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := makeTestSession(t, s, "sess-old", "user-1")
	expired.ExpiresAt = now.Add(-time.Minute)
	boundary := makeTestSession(t, s, "sess-edge", "user-1")
	boundary.ExpiresAt = now
	live := makeTestSession(t, s, "sess-live", "user-1")

	for _, sess := range []*domain.Session{expired, boundary, live} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession(%s): %v", sess.ID, err)
		}
	}

	n, err := s.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if _, err := s.GetSession(ctx, "sess-live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
