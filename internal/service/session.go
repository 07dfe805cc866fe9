package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/store"
)

// SessionService issues, resolves and destroys server-side sessions.
// The cookie token only names a session row; the row is the source of truth.
type SessionService struct {
	store    store.Store
	sealer   *auth.SessionSealer
	duration time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionService creates a new session management service.
func NewSessionService(
	store store.Store,
	sealer *auth.SessionSealer,
	duration time.Duration,
	logger *slog.Logger,
) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		store:    store,
		sealer:   sealer,
		duration: duration,
		logger:   logger,
		now:      time.Now,
	}
}

// Duration returns how long a new session lives.
func (s *SessionService) Duration() time.Duration {
	return s.duration
}

// CreateSession binds a fresh session to userID with a snapshot of role.
// Returns the opaque token for the session cookie.
func (s *SessionService) CreateSession(ctx context.Context, userID string, role domain.Role) (string, *domain.Session, error) {
	sessionID, err := id.Generate("session")
	if err != nil {
		return "", nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        sessionID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	return s.sealer.Seal(session.ID, session.ExpiresAt), session, nil
}

// ResolveSession returns the identity bound to token.
// It never fails: any problem with the token or its session reads as anonymous.
func (s *SessionService) ResolveSession(ctx context.Context, token string) (domain.Identity, bool) {
	if token == "" {
		return domain.Identity{}, false
	}

	sessionID, err := s.sealer.Open(token)
	if err != nil {
		return domain.Identity{}, false
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("session lookup failed", "session_id", sessionID, "error", err)
		}
		return domain.Identity{}, false
	}

	if session.IsExpired(s.now()) {
		if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("delete expired session", "session_id", session.ID, "error", err)
		}
		return domain.Identity{}, false
	}

	return session.Identity(), true
}

// DestroySession ends the session named by token.
// Destroying an absent or unreadable session is not an error.
func (s *SessionService) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionID, err := s.sealer.Open(token)
	if err != nil {
		return nil //nolint:nilerr // an unreadable token has no session to destroy
	}

	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("session destroyed", "session_id", sessionID)
	return nil
}

// PurgeExpired removes every expired session.
// Run periodically as a cleanup job.
func (s *SessionService) PurgeExpired(ctx context.Context) (int, error) {
	count, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	if count > 0 {
		s.logger.Info("deleted expired sessions", "count", count)
	}
	return count, nil
}
