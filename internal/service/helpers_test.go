package service

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

// testEnv wires every service over a temporary SQLite database.
type testEnv struct {
	dbPath    string
	store     *sqlite.Store
	sessions  *SessionService
	auth      *AuthService
	users     *UserService
	catalog   *CatalogService
	ratings   *RatingService
	savedList *SavedListService
}

var testHashParams = auth.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sealer, err := auth.NewSessionSealer(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(testHashParams)
	sessions := NewSessionService(s, sealer, 24*time.Hour, logger)

	return &testEnv{
		dbPath:    dbPath,
		store:     s,
		sessions:  sessions,
		auth:      NewAuthService(s, hasher, sessions, logger),
		users:     NewUserService(s, hasher, logger),
		catalog:   NewCatalogService(s, logger),
		ratings:   NewRatingService(s, logger),
		savedList: NewSavedListService(s, logger),
	}
}

// register creates a standard account and returns its identity.
func (e *testEnv) register(t *testing.T, name, email string) domain.Identity {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return res.Session.Identity()
}

// admin creates a privileged account and returns a signed-in identity for it.
func (e *testEnv) admin(t *testing.T) domain.Identity {
	t.Helper()
	ctx := context.Background()

	_, err := e.auth.EnsurePrivilegedUser(ctx, "admin@example.com", "admin-secret", "Admin")
	require.NoError(t, err)

	res, err := e.auth.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "admin-secret"})
	require.NoError(t, err)
	require.Equal(t, domain.RolePrivileged, res.Session.Role)
	return res.Session.Identity()
}

// createItem adds a catalog item as admin.
func (e *testEnv) createItem(t *testing.T, admin domain.Identity, title, genre string, year int) *domain.CatalogItem {
	t.Helper()
	item, err := e.catalog.Create(context.Background(), admin, CatalogItemRequest{
		Title:          title,
		Genre:          genre,
		Year:           year,
		RestrictedLink: "https://example.com/watch/" + genre,
	})
	require.NoError(t, err)
	return item
}
