package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/metrics"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-secret"
	testPassword      = "secret1"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
}

// setupTestServer creates a server over a temporary SQLite database with a
// privileged account already bootstrapped.
func setupTestServer(t *testing.T, opts ...func(*Options)) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sealer, err := auth.NewSessionSealer(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(auth.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	sessions := service.NewSessionService(st, sealer, 24*time.Hour, logger)

	services := &Services{
		Sessions:  sessions,
		Auth:      service.NewAuthService(st, hasher, sessions, logger),
		Users:     service.NewUserService(st, hasher, logger),
		Catalog:   service.NewCatalogService(st, logger),
		Ratings:   service.NewRatingService(st, logger),
		SavedList: service.NewSavedListService(st, logger),
	}

	_, err = services.Auth.EnsurePrivilegedUser(context.Background(), testAdminEmail, testAdminPassword, "Admin")
	require.NoError(t, err)

	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	s := NewServer(st, services, metrics.New(), options, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}

// cookie formats a session token as a request header argument for humatest.
func cookie(token string) string {
	return "Cookie: " + DefaultCookieName + "=" + token
}

// sessionToken extracts the session cookie value set by a response.
func sessionToken(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range resp.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c.Value
		}
	}
	t.Fatalf("response did not set %s", DefaultCookieName)
	return ""
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

// register creates a standard account and returns its session token.
func (ts *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	resp := ts.api.Post("/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return sessionToken(t, resp)
}

// login signs in and returns the session token.
func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := ts.api.Post("/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return sessionToken(t, resp)
}

// adminToken signs in as the bootstrapped privileged account.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	return ts.login(t, testAdminEmail, testAdminPassword)
}

// createItem adds a catalog item as admin and returns its ID.
func (ts *testServer) createItem(t *testing.T, admin string, body map[string]any) string {
	t.Helper()
	resp := ts.api.Post("/catalog", cookie(admin), body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[CatalogMutationResponse](t, resp).Data.ID
}

func itemBody(title, genre string, year int) map[string]any {
	return map[string]any{
		"title":          title,
		"genre":          genre,
		"year":           year,
		"restrictedLink": "https://example.com/watch/" + genre,
	}
}
