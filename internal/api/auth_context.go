package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	identityKey     ctxKey = "identity"
	sessionTokenKey ctxKey = "sessionToken"
)

// identityFrom returns the identity resolved for the request.
// Anonymous requests yield the zero Identity.
func identityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}

// sessionTokenFrom returns the raw session token sent with the request, if any.
func sessionTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey).(string)
	return token
}

// sessionMiddleware resolves the session cookie into an identity on the request context.
// It never rejects a request: an absent or invalid session just leaves the caller anonymous.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionTokenKey, cookie.Value)
		if identity, ok := s.services.Sessions.ResolveSession(ctx, cookie.Value); ok {
			ctx = context.WithValue(ctx, identityKey, identity)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuthenticated is a per-operation guard rejecting anonymous callers with 401.
func (s *Server) requireAuthenticated(ctx huma.Context, next func(huma.Context)) {
	if !identityFrom(ctx.Context()).IsAuthenticated() {
		_ = huma.WriteErr(s.api, ctx, http.StatusUnauthorized, service.MsgAuthenticationRequired)
		return
	}
	next(ctx)
}

// requirePrivileged is a per-operation guard rejecting non-privileged callers with 403.
// Operations register it after requireAuthenticated so anonymous callers see 401 first.
func (s *Server) requirePrivileged(ctx huma.Context, next func(huma.Context)) {
	if !identityFrom(ctx.Context()).IsPrivileged() {
		_ = huma.WriteErr(s.api, ctx, http.StatusForbidden, service.MsgPrivilegedRequired)
		return
	}
	next(ctx)
}

// authenticated is the guard chain for signed-in operations.
func (s *Server) authenticated() huma.Middlewares {
	return huma.Middlewares{s.requireAuthenticated}
}

// privileged is the guard chain for administrative operations.
func (s *Server) privileged() huma.Middlewares {
	return huma.Middlewares{s.requireAuthenticated, s.requirePrivileged}
}
