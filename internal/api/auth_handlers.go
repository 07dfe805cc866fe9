package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register new user",
		Description:   "Creates a standard account and signs it in",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   s.rateLimited("register"),
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "User login",
		Description: "Verifies credentials and sets the session cookie",
		Tags:        []string{"Authentication"},
		Middlewares: s.rateLimited("login"),
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Logout",
		Description: "Destroys the current session and clears the cookie",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "authStatus",
		Method:      http.MethodGet,
		Path:        "/auth/status",
		Summary:     "Session status",
		Description: "Reports whether the caller is signed in, with their profile",
		Tags:        []string{"Authentication"},
	}, s.handleAuthStatus)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name,omitempty" doc:"Display name"`
	Email    string `json:"email,omitempty" doc:"Email address"`
	Password string `json:"password,omitempty" doc:"Password, at least 6 characters"`
	Phone    string `json:"phone,omitempty" doc:"Optional phone number"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email,omitempty" doc:"User email"`
	Password string `json:"password,omitempty" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// SessionOutput is a message response that also sets or clears the session cookie.
type SessionOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// AuthStatusResponse reports the caller's session state.
type AuthStatusResponse struct {
	IsAuthenticated bool                  `json:"isAuthenticated" doc:"Whether the caller holds a valid session"`
	User            *domain.PublicProfile `json:"user,omitempty" doc:"Profile of the signed-in user"`
}

// AuthStatusOutput wraps the status response for Huma.
type AuthStatusOutput struct {
	Body AuthStatusResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*SessionOutput, error) {
	result, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Phone:    input.Body.Phone,
	})
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &SessionOutput{
		SetCookie: s.sessionCookie(result.Token, result.Session.ExpiresAt),
		Body:      MessageResponse{Message: "User registered"},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	result, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	// Replace any session the client already held.
	if previous := sessionTokenFrom(ctx); previous != "" {
		if err := s.services.Auth.Logout(ctx, previous); err != nil {
			s.logger.Warn("failed to destroy previous session", "error", err)
		}
	}

	return &SessionOutput{
		SetCookie: s.sessionCookie(result.Token, result.Session.ExpiresAt),
		Body:      MessageResponse{Message: "Logged in successfully"},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	if err := s.services.Auth.Logout(ctx, sessionTokenFrom(ctx)); err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &SessionOutput{
		SetCookie: s.clearedSessionCookie(),
		Body:      MessageResponse{Message: "Logged out successfully"},
	}, nil
}

func (s *Server) handleAuthStatus(ctx context.Context, _ *struct{}) (*AuthStatusOutput, error) {
	user, err := s.services.Auth.CurrentUser(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	out := &AuthStatusOutput{}
	if user != nil {
		profile := user.Profile()
		out.Body = AuthStatusResponse{IsAuthenticated: true, User: &profile}
	}
	return out, nil
}

// === Cookies ===

func (s *Server) sessionCookie(token string, expiresAt time.Time) http.Cookie {
	return http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) clearedSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
