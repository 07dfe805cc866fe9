package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// AuthService handles registration, login and logout.
// Session bookkeeping is delegated to SessionService.
type AuthService struct {
	store          store.Store
	hasher         *auth.PasswordHasher
	sessionService *SessionService
	validator      *validation.Validator
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	hasher *auth.PasswordHasher,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:          store,
		hasher:         hasher,
		sessionService: sessionService,
		validator:      validation.New(),
		logger:         logger,
	}
}

// RegisterRequest contains the data for open registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,letterordigit,notdigits,hasletter,min=2,max=50"`
	Email    string `json:"email" validate:"required,emailaddr,max=254"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
}

func (r *RegisterRequest) normalize() {
	r.Name = normalize.Text(r.Name)
	r.Email = normalize.Email(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,emailaddr"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is a signed-in user together with the session just opened for them.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

// Register creates a standard account and signs it in.
// A taken email is reported as a field error on "email".
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.Name, req.Phone, domain.RoleStandard)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.ValidationField("email", MsgEmailTaken).WithCause(err)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = normalize.Email(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.logger.Info("login rejected", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
	}

	return s.openSession(ctx, user)
}

// Logout destroys the session behind token. It always succeeds for absent sessions.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionService.DestroySession(ctx, token)
}

// CurrentUser returns the account behind actor, or nil when anonymous or when
// the account no longer exists.
func (s *AuthService) CurrentUser(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	if !actor.IsAuthenticated() {
		return nil, nil
	}

	user, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// EnsurePrivilegedUser creates a privileged account unless one with that email exists.
// Reports whether an account was created.
func (s *AuthService) EnsurePrivilegedUser(ctx context.Context, email, password, name string) (bool, error) {
	req := RegisterRequest{Name: name, Email: email, Password: password}
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return false, fmt.Errorf("invalid bootstrap account: %w", err)
	}

	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if !existing.IsPrivileged() {
			s.logger.Warn("bootstrap account exists without privileged role", "user_id", existing.ID)
		}
		return false, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, fmt.Errorf("get user by email: %w", err)
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.Name, "", domain.RolePrivileged)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("privileged account created", "user_id", user.ID, "email", user.Email)
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, name, phone string, role domain.Role) (*domain.User, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Phone:        phone,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, session, err := s.sessionService.CreateSession(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &AuthResult{User: user, Session: session, Token: token}, nil
}
