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
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// UserService covers self-service profile edits and privileged account administration.
type UserService struct {
	store     store.Store
	hasher    *auth.PasswordHasher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, hasher *auth.PasswordHasher, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:     store,
		hasher:    hasher,
		validator: validation.New(),
		logger:    logger,
	}
}

// UpdateProfileRequest holds the profile fields a user may change.
// Nil or empty fields are left as they are.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,letterordigit,notdigits,hasletter,min=2,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitnil,phone"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6,max=1024"`
}

// normalize trims the provided fields and drops the ones left empty.
func (r *UpdateProfileRequest) normalize() {
	r.Name = nonEmpty(r.Name, normalize.Text)
	r.Phone = nonEmpty(r.Phone, strings.TrimSpace)
	r.Password = nonEmpty(r.Password, func(s string) string { return s })
}

func (r *UpdateProfileRequest) isEmpty() bool {
	return r.Name == nil && r.Phone == nil && r.Password == nil
}

func nonEmpty(p *string, clean func(string) string) *string {
	if p == nil {
		return nil
	}
	v := clean(*p)
	if v == "" {
		return nil
	}
	return &v
}

// List returns every account. Privileged callers only.
func (s *UserService) List(ctx context.Context, actor domain.Identity) ([]*domain.User, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Delete removes an account together with its sessions, ratings and saved list.
// Privileged callers only.
func (s *UserService) Delete(ctx context.Context, actor domain.Identity, userID string) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(MsgUserNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", actor.UserID)
	return nil
}

// UpdateProfile applies the provided fields to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Identity, req UpdateProfileRequest) (*domain.User, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	req.normalize()
	if req.isEmpty() {
		return nil, domainerrors.Validation(MsgNoFieldsToUpdate)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgUserNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgUserNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}
