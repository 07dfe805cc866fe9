package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
		Description: "Returns every account (privileged only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.privileged(),
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete user",
		Description: "Removes an account with its sessions, ratings and saved list (privileged only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.privileged(),
	}, s.handleDeleteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/users/profile",
		Summary:     "Update profile",
		Description: "Changes the caller's name, phone or password",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.authenticated(),
	}, s.handleUpdateProfile)
}

// === DTOs ===

// UserResponse contains account data in API responses. It never carries the password hash.
type UserResponse struct {
	ID        string      `json:"id" doc:"User ID"`
	Email     string      `json:"email" doc:"Email address"`
	Name      string      `json:"name" doc:"Display name"`
	Phone     string      `json:"phone,omitempty" doc:"Phone number"`
	Role      domain.Role `json:"role" enum:"standard,privileged" doc:"Account role"`
	CreatedAt time.Time   `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time   `json:"updatedAt" doc:"Last update time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ListUsersResponse contains every account.
type ListUsersResponse struct {
	Count int            `json:"count" doc:"Number of users"`
	Data  []UserResponse `json:"data" doc:"Users"`
}

// ListUsersOutput wraps the users list for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// UserPathInput identifies an account.
type UserPathInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UpdateProfileRequest is the request body for a profile update. Omitted fields are kept.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" doc:"New display name"`
	Phone    *string `json:"phone,omitempty" doc:"New phone number"`
	Password *string `json:"password,omitempty" doc:"New password"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// ProfileResponse reports the updated account.
type ProfileResponse struct {
	Message string       `json:"message" doc:"Success message"`
	User    UserResponse `json:"user" doc:"The updated account"`
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	users, err := s.services.Users.List(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}

	return &ListUsersOutput{Body: ListUsersResponse{Count: len(resp), Data: resp}}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *UserPathInput) (*DeletedOutput, error) {
	if !id.IsPrefixed("user", input.ID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidUserID)
	}

	if err := s.services.Users.Delete(ctx, identityFrom(ctx), input.ID); err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &DeletedOutput{Body: DeletedResponse{
		Message:   "User deleted successfully",
		DeletedID: input.ID,
	}}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	user, err := s.services.Users.UpdateProfile(ctx, identityFrom(ctx), service.UpdateProfileRequest{
		Name:     input.Body.Name,
		Phone:    input.Body.Phone,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &ProfileOutput{Body: ProfileResponse{
		Message: "Profile updated successfully",
		User:    toUserResponse(user),
	}}, nil
}
