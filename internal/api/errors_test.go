package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

func TestFieldKey(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"body.title", "title"},
		{"query.year", "year"},
		{"path.id", "id"},
		{"header.X-Request-Id", "X-Request-Id"},
		{"body.nested.field", "nested.field"},
		{"body", "body"},
		{"", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldKey(tt.location))
		})
	}
}

func TestRegisterErrorHandler(t *testing.T) {
	RegisterErrorHandler()

	t.Run("schema failures become field errors", func(t *testing.T) {
		err := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
			&huma.ErrorDetail{Location: "body.year", Message: "expected integer"},
			&huma.ErrorDetail{Location: "body.title", Message: "expected string"},
			&huma.ErrorDetail{Location: "body.year", Message: "second message is dropped"},
		)

		apiErr := requireAPIError(t, err)
		assert.Equal(t, http.StatusBadRequest, apiErr.GetStatus())
		assert.Equal(t, "Validation failed", apiErr.Message)
		assert.Equal(t, map[string]string{
			"year":  "expected integer",
			"title": "expected string",
		}, apiErr.FieldErrors)
	})

	t.Run("conflict carries existing id", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "boom",
			domainerrors.ConflictWithExisting("You have already reviewed this item", "rating-1"))

		apiErr := requireAPIError(t, err)
		assert.Equal(t, http.StatusBadRequest, apiErr.GetStatus())
		assert.Equal(t, "rating-1", apiErr.ExistingID)
	})

	t.Run("store not found", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "boom", fmt.Errorf("get: %w", store.ErrNotFound))

		apiErr := requireAPIError(t, err)
		assert.Equal(t, http.StatusNotFound, apiErr.GetStatus())
	})

	t.Run("internal errors hide their message", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "database is on fire")

		apiErr := requireAPIError(t, err)
		assert.Equal(t, http.StatusInternalServerError, apiErr.GetStatus())
		assert.Equal(t, "Internal server error", apiErr.Message)
	})
}

func TestToAPIError(t *testing.T) {
	s := &Server{logger: slog.New(slog.DiscardHandler)}
	ctx := context.Background()

	notFound := requireAPIError(t, s.toAPIError(ctx, fmt.Errorf("wrapped: %w", domainerrors.NotFound("Item not found"))))
	assert.Equal(t, http.StatusNotFound, notFound.GetStatus())
	assert.Equal(t, "Item not found", notFound.Message)

	validation := requireAPIError(t, s.toAPIError(ctx, domainerrors.ValidationField("itemId", "Item ID is required")))
	assert.Equal(t, http.StatusBadRequest, validation.GetStatus())
	assert.Equal(t, map[string]string{"itemId": "Item ID is required"}, validation.FieldErrors)

	internal := requireAPIError(t, s.toAPIError(ctx, errors.New("disk full")))
	assert.Equal(t, http.StatusInternalServerError, internal.GetStatus())
	assert.Equal(t, "Internal server error", internal.Message)
}

func requireAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %T", err)
	return apiErr
}
