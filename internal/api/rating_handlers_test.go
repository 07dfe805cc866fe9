package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/service"
)

func (ts *testServer) submitRating(t *testing.T, token, itemID string, score int) RatingResponse {
	t.Helper()
	resp := ts.api.Post("/ratings", cookie(token), map[string]any{
		"itemId":  itemID,
		"score":   score,
		"comment": "seen it",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[RatingMutationResponse](t, resp).Review
}

func TestSubmitRating(t *testing.T) {
	ts := setupTestServer(t)
	itemID := ts.createItem(t, ts.adminToken(t), itemBody("Alien", "horror", 1979))
	user := ts.register(t, "Ada", "ada@example.com")

	resp := ts.api.Post("/ratings", cookie(user), map[string]any{"itemId": itemID, "score": 4})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decode[RatingMutationResponse](t, resp)
	assert.Equal(t, "Review added successfully", body.Message)
	assert.True(t, id.IsUUID(body.Review.ID))
	assert.Equal(t, itemID, body.Review.ItemID)
	assert.Equal(t, 4, body.Review.Score)
}

func TestSubmitRating_DuplicateNamesExistingReview(t *testing.T) {
	ts := setupTestServer(t)
	itemID := ts.createItem(t, ts.adminToken(t), itemBody("Alien", "horror", 1979))
	user := ts.register(t, "Ada", "ada@example.com")
	first := ts.submitRating(t, user, itemID, 5)

	resp := ts.api.Post("/ratings", cookie(user), map[string]any{"itemId": itemID, "score": 1})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	apiErr := decode[APIError](t, resp)
	assert.Equal(t, service.MsgAlreadyReviewed, apiErr.Message)
	assert.Equal(t, first.ID, apiErr.ExistingID)

	summary := decode[ItemRatingsResponse](t, ts.api.Get("/ratings/"+itemID))
	assert.Equal(t, 1, summary.ReviewCount)
	assert.InDelta(t, 5.0, summary.AverageRating, 0.001)
}

func TestSubmitRating_Rejects(t *testing.T) {
	ts := setupTestServer(t)
	itemID := ts.createItem(t, ts.adminToken(t), itemBody("Alien", "horror", 1979))
	user := ts.register(t, "Ada", "ada@example.com")

	anon := ts.api.Post("/ratings", map[string]any{"itemId": itemID, "score": 3})
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	for _, score := range []int{0, 6, -1} {
		resp := ts.api.Post("/ratings", cookie(user), map[string]any{"itemId": itemID, "score": score})
		require.Equal(t, http.StatusBadRequest, resp.Code, "score %d", score)
		assert.Equal(t, "Rating must be between 1 and 5", decode[APIError](t, resp).FieldErrors["score"])
	}

	unknown := ts.api.Post("/ratings", cookie(user), map[string]any{"itemId": id.NewUUID(), "score": 3})
	require.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, service.MsgItemNotFound, decode[APIError](t, unknown).Message)

	malformed := ts.api.Post("/ratings", cookie(user), map[string]any{"itemId": "not-a-uuid", "score": 3})
	require.Equal(t, http.StatusBadRequest, malformed.Code)
	assert.Equal(t, msgInvalidID, decode[APIError](t, malformed).Message)
}

func TestListItemRatings(t *testing.T) {
	ts := setupTestServer(t)
	itemID := ts.createItem(t, ts.adminToken(t), itemBody("Alien", "horror", 1979))

	empty := decode[ItemRatingsResponse](t, ts.api.Get("/ratings/"+itemID))
	assert.Empty(t, empty.Reviews)
	assert.Zero(t, empty.AverageRating)
	assert.Zero(t, empty.ReviewCount)

	ts.submitRating(t, ts.register(t, "Ada", "ada@example.com"), itemID, 5)
	ts.submitRating(t, ts.register(t, "Bob", "bob@example.com"), itemID, 4)
	ts.submitRating(t, ts.register(t, "Cy", "cy@example.com"), itemID, 3)

	resp := ts.api.Get("/ratings/" + itemID)
	require.Equal(t, http.StatusOK, resp.Code)

	summary := decode[ItemRatingsResponse](t, resp)
	assert.Equal(t, 3, summary.ReviewCount)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
	require.Len(t, summary.Reviews, 3)
	assert.Equal(t, "cy@example.com", summary.Reviews[0].UserEmail)

	invalid := ts.api.Get("/ratings/abc")
	require.Equal(t, http.StatusBadRequest, invalid.Code)
	assert.Equal(t, "Invalid id format", decode[APIError](t, invalid).Message)
}

func TestUpdateRating_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t)
	itemID := ts.createItem(t, admin, itemBody("Alien", "horror", 1979))
	owner := ts.register(t, "Ada", "ada@example.com")
	other := ts.register(t, "Bob", "bob@example.com")
	review := ts.submitRating(t, owner, itemID, 2)

	for _, token := range []string{other, admin} {
		resp := ts.api.Put("/ratings/"+review.ID, cookie(token), map[string]any{"score": 5})
		require.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, service.MsgEditOwnReviews, decode[APIError](t, resp).Message)
	}

	resp := ts.api.Put("/ratings/"+review.ID, cookie(owner), map[string]any{"score": 5, "comment": "better on rewatch"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[RatingMutationResponse](t, resp)
	assert.Equal(t, "Review updated successfully", body.Message)
	assert.Equal(t, 5, body.Review.Score)
	assert.Equal(t, "better on rewatch", body.Review.Comment)

	missing := ts.api.Put("/ratings/"+id.NewUUID(), cookie(owner), map[string]any{"score": 5})
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, service.MsgReviewNotFound, decode[APIError](t, missing).Message)
}

func TestDeleteRating_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t)
	itemID := ts.createItem(t, admin, itemBody("Alien", "horror", 1979))
	owner := ts.register(t, "Ada", "ada@example.com")
	review := ts.submitRating(t, owner, itemID, 2)

	forbidden := ts.api.Delete("/ratings/"+review.ID, cookie(admin))
	require.Equal(t, http.StatusForbidden, forbidden.Code)
	assert.Equal(t, service.MsgDeleteOwnReviews, decode[APIError](t, forbidden).Message)

	resp := ts.api.Delete("/ratings/"+review.ID, cookie(owner))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Review deleted successfully", decode[MessageResponse](t, resp).Message)

	again := ts.api.Delete("/ratings/"+review.ID, cookie(owner))
	assert.Equal(t, http.StatusNotFound, again.Code)

	assert.Zero(t, decode[ItemRatingsResponse](t, ts.api.Get("/ratings/"+itemID)).ReviewCount)
}

func TestDeleteCatalogItem_RemovesRatings(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t)
	itemID := ts.createItem(t, admin, itemBody("Alien", "horror", 1979))
	ts.submitRating(t, ts.register(t, "Ada", "ada@example.com"), itemID, 4)

	require.Equal(t, http.StatusOK, ts.api.Delete("/catalog/"+itemID, cookie(admin)).Code)

	assert.Zero(t, decode[ItemRatingsResponse](t, ts.api.Get("/ratings/"+itemID)).ReviewCount)
}
