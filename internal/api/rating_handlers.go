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

func (s *Server) registerRatingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listItemRatings",
		Method:      http.MethodGet,
		Path:        "/ratings/{itemId}",
		Summary:     "List ratings for an item",
		Description: "Returns an item's reviews, newest first, with their average and count",
		Tags:        []string{"Ratings"},
	}, s.handleListItemRatings)

	huma.Register(s.api, huma.Operation{
		OperationID:   "submitRating",
		Method:        http.MethodPost,
		Path:          "/ratings",
		Summary:       "Rate an item",
		Description:   "Adds the caller's review of an item. Each user may review an item once.",
		Tags:          []string{"Ratings"},
		Security:      []map[string][]string{{"session": {}}},
		DefaultStatus: http.StatusCreated,
		Middlewares:   s.authenticated(),
	}, s.handleSubmitRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRating",
		Method:      http.MethodPut,
		Path:        "/ratings/{id}",
		Summary:     "Update rating",
		Description: "Changes the caller's own review (owner only)",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.authenticated(),
	}, s.handleUpdateRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRating",
		Method:      http.MethodDelete,
		Path:        "/ratings/{id}",
		Summary:     "Delete rating",
		Description: "Removes the caller's own review (owner only)",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.authenticated(),
	}, s.handleDeleteRating)
}

// === DTOs ===

// RatingResponse contains a review in API responses.
type RatingResponse struct {
	ID        string    `json:"id" doc:"Rating ID"`
	ItemID    string    `json:"itemId" doc:"Rated item ID"`
	UserID    string    `json:"userId" doc:"Author user ID"`
	UserEmail string    `json:"userEmail,omitempty" doc:"Author email"`
	Score     int       `json:"score" doc:"Score from 1 to 5"`
	Comment   string    `json:"comment,omitempty" doc:"Review text"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time `json:"updatedAt" doc:"Last update time"`
}

func toRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		ItemID:    r.ItemID,
		UserID:    r.UserID,
		UserEmail: r.AuthorEmail,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ItemRatingsInput identifies the item whose ratings are listed.
type ItemRatingsInput struct {
	ItemID string `path:"itemId" doc:"Item ID"`
}

// ItemRatingsResponse is the aggregated view of an item's ratings.
type ItemRatingsResponse struct {
	Reviews       []RatingResponse `json:"reviews" doc:"Reviews, newest first"`
	AverageRating float64          `json:"averageRating" doc:"Mean score rounded to one decimal, 0 when unrated"`
	ReviewCount   int              `json:"reviewCount" doc:"Number of reviews"`
}

// ItemRatingsOutput wraps the ratings list for Huma.
type ItemRatingsOutput struct {
	Body ItemRatingsResponse
}

// SubmitRatingRequest is the request body for a new review.
type SubmitRatingRequest struct {
	ItemID  string `json:"itemId,omitempty" doc:"Item being reviewed"`
	Score   int    `json:"score,omitempty" doc:"Score from 1 to 5"`
	Comment string `json:"comment,omitempty" doc:"Optional review text"`
}

// SubmitRatingInput wraps the submit request for Huma.
type SubmitRatingInput struct {
	Body SubmitRatingRequest
}

// UpdateRatingRequest is the request body for editing a review. Omitted fields are kept.
type UpdateRatingRequest struct {
	Score   *int    `json:"score,omitempty" doc:"New score from 1 to 5"`
	Comment *string `json:"comment,omitempty" doc:"New review text"`
}

// UpdateRatingInput wraps the update request for Huma.
type UpdateRatingInput struct {
	ID   string `path:"id" doc:"Rating ID"`
	Body UpdateRatingRequest
}

// RatingPathInput identifies a rating.
type RatingPathInput struct {
	ID string `path:"id" doc:"Rating ID"`
}

// RatingMutationResponse reports a stored review.
type RatingMutationResponse struct {
	Message string         `json:"message" doc:"Success message"`
	Review  RatingResponse `json:"review" doc:"The stored review"`
}

// RatingMutationOutput wraps the mutation response for Huma.
type RatingMutationOutput struct {
	Body RatingMutationResponse
}

// === Handlers ===

func (s *Server) handleListItemRatings(ctx context.Context, input *ItemRatingsInput) (*ItemRatingsOutput, error) {
	if !id.IsUUID(input.ItemID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	summary, err := s.services.Ratings.ListForItem(ctx, input.ItemID)
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	reviews := make([]RatingResponse, len(summary.Ratings))
	for i, r := range summary.Ratings {
		reviews[i] = toRatingResponse(r)
	}

	return &ItemRatingsOutput{Body: ItemRatingsResponse{
		Reviews:       reviews,
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
	}}, nil
}

func (s *Server) handleSubmitRating(ctx context.Context, input *SubmitRatingInput) (*RatingMutationOutput, error) {
	if !validItemRef(input.Body.ItemID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	rating, err := s.services.Ratings.Submit(ctx, identityFrom(ctx), service.SubmitRatingRequest{
		ItemID:  input.Body.ItemID,
		Score:   input.Body.Score,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &RatingMutationOutput{Body: RatingMutationResponse{
		Message: "Review added successfully",
		Review:  toRatingResponse(rating),
	}}, nil
}

func (s *Server) handleUpdateRating(ctx context.Context, input *UpdateRatingInput) (*RatingMutationOutput, error) {
	if !id.IsUUID(input.ID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	rating, err := s.services.Ratings.Update(ctx, identityFrom(ctx), input.ID, service.UpdateRatingRequest{
		Score:   input.Body.Score,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &RatingMutationOutput{Body: RatingMutationResponse{
		Message: "Review updated successfully",
		Review:  toRatingResponse(rating),
	}}, nil
}

func (s *Server) handleDeleteRating(ctx context.Context, input *RatingPathInput) (*MessageOutput, error) {
	if !id.IsUUID(input.ID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	if err := s.services.Ratings.Delete(ctx, identityFrom(ctx), input.ID); err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &MessageOutput{Body: MessageResponse{Message: "Review deleted successfully"}}, nil
}
