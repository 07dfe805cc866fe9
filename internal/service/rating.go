package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// RatingService manages user ratings: one per user and item, editable only by its author.
type RatingService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(store store.Store, logger *slog.Logger) *RatingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// SubmitRatingRequest is a new rating for an item.
type SubmitRatingRequest struct {
	ItemID  string `json:"itemId" validate:"required"`
	Score   int    `json:"score" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// UpdateRatingRequest changes the provided fields of a rating.
type UpdateRatingRequest struct {
	Score   *int    `json:"score,omitempty" validate:"omitnil,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty" validate:"omitnil,max=2000"`
}

// Submit records actor's rating of an item.
// A second rating for the same item is a conflict naming the existing rating.
func (s *RatingService) Submit(ctx context.Context, actor domain.Identity, req SubmitRatingRequest) (*domain.Rating, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	req.ItemID = strings.TrimSpace(req.ItemID)
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCatalogItem(ctx, req.ItemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgItemNotFound)
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}

	now := time.Now().UTC()
	rating := &domain.Rating{
		ID:        id.NewUUID(),
		UserID:    actor.UserID,
		ItemID:    req.ItemID,
		Score:     req.Score,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateRating(ctx, rating); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, s.alreadyReviewed(ctx, actor.UserID, req.ItemID)
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound(MsgItemNotFound)
		}
		return nil, fmt.Errorf("create rating: %w", err)
	}

	s.logger.Info("rating submitted", "rating_id", rating.ID, "item_id", rating.ItemID, "user_id", actor.UserID)

	return s.getRating(ctx, rating.ID)
}

// alreadyReviewed builds the conflict for a user who already rated the item.
func (s *RatingService) alreadyReviewed(ctx context.Context, userID, itemID string) error {
	existing, err := s.store.GetRatingByUserAndItem(ctx, userID, itemID)
	if err != nil {
		// The conflicting rating vanished between the insert and this read.
		return domainerrors.Conflict(MsgAlreadyReviewed)
	}
	return domainerrors.ConflictWithExisting(MsgAlreadyReviewed, existing.ID)
}

// Update changes the provided fields of actor's own rating.
// Anyone else gets Forbidden, whatever their role.
func (s *RatingService) Update(ctx context.Context, actor domain.Identity, ratingID string, req UpdateRatingRequest) (*domain.Rating, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	if req.Comment != nil {
		c := strings.TrimSpace(*req.Comment)
		req.Comment = &c
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	rating, err := s.getRating(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if !rating.IsOwnedBy(actor.UserID) {
		return nil, domainerrors.Forbidden(MsgEditOwnReviews)
	}

	if req.Score != nil {
		rating.Score = *req.Score
	}
	if req.Comment != nil {
		rating.Comment = *req.Comment
	}
	rating.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateRating(ctx, rating); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgReviewNotFound)
		}
		return nil, fmt.Errorf("update rating: %w", err)
	}

	return rating, nil
}

// Delete removes actor's own rating.
func (s *RatingService) Delete(ctx context.Context, actor domain.Identity, ratingID string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	rating, err := s.getRating(ctx, ratingID)
	if err != nil {
		return err
	}
	if !rating.IsOwnedBy(actor.UserID) {
		return domainerrors.Forbidden(MsgDeleteOwnReviews)
	}

	if err := s.store.DeleteRating(ctx, ratingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(MsgReviewNotFound)
		}
		return fmt.Errorf("delete rating: %w", err)
	}

	s.logger.Info("rating deleted", "rating_id", ratingID, "user_id", actor.UserID)
	return nil
}

// ListForItem returns an item's ratings, newest first, with their mean and count.
// An item nobody rated summarizes to zero.
func (s *RatingService) ListForItem(ctx context.Context, itemID string) (domain.RatingSummary, error) {
	ratings, err := s.store.ListRatingsForItem(ctx, itemID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("list ratings: %w", err)
	}
	return domain.SummarizeRatings(ratings), nil
}

func (s *RatingService) getRating(ctx context.Context, ratingID string) (*domain.Rating, error) {
	rating, err := s.store.GetRating(ctx, ratingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgReviewNotFound)
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}
