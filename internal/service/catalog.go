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
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// CatalogService is the read/write facade over catalog items.
// Reads are open to everyone but redact the restricted link for anonymous viewers.
type CatalogService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// CatalogFilter narrows a listing. Zero fields are ignored; the rest combine with AND.
type CatalogFilter struct {
	Genre string
	Year  int
	Title string
}

// CatalogSort orders a listing. The zero value is title ascending.
type CatalogSort struct {
	Field      store.CatalogSortField
	Descending bool
}

// CatalogItemRequest holds the editable fields of a catalog item.
type CatalogItemRequest struct {
	Title          string   `json:"title,omitempty" validate:"required,max=200"`
	Genre          string   `json:"genre,omitempty" validate:"required,max=100"`
	Year           int      `json:"year,omitempty" validate:"required,catalogyear"`
	Rating         *float64 `json:"rating,omitempty" validate:"omitnil,gte=0,lte=10"`
	Director       string   `json:"director,omitempty" validate:"max=200"`
	Description    string   `json:"description,omitempty" validate:"max=5000"`
	PosterURL      string   `json:"posterUrl,omitempty" validate:"omitempty,http_url"`
	TrailerURL     string   `json:"trailerUrl,omitempty" validate:"omitempty,http_url"`
	RestrictedLink string   `json:"restrictedLink,omitempty" validate:"omitempty,http_url"`
}

func (r *CatalogItemRequest) normalize() {
	r.Title = normalize.Text(r.Title)
	r.Genre = normalize.Text(r.Genre)
	r.Director = normalize.Text(r.Director)
	r.Description = strings.TrimSpace(r.Description)
	r.PosterURL = strings.TrimSpace(r.PosterURL)
	r.TrailerURL = strings.TrimSpace(r.TrailerURL)
	r.RestrictedLink = strings.TrimSpace(r.RestrictedLink)
}

func (r *CatalogItemRequest) applyTo(item *domain.CatalogItem) {
	item.Title = r.Title
	item.Genre = r.Genre
	item.Year = r.Year
	item.Rating = r.Rating
	item.Director = r.Director
	item.Description = r.Description
	item.PosterURL = r.PosterURL
	item.TrailerURL = r.TrailerURL
	item.RestrictedLink = r.RestrictedLink
}

// List returns the items matching filter in the requested order, as viewer may see them.
func (s *CatalogService) List(ctx context.Context, filter CatalogFilter, sort CatalogSort, viewer domain.Identity) ([]*domain.CatalogItem, error) {
	if sort.Field == "" {
		sort.Field = store.SortByTitle
	}

	items, err := s.store.ListCatalogItems(ctx, store.CatalogQuery{
		Genre:      normalize.Text(filter.Genre),
		Year:       filter.Year,
		Title:      filter.Title,
		SortBy:     sort.Field,
		Descending: sort.Descending,
	})
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}

	return forViewer(items, viewer), nil
}

// Get returns one item as viewer may see it.
func (s *CatalogService) Get(ctx context.Context, itemID string, viewer domain.Identity) (*domain.CatalogItem, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return item.ForViewer(viewer), nil
}

// Create adds an item to the catalog. Privileged callers only.
func (s *CatalogService) Create(ctx context.Context, actor domain.Identity, req CatalogItemRequest) (*domain.CatalogItem, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.CatalogItem{
		ID:        id.NewUUID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.applyTo(item)

	if err := s.store.CreateCatalogItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create catalog item: %w", err)
	}

	s.logger.Info("catalog item created", "item_id", item.ID, "title", item.Title, "created_by", actor.UserID)
	return item, nil
}

// Update replaces the editable fields of an item. Privileged callers only.
func (s *CatalogService) Update(ctx context.Context, actor domain.Identity, itemID string, req CatalogItemRequest) (*domain.CatalogItem, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	req.applyTo(item)
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateCatalogItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgItemNotFound)
		}
		return nil, fmt.Errorf("update catalog item: %w", err)
	}

	s.logger.Info("catalog item updated", "item_id", item.ID, "updated_by", actor.UserID)
	return item, nil
}

// Delete removes an item and its ratings. Privileged callers only.
func (s *CatalogService) Delete(ctx context.Context, actor domain.Identity, itemID string) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}

	if err := s.store.DeleteCatalogItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(MsgItemNotFound)
		}
		return fmt.Errorf("delete catalog item: %w", err)
	}

	s.logger.Info("catalog item deleted", "item_id", itemID, "deleted_by", actor.UserID)
	return nil
}

func (s *CatalogService) getItem(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	item, err := s.store.GetCatalogItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgItemNotFound)
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return item, nil
}

// forViewer redacts every item for viewer.
func forViewer(items []*domain.CatalogItem, viewer domain.Identity) []*domain.CatalogItem {
	out := make([]*domain.CatalogItem, len(items))
	for i, item := range items {
		out[i] = item.ForViewer(viewer)
	}
	return out
}
