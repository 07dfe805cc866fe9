// Package store defines the persistence interface for the catalog server.
package store

import (
	"context"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Uniqueness rules (one email per account, one rating per user and item, one
// saved-list entry per user and item) are enforced atomically by the
// implementation and reported as ErrAlreadyExists.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) (int, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Catalog
	CreateCatalogItem(ctx context.Context, item *domain.CatalogItem) error
	GetCatalogItem(ctx context.Context, id string) (*domain.CatalogItem, error)
	GetCatalogItemsByIDs(ctx context.Context, ids []string) ([]*domain.CatalogItem, error)
	ListCatalogItems(ctx context.Context, query CatalogQuery) ([]*domain.CatalogItem, error)
	UpdateCatalogItem(ctx context.Context, item *domain.CatalogItem) error
	DeleteCatalogItem(ctx context.Context, id string) error

	// Ratings
	CreateRating(ctx context.Context, rating *domain.Rating) error
	GetRating(ctx context.Context, id string) (*domain.Rating, error)
	GetRatingByUserAndItem(ctx context.Context, userID, itemID string) (*domain.Rating, error)
	UpdateRating(ctx context.Context, rating *domain.Rating) error
	DeleteRating(ctx context.Context, id string) error
	ListRatingsForItem(ctx context.Context, itemID string) ([]*domain.Rating, error)

	// Saved list
	AddSavedListEntry(ctx context.Context, entry *domain.SavedListEntry) error
	RemoveSavedListEntry(ctx context.Context, userID, itemID string) error
	ListSavedListEntries(ctx context.Context, userID string) ([]*domain.SavedListEntry, error)
}

// CatalogSortField names a column the catalog can be ordered by.
type CatalogSortField string

// Sortable catalog fields.
const (
	SortByTitle     CatalogSortField = "title"
	SortByYear      CatalogSortField = "year"
	SortByGenre     CatalogSortField = "genre"
	SortByRating    CatalogSortField = "rating"
	SortByCreatedAt CatalogSortField = "createdAt"
)

// CatalogQuery filters and orders a catalog listing. Zero-valued filters are ignored.
type CatalogQuery struct {
	Genre      string // exact match
	Year       int    // exact match
	Title      string // case-insensitive substring
	SortBy     CatalogSortField
	Descending bool
}
