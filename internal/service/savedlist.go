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
	"github.com/listenupapp/catalog-server/internal/store"
)

// SavedListService manages each user's personal list of saved items.
type SavedListService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSavedListService creates a new saved-list service.
func NewSavedListService(store store.Store, logger *slog.Logger) *SavedListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavedListService{store: store, logger: logger}
}

// Add puts an existing item on actor's list. Adding it twice is a conflict.
func (s *SavedListService) Add(ctx context.Context, actor domain.Identity, itemID string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domainerrors.ValidationField("itemId", "Item ID is required")
	}

	if _, err := s.store.GetCatalogItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(MsgItemNotFound)
		}
		return fmt.Errorf("get catalog item: %w", err)
	}

	entry := &domain.SavedListEntry{
		UserID:  actor.UserID,
		ItemID:  itemID,
		AddedAt: time.Now().UTC(),
	}
	if err := s.store.AddSavedListEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict(MsgAlreadySaved)
		}
		return fmt.Errorf("add saved list entry: %w", err)
	}

	return nil
}

// Remove takes an item off actor's list. Removing an absent item is NotFound.
func (s *SavedListService) Remove(ctx context.Context, actor domain.Identity, itemID string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	if err := s.store.RemoveSavedListEntry(ctx, actor.UserID, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(MsgNotSaved)
		}
		return fmt.Errorf("remove saved list entry: %w", err)
	}
	return nil
}

// ListItems returns the items on actor's list, most recently saved first.
// Entries whose item has since been deleted are skipped.
func (s *SavedListService) ListItems(ctx context.Context, actor domain.Identity) ([]*domain.CatalogItem, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	entries, err := s.store.ListSavedListEntries(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list saved list entries: %w", err)
	}
	if len(entries) == 0 {
		return []*domain.CatalogItem{}, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ItemID
	}

	items, err := s.store.GetCatalogItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get saved items: %w", err)
	}
	if dropped := len(entries) - len(items); dropped > 0 {
		s.logger.Debug("skipped saved entries for deleted items", "user_id", actor.UserID, "count", dropped)
	}

	return forViewer(items, actor), nil
}
