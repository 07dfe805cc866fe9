package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/id"
)

func (s *Server) registerSavedListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSavedItems",
		Method:      http.MethodGet,
		Path:        "/saved-list",
		Summary:     "List saved items",
		Description: "Returns the caller's saved items, most recently saved first",
		Tags:        []string{"Saved list"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.authenticated(),
	}, s.handleListSavedItems)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addSavedItem",
		Method:        http.MethodPost,
		Path:          "/saved-list",
		Summary:       "Save item",
		Description:   "Adds an item to the caller's saved list",
		Tags:          []string{"Saved list"},
		Security:      []map[string][]string{{"session": {}}},
		DefaultStatus: http.StatusCreated,
		Middlewares:   s.authenticated(),
	}, s.handleAddSavedItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeSavedItem",
		Method:      http.MethodDelete,
		Path:        "/saved-list/{itemId}",
		Summary:     "Remove saved item",
		Description: "Removes an item from the caller's saved list",
		Tags:        []string{"Saved list"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.authenticated(),
	}, s.handleRemoveSavedItem)
}

// === DTOs ===

// SavedItemsResponse contains the caller's saved items.
type SavedItemsResponse struct {
	Count int                   `json:"count" doc:"Number of saved items"`
	Data  []CatalogItemResponse `json:"data" doc:"Saved items"`
}

// SavedItemsOutput wraps the saved items for Huma.
type SavedItemsOutput struct {
	Body SavedItemsResponse
}

// AddSavedItemRequest is the request body for saving an item.
type AddSavedItemRequest struct {
	ItemID string `json:"itemId,omitempty" doc:"Item to save"`
}

// AddSavedItemInput wraps the add request for Huma.
type AddSavedItemInput struct {
	Body AddSavedItemRequest
}

// SavedItemPathInput identifies a saved item.
type SavedItemPathInput struct {
	ItemID string `path:"itemId" doc:"Item ID"`
}

// === Handlers ===

func (s *Server) handleListSavedItems(ctx context.Context, _ *struct{}) (*SavedItemsOutput, error) {
	items, err := s.services.SavedList.ListItems(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	resp := toCatalogItemResponses(items)
	return &SavedItemsOutput{Body: SavedItemsResponse{Count: len(resp), Data: resp}}, nil
}

func (s *Server) handleAddSavedItem(ctx context.Context, input *AddSavedItemInput) (*MessageOutput, error) {
	if !validItemRef(input.Body.ItemID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	if err := s.services.SavedList.Add(ctx, identityFrom(ctx), input.Body.ItemID); err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &MessageOutput{Body: MessageResponse{Message: "Added to saved list"}}, nil
}

func (s *Server) handleRemoveSavedItem(ctx context.Context, input *SavedItemPathInput) (*MessageOutput, error) {
	if !id.IsUUID(input.ItemID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	if err := s.services.SavedList.Remove(ctx, identityFrom(ctx), input.ItemID); err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &MessageOutput{Body: MessageResponse{Message: "Removed from saved list"}}, nil
}

// validItemRef reports whether a body itemId is absent or a well-formed item ID.
// An absent ID is left to the service, which reports it as a field error.
func validItemRef(itemID string) bool {
	itemID = strings.TrimSpace(itemID)
	return itemID == "" || id.IsUUID(itemID)
}
