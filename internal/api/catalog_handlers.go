package api

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalog",
		Method:      http.MethodGet,
		Path:        "/catalog",
		Summary:     "List catalog items",
		Description: "Filters, sorts and optionally projects the catalog. Restricted links are only shown to signed-in viewers.",
		Tags:        []string{"Catalog"},
	}, s.handleListCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogItem",
		Method:      http.MethodGet,
		Path:        "/catalog/{id}",
		Summary:     "Get catalog item",
		Description: "Returns a single catalog item",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogItem)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCatalogItem",
		Method:        http.MethodPost,
		Path:          "/catalog",
		Summary:       "Create catalog item",
		Description:   "Adds an item to the catalog (privileged only)",
		Tags:          []string{"Catalog"},
		Security:      []map[string][]string{{"session": {}}},
		DefaultStatus: http.StatusCreated,
		Middlewares:   s.privileged(),
	}, s.handleCreateCatalogItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCatalogItem",
		Method:      http.MethodPut,
		Path:        "/catalog/{id}",
		Summary:     "Update catalog item",
		Description: "Replaces the editable fields of an item (privileged only)",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.privileged(),
	}, s.handleUpdateCatalogItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCatalogItem",
		Method:      http.MethodDelete,
		Path:        "/catalog/{id}",
		Summary:     "Delete catalog item",
		Description: "Removes an item and its ratings (privileged only)",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"session": {}}},
		Middlewares: s.privileged(),
	}, s.handleDeleteCatalogItem)
}

// === DTOs ===

// CatalogItemResponse contains catalog item data in API responses.
type CatalogItemResponse struct {
	ID             string    `json:"id" doc:"Item ID"`
	Title          string    `json:"title" doc:"Title"`
	Genre          string    `json:"genre" doc:"Genre"`
	Year           int       `json:"year" doc:"Release year"`
	Rating         *float64  `json:"rating,omitempty" doc:"Curator rating from 0 to 10"`
	Director       string    `json:"director,omitempty" doc:"Director"`
	Description    string    `json:"description,omitempty" doc:"Description"`
	PosterURL      string    `json:"posterUrl,omitempty" doc:"Poster image URL"`
	TrailerURL     string    `json:"trailerUrl,omitempty" doc:"Trailer URL"`
	RestrictedLink string    `json:"restrictedLink,omitempty" doc:"Link shown only to signed-in viewers"`
	CreatedAt      time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updatedAt" doc:"Last update time"`
}

func toCatalogItemResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:             item.ID,
		Title:          item.Title,
		Genre:          item.Genre,
		Year:           item.Year,
		Rating:         item.Rating,
		Director:       item.Director,
		Description:    item.Description,
		PosterURL:      item.PosterURL,
		TrailerURL:     item.TrailerURL,
		RestrictedLink: item.RestrictedLink,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

func toCatalogItemResponses(items []*domain.CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, len(items))
	for i, item := range items {
		out[i] = toCatalogItemResponse(item)
	}
	return out
}

// catalogFields reads each projectable field. The bool is false when the field is empty.
var catalogFields = map[string]func(CatalogItemResponse) (any, bool){
	"title":          func(r CatalogItemResponse) (any, bool) { return r.Title, true },
	"genre":          func(r CatalogItemResponse) (any, bool) { return r.Genre, true },
	"year":           func(r CatalogItemResponse) (any, bool) { return r.Year, true },
	"rating":         func(r CatalogItemResponse) (any, bool) { return r.Rating, r.Rating != nil },
	"director":       func(r CatalogItemResponse) (any, bool) { return r.Director, r.Director != "" },
	"description":    func(r CatalogItemResponse) (any, bool) { return r.Description, r.Description != "" },
	"posterUrl":      func(r CatalogItemResponse) (any, bool) { return r.PosterURL, r.PosterURL != "" },
	"trailerUrl":     func(r CatalogItemResponse) (any, bool) { return r.TrailerURL, r.TrailerURL != "" },
	"restrictedLink": func(r CatalogItemResponse) (any, bool) { return r.RestrictedLink, r.RestrictedLink != "" },
	"createdAt":      func(r CatalogItemResponse) (any, bool) { return r.CreatedAt, true },
	"updatedAt":      func(r CatalogItemResponse) (any, bool) { return r.UpdatedAt, true },
}

// project keeps only the named fields. The id is always included and unknown names are ignored.
func (r CatalogItemResponse) project(fields []string) map[string]any {
	out := map[string]any{"id": r.ID}
	for _, name := range fields {
		read, ok := catalogFields[name]
		if !ok {
			continue
		}
		if v, present := read(r); present {
			out[name] = v
		}
	}
	return out
}

// parseFields splits a projection list on commas or whitespace.
func parseFields(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ListCatalogInput contains filter, sort and projection parameters.
type ListCatalogInput struct {
	Genre  string `query:"genre" doc:"Exact genre"`
	Year   int    `query:"year" minimum:"0" doc:"Exact release year"`
	Title  string `query:"title" doc:"Case-insensitive title substring"`
	SortBy string `query:"sortBy" enum:"title,year,genre,rating,createdAt" doc:"Sort field (default title)"`
	Order  string `query:"order" enum:"asc,desc" doc:"Sort direction (default asc)"`
	Fields string `query:"fields" doc:"Comma-separated fields to return; id is always included"`
}

// ListCatalogResponse contains a list of catalog items.
// Data holds CatalogItemResponse values, or projected objects when fields was given.
type ListCatalogResponse struct {
	Count int `json:"count" doc:"Number of items"`
	Data  any `json:"data" doc:"Catalog items"`
}

// ListCatalogOutput wraps the list response for Huma.
type ListCatalogOutput struct {
	Body ListCatalogResponse
}

// CatalogItemPathInput identifies a catalog item.
type CatalogItemPathInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// CatalogItemOutput wraps a single item for Huma.
type CatalogItemOutput struct {
	Body CatalogItemResponse
}

// CatalogItemInput wraps a create request for Huma.
type CatalogItemInput struct {
	Body service.CatalogItemRequest
}

// UpdateCatalogItemInput wraps an update request for Huma.
type UpdateCatalogItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body service.CatalogItemRequest
}

// CatalogMutationResponse reports a created or updated item.
type CatalogMutationResponse struct {
	Message string              `json:"message" doc:"Success message"`
	Data    CatalogItemResponse `json:"data" doc:"The stored item"`
}

// CatalogMutationOutput wraps the mutation response for Huma.
type CatalogMutationOutput struct {
	Body CatalogMutationResponse
}

// DeletedResponse reports a removed record.
type DeletedResponse struct {
	Message   string `json:"message" doc:"Success message"`
	DeletedID string `json:"deletedId" doc:"ID of the removed record"`
}

// DeletedOutput wraps the delete response for Huma.
type DeletedOutput struct {
	Body DeletedResponse
}

// === Handlers ===

func (s *Server) handleListCatalog(ctx context.Context, input *ListCatalogInput) (*ListCatalogOutput, error) {
	items, err := s.services.Catalog.List(ctx,
		service.CatalogFilter{
			Genre: input.Genre,
			Year:  input.Year,
			Title: input.Title,
		},
		service.CatalogSort{
			Field:      store.CatalogSortField(input.SortBy),
			Descending: input.Order == "desc",
		},
		identityFrom(ctx),
	)
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	resp := toCatalogItemResponses(items)
	out := &ListCatalogOutput{Body: ListCatalogResponse{Count: len(resp), Data: resp}}

	if fields := parseFields(input.Fields); len(fields) > 0 {
		projected := make([]map[string]any, len(resp))
		for i, r := range resp {
			projected[i] = r.project(fields)
		}
		out.Body.Data = projected
	}

	return out, nil
}

func (s *Server) handleGetCatalogItem(ctx context.Context, input *CatalogItemPathInput) (*CatalogItemOutput, error) {
	if !id.IsUUID(input.ID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	item, err := s.services.Catalog.Get(ctx, input.ID, identityFrom(ctx))
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &CatalogItemOutput{Body: toCatalogItemResponse(item)}, nil
}

func (s *Server) handleCreateCatalogItem(ctx context.Context, input *CatalogItemInput) (*CatalogMutationOutput, error) {
	item, err := s.services.Catalog.Create(ctx, identityFrom(ctx), input.Body)
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &CatalogMutationOutput{Body: CatalogMutationResponse{
		Message: "Item created successfully",
		Data:    toCatalogItemResponse(item),
	}}, nil
}

func (s *Server) handleUpdateCatalogItem(ctx context.Context, input *UpdateCatalogItemInput) (*CatalogMutationOutput, error) {
	if !id.IsUUID(input.ID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	item, err := s.services.Catalog.Update(ctx, identityFrom(ctx), input.ID, input.Body)
	if err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &CatalogMutationOutput{Body: CatalogMutationResponse{
		Message: "Item updated successfully",
		Data:    toCatalogItemResponse(item),
	}}, nil
}

func (s *Server) handleDeleteCatalogItem(ctx context.Context, input *CatalogItemPathInput) (*DeletedOutput, error) {
	if !id.IsUUID(input.ID) {
		return nil, newAPIError(http.StatusBadRequest, msgInvalidID)
	}

	if err := s.services.Catalog.Delete(ctx, identityFrom(ctx), input.ID); err != nil {
		return nil, s.toAPIError(ctx, err)
	}

	return &DeletedOutput{Body: DeletedResponse{
		Message:   "Item deleted successfully",
		DeletedID: input.ID,
	}}, nil
}
