package api

import (
	"github.com/listenupapp/catalog-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Sessions  *service.SessionService
	Auth      *service.AuthService
	Users     *service.UserService
	Catalog   *service.CatalogService
	Ratings   *service.RatingService
	SavedList *service.SavedListService
}
