// Package di provides dependency injection configuration for the catalog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/di/providers"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/metrics"
	"github.com/listenupapp/catalog-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Auth primitives
	do.Provide(injector, providers.ProvideSessionKey)
	do.Provide(injector, providers.ProvideSessionSealer)
	do.Provide(injector, providers.ProvidePasswordHasher)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideRatingService)
	do.Provide(injector, providers.ProvideSavedListService)
	do.Provide(injector, providers.ProvideBootstrap)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideAuthRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[*metrics.Metrics](injector),
		invoke[*auth.SessionSealer](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*service.SessionService](injector),
		invoke[*service.AuthService](injector),
		invoke[*providers.Bootstrap](injector),
		invoke[*providers.SessionCleanupJob](injector),
		invoke[*providers.HTTPServerHandle](injector),
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
