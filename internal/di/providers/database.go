package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store under the data path.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.Path, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// Bootstrap reports what startup provisioning did.
type Bootstrap struct {
	// AdminCreated is true when the configured privileged account was created on this start.
	AdminCreated bool
}

// ProvideBootstrap ensures the configured privileged account exists.
// Without ADMIN_EMAIL the server starts with whatever accounts the database already holds.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Bootstrap.Enabled() {
		log.Info("No bootstrap account configured")
		return &Bootstrap{}, nil
	}

	authService := do.MustInvoke[*service.AuthService](i)

	created, err := authService.EnsurePrivilegedUser(context.Background(),
		cfg.Bootstrap.AdminEmail,
		cfg.Bootstrap.AdminPassword,
		cfg.Bootstrap.AdminName,
	)
	if err != nil {
		return nil, err
	}

	log.Info("Bootstrap account ready", "email", cfg.Bootstrap.AdminEmail, "created", created)

	return &Bootstrap{AdminCreated: created}, nil
}
