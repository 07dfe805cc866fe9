package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
)

// SessionKey wraps the symmetric key that seals session cookies.
type SessionKey []byte

// ProvideSessionKey loads or generates the session key under the data path.
func ProvideSessionKey(i do.Injector) (SessionKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.Path)
	if err != nil {
		return nil, err
	}

	log.Info("Session key loaded",
		"session_duration", cfg.Session.Duration,
		"cookie_name", cfg.Session.CookieName,
		"cookie_secure", cfg.Session.CookieSecure,
	)

	return SessionKey(key), nil
}

// ProvideSessionSealer provides the PASETO sealer for session cookies.
func ProvideSessionSealer(i do.Injector) (*auth.SessionSealer, error) {
	key := do.MustInvoke[SessionKey](i)
	return auth.NewSessionSealer(key)
}

// ProvidePasswordHasher provides the Argon2id password hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultHashParams), nil
}
