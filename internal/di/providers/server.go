package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/api"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/metrics"
	"github.com/listenupapp/catalog-server/internal/ratelimit"
	"github.com/listenupapp/catalog-server/internal/service"
)

// ProvideMetrics provides the Prometheus collectors.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}

// RateLimiterHandle wraps the credential endpoint limiter with Shutdownable.
// Limiter is nil when rate limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideAuthRateLimiter provides the per-IP limiter for register and login.
func ProvideAuthRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.PerMinute == 0 {
		log.Warn("Auth rate limiting disabled")
		return &RateLimiterHandle{}, nil
	}

	rps := float64(cfg.RateLimit.PerMinute) / 60
	limiter := ratelimit.New(rps, cfg.RateLimit.Burst, 10*time.Minute)

	log.Info("Auth rate limiting enabled",
		"per_minute", cfg.RateLimit.PerMinute,
		"burst", cfg.RateLimit.Burst,
	)

	return &RateLimiterHandle{Limiter: limiter}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	listener net.Listener
}

// ListenAddr returns the address the server is listening on.
func (h *HTTPServerHandle) ListenAddr() net.Addr {
	return h.listener.Addr()
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server. The port is bound before returning
// so that address conflicts fail the bootstrap.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Sessions:  do.MustInvoke[*service.SessionService](i),
		Auth:      do.MustInvoke[*service.AuthService](i),
		Users:     do.MustInvoke[*service.UserService](i),
		Catalog:   do.MustInvoke[*service.CatalogService](i),
		Ratings:   do.MustInvoke[*service.RatingService](i),
		SavedList: do.MustInvoke[*service.SavedListService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, m, api.Options{
		CookieName:         cfg.Session.CookieName,
		CookieSecure:       cfg.Session.CookieSecure,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AuthRateLimiter:    limiter.Limiter,
	}, log.Logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	// Serve in background
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", ln.Addr().String())

	return &HTTPServerHandle{Server: srv, listener: ln}, nil
}
