package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/metrics"
	"github.com/listenupapp/catalog-server/internal/service"
)

// sessionPurger removes expired sessions and reports how many went.
type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable. It waits for an in-flight purge to finish.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	job := startSessionCleanup(sessions, cfg.Session.CleanupInterval, m, log.Logger)

	log.Info("Session cleanup job started", "interval", cfg.Session.CleanupInterval)

	return job, nil
}

// startSessionCleanup purges once immediately, then on every tick until shut down.
func startSessionCleanup(purger sessionPurger, interval time.Duration, m *metrics.Metrics, log *slog.Logger) *SessionCleanupJob {
	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	purge := func() {
		count, err := purger.PurgeExpired(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("Session cleanup failed", "error", err)
			}
			return
		}
		if count > 0 {
			m.SessionsPurged(count)
			log.Info("Session cleanup completed", "deleted", count)
		}
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		purge()

		for {
			select {
			case <-ticker.C:
				purge()
			case <-ctx.Done():
				return
			}
		}
	}()

	return job
}
