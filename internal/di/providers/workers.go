package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/surftober/surftober-server/internal/logger"
)

// AuthSessionSweepJob runs periodic cleanup of expired refresh sessions.
type AuthSessionSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *AuthSessionSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideAuthSessionSweepJob provides the periodic refresh session sweep.
func ProvideAuthSessionSweepJob(i do.Injector) (*AuthSessionSweepJob, error) {
	authHandle := do.MustInvoke[*AuthServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial sweep on startup
		if err := authHandle.SweepExpiredSessions(ctx); err != nil {
			log.Warn("Initial auth session sweep failed", "error", err)
		}

		for {
			select {
			case <-ticker.C:
				if err := authHandle.SweepExpiredSessions(ctx); err != nil {
					log.Warn("Auth session sweep failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Auth session sweep job started")

	return &AuthSessionSweepJob{cancel: cancel}, nil
}
