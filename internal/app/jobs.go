package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mood-space/core/internal/pkg/cron"
	sessionpkg "github.com/mood-space/core/internal/pkg/session"
)

const (
	jobPurgeSessions = "purge-sessions"
	jobSweepVisits   = "sweep-visits"

	// Revoked and expired sessions are kept this long for audit.
	sessionRetention = 7 * 24 * time.Hour
)

func (a *App) registerJobs() {
	a.jobs.Register(cron.Job{
		Name:     jobPurgeSessions,
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.Purge(ctx, a.db, time.Now().Add(-sessionRetention))
			if err == nil && n > 0 {
				a.logger.Info("purged sessions", zap.Int64("count", n))
			}
			return err
		},
	})
	a.jobs.Register(cron.Job{
		Name:     jobSweepVisits,
		Interval: 30 * time.Minute,
		Fn: func(context.Context) error {
			if n := a.web.SweepVisits(); n > 0 {
				a.logger.Debug("swept idle visits", zap.Int("count", n))
			}
			return nil
		},
	})
}
