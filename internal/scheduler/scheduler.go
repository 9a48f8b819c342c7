package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/backup"
	"github.com/salontid/salontid-api/internal/monitoring"
)

// Scheduler owns the recurring jobs. Cron expressions are evaluated in
// Europe/Oslo so "nightly" means nightly for the salons, not for UTC.
type Scheduler struct {
	cron    *cron.Cron
	tokens  *auth.RefreshTokenService
	backups *backup.Service
	status  *monitoring.StatusService
	alerter *monitoring.Alerter
	log     *zap.Logger
}

func New(
	tokens *auth.RefreshTokenService,
	backups *backup.Service,
	status *monitoring.StatusService,
	alerter *monitoring.Alerter,
	log *zap.Logger,
) *Scheduler {
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		tokens:  tokens,
		backups: backups,
		status:  status,
		alerter: alerter,
		log:     log,
	}
}

func (s *Scheduler) Start() {
	// Daily at 03:00: purge expired refresh tokens.
	s.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.tokens.CleanupExpiredTokens(ctx); err != nil {
			s.log.Error("token cleanup failed", zap.Error(err))
		}
	})

	// Nightly at 02:00: tenant backups to S3.
	s.cron.AddFunc("0 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		s.backups.BackupAll(ctx)
	})

	// Every 5 minutes: ping the backing services, alert on failure. The
	// alerter's redis cooldown keeps a flapping database from paging every
	// run.
	s.cron.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		st, err := s.status.Snapshot(ctx)
		if err != nil {
			return
		}
		if st.Database != "ok" {
			s.alerter.Alert(ctx, "database_down", "critical", "Database ping failed")
		}
		if st.Redis != "ok" {
			s.alerter.Alert(ctx, "redis_down", "warning", "Redis ping failed")
		}
	})

	s.cron.Start()
	s.log.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
