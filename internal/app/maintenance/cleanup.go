package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/services"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/logger"
)

const (
	defaultRetentionDays = 90
	defaultRetentionSpec = "@daily"
)

// Cleaner runs background maintenance tasks, currently limited to enforcing
// the notification retention window.
type Cleaner struct {
	notifications *services.NotificationService
	cron          *cron.Cron
	log           *zap.Logger
	retention     int

	retentionSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithRetentionDays adjusts how long read notifications are kept before cleanup.
func WithRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithRetentionSchedule overrides the cron specification for retention enforcement.
func WithRetentionSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.retentionSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil notification
// service results in the retention job being skipped.
func NewCleaner(notifications *services.NotificationService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		notifications:     notifications,
		retention:         defaultRetentionDays,
		retentionSchedule: defaultRetentionSpec,
		log:               logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.notifications == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.retentionSchedule, func() {
		ctx := context.Background()
		removed, err := c.notifications.PurgeOlderThan(ctx, c.retention)
		if err != nil {
			c.log.Warn("notification retention cleanup failed", zap.Error(err))
			return
		}
		if removed > 0 {
			c.log.Info("purged old notifications", zap.Int64("removed", removed))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially. Primarily used
// in tests and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.notifications != nil && c.retention > 0 {
		if _, err := c.notifications.PurgeOlderThan(ctx, c.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
