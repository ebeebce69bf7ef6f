package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gamelog/internal/logquery"
)

// RetentionJob deletes records older than MaxAge. A zero MaxAge disables it.
type RetentionJob struct {
	Logs   *LogService
	MaxAge time.Duration
	Logger *zap.Logger
}

func (j *RetentionJob) Enabled() bool {
	return j != nil && j.Logs != nil && j.MaxAge > 0
}

// Run is the cron entry point.
func (j *RetentionJob) Run(ctx context.Context) {
	n, err := j.RunOnce(ctx)
	if j.Logger == nil {
		return
	}
	if err != nil {
		j.Logger.Warn("retention sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.Logger.Info("retention sweep", zap.Int64("deleted", n), zap.Duration("max_age", j.MaxAge))
	}
}

func (j *RetentionJob) RunOnce(ctx context.Context) (int64, error) {
	if !j.Enabled() {
		return 0, nil
	}
	cutoff := j.Logs.now().Add(-j.MaxAge).UTC()
	return j.Logs.Delete(ctx, logquery.Filter{Before: &cutoff}, false)
}
