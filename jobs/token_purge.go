package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/readgate/readgate/internal/jobs"
)

// TokenPurger removes expired refresh token records.
type TokenPurger interface {
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenPurgeJob deletes refresh tokens past their expiry. Expired tokens
// already fail redemption; the purge only keeps the table from accreting.
type TokenPurgeJob struct {
	purger  TokenPurger
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewTokenPurgeJob constructs the job. Metrics may be nil.
func NewTokenPurgeJob(purger TokenPurger, logger *slog.Logger, metrics *jobmetrics.Metrics) *TokenPurgeJob {
	return &TokenPurgeJob{purger: purger, logger: logger, metrics: metrics}
}

// Handle processes TaskTokenPurge tasks.
func (j *TokenPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskTokenPurge)
	deleted, err := j.purger.DeleteExpiredRefreshTokens(ctx, time.Now().UTC())
	if err != nil {
		if j.logger != nil {
			j.logger.Error("token purge", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	j.metrics.AddTokensPurged(deleted)
	if j.logger != nil && deleted > 0 {
		j.logger.Info("token purge", slog.Int64("deleted", deleted))
	}
	return tracker.End(nil)
}
