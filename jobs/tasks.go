package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTokenPurge deletes expired refresh token records.
	TaskTokenPurge = "auth:token_purge"
)

// NewTokenPurgeTask constructs the purge task. It carries no payload; the
// cutoff is always "now" at execution time.
func NewTokenPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskTokenPurge, nil)
}
