package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetentionJobName is the name of the activity log retention job
const RetentionJobName = "activity_log_retention"

// LogPruner defines the store operation the retention job needs, so the job
// does not import the store package directly.
type LogPruner interface {
	PruneActivityLogs(ctx context.Context, keep int) (int64, error)
}

// RetentionJob trims the activity log to its most recent entries. Listing is
// already capped, so pruned rows were invisible; the job keeps the table
// from growing without bound.
type RetentionJob struct {
	pruner LogPruner
	keep   int
	logger *zap.Logger
}

func NewRetentionJob(pruner LogPruner, keep int, logger *zap.Logger) *RetentionJob {
	return &RetentionJob{
		pruner: pruner,
		keep:   keep,
		logger: logger,
	}
}

// Run executes one retention pass. Called by the scheduler.
func (j *RetentionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	pruned, err := j.pruner.PruneActivityLogs(ctx, j.keep)
	if err != nil {
		j.logger.Error("activity log retention failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("activity log retention completed",
		zap.Int64("pruned", pruned),
		zap.Int("kept", j.keep),
		zap.Duration("duration", time.Since(start)))
}
