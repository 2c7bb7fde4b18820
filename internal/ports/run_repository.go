package ports

import (
	"context"
	"courier-route-service/internal/domain"
	"time"
)

// Port: a boundary for recording routing runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.RunRecord) error
	// Return the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
	// Delete runs created before the cutoff and report how many were removed.
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
}
