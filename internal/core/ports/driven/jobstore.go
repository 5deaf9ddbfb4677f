package driven

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// JobStore persists ingestion jobs. Stage transitions are committed
// here so that external pollers always see the latest state.
type JobStore interface {
	// SaveJob stores or updates a job.
	SaveJob(ctx context.Context, job *domain.IngestionJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, id string) (*domain.IngestionJob, error)

	// ListJobs returns all jobs for an owner, newest first.
	ListJobs(ctx context.Context, ownerID string) ([]domain.IngestionJob, error)
}
