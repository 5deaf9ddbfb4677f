package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestJobStore_SaveAndGet(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()

	job := &domain.IngestionJob{
		ID:         "job-1",
		DocumentID: "doc-1",
		OwnerID:    "owner-1",
		Stage:      domain.StageQueued,
	}
	require.NoError(t, s.SaveJob(ctx, job))

	got, err := s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageQueued, got.Stage)
	assert.Equal(t, "doc-1", got.DocumentID)
}

func TestJobStore_GetMissing(t *testing.T) {
	s := NewJobStore()

	_, err := s.GetJob(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobStore_SaveUpdatesExisting(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()

	job := &domain.IngestionJob{ID: "job-1", OwnerID: "owner-1", Stage: domain.StageQueued}
	require.NoError(t, s.SaveJob(ctx, job))

	job.Stage = domain.StageComplete
	job.Progress = 100
	require.NoError(t, s.SaveJob(ctx, job))

	got, err := s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageComplete, got.Stage)
	assert.Equal(t, 100, got.Progress)
}

func TestJobStore_ListNewestFirstScopedToOwner(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, s.SaveJob(ctx, &domain.IngestionJob{ID: "job-old", OwnerID: "owner-1", CreatedAt: base.Add(-time.Minute)}))
	require.NoError(t, s.SaveJob(ctx, &domain.IngestionJob{ID: "job-new", OwnerID: "owner-1", CreatedAt: base}))
	require.NoError(t, s.SaveJob(ctx, &domain.IngestionJob{ID: "job-other", OwnerID: "owner-2", CreatedAt: base}))

	jobs, err := s.ListJobs(ctx, "owner-1")

	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-new", jobs[0].ID)
	assert.Equal(t, "job-old", jobs[1].ID)
}
