package driving

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// Upload is one document payload submitted for ingestion.
type Upload struct {
	// OwnerID identifies the owning account.
	OwnerID string

	// SourceKind is the origin of the payload.
	SourceKind domain.SourceKind

	// Filename is the original file name, used for format dispatch.
	Filename string

	// URI is the original location when known.
	URI string

	// Content is the raw payload bytes.
	Content []byte
}

// JobStatus is the poller-visible view of an ingestion job.
type JobStatus struct {
	// JobID identifies the job.
	JobID string

	// DocumentID identifies the document being ingested.
	DocumentID string

	// Stage is the latest committed pipeline stage.
	Stage domain.Stage

	// Progress is the percent complete (0-100).
	Progress int

	// Message is a human-readable status line.
	Message string

	// Error holds the failure reason for failed jobs.
	Error string
}

// IngestOrchestrator drives documents through the ingestion pipeline.
type IngestOrchestrator interface {
	// Submit accepts a payload and returns a fresh job ID. Every call
	// creates a new Document and a new job, even for byte-identical
	// content.
	Submit(ctx context.Context, upload Upload) (string, error)

	// Status reports the latest committed state of a job.
	Status(ctx context.Context, jobID string) (*JobStatus, error)

	// Cancel requests cooperative cancellation of a job. The job stops
	// at the next stage boundary; mid-stage work is not preempted.
	Cancel(ctx context.Context, jobID string) error

	// DeleteDocument removes a document, its index entry and its
	// cluster membership, cascading the cluster when it empties.
	DeleteDocument(ctx context.Context, docID string) error

	// Start launches the worker pool. It returns immediately.
	Start(ctx context.Context)

	// Wait blocks until all submitted jobs have reached a terminal
	// stage and the queue is drained.
	Wait()

	// Stop shuts down the worker pool after in-flight jobs finish.
	Stop()
}
