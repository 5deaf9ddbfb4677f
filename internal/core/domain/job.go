package domain

import "time"

// Stage is a step in the ingestion pipeline state machine.
// Stages advance in a single direction; there are no cycles.
type Stage string

const (
	// StageQueued means the job is waiting for a worker.
	StageQueued Stage = "queued"

	// StageNormalizing means raw bytes are being converted to text.
	StageNormalizing Stage = "normalizing"

	// StageSampling means a representative sample is being built.
	StageSampling Stage = "sampling"

	// StageExtractingConcepts means the LLM capability is being consulted.
	StageExtractingConcepts Stage = "extracting_concepts"

	// StageClustering means the document is being assigned to a cluster.
	StageClustering Stage = "clustering"

	// StageIndexing means the document is being added to the search index.
	StageIndexing Stage = "indexing"

	// StageChunking means the document is being split into chunks.
	StageChunking Stage = "chunking"

	// StageSummarizing means a summary is being generated.
	StageSummarizing Stage = "summarizing"

	// StageComplete is the successful terminal stage.
	StageComplete Stage = "complete"

	// StageDegradedComplete is the terminal stage reached when concept
	// extraction was unavailable but ingestion still finished.
	StageDegradedComplete Stage = "degraded_complete"

	// StageFailed is the terminal failure stage.
	StageFailed Stage = "failed"
)

// Terminal reports whether the stage ends the pipeline.
func (s Stage) Terminal() bool {
	switch s {
	case StageComplete, StageDegradedComplete, StageFailed:
		return true
	default:
		return false
	}
}

// IngestionJob tracks one ingestion attempt for one document.
// A job is never reused: retrying the same content creates a new job.
type IngestionJob struct {
	// ID is the unique job identifier.
	ID string

	// DocumentID links to the Document being ingested.
	DocumentID string

	// OwnerID identifies the owning account.
	OwnerID string

	// Stage is the latest committed pipeline stage.
	Stage Stage

	// Progress is the percent complete (0-100). It never decreases
	// while the job is active.
	Progress int

	// Message is a human-readable status line for pollers.
	Message string

	// Error holds the failure reason when Stage is StageFailed.
	Error string

	// CreatedAt is when the job was accepted.
	CreatedAt time.Time

	// UpdatedAt is when the job last changed stage or progress.
	UpdatedAt time.Time
}
