package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driving"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/textenc"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// DefaultWorkers is the default ingestion worker pool size.
const DefaultWorkers = 4

// summaryMaxWords bounds the generated document summary.
const summaryMaxWords = 60

// queueCapacity bounds how many submitted jobs can wait for a worker.
const queueCapacity = 256

// stageProgress maps each pipeline stage to its progress percent.
// A job's reported progress never decreases while it is active.
var stageProgress = map[domain.Stage]int{
	domain.StageQueued:             0,
	domain.StageNormalizing:        10,
	domain.StageSampling:           25,
	domain.StageExtractingConcepts: 40,
	domain.StageClustering:         60,
	domain.StageIndexing:           75,
	domain.StageChunking:           85,
	domain.StageSummarizing:        95,
	domain.StageComplete:           100,
	domain.StageDegradedComplete:   100,
}

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// ingestTask is one unit of work for the pool.
type ingestTask struct {
	jobID  string
	upload driving.Upload
}

// IngestService drives documents through the ingestion pipeline:
// normalise, sample, extract concepts, cluster, index, chunk,
// summarise. Each stage commits its result before the next begins, so
// pollers always observe a consistent prefix of the pipeline.
type IngestService struct {
	registry   driven.ExtractorRegistry
	extraction *ExtractionService
	clustering *ClusteringService
	index      driven.SearchIndex
	pipeline   driven.PostProcessorPipeline
	docStore   driven.DocumentStore
	jobStore   driven.JobStore

	workers int

	queue     chan ingestTask
	pending   sync.WaitGroup
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once

	mu        sync.Mutex
	cancelled map[string]struct{}
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewIngestService creates an ingestion orchestrator. The pipeline is
// optional; pass nil to skip the chunking stage.
func NewIngestService(
	registry driven.ExtractorRegistry,
	extraction *ExtractionService,
	clustering *ClusteringService,
	index driven.SearchIndex,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	jobStore driven.JobStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		registry:   registry,
		extraction: extraction,
		clustering: clustering,
		index:      index,
		pipeline:   pipeline,
		docStore:   docStore,
		jobStore:   jobStore,
		workers:    DefaultWorkers,
		queue:      make(chan ingestTask, queueCapacity),
		cancelled:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit accepts a payload and returns a fresh job ID. Every call
// creates a new Document and a new job, even for byte-identical
// content.
func (s *IngestService) Submit(ctx context.Context, upload driving.Upload) (string, error) {
	if len(upload.Content) == 0 {
		return "", fmt.Errorf("submit: %w", domain.ErrInvalidInput)
	}
	if upload.OwnerID == "" {
		return "", fmt.Errorf("submit: owner required: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		OwnerID:    upload.OwnerID,
		SourceKind: upload.SourceKind,
		URI:        upload.URI,
		Title:      upload.Filename,
		SizeBytes:  int64(len(upload.Content)),
		SkillLevel: domain.SkillUnknown,
		Stage:      domain.StageQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	job := &domain.IngestionJob{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		OwnerID:    upload.OwnerID,
		Stage:      domain.StageQueued,
		Message:    "queued",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		return "", fmt.Errorf("save job: %w", err)
	}

	s.pending.Add(1)
	select {
	case s.queue <- ingestTask{jobID: job.ID, upload: upload}:
	case <-ctx.Done():
		s.pending.Done()
		return "", ctx.Err()
	}

	logger.Debug("Queued job %s for document %s", job.ID, doc.ID)
	return job.ID, nil
}

// Status reports the latest committed state of a job.
func (s *IngestService) Status(ctx context.Context, jobID string) (*driving.JobStatus, error) {
	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &driving.JobStatus{
		JobID:      job.ID,
		DocumentID: job.DocumentID,
		Stage:      job.Stage,
		Progress:   job.Progress,
		Message:    job.Message,
		Error:      job.Error,
	}, nil
}

// Cancel requests cooperative cancellation. The job stops at the next
// stage boundary; cancelling a terminal job is a no-op.
func (s *IngestService) Cancel(ctx context.Context, jobID string) error {
	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job.Stage.Terminal() {
		return nil
	}

	s.mu.Lock()
	s.cancelled[jobID] = struct{}{}
	s.mu.Unlock()
	logger.Info("Cancellation requested for job %s", jobID)
	return nil
}

// DeleteDocument removes a document, its index entry and its cluster
// membership, cascading the cluster when it empties.
func (s *IngestService) DeleteDocument(ctx context.Context, docID string) error {
	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := s.index.Remove(ctx, docID); err != nil {
		return fmt.Errorf("remove from index: %w", err)
	}

	if doc.ClusterID != nil {
		if err := s.removeFromCluster(ctx, doc); err != nil {
			return err
		}
	}

	if err := s.docStore.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	logger.Info("Deleted document %s", docID)
	return nil
}

// Start launches the worker pool. It returns immediately.
func (s *IngestService) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				for task := range s.queue {
					s.process(ctx, task)
				}
			}()
		}
		logger.Debug("Started %d ingestion workers", s.workers)
	})
}

// Wait blocks until all submitted jobs have reached a terminal stage.
func (s *IngestService) Wait() {
	s.pending.Wait()
}

// Stop shuts down the worker pool after in-flight jobs finish.
func (s *IngestService) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

// process runs one job through the pipeline and commits its terminal
// stage.
func (s *IngestService) process(ctx context.Context, task ingestTask) {
	defer s.pending.Done()

	job, err := s.jobStore.GetJob(ctx, task.jobID)
	if err != nil {
		logger.Warn("Job %s vanished before processing: %v", task.jobID, err)
		return
	}
	doc, err := s.docStore.GetDocument(ctx, job.DocumentID)
	if err != nil {
		s.fail(ctx, job, nil, fmt.Errorf("get document: %w", err))
		return
	}

	if err := s.run(ctx, job, doc, task.upload); err != nil {
		s.fail(ctx, job, doc, err)
	}
}

// run executes the pipeline stages in order. Concept extraction
// failures degrade rather than fail; chunking and summarising are
// best effort once the document is indexed.
//
//nolint:gocyclo // Pipeline orchestration with necessary sequential steps
func (s *IngestService) run(
	ctx context.Context,
	job *domain.IngestionJob,
	doc *domain.Document,
	upload driving.Upload,
) error {
	// 1. NORMALISE
	if err := s.advance(ctx, job, doc, domain.StageNormalizing, "extracting text"); err != nil {
		return err
	}
	if err := s.normalise(ctx, doc, upload); err != nil {
		return fmt.Errorf("normalise: %w", err)
	}

	// 2. SAMPLE
	if err := s.advance(ctx, job, doc, domain.StageSampling, "sampling content"); err != nil {
		return err
	}

	// 3. EXTRACT CONCEPTS (degrades on failure)
	if err := s.advance(ctx, job, doc, domain.StageExtractingConcepts, "extracting concepts"); err != nil {
		return err
	}
	degraded := false
	result, err := s.extraction.Extract(ctx, doc.Content, doc.SourceKind)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Warn("Concept extraction degraded for document %s: %v", doc.ID, err)
		degraded = true
		result = domain.EmptyExtraction()
	}
	s.applyExtraction(doc, result)

	// 4. CLUSTER
	if err := s.advance(ctx, job, doc, domain.StageClustering, "assigning cluster"); err != nil {
		return err
	}
	cluster, err := s.clustering.Assign(ctx, doc, result.SuggestedClusterName)
	if err != nil {
		return fmt.Errorf("assign cluster: %w", err)
	}
	doc.ClusterID = &cluster.ID

	// 5. INDEX
	if err := s.advance(ctx, job, doc, domain.StageIndexing, "indexing"); err != nil {
		return err
	}
	if err := s.index.Add(ctx, doc.ID, doc.Content); err != nil {
		return s.unwind(ctx, doc, fmt.Errorf("index document: %w", err))
	}

	// 6. CHUNK (best effort)
	if s.pipeline != nil {
		if err := s.advance(ctx, job, doc, domain.StageChunking, "chunking"); err != nil {
			return s.unwind(ctx, doc, err)
		}
		chunks, err := s.pipeline.Process(ctx, doc)
		if err != nil {
			logger.Warn("Chunking failed for document %s: %v", doc.ID, err)
		} else if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
			logger.Warn("Saving chunks failed for document %s: %v", doc.ID, err)
		}
	}

	// 7. SUMMARISE (best effort, skipped when extraction degraded)
	if !degraded {
		if err := s.advance(ctx, job, doc, domain.StageSummarizing, "summarising"); err != nil {
			return s.unwind(ctx, doc, err)
		}
		summary, err := s.extraction.Summarise(ctx, doc.Content, summaryMaxWords)
		if err != nil {
			logger.Warn("Summarising failed for document %s: %v", doc.ID, err)
		} else if summary != "" {
			if doc.Metadata == nil {
				doc.Metadata = make(map[string]any)
			}
			doc.Metadata["summary"] = summary
		}
	}

	// 8. COMPLETE
	final := domain.StageComplete
	message := "complete"
	if degraded {
		final = domain.StageDegradedComplete
		message = "complete without concept extraction"
	}
	if err := s.advance(ctx, job, doc, final, message); err != nil {
		return s.unwind(ctx, doc, err)
	}

	logger.Info("Ingested document %s (%s)", doc.ID, final)
	return nil
}

// normalise converts the payload to plain text on the document.
// Uploads with a filename go through the extractor registry; bare text
// payloads are decoded directly.
func (s *IngestService) normalise(ctx context.Context, doc *domain.Document, upload driving.Upload) error {
	if upload.Filename == "" {
		doc.Content = textenc.Decode(upload.Content)
		if doc.Title == "" {
			doc.Title = firstLine(doc.Content)
		}
		return nil
	}

	result, err := s.registry.Extract(ctx, upload.Filename, upload.Content)
	if err != nil {
		return err
	}

	doc.Content = result.Text
	if result.Title != "" {
		doc.Title = result.Title
	}
	if len(result.Metadata) > 0 {
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any)
		}
		for k, v := range result.Metadata {
			doc.Metadata[k] = v
		}
	}
	return nil
}

// applyExtraction copies the extraction result onto the document.
func (s *IngestService) applyExtraction(doc *domain.Document, result *domain.ExtractionResult) {
	doc.Concepts = result.Concepts
	doc.SkillLevel = result.SkillLevel
	doc.PrimaryTopic = result.PrimaryTopic

	if result.Video != nil {
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any)
		}
		doc.Metadata["video"] = result.Video
		if doc.Title == "" || doc.Title == firstLine(doc.Content) {
			if result.Video.Title != "" {
				doc.Title = result.Video.Title
			}
		}
	}
}

// advance commits a stage transition for the job and document. It
// returns domain.ErrJobCancelled when cancellation was requested,
// which stops the pipeline at this boundary.
func (s *IngestService) advance(
	ctx context.Context,
	job *domain.IngestionJob,
	doc *domain.Document,
	stage domain.Stage,
	message string,
) error {
	if s.isCancelled(job.ID) {
		return domain.ErrJobCancelled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	job.Stage = stage
	job.Message = message
	if p, ok := stageProgress[stage]; ok && p > job.Progress {
		job.Progress = p
	}
	job.UpdatedAt = time.Now().UTC()

	doc.Stage = stage
	doc.Progress = job.Progress
	doc.UpdatedAt = job.UpdatedAt

	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	logger.Debug("Job %s -> %s (%d%%)", job.ID, stage, job.Progress)
	return nil
}

// fail commits the terminal failure stage. Progress keeps its last
// value so pollers can see how far the job got.
func (s *IngestService) fail(ctx context.Context, job *domain.IngestionJob, doc *domain.Document, cause error) {
	job.Stage = domain.StageFailed
	job.Error = cause.Error()
	if errors.Is(cause, domain.ErrJobCancelled) {
		job.Message = "cancelled"
	} else {
		job.Message = "failed"
	}
	job.UpdatedAt = time.Now().UTC()

	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		logger.Warn("Saving failed job %s: %v", job.ID, err)
	}

	if doc != nil {
		doc.Stage = domain.StageFailed
		doc.UpdatedAt = job.UpdatedAt
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			logger.Warn("Saving failed document %s: %v", doc.ID, err)
		}
	}

	logger.Warn("Job %s failed: %v", job.ID, cause)
}

// isCancelled reports whether cancellation was requested for the job.
func (s *IngestService) isCancelled(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cancelled[jobID]
	return ok
}

// unwind rolls back the document's index entry and cluster membership
// after a failure or cancellation past the clustering stage. A job that
// ends in StageFailed must leave no partial search or cluster state.
// Removing an index entry that was never added is a no-op, so the
// pre-index and post-index failure paths share this one helper.
func (s *IngestService) unwind(ctx context.Context, doc *domain.Document, cause error) error {
	if err := s.index.Remove(ctx, doc.ID); err != nil {
		logger.Warn("Index rollback failed for document %s: %v", doc.ID, err)
	}
	if err := s.removeFromCluster(ctx, doc); err != nil {
		logger.Warn("Cluster rollback failed for document %s: %v", doc.ID, err)
	}
	doc.ClusterID = nil
	return cause
}

// removeFromCluster drops the document from its cluster, rebuilding
// the concept union from the remaining members.
func (s *IngestService) removeFromCluster(ctx context.Context, doc *domain.Document) error {
	if doc.ClusterID == nil {
		return nil
	}

	cluster, err := s.clustering.clusterStore.GetCluster(ctx, *doc.ClusterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get cluster: %w", err)
	}

	var remaining [][]string
	for _, id := range cluster.DocumentIDs {
		if id == doc.ID {
			continue
		}
		member, err := s.docStore.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return fmt.Errorf("get cluster member: %w", err)
		}
		remaining = append(remaining, member.ConceptNames())
	}

	if err := s.clustering.RemoveDocument(ctx, doc.OwnerID, *doc.ClusterID, doc.ID, remaining); err != nil {
		return fmt.Errorf("remove from cluster: %w", err)
	}
	return nil
}

// firstLine returns the first non-empty line of text, truncated to a
// reasonable title length. Truncation backs up to a rune boundary so a
// multi-byte character is never split.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 80 {
			cut := 80
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			line = line[:cut]
		}
		return line
	}
	return ""
}
