package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.skillmap/data/skillmap.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".skillmap", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "skillmap.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ClusterStore returns a ClusterStore interface backed by this store.
func (s *Store) ClusterStore() driven.ClusterStore {
	return &clusterStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	conceptsJSON, err := json.Marshal(doc.Concepts)
	if err != nil {
		return fmt.Errorf("marshalling concepts: %w", err)
	}
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	var clusterID sql.NullString
	if doc.ClusterID != nil {
		clusterID = sql.NullString{String: *doc.ClusterID, Valid: true}
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, owner_id, source_kind, uri, title, content, size_bytes,
			skill_level, primary_topic, concepts, cluster_id, stage, progress, metadata,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			source_kind = excluded.source_kind,
			uri = excluded.uri,
			title = excluded.title,
			content = excluded.content,
			size_bytes = excluded.size_bytes,
			skill_level = excluded.skill_level,
			primary_topic = excluded.primary_topic,
			concepts = excluded.concepts,
			cluster_id = excluded.cluster_id,
			stage = excluded.stage,
			progress = excluded.progress,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.OwnerID, string(doc.SourceKind), doc.URI, doc.Title, doc.Content,
		doc.SizeBytes, string(doc.SkillLevel), doc.PrimaryTopic, string(conceptsJSON),
		clusterID, string(doc.Stage), doc.Progress, string(metadataJSON),
		doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, source_kind, uri, title, content, size_bytes,
			skill_level, primary_topic, concepts, cluster_id, stage, progress, metadata,
			created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// ListDocuments returns all documents for an owner, newest first.
func (s *documentStore) ListDocuments(ctx context.Context, ownerID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, source_kind, uri, title, content, size_bytes,
			skill_level, primary_topic, concepts, cluster_id, stage, progress, metadata,
			created_at, updated_at
		FROM documents WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// DeleteDocument removes a document. Chunks are removed by cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// SaveChunks stores chunks for a document, replacing any existing set.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", chunks[0].DocumentID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, metadata)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Position, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for a document in position order.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, metadata
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var metadataJSON string
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// scanDocument scans a document using the provided scan function, which
// lets it serve both *sql.Row and *sql.Rows.
func scanDocument(scan func(...any) error) (*domain.Document, error) {
	var doc domain.Document
	var sourceKind, skillLevel, stage string
	var conceptsJSON, metadataJSON string
	var clusterID sql.NullString

	if err := scan(&doc.ID, &doc.OwnerID, &sourceKind, &doc.URI, &doc.Title, &doc.Content,
		&doc.SizeBytes, &skillLevel, &doc.PrimaryTopic, &conceptsJSON, &clusterID,
		&stage, &doc.Progress, &metadataJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.SourceKind = domain.SourceKind(sourceKind)
	doc.SkillLevel = domain.SkillLevel(skillLevel)
	doc.Stage = domain.Stage(stage)
	if clusterID.Valid {
		doc.ClusterID = &clusterID.String
	}

	if conceptsJSON != "" {
		if err := json.Unmarshal([]byte(conceptsJSON), &doc.Concepts); err != nil {
			return nil, fmt.Errorf("unmarshaling concepts: %w", err)
		}
	}
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}

// ==================== Cluster Store ====================

// clusterStore implements driven.ClusterStore.
type clusterStore struct {
	store *Store
}

var _ driven.ClusterStore = (*clusterStore)(nil)

// SaveCluster stores or updates a cluster.
func (s *clusterStore) SaveCluster(ctx context.Context, cluster *domain.Cluster) error {
	conceptsJSON, err := json.Marshal(cluster.ConceptNames)
	if err != nil {
		return fmt.Errorf("marshalling concept names: %w", err)
	}
	docIDsJSON, err := json.Marshal(cluster.DocumentIDs)
	if err != nil {
		return fmt.Errorf("marshalling document ids: %w", err)
	}

	now := time.Now().UTC()
	if cluster.CreatedAt.IsZero() {
		cluster.CreatedAt = now
	}
	cluster.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO clusters (id, owner_id, name, is_default, skill_level, concept_names,
			document_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			is_default = excluded.is_default,
			skill_level = excluded.skill_level,
			concept_names = excluded.concept_names,
			document_ids = excluded.document_ids,
			updated_at = excluded.updated_at
	`, cluster.ID, cluster.OwnerID, cluster.Name, cluster.IsDefault, string(cluster.SkillLevel),
		string(conceptsJSON), string(docIDsJSON), cluster.CreatedAt, cluster.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving cluster: %w", err)
	}
	return nil
}

// GetCluster retrieves a cluster by ID.
func (s *clusterStore) GetCluster(ctx context.Context, id string) (*domain.Cluster, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, is_default, skill_level, concept_names, document_ids,
			created_at, updated_at
		FROM clusters WHERE id = ?
	`, id)

	cluster, err := scanCluster(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return cluster, err
}

// ListClustersForOwner returns all clusters belonging to an owner.
func (s *clusterStore) ListClustersForOwner(ctx context.Context, ownerID string) ([]domain.Cluster, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, name, is_default, skill_level, concept_names, document_ids,
			created_at, updated_at
		FROM clusters WHERE owner_id = ?
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []domain.Cluster //nolint:prealloc // size unknown from query
	for rows.Next() {
		cluster, err := scanCluster(rows.Scan)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, *cluster)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clusters: %w", err)
	}

	return clusters, nil
}

// DeleteCluster removes a cluster.
func (s *clusterStore) DeleteCluster(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM clusters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting cluster: %w", err)
	}
	return nil
}

// scanCluster scans a cluster using the provided scan function.
func scanCluster(scan func(...any) error) (*domain.Cluster, error) {
	var cluster domain.Cluster
	var skillLevel string
	var conceptsJSON, docIDsJSON string

	if err := scan(&cluster.ID, &cluster.OwnerID, &cluster.Name, &cluster.IsDefault,
		&skillLevel, &conceptsJSON, &docIDsJSON, &cluster.CreatedAt, &cluster.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning cluster: %w", err)
	}

	cluster.SkillLevel = domain.SkillLevel(skillLevel)

	if conceptsJSON != "" {
		if err := json.Unmarshal([]byte(conceptsJSON), &cluster.ConceptNames); err != nil {
			return nil, fmt.Errorf("unmarshaling concept names: %w", err)
		}
	}
	if docIDsJSON != "" {
		if err := json.Unmarshal([]byte(docIDsJSON), &cluster.DocumentIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling document ids: %w", err)
		}
	}

	return &cluster, nil
}

// ==================== Job Store ====================

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// SaveJob stores or updates a job.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.IngestionJob) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (id, document_id, owner_id, stage, progress, message, error,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			owner_id = excluded.owner_id,
			stage = excluded.stage,
			progress = excluded.progress,
			message = excluded.message,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, job.ID, job.DocumentID, job.OwnerID, string(job.Stage), job.Progress,
		job.Message, job.Error, job.CreatedAt, job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.IngestionJob, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, owner_id, stage, progress, message, error, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id)

	var job domain.IngestionJob
	var stage string
	if err := row.Scan(&job.ID, &job.DocumentID, &job.OwnerID, &stage, &job.Progress,
		&job.Message, &job.Error, &job.CreatedAt, &job.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	job.Stage = domain.Stage(stage)

	return &job, nil
}

// ListJobs returns all jobs for an owner, newest first.
func (s *jobStore) ListJobs(ctx context.Context, ownerID string) ([]domain.IngestionJob, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, owner_id, stage, progress, message, error, created_at, updated_at
		FROM jobs WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.IngestionJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		var job domain.IngestionJob
		var stage string
		if err := rows.Scan(&job.ID, &job.DocumentID, &job.OwnerID, &stage, &job.Progress,
			&job.Message, &job.Error, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		job.Stage = domain.Stage(stage)
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	return jobs, nil
}
