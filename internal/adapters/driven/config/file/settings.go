package file

import (
	"os"
	"time"

	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Default values applied when the config file omits a key.
const (
	DefaultSimilarityThreshold = 0.3
	DefaultMinConfidence       = 0.65
	DefaultSampleSize          = 6000
	DefaultCacheTTL            = 24 * time.Hour
	DefaultMaxAttempts         = 3
	DefaultWorkers             = 4
	DefaultStorageBackend      = "memory"
)

// Settings is the resolved application configuration with all
// defaults applied.
type Settings struct {
	// SimilarityThreshold is the minimum Jaccard similarity for a
	// document to join an existing cluster.
	SimilarityThreshold float64

	// MinConfidence is the minimum concept confidence kept after
	// extraction.
	MinConfidence float64

	// SampleSize is the total byte budget for representative sampling.
	SampleSize int

	// CacheTTL is how long extraction results stay cached.
	CacheTTL time.Duration

	// MaxAttempts is how many times concept extraction is attempted
	// before degrading.
	MaxAttempts int

	// Workers is the ingestion worker pool size.
	Workers int

	// StorageBackend selects the metadata store ("memory" or "sqlite").
	StorageBackend string

	// DataDir overrides the default sqlite data directory.
	DataDir string

	// LLMAPIKey authenticates against the concept extraction API.
	LLMAPIKey string

	// LLMBaseURL overrides the extraction API endpoint.
	LLMBaseURL string

	// LLMModel selects the extraction model.
	LLMModel string

	// RedisAddr enables the Redis extraction cache when non-empty.
	RedisAddr string

	// DefaultOwner is the owner ID used when none is given on the CLI.
	DefaultOwner string
}

// LoadSettings resolves settings from a config store, applying
// defaults for missing keys.
func LoadSettings(store driven.ConfigStore) Settings {
	s := Settings{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinConfidence:       DefaultMinConfidence,
		SampleSize:          DefaultSampleSize,
		CacheTTL:            DefaultCacheTTL,
		MaxAttempts:         DefaultMaxAttempts,
		Workers:             DefaultWorkers,
		StorageBackend:      DefaultStorageBackend,
		DefaultOwner:        "local",
	}

	if v := store.GetFloat("cluster.similarity_threshold"); v > 0 {
		s.SimilarityThreshold = v
	}
	if v := store.GetFloat("extraction.min_confidence"); v > 0 {
		s.MinConfidence = v
	}
	if v := store.GetInt("extraction.sample_size"); v > 0 {
		s.SampleSize = v
	}
	if v := store.GetInt("extraction.cache_ttl_hours"); v > 0 {
		s.CacheTTL = time.Duration(v) * time.Hour
	}
	if v := store.GetInt("extraction.max_attempts"); v > 0 {
		s.MaxAttempts = v
	}
	if v := store.GetInt("ingest.workers"); v > 0 {
		s.Workers = v
	}
	if v := store.GetString("storage.backend"); v != "" {
		s.StorageBackend = v
	}
	if v := store.GetString("storage.data_dir"); v != "" {
		s.DataDir = v
	}
	if v := store.GetString("llm.api_key"); v != "" {
		s.LLMAPIKey = v
	}
	// Environment wins over the config file for credentials.
	if v := os.Getenv("SKILLMAP_API_KEY"); v != "" {
		s.LLMAPIKey = v
	}
	if v := store.GetString("llm.base_url"); v != "" {
		s.LLMBaseURL = v
	}
	if v := store.GetString("llm.model"); v != "" {
		s.LLMModel = v
	}
	if v := store.GetString("redis.addr"); v != "" {
		s.RedisAddr = v
	}
	if v := store.GetString("owner.default"); v != "" {
		s.DefaultOwner = v
	}

	return s
}
