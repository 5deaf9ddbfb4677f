// Package cli implements the command-line driving adapter.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cachememory "github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/cache/memory"
	cacheredis "github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/cache/redis"
	configfile "github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/config/file"
	"github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/index/tfidf"
	"github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/llm"
	"github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/llm/openai"
	storagememory "github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/storage/memory"
	storagesqlite "github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/storage/sqlite"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driving"
	"github.com/skillmap-labs/skillmap-cli/internal/core/services"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
	"github.com/skillmap-labs/skillmap-cli/internal/postprocessors"
	"github.com/skillmap-labs/skillmap-cli/internal/postprocessors/chunker"
)

// Services shared by the subcommands, wired in initServices.
var (
	configStore    driven.ConfigStore
	settings       configfile.Settings
	ingestor       driving.IngestOrchestrator
	searchService  driving.SearchService
	clusterService driving.ClusterService
	docStore       driven.DocumentStore

	closers []func() error
)

var (
	verbose   bool
	configDir string
	ownerFlag string
)

var rootCmd = &cobra.Command{
	Use:   "skillmap",
	Short: "Ingest documents and organise them into skill clusters",
	Long: `skillmap ingests heterogeneous documents (text, markdown, PDFs,
notebooks, archives, transcripts and more), extracts the concepts they
teach, groups them into topic clusters and makes them searchable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.skillmap)")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "owner scope (default from config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// owner resolves the effective owner scope.
func owner() string {
	if ownerFlag != "" {
		return ownerFlag
	}
	return settings.DefaultOwner
}

// initServices wires the adapters and services from configuration.
//
//nolint:gocyclo // Composition root with necessary backend selection
func initServices() error {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	settings = configfile.LoadSettings(store)

	// Storage backend
	var clusterStore driven.ClusterStore
	var jobStore driven.JobStore
	switch settings.StorageBackend {
	case "sqlite":
		db, err := storagesqlite.NewStore(settings.DataDir)
		if err != nil {
			return fmt.Errorf("opening sqlite store: %w", err)
		}
		closers = append(closers, db.Close)
		docStore = db.DocumentStore()
		clusterStore = db.ClusterStore()
		jobStore = db.JobStore()
	case "memory", "":
		docStore = storagememory.NewDocumentStore()
		clusterStore = storagememory.NewClusterStore()
		jobStore = storagememory.NewJobStore()
	default:
		return fmt.Errorf("unknown storage backend %q", settings.StorageBackend)
	}

	// Extraction cache: Redis when configured, in-process otherwise
	var cache driven.ExtractionCache
	if settings.RedisAddr != "" {
		rc, err := cacheredis.New(settings.RedisAddr)
		if err != nil {
			logger.Warn("Redis cache unavailable (%v), using in-memory cache", err)
			cache = cachememory.New()
		} else {
			closers = append(closers, rc.Close)
			cache = rc
		}
	} else {
		cache = cachememory.New()
	}

	// Concept extractor
	var extractor driven.ConceptExtractor
	if settings.LLMAPIKey != "" {
		ex, err := openai.New(openai.Config{
			APIKey:  settings.LLMAPIKey,
			BaseURL: settings.LLMBaseURL,
			Model:   settings.LLMModel,
		})
		if err != nil {
			return fmt.Errorf("configuring extractor: %w", err)
		}
		extractor = ex
	} else {
		logger.Warn("No LLM API key configured; concept extraction disabled")
		extractor = llm.NewUnavailable()
	}
	closers = append(closers, extractor.Close)

	registry := extractors.NewDefaultRegistry()
	index := tfidf.New()
	pipeline := postprocessors.NewPipeline(chunker.New())

	extraction := services.NewExtractionService(extractor, cache,
		services.WithSampleSize(settings.SampleSize),
		services.WithMinConfidence(settings.MinConfidence),
		services.WithMaxAttempts(settings.MaxAttempts),
		services.WithCacheTTL(settings.CacheTTL),
	)
	clustering := services.NewClusteringService(clusterStore,
		services.WithSimilarityThreshold(settings.SimilarityThreshold),
	)

	ingestor = services.NewIngestService(registry, extraction, clustering,
		index, pipeline, docStore, jobStore,
		services.WithWorkers(settings.Workers),
	)
	searchService = services.NewSearchService(index, docStore)
	clusterService = services.NewClusterReadService(clusterStore)

	return nil
}

// shutdown closes adapters in reverse wiring order.
func shutdown() error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}
