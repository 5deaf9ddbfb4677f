package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// cacheVersion is folded into the cache key so that prompt or schema
// changes invalidate previously cached extractions.
const cacheVersion = "v1"

// continuationMarker joins the sample windows so the model knows the
// sample is not contiguous text.
const continuationMarker = "\n\n[content continues]\n\n"

const (
	// DefaultSampleSize is the total byte budget for representative
	// sampling.
	DefaultSampleSize = 6000

	// DefaultMinConfidence is the threshold below which extracted
	// concepts are discarded.
	DefaultMinConfidence = 0.65

	// DefaultMaxAttempts bounds extraction retries before degrading.
	DefaultMaxAttempts = 3

	// DefaultCacheTTL is how long extraction results stay cached.
	DefaultCacheTTL = 24 * time.Hour

	// retryBaseDelay is the initial backoff between extraction attempts.
	retryBaseDelay = 500 * time.Millisecond
)

// ExtractionService wraps the LLM concept extractor with representative
// sampling, a content-addressed cache and retry with backoff.
type ExtractionService struct {
	extractor driven.ConceptExtractor
	cache     driven.ExtractionCache

	sampleSize    int
	minConfidence float64
	maxAttempts   int
	cacheTTL      time.Duration
	retryDelay    time.Duration
}

// ExtractionOption configures an ExtractionService.
type ExtractionOption func(*ExtractionService)

// WithSampleSize sets the total sample byte budget.
func WithSampleSize(n int) ExtractionOption {
	return func(s *ExtractionService) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithMinConfidence sets the minimum concept confidence kept.
func WithMinConfidence(c float64) ExtractionOption {
	return func(s *ExtractionService) {
		if c > 0 {
			s.minConfidence = c
		}
	}
}

// WithMaxAttempts sets how many times extraction is attempted.
func WithMaxAttempts(n int) ExtractionOption {
	return func(s *ExtractionService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithCacheTTL sets the cache entry lifetime.
func WithCacheTTL(ttl time.Duration) ExtractionOption {
	return func(s *ExtractionService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewExtractionService creates an extraction service. The cache is
// optional; pass nil to always call the extractor directly.
func NewExtractionService(
	extractor driven.ConceptExtractor,
	cache driven.ExtractionCache,
	opts ...ExtractionOption,
) *ExtractionService {
	s := &ExtractionService{
		extractor:     extractor,
		cache:         cache,
		sampleSize:    DefaultSampleSize,
		minConfidence: DefaultMinConfidence,
		maxAttempts:   DefaultMaxAttempts,
		cacheTTL:      DefaultCacheTTL,
		retryDelay:    retryBaseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample builds a representative sample of the content. Content within
// the budget is returned whole; longer content is sampled as three
// windows from the start, middle and end, joined by a continuation
// marker.
func (s *ExtractionService) Sample(content string) string {
	if len(content) <= s.sampleSize {
		return content
	}

	window := s.sampleSize / 3
	start := content[:window]

	midStart := (len(content) - window) / 2
	middle := content[midStart : midStart+window]

	end := content[len(content)-window:]

	return start + continuationMarker + middle + continuationMarker + end
}

// CacheKey derives the content-addressed cache key for a sample.
// The key covers the sample bytes, the cache version and the source
// kind, so the same text from a different kind is cached separately.
func (s *ExtractionService) CacheKey(sample string, kind domain.SourceKind) string {
	h := sha256.New()
	h.Write([]byte(sample))
	h.Write([]byte{0})
	h.Write([]byte(cacheVersion))
	h.Write([]byte{0})
	h.Write([]byte(kind))
	return hex.EncodeToString(h.Sum(nil))
}

// Extract runs concept extraction for the content, consulting the
// cache first. Extractor failures are retried with backoff; when all
// attempts fail the error is domain.ErrExtractionUnavailable and the
// caller is expected to degrade.
func (s *ExtractionService) Extract(
	ctx context.Context,
	content string,
	kind domain.SourceKind,
) (*domain.ExtractionResult, error) {
	sample := s.Sample(content)
	key := s.CacheKey(sample, kind)

	// 1. Cache lookup. Backend failures count as misses.
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Debug("Extraction cache get failed: %v", err)
		} else if cached != nil {
			logger.Debug("Extraction cache hit for kind %s", kind)
			return cached, nil
		}
	}

	// 2. Call the extractor with retry and backoff.
	result, err := s.extractWithRetry(ctx, sample, kind)
	if err != nil {
		return nil, err
	}

	// 3. Drop low-confidence concepts.
	result.Concepts = s.filterConcepts(result.Concepts)

	// 4. Cache the filtered result, best effort.
	if s.cache != nil {
		if err := s.cache.Put(ctx, key, result, s.cacheTTL); err != nil {
			logger.Debug("Extraction cache put failed: %v", err)
		}
	}

	return result, nil
}

// extractWithRetry attempts extraction up to maxAttempts times,
// doubling the delay between attempts.
func (s *ExtractionService) extractWithRetry(
	ctx context.Context,
	sample string,
	kind domain.SourceKind,
) (*domain.ExtractionResult, error) {
	delay := s.retryDelay
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err := s.extractor.ExtractConcepts(ctx, sample, kind)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("Extraction attempt %d/%d failed: %v", attempt, s.maxAttempts, err)

		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, lastErr)
}

// filterConcepts keeps concepts at or above the confidence threshold,
// normalising names along the way.
func (s *ExtractionService) filterConcepts(concepts []domain.Concept) []domain.Concept {
	kept := make([]domain.Concept, 0, len(concepts))
	for _, c := range concepts {
		c.Name = strings.ToLower(strings.TrimSpace(c.Name))
		if c.Name == "" || c.Confidence < s.minConfidence {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// Summarise produces a short summary for the content via the
// underlying extractor.
func (s *ExtractionService) Summarise(ctx context.Context, content string, maxWords int) (string, error) {
	sample := s.Sample(content)
	return s.extractor.Summarise(ctx, sample, maxWords)
}
