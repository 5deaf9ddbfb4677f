package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachememory "github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/cache/memory"
	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// mockConceptExtractor implements driven.ConceptExtractor for testing.
// Safe for concurrent use; worker pool tests call it from two
// goroutines.
type mockConceptExtractor struct {
	mu         sync.Mutex
	result     *domain.ExtractionResult
	extractErr error
	summary    string
	summaryErr error

	calls int
}

func (m *mockConceptExtractor) ExtractConcepts(_ context.Context, _ string, _ domain.SourceKind) (*domain.ExtractionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	// Copy so callers mutating the result never race on the fixture.
	out := *m.result
	out.Concepts = append([]domain.Concept(nil), m.result.Concepts...)
	return &out, nil
}

func (m *mockConceptExtractor) Summarise(_ context.Context, _ string, _ int) (string, error) {
	if m.summaryErr != nil {
		return "", m.summaryErr
	}
	return m.summary, nil
}

func (m *mockConceptExtractor) ModelName() string { return "mock" }

func (m *mockConceptExtractor) Close() error { return nil }

func extractionFixture() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		Concepts: []domain.Concept{
			{Name: "Python", Category: domain.CategoryLanguage, Confidence: 0.95},
			{Name: "fastapi", Category: domain.CategoryFramework, Confidence: 0.8},
			{Name: "maybe-grpc", Category: domain.CategoryConcept, Confidence: 0.4},
		},
		SkillLevel:           domain.SkillIntermediate,
		PrimaryTopic:         "web development",
		SuggestedClusterName: "Web APIs",
	}
}

func TestExtractionService_Sample_ShortContentPassesThrough(t *testing.T) {
	svc := NewExtractionService(&mockConceptExtractor{}, nil, WithSampleSize(100))

	content := "short document"
	assert.Equal(t, content, svc.Sample(content))
}

func TestExtractionService_Sample_LongContentUsesThreeWindows(t *testing.T) {
	svc := NewExtractionService(&mockConceptExtractor{}, nil, WithSampleSize(300))

	content := strings.Repeat("a", 1000) + strings.Repeat("b", 1000) + strings.Repeat("c", 1000)
	sample := svc.Sample(content)

	assert.Equal(t, 2, strings.Count(sample, "[content continues]"))
	assert.True(t, strings.HasPrefix(sample, "a"))
	assert.True(t, strings.HasSuffix(sample, "c"))
	assert.Contains(t, sample, "b")
	// Three windows of sampleSize/3 plus two markers.
	assert.LessOrEqual(t, len(sample), 300+2*len(continuationMarker))
}

func TestExtractionService_CacheKey_VariesByKindAndContent(t *testing.T) {
	svc := NewExtractionService(&mockConceptExtractor{}, nil)

	textKey := svc.CacheKey("sample", domain.SourceText)
	videoKey := svc.CacheKey("sample", domain.SourceVideoTranscript)
	otherKey := svc.CacheKey("different", domain.SourceText)

	assert.NotEqual(t, textKey, videoKey)
	assert.NotEqual(t, textKey, otherKey)
	assert.Equal(t, textKey, svc.CacheKey("sample", domain.SourceText))
}

func TestExtractionService_Extract_FiltersLowConfidence(t *testing.T) {
	extractor := &mockConceptExtractor{result: extractionFixture()}
	svc := NewExtractionService(extractor, nil)

	result, err := svc.Extract(context.Background(), "some content", domain.SourceText)

	require.NoError(t, err)
	require.Len(t, result.Concepts, 2)
	assert.Equal(t, "python", result.Concepts[0].Name)
	assert.Equal(t, "fastapi", result.Concepts[1].Name)
}

func TestExtractionService_Extract_CacheHitSkipsExtractor(t *testing.T) {
	extractor := &mockConceptExtractor{result: extractionFixture()}
	cache := cachememory.New()
	svc := NewExtractionService(extractor, cache)
	ctx := context.Background()

	first, err := svc.Extract(ctx, "same content", domain.SourceText)
	require.NoError(t, err)

	second, err := svc.Extract(ctx, "same content", domain.SourceText)
	require.NoError(t, err)

	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, first.Concepts, second.Concepts)
	assert.Equal(t, first.SkillLevel, second.SkillLevel)
}

func TestExtractionService_Extract_DifferentKindMissesCache(t *testing.T) {
	extractor := &mockConceptExtractor{result: extractionFixture()}
	cache := cachememory.New()
	svc := NewExtractionService(extractor, cache)
	ctx := context.Background()

	_, err := svc.Extract(ctx, "same content", domain.SourceText)
	require.NoError(t, err)
	_, err = svc.Extract(ctx, "same content", domain.SourceVideoTranscript)
	require.NoError(t, err)

	assert.Equal(t, 2, extractor.calls)
}

func TestExtractionService_Extract_RetriesThenFails(t *testing.T) {
	extractor := &mockConceptExtractor{extractErr: domain.ErrExtractionUnavailable}
	svc := NewExtractionService(extractor, nil, WithMaxAttempts(3))
	svc.retryDelay = time.Millisecond

	_, err := svc.Extract(context.Background(), "content", domain.SourceText)

	assert.ErrorIs(t, err, domain.ErrExtractionUnavailable)
	assert.Equal(t, 3, extractor.calls)
}

func TestExtractionService_Extract_FailureNotCached(t *testing.T) {
	extractor := &mockConceptExtractor{extractErr: domain.ErrExtractionUnavailable}
	cache := cachememory.New()
	svc := NewExtractionService(extractor, cache, WithMaxAttempts(1))
	svc.retryDelay = time.Millisecond
	ctx := context.Background()

	_, err := svc.Extract(ctx, "content", domain.SourceText)
	require.Error(t, err)

	// Recovery on the next call once the backend is healthy again.
	extractor.extractErr = nil
	extractor.result = extractionFixture()

	result, err := svc.Extract(ctx, "content", domain.SourceText)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Concepts)
}
