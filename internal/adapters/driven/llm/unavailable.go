// Package llm hosts concept extraction adapters.
package llm

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure Unavailable implements the interface.
var _ driven.ConceptExtractor = (*Unavailable)(nil)

// Unavailable is a ConceptExtractor used when no extraction backend is
// configured. Every call fails with ErrExtractionUnavailable, so
// ingestion degrades instead of blocking on missing credentials.
type Unavailable struct{}

// NewUnavailable creates the stub extractor.
func NewUnavailable() *Unavailable {
	return &Unavailable{}
}

// ExtractConcepts always reports the capability as unavailable.
func (u *Unavailable) ExtractConcepts(_ context.Context, _ string, _ domain.SourceKind) (*domain.ExtractionResult, error) {
	return nil, domain.ErrExtractionUnavailable
}

// Summarise always reports the capability as unavailable.
func (u *Unavailable) Summarise(_ context.Context, _ string, _ int) (string, error) {
	return "", domain.ErrExtractionUnavailable
}

// ModelName identifies the stub.
func (u *Unavailable) ModelName() string {
	return "none"
}

// Close releases nothing.
func (u *Unavailable) Close() error {
	return nil
}
