package driven

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// ConceptExtractor is the abstract LLM capability consulted during
// ingestion. It is a remote call that may fail or time out; callers
// translate failures into domain.ErrExtractionUnavailable and degrade
// rather than abort.
type ConceptExtractor interface {
	// ExtractConcepts analyses a representative content sample and
	// returns structured concepts, skill level, primary topic and a
	// suggested cluster name. Video-transcript kinds additionally
	// return video metadata.
	ExtractConcepts(ctx context.Context, sample string, kind domain.SourceKind) (*domain.ExtractionResult, error)

	// Summarise produces a short summary of document content.
	Summarise(ctx context.Context, content string, maxWords int) (string, error)

	// ModelName returns the name of the underlying model.
	ModelName() string

	// Close releases resources.
	Close() error
}
