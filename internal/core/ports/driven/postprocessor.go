package driven

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// PostProcessor processes document content to produce chunks during
// the optional chunking stage.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks. A processor that
	// creates chunks receives nil and returns a new set; one that
	// modifies chunks receives and returns them.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
