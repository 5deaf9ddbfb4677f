package driving

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// SearchService answers queries over the ingested corpus.
type SearchService interface {
	// Search performs a ranked lexical search.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
