package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driving"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// DefaultSearchLimit caps results when the caller does not.
const DefaultSearchLimit = 10

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers ranked lexical queries, hydrating index hits
// into full documents and applying owner and cluster filters.
type SearchService struct {
	index    driven.SearchIndex
	docStore driven.DocumentStore
}

// NewSearchService creates a new search service.
func NewSearchService(index driven.SearchIndex, docStore driven.DocumentStore) *SearchService {
	return &SearchService{
		index:    index,
		docStore: docStore,
	}
}

// Search performs a ranked search. Hits whose documents have been
// deleted since indexing are skipped rather than failing the query.
func (s *SearchService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Over-fetch when filtering, since hits may be dropped.
	topK := limit
	if opts.OwnerID != "" || opts.ClusterID != "" {
		topK = s.index.Size()
	}

	hits, err := s.index.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.SearchResult, 0, limit)
	for _, hit := range hits {
		if len(results) == limit {
			break
		}

		doc, err := s.docStore.GetDocument(ctx, hit.DocID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Skipping stale index hit %s", hit.DocID)
				continue
			}
			return nil, fmt.Errorf("get document: %w", err)
		}

		if opts.OwnerID != "" && doc.OwnerID != opts.OwnerID {
			continue
		}
		if opts.ClusterID != "" && (doc.ClusterID == nil || *doc.ClusterID != opts.ClusterID) {
			continue
		}

		results = append(results, domain.SearchResult{
			Document: *doc,
			Score:    hit.Score,
			Snippet:  hit.Snippet,
		})
	}

	return results, nil
}
