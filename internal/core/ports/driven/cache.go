package driven

import (
	"context"
	"time"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// ExtractionCache stores previously computed extraction results keyed
// by a content-sample hash.
//
// The cache is best-effort by design: it is not a mutual-exclusion
// lock. Two workers missing on the same key concurrently will both call
// the LLM upstream; the last writer for a key wins and values are
// immutable for their TTL window. Races cost a redundant call, never a
// wrong result.
type ExtractionCache interface {
	// Get returns the cached result for the key, or nil on a miss.
	// A backend failure returns domain.ErrCacheUnavailable; callers
	// treat that as a miss.
	Get(ctx context.Context, key string) (*domain.ExtractionResult, error)

	// Put stores a result under the key with the given TTL.
	Put(ctx context.Context, key string, result *domain.ExtractionResult, ttl time.Duration) error
}
