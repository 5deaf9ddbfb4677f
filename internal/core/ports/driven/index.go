package driven

import "context"

// SearchIndex maintains per-document term vectors for lexical search.
//
// The index's global document-frequency table is a single shared-write
// resource: implementations must serialise Add/Remove so that two
// concurrent inserts never race on a term's frequency count.
type SearchIndex interface {
	// Add indexes a document's text. Replaces any existing entry for
	// the same ID. Fails with domain.ErrEmptyDocument when the text
	// contains no indexable terms.
	Add(ctx context.Context, docID string, text string) error

	// Remove deletes a document from the index. Removing an unknown ID
	// is a no-op.
	Remove(ctx context.Context, docID string) error

	// Search ranks indexed documents against the query. A query with no
	// matching terms returns an empty slice, not an error.
	Search(ctx context.Context, query string, topK int) ([]IndexHit, error)

	// Size returns the number of indexed documents.
	Size() int
}

// IndexHit is one ranked search result from the index.
type IndexHit struct {
	// DocID is the matched document.
	DocID string

	// Score is the cosine similarity of TF-IDF vectors.
	Score float64

	// Snippet is a bounded excerpt centred on the densest run of query
	// term matches, with matched terms wrapped in "**" for downstream
	// highlighting.
	Snippet string
}
