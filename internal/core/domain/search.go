package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// OwnerID filters results to one owner scope. Empty means all.
	OwnerID string

	// ClusterID filters results to one cluster. Empty means all.
	ClusterID string
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Score is the relevance score (cosine similarity of TF-IDF
	// vectors).
	Score float64

	// Snippet is an excerpt around the match with matched terms
	// delimited by "**" for highlighting.
	Snippet string
}
