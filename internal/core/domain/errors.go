package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no extractor handles the input's
	// extension or MIME type. Fatal for the job, never retried.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptInput indicates the input could not be parsed by its
	// format extractor. Fatal for the job, never retried.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrExtractionUnavailable indicates the LLM capability is
	// unreachable or timed out. Retried with backoff, then the pipeline
	// degrades to an empty concept list instead of failing.
	ErrExtractionUnavailable = errors.New("concept extraction unavailable")

	// ErrEmptyDocument indicates a document with no extractable text
	// was offered to the search index.
	ErrEmptyDocument = errors.New("empty document")

	// ErrCacheUnavailable indicates the cache backing store cannot be
	// reached. Always recovered locally by calling the LLM directly;
	// caching is an optimisation, never a correctness dependency.
	ErrCacheUnavailable = errors.New("extraction cache unavailable")

	// ErrJobCancelled indicates an operator cancelled the job between
	// stages.
	ErrJobCancelled = errors.New("job cancelled")
)
