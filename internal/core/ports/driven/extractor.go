package driven

import "context"

// Extractor converts raw bytes of one format family into plain text.
// Implementations are pure: no side effects, no embedded code execution.
type Extractor interface {
	// SupportedExtensions returns the file extensions this extractor
	// handles, lower-case without the leading dot (e.g., "md", "ipynb").
	SupportedExtensions() []string

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract converts raw bytes into plain text plus extraction
	// metadata. It fails with domain.ErrCorruptInput when the bytes do
	// not parse as the claimed format.
	Extract(ctx context.Context, filename string, raw []byte) (*ExtractResult, error)
}

// ExtractResult is the output of format extraction.
type ExtractResult struct {
	// Text is the extracted plain text.
	Text string

	// Title is a human-readable title when the format carries one.
	Title string

	// Metadata contains format-specific details (page counts, sheet
	// names, skipped archive entries, ...).
	Metadata map[string]any
}

// ExtractorRegistry selects the appropriate extractor for a file.
// Dispatch is by extension first, then MIME sniff; unknown inputs fail
// with domain.ErrUnsupportedFormat.
type ExtractorRegistry interface {
	// Extract runs the best matching extractor for the file.
	Extract(ctx context.Context, filename string, raw []byte) (*ExtractResult, error)

	// Register adds an extractor to the registry.
	Register(e Extractor)

	// SupportedExtensions returns all extensions that can be extracted.
	SupportedExtensions() []string
}
