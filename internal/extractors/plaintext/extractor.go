package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/textenc"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents. It is the fallback for any
// text-like content no other extractor claims.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"txt", "text", "log", "env", "cfg", "conf", "ini", "properties"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/plain; charset=utf-8"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract decodes the raw bytes as text.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	if textenc.LooksBinary(raw) {
		return nil, fmt.Errorf("%w: binary content in %s", domain.ErrCorruptInput, filename)
	}

	text := textenc.Decode(raw)

	return &driven.ExtractResult{
		Text:  text,
		Title: titleFromFilename(filename),
		Metadata: map[string]any{
			"format": "plaintext",
		},
	}, nil
}

// titleFromFilename derives a human-readable title from a file name.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	if ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
