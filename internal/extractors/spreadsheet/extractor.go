package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/textenc"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxRows caps how many rows are extracted from very large sheets.
const maxRows = 10000

// Extractor handles delimited spreadsheet exports (CSV/TSV).
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"csv", "tsv"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/csv", "text/tab-separated-values"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// Extract parses the delimited rows and joins cells with spaces,
// rows with newlines.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	if textenc.LooksBinary(raw) {
		return nil, fmt.Errorf("%w: binary content in %s", domain.ErrCorruptInput, filename)
	}

	reader := csv.NewReader(bytes.NewReader([]byte(textenc.Decode(raw))))
	if strings.EqualFold(filepath.Ext(filename), ".tsv") {
		reader.Comma = '\t'
	}
	// Ragged rows are common in hand-edited exports
	reader.FieldsPerRecord = -1

	var lines []string
	truncated := false
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
		}
		if len(lines) >= maxRows {
			truncated = true
			break
		}
		lines = append(lines, strings.Join(record, " "))
	}

	meta := map[string]any{
		"format":    "spreadsheet",
		"row_count": len(lines),
	}
	if truncated {
		meta["truncated"] = true
	}

	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &driven.ExtractResult{
		Text:     strings.Join(lines, "\n"),
		Title:    strings.ReplaceAll(name, "_", " "),
		Metadata: meta,
	}, nil
}
