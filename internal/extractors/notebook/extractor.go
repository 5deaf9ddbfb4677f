package notebook

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Jupyter notebooks. Markdown and code cell sources
// are extracted; cell outputs are skipped since they are derived data.
type Extractor struct{}

// New creates a new notebook extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"ipynb"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/x-ipynb+json"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// notebookFile is the subset of the nbformat JSON schema we read.
type notebookFile struct {
	Cells []struct {
		CellType string `json:"cell_type"`
		// Source is a string in some exporters and a line array in
		// others; json.RawMessage handles both.
		Source json.RawMessage `json:"source"`
	} `json:"cells"`
	Metadata struct {
		Kernelspec struct {
			Language string `json:"language"`
		} `json:"kernelspec"`
	} `json:"metadata"`
}

// Extract parses the notebook JSON and concatenates cell sources.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	var nb notebookFile
	if err := json.Unmarshal(raw, &nb); err != nil {
		return nil, fmt.Errorf("%w: notebook %s: %v", domain.ErrCorruptInput, filename, err)
	}

	var parts []string
	codeCells := 0
	for _, cell := range nb.Cells {
		src := cellSource(cell.Source)
		if strings.TrimSpace(src) == "" {
			continue
		}
		if cell.CellType == "code" {
			codeCells++
		}
		parts = append(parts, src)
	}

	meta := map[string]any{
		"format":     "notebook",
		"cell_count": len(nb.Cells),
		"code_cells": codeCells,
	}
	if lang := nb.Metadata.Kernelspec.Language; lang != "" {
		meta["language"] = lang
	}

	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &driven.ExtractResult{
		Text:     strings.Join(parts, "\n\n"),
		Title:    strings.ReplaceAll(name, "_", " "),
		Metadata: meta,
	}, nil
}

// cellSource decodes a cell source that is either a string or a list
// of line strings.
func cellSource(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	return ""
}
