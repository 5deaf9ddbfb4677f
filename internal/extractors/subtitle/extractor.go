package subtitle

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/textenc"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles subtitle files (SRT, WebVTT). Cue indices,
// timestamps and styling tags are removed, leaving the spoken text.
type Extractor struct{}

// New creates a new subtitle extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"srt", "vtt"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/vtt", "application/x-subrip"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

var (
	// 00:01:02,200 --> 00:01:05,900 (SRT) or 00:01.200 --> 00:05.900 (VTT)
	timestampLine = regexp.MustCompile(`^\s*[\d:.,]+\s+-->\s+[\d:.,]+`)
	cueIndexLine  = regexp.MustCompile(`^\s*\d+\s*$`)
	styleTags     = regexp.MustCompile(`</?[^>]+>`)
)

// Extract strips subtitle scaffolding and returns the dialogue lines.
// Consecutive duplicate lines (common in auto-generated captions) are
// collapsed.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	if textenc.LooksBinary(raw) {
		return nil, fmt.Errorf("%w: binary content in %s", domain.ErrCorruptInput, filename)
	}

	content := textenc.Decode(raw)

	var lines []string
	var last string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "",
			trimmed == "WEBVTT",
			strings.HasPrefix(trimmed, "NOTE"),
			strings.HasPrefix(trimmed, "STYLE"),
			cueIndexLine.MatchString(trimmed),
			timestampLine.MatchString(trimmed):
			continue
		}

		text := strings.TrimSpace(styleTags.ReplaceAllString(trimmed, ""))
		if text == "" || text == last {
			continue
		}
		lines = append(lines, text)
		last = text
	}

	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &driven.ExtractResult{
		Text:  strings.Join(lines, "\n"),
		Title: strings.ReplaceAll(name, "_", " "),
		Metadata: map[string]any{
			"format":   "subtitle",
			"cue_text": true,
		},
	}, nil
}
