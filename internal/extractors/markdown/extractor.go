package markdown

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

// Extractor handles Markdown and reStructuredText documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"md", "markdown", "mdx", "rst"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// Extract converts markdown to plain text with formatting simplified.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	if textenc.LooksBinary(raw) {
		return nil, fmt.Errorf("%w: binary content in %s", domain.ErrCorruptInput, filename)
	}

	content := textenc.Decode(raw)
	title := extractTitle(content, filename)

	return &driven.ExtractResult{
		Text:  stripMarkdown(content),
		Title: title,
		Metadata: map[string]any{
			"format": "markdown",
		},
	}, nil
}

// Pre-compiled regular expressions for markdown stripping.
var (
	fencedCode  = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n(.*?)```")
	inlineCode  = regexp.MustCompile("`([^`]*)`")
	images      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	links       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headings    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis    = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	blockquote  = regexp.MustCompile(`(?m)^>\s?`)
	hrule       = regexp.MustCompile(`(?m)^([-*_]){3,}\s*$`)
	listMarkers = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)
	firstHead   = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
)

// stripMarkdown removes markdown syntax while keeping the text,
// including the contents of code fences.
func stripMarkdown(content string) string {
	content = fencedCode.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = hrule.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// extractTitle uses the first heading, falling back to the filename.
func extractTitle(content, filename string) string {
	if m := firstHead.FindStringSubmatch(content); len(m) > 1 {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}

	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	if ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
