package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents via pdfcpu. Text is recovered from
// the page content streams' show-text operators; scanned PDFs without
// a text layer yield empty output and are left to OCR upstream.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"pdf"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// Extract parses the PDF and concatenates per-page text.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(raw), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
	}

	var pages []string
	for p := 1; p <= ctx.PageCount; p++ {
		r, err := pdfcpu.ExtractPageContent(ctx, p)
		if err != nil {
			logger.Debug("PDF %s: page %d content unavailable: %v", filename, p, err)
			continue
		}
		stream, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		if text := textFromContentStream(stream); text != "" {
			pages = append(pages, text)
		}
	}

	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &driven.ExtractResult{
		Text:  strings.Join(pages, "\n\n"),
		Title: strings.ReplaceAll(name, "_", " "),
		Metadata: map[string]any{
			"format":     "pdf",
			"page_count": ctx.PageCount,
		},
	}, nil
}

// Show-text operators in PDF content streams: (string) Tj and
// [(str) num (str) ...] TJ.
var (
	tjOp = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)
	tjA  = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)*)\]\s*TJ`)
	tjS  = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)
)

// textFromContentStream scrapes literal strings from show-text
// operators. This recovers text for simply-encoded PDFs; hex strings
// and custom CID encodings are out of scope for lexical indexing.
func textFromContentStream(stream []byte) string {
	var parts []string

	for _, m := range tjOp.FindAllSubmatch(stream, -1) {
		if s := decodePDFString(string(m[1])); s != "" {
			parts = append(parts, s)
		}
	}
	for _, arr := range tjA.FindAllSubmatch(stream, -1) {
		var run []string
		for _, m := range tjS.FindAllSubmatch(arr[1], -1) {
			if s := decodePDFString(string(m[1])); s != "" {
				run = append(run, s)
			}
		}
		if len(run) > 0 {
			parts = append(parts, strings.Join(run, ""))
		}
	}

	text := strings.Join(parts, " ")
	return strings.TrimSpace(text)
}

// decodePDFString resolves the escape sequences of a PDF literal
// string.
func decodePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
