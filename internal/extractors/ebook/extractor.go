package ebook

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/web"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxChapterBytes skips pathologically large chapter files.
const maxChapterBytes = 5 << 20

// Extractor handles EPUB e-books. Chapters are XHTML files inside a
// zip container; their markup is stripped, never rendered or executed.
type Extractor struct{}

// New creates a new EPUB extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"epub"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/epub+zip"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// opfPackage is the subset of the OPF manifest we read for the title.
type opfPackage struct {
	Metadata struct {
		Title string `xml:"title"`
	} `xml:"metadata"`
}

// Extract opens the EPUB container and extracts chapter text in
// archive order.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid epub container", domain.ErrCorruptInput, filename)
	}

	title := bookTitle(reader)
	if title == "" {
		name := filepath.Base(filename)
		title = strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "_", " ")
	}

	// Chapter files sorted by path approximates spine order closely
	// enough for text analysis.
	var chapterFiles []*zip.File
	for _, f := range reader.File {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext == ".xhtml" || ext == ".html" || ext == ".htm" {
			chapterFiles = append(chapterFiles, f)
		}
	}
	sort.Slice(chapterFiles, func(i, j int) bool { return chapterFiles[i].Name < chapterFiles[j].Name })

	var chapters []string
	for _, f := range chapterFiles {
		if f.UncompressedSize64 > maxChapterBytes {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxChapterBytes+1))
		rc.Close()
		if err != nil {
			continue
		}
		text := web.StripTags(string(content))
		if strings.TrimSpace(text) != "" {
			chapters = append(chapters, text)
		}
	}

	return &driven.ExtractResult{
		Text:  strings.Join(chapters, "\n\n"),
		Title: title,
		Metadata: map[string]any{
			"format":        "ebook",
			"chapter_count": len(chapters),
		},
	}, nil
}

// bookTitle reads the title from the first OPF manifest found.
func bookTitle(reader *zip.Reader) string {
	for _, f := range reader.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		data, err := io.ReadAll(io.LimitReader(rc, 1<<20))
		rc.Close()
		if err != nil {
			return ""
		}
		var pkg opfPackage
		if err := xml.Unmarshal(data, &pkg); err != nil {
			return ""
		}
		return strings.TrimSpace(pkg.Metadata.Title)
	}
	return ""
}
