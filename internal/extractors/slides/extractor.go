package slides

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PowerPoint presentations (PPTX). Text runs are
// pulled from each slide's XML in slide order.
type Extractor struct{}

// New creates a new slide deck extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"pptx"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.presentationml.presentation"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

var slidePath = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extract opens the PPTX container and extracts text from each slide.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid pptx container", domain.ErrCorruptInput, filename)
	}

	// Order slides numerically, not lexically (slide10 after slide9)
	type slideFile struct {
		num  int
		file *zip.File
	}
	var found []slideFile
	for _, f := range reader.File {
		m := slidePath.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, slideFile{num: num, file: f})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].num < found[j].num })

	var slideTexts []string
	for _, sf := range found {
		text, err := slideText(sf.file)
		if err != nil {
			continue // A bad slide doesn't fail the deck
		}
		if text != "" {
			slideTexts = append(slideTexts, text)
		}
	}

	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &driven.ExtractResult{
		Text:  strings.Join(slideTexts, "\n\n"),
		Title: strings.ReplaceAll(name, "_", " "),
		Metadata: map[string]any{
			"format":      "slides",
			"slide_count": len(found),
		},
	}, nil
}

// slideText extracts the text runs (<a:t> elements) from one slide.
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var parts []string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "t" {
			continue
		}
		var run string
		if err := decoder.DecodeElement(&run, &start); err != nil {
			continue
		}
		if run = strings.TrimSpace(run); run != "" {
			parts = append(parts, run)
		}
	}
	return strings.Join(parts, "\n"), nil
}
