package code

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

// languageByExt maps source file extensions to language names recorded
// in extraction metadata.
var languageByExt = map[string]string{
	"go":    "Go",
	"py":    "Python",
	"js":    "JavaScript",
	"jsx":   "JavaScript",
	"mjs":   "JavaScript",
	"ts":    "TypeScript",
	"tsx":   "TypeScript",
	"java":  "Java",
	"c":     "C",
	"h":     "C",
	"cpp":   "C++",
	"cc":    "C++",
	"hpp":   "C++",
	"cs":    "C#",
	"rb":    "Ruby",
	"rs":    "Rust",
	"php":   "PHP",
	"swift": "Swift",
	"kt":    "Kotlin",
	"scala": "Scala",
	"sh":    "Shell",
	"bash":  "Shell",
	"zsh":   "Shell",
	"ps1":   "PowerShell",
	"sql":   "SQL",
	"r":     "R",
	"pl":    "Perl",
	"lua":   "Lua",
	"dart":  "Dart",
	"vue":   "Vue",
	"css":   "CSS",
	"scss":  "CSS",
	"yaml":  "YAML",
	"yml":   "YAML",
	"json":  "JSON",
	"toml":  "TOML",
	"xml":   "XML",
	"proto": "Protocol Buffers",
	"tf":    "Terraform",
}

// Extractor handles source code files. The code itself is the text;
// the detected language is recorded in metadata so concept extraction
// can use it as a strong signal.
type Extractor struct{}

// New creates a new source code extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	exts := make([]string, 0, len(languageByExt))
	for ext := range languageByExt {
		exts = append(exts, ext)
	}
	return exts
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/x-go", "text/x-python", "text/javascript", "application/json", "application/xml"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// Extract decodes the source file and records its language.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	if textenc.LooksBinary(raw) {
		return nil, fmt.Errorf("%w: binary content in %s", domain.ErrCorruptInput, filename)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	language := languageByExt[ext]

	meta := map[string]any{
		"format": "code",
	}
	if language != "" {
		meta["language"] = language
	}

	return &driven.ExtractResult{
		Text:     textenc.Decode(raw),
		Title:    filepath.Base(filename),
		Metadata: meta,
	}, nil
}
