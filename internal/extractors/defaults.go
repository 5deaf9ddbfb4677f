package extractors

import (
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/archive"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/code"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/ebook"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/markdown"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/notebook"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/pdf"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/plaintext"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/slides"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/spreadsheet"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/subtitle"
	"github.com/skillmap-labs/skillmap-cli/internal/extractors/web"
)

// NewDefaultRegistry creates a registry with every built-in extractor
// registered, including the archive extractor which recurses back into
// the registry for contained files.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(plaintext.New())
	r.Register(code.New())
	r.Register(markdown.New())
	r.Register(web.New())
	r.Register(notebook.New())
	r.Register(spreadsheet.New())
	r.Register(slides.New())
	r.Register(ebook.New())
	r.Register(subtitle.New())
	r.Register(pdf.New())
	r.Register(archive.New(r))

	return r
}
