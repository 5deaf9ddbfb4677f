package extractors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// stubExtractor is a configurable extractor for registry tests.
type stubExtractor struct {
	exts     []string
	mimes    []string
	priority int
	text     string
	err      error
}

func (s *stubExtractor) SupportedExtensions() []string { return s.exts }
func (s *stubExtractor) SupportedMIMETypes() []string  { return s.mimes }
func (s *stubExtractor) Priority() int                 { return s.priority }

func (s *stubExtractor) Extract(_ context.Context, _ string, _ []byte) (*driven.ExtractResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &driven.ExtractResult{Text: s.text}, nil
}

func TestRegistry_Extract_DispatchesByExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"foo"}, priority: 50, text: "foo text"})

	result, err := r.Extract(context.Background(), "doc.foo", []byte("payload"))

	require.NoError(t, err)
	assert.Equal(t, "foo text", result.Text)
}

func TestRegistry_Extract_HigherPriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"foo"}, priority: 5, text: "fallback"})
	r.Register(&stubExtractor{exts: []string{"foo"}, priority: 50, text: "specific"})

	result, err := r.Extract(context.Background(), "doc.foo", []byte("payload"))

	require.NoError(t, err)
	assert.Equal(t, "specific", result.Text)
}

func TestRegistry_Extract_FallsThroughOnFailure(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"foo"}, priority: 50, err: domain.ErrCorruptInput})
	r.Register(&stubExtractor{exts: []string{"foo"}, priority: 5, text: "rescued"})

	result, err := r.Extract(context.Background(), "doc.foo", []byte("payload"))

	require.NoError(t, err)
	assert.Equal(t, "rescued", result.Text)
}

func TestRegistry_Extract_ReportsLastError(t *testing.T) {
	r := NewRegistry()
	wantErr := errors.New("boom")
	r.Register(&stubExtractor{exts: []string{"foo"}, priority: 50, err: wantErr})

	_, err := r.Extract(context.Background(), "doc.foo", []byte("payload"))

	assert.ErrorIs(t, err, wantErr)
}

func TestRegistry_Extract_MIMESniffFallback(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{mimes: []string{"text/plain"}, priority: 5, text: "sniffed"})

	// Unknown extension; plain text bytes sniff as text/plain.
	result, err := r.Extract(context.Background(), "README", []byte("just some words"))

	require.NoError(t, err)
	assert.Equal(t, "sniffed", result.Text)
}

func TestRegistry_Extract_UnknownFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), "firmware.bin", []byte{0x7F, 0x45, 0x4C, 0x46})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_Extract_EmptyPayload(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{"txt"}, priority: 50})

	_, err := r.Extract(context.Background(), "doc.txt", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewDefaultRegistry_CoversCommonFormats(t *testing.T) {
	r := NewDefaultRegistry()
	exts := r.SupportedExtensions()

	for _, want := range []string{"txt", "md", "html", "ipynb", "csv", "pptx", "zip", "epub", "srt", "pdf", "go", "py"} {
		assert.Contains(t, exts, want)
	}
}
