package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
}

func TestSupportedExtensions(t *testing.T) {
	extractor := New()
	exts := extractor.SupportedExtensions()

	assert.Contains(t, exts, "md")
	assert.Contains(t, exts, "rst")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestExtract_StripsFormatting(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	raw := []byte("# Hello World\n\nSome **bold** and *italic* text with a [link](https://example.com).\n\n- item one\n- item two\n\n```go\nfmt.Println(\"hi\")\n```\n")

	result, err := extractor.Extract(ctx, "doc.md", raw)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", result.Title)
	assert.Contains(t, result.Text, "bold")
	assert.Contains(t, result.Text, "italic")
	assert.Contains(t, result.Text, "link")
	assert.Contains(t, result.Text, "item one")
	assert.Contains(t, result.Text, `fmt.Println("hi")`)
	assert.NotContains(t, result.Text, "**")
	assert.NotContains(t, result.Text, "](")
	assert.NotContains(t, result.Text, "```")
	assert.NotContains(t, result.Text, "# Hello")
}

func TestExtract_TitleFallsBackToFilename(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), "release_notes-v2.md", []byte("no headings here"))
	require.NoError(t, err)

	assert.Equal(t, "release notes v2", result.Title)
}

func TestExtract_RejectsBinary(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), "bad.md", []byte{0x00, 0x01, 0x02})
	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}
