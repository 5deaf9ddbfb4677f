package slides

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func slideXML(runs ...string) string {
	var sb bytes.Buffer
	sb.WriteString(`<?xml version="1.0"?><p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	for _, r := range runs {
		sb.WriteString(`<a:t>` + r + `</a:t>`)
	}
	sb.WriteString(`</p:sld>`)
	return sb.String()
}

func pptxFixture(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range slides {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract_ReadsSlidesInNumericOrder(t *testing.T) {
	e := New()
	raw := pptxFixture(t, map[string]string{
		"ppt/slides/slide10.xml": slideXML("Tenth slide"),
		"ppt/slides/slide2.xml":  slideXML("Second slide"),
		"ppt/slides/slide1.xml":  slideXML("Title slide", "Subtitle"),
		"ppt/media/image1.png":   "not a slide",
	})

	result, err := e.Extract(context.Background(), "go_course.pptx", raw)

	require.NoError(t, err)
	assert.Equal(t, "Title slide\nSubtitle\n\nSecond slide\n\nTenth slide", result.Text)
	assert.Equal(t, "go course", result.Title)
	assert.Equal(t, 3, result.Metadata["slide_count"])
}

func TestExtract_Corrupt(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "deck.pptx", []byte("not a zip"))

	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestExtract_EmptyDeck(t *testing.T) {
	e := New()
	raw := pptxFixture(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
	})

	result, err := e.Extract(context.Background(), "empty.pptx", raw)

	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.Equal(t, 0, result.Metadata["slide_count"])
}
