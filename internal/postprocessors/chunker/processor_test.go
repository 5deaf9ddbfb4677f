package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestProcess_SplitsWithOverlap(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(3))
	doc := &domain.Document{ID: "doc-1", Content: strings.Repeat("abcdefg", 4)} // 28 chars

	chunks, err := p.Process(context.Background(), doc, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 4) // stride 7: starts at 0, 7, 14, 21

	for i, c := range chunks {
		assert.Equal(t, "doc-1", c.DocumentID)
		assert.Equal(t, i, c.Position)
		assert.NotEmpty(t, c.ID)
	}

	// Adjacent chunks share the overlap region.
	assert.Equal(t, chunks[0].Content[7:], chunks[1].Content[:3])
}

func TestProcess_ContentShorterThanChunkSize(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "doc-1", Content: "short text"}

	chunks, err := p.Process(context.Background(), doc, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
}

func TestProcess_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "doc-1"}

	chunks, err := p.Process(context.Background(), doc, nil)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcess_ReassemblesOriginal(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))
	content := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 8)
	doc := &domain.Document{ID: "doc-1", Content: content}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)

	// Strip each chunk's overlap prefix and the concatenation must
	// recover the original content exactly.
	var sb strings.Builder
	for i, c := range chunks {
		if i == 0 {
			sb.WriteString(c.Content)
			continue
		}
		if len(c.Content) > 10 {
			sb.WriteString(c.Content[10:])
		}
	}
	assert.Equal(t, content, sb.String())
}

func TestNew_ClampsOverlapBelowChunkSize(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(100))
	doc := &domain.Document{ID: "doc-1", Content: strings.Repeat("x", 300)}

	chunks, err := p.Process(context.Background(), doc, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, chunks, "chunking must make forward progress")
}
