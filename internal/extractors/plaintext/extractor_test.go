package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestExtract_PassesTextThrough(t *testing.T) {
	e := New()

	result, err := e.Extract(context.Background(), "meeting-notes_2025.txt", []byte("line one\nline two"))

	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", result.Text)
	assert.Equal(t, "meeting notes 2025", result.Title)
	assert.Equal(t, "plaintext", result.Metadata["format"])
}

func TestExtract_RejectsBinary(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "dump.log", []byte{0x00, 0xFF, 0x00, 0x01})

	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}
