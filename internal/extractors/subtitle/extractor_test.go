package subtitle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

const srtFixture = `1
00:00:01,000 --> 00:00:04,000
Welcome to the course.

2
00:00:04,500 --> 00:00:08,000
Today we cover goroutines.

3
00:00:08,500 --> 00:00:12,000
Today we cover goroutines.
`

const vttFixture = `WEBVTT

NOTE this is a comment

00:01.000 --> 00:04.000
<v Speaker>Hello <b>everyone</b></v>

00:04.500 --> 00:08.000
Channels come next.
`

func TestExtract_SRT(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), "lecture_01.srt", []byte(srtFixture))
	require.NoError(t, err)

	assert.Equal(t, "Welcome to the course.\nToday we cover goroutines.", result.Text)
	assert.Equal(t, "lecture 01", result.Title)
}

func TestExtract_VTT(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), "talk.vtt", []byte(vttFixture))
	require.NoError(t, err)

	assert.Equal(t, "Hello everyone\nChannels come next.", result.Text)
	assert.NotContains(t, result.Text, "WEBVTT")
	assert.NotContains(t, result.Text, "-->")
	assert.NotContains(t, result.Text, "<b>")
}

func TestExtract_RejectsBinary(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), "bad.srt", []byte{0x00, 0xFF})
	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}
