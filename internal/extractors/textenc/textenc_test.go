package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_UTF8PassesThrough(t *testing.T) {
	assert.Equal(t, "héllo wörld", Decode([]byte("héllo wörld")))
}

func TestDecode_StripsBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	assert.Equal(t, "hello", Decode(raw))
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in ISO 8859-1 but invalid as a lone UTF-8 byte.
	raw := []byte{'c', 'a', 'f', 0xE9}
	assert.Equal(t, "café", Decode(raw))
}

func TestLooksBinary(t *testing.T) {
	assert.True(t, LooksBinary([]byte{'a', 0x00, 'b'}))
	assert.False(t, LooksBinary([]byte("plain text")))
	assert.False(t, LooksBinary(nil))
}
