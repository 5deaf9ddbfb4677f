// Package textenc decodes raw bytes into text for the format
// extractors. UTF-8 is attempted first with a Latin-1 fallback, so
// legacy single-byte files never fail ingestion on encoding alone.
package textenc

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// binaryProbeSize is how many leading bytes are inspected when
// deciding whether content is binary.
const binaryProbeSize = 8192

// Decode converts raw bytes to a string. Valid UTF-8 passes through
// unchanged (minus a BOM); anything else is decoded as ISO 8859-1,
// which accepts every byte sequence.
func Decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// ISO 8859-1 decoding cannot fail; keep the raw bytes if it
		// somehow does.
		return string(raw)
	}
	return string(decoded)
}

// LooksBinary reports whether the content appears to be binary rather
// than text. NUL bytes in the leading probe window are the signal.
func LooksBinary(raw []byte) bool {
	probe := raw
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, 0x00) >= 0
}
