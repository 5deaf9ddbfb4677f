package tfidf

import (
	"regexp"
	"strings"
)

// snippet produces a bounded excerpt centred on the densest run of
// query term matches, with matched terms wrapped in "**" markers.
// Documents without a match (possible when called defensively) fall
// back to the leading characters.
func (idx *Index) snippet(text string, queryWeights map[string]float64) string {
	terms := make([]string, 0, len(queryWeights))
	for term := range queryWeights {
		terms = append(terms, term)
	}

	positions := matchPositions(text, terms)
	if len(positions) == 0 {
		return truncate(text, idx.snippetLen)
	}

	// Slide a window of snippetLen characters across match positions
	// and keep the start of the densest one.
	best, bestCount := 0, 0
	for i := range positions {
		count := 1
		for j := i + 1; j < len(positions) && positions[j]-positions[i] < idx.snippetLen; j++ {
			count++
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}

	start := positions[best] - idx.snippetLen/4
	if start < 0 {
		start = 0
	}
	end := start + idx.snippetLen
	if end > len(text) {
		end = len(text)
		if start = end - idx.snippetLen; start < 0 {
			start = 0
		}
	}

	// Snap to rune boundaries so multi-byte characters stay intact
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	for end < len(text) && !isRuneStart(text[end]) {
		end++
	}

	excerpt := strings.TrimSpace(text[start:end])
	excerpt = highlight(excerpt, terms)

	if start > 0 {
		excerpt = "…" + excerpt
	}
	if end < len(text) {
		excerpt += "…"
	}
	return excerpt
}

// matchPositions returns the sorted byte offsets of query term
// occurrences in the text.
func matchPositions(text string, terms []string) []int {
	re := termPattern(terms)
	if re == nil {
		return nil
	}
	locs := re.FindAllStringIndex(text, -1)
	positions := make([]int, 0, len(locs))
	for _, loc := range locs {
		positions = append(positions, loc[0])
	}
	return positions
}

// highlight wraps term occurrences in "**" for downstream rendering.
func highlight(excerpt string, terms []string) string {
	re := termPattern(terms)
	if re == nil {
		return excerpt
	}
	return re.ReplaceAllString(excerpt, "**$1**")
}

// termPattern compiles a case-insensitive whole-word alternation for
// the query terms. Returns nil when there is nothing to match.
func termPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	re, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil
	}
	return re
}

// truncate bounds text to n bytes on a rune boundary.
func truncate(text string, n int) string {
	if len(text) <= n {
		return strings.TrimSpace(text)
	}
	for n > 0 && !isRuneStart(text[n]) {
		n--
	}
	return strings.TrimSpace(text[:n]) + "…"
}

// isRuneStart reports whether the byte begins a UTF-8 sequence.
func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
