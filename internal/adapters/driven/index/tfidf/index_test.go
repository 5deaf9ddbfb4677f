package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestIndex_Add_EmptyTextFails(t *testing.T) {
	idx := New()

	err := idx.Add(context.Background(), "doc-1", "  \n\t ")

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Equal(t, 0, idx.Size())
}

func TestIndex_Add_ReplacesExistingEntry(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", "kubernetes pods and services"))
	require.NoError(t, idx.Add(ctx, "doc-1", "terraform modules and state"))

	assert.Equal(t, 1, idx.Size())

	hits, err := idx.Search(ctx, "kubernetes", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "old terms should be gone after replacement")

	hits, err = idx.Search(ctx, "terraform", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1", hits[0].DocID)
}

func TestIndex_Search_RanksDistinctiveTermHigher(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "cats", "the cat sat on the mat and the cat purred"))
	require.NoError(t, idx.Add(ctx, "dogs", "the dog ran in the park near a cat"))
	require.NoError(t, idx.Add(ctx, "fish", "the fish swam in the tank"))

	hits, err := idx.Search(ctx, "cat", 10)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "cats", hits[0].DocID)
	assert.Equal(t, "dogs", hits[1].DocID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestIndex_Search_CommonTermStillMatches(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", "the cat sat on the mat"))
	require.NoError(t, idx.Add(ctx, "doc-2", "the dog ran"))

	// "the" appears in every document; smoothed IDF keeps it positive.
	hits, err := idx.Search(ctx, "the", 10)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndex_Search_NoMatchingTerms(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc-1", "the cat sat on the mat"))

	hits, err := idx.Search(ctx, "zeppelin", 10)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_TopKBound(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc-1", "golang concurrency patterns"))
	require.NoError(t, idx.Add(ctx, "doc-2", "golang testing patterns"))
	require.NoError(t, idx.Add(ctx, "doc-3", "golang error handling"))

	hits, err := idx.Search(ctx, "golang", 2)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndex_Search_TieBreaksMostRecentFirst(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "older", "rust ownership"))
	require.NoError(t, idx.Add(ctx, "newer", "rust ownership"))

	hits, err := idx.Search(ctx, "rust", 10)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "newer", hits[0].DocID)
}

func TestIndex_Search_SnippetHighlightsMatches(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc-1", "Containers run on Docker hosts. Docker images are layered."))

	hits, err := idx.Search(ctx, "docker", 10)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Snippet, "**Docker**")
}

func TestIndex_Search_SnippetBoundedAndCentred(t *testing.T) {
	idx := New(WithSnippetLength(80))
	ctx := context.Background()

	long := "filler words at the start of the document that say nothing at all. " +
		"Much later the term kubernetes appears exactly once here. " +
		"And then the document keeps going with more filler afterwards for a while."
	require.NoError(t, idx.Add(ctx, "doc-1", long))

	hits, err := idx.Search(ctx, "kubernetes", 10)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Snippet, "**kubernetes**")
	// Bounded excerpt plus ellipses and highlight markers.
	assert.LessOrEqual(t, len(hits[0].Snippet), 80+len("…")*2+len("****"))
	assert.True(t, len(hits[0].Snippet) < len(long))
}

func TestIndex_Remove(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc-1", "ansible playbooks"))
	require.NoError(t, idx.Add(ctx, "doc-2", "ansible roles"))

	require.NoError(t, idx.Remove(ctx, "doc-1"))

	assert.Equal(t, 1, idx.Size())
	hits, err := idx.Search(ctx, "playbooks", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "ansible", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_Remove_UnknownIDIsNoop(t *testing.T) {
	idx := New()

	assert.NoError(t, idx.Remove(context.Background(), "missing"))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "lowercases", text: "Go Rocks", want: []string{"go", "rocks"}},
		{name: "keeps apostrophes inside words", text: "don't stop", want: []string{"don't", "stop"}},
		{name: "splits on punctuation", text: "one,two;three", want: []string{"one", "two", "three"}},
		{name: "alphanumerics", text: "utf8 http2", want: []string{"utf8", "http2"}},
		{name: "empty", text: "  \n ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.text))
		})
	}
}
