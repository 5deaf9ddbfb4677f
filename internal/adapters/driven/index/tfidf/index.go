// Package tfidf provides an in-memory lexical search index using
// TF-IDF weighting and cosine similarity.
package tfidf

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// DefaultSnippetLength is the maximum snippet size in characters.
const DefaultSnippetLength = 200

// tokenPattern matches unicode word tokens, keeping apostrophes inside
// words ("don't").
var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{N}]*(?:['’][\p{L}]+)*`)

// docEntry is the per-document state held by the index.
type docEntry struct {
	// tf maps term to occurrence count within the document.
	tf map[string]int

	// terms is the total token count, for term-frequency normalisation.
	terms int

	// text is retained for snippet generation.
	text string

	// seq orders documents by insertion for recency tie-breaks.
	seq int64
}

// Index maintains a global term→document-frequency table and
// per-document term-frequency vectors.
//
// The document-frequency table is a single shared-write resource: all
// mutations run under one mutex so concurrent inserts can never lose an
// increment. Queries take a read lock and compute scores against the
// IDF weights current at query time.
type Index struct {
	mu         sync.RWMutex
	df         map[string]int
	docs       map[string]*docEntry
	nextSeq    int64
	snippetLen int
}

// Option configures the index.
type Option func(*Index)

// WithSnippetLength sets the maximum snippet size in characters.
func WithSnippetLength(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.snippetLen = n
		}
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	idx := &Index{
		df:         make(map[string]int),
		docs:       make(map[string]*docEntry),
		snippetLen: DefaultSnippetLength,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Add indexes a document's text, replacing any existing entry for the
// same ID. Text with no indexable terms fails with ErrEmptyDocument.
func (idx *Index) Add(_ context.Context, docID string, text string) error {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEmptyDocument, docID)
	}

	tf := make(map[string]int)
	for _, tok := range tokens {
		tf[tok]++
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Replacing an entry first gives back its frequency contributions
	if old, ok := idx.docs[docID]; ok {
		idx.decrementDF(old)
	}

	for term := range tf {
		idx.df[term]++
	}

	idx.nextSeq++
	idx.docs[docID] = &docEntry{
		tf:    tf,
		terms: len(tokens),
		text:  text,
		seq:   idx.nextSeq,
	}
	return nil
}

// Remove deletes a document from the index. Unknown IDs are a no-op.
func (idx *Index) Remove(_ context.Context, docID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entry, ok := idx.docs[docID]
	if !ok {
		return nil
	}
	idx.decrementDF(entry)
	delete(idx.docs, docID)
	return nil
}

// decrementDF gives back a document's frequency contributions without
// letting any count go negative. Caller holds the write lock.
func (idx *Index) decrementDF(entry *docEntry) {
	for term := range entry.tf {
		if idx.df[term] > 1 {
			idx.df[term]--
		} else {
			delete(idx.df, term)
		}
	}
}

// Search ranks indexed documents by cosine similarity between the
// query's TF-IDF vector and each candidate document's vector. Ties are
// broken most-recent first. No matching terms returns an empty result.
func (idx *Index) Search(_ context.Context, query string, topK int) ([]driven.IndexHit, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || topK <= 0 {
		return []driven.IndexHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := float64(len(idx.docs))
	if n == 0 {
		return []driven.IndexHit{}, nil
	}

	queryTF := make(map[string]int)
	for _, tok := range queryTokens {
		queryTF[tok]++
	}

	// Smoothed IDF keeps unseen terms finite and seen-everywhere terms
	// positive.
	idf := func(term string) float64 {
		return math.Log((1+n)/(1+float64(idx.df[term]))) + 1
	}

	// Query vector and norm
	queryWeights := make(map[string]float64, len(queryTF))
	var queryNorm float64
	for term, count := range queryTF {
		w := (float64(count) / float64(len(queryTokens))) * idf(term)
		queryWeights[term] = w
		queryNorm += w * w
	}
	queryNorm = math.Sqrt(queryNorm)

	// Candidates: documents containing at least one query term
	type scored struct {
		docID string
		score float64
		seq   int64
		entry *docEntry
	}
	var candidates []scored

	for docID, entry := range idx.docs {
		var dot float64
		matched := false
		for term, w := range queryWeights {
			count, ok := entry.tf[term]
			if !ok {
				continue
			}
			matched = true
			docW := (float64(count) / float64(entry.terms)) * idf(term)
			dot += w * docW
		}
		if !matched {
			continue
		}

		var docNorm float64
		for term, count := range entry.tf {
			w := (float64(count) / float64(entry.terms)) * idf(term)
			docNorm += w * w
		}
		docNorm = math.Sqrt(docNorm)

		score := 0.0
		if queryNorm > 0 && docNorm > 0 {
			score = dot / (queryNorm * docNorm)
		}
		candidates = append(candidates, scored{docID: docID, score: score, seq: entry.seq, entry: entry})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].seq > candidates[j].seq // Most recent first
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	hits := make([]driven.IndexHit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, driven.IndexHit{
			DocID:   c.docID,
			Score:   c.score,
			Snippet: idx.snippet(c.entry.text, queryWeights),
		})
	}
	return hits, nil
}

// Size returns the number of indexed documents.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// tokenize lower-cases and splits text into word tokens. Every token
// is kept; stopword weighting is left to IDF.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
