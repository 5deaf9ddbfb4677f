package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func sampleDocument(id, owner string, createdAt time.Time) *domain.Document {
	return &domain.Document{
		ID:        id,
		OwnerID:   owner,
		Title:     "Title " + id,
		Content:   "content of " + id,
		Stage:     domain.StageComplete,
		CreatedAt: createdAt,
	}
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()
	doc := sampleDocument("doc-1", "owner-1", time.Now())

	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Content, got.Content)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	s := NewDocumentStore()

	_, err := s.GetDocument(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetReturnsCopy(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, s.SaveDocument(ctx, sampleDocument("doc-1", "owner-1", time.Now())))

	first, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	first.Title = "mutated"

	second, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Title doc-1", second.Title)
}

func TestDocumentStore_ListNewestFirstScopedToOwner(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, s.SaveDocument(ctx, sampleDocument("doc-old", "owner-1", base.Add(-time.Hour))))
	require.NoError(t, s.SaveDocument(ctx, sampleDocument("doc-new", "owner-1", base)))
	require.NoError(t, s.SaveDocument(ctx, sampleDocument("doc-other", "owner-2", base)))

	docs, err := s.ListDocuments(ctx, "owner-1")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-new", docs[0].ID)
	assert.Equal(t, "doc-old", docs[1].ID)
}

func TestDocumentStore_DeleteRemovesChunks(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, s.SaveDocument(ctx, sampleDocument("doc-1", "owner-1", time.Now())))
	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "part one", Position: 0},
	}))

	require.NoError(t, s.DeleteDocument(ctx, "doc-1"))

	_, err := s.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := s.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ChunksReturnedInPositionOrder(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-2", DocumentID: "doc-1", Content: "second", Position: 1},
		{ID: "chunk-1", DocumentID: "doc-1", Content: "first", Position: 0},
	}))

	chunks, err := s.GetChunks(ctx, "doc-1")

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "second", chunks[1].Content)
}

func TestDocumentStore_SaveChunksReplacesExisting(t *testing.T) {
	s := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "old", Position: 0},
		{ID: "chunk-2", DocumentID: "doc-1", Content: "older", Position: 1},
	}))
	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-3", DocumentID: "doc-1", Content: "new", Position: 0},
	}))

	chunks, err := s.GetChunks(ctx, "doc-1")

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new", chunks[0].Content)
}
