package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func cachedResult() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		Concepts: []domain.Concept{
			{Name: "docker", Confidence: 0.9},
		},
		PrimaryTopic: "Containers",
	}
}

func TestCache_PutThenGet(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "key-1", cachedResult(), time.Hour))

	got, err := c.Get(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Containers", got.PrimaryTopic)
	require.Len(t, got.Concepts, 1)
	assert.Equal(t, "docker", got.Concepts[0].Name)
}

func TestCache_MissReturnsNil(t *testing.T) {
	c := New()

	got, err := c.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Put(ctx, "key-1", cachedResult(), time.Hour))

	got, err := c.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.NotNil(t, got, "entry should live within the TTL")

	now = now.Add(2 * time.Hour)

	got, err = c.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entry should be a miss")
}

func TestCache_GetReturnsIndependentCopy(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "key-1", cachedResult(), time.Hour))

	first, err := c.Get(ctx, "key-1")
	require.NoError(t, err)
	first.Concepts[0].Name = "mutated"

	second, err := c.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "docker", second.Concepts[0].Name)
}

func TestCache_PutOverwrites(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "key-1", cachedResult(), time.Hour))

	updated := cachedResult()
	updated.PrimaryTopic = "Orchestration"
	require.NoError(t, c.Put(ctx, "key-1", updated, time.Hour))

	got, err := c.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "Orchestration", got.PrimaryTopic)
}
