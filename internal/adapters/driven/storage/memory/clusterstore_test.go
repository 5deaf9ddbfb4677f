package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestClusterStore_SaveAndGet(t *testing.T) {
	s := NewClusterStore()
	ctx := context.Background()

	cluster := &domain.Cluster{
		ID:           "cluster-1",
		OwnerID:      "owner-1",
		Name:         "Containers",
		ConceptNames: []string{"docker", "kubernetes"},
		DocumentIDs:  []string{"doc-1"},
	}
	require.NoError(t, s.SaveCluster(ctx, cluster))

	got, err := s.GetCluster(ctx, "cluster-1")
	require.NoError(t, err)
	assert.Equal(t, "Containers", got.Name)
	assert.True(t, got.HasDocument("doc-1"))
	assert.False(t, got.HasDocument("doc-2"))
}

func TestClusterStore_GetMissing(t *testing.T) {
	s := NewClusterStore()

	_, err := s.GetCluster(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClusterStore_ListScopedAndSorted(t *testing.T) {
	s := NewClusterStore()
	ctx := context.Background()

	require.NoError(t, s.SaveCluster(ctx, &domain.Cluster{ID: "cluster-b", OwnerID: "owner-1"}))
	require.NoError(t, s.SaveCluster(ctx, &domain.Cluster{ID: "cluster-a", OwnerID: "owner-1"}))
	require.NoError(t, s.SaveCluster(ctx, &domain.Cluster{ID: "cluster-c", OwnerID: "owner-2"}))

	clusters, err := s.ListClustersForOwner(ctx, "owner-1")

	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "cluster-a", clusters[0].ID)
	assert.Equal(t, "cluster-b", clusters[1].ID)
}

func TestClusterStore_Delete(t *testing.T) {
	s := NewClusterStore()
	ctx := context.Background()
	require.NoError(t, s.SaveCluster(ctx, &domain.Cluster{ID: "cluster-1", OwnerID: "owner-1"}))

	require.NoError(t, s.DeleteCluster(ctx, "cluster-1"))

	_, err := s.GetCluster(ctx, "cluster-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
