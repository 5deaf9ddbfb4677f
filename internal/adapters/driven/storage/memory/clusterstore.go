package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure ClusterStore implements the interface.
var _ driven.ClusterStore = (*ClusterStore)(nil)

// ClusterStore is an in-memory implementation of driven.ClusterStore.
type ClusterStore struct {
	mu       sync.RWMutex
	clusters map[string]domain.Cluster
}

// NewClusterStore creates a new in-memory cluster store.
func NewClusterStore() *ClusterStore {
	return &ClusterStore{clusters: make(map[string]domain.Cluster)}
}

// SaveCluster stores or updates a cluster.
func (s *ClusterStore) SaveCluster(_ context.Context, cluster *domain.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[cluster.ID] = *cluster
	return nil
}

// GetCluster retrieves a cluster by ID.
func (s *ClusterStore) GetCluster(_ context.Context, id string) (*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cluster, ok := s.clusters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cluster, nil
}

// ListClustersForOwner returns all clusters belonging to an owner,
// sorted by ID for deterministic iteration.
func (s *ClusterStore) ListClustersForOwner(_ context.Context, ownerID string) ([]domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Cluster
	for id := range s.clusters {
		cluster := s.clusters[id]
		if cluster.OwnerID == ownerID {
			result = append(result, cluster)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteCluster removes a cluster.
func (s *ClusterStore) DeleteCluster(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clusters, id)
	return nil
}
