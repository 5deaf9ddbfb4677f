package services

import (
	"context"
	"fmt"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driving"
)

// Ensure ClusterReadService implements the interface.
var _ driving.ClusterService = (*ClusterReadService)(nil)

// ClusterReadService exposes read-only cluster access.
type ClusterReadService struct {
	clusterStore driven.ClusterStore
}

// NewClusterReadService creates a new cluster read service.
func NewClusterReadService(clusterStore driven.ClusterStore) *ClusterReadService {
	return &ClusterReadService{clusterStore: clusterStore}
}

// GetCluster retrieves a cluster by ID.
func (s *ClusterReadService) GetCluster(ctx context.Context, id string) (*domain.Cluster, error) {
	cluster, err := s.clusterStore.GetCluster(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cluster: %w", err)
	}
	return cluster, nil
}

// ListClusters returns all clusters for an owner.
func (s *ClusterReadService) ListClusters(ctx context.Context, ownerID string) ([]domain.Cluster, error) {
	clusters, err := s.clusterStore.ListClustersForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	return clusters, nil
}
