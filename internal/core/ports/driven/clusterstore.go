package driven

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// ClusterStore persists topic clusters.
type ClusterStore interface {
	// SaveCluster stores or updates a cluster.
	SaveCluster(ctx context.Context, cluster *domain.Cluster) error

	// GetCluster retrieves a cluster by ID.
	GetCluster(ctx context.Context, id string) (*domain.Cluster, error)

	// ListClustersForOwner returns all clusters in an owner scope.
	ListClustersForOwner(ctx context.Context, ownerID string) ([]domain.Cluster, error)

	// DeleteCluster removes a cluster.
	DeleteCluster(ctx context.Context, id string) error
}
