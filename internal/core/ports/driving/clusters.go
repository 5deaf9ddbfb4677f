package driving

import (
	"context"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// ClusterService exposes read-only cluster access to downstream
// consumers (export, analytics, CLI).
type ClusterService interface {
	// GetCluster retrieves a cluster by ID.
	GetCluster(ctx context.Context, id string) (*domain.Cluster, error)

	// ListClusters returns all clusters for an owner.
	ListClusters(ctx context.Context, ownerID string) ([]domain.Cluster, error)
}
