package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// DefaultSimilarityThreshold is the minimum Jaccard similarity for a
// document to join an existing cluster.
const DefaultSimilarityThreshold = 0.3

// Jaccard computes the Jaccard similarity of two concept name sets:
// the size of the intersection over the size of the union. Two empty
// sets have similarity 0.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, name := range a {
		set[name] = struct{}{}
	}

	intersection := 0
	seen := make(map[string]struct{}, len(b))
	for _, name := range b {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := set[name]; ok {
			intersection++
		}
	}

	union := len(set) + len(seen) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ClusteringService assigns documents to topic clusters by concept
// similarity. Assignment is serialised per owner so two concurrent
// assignments for the same owner never both create a cluster the other
// should have joined.
type ClusteringService struct {
	clusterStore driven.ClusterStore
	threshold    float64

	mu     sync.Mutex
	owners map[string]*sync.Mutex
}

// ClusteringOption configures a ClusteringService.
type ClusteringOption func(*ClusteringService)

// WithSimilarityThreshold sets the minimum Jaccard similarity for
// joining an existing cluster.
func WithSimilarityThreshold(t float64) ClusteringOption {
	return func(s *ClusteringService) {
		if t > 0 {
			s.threshold = t
		}
	}
}

// NewClusteringService creates a clustering service.
func NewClusteringService(clusterStore driven.ClusterStore, opts ...ClusteringOption) *ClusteringService {
	s := &ClusteringService{
		clusterStore: clusterStore,
		threshold:    DefaultSimilarityThreshold,
		owners:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ownerLock returns the per-owner mutex, creating it on first use.
func (s *ClusteringService) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.owners[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		s.owners[ownerID] = lock
	}
	return lock
}

// Assign places the document in the best matching cluster for its
// owner, creating a new one when nothing is similar enough. Documents
// with no concepts go to the owner's default cluster. The suggested
// name is used when a new cluster must be created; when it is empty
// the document's primary topic is used instead.
func (s *ClusteringService) Assign(
	ctx context.Context,
	doc *domain.Document,
	suggestedName string,
) (*domain.Cluster, error) {
	lock := s.ownerLock(doc.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	clusters, err := s.clusterStore.ListClustersForOwner(ctx, doc.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}

	names := doc.ConceptNames()

	// No concepts: collect into the owner's default cluster.
	if len(names) == 0 {
		for i := range clusters {
			if clusters[i].IsDefault {
				return s.join(ctx, &clusters[i], doc, nil)
			}
		}
		return s.create(ctx, doc, domain.DefaultClusterName, nil, true)
	}

	best := s.bestMatch(clusters, names)
	if best != nil {
		return s.join(ctx, best, doc, names)
	}

	name := suggestedName
	if name == "" {
		name = doc.PrimaryTopic
	}
	if name == "" {
		name = domain.DefaultClusterName
	}
	return s.create(ctx, doc, name, names, false)
}

// bestMatch returns the most similar cluster at or above the
// threshold, or nil. Ties break towards more members, then the lowest
// cluster ID.
func (s *ClusteringService) bestMatch(clusters []domain.Cluster, names []string) *domain.Cluster {
	var best *domain.Cluster
	bestScore := 0.0

	for i := range clusters {
		c := &clusters[i]
		if c.IsDefault {
			continue
		}
		score := Jaccard(names, c.ConceptNames)
		if score < s.threshold {
			continue
		}
		switch {
		case best == nil || score > bestScore:
			best, bestScore = c, score
		case score == bestScore && len(c.DocumentIDs) > len(best.DocumentIDs):
			best = c
		case score == bestScore && len(c.DocumentIDs) == len(best.DocumentIDs) && c.ID < best.ID:
			best = c
		}
	}

	return best
}

// join adds the document to the cluster, merging its concept names.
func (s *ClusteringService) join(
	ctx context.Context,
	cluster *domain.Cluster,
	doc *domain.Document,
	names []string,
) (*domain.Cluster, error) {
	if !cluster.HasDocument(doc.ID) {
		cluster.DocumentIDs = append(cluster.DocumentIDs, doc.ID)
	}
	cluster.ConceptNames = unionNames(cluster.ConceptNames, names)
	cluster.UpdatedAt = time.Now().UTC()

	if err := s.clusterStore.SaveCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("save cluster: %w", err)
	}
	logger.Debug("Document %s joined cluster %q", doc.ID, cluster.Name)
	return cluster, nil
}

// create makes a new cluster seeded with the document.
func (s *ClusteringService) create(
	ctx context.Context,
	doc *domain.Document,
	name string,
	names []string,
	isDefault bool,
) (*domain.Cluster, error) {
	now := time.Now().UTC()
	cluster := &domain.Cluster{
		ID:           uuid.NewString(),
		OwnerID:      doc.OwnerID,
		Name:         name,
		IsDefault:    isDefault,
		SkillLevel:   doc.SkillLevel,
		ConceptNames: unionNames(nil, names),
		DocumentIDs:  []string{doc.ID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.clusterStore.SaveCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("save cluster: %w", err)
	}
	logger.Debug("Created cluster %q for document %s", name, doc.ID)
	return cluster, nil
}

// RemoveDocument drops a document from its cluster, rebuilding the
// concept union from the remaining members' names and deleting the
// cluster when it empties.
func (s *ClusteringService) RemoveDocument(
	ctx context.Context,
	ownerID, clusterID, docID string,
	remainingNames [][]string,
) error {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	cluster, err := s.clusterStore.GetCluster(ctx, clusterID)
	if err != nil {
		return fmt.Errorf("get cluster: %w", err)
	}

	members := cluster.DocumentIDs[:0:0]
	for _, id := range cluster.DocumentIDs {
		if id != docID {
			members = append(members, id)
		}
	}
	cluster.DocumentIDs = members

	if len(cluster.DocumentIDs) == 0 {
		if err := s.clusterStore.DeleteCluster(ctx, clusterID); err != nil {
			return fmt.Errorf("delete cluster: %w", err)
		}
		return nil
	}

	var union []string
	for _, names := range remainingNames {
		union = unionNames(union, names)
	}
	cluster.ConceptNames = union
	cluster.UpdatedAt = time.Now().UTC()

	if err := s.clusterStore.SaveCluster(ctx, cluster); err != nil {
		return fmt.Errorf("save cluster: %w", err)
	}
	return nil
}

// unionNames merges two name sets into a sorted, deduplicated slice.
func unionNames(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, name := range a {
		set[name] = struct{}{}
	}
	for _, name := range b {
		set[name] = struct{}{}
	}

	union := make([]string, 0, len(set))
	for name := range set {
		union = append(union, name)
	}
	sort.Strings(union)
	return union
}
