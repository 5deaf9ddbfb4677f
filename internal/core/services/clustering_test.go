package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/adapters/driven/storage/memory"
	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"identical", []string{"python", "docker"}, []string{"python", "docker"}, 1.0},
		{"disjoint", []string{"python"}, []string{"rust"}, 0.0},
		{"partial", []string{"python", "docker"}, []string{"python", "fastapi"}, 1.0 / 3.0},
		{"both empty", nil, nil, 0.0},
		{"one empty", []string{"python"}, nil, 0.0},
		{"duplicates ignored", []string{"python", "python"}, []string{"python"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestJaccard_Symmetric(t *testing.T) {
	a := []string{"python", "fastapi", "pydantic"}
	b := []string{"python", "docker"}

	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func testDoc(id, owner string, concepts ...string) *domain.Document {
	doc := &domain.Document{
		ID:      id,
		OwnerID: owner,
	}
	for _, name := range concepts {
		doc.Concepts = append(doc.Concepts, domain.Concept{
			Name:       name,
			Category:   domain.CategoryConcept,
			Confidence: 0.9,
		})
	}
	return doc
}

func TestClusteringService_Assign_CreatesFirstCluster(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	doc := testDoc("doc-1", "owner-1", "python", "fastapi")
	cluster, err := svc.Assign(ctx, doc, "Web APIs")

	require.NoError(t, err)
	assert.Equal(t, "Web APIs", cluster.Name)
	assert.Equal(t, []string{"doc-1"}, cluster.DocumentIDs)
	assert.Equal(t, []string{"fastapi", "python"}, cluster.ConceptNames)
}

func TestClusteringService_Assign_JoinsMostSimilar(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	now := time.Now()
	containers := &domain.Cluster{
		ID: "cluster-1", OwnerID: "owner-1", Name: "Containers",
		ConceptNames: []string{"docker", "python"},
		DocumentIDs:  []string{"doc-a"},
		CreatedAt:    now, UpdatedAt: now,
	}
	webAPIs := &domain.Cluster{
		ID: "cluster-2", OwnerID: "owner-1", Name: "Web APIs",
		ConceptNames: []string{"fastapi", "python"},
		DocumentIDs:  []string{"doc-b"},
		CreatedAt:    now, UpdatedAt: now,
	}
	require.NoError(t, store.SaveCluster(ctx, containers))
	require.NoError(t, store.SaveCluster(ctx, webAPIs))

	// {python, fastapi, pydantic} vs {python, docker} = 1/4,
	// vs {python, fastapi} = 2/3. Joins the second.
	cluster, err := svc.Assign(ctx, testDoc("doc-c", "owner-1", "python", "fastapi", "pydantic"), "ignored")

	require.NoError(t, err)
	assert.Equal(t, webAPIs.ID, cluster.ID)
	assert.Equal(t, []string{"doc-b", "doc-c"}, cluster.DocumentIDs)
	assert.Equal(t, []string{"fastapi", "pydantic", "python"}, cluster.ConceptNames)
}

func TestClusteringService_Assign_BelowThresholdCreatesNew(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	_, err := svc.Assign(ctx, testDoc("doc-a", "owner-1", "python", "docker"), "Containers")
	require.NoError(t, err)

	// {rust, wasm} has zero overlap with {python, docker}.
	cluster, err := svc.Assign(ctx, testDoc("doc-b", "owner-1", "rust", "wasm"), "Systems")

	require.NoError(t, err)
	assert.Equal(t, "Systems", cluster.Name)
	assert.Equal(t, []string{"doc-b"}, cluster.DocumentIDs)

	clusters, err := store.ListClustersForOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, clusters, 2)
}

func TestClusteringService_Assign_NoConceptsGoesToDefault(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	first, err := svc.Assign(ctx, testDoc("doc-a", "owner-1"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClusterName, first.Name)
	assert.True(t, first.IsDefault)

	second, err := svc.Assign(ctx, testDoc("doc-b", "owner-1"), "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"doc-a", "doc-b"}, second.DocumentIDs)
}

func TestClusteringService_Assign_TopicalClusterNamedGeneral(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	// A topical cluster may carry the literal name "General" without
	// being the catch-all. Only the flag excludes it from matching.
	now := time.Now()
	topical := &domain.Cluster{
		ID: "cluster-1", OwnerID: "owner-1", Name: "General",
		ConceptNames: []string{"python", "fastapi"},
		DocumentIDs:  []string{"doc-a"},
		CreatedAt:    now, UpdatedAt: now,
	}
	require.NoError(t, store.SaveCluster(ctx, topical))

	cluster, err := svc.Assign(ctx, testDoc("doc-b", "owner-1", "python", "fastapi"), "")
	require.NoError(t, err)
	assert.Equal(t, topical.ID, cluster.ID)
	assert.Equal(t, []string{"doc-a", "doc-b"}, cluster.DocumentIDs)

	// A document without concepts still gets its own catch-all cluster
	// rather than landing in the same-named topical one.
	fallback, err := svc.Assign(ctx, testDoc("doc-c", "owner-1"), "")
	require.NoError(t, err)
	assert.NotEqual(t, topical.ID, fallback.ID)
	assert.True(t, fallback.IsDefault)
}

func TestClusteringService_Assign_Concurrent(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	const docs = 8
	var wg sync.WaitGroup
	errs := make([]error, docs)
	for i := 0; i < docs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := testDoc(fmt.Sprintf("doc-%d", i), "owner-1", "python", "fastapi")
			_, errs[i] = svc.Assign(ctx, doc, "Web APIs")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "doc-%d", i)
	}

	// Identical concept sets always clear the similarity threshold, so
	// every document after the first joins the cluster it created.
	clusters, err := store.ListClustersForOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].DocumentIDs, docs)
}

func TestClusteringService_Assign_OwnerScoped(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	_, err := svc.Assign(ctx, testDoc("doc-a", "owner-1", "python"), "Python")
	require.NoError(t, err)

	// The same concepts for another owner never join owner-1's cluster.
	cluster, err := svc.Assign(ctx, testDoc("doc-b", "owner-2", "python"), "Python")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-b"}, cluster.DocumentIDs)

	owner1, err := store.ListClustersForOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owner1, 1)
	assert.Equal(t, []string{"doc-a"}, owner1[0].DocumentIDs)
}

func TestClusteringService_Assign_TieBreaksOnMemberCount(t *testing.T) {
	store := memory.NewClusterStore()
	ctx := context.Background()

	// Two clusters with identical concept sets but different sizes.
	now := time.Now()
	small := &domain.Cluster{
		ID: "cluster-b", OwnerID: "owner-1", Name: "Small",
		ConceptNames: []string{"go", "testing"},
		DocumentIDs:  []string{"d1"},
		CreatedAt:    now, UpdatedAt: now,
	}
	large := &domain.Cluster{
		ID: "cluster-a", OwnerID: "owner-1", Name: "Large",
		ConceptNames: []string{"go", "testing"},
		DocumentIDs:  []string{"d2", "d3"},
		CreatedAt:    now, UpdatedAt: now,
	}
	require.NoError(t, store.SaveCluster(ctx, small))
	require.NoError(t, store.SaveCluster(ctx, large))

	svc := NewClusteringService(store)
	cluster, err := svc.Assign(ctx, testDoc("doc-x", "owner-1", "go", "testing"), "")

	require.NoError(t, err)
	assert.Equal(t, "cluster-a", cluster.ID)
}

func TestClusteringService_Assign_SuggestedNameFallsBackToTopic(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	doc := testDoc("doc-1", "owner-1", "kubernetes")
	doc.PrimaryTopic = "Container Orchestration"

	cluster, err := svc.Assign(ctx, doc, "")
	require.NoError(t, err)
	assert.Equal(t, "Container Orchestration", cluster.Name)
}

func TestClusteringService_RemoveDocument_DeletesEmptyCluster(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	cluster, err := svc.Assign(ctx, testDoc("doc-1", "owner-1", "python"), "Python")
	require.NoError(t, err)

	err = svc.RemoveDocument(ctx, "owner-1", cluster.ID, "doc-1", nil)
	require.NoError(t, err)

	_, err = store.GetCluster(ctx, cluster.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClusteringService_RemoveDocument_RebuildsConceptUnion(t *testing.T) {
	store := memory.NewClusterStore()
	svc := NewClusteringService(store)
	ctx := context.Background()

	cluster, err := svc.Assign(ctx, testDoc("doc-1", "owner-1", "python", "docker"), "Infra")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, testDoc("doc-2", "owner-1", "python", "kubernetes"), "")
	require.NoError(t, err)

	err = svc.RemoveDocument(ctx, "owner-1", cluster.ID, "doc-1",
		[][]string{{"python", "kubernetes"}})
	require.NoError(t, err)

	got, err := store.GetCluster(ctx, cluster.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-2"}, got.DocumentIDs)
	assert.Equal(t, []string{"kubernetes", "python"}, got.ConceptNames)
}
