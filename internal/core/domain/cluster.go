package domain

import "time"

// DefaultClusterName is the cluster that collects documents with no
// extracted concepts. One such cluster exists per owner.
const DefaultClusterName = "General"

// Cluster is a named topic group of documents within one owner scope.
type Cluster struct {
	// ID is the unique cluster identifier.
	ID string

	// OwnerID identifies the owning account.
	OwnerID string

	// Name is the display name, usually suggested by the LLM.
	Name string

	// IsDefault marks the owner's catch-all cluster for documents with
	// no extracted concepts. The flag, not the display name, is what
	// identifies it: a topical cluster may legitimately be named
	// "General" too.
	IsDefault bool

	// SkillLevel is the predominant skill level of member documents.
	SkillLevel SkillLevel

	// ConceptNames is the union of all member documents' concept names.
	// It only shrinks when a member document is removed.
	ConceptNames []string

	// DocumentIDs lists member documents in join order.
	DocumentIDs []string

	// CreatedAt is when the cluster was created.
	CreatedAt time.Time

	// UpdatedAt is when membership or concepts last changed.
	UpdatedAt time.Time
}

// HasDocument reports whether the document is a member of the cluster.
func (c *Cluster) HasDocument(docID string) bool {
	for _, id := range c.DocumentIDs {
		if id == docID {
			return true
		}
	}
	return false
}
