package domain

// ConceptCategory classifies what kind of thing a concept refers to.
type ConceptCategory string

// The fixed set of concept categories. Extraction results outside this
// set are normalised to CategoryConcept.
const (
	CategoryLanguage     ConceptCategory = "language"
	CategoryFramework    ConceptCategory = "framework"
	CategoryLibrary      ConceptCategory = "library"
	CategoryTool         ConceptCategory = "tool"
	CategoryPlatform     ConceptCategory = "platform"
	CategoryDatabase     ConceptCategory = "database"
	CategoryMethodology  ConceptCategory = "methodology"
	CategoryArchitecture ConceptCategory = "architecture"
	CategoryTesting      ConceptCategory = "testing"
	CategoryDevOps       ConceptCategory = "devops"
	CategoryConcept      ConceptCategory = "concept"
)

// ParseConceptCategory maps arbitrary input to a known category.
func ParseConceptCategory(s string) ConceptCategory {
	switch ConceptCategory(s) {
	case CategoryLanguage, CategoryFramework, CategoryLibrary, CategoryTool,
		CategoryPlatform, CategoryDatabase, CategoryMethodology,
		CategoryArchitecture, CategoryTesting, CategoryDevOps, CategoryConcept:
		return ConceptCategory(s)
	default:
		return CategoryConcept
	}
}

// Concept is a normalised (name, category, confidence) triple extracted
// from document text, representing a technology or topic mentioned.
type Concept struct {
	// Name is the normalised concept name (e.g., "docker").
	Name string `json:"name"`

	// Category classifies the concept.
	Category ConceptCategory `json:"category"`

	// Confidence is the extraction confidence in [0.0, 1.0].
	Confidence float64 `json:"confidence"`
}
