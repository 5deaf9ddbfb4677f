package domain

import "time"

// SourceKind identifies the origin of an ingested document.
type SourceKind string

const (
	// SourceText is pasted or typed plain text.
	SourceText SourceKind = "text"

	// SourceURL is a fetched web page.
	SourceURL SourceKind = "url"

	// SourceFile is an uploaded file of any supported format.
	SourceFile SourceKind = "file"

	// SourceImage is an image whose text arrives via OCR.
	SourceImage SourceKind = "image"

	// SourceVideoTranscript is a transcript of video content.
	SourceVideoTranscript SourceKind = "video_transcript"

	// SourceAudioTranscript is a transcript of audio content.
	SourceAudioTranscript SourceKind = "audio_transcript"
)

// SkillLevel is the detected difficulty of a document's content.
type SkillLevel string

const (
	// SkillBeginner indicates introductory material.
	SkillBeginner SkillLevel = "beginner"

	// SkillIntermediate indicates material assuming working knowledge.
	SkillIntermediate SkillLevel = "intermediate"

	// SkillAdvanced indicates expert-level material.
	SkillAdvanced SkillLevel = "advanced"

	// SkillUnknown is used when no level could be determined.
	SkillUnknown SkillLevel = "unknown"
)

// ParseSkillLevel maps arbitrary input to a known skill level.
// Unrecognised values map to SkillUnknown.
func ParseSkillLevel(s string) SkillLevel {
	switch SkillLevel(s) {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return SkillLevel(s)
	default:
		return SkillUnknown
	}
}

// Document represents one ingested unit of knowledge.
// It is the canonical representation after format extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID identifies the owning account. Cluster assignment and
	// listing are always scoped to a single owner.
	OwnerID string

	// SourceKind is the origin of the document (text, url, file, ...).
	SourceKind SourceKind

	// URI is the original location (file path, URL) when known.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full normalised text after format extraction.
	Content string

	// SizeBytes is the size of the raw input in bytes.
	SizeBytes int64

	// SkillLevel is the detected difficulty of the content.
	SkillLevel SkillLevel

	// PrimaryTopic is a short topic phrase for the document.
	PrimaryTopic string

	// Concepts are the extracted concepts. Only entries at or above the
	// configured confidence threshold are ever stored here.
	Concepts []Concept

	// ClusterID is the assigned topic cluster, nil until assignment.
	ClusterID *string

	// Stage is the current ingestion stage of the document.
	Stage Stage

	// Progress is the ingestion progress percent (0-100).
	Progress int

	// Metadata contains extractor- and source-specific key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was accepted for ingestion.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time
}

// ConceptNames returns the names of the document's concepts.
func (d *Document) ConceptNames() []string {
	names := make([]string, 0, len(d.Concepts))
	for _, c := range d.Concepts {
		names = append(names, c.Name)
	}
	return names
}

// Chunk represents a searchable slice of a document's content.
// Chunks are produced by the optional chunking stage.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
