package domain

// ExtractionResult is the validated output of concept extraction.
// The LLM's response is parsed into this shape; responses that cannot
// be parsed fall back to EmptyExtraction rather than an untyped map.
type ExtractionResult struct {
	// Concepts are the extracted concepts after confidence filtering.
	Concepts []Concept `json:"concepts"`

	// SkillLevel is the overall detected difficulty.
	SkillLevel SkillLevel `json:"skill_level"`

	// PrimaryTopic is a short phrase naming the dominant topic.
	PrimaryTopic string `json:"primary_topic"`

	// SuggestedClusterName is the LLM's suggestion for a new cluster.
	SuggestedClusterName string `json:"suggested_cluster_name"`

	// Video carries transcript-specific metadata. Nil unless the source
	// was a video transcript.
	Video *VideoMetadata `json:"video,omitempty"`
}

// VideoMetadata is additional context extracted from video transcripts.
// It is threaded into the Document's metadata, not its concepts.
type VideoMetadata struct {
	// Title is the video title as inferred from the transcript.
	Title string `json:"title"`

	// Creator is the channel or author name.
	Creator string `json:"creator"`

	// VideoType describes the format (tutorial, talk, course, ...).
	VideoType string `json:"video_type"`

	// TargetAudience describes who the video is aimed at.
	TargetAudience string `json:"target_audience"`

	// KeyTakeaways are the main points of the video.
	KeyTakeaways []string `json:"key_takeaways"`
}

// EmptyExtraction returns the degraded-mode result used when the LLM
// capability is unavailable: no concepts, unknown skill level.
func EmptyExtraction() *ExtractionResult {
	return &ExtractionResult{
		Concepts:   []Concept{},
		SkillLevel: SkillUnknown,
	}
}
