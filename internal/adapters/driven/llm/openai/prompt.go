package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

// extractionPrompt builds the structured prompt for concept
// extraction. The model is asked for strict JSON; parseExtraction
// validates the reply.
func extractionPrompt(sample string, kind domain.SourceKind) string {
	var b strings.Builder

	b.WriteString(`Analyse the following content and reply with strict JSON only, no prose, no code fences.

Schema:
{
  "concepts": [{"name": "<lowercase concept name>", "category": "<one of: language, framework, library, tool, platform, database, methodology, architecture, testing, devops, concept>", "confidence": <0.0-1.0>}],
  "skill_level": "<beginner|intermediate|advanced>",
  "primary_topic": "<short topic phrase>",
  "suggested_cluster_name": "<2-4 word topic group name>"`)

	if kind == domain.SourceVideoTranscript {
		b.WriteString(`,
  "video": {"title": "<video title>", "creator": "<channel or author>", "video_type": "<tutorial|talk|course|review|other>", "target_audience": "<who this is for>", "key_takeaways": ["<main point>", ...]}`)
	}

	b.WriteString("\n}\n\n")
	fmt.Fprintf(&b, "Content kind: %s\n\nContent:\n%s\n", kind, sample)
	return b.String()
}

// parseExtraction validates the model's JSON reply into a typed
// result. Categories outside the fixed set are normalised; confidence
// values are clamped to [0, 1].
func parseExtraction(reply string) (*domain.ExtractionResult, error) {
	cleaned := stripCodeFences(reply)

	var result domain.ExtractionResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("invalid extraction JSON: %w", err)
	}

	for i := range result.Concepts {
		c := &result.Concepts[i]
		c.Name = strings.ToLower(strings.TrimSpace(c.Name))
		c.Category = domain.ParseConceptCategory(string(c.Category))
		if c.Confidence < 0 {
			c.Confidence = 0
		}
		if c.Confidence > 1 {
			c.Confidence = 1
		}
	}

	// Drop concepts whose name vanished after normalisation
	kept := result.Concepts[:0]
	for _, c := range result.Concepts {
		if c.Name != "" {
			kept = append(kept, c)
		}
	}
	result.Concepts = kept

	result.SkillLevel = domain.ParseSkillLevel(string(result.SkillLevel))
	result.PrimaryTopic = strings.TrimSpace(result.PrimaryTopic)
	result.SuggestedClusterName = strings.TrimSpace(result.SuggestedClusterName)

	return &result, nil
}

// stripCodeFences tolerates models that wrap JSON in markdown fences
// despite instructions.
func stripCodeFences(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
