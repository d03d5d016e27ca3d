package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coachable/course-coach/internal/llm"
)

const extractionSystemPrompt = `You extract structured career information from a short professional bio.
Respond with a single JSON object and nothing else, using exactly these keys:
{
  "headline": "one-line professional headline",
  "goal": "the person's learning or career goal, empty string if none stated",
  "known_skills": ["skill phrase", ...]
}
List only skills the bio explicitly supports. Do not invent skills or goals.`

// Extraction is the structured result of reading a free-text bio.
type Extraction struct {
	Headline    string   `json:"headline"`
	Goal        string   `json:"goal"`
	KnownSkills []string `json:"known_skills"`
}

// Extractor turns a free-text bio into structured profile fields using an
// LLM. Skill phrases come back raw; grounding them in the taxonomy is the
// caller's job.
type Extractor struct {
	provider llm.Provider
	model    string
}

// NewExtractor creates a profile extractor using the given provider and model.
func NewExtractor(provider llm.Provider, model string) *Extractor {
	return &Extractor{provider: provider, model: model}
}

// Extract parses the bio. A malformed model response is a hard error carrying
// the raw content, since silently guessing at profile fields would poison
// every downstream recommendation.
func (e *Extractor) Extract(ctx context.Context, bio string) (*Extraction, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: bio},
		},
		MaxTokens:   1024,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting profile from bio: %w", err)
	}

	content := stripCodeFence(resp.Content)

	var out Extraction
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("malformed profile extraction response: %w (raw: %s)", err, resp.Content)
	}
	if out.KnownSkills == nil {
		out.KnownSkills = []string{}
	}
	return &out, nil
}

// stripCodeFence removes a surrounding markdown code fence if present. Some
// models wrap JSON output in one even when asked not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
