package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/llm"
	"github.com/coachable/course-coach/internal/logger"
	"github.com/coachable/course-coach/internal/profile"
)

// ErrMalformedJustification wraps a justifier response that could not be
// parsed as the expected JSON array. The raw response travels with it for
// diagnosis.
var ErrMalformedJustification = errors.New("malformed justification response")

// maxPromptTokens bounds the justifier prompt. A profile with a huge skill
// list or a giant batch should fail loudly rather than get silently truncated
// by the backend.
const maxPromptTokens = 6000

const justifierPrompt = `You are a helpful career learning assistant.

The user has the following goal:
- %s

Known skills:
- %s

Missing skills to improve:
- %s

Learning preferences:
- Format: %s
- Style: %s
- Avoid styles: %s

Recent feedback history (structured data):
%s

Recommended courses:
%s

For each course, briefly explain *why* it fits this user's goal and preferences, especially considering past feedback. Never invent facts about a course beyond what is listed.

Respond with a JSON array and nothing else, in this exact format:
[
  {"course_id": "...", "justification": "..."},
  ...
]`

// Justifier fills per-recommendation justification text using an LLM.
type Justifier struct {
	provider    llm.Provider
	model       string
	maxTokens   int
	temperature float64
}

// NewJustifier creates a justifier using the given provider and model.
// maxTokens and temperature bound the completion; zero maxTokens falls
// back to a sensible default.
func NewJustifier(provider llm.Provider, model string, maxTokens int, temperature float64) *Justifier {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Justifier{provider: provider, model: model, maxTokens: maxTokens, temperature: temperature}
}

// Justify fills the Justification field of each recommendation in place.
// Course ids the model does not mention keep an empty justification; nothing
// is ever made up on their behalf. A response that does not parse is a hard
// error carrying the raw text.
func (j *Justifier) Justify(ctx context.Context, p *profile.UserProfile, recs []Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	prompt := buildJustifierPrompt(p, recs)
	if n := llm.EstimateTokens(prompt); n > maxPromptTokens {
		return fmt.Errorf("justification prompt too large (~%d tokens)", n)
	}

	resp, err := j.provider.Complete(ctx, llm.CompletionRequest{
		Model: j.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   j.maxTokens,
		Temperature: j.temperature,
	})
	if err != nil {
		return fmt.Errorf("requesting justifications: %w", err)
	}

	parsed, err := parseJustifications(resp.Content)
	if err != nil {
		return err
	}

	for i := range recs {
		if text, ok := parsed[recs[i].ID]; ok {
			recs[i].Justification = text
		}
	}
	return nil
}

func buildJustifierPrompt(p *profile.UserProfile, recs []Recommendation) string {
	known := make([]string, len(p.KnownSkills))
	for i, c := range p.KnownSkills {
		known[i] = c.PreferredLabel
	}
	missing := make([]string, len(p.MissingSkills))
	for i, c := range p.MissingSkills {
		missing[i] = c.PreferredLabel
	}

	courseLines := make([]string, len(recs))
	for i, r := range recs {
		courseLines[i] = fmt.Sprintf("- [%s] %s (%s) | Level: %s | Format: %s | Skills: %s",
			r.ID, r.Title, r.Provider, orNA(r.Level), orNA(r.Format), strings.Join(r.Skills, ", "))
	}

	return fmt.Sprintf(justifierPrompt,
		p.Goal,
		strings.Join(known, ", "),
		strings.Join(missing, ", "),
		strings.Join(p.Preferences.Format, ", "),
		strings.Join(p.Preferences.Style, ", "),
		strings.Join(p.Preferences.AvoidStyles, ", "),
		recentFeedbackJSON(p.FeedbackLog),
		strings.Join(courseLines, "\n"),
	)
}

// recentFeedbackJSON renders the last three feedback entries; the full log
// would blow the prompt up without adding signal.
func recentFeedbackJSON(log []feedback.Entry) string {
	if len(log) > 3 {
		log = log[len(log)-3:]
	}
	b, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

func parseJustifications(content string) (map[string]string, error) {
	trimmed := strings.TrimSpace(content)
	if i := strings.Index(trimmed, "```"); i >= 0 {
		trimmed = strings.TrimPrefix(trimmed[i:], "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if j := strings.LastIndex(trimmed, "```"); j >= 0 {
			trimmed = trimmed[:j]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	var items []struct {
		CourseID      string `json:"course_id"`
		Justification string `json:"justification"`
	}
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", ErrMalformedJustification, err,
			logger.TruncateForLog(content, 2000))
	}

	out := make(map[string]string, len(items))
	for _, item := range items {
		if item.CourseID != "" {
			out[item.CourseID] = item.Justification
		}
	}
	return out, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
