package recommend

import "github.com/coachable/course-coach/internal/catalog"

// QueryContext is a read-only snapshot of what retrieval searched for, carried
// on each recommendation so the justifier can explain the choice.
type QueryContext struct {
	Goal          string   `json:"goal"`
	CompanyGoal   string   `json:"company_goal,omitempty"`
	MissingSkills []string `json:"missing_skills"`
	StylePrefs    []string `json:"style_prefs"`
	Query         string   `json:"query"`
}

// Recommendation is a retrieved catalog item with its batch-relative
// confidence score. Justification stays empty until the justifier fills it;
// it is never invented locally.
type Recommendation struct {
	catalog.Item
	ConfidenceScore float64      `json:"confidence_score"`
	Context         QueryContext `json:"context"`
	Justification   string       `json:"justification,omitempty"`
}
