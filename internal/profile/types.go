package profile

import (
	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/taxonomy"
)

// Preferences describe how the user likes to learn. Style preferences feed
// retrieval queries; avoid_styles is carried for the justifier prompt.
type Preferences struct {
	Format      []string `json:"format"`
	Style       []string `json:"style"`
	AvoidStyles []string `json:"avoid_styles"`
}

// UserProfile is the persisted coaching state for one user id. It is loaded
// at session start and mutated only by the review session and the profile
// editor.
type UserProfile struct {
	UserID        string                  `json:"user_id"`
	Blurb         string                  `json:"blurb"`
	Headline      string                  `json:"headline"`
	Goal          string                  `json:"goal"`
	CompanyGoal   string                  `json:"company_goal"`
	KnownSkills   []taxonomy.SkillConcept `json:"known_skills"`
	MissingSkills []taxonomy.SkillConcept `json:"missing_skills"`
	Preferences   Preferences             `json:"preferences"`
	FeedbackLog   []feedback.Entry        `json:"feedback_log"`
}

// Default returns the well-defined empty profile for a user id. A missing
// profile is not an error condition.
func Default(userID string) *UserProfile {
	return &UserProfile{
		UserID:        userID,
		KnownSkills:   []taxonomy.SkillConcept{},
		MissingSkills: []taxonomy.SkillConcept{},
		Preferences: Preferences{
			Format:      []string{},
			Style:       []string{},
			AvoidStyles: []string{},
		},
		FeedbackLog: []feedback.Entry{},
	}
}

// RejectedCourseIDs returns the set of course ids the user has rejected.
// Exclusion is permanent per profile; the only path back into eligibility
// is clearing the feedback log.
func (p *UserProfile) RejectedCourseIDs() map[string]bool {
	rejected := make(map[string]bool)
	for _, entry := range p.FeedbackLog {
		if entry.Type == feedback.TypeReject {
			rejected[entry.CourseID] = true
		}
	}
	return rejected
}

// TopMissingSkillLabels returns the preferred labels of up to n missing
// skills, in stored order.
func (p *UserProfile) TopMissingSkillLabels(n int) []string {
	if n > len(p.MissingSkills) {
		n = len(p.MissingSkills)
	}
	labels := make([]string, 0, n)
	for _, c := range p.MissingSkills[:n] {
		labels = append(labels, c.PreferredLabel)
	}
	return labels
}
