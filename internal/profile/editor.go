package profile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/taxonomy"
)

// Editor applies profile mutations, grounding skill edits in the taxonomy
// where possible. It mutates the profile in memory; callers persist via the
// Store when a batch of edits is done.
type Editor struct {
	matcher   *taxonomy.Matcher
	extractor *Extractor
	logger    *zap.Logger
}

// NewEditor creates a profile editor. The extractor may be nil when no LLM is
// configured; BuildFromBio then returns an error.
func NewEditor(matcher *taxonomy.Matcher, extractor *Extractor, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{matcher: matcher, extractor: extractor, logger: logger}
}

// SetGoal updates the user's learning goal and re-infers missing skills
// against it.
func (e *Editor) SetGoal(ctx context.Context, p *UserProfile, goal string) {
	p.Goal = strings.TrimSpace(goal)
	p.MissingSkills = e.matcher.InferMissing(ctx, p.Goal, p.KnownSkills)
}

// AddSkill grounds a raw skill phrase in the taxonomy and adds it to the
// known-skill list. A phrase with no taxonomy match is kept as a custom
// concept rather than discarded; the user knows their own skills better than
// the taxonomy does.
func (e *Editor) AddSkill(ctx context.Context, p *UserProfile, rawSkill string) taxonomy.SkillConcept {
	rawSkill = strings.TrimSpace(rawSkill)
	concept := taxonomy.SkillConcept{
		PreferredLabel: rawSkill,
		ConceptURI:     "custom:" + strings.ToLower(strings.ReplaceAll(rawSkill, " ", "-")),
	}

	if matched := e.matcher.Match(ctx, []string{rawSkill}); len(matched) > 0 {
		concept = matched[0].SkillConcept
	} else {
		e.logger.Info("no taxonomy match, keeping custom skill", zap.String("skill", rawSkill))
	}

	for _, known := range p.KnownSkills {
		if known.ConceptURI == concept.ConceptURI {
			return known
		}
	}
	p.KnownSkills = append(p.KnownSkills, concept)

	// A newly known skill is no longer missing.
	p.MissingSkills = removeByURI(p.MissingSkills, concept.ConceptURI)
	return concept
}

// RemoveSkill drops a skill from both the known and missing lists, matching
// by preferred label case-insensitively. It reports whether anything was
// removed.
func (e *Editor) RemoveSkill(p *UserProfile, label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	removed := false

	filter := func(skills []taxonomy.SkillConcept) []taxonomy.SkillConcept {
		out := skills[:0]
		for _, c := range skills {
			if strings.ToLower(c.PreferredLabel) == label {
				removed = true
				continue
			}
			out = append(out, c)
		}
		return out
	}

	p.KnownSkills = filter(p.KnownSkills)
	p.MissingSkills = filter(p.MissingSkills)
	return removed
}

// ClearFeedback wipes the feedback log, which also lifts every permanent
// course rejection.
func (e *Editor) ClearFeedback(p *UserProfile) int {
	n := len(p.FeedbackLog)
	p.FeedbackLog = p.FeedbackLog[:0]
	return n
}

// BuildFromBio extracts structured fields from a free-text bio, grounds the
// extracted skills in the taxonomy, and fills the profile. Existing skill
// lists are replaced; the feedback log is untouched.
func (e *Editor) BuildFromBio(ctx context.Context, p *UserProfile, bio string) error {
	if e.extractor == nil {
		return fmt.Errorf("profile extraction requires a configured LLM provider")
	}

	extracted, err := e.extractor.Extract(ctx, bio)
	if err != nil {
		return err
	}

	p.Blurb = strings.TrimSpace(bio)
	p.Headline = extracted.Headline
	if extracted.Goal != "" {
		p.Goal = extracted.Goal
	}

	matched := e.matcher.Match(ctx, extracted.KnownSkills)
	p.KnownSkills = make([]taxonomy.SkillConcept, 0, len(matched))
	for _, m := range matched {
		p.KnownSkills = append(p.KnownSkills, m.SkillConcept)
	}
	p.MissingSkills = e.matcher.InferMissing(ctx, p.Goal, p.KnownSkills)

	e.logger.Info("profile built from bio",
		zap.String("user", p.UserID),
		zap.Int("known_skills", len(p.KnownSkills)),
		zap.Int("missing_skills", len(p.MissingSkills)),
	)
	return nil
}

func removeByURI(skills []taxonomy.SkillConcept, uri string) []taxonomy.SkillConcept {
	out := skills[:0]
	for _, c := range skills {
		if c.ConceptURI == uri {
			continue
		}
		out = append(out, c)
	}
	return out
}
