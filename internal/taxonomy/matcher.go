package taxonomy

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/vectorindex"
)

// Matcher grounds free-text skill phrases in the controlled taxonomy via
// semantic search over the taxonomy collection.
type Matcher struct {
	index  vectorindex.Searcher
	picker Picker
	k      int
	tieGap float64
	logger *zap.Logger
}

// NewMatcher creates a Matcher. k is the search depth per phrase and tieGap
// the distance gap between the top two hits above which the nearest hit is
// chosen deterministically; when the gap is smaller the picker selects among
// the top three.
func NewMatcher(index vectorindex.Searcher, picker Picker, k int, tieGap float64, logger *zap.Logger) *Matcher {
	if k <= 0 {
		k = 10
	}
	if picker == nil {
		picker = NewRandomPicker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		index:  index,
		picker: picker,
		k:      k,
		tieGap: tieGap,
		logger: logger,
	}
}

// Match maps each phrase to its best taxonomy concept. Output preserves
// input order; phrases that yield no usable concept are simply absent.
// A search fault on one phrase skips that phrase only, since a partial
// skill list is still useful.
func (m *Matcher) Match(ctx context.Context, skillPhrases []string) []MatchedSkill {
	var matched []MatchedSkill

	for _, raw := range skillPhrases {
		normalized := strings.ToLower(strings.TrimSpace(raw))
		if normalized == "" {
			continue
		}

		term := searchTerm(normalized)

		hits, err := m.index.Query(ctx, term, m.k)
		if err != nil {
			m.logger.Warn("taxonomy search failed, skipping phrase",
				zap.String("phrase", raw),
				zap.Error(err),
			)
			continue
		}
		if len(hits) == 0 {
			continue
		}

		concept := conceptFromHit(m.selectHit(hits))
		if concept.PreferredLabel == NoMatchLabel {
			continue
		}

		matched = append(matched, MatchedSkill{
			RawSkill:     raw,
			SkillConcept: concept,
		})
	}

	return matched
}

// selectHit applies the tie-break policy over the nearest hits: when the top
// two are separated by more than tieGap the nearest wins outright, otherwise
// the picker chooses among the top three. Committing to the single nearest
// neighbor is not more justified than sampling when the candidates sit
// within embedding noise of each other.
func (m *Matcher) selectHit(hits []vectorindex.Hit) vectorindex.Hit {
	top := hits
	if len(top) > 3 {
		top = top[:3]
	}

	if len(top) >= 2 && float64(top[1].Distance-top[0].Distance) > m.tieGap {
		return top[0]
	}
	return top[m.picker.Pick(len(top))]
}

// InferMissing searches the taxonomy with the user's goal text and returns
// up to five concepts not already known. Faults are soft here for the same
// reason as Match: a goal with no inferable gaps is a usable outcome.
func (m *Matcher) InferMissing(ctx context.Context, goal string, known []SkillConcept) []SkillConcept {
	if strings.TrimSpace(goal) == "" {
		return nil
	}

	hits, err := m.index.Query(ctx, goal, m.k)
	if err != nil {
		m.logger.Warn("missing-skill inference failed", zap.Error(err))
		return nil
	}

	knownURIs := make(map[string]bool, len(known))
	for _, c := range known {
		knownURIs[c.ConceptURI] = true
	}

	var inferred []SkillConcept
	for _, h := range hits {
		c := conceptFromHit(h)
		if c.PreferredLabel == NoMatchLabel || knownURIs[c.ConceptURI] {
			continue
		}
		inferred = append(inferred, c)
		if len(inferred) == 5 {
			break
		}
	}

	return inferred
}
