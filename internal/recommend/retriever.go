package recommend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/catalog"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/vectorindex"
)

// maxOverFetch caps how many candidates are pulled from the catalog to
// compensate for rejected courses.
const maxOverFetch = 50

// Retriever finds candidate courses for a profile via semantic search over
// the catalog collection.
type Retriever struct {
	index  vectorindex.Searcher
	logger *zap.Logger
}

// NewRetriever creates a course retriever over the given catalog index.
func NewRetriever(index vectorindex.Searcher, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{index: index, logger: logger}
}

// Retrieve returns up to topN recommendations for the profile, nearest first,
// with previously rejected courses excluded and batch-relative confidence
// scores attached. Index faults propagate; an empty result and a failed
// search must stay distinguishable.
func (r *Retriever) Retrieve(ctx context.Context, p *profile.UserProfile, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		topN = 5
	}

	qc := buildQueryContext(p)
	rejected := p.RejectedCourseIDs()

	fetch := topN * 3
	if fetch > maxOverFetch {
		fetch = maxOverFetch
	}

	hits, err := r.index.Query(ctx, qc.Query, fetch)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	var kept []vectorindex.Hit
	for _, h := range hits {
		if rejected[h.Metadata["id"]] {
			continue
		}
		kept = append(kept, h)
		if len(kept) == topN {
			break
		}
	}

	r.logger.Debug("catalog retrieval",
		zap.String("user", p.UserID),
		zap.Int("fetched", len(hits)),
		zap.Int("kept", len(kept)),
		zap.Int("rejected_filtered", len(rejected)),
	)

	scores := confidenceScores(kept)
	recs := make([]Recommendation, 0, len(kept))
	for i, h := range kept {
		recs = append(recs, Recommendation{
			Item:            catalog.ItemFromHit(h),
			ConfidenceScore: scores[i],
			Context:         qc,
		})
	}
	return recs, nil
}

// buildQueryContext assembles the retrieval query from the profile: goal,
// company goal, the top missing skills, and style preferences.
func buildQueryContext(p *profile.UserProfile) QueryContext {
	missing := p.TopMissingSkillLabels(3)

	parts := []string{}
	if p.Goal != "" {
		parts = append(parts, p.Goal)
	}
	if p.CompanyGoal != "" {
		parts = append(parts, p.CompanyGoal)
	}
	if len(missing) > 0 {
		parts = append(parts, "Skills to learn: "+strings.Join(missing, ", "))
	}
	if len(p.Preferences.Style) > 0 {
		parts = append(parts, "Preferred learning style: "+strings.Join(p.Preferences.Style, ", "))
	}

	return QueryContext{
		Goal:          p.Goal,
		CompanyGoal:   p.CompanyGoal,
		MissingSkills: missing,
		StylePrefs:    p.Preferences.Style,
		Query:         strings.Join(parts, ". "),
	}
}

// confidenceScores normalizes raw distances within the batch: the nearest hit
// gets the highest score, and every score lands in [0.1, 1.0]. A batch of
// identical distances carries no ranking signal, so all score 1.0.
func confidenceScores(hits []vectorindex.Hit) []float64 {
	scores := make([]float64, len(hits))
	if len(hits) == 0 {
		return scores
	}

	min, max := hits[0].Distance, hits[0].Distance
	for _, h := range hits[1:] {
		if h.Distance < min {
			min = h.Distance
		}
		if h.Distance > max {
			max = h.Distance
		}
	}

	if min == max {
		for i := range scores {
			scores[i] = 1.0
		}
		return scores
	}

	spread := float64(max - min)
	for i, h := range hits {
		s := 1.0 - float64(h.Distance-min)/spread
		if s < 0.1 {
			s = 0.1
		}
		if s > 1.0 {
			s = 1.0
		}
		scores[i] = s
	}
	return scores
}
