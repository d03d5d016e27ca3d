package feedback

import "fmt"

// patternThreshold is the share of critical (adjust/reject) feedback above
// which a category is reported as a pattern.
const patternThreshold = 0.3

// patternInsights are the summary strings emitted when a category dominates
// the critical feedback.
var patternInsights = map[Category]string{
	CategoryFriction:       "User often finds courses too time-consuming or irrelevant",
	CategoryCredibility:    "User has concerns about course providers and certification value",
	CategoryBetterWay:      "User prefers more specific and practical courses",
	CategoryNegativeImpact: "User feedback suggests courses don't align well with their goals",
}

// InsightReport aggregates a profile's feedback log.
type InsightReport struct {
	Total         int                `json:"total"`
	ByType        map[Type]int       `json:"by_type"`
	ByCategory    map[Category]int   `json:"by_category"`
	RejectionRate float64            `json:"rejection_rate"`
	Patterns      []string           `json:"patterns"`
}

// Insights analyzes a feedback log: verdict totals, category breakdown over
// the stored classifications, rejection rate, and pattern strings for
// categories exceeding the share threshold among adjust/reject entries.
func Insights(log []Entry) InsightReport {
	report := InsightReport{
		Total:      len(log),
		ByType:     make(map[Type]int),
		ByCategory: make(map[Category]int),
	}
	if len(log) == 0 {
		report.Patterns = []string{"No feedback available"}
		return report
	}

	critical := 0
	for _, entry := range log {
		report.ByType[entry.Type]++
		report.ByCategory[entry.Classification.Category]++
		if entry.Type == TypeAdjust || entry.Type == TypeReject {
			critical++
		}
	}

	report.RejectionRate = float64(report.ByType[TypeReject]) / float64(len(log))

	if critical > 0 {
		threshold := float64(critical) * patternThreshold
		for _, set := range categoryKeywords {
			if float64(report.ByCategory[set.category]) > threshold {
				report.Patterns = append(report.Patterns, patternInsights[set.category])
			}
		}
	}
	if len(report.Patterns) == 0 {
		report.Patterns = []string{"No clear patterns detected yet"}
	}

	return report
}

// Summary renders a one-line overview of the report.
func (r InsightReport) Summary() string {
	return fmt.Sprintf("%d entries (%d keep, %d adjust, %d reject), rejection rate %.0f%%",
		r.Total, r.ByType[TypeKeep], r.ByType[TypeAdjust], r.ByType[TypeReject], r.RejectionRate*100)
}
