package feedback

import "strings"

// Keyword sets per category. A keyword present in the reason text scores 1
// point; multi-word keywords score an extra 0.5 on match. Declaration order
// doubles as the tie-break priority.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryFriction, []string{
		"too long", "time consuming", "takes too much time", "too many hours",
		"don't have time", "too intensive", "not relevant", "irrelevant",
		"doesn't match", "off topic", "not what i need", "waste of time",
		"too difficult", "too advanced", "too basic", "wrong level",
	}},
	{CategoryCredibility, []string{
		"certification", "not certified", "not accredited", "provider",
		"don't trust", "unreliable", "unknown provider", "questionable",
		"credentials", "diploma", "certificate", "accreditation",
		"not recognized", "bureaucratic", "paperwork",
	}},
	{CategoryBetterWay, []string{
		"too broad", "too general", "not specific", "not practical",
		"too theoretical", "not hands-on", "need more specific", "vague",
		"too abstract", "prefer different approach", "better way",
		"different method", "more focused", "more targeted",
	}},
	{CategoryNegativeImpact, []string{
		"doesn't align", "not aligned", "wrong direction", "off track",
		"doesn't cover", "missing skills", "wrong skills", "not helpful",
		"contradicts goals", "opposite direction", "doesn't fit goals",
		"not what i want to learn", "different path",
	}},
}

// categoryReasonings are the fixed human-readable explanations attached per
// category.
var categoryReasonings = map[Category]string{
	CategoryFriction:       "Course perceived as not relevant or too time-consuming",
	CategoryCredibility:    "Concerns about provider credibility or certification value",
	CategoryBetterWay:      "Course too broad, theoretical, or not practical enough",
	CategoryNegativeImpact: "Course doesn't align with goals or cover needed skills",
}

// Classify categorizes a feedback reason. It is pure and deterministic with
// no external calls; an LLM classifier may be layered in front, but this
// rule-based form must always produce a result. A keep verdict is positive
// regardless of text; blank text is unknown; otherwise the four keyword sets
// are scored and the best one wins, with ties resolved by declaration order.
func Classify(reasonText string, feedbackType Type) Classification {
	if feedbackType == TypeKeep {
		return Classification{
			Category:   CategoryPositive,
			Confidence: ConfidenceHigh,
			Reasoning:  "user approved the recommendation",
		}
	}

	if strings.TrimSpace(reasonText) == "" {
		return Classification{
			Category:   CategoryUnknown,
			Confidence: ConfidenceLow,
			Reasoning:  "no feedback text provided",
		}
	}

	text := strings.ToLower(strings.TrimSpace(reasonText))

	best := Classification{
		Category:   CategoryOther,
		Confidence: ConfidenceLow,
		Reasoning:  "could not classify based on available keywords",
	}
	var bestScore float64

	for _, set := range categoryKeywords {
		score := keywordScore(text, set.keywords)
		if score > bestScore {
			bestScore = score
			best = Classification{
				Category:  set.category,
				Reasoning: categoryReasonings[set.category],
			}
		}
	}

	if bestScore == 0 {
		return best
	}

	switch {
	case bestScore >= 2:
		best.Confidence = ConfidenceHigh
	case bestScore >= 1:
		best.Confidence = ConfidenceMedium
	default:
		best.Confidence = ConfidenceLow
	}

	return best
}

// keywordScore sums 1 point per keyword found in text, plus a 0.5 bonus for
// multi-word phrases since an exact phrase match is stronger evidence.
func keywordScore(text string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score++
			if strings.Contains(kw, " ") {
				score += 0.5
			}
		}
	}
	return score
}
