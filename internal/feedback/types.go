package feedback

import "time"

// Type is the user's structured verdict on a recommended course.
type Type string

const (
	TypeKeep   Type = "keep"
	TypeAdjust Type = "adjust"
	TypeReject Type = "reject"
)

// IsValid reports whether t is one of the three recognized verdicts.
func (t Type) IsValid() bool {
	switch t {
	case TypeKeep, TypeAdjust, TypeReject:
		return true
	}
	return false
}

// DefaultReason is the fixed label recorded when the user gives no free-text
// reason for a verdict.
func (t Type) DefaultReason() string {
	switch t {
	case TypeKeep:
		return "good fit"
	case TypeAdjust:
		return "close, needs refinement"
	case TypeReject:
		return "not suitable"
	}
	return string(t)
}

// Category buckets the interpreted meaning of a feedback reason.
type Category string

const (
	CategoryFriction       Category = "friction"
	CategoryCredibility    Category = "credibility"
	CategoryBetterWay      Category = "better_way"
	CategoryNegativeImpact Category = "negative_impact"
	CategoryPositive       Category = "positive"
	CategoryUnknown        Category = "unknown"
	CategoryOther          Category = "other"
)

// Confidence grades how certain the classifier is about its category.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Classification is the categorized interpretation of a feedback reason.
type Classification struct {
	Category   Category   `json:"category"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// Entry is one recorded verdict in a profile's feedback log. Entries are
// append-only except for the single tail overwrite the review session
// performs when collecting a reason.
type Entry struct {
	CourseID       string         `json:"course_id"`
	CourseTitle    string         `json:"course_title"`
	Type           Type           `json:"feedback_type"`
	Reason         string         `json:"reason"`
	Classification Classification `json:"classification"`
	Timestamp      time.Time      `json:"timestamp"`
}
