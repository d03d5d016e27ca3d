package profile

import (
	"context"
	"testing"
	"time"

	"github.com/coachable/course-coach/internal/db"
	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/taxonomy"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLoadMissingProfileReturnsDefault(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.UserID != "nobody" {
		t.Errorf("UserID = %q, want %q", p.UserID, "nobody")
	}
	if len(p.KnownSkills) != 0 || len(p.FeedbackLog) != 0 {
		t.Errorf("expected empty default profile, got %+v", p)
	}
	if p.KnownSkills == nil {
		t.Error("default profile should use empty slices, not nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := Default("alice")
	p.Headline = "Backend engineer"
	p.Goal = "move into platform engineering"
	p.CompanyGoal = "improve delivery reliability"
	p.KnownSkills = []taxonomy.SkillConcept{
		{PreferredLabel: "Go", ConceptURI: "esco:go", Description: "Go programming"},
	}
	p.MissingSkills = []taxonomy.SkillConcept{
		{PreferredLabel: "Kubernetes", ConceptURI: "esco:k8s"},
	}
	p.Preferences.Style = []string{"hands-on"}
	p.FeedbackLog = []feedback.Entry{
		{
			CourseID:    "c-1",
			CourseTitle: "Intro to Kubernetes",
			Type:        feedback.TypeReject,
			Reason:      "too long",
			Classification: feedback.Classification{
				Category:   feedback.CategoryFriction,
				Confidence: feedback.ConfidenceMedium,
				Reasoning:  "matched friction keywords",
			},
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			CourseID: "c-2",
			Type:     feedback.TypeKeep,
			Reason:   "good fit",
		},
	}

	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Goal != p.Goal || got.Headline != p.Headline {
		t.Errorf("profile fields lost: got %+v", got)
	}
	if len(got.KnownSkills) != 1 || got.KnownSkills[0].ConceptURI != "esco:go" {
		t.Errorf("KnownSkills = %+v", got.KnownSkills)
	}
	if len(got.FeedbackLog) != 2 {
		t.Fatalf("FeedbackLog length = %d, want 2", len(got.FeedbackLog))
	}
	if got.FeedbackLog[0].CourseID != "c-1" || got.FeedbackLog[1].CourseID != "c-2" {
		t.Errorf("feedback order not preserved: %+v", got.FeedbackLog)
	}
	if got.FeedbackLog[0].Classification.Category != feedback.CategoryFriction {
		t.Errorf("classification lost: %+v", got.FeedbackLog[0].Classification)
	}
	if !got.FeedbackLog[0].Timestamp.Equal(p.FeedbackLog[0].Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.FeedbackLog[0].Timestamp, p.FeedbackLog[0].Timestamp)
	}
}

func TestSaveReplacesFeedbackLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := Default("bob")
	p.FeedbackLog = []feedback.Entry{
		{CourseID: "c-1", Type: feedback.TypeKeep},
		{CourseID: "c-2", Type: feedback.TypeReject},
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	p.FeedbackLog = []feedback.Entry{
		{CourseID: "c-3", Type: feedback.TypeAdjust},
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.FeedbackLog) != 1 || got.FeedbackLog[0].CourseID != "c-3" {
		t.Errorf("FeedbackLog = %+v, want single c-3 entry", got.FeedbackLog)
	}
}

func TestRejectedCourseIDs(t *testing.T) {
	p := Default("carol")
	p.FeedbackLog = []feedback.Entry{
		{CourseID: "c-1", Type: feedback.TypeKeep},
		{CourseID: "c-2", Type: feedback.TypeReject},
		{CourseID: "c-3", Type: feedback.TypeAdjust},
		{CourseID: "c-4", Type: feedback.TypeReject},
	}

	rejected := p.RejectedCourseIDs()
	if len(rejected) != 2 || !rejected["c-2"] || !rejected["c-4"] {
		t.Errorf("RejectedCourseIDs = %v", rejected)
	}
}
