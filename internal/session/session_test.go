package session

import (
	"context"
	"errors"
	"testing"

	"github.com/coachable/course-coach/internal/catalog"
	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
)

type stubRetriever struct {
	batch []recommend.Recommendation
	err   error
	calls int
}

func (r *stubRetriever) Retrieve(_ context.Context, p *profile.UserProfile, _ int) ([]recommend.Recommendation, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	rejected := p.RejectedCourseIDs()
	var out []recommend.Recommendation
	for _, item := range r.batch {
		if !rejected[item.ID] {
			out = append(out, item)
		}
	}
	return out, nil
}

type memStore struct {
	saves int
}

func (m *memStore) Save(context.Context, *profile.UserProfile) error {
	m.saves++
	return nil
}

func rec(id, title string) recommend.Recommendation {
	return recommend.Recommendation{Item: catalog.Item{ID: id, Title: title}}
}

func newTestSession(batch ...recommend.Recommendation) (*Session, *memStore) {
	store := &memStore{}
	s := New(profile.Default("u1"), &stubRetriever{batch: batch}, store, 5, nil)
	return s, store
}

func TestStartPresentsFirstCourse(t *testing.T) {
	s, _ := newTestSession(rec("c-1", "A"), rec("c-2", "B"))
	if s.State() != StateIdle {
		t.Fatalf("initial state = %q", s.State())
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StatePresenting {
		t.Fatalf("state = %q, want presenting", s.State())
	}
	cur, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.ID != "c-1" {
		t.Errorf("current = %q, want c-1", cur.ID)
	}
}

func TestStartWithEmptyBatchCompletes(t *testing.T) {
	s, _ := newTestSession()
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateCompleted {
		t.Errorf("state = %q, want completed", s.State())
	}
	if !s.EmptyResult() {
		t.Error("EmptyResult should report true for an empty batch")
	}
}

func TestStartPropagatesRetrieverFault(t *testing.T) {
	s := New(profile.Default("u1"), &stubRetriever{err: errors.New("index offline")}, &memStore{}, 5, nil)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected retriever fault to propagate")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle after failed start", s.State())
	}
}

func TestKeepAdvancesImmediately(t *testing.T) {
	s, store := newTestSession(rec("c-1", "A"), rec("c-2", "B"))
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.OnDecision(ctx, feedback.TypeKeep); err != nil {
		t.Fatalf("OnDecision: %v", err)
	}
	if s.State() != StatePresenting {
		t.Errorf("state = %q, want presenting next course", s.State())
	}
	cur, _ := s.Current()
	if cur.ID != "c-2" {
		t.Errorf("current = %q, want c-2", cur.ID)
	}

	log := s.Log()
	if len(log) != 1 {
		t.Fatalf("log length = %d", len(log))
	}
	if log[0].Reason != "good fit" || log[0].Classification.Category != feedback.CategoryPositive {
		t.Errorf("keep entry = %+v", log[0])
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestRejectAwaitsReasonThenFinalizes(t *testing.T) {
	s, store := newTestSession(rec("c-1", "A"), rec("c-2", "B"))
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.OnDecision(ctx, feedback.TypeReject); err != nil {
		t.Fatalf("OnDecision: %v", err)
	}
	if s.State() != StateAwaitingReason {
		t.Fatalf("state = %q, want awaiting_reason", s.State())
	}

	// Provisional entry is already persisted with the default reason.
	if log := s.Log(); len(log) != 1 || log[0].Reason != "not suitable" {
		t.Fatalf("provisional log = %+v", log)
	}
	if store.saves != 1 {
		t.Errorf("saves after decision = %d, want 1", store.saves)
	}

	if err := s.OnReason(ctx, "too long and outdated"); err != nil {
		t.Fatalf("OnReason: %v", err)
	}
	log := s.Log()
	if len(log) != 1 {
		t.Fatalf("reason should overwrite the tail, log = %+v", log)
	}
	if log[0].Reason != "too long and outdated" {
		t.Errorf("reason = %q", log[0].Reason)
	}
	if log[0].Classification.Category != feedback.CategoryFriction {
		t.Errorf("category = %q, want friction", log[0].Classification.Category)
	}
	if s.State() != StatePresenting {
		t.Errorf("state = %q, want presenting next course", s.State())
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}
}

func TestBlankReasonKeepsDefaultLabel(t *testing.T) {
	s, _ := newTestSession(rec("c-1", "A"))
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.OnDecision(ctx, feedback.TypeAdjust); err != nil {
		t.Fatal(err)
	}
	if err := s.OnReason(ctx, "   "); err != nil {
		t.Fatalf("OnReason: %v", err)
	}

	log := s.Log()
	if log[0].Reason != "close, needs refinement" {
		t.Errorf("reason = %q, want adjust default", log[0].Reason)
	}
	if log[0].Type != feedback.TypeAdjust {
		t.Errorf("type = %q, want adjust", log[0].Type)
	}
}

func TestOutOfOrderEvents(t *testing.T) {
	s, _ := newTestSession(rec("c-1", "A"))
	ctx := context.Background()

	if err := s.OnDecision(ctx, feedback.TypeKeep); !errors.Is(err, ErrNotPresenting) {
		t.Errorf("decision before start: %v, want ErrNotPresenting", err)
	}
	if err := s.OnReason(ctx, "x"); !errors.Is(err, ErrNotAwaitingReason) {
		t.Errorf("reason before start: %v, want ErrNotAwaitingReason", err)
	}

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.OnReason(ctx, "x"); !errors.Is(err, ErrNotAwaitingReason) {
		t.Errorf("reason while presenting: %v, want ErrNotAwaitingReason", err)
	}
	if err := s.OnDecision(ctx, feedback.Type("approve")); err == nil {
		t.Error("unknown feedback type should be rejected")
	}
}

func TestInconsistentLogTailFallsBackToReject(t *testing.T) {
	s, _ := newTestSession(rec("c-1", "A"), rec("c-2", "B"))
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.OnDecision(ctx, feedback.TypeAdjust); err != nil {
		t.Fatal(err)
	}

	// Simulate external mutation of the log between decision and reason.
	s.profile.FeedbackLog[len(s.profile.FeedbackLog)-1].CourseID = "someone-else"

	err := s.OnReason(ctx, "whatever")
	if !errors.Is(err, ErrInconsistentLogTail) {
		t.Fatalf("err = %v, want ErrInconsistentLogTail", err)
	}

	// The foreign tail entry is replaced, not kept alongside the fallback.
	log := s.Log()
	if len(log) != 1 {
		t.Fatalf("log length = %d, want 1 (tail replaced)", len(log))
	}
	tail := log[0]
	if tail.CourseID != "c-1" || tail.Type != feedback.TypeReject {
		t.Errorf("fallback tail = %+v, want reject for c-1", tail)
	}
	if tail.Reason != "whatever" {
		t.Errorf("fallback reason = %q, want the submitted text", tail.Reason)
	}
	for _, e := range log {
		if e.CourseID == "someone-else" {
			t.Errorf("foreign entry survived the fallback: %+v", e)
		}
	}
	if s.State() != StatePresenting {
		t.Errorf("state = %q, session should still advance", s.State())
	}
}

func TestFullWalkthrough(t *testing.T) {
	s, _ := newTestSession(rec("c-1", "A"), rec("c-2", "B"), rec("c-3", "C"))
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.OnDecision(ctx, feedback.TypeKeep); err != nil {
		t.Fatal(err)
	}
	if err := s.OnDecision(ctx, feedback.TypeAdjust); err != nil {
		t.Fatal(err)
	}
	if err := s.OnReason(ctx, "too theoretical"); err != nil {
		t.Fatal(err)
	}
	if err := s.OnDecision(ctx, feedback.TypeReject); err != nil {
		t.Fatal(err)
	}
	if err := s.OnReason(ctx, "not credible source"); err != nil {
		t.Fatal(err)
	}

	if s.State() != StateCompleted {
		t.Fatalf("state = %q, want completed", s.State())
	}
	if s.EmptyResult() {
		t.Error("a reviewed batch is not an empty result")
	}
	if s.Reviewed() != 3 {
		t.Errorf("reviewed = %d, want 3", s.Reviewed())
	}

	log := s.Log()
	if len(log) != 3 {
		t.Fatalf("log length = %d", len(log))
	}
	wantTypes := []feedback.Type{feedback.TypeKeep, feedback.TypeAdjust, feedback.TypeReject}
	for i, want := range wantTypes {
		if log[i].Type != want {
			t.Errorf("log[%d].Type = %q, want %q", i, log[i].Type, want)
		}
	}
}

func TestRestartExcludesRejected(t *testing.T) {
	retriever := &stubRetriever{batch: []recommend.Recommendation{rec("c-1", "A"), rec("c-2", "B")}}
	s := New(profile.Default("u1"), retriever, &memStore{}, 5, nil)
	ctx := context.Background()

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.OnDecision(ctx, feedback.TypeReject); err != nil {
		t.Fatal(err)
	}
	if err := s.OnReason(ctx, "bad"); err != nil {
		t.Fatal(err)
	}
	if err := s.OnDecision(ctx, feedback.TypeKeep); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateCompleted {
		t.Fatal("first pass should complete")
	}

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for _, item := range s.Items() {
		if item.ID == "c-1" {
			t.Error("rejected course resurfaced on restart")
		}
	}
	if retriever.calls != 2 {
		t.Errorf("retriever calls = %d, want 2", retriever.calls)
	}
}
