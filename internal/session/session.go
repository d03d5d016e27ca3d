// Package session drives the sequential review of a recommendation batch:
// one course at a time, a structured verdict per course, an optional reason
// for verdicts that need one, and a persisted feedback trail.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
)

// State names where the session is in its lifecycle.
type State string

const (
	StateIdle           State = "idle"
	StatePresenting     State = "presenting"
	StateAwaitingReason State = "awaiting_reason"
	StateCompleted      State = "completed"
)

var (
	// ErrNotPresenting is returned when a decision arrives outside the
	// presenting state.
	ErrNotPresenting = errors.New("session is not presenting a course")
	// ErrNotAwaitingReason is returned when a reason arrives outside the
	// awaiting-reason state.
	ErrNotAwaitingReason = errors.New("session is not awaiting a reason")
	// ErrInconsistentLogTail is returned when the feedback log tail does not
	// match the course under review at reason time. The session recovers by
	// recording a reject, but the caller should know the log was touched
	// outside the session.
	ErrInconsistentLogTail = errors.New("feedback log tail does not match current course")
)

// Saver persists a profile. Satisfied by *profile.Store.
type Saver interface {
	Save(ctx context.Context, p *profile.UserProfile) error
}

// Retriever produces the recommendation batch to review. Satisfied by
// *recommend.Retriever.
type Retriever interface {
	Retrieve(ctx context.Context, p *profile.UserProfile, topN int) ([]recommend.Recommendation, error)
}

// Session walks a user through one recommendation batch. It is synchronous
// and single-user; every accepted event is persisted before it returns, so
// an abandoned session loses nothing already decided.
type Session struct {
	profile   *profile.UserProfile
	retriever Retriever
	store     Saver
	topN      int
	logger    *zap.Logger

	state    State
	items    []recommend.Recommendation
	current  int
	reviewed int
}

// New creates a review session for the given profile.
func New(p *profile.UserProfile, retriever Retriever, store Saver, topN int, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		profile:   p,
		retriever: retriever,
		store:     store,
		topN:      topN,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Items returns the batch under review.
func (s *Session) Items() []recommend.Recommendation { return s.items }

// Reviewed returns how many courses have received a final verdict.
func (s *Session) Reviewed() int { return s.reviewed }

// EmptyResult reports whether the session completed because retrieval found
// nothing to review, as opposed to the user finishing a batch.
func (s *Session) EmptyResult() bool {
	return s.state == StateCompleted && len(s.items) == 0
}

// Current returns the course under review. Valid only while presenting or
// awaiting a reason.
func (s *Session) Current() (recommend.Recommendation, error) {
	if s.state != StatePresenting && s.state != StateAwaitingReason {
		return recommend.Recommendation{}, ErrNotPresenting
	}
	return s.items[s.current], nil
}

// Log returns the profile's accumulated feedback log.
func (s *Session) Log() []feedback.Entry { return s.profile.FeedbackLog }

// Start runs the retriever and begins presenting. An empty batch goes
// straight to Completed; the caller distinguishes that via EmptyResult.
// Restarting a completed session re-runs retrieval, which now excludes
// anything rejected in the previous pass.
func (s *Session) Start(ctx context.Context) error {
	items, err := s.retriever.Retrieve(ctx, s.profile, s.topN)
	if err != nil {
		return fmt.Errorf("starting review session: %w", err)
	}

	s.items = items
	s.current = 0
	s.reviewed = 0
	if len(items) == 0 {
		s.state = StateCompleted
		s.logger.Info("review session found nothing to present", zap.String("user", s.profile.UserID))
		return nil
	}

	s.state = StatePresenting
	s.logger.Info("review session started",
		zap.String("user", s.profile.UserID),
		zap.Int("courses", len(items)),
	)
	return nil
}

// OnDecision records the verdict on the current course. A keep is final and
// advances immediately; adjust and reject persist a provisional entry with
// the default reason and wait for free text. The provisional entry is saved
// before returning so partial feedback survives an abandoned session.
func (s *Session) OnDecision(ctx context.Context, ft feedback.Type) error {
	if s.state != StatePresenting {
		return ErrNotPresenting
	}
	if !ft.IsValid() {
		return fmt.Errorf("unknown feedback type %q", ft)
	}

	item := s.items[s.current]
	reason := ft.DefaultReason()
	entry := feedback.Entry{
		CourseID:       item.ID,
		CourseTitle:    item.Title,
		Type:           ft,
		Reason:         reason,
		Classification: feedback.Classify(reason, ft),
		Timestamp:      time.Now().UTC(),
	}
	s.profile.FeedbackLog = append(s.profile.FeedbackLog, entry)

	if err := s.store.Save(ctx, s.profile); err != nil {
		return fmt.Errorf("persisting decision: %w", err)
	}

	if ft == feedback.TypeKeep {
		s.advance()
		return nil
	}
	s.state = StateAwaitingReason
	return nil
}

// OnReason finalizes the pending adjust/reject with the user's free text,
// overwriting the provisional tail entry. A blank reason keeps the default
// label. If the log tail no longer matches the current course the session
// still replaces the tail, but records a reject and reports
// ErrInconsistentLogTail; the fallback is a smell worth surfacing, not
// silent recovery.
func (s *Session) OnReason(ctx context.Context, text string) error {
	if s.state != StateAwaitingReason {
		return ErrNotAwaitingReason
	}

	item := s.items[s.current]
	ft := feedback.TypeReject
	tailMismatch := false

	if n := len(s.profile.FeedbackLog); n > 0 && s.profile.FeedbackLog[n-1].CourseID == item.ID {
		ft = s.profile.FeedbackLog[n-1].Type
	} else {
		tailMismatch = true
		s.logger.Warn("feedback log tail does not match course under review, recording reject",
			zap.String("user", s.profile.UserID),
			zap.String("course_id", item.ID),
		)
	}

	reason := strings.TrimSpace(text)
	if reason == "" {
		reason = ft.DefaultReason()
	}
	entry := feedback.Entry{
		CourseID:       item.ID,
		CourseTitle:    item.Title,
		Type:           ft,
		Reason:         reason,
		Classification: feedback.Classify(reason, ft),
		Timestamp:      time.Now().UTC(),
	}

	// The tail is always replaced, even when it belonged to another course;
	// the mismatch is reported, never left behind as a stray entry.
	if n := len(s.profile.FeedbackLog); n == 0 {
		s.profile.FeedbackLog = append(s.profile.FeedbackLog, entry)
	} else {
		s.profile.FeedbackLog[n-1] = entry
	}

	if err := s.store.Save(ctx, s.profile); err != nil {
		return fmt.Errorf("persisting reason: %w", err)
	}

	s.advance()
	if tailMismatch {
		return ErrInconsistentLogTail
	}
	return nil
}

func (s *Session) advance() {
	s.reviewed++
	s.current++
	if s.current >= len(s.items) {
		s.state = StateCompleted
		s.logger.Info("review session completed",
			zap.String("user", s.profile.UserID),
			zap.Int("reviewed", s.reviewed),
		)
		return
	}
	s.state = StatePresenting
}
