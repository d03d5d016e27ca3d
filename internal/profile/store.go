package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coachable/course-coach/internal/db"
	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/taxonomy"
)

// Store persists user profiles in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a profile store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Load fetches the profile for userID. A user with no stored profile gets
// the default empty profile, never an error.
func (s *Store) Load(ctx context.Context, userID string) (*UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT blurb, headline, goal, company_goal,
		       format_prefs, style_prefs, avoid_styles,
		       known_skills, missing_skills
		FROM profiles WHERE user_id = ?`, userID)

	p := Default(userID)
	var formatPrefs, stylePrefs, avoidStyles, knownSkills, missingSkills string
	err := row.Scan(&p.Blurb, &p.Headline, &p.Goal, &p.CompanyGoal,
		&formatPrefs, &stylePrefs, &avoidStyles, &knownSkills, &missingSkills)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", userID, err)
	}

	for _, col := range []struct {
		raw  string
		dest any
	}{
		{formatPrefs, &p.Preferences.Format},
		{stylePrefs, &p.Preferences.Style},
		{avoidStyles, &p.Preferences.AvoidStyles},
		{knownSkills, &p.KnownSkills},
		{missingSkills, &p.MissingSkills},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return nil, fmt.Errorf("decoding profile %q: %w", userID, err)
		}
	}

	log, err := s.loadFeedback(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.FeedbackLog = log
	return p, nil
}

func (s *Store) loadFeedback(ctx context.Context, userID string) ([]feedback.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course_id, course_title, feedback_type, reason,
		       category, confidence, reasoning, created_at
		FROM feedback_entries WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading feedback log for %q: %w", userID, err)
	}
	defer rows.Close()

	log := []feedback.Entry{}
	for rows.Next() {
		var e feedback.Entry
		var created string
		if err := rows.Scan(&e.CourseID, &e.CourseTitle, &e.Type, &e.Reason,
			&e.Classification.Category, &e.Classification.Confidence,
			&e.Classification.Reasoning, &created); err != nil {
			return nil, fmt.Errorf("scanning feedback entry: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			e.Timestamp = ts
		}
		log = append(log, e)
	}
	return log, rows.Err()
}

// Save writes the full profile, replacing whatever was stored. The feedback
// log table is rewritten in the same transaction so positions always match
// the in-memory log order.
func (s *Store) Save(ctx context.Context, p *UserProfile) error {
	encoded := make([]string, 5)
	for i, v := range []any{
		p.Preferences.Format, p.Preferences.Style, p.Preferences.AvoidStyles,
		p.KnownSkills, p.MissingSkills,
	} {
		b, err := json.Marshal(orEmpty(v))
		if err != nil {
			return fmt.Errorf("encoding profile %q: %w", p.UserID, err)
		}
		encoded[i] = string(b)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting profile save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, blurb, headline, goal, company_goal,
		       format_prefs, style_prefs, avoid_styles, known_skills, missing_skills, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET
		       blurb=excluded.blurb, headline=excluded.headline,
		       goal=excluded.goal, company_goal=excluded.company_goal,
		       format_prefs=excluded.format_prefs, style_prefs=excluded.style_prefs,
		       avoid_styles=excluded.avoid_styles, known_skills=excluded.known_skills,
		       missing_skills=excluded.missing_skills, updated_at=datetime('now')`,
		p.UserID, p.Blurb, p.Headline, p.Goal, p.CompanyGoal,
		encoded[0], encoded[1], encoded[2], encoded[3], encoded[4])
	if err != nil {
		return fmt.Errorf("saving profile %q: %w", p.UserID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM feedback_entries WHERE user_id = ?`, p.UserID); err != nil {
		return fmt.Errorf("clearing feedback log for %q: %w", p.UserID, err)
	}
	for i, e := range p.FeedbackLog {
		ts := e.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO feedback_entries (user_id, position, course_id, course_title,
			       feedback_type, reason, category, confidence, reasoning, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.UserID, i, e.CourseID, e.CourseTitle, string(e.Type), e.Reason,
			string(e.Classification.Category), string(e.Classification.Confidence),
			e.Classification.Reasoning, ts.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("saving feedback entry %d for %q: %w", i, p.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing profile %q: %w", p.UserID, err)
	}
	return nil
}

// orEmpty substitutes empty slices for nil ones so stored JSON is always an
// array, never null.
func orEmpty(v any) any {
	switch s := v.(type) {
	case []string:
		if s == nil {
			return []string{}
		}
	case []taxonomy.SkillConcept:
		if s == nil {
			return []taxonomy.SkillConcept{}
		}
	}
	return v
}
