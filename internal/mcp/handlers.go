package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/coachable/course-coach/internal/catalog"
	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/taxonomy"
)

// handleMatchSkills grounds comma-separated skill phrases in the taxonomy.
func (s *Server) handleMatchSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("skills")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: skills"), nil
	}

	phrases := splitList(raw)
	if len(phrases) == 0 {
		return mcp.NewToolResultError("skills must contain at least one phrase"), nil
	}

	matched := s.matcher.Match(ctx, phrases)
	if len(matched) == 0 {
		return mcp.NewToolResultText("No taxonomy concepts matched the given phrases."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Matched %d of %d phrase(s):\n", len(matched), len(phrases))
	for _, m := range matched {
		fmt.Fprintf(&sb, "- %q -> %s (%s)\n", m.RawSkill, m.PreferredLabel, m.ConceptURI)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchCourses performs semantic search over the course catalog.
func (s *Server) handleSearchCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	hits, err := s.catalog.Query(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog search failed: %v", err)), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("No courses found. The catalog may not be ingested yet. Run `course-coach load` first."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d course(s):\n", len(hits))
	for _, h := range hits {
		item := catalog.ItemFromHit(h)
		fmt.Fprintf(&sb, "- [%s] %s (%s) | Level: %s | Format: %s | %gh | Skills: %s\n",
			item.ID, item.Title, item.Provider, item.Level, item.Format,
			item.DurationHours, strings.Join(item.Skills, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetRecommendations runs retrieval for a user, optionally followed by
// LLM justification.
func (s *Server) handleGetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}

	p, err := s.store.Load(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading profile: %v", err)), nil
	}

	topN := request.GetInt("top_n", s.topN)
	recs, err := s.retriever.Retrieve(ctx, p, topN)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("Nothing to recommend: the catalog is empty or every candidate was previously rejected."), nil
	}

	if request.GetBool("justify", false) && s.justifier != nil {
		if err := s.justifier.Justify(ctx, p, recs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("justification failed: %v", err)), nil
		}
	}

	out, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding recommendations: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleRecordFeedback appends a classified feedback entry to the user's log.
func (s *Server) handleRecordFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}
	courseID, err := request.RequireString("course_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: course_id"), nil
	}
	ftRaw, err := request.RequireString("feedback_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: feedback_type"), nil
	}

	ft := feedback.Type(ftRaw)
	if !ft.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown feedback type %q", ftRaw)), nil
	}

	reason := strings.TrimSpace(request.GetString("reason", ""))
	if reason == "" {
		reason = ft.DefaultReason()
	}

	p, err := s.store.Load(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading profile: %v", err)), nil
	}

	entry := feedback.Entry{
		CourseID:       courseID,
		CourseTitle:    request.GetString("course_title", ""),
		Type:           ft,
		Reason:         reason,
		Classification: feedback.Classify(reason, ft),
		Timestamp:      time.Now().UTC(),
	}
	p.FeedbackLog = append(p.FeedbackLog, entry)

	if err := s.store.Save(ctx, p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving profile: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Recorded %s for course %s (category %s, confidence %s).",
		ft, courseID, entry.Classification.Category, entry.Classification.Confidence,
	)), nil
}

// handleGetProfile returns the user's profile as JSON.
func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}

	p, err := s.store.Load(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading profile: %v", err)), nil
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding profile: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleUpdateGoal sets the goal and refreshes the missing-skill list.
func (s *Server) handleUpdateGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}
	goal, err := request.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: goal"), nil
	}

	p, err := s.store.Load(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading profile: %v", err)), nil
	}

	s.editor.SetGoal(ctx, p, goal)
	if err := s.store.Save(ctx, p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving profile: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Goal updated. %d missing skill(s) inferred:\n", len(p.MissingSkills))
	for _, c := range p.MissingSkills {
		fmt.Fprintf(&sb, "- %s (%s)\n", c.PreferredLabel, c.ConceptURI)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleInferMissingSkills runs gap inference without touching any profile.
func (s *Server) handleInferMissingSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := request.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: goal"), nil
	}

	var known []taxonomy.SkillConcept
	if raw := request.GetString("known_skills", ""); raw != "" {
		known = s.matchedConcepts(ctx, splitList(raw))
	}

	inferred := s.matcher.InferMissing(ctx, goal, known)
	if len(inferred) == 0 {
		return mcp.NewToolResultText("No skill gaps inferred for this goal."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Inferred %d missing skill(s):\n", len(inferred))
	for _, c := range inferred {
		fmt.Fprintf(&sb, "- %s (%s)\n", c.PreferredLabel, c.ConceptURI)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) matchedConcepts(ctx context.Context, phrases []string) []taxonomy.SkillConcept {
	matched := s.matcher.Match(ctx, phrases)
	concepts := make([]taxonomy.SkillConcept, 0, len(matched))
	for _, m := range matched {
		concepts = append(concepts, m.SkillConcept)
	}
	return concepts
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
