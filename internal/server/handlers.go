package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
	"github.com/coachable/course-coach/internal/report"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Goal        string `json:"goal"`
		CompanyGoal string `json:"company_goal"`
	}
	if !s.readJSON(w, r, &body) {
		return
	}

	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	s.editor.SetGoal(r.Context(), p, body.Goal)
	if body.CompanyGoal != "" {
		p.CompanyGoal = body.CompanyGoal
	}
	s.saveAndRespond(w, r, p)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Skill string `json:"skill"`
	}
	if !s.readJSON(w, r, &body) {
		return
	}
	if body.Skill == "" {
		s.writeError(w, http.StatusBadRequest, "skill is required")
		return
	}

	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	concept := s.editor.AddSkill(r.Context(), p, body.Skill)
	if err := s.store.Save(r.Context(), p); err != nil {
		s.serverError(w, "saving profile", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"added": concept, "profile": p})
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	if !s.editor.RemoveSkill(p, label) {
		s.writeError(w, http.StatusNotFound, "skill not found: "+label)
		return
	}
	s.saveAndRespond(w, r, p)
}

func (s *Server) handleBuildFromBio(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Bio string `json:"bio"`
	}
	if !s.readJSON(w, r, &body) {
		return
	}
	if body.Bio == "" {
		s.writeError(w, http.StatusBadRequest, "bio is required")
		return
	}

	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	if err := s.editor.BuildFromBio(r.Context(), p, body.Bio); err != nil {
		s.serverError(w, "building profile from bio", err)
		return
	}
	s.saveAndRespond(w, r, p)
}

func (s *Server) handleClearFeedback(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	cleared := s.editor.ClearFeedback(p)
	if err := s.store.Save(r.Context(), p); err != nil {
		s.serverError(w, "saving profile", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}

	topN := s.cfg.TopN
	if v := r.URL.Query().Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		topN = n
	}

	recs, err := s.retriever.Retrieve(r.Context(), p, topN)
	if err != nil {
		s.serverError(w, "retrieving recommendations", err)
		return
	}

	if s.justifier != nil && r.URL.Query().Get("justify") == "true" {
		if err := s.justifier.Justify(r.Context(), p, recs); err != nil {
			// Recommendations without prose beat a failed request.
			s.logger.Warn("justification failed", zap.Error(err))
		}
	}

	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, feedback.Insights(p.FeedbackLog))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}

	recs, err := s.retriever.Retrieve(r.Context(), p, s.cfg.TopN)
	if err != nil {
		s.serverError(w, "retrieving recommendations", err)
		return
	}

	insights := feedback.Insights(p.FeedbackLog)
	rep := &report.Report{
		Profile:         p,
		Recommendations: recs,
		Insights:        &insights,
		GeneratedAt:     time.Now().UTC(),
	}

	if r.URL.Query().Get("format") == "html" {
		out, err := rep.HTML()
		if err != nil {
			s.serverError(w, "rendering report", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(out)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(rep.Markdown()))
}

func (s *Server) loadProfile(w http.ResponseWriter, r *http.Request) (*profile.UserProfile, bool) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user id is required")
		return nil, false
	}
	p, err := s.store.Load(r.Context(), userID)
	if err != nil {
		s.serverError(w, "loading profile", err)
		return nil, false
	}
	return p, true
}

func (s *Server) saveAndRespond(w http.ResponseWriter, r *http.Request, p *profile.UserProfile) {
	if err := s.store.Save(r.Context(), p); err != nil {
		s.serverError(w, "saving profile", err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) serverError(w http.ResponseWriter, action string, err error) {
	s.logger.Error(action, zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, action+": "+err.Error())
}
