package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/recommend"
	"github.com/coachable/course-coach/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reviewRequest is the incoming WebSocket message format.
type reviewRequest struct {
	Type     string `json:"type"` // "start", "decision" or "reason"
	Feedback string `json:"feedback,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// reviewResponse is the outgoing WebSocket message format.
type reviewResponse struct {
	Type      string                    `json:"type"` // "presenting", "awaiting_reason", "completed" or "error"
	SessionID string                    `json:"session_id,omitempty"`
	Course    *recommend.Recommendation `json:"course,omitempty"`
	Position  int                       `json:"position,omitempty"`
	Total     int                       `json:"total,omitempty"`
	Reviewed  int                       `json:"reviewed,omitempty"`
	Empty     bool                      `json:"empty,omitempty"`
	Warning   string                    `json:"warning,omitempty"`
	Message   string                    `json:"message,omitempty"`
}

// handleReviewSocket runs an interactive review session over a WebSocket.
// Starting a session replaces any previous one for the same user; every
// verdict is persisted as it happens, so dropping the connection loses
// nothing already decided.
func (s *Server) handleReviewSocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	defer s.dropSession(userID)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req reviewRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWS(conn, reviewResponse{Type: "error", Message: "invalid message format"})
			continue
		}

		switch req.Type {
		case "start":
			s.handleWSStart(r.Context(), conn, userID)
		case "decision":
			s.handleWSDecision(r.Context(), conn, userID, req)
		case "reason":
			s.handleWSReason(r.Context(), conn, userID, req)
		default:
			s.sendWS(conn, reviewResponse{Type: "error", Message: "unknown message type: " + req.Type})
		}
	}
}

func (s *Server) handleWSStart(ctx context.Context, conn *websocket.Conn, userID string) {
	p, err := s.store.Load(ctx, userID)
	if err != nil {
		s.sendWS(conn, reviewResponse{Type: "error", Message: "loading profile: " + err.Error()})
		return
	}

	active := &activeSession{
		id:      uuid.NewString(),
		session: session.New(p, s.retriever, s.store, s.cfg.TopN, s.logger),
		profile: p,
	}
	if err := active.session.Start(ctx); err != nil {
		s.sendWS(conn, reviewResponse{Type: "error", Message: "starting session: " + err.Error()})
		return
	}

	s.mu.Lock()
	s.sessions[userID] = active
	s.mu.Unlock()

	s.sendState(conn, active)
}

func (s *Server) handleWSDecision(ctx context.Context, conn *websocket.Conn, userID string, req reviewRequest) {
	active, ok := s.activeSession(userID)
	if !ok {
		s.sendWS(conn, reviewResponse{Type: "error", Message: "no active session, send start first"})
		return
	}

	err := active.session.OnDecision(ctx, feedback.Type(req.Feedback))
	if err != nil {
		s.sendWS(conn, reviewResponse{Type: "error", SessionID: active.id, Message: err.Error()})
		return
	}
	s.sendState(conn, active)
}

func (s *Server) handleWSReason(ctx context.Context, conn *websocket.Conn, userID string, req reviewRequest) {
	active, ok := s.activeSession(userID)
	if !ok {
		s.sendWS(conn, reviewResponse{Type: "error", Message: "no active session, send start first"})
		return
	}

	err := active.session.OnReason(ctx, req.Reason)
	if err != nil && !errors.Is(err, session.ErrInconsistentLogTail) {
		s.sendWS(conn, reviewResponse{Type: "error", SessionID: active.id, Message: err.Error()})
		return
	}

	warning := ""
	if errors.Is(err, session.ErrInconsistentLogTail) {
		warning = err.Error()
	}
	s.sendState(conn, active, warning)
}

// sendState reports the session's current state to the client.
func (s *Server) sendState(conn *websocket.Conn, active *activeSession, warning ...string) {
	resp := reviewResponse{
		SessionID: active.id,
		Total:     len(active.session.Items()),
		Reviewed:  active.session.Reviewed(),
	}
	if len(warning) > 0 {
		resp.Warning = warning[0]
	}

	switch active.session.State() {
	case session.StateCompleted:
		resp.Type = "completed"
		resp.Empty = active.session.EmptyResult()
	case session.StateAwaitingReason:
		resp.Type = "awaiting_reason"
		if cur, err := active.session.Current(); err == nil {
			resp.Course = &cur
			resp.Position = active.session.Reviewed() + 1
		}
	default:
		resp.Type = "presenting"
		if cur, err := active.session.Current(); err == nil {
			resp.Course = &cur
			resp.Position = active.session.Reviewed() + 1
		}
	}

	s.sendWS(conn, resp)
}

func (s *Server) activeSession(userID string) (*activeSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.sessions[userID]
	return active, ok
}

func (s *Server) dropSession(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func (s *Server) sendWS(conn *websocket.Conn, resp reviewResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Warn("websocket write", zap.Error(err))
	}
}
