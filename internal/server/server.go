// Package server exposes the coaching engine over HTTP: profile editing,
// recommendations, feedback insights, report export, and a WebSocket review
// flow.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
	"github.com/coachable/course-coach/internal/session"
)

// Config holds server configuration.
type Config struct {
	Host     string
	Port     int
	TopN     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server wires the coaching engine into an HTTP surface.
type Server struct {
	cfg        Config
	store      *profile.Store
	editor     *profile.Editor
	retriever  *recommend.Retriever
	justifier  *recommend.Justifier
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server

	mu       sync.Mutex
	sessions map[string]*activeSession // keyed by user id, one live session each
}

// activeSession pairs a review session with its public id.
type activeSession struct {
	id      string
	session *session.Session
	profile *profile.UserProfile
}

// New creates a server with all dependencies. The justifier may be nil when
// no LLM is configured; recommendations then ship without justification text.
func New(cfg Config, store *profile.Store, editor *profile.Editor, retriever *recommend.Retriever, justifier *recommend.Justifier, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	s := &Server{
		cfg:       cfg,
		store:     store,
		editor:    editor,
		retriever: retriever,
		justifier: justifier,
		logger:    logger,
		sessions:  make(map[string]*activeSession),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/profiles/{userID}", func(r chi.Router) {
		r.Get("/", s.handleGetProfile)
		r.Post("/goal", s.handleSetGoal)
		r.Post("/skills", s.handleAddSkill)
		r.Delete("/skills/{label}", s.handleRemoveSkill)
		r.Post("/bio", s.handleBuildFromBio)
		r.Delete("/feedback", s.handleClearFeedback)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/insights", s.handleInsights)
		r.Get("/report", s.handleReport)
	})

	r.Get("/ws/review/{userID}", s.handleReviewSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("course-coach server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
