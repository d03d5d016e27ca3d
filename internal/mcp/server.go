// Package mcp exposes the coaching engine as MCP tools over stdio, so agent
// clients can match skills, search courses, and drive the feedback loop.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
	"github.com/coachable/course-coach/internal/taxonomy"
	"github.com/coachable/course-coach/internal/vectorindex"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server around the coaching engine.
type Server struct {
	matcher   *taxonomy.Matcher
	catalog   vectorindex.Searcher
	store     *profile.Store
	editor    *profile.Editor
	retriever *recommend.Retriever
	justifier *recommend.Justifier
	topN      int
	logger    *zap.Logger
	mcp       *server.MCPServer
}

// NewServer creates an MCP server with the given dependencies. justifier may
// be nil when no LLM is configured.
func NewServer(matcher *taxonomy.Matcher, catalogIndex vectorindex.Searcher, store *profile.Store, editor *profile.Editor, retriever *recommend.Retriever, justifier *recommend.Justifier, topN int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topN <= 0 {
		topN = 5
	}
	s := &Server{
		matcher:   matcher,
		catalog:   catalogIndex,
		store:     store,
		editor:    editor,
		retriever: retriever,
		justifier: justifier,
		topN:      topN,
		logger:    logger,
	}

	s.mcp = server.NewMCPServer(
		"course-coach",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(matchSkillsTool, s.handleMatchSkills)
	s.mcp.AddTool(searchCoursesTool, s.handleSearchCourses)
	s.mcp.AddTool(getRecommendationsTool, s.handleGetRecommendations)
	s.mcp.AddTool(recordFeedbackTool, s.handleRecordFeedback)
	s.mcp.AddTool(getProfileTool, s.handleGetProfile)
	s.mcp.AddTool(updateGoalTool, s.handleUpdateGoal)
	s.mcp.AddTool(inferMissingSkillsTool, s.handleInferMissingSkills)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
