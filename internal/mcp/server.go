package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/gohistory-mcp/internal/config"
	"github.com/dshills/gohistory-mcp/internal/corpus"
	"github.com/dshills/gohistory-mcp/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "gohistory-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	searcher *searcher.Searcher
	logger   *slog.Logger
}

// NewServer creates a new MCP server instance over the configured corpus.
// The corpus root is only a path at this point; a missing or empty
// directory surfaces later as empty query results, never as a startup
// failure.
func NewServer(settings *config.Settings, logger *slog.Logger) (*Server, error) {
	dir := corpus.NewDirectory(settings.CorpusRoot, nil)
	reader := corpus.NewReader(logger)
	srch := searcher.NewSearcher(dir, reader, settings, logger)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		searcher: srch,
		logger:   logger,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchConversationsTool(), s.handleSearchConversations)
	s.mcp.AddTool(findSimilarQueriesTool(), s.handleFindSimilarQueries)
	s.mcp.AddTool(getFileContextTool(), s.handleGetFileContext)
	s.mcp.AddTool(getErrorSolutionsTool(), s.handleGetErrorSolutions)
	s.mcp.AddTool(getToolPatternsTool(), s.handleGetToolPatterns)
	s.mcp.AddTool(listRecentSessionsTool(), s.handleListRecentSessions)
	s.mcp.AddTool(getSessionSummaryTool(), s.handleGetSessionSummary)
	s.mcp.AddTool(searchPlansTool(), s.handleSearchPlans)
}
