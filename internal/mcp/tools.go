package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/gohistory-mcp/internal/searcher"
	"github.com/dshills/gohistory-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleSearchConversations handles the search_conversations tool invocation
func (s *Server) handleSearchConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	resp := s.searcher.Search(ctx, searcher.SearchRequest{
		Query:         getStringDefault(args, "query", ""),
		ProjectFilter: getStringDefault(args, "project", ""),
		Timeframe:     types.Timeframe(getStringDefault(args, "timeframe", "")),
		Limit:         getIntDefault(args, "limit", 0),
	})

	payload := map[string]interface{}{
		"query":         resp.Query,
		"total_results": resp.TotalResults,
		"duration_ms":   resp.Duration.Milliseconds(),
		"results":       recordPayloads(resp.Results),
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleFindSimilarQueries handles the find_similar_queries tool invocation
func (s *Server) handleFindSimilarQueries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	start := time.Now()

	query := getStringDefault(args, "query", "")
	matches := s.searcher.FindSimilar(ctx, query, getIntDefault(args, "limit", 0))

	results := make([]interface{}, 0, len(matches))
	for _, m := range matches {
		entry := map[string]interface{}{
			"query":      m.Query,
			"similarity": m.Similarity,
		}
		if m.BestAnswer != "" {
			entry["best_answer"] = m.BestAnswer
		}
		if m.Record.ID != "" {
			entry["record"] = recordPayload(m.Record)
		}
		results = append(results, entry)
	}

	payload := map[string]interface{}{
		"query":         query,
		"total_results": len(matches),
		"duration_ms":   time.Since(start).Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleGetFileContext handles the get_file_context tool invocation
func (s *Server) handleGetFileContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	start := time.Now()

	path := getStringDefault(args, "path", "")
	contexts := s.searcher.FileContext(ctx, path, getIntDefault(args, "limit", 0))

	results := make([]interface{}, 0, len(contexts))
	for _, fc := range contexts {
		results = append(results, map[string]interface{}{
			"file_path":   fc.FilePath,
			"last_access": formatTime(fc.LastAccess),
			"operations":  recordPayloads(fc.Operations),
		})
	}

	payload := map[string]interface{}{
		"query":         path,
		"total_results": len(contexts),
		"duration_ms":   time.Since(start).Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleGetErrorSolutions handles the get_error_solutions tool invocation
func (s *Server) handleGetErrorSolutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	start := time.Now()

	pattern := getStringDefault(args, "error_pattern", "")
	solutions := s.searcher.ErrorSolutions(ctx, pattern, getIntDefault(args, "limit", 0))

	results := make([]interface{}, 0, len(solutions))
	for _, sol := range solutions {
		results = append(results, map[string]interface{}{
			"error_pattern": sol.ErrorPattern,
			"frequency":     sol.Frequency,
			"last_seen":     formatTime(sol.LastSeen),
			"solutions":     recordPayloads(sol.Solutions),
		})
	}

	payload := map[string]interface{}{
		"query":         pattern,
		"total_results": len(solutions),
		"duration_ms":   time.Since(start).Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleGetToolPatterns handles the get_tool_patterns tool invocation
func (s *Server) handleGetToolPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	start := time.Now()

	tool := getStringDefault(args, "tool_name", "")
	patterns := s.searcher.ToolPatterns(ctx, tool, getIntDefault(args, "limit", 0))

	results := make([]interface{}, 0, len(patterns))
	for _, p := range patterns {
		entry := map[string]interface{}{
			"tool":        p.Tool,
			"usage_count": len(p.Usages),
		}
		if len(p.Patterns) > 0 {
			entry["patterns"] = p.Patterns
		}
		if len(p.BestPractices) > 0 {
			entry["best_practices"] = p.BestPractices
		}
		results = append(results, entry)
	}

	payload := map[string]interface{}{
		"query":         tool,
		"total_results": len(patterns),
		"duration_ms":   time.Since(start).Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleListRecentSessions handles the list_recent_sessions tool invocation
func (s *Server) handleListRecentSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}
	start := time.Now()

	sessions := s.searcher.RecentSessions(ctx, getIntDefault(args, "limit", 0))
	results := make([]interface{}, 0, len(sessions))
	for _, sess := range sessions {
		results = append(results, sessionPayload(sess))
	}

	payload := map[string]interface{}{
		"total_results": len(sessions),
		"duration_ms":   time.Since(start).Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleGetSessionSummary handles the get_session_summary tool invocation
func (s *Server) handleGetSessionSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	start := time.Now()

	sessionID := getStringDefault(args, "session_id", "")
	summary, found := s.searcher.SessionSummary(ctx, sessionID, getIntDefault(args, "max_messages", 0))

	payload := map[string]interface{}{
		"query":       sessionID,
		"duration_ms": time.Since(start).Milliseconds(),
		"found":       found,
	}
	if found {
		entry := sessionPayload(summary.Session)
		entry["key_messages"] = recordPayloads(summary.KeyMessages)
		if len(summary.Decisions) > 0 {
			entry["decisions"] = summary.Decisions
		}
		if len(summary.FilesTouched) > 0 {
			entry["files_touched"] = summary.FilesTouched
		}
		payload["session"] = entry
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// handleSearchPlans handles the search_plans tool invocation
func (s *Server) handleSearchPlans(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	start := time.Now()

	query := getStringDefault(args, "query", "")
	matches := s.searcher.SearchPlans(ctx, query, getIntDefault(args, "limit", 0))

	results := make([]interface{}, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]interface{}{
			"title":   m.Title,
			"excerpt": m.Excerpt,
			"record":  recordPayload(m.Record),
		})
	}

	payload := map[string]interface{}{
		"query":         query,
		"total_results": len(matches),
		"duration_ms":   time.Since(start).Milliseconds(),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(payload)), nil
}

// Payload helpers

func recordPayloads(records []types.ScoredRecord) []interface{} {
	out := make([]interface{}, 0, len(records))
	for _, r := range records {
		out = append(out, recordPayload(r))
	}
	return out
}

func recordPayload(r types.ScoredRecord) map[string]interface{} {
	entry := map[string]interface{}{
		"id":              r.ID,
		"session_id":      r.SessionID,
		"role":            string(r.Role),
		"content":         r.Content,
		"relevance_score": r.RelevanceScore,
		"final_score":     r.FinalScore,
	}
	if r.ProjectPath != "" {
		entry["project"] = r.ProjectPath
	}
	if r.HasTimestamp() {
		entry["timestamp"] = formatTime(r.Timestamp)
	}
	if !r.Context.IsEmpty() {
		entry["context"] = contextPayload(r.Context)
	}
	return entry
}

func contextPayload(c *types.RecordContext) map[string]interface{} {
	entry := map[string]interface{}{}
	if len(c.Files) > 0 {
		entry["files"] = c.Files
	}
	if len(c.Tools) > 0 {
		entry["tools"] = c.Tools
	}
	if len(c.ErrorPatterns) > 0 {
		entry["error_patterns"] = c.ErrorPatterns
	}
	if len(c.CodeSnippets) > 0 {
		entry["code_snippets"] = c.CodeSnippets
	}
	if len(c.Insights) > 0 {
		entry["insights"] = c.Insights
	}
	if len(c.ActionItems) > 0 {
		entry["action_items"] = c.ActionItems
	}
	if len(c.Commands) > 0 {
		entry["commands"] = c.Commands
	}
	return entry
}

func sessionPayload(sess types.Session) map[string]interface{} {
	entry := map[string]interface{}{
		"session_id":    sess.SessionID,
		"message_count": sess.MessageCount,
	}
	if sess.ProjectPath != "" {
		entry["project"] = sess.ProjectPath
	}
	if !sess.StartTime.IsZero() {
		entry["start_time"] = formatTime(sess.StartTime)
	}
	if !sess.EndTime.IsZero() {
		entry["end_time"] = formatTime(sess.EndTime)
	}
	if len(sess.ToolsUsed) > 0 {
		entry["tools_used"] = sess.ToolsUsed
	}
	if len(sess.Accomplishments) > 0 {
		entry["accomplishments"] = sess.Accomplishments
	}
	return entry
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
