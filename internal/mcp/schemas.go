package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// limitProperty is the shared shape of the optional limit parameter.
func limitProperty(max int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of results to return",
		"default":     10,
		"minimum":     1,
		"maximum":     max,
	}
}

// searchConversationsTool returns the tool definition for search_conversations
func searchConversationsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_conversations",
		Description: "Search past conversation history with ranked keyword queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (keywords or natural language, minimum 3 characters)",
				},
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to projects whose path contains this substring",
				},
				"timeframe": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to a recency window",
					"enum":        []string{"today", "yesterday", "week", "month"},
				},
				"limit": limitProperty(50),
			},
			Required: []string{"query"},
		},
	}
}

// findSimilarQueriesTool returns the tool definition for find_similar_queries
func findSimilarQueriesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_similar_queries",
		Description: "Find previously asked questions similar to the given one, with the answers they got",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The question to match against past queries",
				},
				"limit": limitProperty(50),
			},
			Required: []string{"query"},
		},
	}
}

// getFileContextTool returns the tool definition for get_file_context
func getFileContextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_file_context",
		Description: "Show past operations on files matching a path fragment, grouped per file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "File path or fragment to look up (e.g., 'main.go' or 'internal/server')",
				},
				"limit": limitProperty(50),
			},
			Required: []string{"path"},
		},
	}
}

// getErrorSolutionsTool returns the tool definition for get_error_solutions
func getErrorSolutionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_error_solutions",
		Description: "Find past occurrences of an error and the fixes that followed them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"error_pattern": map[string]interface{}{
					"type":        "string",
					"description": "Error text or fragment to look up (e.g., 'connection refused')",
				},
				"limit": limitProperty(50),
			},
			Required: []string{"error_pattern"},
		},
	}
}

// getToolPatternsTool returns the tool definition for get_tool_patterns
func getToolPatternsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_tool_patterns",
		Description: "Show tool usage patterns and workflow chains from recent sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tool_name": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one tool (e.g., 'Edit'); omit for all tools",
				},
				"limit": limitProperty(50),
			},
		},
	}
}

// listRecentSessionsTool returns the tool definition for list_recent_sessions
func listRecentSessionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_recent_sessions",
		Description: "List recent conversation sessions with accomplishments, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": limitProperty(50),
			},
		},
	}
}

// getSessionSummaryTool returns the tool definition for get_session_summary
func getSessionSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_session_summary",
		Description: "Summarize one session: key messages, decisions, and files touched",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id, or the literal 'latest' for the most recent session",
				},
				"max_messages": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum key messages to include",
					"default":     10,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"session_id"},
		},
	}
}

// searchPlansTool returns the tool definition for search_plans
func searchPlansTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_plans",
		Description: "Search planning documents written in past conversations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What the plan was about",
				},
				"limit": limitProperty(50),
			},
			Required: []string{"query"},
		},
	}
}
