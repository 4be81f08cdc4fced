// Package mcp exposes the history search engine over the Model Context
// Protocol on stdio.
//
// Eight tools map one-to-one onto the searcher's operations:
//
//	search_conversations   ranked search over recent transcripts
//	find_similar_queries   prior questions resembling the current one
//	get_file_context       per-file operation history
//	get_error_solutions    past errors with the fixes that followed
//	get_tool_patterns      tool usage and workflow chains
//	list_recent_sessions   session summaries, newest first
//	get_session_summary    one session in detail ("latest" supported)
//	search_plans           ranked planning documents
//
// Handlers never fail their caller for a query-shaped problem: a missing
// or too-short query, an unreadable corpus, and a genuine miss all come
// back as an empty JSON payload carrying the attempted query and elapsed
// time. Only structurally invalid requests surface as protocol errors.
package mcp
