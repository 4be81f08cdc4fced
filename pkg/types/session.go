package types

import "time"

// Session aggregates all records sharing a session id. Sessions are built
// lazily per query and never persisted between queries.
type Session struct {
	SessionID       string
	ProjectPath     string
	StartTime       time.Time
	EndTime         time.Time
	MessageCount    int
	ToolsUsed       []string
	Accomplishments []string
}

// SessionSummary is the rich per-session object returned by the session
// summary operation.
type SessionSummary struct {
	Session
	KeyMessages  []ScoredRecord
	Decisions    []string
	FilesTouched []string
}

// ErrorSolution groups assistant records judged to be solutions for one
// error pattern. Frequency counts occurrences of the pattern, not just the
// solutions found for it.
type ErrorSolution struct {
	ErrorPattern string
	Solutions    []ScoredRecord
	Frequency    int
	LastSeen     time.Time
}

// ToolPattern maps a tool name, or a workflow chain of tool names joined by
// " -> ", to the records in which it appeared.
type ToolPattern struct {
	Tool          string
	Usages        []ScoredRecord
	Patterns      []string
	BestPractices []string
}

// FileContext is the operation history for a single file path.
type FileContext struct {
	FilePath   string
	Operations []ScoredRecord
	LastAccess time.Time
}

// SimilarQuery pairs a prior query with its similarity to the current one
// and, when available, the assistant answer that followed it.
type SimilarQuery struct {
	Query      string
	Similarity float64
	Record     ScoredRecord
	BestAnswer string
}

// PlanMatch is a ranked planning-document hit.
type PlanMatch struct {
	Record  ScoredRecord
	Title   string
	Excerpt string
}
