package types

import "time"

// Role identifies who (or what) produced a conversation record.
type Role string

const (
	RoleHuman      Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolUse    Role = "tool_use"
	RoleToolResult Role = "tool_result"
)

// Record is a single conversational turn parsed from a transcript line.
type Record struct {
	ID          string
	SessionID   string
	ProjectPath string // decoded from the corpus directory name
	Role        Role
	Content     string // plain text, never empty after extraction
	Timestamp   time.Time
	Context     *RecordContext
}

// HasTimestamp reports whether the record carries a usable timestamp.
// Unparseable and pre-sentinel timestamps are excluded from chronological
// comparisons.
func (r *Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero() && r.Timestamp.After(TimestampSentinel)
}

// TimestampSentinel is the floor for plausible record timestamps. Anything
// at or before it is treated as unknown.
var TimestampSentinel = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// RecordContext is the derived context bundle attached to a record after
// scoring. Each slice is deduplicated; insertion order is significant for
// "first N" truncation.
type RecordContext struct {
	Files         []string
	Tools         []string
	ErrorPatterns []string
	CodeSnippets  []string
	Insights      []string
	ActionItems   []string
	Commands      []string
}

// IsEmpty reports whether no context was extracted at all.
func (c *RecordContext) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.Files) == 0 && len(c.Tools) == 0 && len(c.ErrorPatterns) == 0 &&
		len(c.CodeSnippets) == 0 && len(c.Insights) == 0 &&
		len(c.ActionItems) == 0 && len(c.Commands) == 0
}

// ScoredRecord is a record plus its relevance scores. RelevanceScore is the
// base score from the scorer; FinalScore layers coverage, semantic, and
// recency boosts on top during re-ranking. A base score of exactly zero for
// a multi-term query is a hard veto that no later boost may override.
type ScoredRecord struct {
	Record
	RelevanceScore float64
	FinalScore     float64
}

// IntentType categorizes what a query is after.
type IntentType string

const (
	IntentError          IntentType = "error"
	IntentImplementation IntentType = "implementation"
	IntentAnalysis       IntentType = "analysis"
	IntentGeneral        IntentType = "general"
)

// Semantic boost labels recognized by the intent classifier and re-ranker.
const (
	BoostErrorResolution = "error-resolution"
	BoostImplementation  = "implementation"
	BoostOptimization    = "optimization"
	BoostSolutions       = "solutions"
	BoostFileOperations  = "file-operations"
	BoostToolUsage       = "tool-usage"
)

// QueryIntent is the classified form of a free-text query.
type QueryIntent struct {
	Type            IntentType
	Urgency         string // "high" or "medium"
	Scope           string // "broad" or "focused"
	ExpectsCode     bool
	ExpectsSolution bool
	Keywords        []string // significant query terms
	SemanticBoosts  map[string]float64
}
