package extract

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

func assistantRec(id, session, content string, ts time.Time) types.Record {
	return types.Record{ID: id, SessionID: session, Role: types.RoleAssistant, Content: content, Timestamp: ts}
}

func humanRec(id, session, content string, ts time.Time) types.Record {
	return types.Record{ID: id, SessionID: session, Role: types.RoleHuman, Content: content, Timestamp: ts}
}

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestTable_FirstMatchWins(t *testing.T) {
	// Content matches both the test-outcome and completion-verb rows; the
	// earlier row wins and the record contributes exactly one string.
	got, ok := accomplishmentTable.Extract("I fixed the race and now all tests pass")
	require.True(t, ok)
	assert.Equal(t, "all tests pass", got)
}

func TestClip_MultibyteStaysValidUTF8(t *testing.T) {
	got := clip(strings.Repeat("修", 60), 100)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 100)
}

func TestAccomplishments(t *testing.T) {
	records := []types.Record{
		humanRec("h1", "s1", "please fix the build", t0),
		assistantRec("a1", "s1", "I implemented retry logic for the uploader", t0.Add(time.Minute)),
		assistantRec("a2", "s1", "build succeeded after the dependency bump", t0.Add(2*time.Minute)),
		assistantRec("a3", "s1", "I implemented retry logic for the uploader", t0.Add(3*time.Minute)), // duplicate
		assistantRec("a4", "s1", "just chatting, nothing done", t0.Add(4*time.Minute)),
	}

	got := Accomplishments(records, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "Implemented retry logic for the uploader", got[0])
	assert.Contains(t, got[1], "build succeeded")
}

func TestDecisions(t *testing.T) {
	records := []types.Record{
		assistantRec("a1", "s1", "We decided to use pgx for connection pooling", t0),
	}
	got := Decisions(records, 3)
	require.Len(t, got, 1)
	assert.Equal(t, "Decision: use pgx for connection pooling", got[0])
}

func TestIsRealError(t *testing.T) {
	assert.True(t, IsRealError("Error: connection refused"))
	assert.True(t, IsRealError("goroutine 12 [running]:\nmain.go:10"))
	assert.True(t, IsRealError(`  File "app.py", line 3, in <module>`))
	assert.False(t, IsRealError("everything is fine here"))
}

func TestIsMetaDiscussion(t *testing.T) {
	assert.True(t, IsMetaDiscussion("benchmark results: 40ms median"))
	assert.True(t, IsMetaDiscussion("## Plan\n1. do things"))
	assert.True(t, IsMetaDiscussion("12 / 15 passed on the suite"))
	assert.False(t, IsMetaDiscussion("Error: dial tcp refused"))
}

func TestErrorSolutions(t *testing.T) {
	long := "The fix was to increase the connection pool size and add retry with backoff; config change applied in db.go and verified locally."
	records := []types.Record{
		humanRec("h1", "s1", "getting: connection refused from postgres", t0),
		assistantRec("a1", "s1", "ok", t0.Add(time.Minute)), // too short for a solution
		assistantRec("a2", "s1", long, t0.Add(2*time.Minute)),
		humanRec("h2", "s1", "connection refused again after deploy failed", t0.Add(time.Hour)),
		assistantRec("a3", "s1", long, t0.Add(time.Hour+time.Minute)),
		// Meta-discussion mentioning the pattern must not count.
		humanRec("h3", "s2", "benchmark: connection refused error counts per run", t0.Add(2*time.Hour)),
	}

	got := ErrorSolutions(records, "connection refused", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "connection refused", got[0].ErrorPattern)
	assert.Equal(t, 2, got[0].Frequency, "frequency counts occurrences, meta rows excluded")
	require.Len(t, got[0].Solutions, 2)
	assert.Equal(t, "a2", got[0].Solutions[0].ID)
}

func TestErrorSolutions_OverlappingWindowsKeepOneSolution(t *testing.T) {
	long := "The fix was to bump the handshake timeout and retry the dial with exponential backoff, applied in client.go and confirmed against staging."
	records := []types.Record{
		humanRec("h1", "s1", "error: tls handshake timeout on push", t0),
		humanRec("h2", "s1", "still seeing the handshake timeout error", t0.Add(time.Minute)),
		assistantRec("a1", "s1", long, t0.Add(2*time.Minute)),
	}

	got := ErrorSolutions(records, "handshake timeout", 5)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Frequency)
	require.Len(t, got[0].Solutions, 1, "a solution inside two lookahead windows counts once")
	assert.Equal(t, "a1", got[0].Solutions[0].ID)
}

func TestErrorSolutions_LookaheadStaysInSession(t *testing.T) {
	long := "Resolved by regenerating the credentials file and restarting the worker pool with the new token in place."
	records := []types.Record{
		humanRec("h1", "s1", "auth error: token expired", t0),
		assistantRec("a-other", "s2", long, t0.Add(time.Minute)),
	}
	got := ErrorSolutions(records, "token expired", 5)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Solutions, "solutions from other sessions are not attributed")
}

func toolRec(id, session, tool string, ts time.Time) types.Record {
	return types.Record{
		ID: id, SessionID: session, Role: types.RoleToolUse,
		Content:   "Using tool: " + tool,
		Timestamp: ts,
		Context:   &types.RecordContext{Tools: []string{tool}},
	}
}

func TestToolPatterns(t *testing.T) {
	records := []types.Record{
		toolRec("t1", "s1", "Read", t0),
		toolRec("t2", "s1", "Edit", t0.Add(time.Minute)),
		toolRec("t3", "s1", "Bash", t0.Add(2*time.Minute)),
		toolRec("t4", "s2", "Read", t0.Add(time.Hour)),
	}

	got := ToolPatterns(records, "", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "Read", got[0].Tool, "most used tool first")
	assert.Len(t, got[0].Usages, 2)
	assert.Contains(t, got[0].Patterns, "Read -> Edit")
	require.NotEmpty(t, got[0].BestPractices)
	assert.Contains(t, got[0].BestPractices[0], "Read files before editing")

	// Three-step chain lands on its head tool.
	var edit *types.ToolPattern
	for i := range got {
		if got[i].Tool == "Edit" {
			edit = &got[i]
		}
	}
	require.NotNil(t, edit)
	assert.Contains(t, edit.Patterns, "Edit -> Bash")
}

func TestToolPatterns_ChainsStopAtSessionBoundary(t *testing.T) {
	records := []types.Record{
		toolRec("t1", "s1", "Grep", t0),
		toolRec("t2", "s2", "Read", t0.Add(time.Hour)),
		toolRec("t3", "s2", "Edit", t0.Add(time.Hour+time.Minute)),
	}

	got := ToolPatterns(records, "", 5)
	var grep, read *types.ToolPattern
	for i := range got {
		switch got[i].Tool {
		case "Grep":
			grep = &got[i]
		case "Read":
			read = &got[i]
		}
	}
	require.NotNil(t, grep)
	require.NotNil(t, read)
	assert.Empty(t, grep.Patterns, "chains never span sessions")
	assert.Equal(t, []string{"Read -> Edit"}, read.Patterns)
}

func TestToolPatterns_Filter(t *testing.T) {
	records := []types.Record{
		toolRec("t1", "s1", "Read", t0),
		toolRec("t2", "s1", "Edit", t0.Add(time.Minute)),
	}
	got := ToolPatterns(records, "Edit", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "Edit", got[0].Tool)

	assert.Empty(t, ToolPatterns(records, "Nope", 5))
}

func TestSessions(t *testing.T) {
	records := []types.Record{
		humanRec("h1", "s1", "start work on the parser today", t0),
		assistantRec("a1", "s1", "I implemented the tokenizer pass for it", t0.Add(time.Minute)),
		toolRec("t1", "s1", "Edit", t0.Add(2*time.Minute)),
		humanRec("h2", "s2", "different session on another day", t0.Add(24*time.Hour)),
	}

	got := Sessions(records, 10)
	require.Len(t, got, 2)
	// Newest session first.
	assert.Equal(t, "s2", got[0].SessionID)
	s1 := got[1]
	assert.Equal(t, 3, s1.MessageCount)
	assert.Equal(t, t0, s1.StartTime)
	assert.Equal(t, t0.Add(2*time.Minute), s1.EndTime)
	assert.Equal(t, []string{"Edit"}, s1.ToolsUsed)
	require.NotEmpty(t, s1.Accomplishments)
	assert.Contains(t, s1.Accomplishments[0], "Implemented the tokenizer")
}

func TestSummarize(t *testing.T) {
	records := []types.Record{
		humanRec("h1", "s1", "please add pagination to the users endpoint for me", t0),
		assistantRec("a1", "s1", "We decided to use cursor-based pagination for stability", t0.Add(time.Minute)),
		{ID: "t1", SessionID: "s1", Role: types.RoleToolUse, Content: "Using tool: Edit users.go",
			Timestamp: t0.Add(2 * time.Minute),
			Context:   &types.RecordContext{Tools: []string{"Edit"}, Files: []string{"users.go"}}},
	}

	got := Summarize(records, 5)
	assert.Equal(t, "s1", got.SessionID)
	require.NotEmpty(t, got.Decisions)
	assert.Contains(t, got.Decisions[0], "cursor-based pagination")
	assert.Equal(t, []string{"users.go"}, got.FilesTouched)
	require.Len(t, got.KeyMessages, 2, "tool traffic is not a key message")
}

func TestIsPlanDocument(t *testing.T) {
	assert.True(t, IsPlanDocument("## Plan\nwe will do things"))
	assert.True(t, IsPlanDocument("1. first\n2. second\n3. third"))
	assert.True(t, IsPlanDocument("Using tool: TodoWrite"))
	assert.False(t, IsPlanDocument("1. only one step"))
	assert.False(t, IsPlanDocument("free-form chatter"))
}

func TestPlanTitle(t *testing.T) {
	assert.Equal(t, "Migration Plan", PlanTitle("# Migration Plan\n1. step"))
	assert.Equal(t, "first line wins", PlanTitle("\n\nfirst line wins\nsecond"))
	assert.Equal(t, "", PlanTitle("  \n "))
}
