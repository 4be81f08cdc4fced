package extract

import (
	"sort"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// Sessions aggregates records into per-session summaries, newest first.
// Records without a usable timestamp still count toward message totals but
// never move the session's start or end.
func Sessions(records []types.Record, limit int) []types.Session {
	if limit <= 0 {
		limit = 10
	}

	byID := make(map[string]*types.Session)
	order := make([]string, 0, 16)

	for i := range records {
		rec := &records[i]
		s, ok := byID[rec.SessionID]
		if !ok {
			s = &types.Session{SessionID: rec.SessionID, ProjectPath: rec.ProjectPath}
			byID[rec.SessionID] = s
			order = append(order, rec.SessionID)
		}

		s.MessageCount++
		if rec.HasTimestamp() {
			if s.StartTime.IsZero() || rec.Timestamp.Before(s.StartTime) {
				s.StartTime = rec.Timestamp
			}
			if rec.Timestamp.After(s.EndTime) {
				s.EndTime = rec.Timestamp
			}
		}
		for _, tool := range recordTools(rec) {
			if !containsString(s.ToolsUsed, tool) {
				s.ToolsUsed = append(s.ToolsUsed, tool)
			}
		}
	}

	sessions := make([]types.Session, 0, len(order))
	for _, id := range order {
		s := byID[id]
		s.Accomplishments = Accomplishments(sessionRecords(records, id), maxAccomplishments)
		sessions = append(sessions, *s)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].EndTime.After(sessions[j].EndTime)
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions
}

// Summarize builds the rich session object for one session's records.
// Key messages are capped at maxMessages, preferring substantial human
// and assistant turns over tool traffic.
func Summarize(records []types.Record, maxMessages int) types.SessionSummary {
	if maxMessages <= 0 {
		maxMessages = 10
	}

	sessions := Sessions(records, 1)
	summary := types.SessionSummary{}
	if len(sessions) > 0 {
		summary.Session = sessions[0]
	}

	summary.Decisions = Decisions(records, 5)
	summary.FilesTouched = filesTouched(records, 10)

	for i := range records {
		rec := &records[i]
		if rec.Role != types.RoleHuman && rec.Role != types.RoleAssistant {
			continue
		}
		if len(rec.Content) < 40 {
			continue
		}
		summary.KeyMessages = append(summary.KeyMessages, types.ScoredRecord{Record: *rec})
		if len(summary.KeyMessages) >= maxMessages {
			break
		}
	}
	return summary
}

func sessionRecords(records []types.Record, sessionID string) []types.Record {
	out := make([]types.Record, 0, 16)
	for i := range records {
		if records[i].SessionID == sessionID {
			out = append(out, records[i])
		}
	}
	return out
}

func filesTouched(records []types.Record, limit int) []string {
	var out []string
	for i := range records {
		ctx := records[i].Context
		if ctx == nil {
			continue
		}
		for _, f := range ctx.Files {
			if !containsString(out, f) {
				out = append(out, f)
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}
