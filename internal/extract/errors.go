package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

const (
	// solutionLookahead is how many following records may contain the
	// solution for an accepted error occurrence.
	solutionLookahead = 4
	// minSolutionLength filters out acknowledgements and one-liners.
	minSolutionLength = 80
)

var (
	stackTraceRe = regexp.MustCompile(`(?m)(^\s+at .+:\d+|^\s*File ".+", line \d+|goroutine \d+ \[|panic:)`)
	errorWordRe  = regexp.MustCompile(`(?i)\b(error|exception|failed|failure|panic|fatal|traceback|refused|denied|timeout)\b`)

	// metaDiscussionRe rejects records that talk about errors rather than
	// exhibit one: scoreboards, benchmark tables, planning documents.
	metaDiscussionRe = regexp.MustCompile(`(?i)(benchmark|leaderboard|scoreboard|test plan|## plan|\|\s*pass\s*\||success rate|\d+\s*/\s*\d+\s+passed)`)
)

// IsRealError reports whether content exhibits an actual error: error
// vocabulary or a stack-trace-like line.
func IsRealError(content string) bool {
	return errorWordRe.MatchString(content) || stackTraceRe.MatchString(content)
}

// IsMetaDiscussion reports whether content merely discusses errors, as in
// scoreboards, benchmark tables, and planning docs, rather than reporting
// an incident.
func IsMetaDiscussion(content string) bool {
	return metaDiscussionRe.MatchString(content)
}

// ErrorSolutions groups solutions by error pattern. An occurrence is
// accepted when the record contains the pattern, passes the real-error
// gate, and is not meta-discussion. Solutions are the substantial
// assistant records within the lookahead window after each occurrence.
// Frequency counts occurrences, not solutions.
func ErrorSolutions(records []types.Record, pattern string, limit int) []types.ErrorSolution {
	if limit <= 0 {
		limit = 5
	}
	needle := strings.ToLower(strings.TrimSpace(pattern))

	groups := make(map[string]*types.ErrorSolution)
	order := make([]string, 0, 8)
	// Overlapping lookahead windows can hand the same solution record to a
	// group more than once; track admitted IDs per group.
	seenSolutions := make(map[string]map[string]bool)

	for i := range records {
		rec := &records[i]
		lower := strings.ToLower(rec.Content)
		if needle != "" && !strings.Contains(lower, needle) {
			continue
		}
		if !IsRealError(rec.Content) || IsMetaDiscussion(rec.Content) {
			continue
		}

		key := groupKey(rec, needle)
		g, ok := groups[key]
		if !ok {
			g = &types.ErrorSolution{ErrorPattern: key}
			groups[key] = g
			order = append(order, key)
		}
		g.Frequency++
		if rec.HasTimestamp() && rec.Timestamp.After(g.LastSeen) {
			g.LastSeen = rec.Timestamp
		}

		ids := seenSolutions[key]
		if ids == nil {
			ids = make(map[string]bool)
			seenSolutions[key] = ids
		}
		for _, sol := range solutionsAfter(records, i) {
			if ids[sol.ID] {
				continue
			}
			ids[sol.ID] = true
			g.Solutions = append(g.Solutions, sol)
		}
	}

	out := make([]types.ErrorSolution, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency > out[j].Frequency
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// solutionsAfter collects the assistant records following an accepted
// error occurrence, within the lookahead window and the same session.
func solutionsAfter(records []types.Record, errIdx int) []types.ScoredRecord {
	var out []types.ScoredRecord
	session := records[errIdx].SessionID

	for j := errIdx + 1; j < len(records) && j <= errIdx+solutionLookahead; j++ {
		rec := &records[j]
		if rec.SessionID != session {
			break
		}
		if rec.Role != types.RoleAssistant {
			continue
		}
		if len(rec.Content) < minSolutionLength || IsMetaDiscussion(rec.Content) {
			continue
		}
		out = append(out, types.ScoredRecord{Record: *rec})
	}
	return out
}

// groupKey derives the grouping pattern: the caller's pattern when given,
// otherwise the first error-ish line of the record.
func groupKey(rec *types.Record, needle string) string {
	if needle != "" {
		return needle
	}
	if m := errorWordRe.FindStringIndex(rec.Content); m != nil {
		lineStart := strings.LastIndexByte(rec.Content[:m[0]], '\n') + 1
		line := rec.Content[lineStart:]
		if end := strings.IndexByte(line, '\n'); end >= 0 {
			line = line[:end]
		}
		return clip(strings.TrimSpace(line), 80)
	}
	return clip(strings.TrimSpace(rec.Content), 80)
}
