package searcher

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/gohistory-mcp/internal/content"
	"github.com/dshills/gohistory-mcp/internal/corpus"
	"github.com/dshills/gohistory-mcp/internal/extract"
	"github.com/dshills/gohistory-mcp/internal/scoring"
	"github.com/dshills/gohistory-mcp/internal/similarity"
	"github.com/dshills/gohistory-mcp/pkg/types"
)

const (
	// similarityThreshold is the minimum similarity for a prior query to
	// be reported at all.
	similarityThreshold = 0.3

	// minAnswerLength filters trivial assistant turns out of best-answer
	// attachment.
	minAnswerLength = 40

	// SessionLatest asks the session summary for the newest session.
	SessionLatest = "latest"
)

// FindSimilar locates prior human queries resembling the given one and
// attaches the assistant answer that followed each within its session.
// Prompt-history entries are folded in on a best-effort basis.
func (s *Searcher) FindSimilar(ctx context.Context, query string, limit int) []types.SimilarQuery {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return []types.SimilarQuery{}
	}
	limit = s.clampLimit(limit)
	records := s.collectRecent(ctx)

	seen := make(map[string]bool)
	var matches []types.SimilarQuery
	for i := range records {
		rec := &records[i]
		if rec.Role != types.RoleHuman {
			continue
		}
		prior := strings.TrimSpace(rec.Content)
		if prior == "" || seen[strings.ToLower(prior)] {
			continue
		}
		sim := similarity.Similarity(query, prior)
		if sim < similarityThreshold {
			continue
		}
		seen[strings.ToLower(prior)] = true
		matches = append(matches, types.SimilarQuery{
			Query:      prior,
			Similarity: sim,
			Record:     types.ScoredRecord{Record: *rec, RelevanceScore: sim, FinalScore: sim},
			BestAnswer: bestAnswer(records, i),
		})
	}

	for _, entry := range corpus.ReadHistory(ctx, s.settings.HistoryFile, s.logger) {
		prior := strings.TrimSpace(entry.Display)
		if prior == "" || seen[strings.ToLower(prior)] {
			continue
		}
		sim := similarity.Similarity(query, prior)
		if sim < similarityThreshold {
			continue
		}
		seen[strings.ToLower(prior)] = true
		matches = append(matches, types.SimilarQuery{Query: prior, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Query < matches[j].Query
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// bestAnswer finds the first substantial assistant turn after records[i]
// within the same session, truncated to its content-type budget.
func bestAnswer(records []types.Record, i int) string {
	session := records[i].SessionID
	for j := i + 1; j < len(records); j++ {
		if records[j].SessionID != session {
			continue
		}
		if records[j].Role != types.RoleAssistant || len(records[j].Content) < minAnswerLength {
			continue
		}
		text := records[j].Content
		return content.Truncate(text, content.Budget(content.Classify(text)))
	}
	return ""
}

// FileContext returns the operation history for files matching the given
// path fragment, grouped per concrete file path. Near-tied operations are
// reordered so the newer activity lists first.
func (s *Searcher) FileContext(ctx context.Context, path string, limit int) []types.FileContext {
	path = strings.TrimSpace(path)
	if len(path) < minQueryLength {
		return []types.FileContext{}
	}
	limit = s.clampLimit(limit)
	records := s.collectRecent(ctx)

	groups := make(map[string]*types.FileContext)
	var order []string
	lowerPath := strings.ToLower(path)

	for i := range records {
		rec := &records[i]
		score := scoring.ScoreCapped(rec, path)
		if score <= 0 {
			continue
		}
		for _, file := range matchingFiles(rec, lowerPath) {
			g, ok := groups[file]
			if !ok {
				g = &types.FileContext{FilePath: file}
				groups[file] = g
				order = append(order, file)
			}
			g.Operations = append(g.Operations, types.ScoredRecord{
				Record:         *rec,
				RelevanceScore: score,
				FinalScore:     score,
			})
			if rec.HasTimestamp() && rec.Timestamp.After(g.LastAccess) {
				g.LastAccess = rec.Timestamp
			}
		}
	}

	out := make([]types.FileContext, 0, len(order))
	for _, file := range order {
		g := groups[file]
		sort.SliceStable(g.Operations, func(i, j int) bool {
			return g.Operations[i].FinalScore > g.Operations[j].FinalScore
		})
		reorderNearTies(g.Operations)
		if len(g.Operations) > limit {
			g.Operations = g.Operations[:limit]
		}
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAccess.After(out[j].LastAccess)
	})
	return out
}

// matchingFiles lists the concrete file paths a record associates with the
// queried fragment. A record that mentions the fragment without yielding a
// parseable file path is grouped under the fragment itself.
func matchingFiles(rec *types.Record, lowerPath string) []string {
	var out []string
	derived := content.ExtractContext(rec)
	for _, f := range derived.Files {
		if strings.Contains(strings.ToLower(f), lowerPath) {
			out = append(out, f)
		}
	}
	if len(out) == 0 && strings.Contains(strings.ToLower(rec.Content), lowerPath) {
		out = append(out, lowerPath)
	}
	return out
}

// ErrorSolutions aggregates past occurrences of an error pattern with the
// assistant responses that followed them.
func (s *Searcher) ErrorSolutions(ctx context.Context, pattern string, limit int) []types.ErrorSolution {
	pattern = strings.TrimSpace(pattern)
	if len(pattern) < minQueryLength {
		return []types.ErrorSolution{}
	}
	return extract.ErrorSolutions(s.collectRecent(ctx), pattern, s.clampLimit(limit))
}

// ToolPatterns reports tool usage and workflow chains observed in recent
// sessions, optionally narrowed to one tool.
func (s *Searcher) ToolPatterns(ctx context.Context, tool string, limit int) []types.ToolPattern {
	return extract.ToolPatterns(s.collectRecent(ctx), strings.TrimSpace(tool), s.clampLimit(limit))
}

// RecentSessions lists session summaries, newest activity first.
func (s *Searcher) RecentSessions(ctx context.Context, limit int) []types.Session {
	return extract.Sessions(s.collectRecent(ctx), s.clampLimit(limit))
}

// SessionSummary builds the rich summary for one session. The literal
// "latest" selects the session with the newest activity. The second return
// is false when no records for the session exist.
func (s *Searcher) SessionSummary(ctx context.Context, sessionID string, maxMessages int) (types.SessionSummary, bool) {
	records := s.collectRecent(ctx)
	if sessionID == SessionLatest {
		sessions := extract.Sessions(records, 1)
		if len(sessions) == 0 {
			return types.SessionSummary{}, false
		}
		sessionID = sessions[0].SessionID
	}

	var scoped []types.Record
	for i := range records {
		if records[i].SessionID == sessionID {
			scoped = append(scoped, records[i])
		}
	}
	if len(scoped) == 0 {
		return types.SessionSummary{}, false
	}
	return extract.Summarize(scoped, maxMessages), true
}

// SearchPlans ranks planning documents in recent conversations against the
// query, with near-tie recency reordering.
func (s *Searcher) SearchPlans(ctx context.Context, query string, limit int) []types.PlanMatch {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return []types.PlanMatch{}
	}
	limit = s.clampLimit(limit)
	records := s.collectRecent(ctx)

	var scored []types.ScoredRecord
	for i := range records {
		rec := &records[i]
		if !extract.IsPlanDocument(rec.Content) {
			continue
		}
		score := scoring.ScoreCapped(rec, query)
		if score <= 0 {
			continue
		}
		scored = append(scored, types.ScoredRecord{
			Record:         *rec,
			RelevanceScore: score,
			FinalScore:     score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	reorderNearTies(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]types.PlanMatch, 0, len(scored))
	for _, sr := range scored {
		out = append(out, types.PlanMatch{
			Record:  sr,
			Title:   extract.PlanTitle(sr.Content),
			Excerpt: content.Truncate(sr.Content, content.BudgetConversational),
		})
	}
	return out
}

// collectRecent reads the records of the most recent files across the most
// recent partitions. Partition results land in fixed slots so the merged
// order never depends on scan completion order.
func (s *Searcher) collectRecent(ctx context.Context) []types.Record {
	partitions, err := s.dir.List()
	if err != nil {
		s.logger.Error("failed to enumerate corpus", "error", err)
		return nil
	}
	if len(partitions) > s.settings.ProjectLimit {
		partitions = partitions[:s.settings.ProjectLimit]
	}

	slots := make([][]types.Record, len(partitions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, p := range partitions {
		g.Go(func() error {
			files, err := s.dir.ListFiles(p)
			if err != nil {
				s.logger.Warn("skipping unreadable partition", "partition", p.Name, "error", err)
				return nil
			}
			if len(files) > s.settings.FileLimit {
				files = files[:s.settings.FileLimit]
			}
			for _, f := range files {
				if ctx.Err() != nil {
					return nil
				}
				slots[i] = append(slots[i], s.loadRecords(f, p.ProjectPath, "")...)
			}
			return nil
		})
	}
	_ = g.Wait()

	var records []types.Record
	for _, slot := range slots {
		records = append(records, slot...)
	}
	return records
}
