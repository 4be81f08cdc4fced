package searcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/gohistory-mcp/internal/config"
	"github.com/dshills/gohistory-mcp/internal/content"
	"github.com/dshills/gohistory-mcp/internal/corpus"
	"github.com/dshills/gohistory-mcp/internal/scoring"
	"github.com/dshills/gohistory-mcp/pkg/types"
)

const (
	// minQueryLength is the shortest trimmed query that can produce a
	// reliable signal. Anything shorter gets an empty response.
	minQueryLength = 3

	// minContentLength rejects fragments too short to rank meaningfully.
	minContentLength = 40

	// scoreFloor is the minimum base relevance a record needs to become a
	// candidate at all.
	scoreFloor = 2.0

	// gatherMultiplier sizes the raw candidate pool relative to the
	// requested result limit, leaving re-ranking room to reorder.
	gatherMultiplier = 3

	// scanConcurrency bounds the partition fan-out.
	scanConcurrency = 4

	// candidatesPerPartition is the yield assumption used to scale the
	// partition budget when a caller asks for an unusually large pool.
	candidatesPerPartition = 10
)

// noiseMarkers flags system and boilerplate lines that carry no
// conversational signal.
var noiseMarkers = []string{
	"Caveat: the messages below",
	"<command-name>",
	"<local-command-stdout>",
	"<system-reminder>",
	"[Request interrupted",
	"No response requested",
	"This session is being continued",
}

// SearchRequest carries the parameters of a ranked search.
type SearchRequest struct {
	Query         string
	ProjectFilter string
	Timeframe     types.Timeframe
	Limit         int
}

// Searcher coordinates query execution over the transcript corpus. It owns
// the parsed-record cache and the query response cache; one instance serves
// all operations for the lifetime of the process.
type Searcher struct {
	dir       *corpus.Directory
	reader    *corpus.Reader
	records   *corpus.RecordCache
	settings  *config.Settings
	logger    *slog.Logger
	respCache *responseCache

	// now is replaceable in tests so recency boosts are reproducible.
	now func() time.Time
}

// NewSearcher creates a Searcher over the given corpus directory.
func NewSearcher(dir *corpus.Directory, reader *corpus.Reader, settings *config.Settings, logger *slog.Logger) *Searcher {
	return &Searcher{
		dir:       dir,
		reader:    reader,
		records:   corpus.NewRecordCache(settings.CacheCapacity),
		settings:  settings,
		logger:    logger,
		respCache: newResponseCache(),
		now:       time.Now,
	}
}

// Search runs a ranked search over recent conversation records. It never
// fails its caller: precondition failures and internal errors both come
// back as a well-formed empty response, with detail on the log channel.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) *types.SearchResponse {
	start := s.now()

	query := strings.TrimSpace(req.Query)
	if len(query) < minQueryLength {
		return types.EmptyResponse(req.Query, time.Since(start))
	}
	limit := s.clampLimit(req.Limit)
	if !req.Timeframe.Valid() {
		s.logger.Warn("ignoring timeframe", "timeframe", string(req.Timeframe), "error", types.ErrInvalidTimeframe)
		req.Timeframe = types.TimeframeAll
	}

	if resp, ok := s.respCache.get("search", query, req.ProjectFilter, string(req.Timeframe), limit); ok {
		return resp
	}

	intent := scoring.ClassifyIntent(query)
	cutoff := req.Timeframe.Cutoff(s.now())

	candidates := s.gather(ctx, query, intent, req.ProjectFilter, cutoff, limit*gatherMultiplier)
	results := Rerank(candidates, query, intent, limit, s.now())
	for i := range results {
		content.Attach(&results[i].Record)
	}

	resp := &types.SearchResponse{
		Query:        query,
		Results:      results,
		TotalResults: len(results),
		Duration:     time.Since(start),
	}
	s.respCache.put(resp, "search", query, req.ProjectFilter, string(req.Timeframe), limit)
	return resp
}

// gather scans the most recently modified partitions concurrently and
// collects records that clear the noise, length, score, intent, and
// timeframe bars. A failure reading any partition or file contributes zero
// candidates; it never aborts the query.
func (s *Searcher) gather(ctx context.Context, query string, intent types.QueryIntent, projectFilter string, cutoff time.Time, target int) []types.ScoredRecord {
	partitions, err := s.selectPartitions(projectFilter, target)
	if err != nil {
		s.logger.Error("failed to enumerate corpus", "error", err)
		return nil
	}

	var (
		mu         sync.Mutex
		candidates []types.ScoredRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for _, p := range partitions {
		g.Go(func() error {
			found := s.scanPartition(ctx, p, query, intent, projectFilter, cutoff, target)
			if len(found) == 0 {
				return nil
			}
			mu.Lock()
			candidates = append(candidates, found...)
			mu.Unlock()
			return nil
		})
		mu.Lock()
		enough := len(candidates) >= target
		mu.Unlock()
		if enough {
			break
		}
	}
	// Goroutines never return errors; the join is for completion only.
	_ = g.Wait()
	return candidates
}

// selectPartitions picks which partitions a query may scan. An explicit
// project filter overrides the recency selection entirely.
func (s *Searcher) selectPartitions(projectFilter string, target int) ([]corpus.Partition, error) {
	if projectFilter != "" {
		return s.dir.Filter(projectFilter)
	}
	partitions, err := s.dir.List()
	if err != nil {
		return nil, err
	}
	budget := s.settings.ProjectLimit
	if scaled := target / candidatesPerPartition; scaled > budget {
		budget = scaled
	}
	if len(partitions) > budget {
		partitions = partitions[:budget]
	}
	return partitions, nil
}

// scanPartition reads the partition's most recent files and filters their
// records down to scored candidates.
func (s *Searcher) scanPartition(ctx context.Context, p corpus.Partition, query string, intent types.QueryIntent, projectFilter string, cutoff time.Time, target int) []types.ScoredRecord {
	files, err := s.dir.ListFiles(p)
	if err != nil {
		s.logger.Warn("skipping unreadable partition", "partition", p.Name, "error", err)
		return nil
	}
	if len(files) > s.settings.FileLimit {
		files = files[:s.settings.FileLimit]
	}

	var candidates []types.ScoredRecord
	for _, f := range files {
		if ctx.Err() != nil {
			return candidates
		}
		records := s.loadRecords(f, p.ProjectPath, query)
		for i := range records {
			rec := &records[i]
			if !s.admissible(rec, intent, cutoff) {
				continue
			}
			score := scoring.Score(rec, query, projectFilter)
			if score < scoreFloor {
				continue
			}
			candidates = append(candidates, types.ScoredRecord{
				Record:         *rec,
				RelevanceScore: score,
				FinalScore:     score,
			})
			if len(candidates) >= target {
				return candidates
			}
		}
	}
	return candidates
}

// loadRecords returns the parsed records for a file, reading through the
// process-wide cache. Scores for the current query accompany the cache
// insert so value-biased eviction can judge the entry.
func (s *Searcher) loadRecords(f corpus.FileInfo, projectPath, query string) []types.Record {
	if cached, ok := s.records.Get(f.ID()); ok {
		return cached
	}
	records, err := s.reader.ReadFile(f, projectPath)
	if err != nil {
		s.logger.Warn("skipping unreadable file", "path", f.Path, "error", err)
		return nil
	}
	var scores []float64
	if query != "" {
		scores = make([]float64, len(records))
		for i := range records {
			scores[i] = scoring.Score(&records[i], query, "")
		}
	}
	s.records.Add(f.ID(), records, scores)
	return records
}

// admissible applies the pre-scoring filters: noise, minimum length,
// timeframe, and the intent predicate.
func (s *Searcher) admissible(rec *types.Record, intent types.QueryIntent, cutoff time.Time) bool {
	if len(rec.Content) < minContentLength {
		return false
	}
	for _, marker := range noiseMarkers {
		if strings.Contains(rec.Content, marker) {
			return false
		}
	}
	if !cutoff.IsZero() && (!rec.HasTimestamp() || rec.Timestamp.Before(cutoff)) {
		return false
	}
	return matchesIntent(rec, intent)
}

// matchesIntent requires the record to exhibit features matching the
// classified intent. Analysis and general intents accept everything.
func matchesIntent(rec *types.Record, intent types.QueryIntent) bool {
	lower := strings.ToLower(rec.Content)
	switch intent.Type {
	case types.IntentError:
		if rec.Context != nil && len(rec.Context.ErrorPatterns) > 0 {
			return true
		}
		return containsAnyFold(lower, "error", "fail", "exception", "panic", "fix", "solv", "solution", "issue", "broken")
	case types.IntentImplementation:
		if rec.Role == types.RoleToolUse || rec.Role == types.RoleToolResult {
			return true
		}
		if rec.Context != nil && (len(rec.Context.CodeSnippets) > 0 || len(rec.Context.Tools) > 0) {
			return true
		}
		return containsAnyFold(lower, "```", "func ", "implement", "creat", "add", "build", "wrote", "writ")
	default:
		return true
	}
}

func containsAnyFold(lower string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// clampLimit normalizes a caller-supplied limit into the configured bounds.
func (s *Searcher) clampLimit(limit int) int {
	if limit <= 0 {
		return s.settings.DefaultLimit
	}
	if limit > s.settings.MaxLimit {
		return s.settings.MaxLimit
	}
	return limit
}
