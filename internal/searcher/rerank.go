package searcher

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dshills/gohistory-mcp/internal/scoring"
	"github.com/dshills/gohistory-mcp/pkg/types"
)

const (
	// coverageBoostFactor compounds once per matched query term when the
	// candidate covers at least half the query.
	coverageBoostFactor = 2.0

	// lowCoveragePenalty punishes candidates matching none of the terms.
	lowCoveragePenalty = 0.1

	// urgentRecencyBoost rewards fresh records when the query is urgent.
	urgentRecencyBoost = 1.5
	urgentRecencyAge   = 24 * time.Hour

	// nearTieDelta is the score difference under which the recency-aware
	// paths prefer the newer record.
	nearTieDelta = 1.0

	signaturePrefixLen = 80
)

var (
	pathLikeRe   = regexp.MustCompile(`\b[\w.-]+/[\w./-]+\b`)
	digitRunRe   = regexp.MustCompile(`\d+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Rerank turns raw candidates into the final ranked, deduplicated,
// size-bounded result list.
//
// A candidate whose base score is exactly zero on a multi-word query keeps
// a zero final score no matter what boosts are active: a record that failed
// the base match requirement must never be resurrected by coverage or
// semantic boosts.
func Rerank(candidates []types.ScoredRecord, query string, intent types.QueryIntent, limit int, now time.Time) []types.ScoredRecord {
	if len(candidates) == 0 {
		return []types.ScoredRecord{}
	}

	terms := scoring.QueryWords(query)
	multiWord := len(scoring.SignificantWords(query)) >= 2

	ranked := make([]types.ScoredRecord, 0, len(candidates))
	for _, cand := range candidates {
		if multiWord && cand.RelevanceScore == 0 {
			cand.FinalScore = 0
			ranked = append(ranked, cand)
			continue
		}
		cand.FinalScore = boost(cand, terms, intent, now)
		ranked = append(ranked, cand)
	}

	// Sorting by score, then timestamp, then id keeps the final order
	// independent of which partition scan finished first.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		if !ranked[i].Timestamp.Equal(ranked[j].Timestamp) {
			return ranked[i].Timestamp.After(ranked[j].Timestamp)
		}
		return ranked[i].ID < ranked[j].ID
	})

	ranked = Dedupe(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// boost layers coverage, semantic, and recency multipliers on the base
// relevance score.
func boost(cand types.ScoredRecord, terms []string, intent types.QueryIntent, now time.Time) float64 {
	final := cand.RelevanceScore
	lower := strings.ToLower(cand.Content)

	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	if len(terms) > 0 {
		coverage := float64(matched) / float64(len(terms))
		switch {
		case coverage >= 0.5:
			for i := 0; i < matched; i++ {
				final *= coverageBoostFactor
			}
		case coverage > 0:
			final += final * coverage * 0.5
		default:
			final *= lowCoveragePenalty
		}
	}

	for label, mult := range intent.SemanticBoosts {
		if hasSemanticFeature(&cand.Record, lower, label) {
			final *= mult
		}
	}

	if intent.Urgency == "high" && cand.HasTimestamp() && now.Sub(cand.Timestamp) < urgentRecencyAge {
		final *= urgentRecencyBoost
	}
	return final
}

// hasSemanticFeature reports whether the record exhibits the feature a
// semantic boost label rewards.
func hasSemanticFeature(rec *types.Record, lower, label string) bool {
	switch label {
	case types.BoostErrorResolution, types.BoostSolutions:
		if rec.Context != nil && len(rec.Context.ErrorPatterns) > 0 {
			return true
		}
		return containsAnyFold(lower, "error", "fail", "exception", "fix", "solv", "resolv")
	case types.BoostImplementation:
		if rec.Context != nil && len(rec.Context.CodeSnippets) > 0 {
			return true
		}
		return containsAnyFold(lower, "```", "func ", "implement", "class ", "def ")
	case types.BoostOptimization:
		return containsAnyFold(lower, "optimiz", "performance", "faster", "slow", "benchmark")
	case types.BoostFileOperations:
		if rec.Context != nil && len(rec.Context.Files) > 0 {
			return true
		}
		return pathLikeRe.MatchString(lower)
	case types.BoostToolUsage:
		if rec.Context != nil && len(rec.Context.Tools) > 0 {
			return true
		}
		return rec.Role == types.RoleToolUse || strings.Contains(lower, "using tool:")
	}
	return false
}

// Dedupe collapses near-duplicate records by content signature. The
// first-seen record per signature survives unless a later duplicate has a
// strictly higher final score, in which case it takes the slot. Relative
// order of the survivors is preserved.
func Dedupe(ranked []types.ScoredRecord) []types.ScoredRecord {
	if len(ranked) < 2 {
		return ranked
	}
	keptAt := make(map[string]int, len(ranked))
	out := make([]types.ScoredRecord, 0, len(ranked))
	for _, cand := range ranked {
		sig := Signature(&cand.Record)
		if idx, seen := keptAt[sig]; seen {
			if cand.FinalScore > out[idx].FinalScore {
				out[idx] = cand
			}
			continue
		}
		keptAt[sig] = len(out)
		out = append(out, cand)
	}
	return out
}

// Signature builds the content signature used for near-duplicate
// detection: role, sorted tool list, a has-files flag, and the normalized
// head of the content with digit runs collapsed and quotes stripped, so
// that retries differing only in counters or paths-with-line-numbers
// collapse to one entry.
func Signature(rec *types.Record) string {
	var b strings.Builder
	b.WriteString(string(rec.Role))
	b.WriteByte('|')
	if rec.Context != nil && len(rec.Context.Tools) > 0 {
		tools := append([]string(nil), rec.Context.Tools...)
		sort.Strings(tools)
		b.WriteString(strings.Join(tools, ","))
	}
	b.WriteByte('|')
	if rec.Context != nil && len(rec.Context.Files) > 0 {
		b.WriteString("has-files")
	} else {
		b.WriteString("no-files")
	}
	b.WriteByte('|')

	head := strings.ToLower(rec.Content)
	if len(head) > signaturePrefixLen {
		head = head[:signaturePrefixLen]
	}
	head = digitRunRe.ReplaceAllString(head, "#")
	head = strings.NewReplacer(`"`, "", "'", "", "`", "").Replace(head)
	head = whitespaceRe.ReplaceAllString(head, " ")
	b.WriteString(strings.TrimSpace(head))
	return b.String()
}

// reorderNearTies walks a ranked list and swaps adjacent entries whose
// scores differ by at most nearTieDelta when the later one is newer. Used
// by the recency-aware listings where freshness should win a coin flip.
func reorderNearTies(ranked []types.ScoredRecord) {
	for i := 0; i+1 < len(ranked); i++ {
		a, b := &ranked[i], &ranked[i+1]
		if a.FinalScore-b.FinalScore <= nearTieDelta && b.Timestamp.After(a.Timestamp) {
			ranked[i], ranked[i+1] = ranked[i+1], ranked[i]
		}
	}
}
