package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gohistory-mcp/internal/scoring"
	"github.com/dshills/gohistory-mcp/pkg/types"
)

func scored(id, content string, base float64, ts time.Time) types.ScoredRecord {
	return types.ScoredRecord{
		Record: types.Record{
			ID:        id,
			SessionID: "s1",
			Role:      types.RoleAssistant,
			Content:   content,
			Timestamp: ts,
		},
		RelevanceScore: base,
		FinalScore:     base,
	}
}

func TestRerankZeroScoreVetoSurvivesAllBoosts(t *testing.T) {
	now := time.Now()
	query := "react hooks optimization"
	intent := scoring.ClassifyIntent(query)
	require.NotEmpty(t, intent.SemanticBoosts)

	// Fresh record, full of boost-triggering features, but a zero base
	// score from the strict casing-gated match.
	vetoed := scored("veto", "Optimized the ReAct agent loop for performance, see ```func run()``` and src/agent.go", 0, now.Add(-time.Hour))
	kept := scored("keep", "Refactored react hooks for optimization, useMemo cut re-renders in half", 15, now.Add(-time.Hour))

	results := Rerank([]types.ScoredRecord{vetoed, kept}, query, intent, 10, now)
	require.Len(t, results, 2)
	assert.Equal(t, "keep", results[0].ID)
	assert.Equal(t, float64(0), results[1].FinalScore, "zero base score must never be resurrected by boosts")
}

func TestRerankCoverageBoosts(t *testing.T) {
	now := time.Now()
	query := "docker registry auth"
	intent := types.QueryIntent{Type: types.IntentGeneral, Urgency: "medium"}

	full := scored("full", "docker registry auth failed until credentials were refreshed for the push", 10, now)
	partial := scored("partial", "docker compose up needed a rebuilt image before the service came back", 10, now)
	none := scored("none", "the meeting notes from sprint planning were summarized into the wiki page", 10, now)

	results := Rerank([]types.ScoredRecord{none, partial, full}, query, intent, 10, now)
	require.Len(t, results, 3)

	// Full coverage: 3 matched terms at factor 2.0 each → 10 * 8 = 80.
	assert.Equal(t, "full", results[0].ID)
	assert.InDelta(t, 80.0, results[0].FinalScore, 0.001)

	// One of three terms: additive ratio-scaled boost, 10 + 10*(1/3)*0.5.
	assert.Equal(t, "partial", results[1].ID)
	assert.InDelta(t, 10.0+10.0/3.0*0.5, results[1].FinalScore, 0.001)

	// Zero coverage: heavy penalty.
	assert.Equal(t, "none", results[2].ID)
	assert.InDelta(t, 1.0, results[2].FinalScore, 0.001)
}

func TestRerankUrgentRecencyBoost(t *testing.T) {
	now := time.Now()
	query := "fix the build error"
	intent := scoring.ClassifyIntent(query)
	require.Equal(t, "high", intent.Urgency)

	fresh := scored("fresh", "Fixed the build error by pinning the toolchain version in go.mod", 10, now.Add(-time.Hour))
	stale := scored("stale", "Fixed the build error by pinning the toolchain version in go.mod", 10, now.Add(-72*time.Hour))
	// The suffix keeps the two signatures distinct.
	stale.Content += " last quarter"

	results := Rerank([]types.ScoredRecord{stale, fresh}, query, intent, 10, now)
	require.Len(t, results, 2)
	assert.Equal(t, "fresh", results[0].ID)
	assert.Greater(t, results[0].FinalScore, results[1].FinalScore)
}

func TestRerankDeterministicRegardlessOfArrivalOrder(t *testing.T) {
	now := time.Now()
	query := "docker auth"
	intent := types.QueryIntent{Type: types.IntentGeneral, Urgency: "medium"}

	a := scored("a", "docker auth token rotation happens nightly via the credential helper", 10, now.Add(-time.Minute))
	b := scored("b", "docker auth failures traced back to an expired refresh token in the keychain", 12, now.Add(-2*time.Minute))
	c := scored("c", "docker auth config lives under ~/.docker and is mounted into the CI runner", 8, now.Add(-3*time.Minute))

	first := Rerank([]types.ScoredRecord{a, b, c}, query, intent, 10, now)
	second := Rerank([]types.ScoredRecord{c, b, a}, query, intent, 10, now)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestDedupeCollapsesTrailingDigitVariants(t *testing.T) {
	now := time.Now()
	a := scored("a", "Running test suite attempt 1 of the integration batch against the staging cluster", 10, now)
	b := scored("b", "Running test suite attempt 2 of the integration batch against the staging cluster", 12, now)

	out := Dedupe([]types.ScoredRecord{a, b})
	require.Len(t, out, 1)
	// The later, higher-scored duplicate replaces the kept one.
	assert.Equal(t, "b", out[0].ID)
}

func TestDedupeKeepsFirstUnlessLaterScoresHigher(t *testing.T) {
	now := time.Now()
	a := scored("a", "Edited internal/server/loop.go line 10 to add the retry backoff handling", 12, now)
	b := scored("b", "Edited internal/server/loop.go line 42 to add the retry backoff handling", 10, now)

	out := Dedupe([]types.ScoredRecord{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestDedupeIdempotent(t *testing.T) {
	now := time.Now()
	in := []types.ScoredRecord{
		scored("a", "Wrote the migration script and verified against a snapshot of production data", 10, now),
		scored("b", "Wrote the migration script and verified against a snapshot of production data", 8, now),
		scored("c", "Deployed the updated ingress configuration after the canary checks passed", 6, now),
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestSignatureComponents(t *testing.T) {
	rec := types.Record{
		Role:    types.RoleToolUse,
		Content: `Using tool: Edit "file_42.go" attempt 7`,
		Context: &types.RecordContext{
			Tools: []string{"Edit", "Bash"},
			Files: []string{"file_42.go"},
		},
	}
	sig := Signature(&rec)
	assert.Contains(t, sig, "tool_use|")
	assert.Contains(t, sig, "Bash,Edit")
	assert.Contains(t, sig, "has-files")
	assert.Contains(t, sig, "file_#.go")
	assert.NotContains(t, sig, `"`)
	assert.NotContains(t, sig, "42")
}

func TestReorderNearTiesPrefersNewer(t *testing.T) {
	now := time.Now()
	older := scored("older", "plan draft one", 10, now.Add(-time.Hour))
	newer := scored("newer", "plan draft two", 9.5, now)
	far := scored("far", "plan draft three", 4, now)

	ranked := []types.ScoredRecord{older, newer, far}
	reorderNearTies(ranked)
	assert.Equal(t, "newer", ranked[0].ID)
	assert.Equal(t, "older", ranked[1].ID)
	assert.Equal(t, "far", ranked[2].ID, "a large score gap is never reordered")
}
