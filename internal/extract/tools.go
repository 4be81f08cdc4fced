package extract

import (
	"sort"
	"strings"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// chainMarker joins tool names into a workflow chain string.
const chainMarker = " -> "

// bestPracticeTable maps observed workflow chains to advice. Keyed by
// chain prefix; first match wins.
var bestPracticeTable = []struct {
	chain  string
	advice string
}{
	{"Read" + chainMarker + "Edit", "Read files before editing them to keep edits anchored to current content"},
	{"Edit" + chainMarker + "Bash", "Run a command after editing to verify the change"},
	{"Grep" + chainMarker + "Read", "Narrow with a search before opening files"},
	{"Write" + chainMarker + "Bash", "Execute newly written files promptly to catch errors early"},
}

// ToolPatterns aggregates tool usage from the given records. With a tool
// filter, only that tool's group is returned; otherwise groups come back
// ordered by usage count. Workflow chains of two and three consecutive
// tool invocations within a session are reported as patterns.
func ToolPatterns(records []types.Record, toolFilter string, limit int) []types.ToolPattern {
	if limit <= 0 {
		limit = 5
	}

	groups := make(map[string]*types.ToolPattern)
	var chains []string

	// Consecutive tool invocations per session form workflow chains.
	var prevTool, prevSession string
	var prevPrevTool string

	for i := range records {
		rec := &records[i]
		tools := recordTools(rec)
		if len(tools) == 0 {
			prevTool, prevPrevTool = "", ""
			continue
		}
		if rec.SessionID != prevSession {
			prevTool, prevPrevTool = "", ""
		}

		for _, tool := range tools {
			g, ok := groups[tool]
			if !ok {
				g = &types.ToolPattern{Tool: tool}
				groups[tool] = g
			}
			g.Usages = append(g.Usages, types.ScoredRecord{Record: *rec})
		}

		tool := tools[0]
		if prevTool != "" && prevTool != tool {
			chains = append(chains, prevTool+chainMarker+tool)
			if prevPrevTool != "" && prevPrevTool != prevTool {
				chains = append(chains, prevPrevTool+chainMarker+prevTool+chainMarker+tool)
			}
		}
		prevPrevTool, prevTool, prevSession = prevTool, tool, rec.SessionID
	}

	chainCounts := countStrings(chains)
	attachChains(groups, chainCounts)

	var out []types.ToolPattern
	if toolFilter != "" {
		if g, ok := groups[toolFilter]; ok {
			out = append(out, *g)
		}
		return out
	}

	for _, g := range groups {
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Usages) != len(out[j].Usages) {
			return len(out[i].Usages) > len(out[j].Usages)
		}
		return out[i].Tool < out[j].Tool
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// attachChains distributes workflow chains and best practices onto the
// groups of the tools that start them.
func attachChains(groups map[string]*types.ToolPattern, chainCounts map[string]int) {
	ordered := make([]string, 0, len(chainCounts))
	for c := range chainCounts {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if chainCounts[ordered[i]] != chainCounts[ordered[j]] {
			return chainCounts[ordered[i]] > chainCounts[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})

	for _, chain := range ordered {
		head := strings.SplitN(chain, chainMarker, 2)[0]
		g, ok := groups[head]
		if !ok {
			continue
		}
		if len(g.Patterns) < 5 {
			g.Patterns = append(g.Patterns, chain)
		}
		for _, bp := range bestPracticeTable {
			if strings.HasPrefix(chain, bp.chain) && !containsString(g.BestPractices, bp.advice) {
				g.BestPractices = append(g.BestPractices, bp.advice)
				break
			}
		}
	}
}

func recordTools(rec *types.Record) []string {
	if rec.Context == nil {
		return nil
	}
	return rec.Context.Tools
}

func countStrings(in []string) map[string]int {
	counts := make(map[string]int, len(in))
	for _, s := range in {
		counts[s]++
	}
	return counts
}

func containsString(in []string, s string) bool {
	for _, v := range in {
		if v == s {
			return true
		}
	}
	return false
}
