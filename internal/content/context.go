package content

import (
	"regexp"
	"strings"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// Per-category caps on extracted context. Order is insertion order, so
// these behave as "first N".
const (
	maxFiles    = 8
	maxTools    = 8
	maxErrors   = 5
	maxSnippets = 3
	maxInsights = 5
	maxActions  = 5
	maxCommands = 5
)

var (
	toolUseRe    = regexp.MustCompile(`Using tool: (\w+)`)
	errorLineRe  = regexp.MustCompile(`(?im)^.*\b(error|exception|panic|fatal|failed)\b.*$`)
	commandRe    = regexp.MustCompile(`(?m)^\s*\$ (.+)$`)
	insightRe    = regexp.MustCompile(`(?i)(?:the (?:fix|solution|issue|problem|root cause) (?:was|is)|fixed (?:it |this )?by|turns out|because of)[^.\n]*[.\n]?`)
	actionItemRe = regexp.MustCompile(`(?im)^.*\b(?:need to|should|todo|next step|remaining)\b.*$`)
)

// ExtractContext derives the context bundle for a record: referenced
// files, tools used, error patterns, code snippets, assistant insights,
// action items, and shell commands. Tools already attached during parsing
// (from structured tool blocks) are preserved ahead of text-derived ones.
func ExtractContext(record *types.Record) *types.RecordContext {
	text := record.Content
	ctx := &types.RecordContext{}
	if record.Context != nil {
		ctx.Tools = append(ctx.Tools, record.Context.Tools...)
	}

	ctx.Files = firstN(dedupeStrings(filePathRe.FindAllString(text, -1)), maxFiles)

	for _, m := range toolUseRe.FindAllStringSubmatch(text, -1) {
		ctx.Tools = append(ctx.Tools, m[1])
	}
	ctx.Tools = firstN(dedupeStrings(ctx.Tools), maxTools)

	for _, line := range errorLineRe.FindAllString(text, -1) {
		line = strings.TrimSpace(line)
		if len(line) > 100 {
			line = line[:100]
		}
		ctx.ErrorPatterns = append(ctx.ErrorPatterns, line)
	}
	ctx.ErrorPatterns = firstN(dedupeStrings(ctx.ErrorPatterns), maxErrors)

	ctx.CodeSnippets = firstN(fencedBlockRe.FindAllString(text, -1), maxSnippets)

	if record.Role == types.RoleAssistant {
		for _, m := range insightRe.FindAllString(text, -1) {
			ctx.Insights = append(ctx.Insights, strings.TrimSpace(m))
		}
		ctx.Insights = firstN(dedupeStrings(ctx.Insights), maxInsights)
	}

	for _, line := range actionItemRe.FindAllString(text, -1) {
		line = strings.TrimSpace(line)
		if len(line) > 120 {
			line = line[:120]
		}
		ctx.ActionItems = append(ctx.ActionItems, line)
	}
	ctx.ActionItems = firstN(dedupeStrings(ctx.ActionItems), maxActions)

	for _, m := range commandRe.FindAllStringSubmatch(text, -1) {
		ctx.Commands = append(ctx.Commands, strings.TrimSpace(m[1]))
	}
	ctx.Commands = firstN(dedupeStrings(ctx.Commands), maxCommands)

	return ctx
}

// Attach fills in the record's context bundle when it is missing or only
// holds the parse-time tool list.
func Attach(record *types.Record) {
	record.Context = ExtractContext(record)
}

func firstN(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
