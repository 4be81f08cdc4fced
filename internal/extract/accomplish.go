package extract

import (
	"github.com/dshills/gohistory-mcp/pkg/types"
)

// maxAccomplishments bounds per-session accomplishment lists.
const maxAccomplishments = 8

// Accomplishments extracts completed-work strings from assistant-authored
// records. Each record contributes at most one string (first matching
// pattern wins); duplicates are suppressed in insertion order.
func Accomplishments(records []types.Record, limit int) []string {
	if limit <= 0 || limit > maxAccomplishments {
		limit = maxAccomplishments
	}
	return fromTable(accomplishmentTable, records, limit)
}

// Decisions extracts recorded decision strings from assistant records.
func Decisions(records []types.Record, limit int) []string {
	if limit <= 0 {
		limit = 5
	}
	return fromTable(decisionTable, records, limit)
}

func fromTable(table Table, records []types.Record, limit int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, limit)

	for i := range records {
		rec := &records[i]
		if rec.Role != types.RoleAssistant {
			continue
		}
		s, ok := table.Extract(rec.Content)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) >= limit {
			break
		}
	}
	return out
}
