package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"
)

// historyBudget bounds the auxiliary history scan. The history file is a
// best-effort secondary source: on expiry we return whatever was read so
// far, never an error.
const historyBudget = 500 * time.Millisecond

// HistoryEntry is one prior prompt from the auxiliary history file.
type HistoryEntry struct {
	Display   string `json:"display"`
	Project   string `json:"project"`
	Timestamp int64  `json:"timestamp"` // unix seconds, may be zero
}

// ReadHistory reads the prompt-history file under a short internal time
// budget. Missing files, malformed lines, and budget expiry all degrade to
// a shorter (possibly empty) result.
func ReadHistory(ctx context.Context, path string, logger *slog.Logger) []HistoryEntry {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Debug("history file unavailable", "path", path, "error", err)
		return nil
	}
	defer func() { _ = f.Close() }()

	deadline := time.Now().Add(historyBudget)
	entries := make([]HistoryEntry, 0, 128)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return entries
		default:
		}
		if time.Now().After(deadline) {
			logger.Debug("history scan budget expired", "entries", len(entries))
			return entries
		}

		var e HistoryEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if e.Display == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
