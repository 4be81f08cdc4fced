package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger. Output goes to the given writer,
// which must not be stdout: stdout is reserved for the MCP protocol.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log records the resolved settings at startup, skipping irrelevant ones.
func Log(s *Settings, logger *slog.Logger) {
	logger.Info("config: corpus_root", "value", s.CorpusRoot)
	logger.Info("config: cache_capacity", "value", s.CacheCapacity)
	logger.Info("config: limits", "default", s.DefaultLimit, "max", s.MaxLimit)
	logger.Info("config: scan caps", "projects", s.ProjectLimit, "files", s.FileLimit)
}
