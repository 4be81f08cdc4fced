package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// maxLineBytes bounds a single transcript line. Tool results with large
// file dumps can run to hundreds of kilobytes.
const maxLineBytes = 4 * 1024 * 1024

// Reader decodes transcript files into records, one line at a time. Lines
// that fail to decode are skipped with a warning, never an error.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a transcript reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// transcriptLine is the wire shape of one corpus line. Only the fields the
// engine needs are decoded.
type transcriptLine struct {
	Type      string          `json:"type"`
	UUID      string          `json:"uuid"`
	SessionID string          `json:"sessionId"`
	Timestamp string          `json:"timestamp"`
	CWD       string          `json:"cwd"`
	Message   json.RawMessage `json:"message"`
}

type transcriptMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Input   json.RawMessage `json:"input"`
	Content json.RawMessage `json:"content"`
}

// ReadFile parses every decodable line of a transcript file. Records with
// empty content are dropped. The session id falls back to the file name
// when a line omits it.
func (r *Reader) ReadFile(file FileInfo, projectPath string) ([]types.Record, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	fallbackSession := file.SessionID()
	records := make([]types.Record, 0, 64)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		rec, ok := r.decodeLine(raw, lineNo, file.Path)
		if !ok {
			continue
		}
		if rec.SessionID == "" {
			rec.SessionID = fallbackSession
		}
		rec.ProjectPath = projectPath
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		// Partial results are preferred over failure.
		r.logger.Warn("transcript scan aborted", "file", file.Path, "line", lineNo, "error", err)
	}
	return records, nil
}

// decodeLine converts one line into a record. Unusable lines (summaries,
// malformed JSON, empty content) report ok=false.
func (r *Reader) decodeLine(raw []byte, lineNo int, path string) (types.Record, bool) {
	var line transcriptLine
	if err := json.Unmarshal(raw, &line); err != nil {
		r.logger.Warn("skipping malformed transcript line", "file", path, "line", lineNo, "error", err)
		return types.Record{}, false
	}

	if line.Type != "user" && line.Type != "assistant" {
		// Summary, snapshot, and meta lines carry no conversational content.
		return types.Record{}, false
	}

	var msg transcriptMessage
	if len(line.Message) > 0 {
		if err := json.Unmarshal(line.Message, &msg); err != nil {
			r.logger.Warn("skipping line with malformed message", "file", path, "line", lineNo, "error", err)
			return types.Record{}, false
		}
	}

	content, role, tools := extractContent(line.Type, msg)
	if strings.TrimSpace(content) == "" {
		return types.Record{}, false
	}

	rec := types.Record{
		ID:        line.UUID,
		SessionID: line.SessionID,
		Role:      role,
		Content:   content,
		Timestamp: parseTimestamp(line.Timestamp),
	}
	if len(tools) > 0 {
		rec.Context = &types.RecordContext{Tools: tools}
	}
	return rec, true
}

// extractContent flattens a message into plain text and classifies the
// line's role. Assistant messages carrying tool_use blocks become tool
// invocations; user messages carrying tool_result blocks become tool
// results.
func extractContent(lineType string, msg transcriptMessage) (string, types.Role, []string) {
	role := types.RoleHuman
	if lineType == "assistant" {
		role = types.RoleAssistant
	}

	// String content is the common human-turn shape.
	var text string
	if json.Unmarshal(msg.Content, &text) == nil {
		return text, role, nil
	}

	var blocks []contentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		return "", role, nil
	}

	var sb strings.Builder
	var tools []string
	seen := make(map[string]bool)

	for _, b := range blocks {
		switch b.Type {
		case "text":
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(b.Text)
		case "tool_use":
			role = types.RoleToolUse
			if b.Name != "" && !seen[b.Name] {
				seen[b.Name] = true
				tools = append(tools, b.Name)
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("Using tool: " + b.Name)
			if summary := summarizeToolInput(b.Input); summary != "" {
				sb.WriteString(" " + summary)
			}
		case "tool_result":
			role = types.RoleToolResult
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(flattenToolResult(b.Content))
		}
	}
	return sb.String(), role, tools
}

// summarizeToolInput pulls the human-meaningful parts of a tool input:
// file paths and commands. Full inputs can be enormous and add no signal.
func summarizeToolInput(input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}
	var fields struct {
		FilePath string `json:"file_path"`
		Path     string `json:"path"`
		Command  string `json:"command"`
		Pattern  string `json:"pattern"`
	}
	if err := json.Unmarshal(input, &fields); err != nil {
		return ""
	}
	switch {
	case fields.FilePath != "":
		return fields.FilePath
	case fields.Path != "":
		return fields.Path
	case fields.Command != "":
		return fields.Command
	case fields.Pattern != "":
		return fields.Pattern
	}
	return ""
}

// flattenToolResult handles both string results and block-list results.
func flattenToolResult(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}
	var text string
	if json.Unmarshal(content, &text) == nil {
		return text
	}
	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// parseTimestamp parses an RFC3339 timestamp. Invalid and implausibly old
// values come back as the zero time, which HasTimestamp treats as unknown.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		ts, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}
		}
	}
	if !ts.After(types.TimestampSentinel) {
		return time.Time{}
	}
	return ts
}
