package corpus

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDecodeProjectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-Users-dave-code-myproj", "/Users/dave/code/myproj"},
		{"-home-ci-app", "/home/ci/app"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeProjectPath(tt.in))
	}
}

func TestDirectory_ListSortsByModTime(t *testing.T) {
	root := t.TempDir()
	older := filepath.Join(root, "-proj-older")
	newer := filepath.Join(root, "-proj-newer")
	require.NoError(t, os.Mkdir(older, 0755))
	require.NoError(t, os.Mkdir(newer, 0755))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	d := NewDirectory(root, nil)
	parts, err := d.List()
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "-proj-newer", parts[0].Name)
	assert.Equal(t, "/proj/newer", parts[0].ProjectPath)
}

func TestDirectory_Filter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "-code-alpha"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "-code-beta"), 0755))

	d := NewDirectory(root, nil)

	matched, err := d.Filter("Alpha")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "/code/alpha", matched[0].ProjectPath)

	all, err := d.Filter("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDirectory_ListMissingRoot(t *testing.T) {
	d := NewDirectory(filepath.Join(t.TempDir(), "nope"), nil)
	_, err := d.List()
	assert.Error(t, err)
}

func TestDirectory_ListFiles(t *testing.T) {
	root := t.TempDir()
	pdir := filepath.Join(root, "-p")
	require.NoError(t, os.Mkdir(pdir, 0755))
	writeTranscript(t, pdir, "aaaa-1111.jsonl", `{"type":"user"}`)
	writeTranscript(t, pdir, "notes.txt", "ignored")

	d := NewDirectory(root, nil)
	parts, err := d.List()
	require.NoError(t, err)
	files, err := d.ListFiles(parts[0])
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "aaaa-1111", files[0].SessionID())
	assert.Contains(t, files[0].ID(), "aaaa-1111.jsonl|")
}

func TestReader_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "sess-1.jsonl",
		`{"type":"user","uuid":"u1","sessionId":"sess-1","timestamp":"2025-06-01T10:00:00Z","message":{"role":"user","content":"How do I fix the docker build?"}}`,
		`not json at all`,
		`{"type":"assistant","uuid":"a1","sessionId":"sess-1","timestamp":"2025-06-01T10:00:05Z","message":{"role":"assistant","content":[{"type":"text","text":"Let me look."},{"type":"tool_use","name":"Read","input":{"file_path":"/app/Dockerfile"}}]}}`,
		`{"type":"user","uuid":"t1","sessionId":"sess-1","timestamp":"2025-06-01T10:00:06Z","message":{"role":"user","content":[{"type":"tool_result","content":"FROM golang:1.25"}]}}`,
		`{"type":"summary","summary":"a summary line"}`,
		`{"type":"user","uuid":"e1","sessionId":"sess-1","message":{"role":"user","content":"   "}}`,
	)

	info, err := os.Stat(path)
	require.NoError(t, err)
	file := FileInfo{Path: path, ModTime: info.ModTime(), Size: info.Size()}

	r := NewReader(nil)
	records, err := r.ReadFile(file, "/code/app")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "u1", records[0].ID)
	assert.Equal(t, "/code/app", records[0].ProjectPath)
	assert.True(t, records[0].HasTimestamp())

	// Assistant turn with tool_use becomes a tool invocation and carries
	// tool context.
	assert.Equal(t, "a1", records[1].ID)
	require.NotNil(t, records[1].Context)
	assert.Equal(t, []string{"Read"}, records[1].Context.Tools)
	assert.Contains(t, records[1].Content, "Using tool: Read /app/Dockerfile")

	assert.Contains(t, records[2].Content, "FROM golang:1.25")
}

func TestReader_InvalidTimestampIsUnknown(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "sess-2.jsonl",
		`{"type":"user","uuid":"u1","timestamp":"garbage","message":{"role":"user","content":"hello there friend"}}`,
		`{"type":"user","uuid":"u2","timestamp":"1999-01-01T00:00:00Z","message":{"role":"user","content":"ancient message body"}}`,
	)
	info, err := os.Stat(path)
	require.NoError(t, err)

	r := NewReader(nil)
	records, err := r.ReadFile(FileInfo{Path: path, ModTime: info.ModTime(), Size: info.Size()}, "/p")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[0].HasTimestamp())
	assert.False(t, records[1].HasTimestamp())
	// Session id falls back to the file name.
	assert.Equal(t, "sess-2", records[0].SessionID)
}
