package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// Partition is one logical grouping of records: an encoded project
// directory under the corpus root.
type Partition struct {
	Name        string // raw directory name
	Path        string // absolute path
	ProjectPath string // decoded display path
	ModTime     time.Time
}

// FileInfo identifies one transcript file within a partition.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ID returns the cache identity for the file: path, mtime, and size. A
// rewritten file gets a new identity, so stale cache entries never match.
func (f FileInfo) ID() string {
	return fmt.Sprintf("%s|%d|%d", f.Path, f.ModTime.UnixNano(), f.Size)
}

// SessionID derives the session id from the transcript file name.
func (f FileInfo) SessionID() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExpandFunc folds a partition's linked partitions into the listing. The
// detection heuristic lives with the caller; a nil func means no expansion.
type ExpandFunc func(p Partition) []Partition

// Directory lists partitions under a corpus root, most recently modified
// first.
type Directory struct {
	root   string
	expand ExpandFunc
}

// NewDirectory creates a partition directory over the given root.
func NewDirectory(root string, expand ExpandFunc) *Directory {
	return &Directory{root: root, expand: expand}
}

// Root returns the corpus root path.
func (d *Directory) Root() string { return d.root }

// List returns all partitions sorted most-recent-modified-first.
func (d *Directory) List() ([]Partition, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus root: %w", types.ErrCorpusNotFound)
	}

	parts := make([]Partition, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		p := Partition{
			Name:        e.Name(),
			Path:        filepath.Join(d.root, e.Name()),
			ProjectPath: DecodeProjectPath(e.Name()),
			ModTime:     info.ModTime(),
		}
		parts = append(parts, p)
		if d.expand != nil {
			parts = append(parts, d.expand(p)...)
		}
	}

	sort.Slice(parts, func(i, j int) bool {
		return parts[i].ModTime.After(parts[j].ModTime)
	})
	return parts, nil
}

// Filter returns partitions whose decoded path or raw name contains the
// given substring, case-insensitively. An empty filter matches everything.
func (d *Directory) Filter(filter string) ([]Partition, error) {
	parts, err := d.List()
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return parts, nil
	}

	needle := strings.ToLower(filter)
	matched := parts[:0]
	for _, p := range parts {
		if strings.Contains(strings.ToLower(p.ProjectPath), needle) ||
			strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// ListFiles returns the partition's transcript files sorted most-recent-
// modified-first.
func (d *Directory) ListFiles(p Partition) ([]FileInfo, error) {
	entries, err := os.ReadDir(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list partition %s: %w", p.Name, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(p.Path, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// DecodeProjectPath turns an encoded partition directory name back into a
// display path: "-Users-dave-code-myproj" becomes "/Users/dave/code/myproj".
// The encoding is lossy (hyphens in real path segments are indistinguishable
// from separators); the decoded form is for display and filtering only.
func DecodeProjectPath(name string) string {
	if name == "" {
		return ""
	}
	decoded := strings.ReplaceAll(name, "-", "/")
	if !strings.HasPrefix(decoded, "/") {
		decoded = "/" + decoded
	}
	return decoded
}
