package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Workspace is a scratch directory owned by a single acquisition attempt.
// Close removes it recursively and may be called any number of times.
type Workspace struct {
	dir  string
	once sync.Once
	err  error
}

// NewWorkspace creates a uniquely named directory under root. An empty root
// falls back to the system temp directory.
func NewWorkspace(root, prefix string) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ensure workspace root: %w", err)
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "work"
	}
	dir, err := os.MkdirTemp(root, prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir(), name)
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	if w == nil {
		return nil
	}
	w.once.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			w.err = fmt.Errorf("remove workspace %s: %w", w.dir, err)
		}
	})
	return w.err
}
