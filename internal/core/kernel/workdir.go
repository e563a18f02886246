package kernel

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// pathLocks serialises every WorkDir that points at the same directory, even
// when several WorkDir values were created for it.
var (
	pathLocksMu sync.Mutex
	pathLocks   = map[string]*sync.Mutex{}
)

func lockFor(path string) *sync.Mutex {
	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()
	mu, ok := pathLocks[path]
	if !ok {
		mu = &sync.Mutex{}
		pathLocks[path] = mu
	}
	return mu
}

// WorkDir is the directory the compiler reads its fixed-name inputs from.
// Only one conversion may use a given directory at a time; Acquire enforces it.
type WorkDir struct {
	path      string
	mu        *sync.Mutex
	temporary bool
}

// NewWorkDir uses (and creates) a shared directory.
func NewWorkDir(path string) (*WorkDir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work dir %s: %w", path, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work dir %s: %w", abs, err)
	}
	return &WorkDir{path: abs, mu: lockFor(abs)}, nil
}

// NewTempWorkDir creates an isolated directory under parent ("" = os temp dir).
// Remove deletes it.
func NewTempWorkDir(parent string) (*WorkDir, error) {
	if parent != "" {
		if err := util.EnsureDir(parent); err != nil {
			return nil, fmt.Errorf("failed to create work dir parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, "mex2ker-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary work dir: %w", err)
	}
	w, err := NewWorkDir(dir)
	if err != nil {
		return nil, err
	}
	w.temporary = true
	return w, nil
}

// Path returns the absolute directory path.
func (w *WorkDir) Path() string {
	return w.path
}

// Join returns name inside the work dir.
func (w *WorkDir) Join(name string) string {
	return filepath.Join(w.path, name)
}

// Acquire blocks until the directory is free and returns the release func.
func (w *WorkDir) Acquire() (release func()) {
	w.mu.Lock()
	return w.mu.Unlock
}

// Remove deletes a temporary work dir. Shared directories are left alone.
func (w *WorkDir) Remove() error {
	if !w.temporary {
		return nil
	}
	return os.RemoveAll(w.path)
}
