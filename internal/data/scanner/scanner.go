// Package scanner finds input files below a directory.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// DefaultPattern matches MAPPS attitude exports.
const DefaultPattern = "*.csv"

// FileScanner scans files in the specified directory
type FileScanner struct {
	baseDir  string
	patterns []string
}

// NewFileScanner matches base names against patterns, case-insensitively.
// No patterns means DefaultPattern.
func NewFileScanner(baseDir string, patterns ...string) *FileScanner {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &FileScanner{
		baseDir:  baseDir,
		patterns: lowered,
	}
}

// Scan walks the directory tree and returns the matching files in lexical
// order. Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	for _, p := range s.patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}

	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.LogDebugf("Skip file (error): %s - %v", path, err)
			return nil
		}

		if d.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if s.matches(d.Name()) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d matches",
		time.Since(start), dirCount, totalCount, len(files))

	return files, err
}

func (s *FileScanner) matches(name string) bool {
	name = strings.ToLower(name)
	for _, p := range s.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
