package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func TestNewFileScanner(t *testing.T) {
	s := NewFileScanner("/tmp/test")
	assert.Equal(t, "/tmp/test", s.baseDir)
	assert.Equal(t, []string{DefaultPattern}, s.patterns)

	s = NewFileScanner("/tmp/test", "*.TXT", "att_*")
	assert.Equal(t, []string{"*.txt", "att_*"}, s.patterns)
}

func TestFileScannerScan(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		patterns []string
		expected []string
	}{
		{
			name:     "empty directory",
			expected: nil,
		},
		{
			name:     "default pattern is case insensitive and recursive",
			files:    []string{"b.csv", "a.CSV", "notes.txt", "sub/c.csv", "sub/d.json"},
			expected: []string{"a.CSV", "b.csv", "sub/c.csv"},
		},
		{
			name:     "custom pattern",
			files:    []string{"att_1.dat", "att_2.csv", "ephem.csv", "other.dat"},
			patterns: []string{"att_*"},
			expected: []string{"att_1.dat", "att_2.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFiles(t, dir, tt.files...)

			files, err := NewFileScanner(dir, tt.patterns...).Scan()
			require.NoError(t, err)

			var rel []string
			for _, f := range files {
				r, err := filepath.Rel(dir, f)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.Equal(t, tt.expected, rel)
		})
	}
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()
	require.NoError(t, err, "missing directories are skipped")
	assert.Empty(t, files)
}

func TestFileScannerInvalidPattern(t *testing.T) {
	_, err := NewFileScanner(t.TempDir(), "[").Scan()
	assert.ErrorContains(t, err, "invalid pattern")
}
