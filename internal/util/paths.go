package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~/" and returns an absolute path. On failure
// the input is returned unchanged.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// CreateOutputFolder creates path, or path_000 .. path_999 when path already
// exists, and returns the directory actually created.
func CreateOutputFolder(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := EnsureDir(path); err != nil {
			return "", err
		}
		return path, nil
	}

	for i := 0; i < 1000; i++ {
		candidate := fmt.Sprintf("%s_%03d", path, i)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			if err := EnsureDir(candidate); err != nil {
				return "", err
			}
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not create folder %s: all suffixes taken", path)
}
