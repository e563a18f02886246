package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// FileFingerprint returns the CRC32 of the whole file and its size.
func FileFingerprint(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	n, err := io.Copy(h, file)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return fmt.Sprintf("%08x", h.Sum32()), n, nil
}
