package config

import (
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"gopkg.in/yaml.v3"
)

type leapSecondFile struct {
	// Boundaries are UTC dates (YYYY-MM-DD) at which a leap second took effect.
	Boundaries []string `yaml:"boundaries"`
}

// LoadLeapSeconds returns the built-in table extended with the boundaries
// listed in path. An empty path returns the built-in table.
func LoadLeapSeconds(path string) (*timeconv.LeapSecondTable, error) {
	if path == "" {
		return timeconv.DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read leap second file: %w", err)
	}
	return ParseLeapSeconds(data)
}

// ParseLeapSeconds decodes a leap second extension document.
func ParseLeapSeconds(data []byte) (*timeconv.LeapSecondTable, error) {
	var f leapSecondFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse leap second file: %w", err)
	}

	extra := make([]time.Time, 0, len(f.Boundaries))
	for _, s := range f.Boundaries {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("invalid leap second boundary %q: %w", s, err)
		}
		extra = append(extra, d)
	}
	table, err := timeconv.DefaultTable().Extend(extra...)
	if err != nil {
		return nil, fmt.Errorf("failed to extend leap second table: %w", err)
	}
	return table, nil
}
