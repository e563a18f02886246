// Package timeline reconstructs sensor observation intervals from the
// experiment-mode section of a MAPPS timeline dump.
package timeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

const (
	// SectionMarker starts the experiment-mode section.
	SectionMarker = "Experiment modes:"
	sectionRule   = "-----"
)

// Fixed column offsets of an experiment-mode row.
const (
	timestampStart, timestampEnd   = 0, 20
	instrumentStart, instrumentEnd = 36, 46
	modeStart, modeEnd             = 74, 91
)

// ErrSectionNotFound matches any SectionNotFoundError via errors.Is.
var ErrSectionNotFound = errors.New("experiment modes section not found")

// SectionNotFoundError reports a dump without a usable experiment-mode
// section. Line is 1-based and 0 when the marker never appeared.
type SectionNotFoundError struct {
	Marker string
	Line   int
	Reason string
}

func (e *SectionNotFoundError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: no line starts with %q", ErrSectionNotFound, e.Marker)
	}
	return fmt.Sprintf("%s: %s (line %d)", ErrSectionNotFound, e.Reason, e.Line)
}

func (e *SectionNotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}

// RowError reports a malformed experiment-mode row. Line is 1-based.
type RowError struct {
	Line int
	Text string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("experiment mode row at line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ParseFile parses the dump at path.
func ParseFile(path string) ([]model.ExperimentModeEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline dump: %w", err)
	}
	defer file.Close()
	return ParseExperimentModes(file)
}

// ParseExperimentModes locates the experiment-mode section and returns its
// rows in file order. The section ends at the first blank line or at EOF.
func ParseExperimentModes(r io.Reader) ([]model.ExperimentModeEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		line++
		return strings.TrimRight(scanner.Text(), "\r"), true
	}

	found := false
	for text, ok := next(); ok; text, ok = next() {
		if strings.HasPrefix(text, SectionMarker) {
			found = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan timeline dump: %w", err)
	}
	if !found {
		return nil, &SectionNotFoundError{Marker: SectionMarker}
	}

	// two heading lines, then the dash rule
	next()
	next()
	rule, ok := next()
	if !ok || !strings.HasPrefix(rule, sectionRule) {
		return nil, &SectionNotFoundError{
			Marker: SectionMarker,
			Line:   line,
			Reason: "could not find start of experiment modes section",
		}
	}
	util.LogDebugf("Experiment modes section starts after line %d", line)

	var entries []model.ExperimentModeEntry
	for text, ok := next(); ok; text, ok = next() {
		if strings.TrimSpace(text) == "" {
			break
		}
		entry, err := parseRow(text)
		if err != nil {
			return nil, &RowError{Line: line, Text: text, Err: err}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan timeline dump: %w", err)
	}

	util.LogInfof("Parsed %d experiment mode entries", len(entries))
	return entries, nil
}

func parseRow(text string) (model.ExperimentModeEntry, error) {
	stamp := column(text, timestampStart, timestampEnd)
	utc, err := time.Parse(timeconv.TimelineLayout, stamp)
	if err != nil {
		return model.ExperimentModeEntry{}, &timeconv.TimeParseError{Input: stamp, Layout: timeconv.TimelineLayout, Err: err}
	}
	return model.ExperimentModeEntry{
		UTC:        utc,
		Instrument: strings.TrimRightFunc(column(text, instrumentStart, instrumentEnd), unicode.IsSpace),
		Mode:       strings.TrimRightFunc(column(text, modeStart, modeEnd), unicode.IsSpace),
	}, nil
}

// column slices text[start:end], clamped to the line length.
func column(text string, start, end int) string {
	if start >= len(text) {
		return ""
	}
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
