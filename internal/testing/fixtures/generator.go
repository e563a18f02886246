package fixtures

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ModeRow is one experiment-mode row of a generated timeline dump.
type ModeRow struct {
	UTC        time.Time
	Instrument string
	Mode       string
}

// TestDataGenerator writes MAPPS-like input files under baseDir.
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

func (g *TestDataGenerator) write(name, content string) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// GenerateAttitudeLog writes n attitude records step apart and returns the path.
func (g *TestDataGenerator) GenerateAttitudeLog(name string, start time.Time, step time.Duration, n int) (string, error) {
	return g.write(name, AttitudeLog(start, step, n))
}

// GenerateTimeline writes a timeline dump containing rows and returns the path.
func (g *TestDataGenerator) GenerateTimeline(name string, rows []ModeRow) (string, error) {
	return g.write(name, TimelineDump(rows))
}

// GenerateEphemeris writes a sampled ephemeris with identity attitude and a
// fixed Sun position.
func (g *TestDataGenerator) GenerateEphemeris(name string, start time.Time, step time.Duration, n int, sun [3]float64) (string, error) {
	var b strings.Builder
	b.WriteString("# generated ephemeris\nutc,q0,q1,q2,q3,sun_x,sun_y,sun_z\n")
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * step).UTC()
		fmt.Fprintf(&b, "%sZ,1,0,0,0,%g,%g,%g\n", t.Format("2006-01-02T15:04:05"), sun[0], sun[1], sun[2])
	}
	return g.write(name, b.String())
}

// AttitudeLog renders a MAPPS attitude export: a short header followed by n
// records slewing slowly about Z.
func AttitudeLog(start time.Time, step time.Duration, n int) string {
	var b strings.Builder
	b.WriteString("MAPPS attitude export\n")
	b.WriteString("Julian date, DOY, UTC, q-value, q-axis-1, q-axis-2, q-axis-3\n")
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * step).UTC()
		half := float64(i) * 0.001 / 2
		fmt.Fprintf(&b, "%.6f,%03d,%sZ,%.9f,%.9f,%.9f,%.9f\n",
			julianDate(t), t.YearDay(), t.Format("2006-01-02T15:04:05"),
			math.Cos(half), 0.0, 0.0, math.Sin(half))
	}
	return b.String()
}

func julianDate(t time.Time) float64 {
	return 2440587.5 + float64(t.Unix())/86400
}

// ModeRowLine renders one row with the dump's fixed column offsets:
// timestamp at 0, instrument at 36, mode at 74.
func ModeRowLine(row ModeRow) string {
	line := fmt.Sprintf("%-20s%-16s%-38s%-17s%s",
		row.UTC.UTC().Format("02-Jan-2006_15:04:05"),
		"  PRIME",
		row.Instrument,
		row.Mode,
		"  NOMINAL")
	return line
}

// TimelineDump renders a dump whose experiment-mode section holds rows,
// surrounded by unrelated sections.
func TimelineDump(rows []ModeRow) string {
	var b strings.Builder
	b.WriteString("MAPPS timeline dump\n")
	b.WriteString("Generated for unit tests\n\n")
	b.WriteString("Platform modes:\n")
	b.WriteString("  not parsed\n\n")
	b.WriteString("Experiment modes:\n")
	b.WriteString("UTC                 Type            Experiment                            Mode             Comment\n")
	b.WriteString("                                                                                           \n")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	for _, row := range rows {
		b.WriteString(ModeRowLine(row))
		b.WriteString("\n")
	}
	b.WriteString("\nPower:\n")
	b.WriteString("01-Jan-2031_00:00:00 ignored\n")
	return b.String()
}
