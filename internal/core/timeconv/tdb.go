// Package timeconv converts MAPPS UTC timestamps to the TDB strings expected
// by the attitude kernel compiler.
//
// TDB is approximated as UTC + 32 s + leap seconds + 184 ms. The approximation
// ignores the periodic TDB-TT terms (< 2 ms) and is only as current as the
// leap second table it is given.
package timeconv

import (
	"errors"
	"time"
)

const (
	// MAPPSLayout is the layout of a MAPPS timestamp once its trailing zone
	// marker has been replaced by "UTC".
	MAPPSLayout = "2006-01-02T15:04:05 MST"
	// TDBLayout is the second-precision layout of MOC timestamps.
	TDBLayout = "2006-01-02T15:04:05"
	// TimelineLayout is the layout of experiment-mode rows in timeline dumps.
	TimelineLayout = "02-Jan-2006_15:04:05"

	tdbMinusTAI = 32*time.Second + 184*time.Millisecond
)

// j2000 is 2000-01-01T12:00:00 on the TDB scale.
var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Converter applies a leap second table. The zero value is not usable; use
// NewConverter or Default.
type Converter struct {
	table *LeapSecondTable
}

var defaultConverter = &Converter{table: defaultTable}

// Default returns the converter backed by the built-in table.
func Default() *Converter {
	return defaultConverter
}

// NewConverter returns a converter for table, or the built-in table when nil.
func NewConverter(table *LeapSecondTable) *Converter {
	if table == nil {
		table = defaultTable
	}
	return &Converter{table: table}
}

// Table returns the converter's leap second table.
func (c *Converter) Table() *LeapSecondTable {
	return c.table
}

// ParseMAPPS parses "<date>T<time><zone-char>", e.g. "2013-02-13T00:00:00Z".
// The last character is a zone marker and is always read as UTC.
func ParseMAPPS(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &TimeParseError{Input: s, Layout: MAPPSLayout, Err: errors.New("empty timestamp")}
	}
	normalized := s[:len(s)-1] + " UTC"
	t, err := time.Parse(MAPPSLayout, normalized)
	if err != nil {
		return time.Time{}, &TimeParseError{Input: s, Layout: MAPPSLayout, Err: err}
	}
	return t.UTC(), nil
}

// FormatMAPPS is the inverse of ParseMAPPS at second precision.
func FormatMAPPS(utc time.Time) string {
	return utc.UTC().Format(TDBLayout) + "Z"
}

// FormatTDB truncates t to whole seconds, which is the granularity the kernel
// compiler reads.
func FormatTDB(t time.Time) string {
	return t.Format(TDBLayout)
}

// LeapSeconds returns TAI-UTC for date.
func (c *Converter) LeapSeconds(date time.Time) (int, error) {
	return c.table.Count(date)
}

// TDB returns the full-precision TDB instant for a UTC instant.
func (c *Converter) TDB(utc time.Time) (time.Time, error) {
	leap, err := c.table.Count(utc)
	if err != nil {
		return time.Time{}, err
	}
	return utc.UTC().Add(tdbMinusTAI + time.Duration(leap)*time.Second), nil
}

// ToTDB converts a MAPPS UTC string into a TDB string.
func (c *Converter) ToTDB(mappsUTC string) (string, error) {
	utc, err := ParseMAPPS(mappsUTC)
	if err != nil {
		return "", err
	}
	tdb, err := c.TDB(utc)
	if err != nil {
		return "", err
	}
	return FormatTDB(tdb), nil
}

// EphemerisTime returns TDB seconds past J2000 for a UTC instant.
func (c *Converter) EphemerisTime(utc time.Time) (float64, error) {
	tdb, err := c.TDB(utc)
	if err != nil {
		return 0, err
	}
	return tdb.Sub(j2000).Seconds(), nil
}

// ToTDB converts with the built-in table.
func ToTDB(mappsUTC string) (string, error) {
	return defaultConverter.ToTDB(mappsUTC)
}

// LeapSeconds counts with the built-in table.
func LeapSeconds(date time.Time) (int, error) {
	return defaultConverter.LeapSeconds(date)
}
