// Package attitude reads MAPPS attitude exports: comma-separated quaternion
// records preceded by free-form header lines.
package attitude

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// ExpectedLayout describes the columns of a data record.
const ExpectedLayout = "{julian-date},{doy-date},{utc-date},{q-value},{q-axis-1},{q-axis-2},{q-axis-3}"

const (
	colUTC = 2 + iota
	colValue
	colAxis1
	colAxis2
	colAxis3
)

var columnNames = map[int]string{
	colUTC:   "utc-date",
	colValue: "q-value",
	colAxis1: "q-axis-1",
	colAxis2: "q-axis-2",
	colAxis3: "q-axis-3",
}

// RecordParseError reports a data record that could not be decoded. Line is
// the 0-based index of the line in the source, counting every line.
type RecordParseError struct {
	Line   int
	Source string
	Column string
	Err    error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("error processing %s (ln: %d, column %s): %v; expected format %s",
		e.Source, e.Line, e.Column, e.Err, ExpectedLayout)
}

func (e *RecordParseError) Unwrap() error {
	return e.Err
}

// Reader turns attitude records into timed quaternions.
type Reader struct {
	converter *timeconv.Converter
	linesRead int
}

// NewReader creates a reader; a nil converter uses the built-in leap second table.
func NewReader(converter *timeconv.Converter) *Reader {
	if converter == nil {
		converter = timeconv.Default()
	}
	return &Reader{converter: converter}
}

// LinesRead is the number of lines scanned by the last read, data or not.
func (r *Reader) LinesRead() int {
	return r.linesRead
}

// ReadFile reads the attitude export at path.
func (r *Reader) ReadFile(path string) ([]model.TimedQuaternion, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attitude file: %w", err)
	}
	defer file.Close()

	return r.Read(file, filepath.Base(path))
}

// Read decodes records from src. source names the input in errors.
func (r *Reader) Read(src io.Reader, source string) ([]model.TimedQuaternion, error) {
	util.LogDebugf("Reading attitude records from %s", source)

	var quats []model.TimedQuaternion
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	r.linesRead = 0
	for scanner.Scan() {
		text := scanner.Text()
		if isDataRecord(text) {
			q, err := r.parseRecord(text)
			if err != nil {
				err.Line = line
				err.Source = source
				return nil, err
			}
			quats = append(quats, q)
		}
		line++
		r.linesRead = line
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", source, err)
	}

	util.LogInfof("Lines read: %d, quaternions: %d (%s)", line, len(quats), source)
	return quats, nil
}

func isDataRecord(line string) bool {
	return line != "" && line[0] >= '0' && line[0] <= '9'
}

func (r *Reader) parseRecord(line string) (model.TimedQuaternion, *RecordParseError) {
	fields := strings.Split(line, ",")
	if len(fields) <= colAxis3 {
		missing := len(fields)
		if missing < colUTC {
			missing = colUTC
		}
		return model.TimedQuaternion{}, &RecordParseError{
			Column: columnNames[missing],
			Err:    fmt.Errorf("record has %d fields, need %d", len(fields), colAxis3+1),
		}
	}

	utcField := strings.TrimSpace(fields[colUTC])
	utc, err := timeconv.ParseMAPPS(utcField)
	if err != nil {
		return model.TimedQuaternion{}, &RecordParseError{Column: columnNames[colUTC], Err: err}
	}
	tdb, err := r.converter.TDB(utc)
	if err != nil {
		return model.TimedQuaternion{}, &RecordParseError{Column: columnNames[colUTC], Err: err}
	}

	var values [4]float64
	for i, col := range []int{colValue, colAxis1, colAxis2, colAxis3} {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 64)
		if err != nil {
			return model.TimedQuaternion{}, &RecordParseError{Column: columnNames[col], Err: err}
		}
		values[i] = v
	}

	return model.TimedQuaternion{
		TDB:   timeconv.FormatTDB(tdb),
		UTC:   utc,
		Value: values[0],
		Axis1: values[1],
		Axis2: values[2],
		Axis3: values[3],
	}, nil
}
