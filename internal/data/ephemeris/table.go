package ephemeris

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/core/vecmath"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// Sample is one ephemeris record.
type Sample struct {
	ET       float64
	UTC      time.Time
	Attitude vecmath.Quaternion // body to J2000, unit
	Sun      vecmath.Vector     // Sun relative to spacecraft, J2000
}

// Table is a Provider over time-ordered samples. Attitude is interpolated
// with nlerp and the Sun position linearly.
type Table struct {
	samples []Sample
}

// tableColumns is the CSV header; the header row itself is optional.
var tableColumns = []string{"utc", "q0", "q1", "q2", "q3", "sun_x", "sun_y", "sun_z"}

// NewTable validates samples (strictly increasing ET, unit attitude).
func NewTable(samples []Sample) (*Table, error) {
	if len(samples) == 0 {
		return nil, errors.New("ephemeris table has no samples")
	}
	out := make([]Sample, len(samples))
	for i, s := range samples {
		if i > 0 && s.ET <= samples[i-1].ET {
			return nil, fmt.Errorf("ephemeris sample %d is not after sample %d", i, i-1)
		}
		q, err := s.Attitude.Normalize()
		if err != nil {
			return nil, fmt.Errorf("ephemeris sample %d: %w", i, err)
		}
		s.Attitude = q
		out[i] = s
	}
	return &Table{samples: out}, nil
}

// LoadTable reads a CSV ephemeris file, see Read.
func LoadTable(path string, converter *timeconv.Converter) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ephemeris file: %w", err)
	}
	defer file.Close()

	table, err := Read(file, converter)
	if err != nil {
		return nil, fmt.Errorf("failed to load ephemeris %s: %w", path, err)
	}
	util.LogInfo("Ephemeris loaded", util.F("path", path), util.F("samples", table.Len()))
	return table, nil
}

// Read parses rows of utc,q0,q1,q2,q3,sun_x,sun_y,sun_z where utc is a MAPPS
// timestamp and q0 the scalar part. Lines starting with '#' are comments and
// a leading header row is skipped.
func Read(r io.Reader, converter *timeconv.Converter) (*Table, error) {
	if converter == nil {
		converter = timeconv.Default()
	}
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(tableColumns)
	cr.TrimLeadingSpace = true

	var samples []Sample
	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if row == 0 && strings.EqualFold(strings.TrimSpace(record[0]), tableColumns[0]) {
			continue
		}

		s, err := parseSample(record, converter)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	return NewTable(samples)
}

func parseSample(record []string, converter *timeconv.Converter) (Sample, error) {
	utc, err := timeconv.ParseMAPPS(strings.TrimSpace(record[0]))
	if err != nil {
		return Sample{}, err
	}
	et, err := converter.EphemerisTime(utc)
	if err != nil {
		return Sample{}, err
	}

	var v [7]float64
	for i := range v {
		v[i], err = strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("column %s: %w", tableColumns[i+1], err)
		}
	}
	return Sample{
		ET:       et,
		UTC:      utc,
		Attitude: vecmath.Quaternion{W: v[0], X: v[1], Y: v[2], Z: v[3]},
		Sun:      vecmath.Vector{v[4], v[5], v[6]},
	}, nil
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.samples)
}

// Span returns the first and last covered ephemeris time.
func (t *Table) Span() (start, end float64) {
	return t.samples[0].ET, t.samples[len(t.samples)-1].ET
}

// bracket finds the samples around et and the interpolation weight.
func (t *Table) bracket(et float64) (a, b Sample, frac float64, err error) {
	start, end := t.Span()
	if et < start || et > end {
		return Sample{}, Sample{}, 0, &RangeError{ET: et, Start: start, End: end}
	}
	i := sort.Search(len(t.samples), func(i int) bool { return t.samples[i].ET >= et })
	if t.samples[i].ET == et {
		return t.samples[i], t.samples[i], 0, nil
	}
	a, b = t.samples[i-1], t.samples[i]
	return a, b, (et - a.ET) / (b.ET - a.ET), nil
}

func (t *Table) SpacecraftAxis(et float64, axis vecmath.Vector) (vecmath.Vector, error) {
	a, b, frac, err := t.bracket(et)
	if err != nil {
		return vecmath.Vector{}, err
	}
	q, err := vecmath.Nlerp(a.Attitude, b.Attitude, frac)
	if err != nil {
		return vecmath.Vector{}, err
	}
	return q.Rotate(axis), nil
}

func (t *Table) SunPosition(et float64) (vecmath.Vector, error) {
	a, b, frac, err := t.bracket(et)
	if err != nil {
		return vecmath.Vector{}, err
	}
	return a.Sun.Lerp(b.Sun, frac), nil
}
