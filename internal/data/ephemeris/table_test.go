package ephemeris

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/core/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `# JUICE cruise excerpt
utc,q0,q1,q2,q3,sun_x,sun_y,sun_z
2031-01-01T00:00:00Z, 1, 0, 0, 0, 100, 0, 0
2031-01-01T00:01:00Z, 0.7071067811865476, 0, 0, 0.7071067811865476, 200, 0, 10
`

func TestReadAndInterpolate(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	start, end := table.Span()
	assert.InDelta(t, 60.0, end-start, 1e-9)

	sun, err := table.SunPosition((start + end) / 2)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, sun[0], 1e-9)
	assert.InDelta(t, 5.0, sun[2], 1e-9)

	y, err := table.SpacecraftAxis(start, vecmath.UnitY)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, y[1], 1e-12)

	// a quarter turn about Z at the end of the span maps +Y onto -X
	y, err = table.SpacecraftAxis(end, vecmath.UnitY)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, y[0], 1e-12)
	assert.InDelta(t, 0.0, y[1], 1e-12)

	y, err = table.SpacecraftAxis((start+end)/2, vecmath.UnitY)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, y.Norm(), 1e-12)
	assert.InDelta(t, -math.Sin(math.Pi/4), y[0], 1e-12)
}

func TestOutOfRange(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), nil)
	require.NoError(t, err)
	start, end := table.Span()

	_, err = table.SunPosition(start - 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = table.SpacecraftAxis(end+0.5, vecmath.UnitY)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, start, rangeErr.Start)
}

func TestReadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad time", "2031-01-01 00:00:00Z,1,0,0,0,1,0,0\n"},
		{"bad number", "2031-01-01T00:00:00Z,1,x,0,0,1,0,0\n"},
		{"short row", "2031-01-01T00:00:00Z,1,0,0,0,1,0\n"},
		{"not increasing", "2031-01-01T00:01:00Z,1,0,0,0,1,0,0\n2031-01-01T00:00:00Z,1,0,0,0,1,0,0\n"},
		{"zero quaternion", "2031-01-01T00:00:00Z,0,0,0,0,1,0,0\n"},
		{"too early", "1960-01-01T00:00:00Z,1,0,0,0,1,0,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ephem.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	table, err := LoadTable(path, timeconv.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	s := Static{Attitude: vecmath.Identity, Sun: vecmath.Vector{1, 2, 3}}
	axis, err := s.SpacecraftAxis(0, vecmath.UnitY)
	require.NoError(t, err)
	assert.Equal(t, vecmath.UnitY, axis)

	sun, err := s.SunPosition(1e9)
	require.NoError(t, err)
	assert.Equal(t, vecmath.Vector{1, 2, 3}, sun)
}
