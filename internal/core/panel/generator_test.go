package panel

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/vecmath"
	"github.com/penwyp/go-mapps-cosmo/internal/data/ephemeris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)

func staticSun(sun vecmath.Vector) ephemeris.Static {
	return ephemeris.Static{Attitude: vecmath.Identity, Sun: sun}
}

func TestGenerateOrientation(t *testing.T) {
	s := math.Sqrt(0.5)
	tests := []struct {
		name     string
		sun      vecmath.Vector
		expected [4]float64 // value, axis1, axis2, axis3
	}{
		{"sun along +X", vecmath.Vector{1e8, 0, 0}, [4]float64{1, 0, 0, 0}},
		{"sun along +Z", vecmath.Vector{0, 0, 1e8}, [4]float64{s, 0, -s, 0}},
		{"sun tilted towards +Y", vecmath.Vector{0, 5e7, 1e8}, [4]float64{s, 0, -s, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quats, err := NewGenerator(staticSun(tt.sun)).Generate(t0, t0.Add(time.Second), time.Second)
			require.NoError(t, err)
			require.Len(t, quats, 1)

			q := quats[0]
			assert.InDelta(t, tt.expected[0], q.Value, 1e-12)
			assert.InDelta(t, tt.expected[1], q.Axis1, 1e-12)
			assert.InDelta(t, tt.expected[2], q.Axis2, 1e-12)
			assert.InDelta(t, tt.expected[3], q.Axis3, 1e-12)
		})
	}
}

func TestGenerateGridAndTimestamps(t *testing.T) {
	g := NewGenerator(staticSun(vecmath.Vector{1, 0, 0}))

	quats, err := g.Generate(t0, t0.Add(10*time.Minute), 3*time.Minute)
	require.NoError(t, err)
	require.Len(t, quats, 4, "end is exclusive and a partial last step still samples")

	assert.Equal(t, "2031-01-01T00:01:09", quats[0].TDB)
	assert.Equal(t, "2031-01-01T00:10:09", quats[3].TDB)
	assert.Equal(t, t0.Add(9*time.Minute), quats[3].UTC)

	quats, err = g.Generate(t0, t0.Add(9*time.Minute), 3*time.Minute)
	require.NoError(t, err)
	assert.Len(t, quats, 3)

	quats, err = g.Generate(t0, t0, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, quats)
}

func TestGenerateRoundsToSeconds(t *testing.T) {
	g := NewGenerator(staticSun(vecmath.Vector{1, 0, 0}))
	quats, err := g.Generate(t0.Add(600*time.Millisecond), t0.Add(2*time.Second), time.Second)
	require.NoError(t, err)
	require.Len(t, quats, 2)
	assert.Equal(t, t0.Add(time.Second), quats[0].UTC)
	assert.Equal(t, "2031-01-01T00:01:10", quats[0].TDB)
}

func TestGenerateInvalidStep(t *testing.T) {
	g := NewGenerator(staticSun(vecmath.Vector{1, 0, 0}))
	_, err := g.Generate(t0, t0.Add(time.Hour), 0)
	assert.ErrorIs(t, err, ErrInvalidStep)
	_, err = g.Generate(t0, t0.Add(time.Hour), -time.Second)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestGenerateGeometryFailures(t *testing.T) {
	t.Run("sun along spacecraft Y", func(t *testing.T) {
		_, err := NewGenerator(staticSun(vecmath.Vector{0, 1, 0})).Generate(t0, t0.Add(time.Minute), time.Second)
		var geomErr *GeometryComputationError
		require.True(t, errors.As(err, &geomErr))
		assert.Equal(t, t0, geomErr.At)
		assert.ErrorIs(t, err, vecmath.ErrZeroVector)
	})

	t.Run("trace singularity", func(t *testing.T) {
		_, err := NewGenerator(staticSun(vecmath.Vector{-1, 0, 0})).Generate(t0, t0.Add(time.Minute), time.Second)
		var geomErr *GeometryComputationError
		require.True(t, errors.As(err, &geomErr))
		assert.ErrorIs(t, err, vecmath.ErrSingularFrame)
	})

	t.Run("robust conversion handles the half turn", func(t *testing.T) {
		g := NewGenerator(staticSun(vecmath.Vector{-1, 0, 0}))
		g.Robust = true
		quats, err := g.Generate(t0, t0.Add(time.Second), time.Second)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, quats[0].Value, 1e-12)
		assert.InDelta(t, 1.0, math.Abs(quats[0].Axis2), 1e-12)
	})

	t.Run("ephemeris out of range", func(t *testing.T) {
		table, err := ephemeris.NewTable([]ephemeris.Sample{
			{ET: 0, Attitude: vecmath.Identity, Sun: vecmath.Vector{1, 0, 0}},
			{ET: 10, Attitude: vecmath.Identity, Sun: vecmath.Vector{1, 0, 0}},
		})
		require.NoError(t, err)
		quats, err := NewGenerator(table).Generate(t0, t0.Add(time.Minute), time.Second)
		assert.Nil(t, quats)
		assert.ErrorIs(t, err, ephemeris.ErrOutOfRange)
	})

	t.Run("date before leap second table", func(t *testing.T) {
		early := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewGenerator(staticSun(vecmath.Vector{1, 0, 0})).Generate(early, early.Add(time.Second), time.Second)
		var geomErr *GeometryComputationError
		assert.True(t, errors.As(err, &geomErr))
	})
}

func TestGenerateReportsProgress(t *testing.T) {
	var reported []int
	g := NewGenerator(staticSun(vecmath.Vector{1, 0, 0}))
	g.Progress = func(pct int) { reported = append(reported, pct) }

	_, err := g.Generate(t0, t0.Add(100*time.Second), time.Second)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, reported)
}

func TestGenerateReportsReachedProgress(t *testing.T) {
	tests := []struct {
		samples  int
		expected []int
	}{
		{1, []int{0, 100}},
		{3, []int{0, 30, 60, 100}},
		{4, []int{0, 20, 50, 70, 100}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d samples", tt.samples), func(t *testing.T) {
			var reported []int
			g := NewGenerator(staticSun(vecmath.Vector{1, 0, 0}))
			g.Progress = func(pct int) { reported = append(reported, pct) }

			_, err := g.Generate(t0, t0.Add(time.Duration(tt.samples)*time.Minute), time.Minute)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, reported)
		})
	}
}

func TestPanelAxesPerpendicularToY(t *testing.T) {
	for _, sun := range []vecmath.Vector{{1, 2, 3}, {-4, 0.5, 1}, {0, -3, 7}} {
		newX, nY, err := PanelAxes(vecmath.Vector{0, 2, 0}, sun)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, newX.Dot(nY), 1e-12)
		assert.InDelta(t, 1.0, newX.Norm(), 1e-12)
	}
}
