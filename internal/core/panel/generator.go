// Package panel synthesises a solar array attitude: the array rotates about
// the spacecraft +Y axis so that its normal points as close to the Sun as
// that single degree of freedom allows.
package panel

import (
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/core/vecmath"
	"github.com/penwyp/go-mapps-cosmo/internal/data/ephemeris"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// ErrInvalidStep is returned for a non-positive sampling step.
var ErrInvalidStep = errors.New("sampling step must be positive")

// GeometryComputationError aborts a generation run. At is the sample being
// computed when the failure happened.
type GeometryComputationError struct {
	Start time.Time
	End   time.Time
	At    time.Time
	Err   error
}

func (e *GeometryComputationError) Error() string {
	return fmt.Sprintf("quaternion computation for solar panels failed (start %s, end %s) at %s: %v",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.At.Format(time.RFC3339), e.Err)
}

func (e *GeometryComputationError) Unwrap() error {
	return e.Err
}

// Generator produces panel quaternions from an ephemeris.
type Generator struct {
	Ephemeris ephemeris.Provider
	Converter *timeconv.Converter
	// Robust selects the four-branch frame conversion, which stays defined
	// when the panel frame is half a turn from J2000.
	Robust bool
	// Progress, when set, receives the percentage reached in steps of ten.
	Progress func(pct int)
}

// NewGenerator returns a generator using the built-in leap second table.
func NewGenerator(provider ephemeris.Provider) *Generator {
	return &Generator{Ephemeris: provider, Converter: timeconv.Default()}
}

// Generate samples [start, end) every step. Either every sample succeeds or
// no quaternions are returned.
func (g *Generator) Generate(start, end time.Time, step time.Duration) ([]model.TimedQuaternion, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStep, step)
	}
	converter := g.Converter
	if converter == nil {
		converter = timeconv.Default()
	}
	start, end = start.UTC(), end.UTC()

	n := 0
	if end.After(start) {
		span := end.Sub(start)
		n = int(span / step)
		if span%step != 0 {
			n++
		}
	}
	util.LogInfo("Generating panel quaternions",
		util.F("start", start), util.F("end", end), util.F("step", step), util.F("samples", n))

	quats := make([]model.TimedQuaternion, 0, n)
	nextPct := 0
	for i := 0; i < n; i++ {
		if pct := 100 * i / n; pct >= nextPct {
			reached := pct / 10 * 10
			g.report(reached)
			nextPct = reached + 10
		}

		at := start.Add(time.Duration(i) * step)
		q, err := g.sample(converter, at)
		if err != nil {
			return nil, &GeometryComputationError{Start: start, End: end, At: at, Err: err}
		}
		quats = append(quats, q)
	}
	if n > 0 {
		g.report(100)
	}
	return quats, nil
}

func (g *Generator) report(pct int) {
	util.LogInfof("Progress: %d %%", pct)
	if g.Progress != nil {
		g.Progress(pct)
	}
}

func (g *Generator) sample(converter *timeconv.Converter, at time.Time) (model.TimedQuaternion, error) {
	et, err := converter.EphemerisTime(at)
	if err != nil {
		return model.TimedQuaternion{}, err
	}
	yAxis, err := g.Ephemeris.SpacecraftAxis(et, vecmath.UnitY)
	if err != nil {
		return model.TimedQuaternion{}, fmt.Errorf("spacecraft +Y: %w", err)
	}
	sun, err := g.Ephemeris.SunPosition(et)
	if err != nil {
		return model.TimedQuaternion{}, fmt.Errorf("sun position: %w", err)
	}

	newX, up, err := PanelAxes(yAxis, sun)
	if err != nil {
		return model.TimedQuaternion{}, err
	}
	frame, err := vecmath.FrameFromDirectionUp(newX, up)
	if err != nil {
		return model.TimedQuaternion{}, err
	}
	var q vecmath.Quaternion
	if g.Robust {
		q, err = frame.RobustQuaternion()
	} else {
		q, err = frame.Quaternion()
	}
	if err != nil {
		return model.TimedQuaternion{}, err
	}

	utc := at.Round(time.Second)
	tdb, err := converter.TDB(utc)
	if err != nil {
		return model.TimedQuaternion{}, err
	}
	return model.TimedQuaternion{
		TDB:   timeconv.FormatTDB(tdb),
		UTC:   utc,
		Value: q.W,
		Axis1: q.X,
		Axis2: q.Y,
		Axis3: q.Z,
	}, nil
}

// PanelAxes returns the rotated panel X axis and the unit spacecraft Y axis.
// The panel Z axis is the Sun direction projected onto the plane normal to Y.
func PanelAxes(yAxis, sun vecmath.Vector) (newX, nY vecmath.Vector, err error) {
	nY, err = yAxis.Normalize()
	if err != nil {
		return vecmath.Vector{}, vecmath.Vector{}, fmt.Errorf("spacecraft +Y: %w", err)
	}
	nS, err := sun.Normalize()
	if err != nil {
		return vecmath.Vector{}, vecmath.Vector{}, fmt.Errorf("sun direction: %w", err)
	}
	newZ, err := nS.Sub(nY.Scale(nS.Dot(nY))).Normalize()
	if err != nil {
		return vecmath.Vector{}, vecmath.Vector{}, fmt.Errorf("sun along spacecraft +Y: %w", err)
	}
	return nY.Cross(newZ).Neg(), nY, nil
}
