// Package ephemeris answers the two geometry queries the panel generator
// makes: where a spacecraft body axis points and where the Sun is, both in
// the J2000 frame, at a TDB ephemeris time.
package ephemeris

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-mapps-cosmo/internal/core/vecmath"
)

// ErrOutOfRange is returned for ephemeris times not covered by the data.
var ErrOutOfRange = errors.New("ephemeris time out of range")

// Provider is the ephemeris collaborator.
type Provider interface {
	// SpacecraftAxis returns the body-frame axis expressed in J2000.
	SpacecraftAxis(et float64, axis vecmath.Vector) (vecmath.Vector, error)
	// SunPosition returns the Sun position relative to the spacecraft in J2000.
	SunPosition(et float64) (vecmath.Vector, error)
}

// Static is a Provider with a constant attitude and Sun position.
type Static struct {
	Attitude vecmath.Quaternion // body to J2000
	Sun      vecmath.Vector
}

func (s Static) SpacecraftAxis(_ float64, axis vecmath.Vector) (vecmath.Vector, error) {
	return s.Attitude.Rotate(axis), nil
}

func (s Static) SunPosition(_ float64) (vecmath.Vector, error) {
	return s.Sun, nil
}

// RangeError carries the offending time and the covered span.
type RangeError struct {
	ET         float64
	Start, End float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: et %.3f outside [%.3f, %.3f]", ErrOutOfRange, e.ET, e.Start, e.End)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
