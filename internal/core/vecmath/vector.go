// Package vecmath holds the small amount of 3D geometry the panel generator
// needs: vectors, unit quaternions and frame-to-quaternion conversion.
package vecmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned when a direction of zero length is normalised.
var ErrZeroVector = errors.New("zero-length vector")

// Vector is a cartesian 3-vector.
type Vector [3]float64

var (
	UnitX = Vector{1, 0, 0}
	UnitY = Vector{0, 1, 0}
	UnitZ = Vector{0, 0, 1}
)

func (v Vector) Add(o Vector) Vector {
	return Vector{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vector) Neg() Vector {
	return Vector{-v[0], -v[1], -v[2]}
}

func (v Vector) Dot(o Vector) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns v × o.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v.
func (v Vector) Normalize() (Vector, error) {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vector{}, fmt.Errorf("%w: %v", ErrZeroVector, v)
	}
	return v.Scale(1 / n), nil
}

// Lerp interpolates linearly between v and o, t in [0, 1].
func (v Vector) Lerp(o Vector, t float64) Vector {
	return v.Add(o.Sub(v).Scale(t))
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
