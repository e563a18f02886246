package vecmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingularFrame is returned when a frame cannot be turned into a
// quaternion with the trace formula (1 + trace <= 0) or the frame vectors
// are parallel.
var ErrSingularFrame = errors.New("singular frame")

// Quaternion is a rotation quaternion with scalar part W.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the null rotation.
var Identity = Quaternion{W: 1}

func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit length.
func (q Quaternion) Normalize() (Quaternion, error) {
	n := q.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Quaternion{}, fmt.Errorf("cannot normalise quaternion %v", q)
	}
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}, nil
}

func (q Quaternion) Dot(o Quaternion) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

func (q Quaternion) Neg() Quaternion {
	return Quaternion{-q.W, -q.X, -q.Y, -q.Z}
}

func (q Quaternion) vector() Vector {
	return Vector{q.X, q.Y, q.Z}
}

// Rotate applies q (assumed unit) to v.
func (q Quaternion) Rotate(v Vector) Vector {
	u := q.vector()
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Nlerp interpolates between unit quaternions along the shorter arc and
// renormalises. Adequate for the small angles between ephemeris samples.
func Nlerp(a, b Quaternion, t float64) (Quaternion, error) {
	if a.Dot(b) < 0 {
		b = b.Neg()
	}
	q := Quaternion{
		W: a.W + (b.W-a.W)*t,
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
	return q.Normalize()
}

// IsFinite reports whether no component is NaN or infinite.
func (q Quaternion) IsFinite() bool {
	for _, c := range [4]float64{q.W, q.X, q.Y, q.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Frame is an orthonormal basis given by its three axis vectors. As a
// rotation matrix the axes are its columns.
type Frame struct {
	X, Y, Z Vector
}

// FrameFromDirectionUp builds the basis whose Z axis is direction, with X
// perpendicular to up and direction:
//
//	x = normalize(up × dir), y = normalize(dir × x), z = dir
func FrameFromDirectionUp(direction, up Vector) (Frame, error) {
	dir, err := direction.Normalize()
	if err != nil {
		return Frame{}, fmt.Errorf("direction: %w", err)
	}
	u, err := up.Normalize()
	if err != nil {
		return Frame{}, fmt.Errorf("up: %w", err)
	}
	x, err := u.Cross(dir).Normalize()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: direction parallel to up", ErrSingularFrame)
	}
	y, err := dir.Cross(x).Normalize()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrSingularFrame, err)
	}
	return Frame{X: x, Y: y, Z: dir}, nil
}

// Quaternion converts the frame with the single trace-based branch. It fails
// with ErrSingularFrame where that branch is undefined (rotations close to
// 180 degrees).
func (f Frame) Quaternion() (Quaternion, error) {
	x, y, z := f.X, f.Y, f.Z
	r := 0.5 * math.Sqrt(1.0+x[0]+y[1]+z[2])
	q := Quaternion{
		W: r,
		X: (y[2] - z[1]) / (4 * r),
		Y: (z[0] - x[2]) / (4 * r),
		Z: (x[1] - y[0]) / (4 * r),
	}
	if r == 0 || !q.IsFinite() {
		return Quaternion{}, fmt.Errorf("%w: trace %.6f", ErrSingularFrame, x[0]+y[1]+z[2])
	}
	return q, nil
}

// RobustQuaternion converts the frame choosing the numerically largest of
// the four branches (Shepperd). The result has W >= 0, so it matches
// Quaternion wherever the latter is well conditioned.
func (f Frame) RobustQuaternion() (Quaternion, error) {
	// m[row][col], columns are the frame axes
	m := [3][3]float64{
		{f.X[0], f.Y[0], f.Z[0]},
		{f.X[1], f.Y[1], f.Z[1]},
		{f.X[2], f.Y[2], f.Z[2]},
	}
	trace := m[0][0] + m[1][1] + m[2][2]

	var q Quaternion
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = Quaternion{
			W: 0.25 * s,
			X: (m[2][1] - m[1][2]) / s,
			Y: (m[0][2] - m[2][0]) / s,
			Z: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q = Quaternion{
			W: (m[2][1] - m[1][2]) / s,
			X: 0.25 * s,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q = Quaternion{
			W: (m[0][2] - m[2][0]) / s,
			X: (m[0][1] + m[1][0]) / s,
			Y: 0.25 * s,
			Z: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q = Quaternion{
			W: (m[1][0] - m[0][1]) / s,
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: 0.25 * s,
		}
	}
	if q.W < 0 {
		q = q.Neg()
	}
	if !q.IsFinite() {
		return Quaternion{}, fmt.Errorf("%w: trace %.6f", ErrSingularFrame, trace)
	}
	return q, nil
}
