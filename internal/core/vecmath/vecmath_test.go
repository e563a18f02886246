package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-12

func assertVectorInDelta(t *testing.T, expected, actual Vector, delta float64) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v", i, actual)
	}
}

func TestVectorOps(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, Vector{-3, 6, -3}, a.Cross(b))
	assert.Equal(t, UnitZ, UnitX.Cross(UnitY))
	assert.Equal(t, Vector{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vector{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vector{-1, -2, -3}, a.Neg())
	assert.Equal(t, Vector{2.5, 3.5, 4.5}, a.Lerp(b, 0.5))
	assert.InDelta(t, math.Sqrt(14), a.Norm(), eps)

	n, err := Vector{0, 3, 4}.Normalize()
	require.NoError(t, err)
	assertVectorInDelta(t, Vector{0, 0.6, 0.8}, n, eps)

	_, err = Vector{}.Normalize()
	assert.ErrorIs(t, err, ErrZeroVector)
	_, err = Vector{math.NaN(), 0, 0}.Normalize()
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestFrameFromDirectionUpQuaternion(t *testing.T) {
	s := math.Sqrt(0.5)
	tests := []struct {
		name      string
		direction Vector
		up        Vector
		expected  Quaternion
	}{
		{"identity", UnitZ, UnitY, Identity},
		{"quarter turn about Y", UnitX, UnitY, Quaternion{W: s, Y: s}},
		{"unnormalised inputs", Vector{0, 0, 10}, Vector{0, 0.1, 0}, Identity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FrameFromDirectionUp(tt.direction, tt.up)
			require.NoError(t, err)
			q, err := f.Quaternion()
			require.NoError(t, err)
			assert.InDelta(t, tt.expected.W, q.W, eps)
			assert.InDelta(t, tt.expected.X, q.X, eps)
			assert.InDelta(t, tt.expected.Y, q.Y, eps)
			assert.InDelta(t, tt.expected.Z, q.Z, eps)
		})
	}
}

func TestFrameQuaternionRotatesAxes(t *testing.T) {
	dirs := []Vector{
		{0.3, -0.2, 0.9},
		{1, 1, 1},
		{-0.4, 0.1, 0.2},
		{0.9, 0.05, -0.1},
		{0, -1, 0.01},
	}
	up := Vector{0.1, 1, -0.2}

	for _, d := range dirs {
		f, err := FrameFromDirectionUp(d, up)
		require.NoError(t, err)

		q, err := f.RobustQuaternion()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, q.Norm(), 1e-12)
		assertVectorInDelta(t, f.X, q.Rotate(UnitX), 1e-9)
		assertVectorInDelta(t, f.Y, q.Rotate(UnitY), 1e-9)
		assertVectorInDelta(t, f.Z, q.Rotate(UnitZ), 1e-9)

		trace := f.X[0] + f.Y[1] + f.Z[2]
		if trace > -0.5 {
			single, err := f.Quaternion()
			require.NoError(t, err)
			assert.InDelta(t, q.W, single.W, 1e-9)
			assert.InDelta(t, q.X, single.X, 1e-9)
			assert.InDelta(t, q.Y, single.Y, 1e-9)
			assert.InDelta(t, q.Z, single.Z, 1e-9)
		}
	}
}

func TestFrameQuaternionSingular(t *testing.T) {
	// half turn about Y: trace is -1 and the single branch divides by zero
	f, err := FrameFromDirectionUp(UnitZ.Neg(), UnitY)
	require.NoError(t, err)

	_, err = f.Quaternion()
	assert.ErrorIs(t, err, ErrSingularFrame)

	q, err := f.RobustQuaternion()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, q.W, eps)
	assert.InDelta(t, 1.0, math.Abs(q.Y), eps)
	assertVectorInDelta(t, UnitX.Neg(), q.Rotate(UnitX), 1e-12)
}

func TestFrameFromParallelVectors(t *testing.T) {
	_, err := FrameFromDirectionUp(UnitY, UnitY.Scale(3))
	assert.ErrorIs(t, err, ErrSingularFrame)

	_, err = FrameFromDirectionUp(Vector{}, UnitY)
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestNlerp(t *testing.T) {
	s := math.Sqrt(0.5)
	a := Identity
	b := Quaternion{W: s, Z: s}

	mid, err := Nlerp(a, b, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mid.Norm(), eps)
	assertVectorInDelta(t, Vector{math.Cos(math.Pi / 8 * 2), math.Sin(math.Pi / 8 * 2), 0}, mid.Rotate(UnitX), 1e-12)

	// the same rotation with opposite sign interpolates along the short arc
	end, err := Nlerp(a, b.Neg(), 1)
	require.NoError(t, err)
	assert.InDelta(t, b.W, end.W, eps)
	assert.InDelta(t, b.Z, end.Z, eps)

	_, err = Nlerp(Quaternion{}, Quaternion{}, 0.5)
	assert.Error(t, err)
}
