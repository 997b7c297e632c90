package coords_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/mogaika/unity2o3de/coords"
)

var pointTests = []struct {
	in  mgl32.Vec3
	out mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}},
	{mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-1, 3, 2}},
	{mgl32.Vec3{-4, 5, -6}, mgl32.Vec3{4, -6, 5}},
}

func TestRemapPoint(t *testing.T) {
	for _, test := range pointTests {
		assert.Equal(t, test.out, coords.RemapPoint(test.in))
	}
}

func TestRemapPointIsInvolution(t *testing.T) {
	for _, test := range pointTests {
		assert.Equal(t, test.in, coords.RemapPoint(coords.RemapPoint(test.in)))
	}
}

func TestRemapScale(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, 3, 2}, coords.RemapScale(mgl32.Vec3{1, 2, 3}))
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, coords.RemapScale(mgl32.Vec3{2, 2, 2}))
}

func TestRemapQuatIsInvolution(t *testing.T) {
	q := mgl32.Quat{W: 0.5, V: mgl32.Vec3{0.5, 0.5, 0.5}}
	back := coords.RemapQuat(coords.RemapQuat(q))
	assert.InDelta(t, q.W, back.W, 1e-6)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, q.V[i], back.V[i], 1e-6)
	}
}

func TestToO3DERoundTrip(t *testing.T) {
	src := coords.Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}.Normalize()),
		Scale:    mgl32.Vec3{2, 2, 2},
	}

	target, nonuniform := coords.ToO3DE(src)
	assert.False(t, nonuniform)
	assert.Equal(t, mgl32.Vec3{-1, 3, 2}, target.Position)

	back := coords.FromO3DE(target)
	assert.Equal(t, src.Position, back.Position)
	assert.Equal(t, src.Scale, back.Scale)
	// quaternions round-trip up to sign
	dot := src.Rotation.Dot(back.Rotation)
	if dot < 0 {
		dot = -dot
	}
	assert.InDelta(t, 1.0, float64(dot), 1e-5)
}

func TestIsUniformScale(t *testing.T) {
	assert.True(t, coords.IsUniformScale(mgl32.Vec3{1, 1, 1}))
	assert.True(t, coords.IsUniformScale(mgl32.Vec3{2, 2.00001, 2}))
	assert.False(t, coords.IsUniformScale(mgl32.Vec3{1, 2, 1}))
}

func TestNonUniformScaleFlag(t *testing.T) {
	src := coords.Identity()
	src.Scale = mgl32.Vec3{1, 2, 3}
	target, nonuniform := coords.ToO3DE(src)
	assert.True(t, nonuniform)
	assert.Equal(t, mgl32.Vec3{1, 3, 2}, target.Scale)
}

func TestQuatToEulerDegreesIdentity(t *testing.T) {
	e := coords.QuatToEulerDegrees(mgl32.QuatIdent())
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0.0, float64(e[i]), 1e-5)
	}
}

func TestQuatToEulerDegreesQuarterTurn(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	e := coords.QuatToEulerDegrees(q)
	assert.InDelta(t, 90.0, float64(e[2]), 1e-3)
	assert.InDelta(t, 0.0, float64(e[0]), 1e-3)
	assert.InDelta(t, 0.0, float64(e[1]), 1e-3)
}

// gimbal poles must not produce NaN from asin domain overflow, and the
// float32 rounding just inside the domain must not truncate the pitch
func TestQuatToEulerDegreesGimbalPole(t *testing.T) {
	for _, deg := range []float32{90, -90} {
		q := mgl32.QuatRotate(mgl32.DegToRad(deg), mgl32.Vec3{0, 1, 0})
		e := coords.QuatToEulerDegrees(q)
		for i := 0; i < 3; i++ {
			assert.False(t, e[i] != e[i], "euler component %d is NaN", i)
		}
		assert.InDelta(t, float64(deg), float64(e[1]), 1e-3)
	}
}
