package coords

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Unity is left-handed Y-up, O3DE is right-handed Z-up. The remap is an
// axis permutation with an X negation and happens to be its own inverse.
const SCALE_TOLERANCE = 1e-4

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) IsUniformScale() bool {
	return IsUniformScale(t.Scale)
}

func IsUniformScale(s mgl32.Vec3) bool {
	return math.Abs(float64(s[0]-s[1])) < SCALE_TOLERANCE &&
		math.Abs(float64(s[1]-s[2])) < SCALE_TOLERANCE &&
		math.Abs(float64(s[0]-s[2])) < SCALE_TOLERANCE
}

func remapVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-v[0], v[2], v[1]}
}

// RemapPoint converts a positional vector (position, collider center)
// between the two conventions.
func RemapPoint(v mgl32.Vec3) mgl32.Vec3 {
	return remapVec(v)
}

// RemapScale swaps the Y and Z scale axes without negation.
func RemapScale(s mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{s[0], s[2], s[1]}
}

// RemapQuat permutes the vector part and flips its X component. The scalar
// part is preserved. Known-good against reference conversions; do not
// re-derive.
func RemapQuat(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{-q.V[0], q.V[2], q.V[1]}}
}

// ToO3DE converts a full transform and reports whether the converted scale
// is non-uniform beyond SCALE_TOLERANCE.
func ToO3DE(t Transform) (Transform, bool) {
	out := Transform{
		Position: RemapPoint(t.Position),
		Rotation: RemapQuat(t.Rotation),
		Scale:    RemapScale(t.Scale),
	}
	return out, !out.IsUniformScale()
}

// FromO3DE applies the inverse conversion. The axis remap is an involution,
// so this is the same permutation.
func FromO3DE(t Transform) Transform {
	out, _ := ToO3DE(t)
	return out
}

// QuatToEulerDegrees converts a quaternion to XYZ intrinsic Euler angles in
// degrees. The asin argument is snapped to ±1 near the gimbal-lock poles:
// float32 quaternion components land just inside the domain, which would
// otherwise truncate the pitch and can overflow into NaN.
func QuatToEulerDegrees(q mgl32.Quat) (e mgl32.Vec3) {
	const poleEpsilon = 1e-6

	sinr_cosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosr_cosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))
	e[0] = float32(math.Atan2(sinr_cosp, cosr_cosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if sinp > 1-poleEpsilon {
		sinp = 1
	} else if sinp < poleEpsilon-1 {
		sinp = -1
	}
	e[1] = float32(math.Asin(sinp))

	siny_cosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosy_cosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(siny_cosp, cosy_cosp))

	const radToDeg = 180.0 / math.Pi
	return e.Mul(radToDeg)
}
