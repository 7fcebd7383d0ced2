package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a body's placement in world space.
// Position and rotation are kept apart so that orbit updates never need to
// decompose a matrix.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
}

// NewTransform creates an identity transform at pos.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{
		Position: pos,
		Rotation: mgl64.QuatIdent(),
		Scale:    1,
	}
}

// Rotate applies an incremental rotation in the body's local frame.
func (t *Transform) Rotate(angle float64, axis mgl64.Vec3) {
	if angle == 0 || axis.Len() == 0 {
		return
	}
	t.Rotation = t.Rotation.Mul(mgl64.QuatRotate(angle, axis.Normalize())).Normalize()
}

// Mat4 returns T * R * S.
func (t Transform) Mat4() mgl64.Mat4 {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(s, s, s))
}

// Mat4f returns Mat4 converted for GPU upload.
func (t Transform) Mat4f() mgl32.Mat4 {
	m := t.Mat4()
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// normalizeAngle wraps a into [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
