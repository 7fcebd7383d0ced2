package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Ray returns the world-space ray through window point (x, y), with the
// origin at the top-left corner.
func (c *Context) Ray(x, y float32) (origin, dir mgl64.Vec3) {
	// Convert screen coordinates to NDC
	nx := 2*x/float32(c.Width) - 1
	ny := 1 - 2*y/float32(c.Height)

	invViewProj := c.Projection.Mul4(c.View).Inv()
	near := invViewProj.Mul4x1(mgl32.Vec4{nx, ny, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{nx, ny, 1, 1})
	near = near.Mul(1 / near[3])
	far = far.Mul(1 / far[3])

	origin = mgl64.Vec3{float64(near[0]), float64(near[1]), float64(near[2])}
	end := mgl64.Vec3{float64(far[0]), float64(far[1]), float64(far[2])}
	return origin, end.Sub(origin).Normalize()
}

// Pick returns the nearest body hit by the ray.
func (s *System) Pick(origin, dir mgl64.Vec3) (*Body, bool) {
	var hit *Body
	best := math.Inf(1)
	for _, b := range s.bodies {
		t, ok := raySphere(origin, dir, b.Transform.Position, float64(b.Mesh.Radius)*b.Transform.Scale)
		if ok && t < best {
			best, hit = t, b
		}
	}
	return hit, hit != nil
}

// raySphere returns the distance along a unit dir to the first intersection
// in front of origin.
func raySphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := -b - sq; t >= 0 {
		return t, true
	}
	// origin inside the sphere
	if t := -b + sq; t >= 0 {
		return t, true
	}
	return 0, false
}
