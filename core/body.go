package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyID identifies a body inside a System. IDs start at 1.
type BodyID int

// NoBody is the zero BodyID and marks the absence of an orbit focus.
const NoBody BodyID = 0

// Spin is a body's axial rotation, applied each tick when it has no orbit.
type Spin struct {
	Axis mgl64.Vec3
	Rate float64 // radians per tick
}

// Orbit places a body on a circle in the XZ plane around its focus.
type Orbit struct {
	Focus        BodyID
	Radius       float64
	Phase        float64 // radians, kept in [0, 2pi)
	AngularSpeed float64 // radians per tick
}

// Body is a sphere in the scene.
type Body struct {
	ID         BodyID
	Name       string
	Mesh       *Mesh
	Transform  Transform
	Spin       Spin
	Orbit      *Orbit
	Color      mgl32.Vec3
	Texture    string
	LabelAbove bool
}

// BodySpec describes a body to add to a System.
type BodySpec struct {
	Name        string
	Radius      float32
	SectorCount int
	StackCount  int
	Position    mgl64.Vec3 // initial position, ignored for orbiting bodies after the first update
	Spin        Spin

	// Focus is NoBody (the zero value) for a free body
	Focus        BodyID
	Distance     float64
	StartAngle   float64 // radians
	AngularSpeed float64 // radians per tick

	Color      mgl32.Vec3
	Texture    string
	LabelAbove bool
}

func (s BodySpec) validate() error {
	if s.Focus != NoBody {
		if s.Distance < 0 || math.IsNaN(s.Distance) || math.IsInf(s.Distance, 0) {
			return fmt.Errorf("body %q orbital radius %v: %w", s.Name, s.Distance, ErrInvalidParameter)
		}
		if math.IsNaN(s.AngularSpeed) || math.IsInf(s.AngularSpeed, 0) {
			return fmt.Errorf("body %q angular speed %v: %w", s.Name, s.AngularSpeed, ErrInvalidParameter)
		}
	}
	if math.IsNaN(s.Spin.Rate) || math.IsInf(s.Spin.Rate, 0) {
		return fmt.Errorf("body %q spin rate %v: %w", s.Name, s.Spin.Rate, ErrInvalidParameter)
	}
	return nil
}

// HasOrbit reports whether the body moves around a focus.
func (b *Body) HasOrbit() bool {
	return b.Orbit != nil
}
