package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Context carries the per-frame state shared by update and draw calls:
// camera matrices, viewport size, global speed scale and overlay toggles.
type Context struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4

	Width, Height int
	FovY          float32 // degrees
	Near, Far     float32

	SpeedScale float64
	MinSpeed   float64
	MaxSpeed   float64
	SpeedStep  float64

	ShowHelp  bool
	ShowNames bool
	Paused    bool
	Wireframe bool
}

// NewContext creates a context looking at the origin from distance along +Z.
func NewContext(width, height int, cameraDistance float32) *Context {
	c := &Context{
		View:       mgl32.Translate3D(0, 0, -cameraDistance),
		FovY:       45,
		Near:       0.1,
		Far:        1000,
		SpeedScale: 1,
		MinSpeed:   0,
		MaxSpeed:   10,
		SpeedStep:  0.1,
		ShowNames:  true,
	}
	c.Resize(width, height)
	return c
}

// Resize stores the viewport size and rebuilds the projection.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		// minimized windows report zero size; keep the last projection
		return
	}
	c.Width, c.Height = width, height
	aspect := float32(width) / float32(height)
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// AdjustSpeed moves the speed scale by steps increments, clamped to
// [MinSpeed, MaxSpeed].
func (c *Context) AdjustSpeed(steps int) {
	c.SetSpeed(c.SpeedScale + float64(steps)*c.SpeedStep)
}

// SetSpeed sets the speed scale, clamped to [MinSpeed, MaxSpeed].
func (c *Context) SetSpeed(v float64) {
	if math.IsNaN(v) {
		return
	}
	// round away float drift from repeated steps
	v = math.Round(v*1e6) / 1e6
	c.SpeedScale = math.Max(c.MinSpeed, math.Min(c.MaxSpeed, v))
}

// TickScale is the dtScale handed to System.Step this frame.
func (c *Context) TickScale() float64 {
	if c.Paused {
		return 0
	}
	return c.SpeedScale
}

// LabelAnchor projects a point one radius above (or below) the body onto the
// window, with the origin at the top-left corner. ok is false when the point
// is behind the camera.
func (c *Context) LabelAnchor(b *Body) (x, y float32, ok bool) {
	p := b.Transform.Position
	offset := float64(b.Mesh.Radius)
	if !b.LabelAbove {
		offset = -offset
	}
	world := mgl32.Vec3{float32(p[0]), float32(p[1] + offset), float32(p[2])}

	eye := c.View.Mul4x1(world.Vec4(1))
	if eye[2] >= 0 {
		return 0, 0, false
	}
	win := mgl32.Project(world, c.View, c.Projection, 0, 0, c.Width, c.Height)
	// Project returns a bottom-left origin
	return win[0], float32(c.Height) - win[1], true
}
