package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRay(t *testing.T) {
	c := NewContext(800, 600, 30)
	origin, dir := c.Ray(400, 300)
	assert.InDelta(t, 1.0, dir.Len(), 1e-6)
	// straight down the view axis from the camera
	assert.InDelta(t, -1.0, dir[2], 1e-4)
	assert.InDelta(t, 0.0, origin[0], 1e-4)
	assert.InDelta(t, 0.0, origin[1], 1e-4)
	assert.Greater(t, origin[2], 29.0)
}

func TestPick(t *testing.T) {
	c := NewContext(800, 600, 30)
	s := NewSystem()
	sunID, err := s.Add(BodySpec{Name: "sun", Radius: 2, SectorCount: 8, StackCount: 4})
	require.NoError(t, err)
	nearID, err := s.Add(BodySpec{Name: "near", Radius: 0.5, SectorCount: 8, StackCount: 4, Position: mgl64.Vec3{0, 0, 10}})
	require.NoError(t, err)
	sideID, err := s.Add(BodySpec{Name: "side", Radius: 1, SectorCount: 8, StackCount: 4, Position: mgl64.Vec3{8, 0, 0}})
	require.NoError(t, err)

	b, ok := s.Pick(c.Ray(400, 300))
	require.True(t, ok)
	assert.Equal(t, nearID, b.ID)

	win := mgl32.Project(mgl32.Vec3{8, 0, 0}, c.View, c.Projection, 0, 0, c.Width, c.Height)
	b, ok = s.Pick(c.Ray(win[0], float32(c.Height)-win[1]))
	require.True(t, ok)
	assert.Equal(t, sideID, b.ID)

	// just off the near body but still on the sun
	win = mgl32.Project(mgl32.Vec3{1.5, 0, 0}, c.View, c.Projection, 0, 0, c.Width, c.Height)
	b, ok = s.Pick(c.Ray(win[0], float32(c.Height)-win[1]))
	require.True(t, ok)
	assert.Equal(t, sunID, b.ID)

	_, ok = s.Pick(c.Ray(2, 2))
	assert.False(t, ok)
}

func TestRaySphere(t *testing.T) {
	tests := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		t      float64
		hit    bool
	}{
		{"front", mgl64.Vec3{0, 0, 10}, mgl64.Vec3{0, 0, -1}, 8, true},
		{"inside", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 2, true},
		{"behind", mgl64.Vec3{0, 0, 10}, mgl64.Vec3{0, 0, 1}, 0, false},
		{"miss", mgl64.Vec3{5, 0, 10}, mgl64.Vec3{0, 0, -1}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := raySphere(tc.origin, tc.dir, mgl64.Vec3{}, 2)
			assert.Equal(t, tc.hit, ok)
			assert.InDelta(t, tc.t, got, 1e-9)
		})
	}
}
