package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a UV sphere centered at the origin.
// It is generated once and never modified afterwards.
type Mesh struct {
	Radius      float32
	SectorCount int
	StackCount  int

	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2

	// Indices is a flat triangle list, three entries per triangle (CCW, outward facing)
	Indices []uint32
	// LineIndices is a flat line list for wireframe drawing
	LineIndices []uint32
}

// ExpectedTriangleCount returns the number of triangles GenerateSphere emits.
// Each of the stackCount-2 inner stacks contributes two triangles per sector,
// the two pole stacks contribute one.
func ExpectedTriangleCount(sectorCount, stackCount int) int {
	return 2 * sectorCount * (stackCount - 1)
}

// GenerateSphere builds a UV sphere with the given radius, longitude (sector)
// and latitude (stack) subdivision.
func GenerateSphere(radius float32, sectorCount, stackCount int) (*Mesh, error) {
	if !(radius > 0) || math.IsInf(float64(radius), 0) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidParameter)
	}
	if sectorCount < 3 {
		return nil, fmt.Errorf("sector count %d < 3: %w", sectorCount, ErrInvalidParameter)
	}
	if stackCount < 2 {
		return nil, fmt.Errorf("stack count %d < 2: %w", stackCount, ErrInvalidParameter)
	}

	nVtx := (stackCount + 1) * (sectorCount + 1)
	m := &Mesh{
		Radius:      radius,
		SectorCount: sectorCount,
		StackCount:  stackCount,
		Vertices:    make([]mgl32.Vec3, 0, nVtx),
		Normals:     make([]mgl32.Vec3, 0, nVtx),
		TexCoords:   make([]mgl32.Vec2, 0, nVtx),
		Indices:     make([]uint32, 0, 3*ExpectedTriangleCount(sectorCount, stackCount)),
	}

	sectorStep := 2 * math.Pi / float64(sectorCount)
	stackStep := math.Pi / float64(stackCount)
	r := float64(radius)

	for i := 0; i <= stackCount; i++ {
		stackAngle := math.Pi/2 - float64(i)*stackStep // pi/2 down to -pi/2
		xy := math.Cos(stackAngle)
		z := math.Sin(stackAngle)

		// sectorCount+1 vertices per stack: the first and last share position
		// and normal but carry different tex coords
		for j := 0; j <= sectorCount; j++ {
			sectorAngle := float64(j) * sectorStep
			n := mgl32.Vec3{
				float32(xy * math.Cos(sectorAngle)),
				float32(xy * math.Sin(sectorAngle)),
				float32(z),
			}
			m.Normals = append(m.Normals, n)
			m.Vertices = append(m.Vertices, mgl32.Vec3{
				float32(r * xy * math.Cos(sectorAngle)),
				float32(r * xy * math.Sin(sectorAngle)),
				float32(r * z),
			})
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{
				float32(j) / float32(sectorCount),
				float32(i) / float32(stackCount),
			})
		}
	}

	// k1--k1+1
	// |  / |
	// | /  |
	// k2--k2+1
	for i := 0; i < stackCount; i++ {
		k1 := uint32(i * (sectorCount + 1)) // beginning of current stack
		k2 := k1 + uint32(sectorCount) + 1  // beginning of next stack

		for j := 0; j < sectorCount; j, k1, k2 = j+1, k1+1, k2+1 {
			if i != 0 {
				m.Indices = append(m.Indices, k1, k2, k1+1)
			}
			if i != stackCount-1 {
				m.Indices = append(m.Indices, k1+1, k2, k2+1)
			}

			// vertical lines for all stacks, horizontal lines except the first
			m.LineIndices = append(m.LineIndices, k1, k2)
			if i != 0 {
				m.LineIndices = append(m.LineIndices, k1, k1+1)
			}
		}
	}

	return m, nil
}

// Regenerate builds a fresh mesh with the same parameters.
func (m *Mesh) Regenerate() (*Mesh, error) {
	return GenerateSphere(m.Radius, m.SectorCount, m.StackCount)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles in Indices.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Interleaved returns position(3), normal(3), texcoord(2) per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*8)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		uv := m.TexCoords[i]
		out = append(out, v[0], v[1], v[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}

// Positions returns the vertex positions as a flat xyz array.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// ExpandTriangles resolves Indices into a non-indexed xyz stream, three
// vertices per triangle, for draw paths without an element buffer.
func (m *Mesh) ExpandTriangles() []float32 {
	out := make([]float32, 0, len(m.Indices)*3)
	for _, idx := range m.Indices {
		v := m.Vertices[idx]
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Indices16 returns Indices narrowed to 16 bits.
func (m *Mesh) Indices16() ([]uint16, error) {
	if len(m.Vertices) > math.MaxUint16 {
		return nil, fmt.Errorf("%d vertices do not fit 16-bit indices: %w", len(m.Vertices), ErrInvalidParameter)
	}
	out := make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		out[i] = uint16(idx)
	}
	return out, nil
}
