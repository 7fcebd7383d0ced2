package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sphereParams = []struct {
	name    string
	radius  float32
	sectors int
	stacks  int
}{
	{"minimal", 1, 3, 2},
	{"small", 1, 4, 4},
	{"default", 1, 36, 18},
	{"large radius", 25, 12, 9},
	{"tiny radius", 0.05, 24, 12},
}

func TestGenerateSphereCounts(t *testing.T) {
	m, err := GenerateSphere(1, 4, 4)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 25)
	assert.Len(t, m.Normals, 25)
	assert.Len(t, m.TexCoords, 25)
	assert.Equal(t, 24, ExpectedTriangleCount(4, 4))
	assert.Len(t, m.Indices, 72)
	assert.Equal(t, 24, m.TriangleCount())

	for _, tc := range sphereParams {
		t.Run(tc.name, func(t *testing.T) {
			m, err := GenerateSphere(tc.radius, tc.sectors, tc.stacks)
			require.NoError(t, err)
			assert.Equal(t, (tc.stacks+1)*(tc.sectors+1), m.VertexCount())
			assert.Equal(t, ExpectedTriangleCount(tc.sectors, tc.stacks), m.TriangleCount())
			assert.Zero(t, len(m.Indices)%3)
		})
	}
}

func TestGenerateSphereGeometry(t *testing.T) {
	for _, tc := range sphereParams {
		t.Run(tc.name, func(t *testing.T) {
			m, err := GenerateSphere(tc.radius, tc.sectors, tc.stacks)
			require.NoError(t, err)

			for i, n := range m.Normals {
				assert.InDelta(t, 1.0, n.Len(), 1e-5, "normal %d", i)
			}
			for i, v := range m.Vertices {
				assert.InDelta(t, tc.radius, v.Len(), 1e-5*float64(tc.radius), "vertex %d", i)
			}
			for i, uv := range m.TexCoords {
				assert.True(t, uv[0] >= 0 && uv[0] <= 1 && uv[1] >= 0 && uv[1] <= 1, "texcoord %d out of range: %v", i, uv)
			}
			for _, idx := range m.Indices {
				assert.Less(t, int(idx), m.VertexCount())
			}
			for _, idx := range m.LineIndices {
				assert.Less(t, int(idx), m.VertexCount())
			}
		})
	}
}

func TestGenerateSpherePoles(t *testing.T) {
	m, err := GenerateSphere(2, 8, 6)
	require.NoError(t, err)

	north := m.Vertices[0]
	south := m.Vertices[len(m.Vertices)-1]
	assert.InDelta(t, 2, north[2], 1e-6)
	assert.InDelta(t, -2, south[2], 1e-6)

	// pole stacks emit a single triangle per sector
	assert.Equal(t, []uint32{1, 9, 10}, m.Indices[:3])
}

func TestGenerateSphereSeam(t *testing.T) {
	m, err := GenerateSphere(1, 6, 5)
	require.NoError(t, err)

	row := m.SectorCount + 1
	for i := 0; i <= m.StackCount; i++ {
		first := i * row
		last := first + m.SectorCount
		assert.True(t, m.Vertices[first].ApproxEqualThreshold(m.Vertices[last], 1e-6), "stack %d seam position", i)
		assert.True(t, m.Normals[first].ApproxEqualThreshold(m.Normals[last], 1e-6), "stack %d seam normal", i)
		assert.Equal(t, float32(0), m.TexCoords[first][0])
		assert.Equal(t, float32(1), m.TexCoords[last][0])
	}
}

func TestGenerateSphereWinding(t *testing.T) {
	m, err := GenerateSphere(1, 16, 8)
	require.NoError(t, err)

	// every triangle faces away from the origin
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c)
		assert.Greater(t, normal.Dot(centroid), float32(0), "triangle %d", i/3)
	}
}

func TestGenerateSphereClosed(t *testing.T) {
	m, err := GenerateSphere(1, 10, 7)
	require.NoError(t, err)

	// weld the seam and poles, then every edge must be shared by exactly two triangles
	key := func(idx uint32) [3]int32 {
		v := m.Vertices[idx]
		return [3]int32{int32(v[0] * 1e4), int32(v[1] * 1e4), int32(v[2] * 1e4)}
	}
	edges := make(map[[2][3]int32]int)
	for i := 0; i < len(m.Indices); i += 3 {
		tri := [3][3]int32{key(m.Indices[i]), key(m.Indices[i+1]), key(m.Indices[i+2])}
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if less(b, a) {
				a, b = b, a
			}
			edges[[2][3]int32{a, b}]++
		}
	}
	for e, n := range edges {
		assert.Equal(t, 2, n, "edge %v", e)
	}
}

func less(a, b [3]int32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestGenerateSphereDeterministic(t *testing.T) {
	a, err := GenerateSphere(3, 20, 10)
	require.NoError(t, err)
	b, err := a.Regenerate()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateSphereInvalid(t *testing.T) {
	tests := []struct {
		name    string
		radius  float32
		sectors int
		stacks  int
	}{
		{"zero radius", 0, 8, 8},
		{"negative radius", -1, 8, 8},
		{"two sectors", 1, 2, 8},
		{"one stack", 1, 8, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := GenerateSphere(tc.radius, tc.sectors, tc.stacks)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestMeshBuffers(t *testing.T) {
	m, err := GenerateSphere(1, 4, 3)
	require.NoError(t, err)

	inter := m.Interleaved()
	require.Len(t, inter, m.VertexCount()*8)
	assert.Equal(t, m.Vertices[5][0], inter[5*8])
	assert.Equal(t, m.Normals[5][2], inter[5*8+5])
	assert.Equal(t, m.TexCoords[5][1], inter[5*8+7])

	assert.Len(t, m.Positions(), m.VertexCount()*3)

	expanded := m.ExpandTriangles()
	require.Len(t, expanded, len(m.Indices)*3)
	last := m.Vertices[m.Indices[len(m.Indices)-1]]
	assert.Equal(t, last[2], expanded[len(expanded)-1])

	idx16, err := m.Indices16()
	require.NoError(t, err)
	require.Len(t, idx16, len(m.Indices))
	for i := range idx16 {
		assert.Equal(t, uint32(idx16[i]), m.Indices[i])
	}
}

func TestMeshIndices16Overflow(t *testing.T) {
	m, err := GenerateSphere(1, 300, 300)
	require.NoError(t, err)
	_, err = m.Indices16()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
