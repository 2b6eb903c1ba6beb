package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func tetVolume(p []r3.Vec) float64 {
	a := r3.Sub(p[1], p[0])
	b := r3.Sub(p[2], p[0])
	c := r3.Sub(p[3], p[0])
	return math.Abs(r3.Dot(a, r3.Cross(b, c))) / 6
}

func TestNewCubeTetMesh(t *testing.T) {
	for _, n := range []int{1, 2, 4} {
		m := NewCubeTetMesh(n, r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2}, 0)
		assert.Equal(t, (n+1)*(n+1)*(n+1), m.NumVertices)
		assert.Equal(t, 6*n*n*n, m.NumElements)
		assert.Len(t, m.Tets(), m.NumElements)

		// The tets tile the cube exactly
		var vol float64
		for _, e := range m.Tets() {
			v := tetVolume(m.ElementVertices(e))
			assert.Greater(t, v, 0.0, "degenerate tet %d", e)
			vol += v
		}
		assert.InDelta(t, 8.0, vol, 1e-9)
	}
}

func TestCentroidAndBoundingBox(t *testing.T) {
	m := NewTwoTetMesh()

	c := m.Centroid(0)
	assert.InDelta(t, 0.25, c.X, 1e-12)
	assert.InDelta(t, 0.25, c.Y, 1e-12)
	assert.InDelta(t, 0.25, c.Z, 1e-12)

	// All four vertices count, including the last one
	b := m.BoundingBox(1)
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: 0}, b.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, b.Max)
}

func TestAddElementUnknownNode(t *testing.T) {
	m := NewMesh()
	m.AddNode(1, []float64{0, 0, 0})
	err := m.AddElement(1, Tet, nil, []int{1, 2, 3, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node 2")
	assert.Equal(t, 0, m.NumElements)
}

func TestElementGroups(t *testing.T) {
	m := NewCubeTetMesh(2, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 7)
	g, ok := m.GroupByName("domain")
	require.True(t, ok)
	assert.Equal(t, 7, g.Tag)
	assert.Len(t, g.Elements, m.NumElements)
	assert.Equal(t, 3, m.GetMeshDimension())

	_, ok = m.GroupByName("missing")
	assert.False(t, ok)
}

func TestMixedElementsTets(t *testing.T) {
	m := NewTwoTetMesh()
	require.NoError(t, m.AddElement(3, Triangle, []int{5, 2}, []int{1, 2, 3}))
	assert.Equal(t, []int{0, 1}, m.Tets())
	assert.Equal(t, 3, m.NumElements)
	assert.Equal(t, 4, Tet.GmshType())
	assert.Equal(t, "Tet", Tet.String())
	assert.Equal(t, "Invalid", ElementType(99).String())
}
