// Package roi assigns the tetrahedra of a mesh to named regions of interest,
// each defined by an inside/outside signature over a list of closed boundary
// surfaces.
package roi

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetroi/mesh"
)

// MeshSource is what the resolver needs from a host mesh. Tets are numbered
// 0..NumTets()-1 and coordinates are in mesh-native units.
type MeshSource interface {
	NumTets() int
	TetVertices(t int) [4]r3.Vec
	ImportScale() float64
}

// Classifier is a closed boundary surface in unit scale. Classify returns
// signed distances, >= 0 for points inside or on the surface.
type Classifier interface {
	Bounds() r3.Box
	Classify(points []r3.Vec) []float64
}

// MeshTets adapts the linear tetrahedra of a mesh, in file order
type MeshTets struct {
	Mesh  *mesh.Mesh
	Scale float64
	tets  []int
}

// NewMeshTets wraps m with the given import scale. A non-positive scale is 1.
func NewMeshTets(m *mesh.Mesh, scale float64) *MeshTets {
	if scale <= 0 {
		scale = 1
	}
	return &MeshTets{Mesh: m, Scale: scale, tets: m.Tets()}
}

func (mt *MeshTets) NumTets() int { return len(mt.tets) }

func (mt *MeshTets) ImportScale() float64 { return mt.Scale }

func (mt *MeshTets) TetVertices(t int) (v [4]r3.Vec) {
	for i, n := range mt.Mesh.EtoV[mt.tets[t]][:4] {
		v[i] = mt.Mesh.Vertices[n]
	}
	return
}

// ElementIndex maps a tet number to its element index in the mesh
func (mt *MeshTets) ElementIndex(t int) int { return mt.tets[t] }

func centroid(v [4]r3.Vec) r3.Vec {
	return r3.Scale(0.25, r3.Add(r3.Add(v[0], v[1]), r3.Add(v[2], v[3])))
}

func bounds(v [4]r3.Vec) r3.Box {
	return mesh.BoxOf(v[:])
}
