// Package boundary loads watertight triangulated boundary surfaces and
// classifies points against them by signed distance.
package boundary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNotWatertight is returned for surfaces without a well defined inside
var ErrNotWatertight = errors.New("surface is not watertight")

type signedDistancer interface {
	SDF(c model3d.Coord3D) float64
}

// Surface is a closed triangulated surface. Signed distances are positive
// inside, zero on the surface and negative outside.
type Surface struct {
	Name string
	mesh *model3d.Mesh
	sdf  signedDistancer
}

// Load reads a binary or ASCII STL file and checks that it is watertight
func Load(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tris, err := model3d.ReadSTL(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := NewSurface(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), tris)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// NewSurface builds a surface from triangles. Every edge must be shared by
// exactly two triangles and no vertex may join separate sheets.
func NewSurface(name string, tris []*model3d.Triangle) (*Surface, error) {
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrNotWatertight)
	}
	m := model3d.NewMeshTriangles(tris)
	if m.NeedsRepair() {
		return nil, fmt.Errorf("%w: edges not shared by exactly two triangles", ErrNotWatertight)
	}
	if sv := m.SingularVertices(); len(sv) > 0 {
		return nil, fmt.Errorf("%w: %d singular vertices", ErrNotWatertight, len(sv))
	}
	return &Surface{
		Name: name,
		mesh: m,
		sdf:  model3d.MeshToSDF(m),
	}, nil
}

// NumTriangles returns the triangle count
func (s *Surface) NumTriangles() int {
	return len(s.mesh.TriangleSlice())
}

// Bounds returns the axis aligned bounding box of the surface
func (s *Surface) Bounds() r3.Box {
	min, max := s.mesh.Min(), s.mesh.Max()
	return r3.Box{
		Min: r3.Vec{X: min.X, Y: min.Y, Z: min.Z},
		Max: r3.Vec{X: max.X, Y: max.Y, Z: max.Z},
	}
}

// SignedDistance returns the distance from p to the surface, >= 0 when p is
// inside or on the surface and < 0 when it is strictly outside
func (s *Surface) SignedDistance(p r3.Vec) float64 {
	return s.sdf.SDF(model3d.Coord3D{X: p.X, Y: p.Y, Z: p.Z})
}

// Contains reports whether p is inside or on the surface
func (s *Surface) Contains(p r3.Vec) bool {
	return s.SignedDistance(p) >= 0
}

// Classify returns the signed distance of every point, in order
func (s *Surface) Classify(points []r3.Vec) []float64 {
	d := make([]float64, len(points))
	for i, p := range points {
		d[i] = s.SignedDistance(p)
	}
	return d
}

// Triangles returns the surface triangles
func (s *Surface) Triangles() []*model3d.Triangle {
	return s.mesh.TriangleSlice()
}

// WriteSTL writes the surface as a binary STL file
func WriteSTL(path string, s *Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = model3d.WriteSTL(f, s.Triangles()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
