package boundary

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCells is the marching cubes resolution along the longest axis
const DefaultCells = 64

// GenerateRect returns the exact 12 triangle surface of the box [min, max]
func GenerateRect(name string, min, max r3.Vec) (*Surface, error) {
	if max.X <= min.X || max.Y <= min.Y || max.Z <= min.Z {
		return nil, fmt.Errorf("empty box %v - %v", min, max)
	}
	m := model3d.NewMeshRect(
		model3d.Coord3D{X: min.X, Y: min.Y, Z: min.Z},
		model3d.Coord3D{X: max.X, Y: max.Y, Z: max.Z},
	)
	return NewSurface(name, m.TriangleSlice())
}

// GenerateBox returns a box of the given size centered at center, with edges
// rounded by round, tessellated by marching cubes
func GenerateBox(name string, center, size r3.Vec, round float64, cells int) (*Surface, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, round)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return tessellate(name, translate(s, center), cells)
}

// GenerateSphere returns a sphere tessellated by marching cubes
func GenerateSphere(name string, center r3.Vec, radius float64, cells int) (*Surface, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return tessellate(name, translate(s, center), cells)
}

// GenerateCylinder returns a z aligned cylinder tessellated by marching cubes
func GenerateCylinder(name string, center r3.Vec, height, radius float64, cells int) (*Surface, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return tessellate(name, translate(s, center), cells)
}

func translate(s sdf.SDF3, c r3.Vec) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: c.X, Y: c.Y, Z: c.Z}))
}

// tessellate renders an SDF to triangles and welds the vertices that
// neighboring cubes computed separately, so the result has shared edges
func tessellate(name string, s sdf.SDF3, cells int) (*Surface, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	bb := s.BoundingBox()
	size := bb.Size()
	quantum := math.Max(size.X, math.Max(size.Y, size.Z)) / float64(cells) * 1e-6
	weld := func(v v3.Vec) model3d.Coord3D {
		return model3d.Coord3D{
			X: math.Round(v.X/quantum) * quantum,
			Y: math.Round(v.Y/quantum) * quantum,
			Z: math.Round(v.Z/quantum) * quantum,
		}
	}

	out := make([]*model3d.Triangle, 0, len(tris))
	for _, tri := range tris {
		t := &model3d.Triangle{weld(tri[0]), weld(tri[1]), weld(tri[2])}
		// Collapsed triangles contribute no area and only unbalance edges
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			continue
		}
		out = append(out, t)
	}
	return NewSurface(name, out)
}
