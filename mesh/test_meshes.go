package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// kuhnPaths are the six axis orderings walking from cell corner 000 to 111.
// Each ordering yields one tetrahedron, and because every cell is split the
// same way the faces of neighboring cells match.
var kuhnPaths = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// NewCubeTetMesh builds a structured tetrahedral mesh of the box [min, max]
// with n cells per side, each cell split into 6 tetrahedra. Node and element
// ids are 1-based. When physicalTag is positive all tets are put in a volume
// group named "domain" with that tag.
func NewCubeTetMesh(n int, min, max r3.Vec, physicalTag int) *Mesh {
	if n < 1 {
		n = 1
	}
	m := NewMesh()
	m.FormatVersion = "2.2"
	np := n + 1
	h := r3.Vec{
		X: (max.X - min.X) / float64(n),
		Y: (max.Y - min.Y) / float64(n),
		Z: (max.Z - min.Z) / float64(n),
	}
	nodeID := func(i, j, k int) int {
		return 1 + i + np*(j+np*k)
	}
	for k := 0; k < np; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				m.AddNode(nodeID(i, j, k), []float64{
					min.X + float64(i)*h.X,
					min.Y + float64(j)*h.Y,
					min.Z + float64(k)*h.Z,
				})
			}
		}
	}

	tags := []int{1, 1}
	if physicalTag > 0 {
		m.ElementGroups[physicalTag] = &ElementGroup{
			Dimension: 3,
			Tag:       physicalTag,
			Name:      "domain",
		}
		tags = []int{physicalTag, 1}
	}

	elemID := 1
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for _, path := range kuhnPaths {
					corner := [3]int{i, j, k}
					nodes := []int{nodeID(corner[0], corner[1], corner[2])}
					for _, axis := range path {
						corner[axis]++
						nodes = append(nodes, nodeID(corner[0], corner[1], corner[2]))
					}
					// Generated connectivity only references nodes added above
					_ = m.AddElement(elemID, Tet, append([]int(nil), tags...), nodes)
					elemID++
				}
			}
		}
	}
	return m
}

// NewTwoTetMesh builds two tetrahedra sharing the face (1,2,3), a minimal
// mesh for reader and writer tests
func NewTwoTetMesh() *Mesh {
	m := NewMesh()
	m.FormatVersion = "2.2"
	coords := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}
	for i, c := range coords {
		m.AddNode(i+1, c)
	}
	m.ElementGroups[10] = &ElementGroup{Dimension: 3, Tag: 10, Name: "fluid"}
	_ = m.AddElement(1, Tet, []int{10, 1}, []int{1, 2, 3, 4})
	_ = m.AddElement(2, Tet, []int{10, 1}, []int{2, 3, 4, 5})
	return m
}
