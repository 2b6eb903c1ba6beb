package mesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElementGroup is a named physical group of elements
type ElementGroup struct {
	Dimension int
	Tag       int
	Name      string
	Elements  []int // Element indices (0-based, into EtoV)
}

// Entity is a geometric entity as declared in a Gmsh 4.x $Entities section
type Entity struct {
	Dimension    int
	Tag          int
	PhysicalTags []int
}

// Mesh is a host-neutral unstructured mesh. Node and element ids are the ids
// used by the host file; all slices are indexed by the 0-based position the
// node or element was read in.
type Mesh struct {
	// Geometry
	Vertices  []r3.Vec    // Vertex coordinates in mesh-native units
	NodeIDs   []int       // File node id for each vertex
	NodeIDMap map[int]int // File node id -> vertex index

	// Element data
	EtoV         [][]int       // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []ElementType // Element type for each element
	ElementTags  [][]int       // Physical tag first, then elementary tag
	ElementIDs   []int         // File element id for each element
	ElementIDMap map[int]int   // File element id -> element index

	// Groups
	ElementGroups map[int]*ElementGroup // Physical tag -> group
	Entities      map[int]*Entity       // Volume entity tag -> entity (Gmsh 4.x)

	// File metadata
	FormatVersion string
	IsBinary      bool
	DataSize      int

	// Mesh statistics
	NumElements int
	NumVertices int
}

// NewMesh creates an empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		NodeIDMap:     make(map[int]int),
		ElementIDMap:  make(map[int]int),
		ElementGroups: make(map[int]*ElementGroup),
		Entities:      make(map[int]*Entity),
	}
}

// AddNode appends a node with its file id
func (m *Mesh) AddNode(nodeID int, coords []float64) {
	var v r3.Vec
	switch len(coords) {
	case 3:
		v = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
	case 2:
		v = r3.Vec{X: coords[0], Y: coords[1]}
	}
	m.NodeIDMap[nodeID] = len(m.Vertices)
	m.Vertices = append(m.Vertices, v)
	m.NodeIDs = append(m.NodeIDs, nodeID)
	m.NumVertices = len(m.Vertices)
}

// GetNodeIndex returns the vertex index of a file node id
func (m *Mesh) GetNodeIndex(nodeID int) (int, bool) {
	idx, ok := m.NodeIDMap[nodeID]
	return idx, ok
}

// AddElement appends an element given its file node ids. The first tag, when
// present, is the physical tag and the element is added to the matching group.
func (m *Mesh) AddElement(elemID int, etype ElementType, tags []int, nodeIDs []int) error {
	verts := make([]int, len(nodeIDs))
	for i, nid := range nodeIDs {
		idx, ok := m.NodeIDMap[nid]
		if !ok {
			return fmt.Errorf("element %d references unknown node %d", elemID, nid)
		}
		verts[i] = idx
	}

	elemIdx := len(m.EtoV)
	m.EtoV = append(m.EtoV, verts)
	m.ElementTypes = append(m.ElementTypes, etype)
	m.ElementTags = append(m.ElementTags, tags)
	m.ElementIDs = append(m.ElementIDs, elemID)
	m.ElementIDMap[elemID] = elemIdx
	m.NumElements = len(m.EtoV)

	if len(tags) > 0 {
		if group, ok := m.ElementGroups[tags[0]]; ok {
			group.Elements = append(group.Elements, elemIdx)
		}
	}
	return nil
}

// GetMeshDimension returns the highest element dimension present, or 3 when
// the mesh has no elements yet
func (m *Mesh) GetMeshDimension() int {
	if len(m.ElementTypes) == 0 {
		return 3
	}
	dim := 0
	for _, et := range m.ElementTypes {
		if d := et.GetDimension(); d > dim {
			dim = d
		}
	}
	return dim
}

// Tets returns the element indices of all linear tetrahedra in file order
func (m *Mesh) Tets() []int {
	tets := make([]int, 0, len(m.EtoV))
	for i, et := range m.ElementTypes {
		if et == Tet {
			tets = append(tets, i)
		}
	}
	return tets
}

// ElementVertices returns the coordinates of an element's vertices
func (m *Mesh) ElementVertices(elem int) []r3.Vec {
	verts := make([]r3.Vec, len(m.EtoV[elem]))
	for i, v := range m.EtoV[elem] {
		verts[i] = m.Vertices[v]
	}
	return verts
}

// Centroid returns the mean of the element's vertices
func (m *Mesh) Centroid(elem int) r3.Vec {
	var c r3.Vec
	for _, v := range m.EtoV[elem] {
		c = r3.Add(c, m.Vertices[v])
	}
	return r3.Scale(1/float64(len(m.EtoV[elem])), c)
}

// BoundingBox returns the axis aligned box of all the element's vertices
func (m *Mesh) BoundingBox(elem int) r3.Box {
	return BoxOf(m.ElementVertices(elem))
}

// BoxOf returns the axis aligned box enclosing the points
func BoxOf(pts []r3.Vec) r3.Box {
	inf := math.Inf(1)
	b := r3.Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
	for _, p := range pts {
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// GroupByName returns the physical group with the given name
func (m *Mesh) GroupByName(name string) (*ElementGroup, bool) {
	for _, g := range m.ElementGroups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d\n", m.NumElements)

	typeCounts := make(map[ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	types := make([]ElementType, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	fmt.Printf("  Element types:\n")
	for _, t := range types {
		fmt.Printf("    %s: %d\n", t, typeCounts[t])
	}

	if len(m.ElementGroups) > 0 {
		tags := make([]int, 0, len(m.ElementGroups))
		for tag := range m.ElementGroups {
			tags = append(tags, tag)
		}
		sort.Ints(tags)
		fmt.Printf("  Physical groups:\n")
		for _, tag := range tags {
			g := m.ElementGroups[tag]
			fmt.Printf("    [%d] %q (dim %d): %d elements\n", tag, g.Name, g.Dimension, len(g.Elements))
		}
	}
}
