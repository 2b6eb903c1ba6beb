package mesh

// ElementType represents the element types a host mesh file may carry.
// Only linear tetrahedra take part in ROI tagging; everything else is read
// so that files with surface or line elements still load.
type ElementType int

const (
	Unknown ElementType = iota
	Point
	Line
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid
	Line3
	Triangle6
	Quad9
	Tet10
	Hex27
	Prism18
	Pyramid14
)

func (e ElementType) String() string {
	names := []string{
		"Unknown", "Point", "Line", "Triangle", "Quad",
		"Tet", "Hex", "Prism", "Pyramid",
		"Line3", "Triangle6", "Quad9", "Tet10", "Hex27", "Prism18", "Pyramid14",
	}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetDimension returns the spatial dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Point:
		return 0
	case Line, Line3:
		return 1
	case Triangle, Quad, Triangle6, Quad9:
		return 2
	case Tet, Hex, Prism, Pyramid, Tet10, Hex27, Prism18, Pyramid14:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Line3, Triangle:
		return 3
	case Quad, Tet:
		return 4
	case Pyramid:
		return 5
	case Triangle6, Prism:
		return 6
	case Hex:
		return 8
	case Quad9:
		return 9
	case Tet10:
		return 10
	case Pyramid14:
		return 14
	case Prism18:
		return 18
	case Hex27:
		return 27
	default:
		return 0
	}
}

// GmshType returns the Gmsh element type number, 0 if there is none
func (e ElementType) GmshType() int {
	for gt, et := range GmshElementTypes {
		if et == e {
			return gt
		}
	}
	return 0
}

// GmshElementTypes maps Gmsh element type numbers (shared by MSH 2.2 and 4.x)
// to our ElementType
var GmshElementTypes = map[int]ElementType{
	1:  Line,      // 2-node line
	2:  Triangle,  // 3-node triangle
	3:  Quad,      // 4-node quadrangle
	4:  Tet,       // 4-node tetrahedron
	5:  Hex,       // 8-node hexahedron
	6:  Prism,     // 6-node prism
	7:  Pyramid,   // 5-node pyramid
	8:  Line3,     // 3-node line
	9:  Triangle6, // 6-node triangle
	10: Quad9,     // 9-node quadrangle
	11: Tet10,     // 10-node tetrahedron
	12: Hex27,     // 27-node hexahedron
	13: Prism18,   // 18-node prism
	14: Pyramid14, // 14-node pyramid
	15: Point,     // 1-node point
}
