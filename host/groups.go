package host

import (
	"fmt"

	"github.com/notargets/tetroi/mesh/readers"
	"github.com/notargets/tetroi/roi"
)

// ROIGroups converts an assignment to named tet groups keyed by the file
// element ids of the session's mesh
func (s *Session) ROIGroups(a *roi.Assignment) (*readers.ROIGroups, error) {
	tets, err := s.Tets()
	if err != nil {
		return nil, err
	}
	g := &readers.ROIGroups{
		Mesh:        s.path,
		ImportScale: tets.ImportScale(),
		NumTets:     tets.NumTets(),
	}
	for _, name := range a.Names {
		ids := make([]int, len(a.Elements[name]))
		for i, t := range a.Elements[name] {
			ids[i] = tets.Mesh.ElementIDs[tets.ElementIndex(t)]
		}
		g.ROIs = append(g.ROIs, readers.ROIGroup{Name: name, ElementType: "tet", Elements: ids})
	}
	return g, nil
}

// SaveROIGroups stores the assignment alongside the mesh as named groups
func (s *Session) SaveROIGroups(path string, a *roi.Assignment) error {
	g, err := s.ROIGroups(a)
	if err != nil {
		return err
	}
	return readers.WriteROIGroups(path, g)
}

// LoadROIGroups reads a stored group file
func LoadROIGroups(path string) (*readers.ROIGroups, error) {
	return readers.ReadROIGroups(path)
}

// ROIData returns the tet numbers of the named group, mapped back through
// the session's mesh
func (s *Session) ROIData(g *readers.ROIGroups, name string) ([]int, error) {
	tets, err := s.Tets()
	if err != nil {
		return nil, err
	}
	ids, ok := g.Get(name)
	if !ok {
		return nil, fmt.Errorf("no ROI named %q", name)
	}
	tetOf := make(map[int]int, tets.NumTets())
	for t := 0; t < tets.NumTets(); t++ {
		tetOf[tets.ElementIndex(t)] = t
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		elem, ok := tets.Mesh.ElementIDMap[id]
		if !ok {
			return nil, fmt.Errorf("ROI %q: element %d not in %s", name, id, s.path)
		}
		t, ok := tetOf[elem]
		if !ok {
			return nil, fmt.Errorf("ROI %q: element %d is not a tetrahedron", name, id)
		}
		out = append(out, t)
	}
	return out, nil
}
