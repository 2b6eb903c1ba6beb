package host

import (
	"github.com/notargets/tetroi/mesh/readers"
	"github.com/notargets/tetroi/roi"
)

const (
	// DefaultPhysicalTag is the physical tag of the untagged entity, ROI i
	// (1-based, label order) gets DefaultPhysicalTag+i
	DefaultPhysicalTag = 1000
	DefaultEntityName  = "Initial domain"
)

// Partition splits the tetrahedra into one discrete volume entity for the
// tets in no ROI, followed by one entity per ROI. A tet in several ROIs is
// placed in each of them and never in the default entity.
func Partition(tets *roi.MeshTets, a *roi.Assignment) *readers.Partition {
	toElements := func(ts []int) []int {
		elems := make([]int, len(ts))
		for i, t := range ts {
			elems[i] = tets.ElementIndex(t)
		}
		return elems
	}

	p := &readers.Partition{Mesh: tets.Mesh}
	p.Entities = append(p.Entities, readers.PartitionEntity{
		Tag:         1,
		PhysicalTag: DefaultPhysicalTag,
		Name:        DefaultEntityName,
		Elements:    toElements(a.Untagged(tets.NumTets())),
	})
	for i, name := range a.Names {
		p.Entities = append(p.Entities, readers.PartitionEntity{
			Tag:         i + 2,
			PhysicalTag: DefaultPhysicalTag + i + 1,
			Name:        name,
			Elements:    toElements(a.Elements[name]),
		})
	}
	return p
}

// WritePartitioned writes the partitioned mesh as MSH 2.2
func (s *Session) WritePartitioned(path string, a *roi.Assignment) error {
	tets, err := s.Tets()
	if err != nil {
		return err
	}
	return readers.WriteGmsh22File(path, Partition(tets, a))
}
