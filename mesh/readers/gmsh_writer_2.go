package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/tetroi/mesh"
)

// PartitionEntity is one discrete volume entity of a rewritten mesh, carrying
// its own elements and a named physical group
type PartitionEntity struct {
	Tag         int    // Elementary (entity) tag
	PhysicalTag int    // Physical group tag
	Name        string // Physical group name
	Elements    []int  // Element indices into the source mesh
}

// Partition redistributes the elements of a source mesh into entities
type Partition struct {
	Mesh     *mesh.Mesh
	Entities []PartitionEntity
}

// NumElements returns the number of element records the partition writes
func (p *Partition) NumElements() int {
	var n int
	for _, e := range p.Entities {
		n += len(e.Elements)
	}
	return n
}

// WriteGmsh22File writes the partition as an ASCII MSH 2.2 file
func WriteGmsh22File(filename string, p *Partition) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = WriteGmsh22(file, p); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return file.Close()
}

// WriteGmsh22 writes the partition in ASCII MSH 2.2 format. Only nodes used by
// the written elements are emitted, with their original ids. Element records
// are renumbered sequentially because an element may be written once per
// entity it belongs to.
func WriteGmsh22(w io.Writer, p *Partition) error {
	bw := bufio.NewWriter(w)
	m := p.Mesh

	fmt.Fprintf(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")

	fmt.Fprintf(bw, "$PhysicalNames\n%d\n", len(p.Entities))
	for _, e := range p.Entities {
		fmt.Fprintf(bw, "3 %d %q\n", e.PhysicalTag, e.Name)
	}
	fmt.Fprintf(bw, "$EndPhysicalNames\n")

	used := make(map[int]bool)
	for _, e := range p.Entities {
		for _, elem := range e.Elements {
			if elem < 0 || elem >= m.NumElements {
				return fmt.Errorf("entity %q: element index %d out of range", e.Name, elem)
			}
			for _, v := range m.EtoV[elem] {
				used[v] = true
			}
		}
	}
	verts := make([]int, 0, len(used))
	for v := range used {
		verts = append(verts, v)
	}
	sort.Slice(verts, func(i, j int) bool { return m.NodeIDs[verts[i]] < m.NodeIDs[verts[j]] })

	fmt.Fprintf(bw, "$Nodes\n%d\n", len(verts))
	for _, v := range verts {
		c := m.Vertices[v]
		fmt.Fprintf(bw, "%d %s %s %s\n", m.NodeIDs[v], formatFloat(c.X), formatFloat(c.Y), formatFloat(c.Z))
	}
	fmt.Fprintf(bw, "$EndNodes\n")

	fmt.Fprintf(bw, "$Elements\n%d\n", p.NumElements())
	id := 1
	for _, e := range p.Entities {
		for _, elem := range e.Elements {
			etype := m.ElementTypes[elem]
			fmt.Fprintf(bw, "%d %d 2 %d %d", id, etype.GmshType(), e.PhysicalTag, e.Tag)
			for _, v := range m.EtoV[elem] {
				fmt.Fprintf(bw, " %d", m.NodeIDs[v])
			}
			fmt.Fprintln(bw)
			id++
		}
	}
	fmt.Fprintf(bw, "$EndElements\n")

	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
