package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetroi/boundary"
	"github.com/notargets/tetroi/mesh"
	"github.com/notargets/tetroi/mesh/readers"
	"github.com/notargets/tetroi/roi"
)

func prepared(t *testing.T, name string) *Scenario {
	sc, err := LookupScenario(name, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, sc.Generate())
	require.NoError(t, sc.Check())
	return sc
}

func labels(t *testing.T, strs ...string) []roi.Label {
	l, err := roi.ParseLabels(strs)
	require.NoError(t, err)
	return l
}

func TestOpenErrors(t *testing.T) {
	before := OpenSessions()
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.msh"), Options{})
	assert.True(t, errors.Is(err, ErrMeshNotFound))

	// A surface only mesh
	m := mesh.NewMesh()
	m.AddNode(1, []float64{0, 0, 0})
	m.AddNode(2, []float64{1, 0, 0})
	m.AddNode(3, []float64{0, 1, 0})
	require.NoError(t, m.AddElement(1, mesh.Triangle, []int{1, 1}, []int{1, 2, 3}))
	flat := filepath.Join(dir, "flat.msh")
	require.NoError(t, readers.WriteGmsh22File(flat, &readers.Partition{Mesh: m,
		Entities: []readers.PartitionEntity{{Tag: 1, PhysicalTag: 1, Name: "skin", Elements: []int{0}}}}))
	_, err = Open(flat, Options{})
	assert.True(t, errors.Is(err, ErrNoTetrahedra))

	_, err = Open(flat, Options{ImportScale: -1})
	assert.Error(t, err)

	assert.Equal(t, before, OpenSessions())
}

func TestSessionLifecycle(t *testing.T) {
	sc := prepared(t, "cube")
	before := OpenSessions()

	s, err := Open(sc.Mesh, Options{})
	require.NoError(t, err)
	assert.Equal(t, before+1, OpenSessions())
	assert.Equal(t, "cube", s.Name())
	assert.Equal(t, 6*8*8*8, s.NumTets())
	assert.Equal(t, 1.0, s.ImportScale())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, before, OpenSessions())
	_, err = s.Mesh()
	assert.True(t, errors.Is(err, ErrSessionClosed))
	_, err = s.Tets()
	assert.True(t, errors.Is(err, ErrSessionClosed))
	assert.Equal(t, 0, s.NumTets())
	assert.PanicsWithValue(t, ErrSessionClosed, func() { s.TetVertices(0) })

	boom := errors.New("boom")
	err = WithSession(sc.Mesh, Options{}, func(s *Session) error {
		assert.Equal(t, before+1, OpenSessions())
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, before, OpenSessions())
}

func TestPartitionCoverage(t *testing.T) {
	m := mesh.NewCubeTetMesh(4, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 0)
	tets := roi.NewMeshTets(m, 1)
	n := tets.NumTets()

	// Overlapping ROIs and an empty one
	a := &roi.Assignment{
		Names: []string{"a", "b", "c"},
		Elements: map[string][]int{
			"a": {0, 1, 2, 3, 10},
			"b": {2, 3, 4, 50},
			"c": {},
		},
	}
	p := Partition(tets, a)
	require.Len(t, p.Entities, 4)
	assert.Equal(t, DefaultEntityName, p.Entities[0].Name)
	assert.Equal(t, DefaultPhysicalTag, p.Entities[0].PhysicalTag)
	for i, name := range a.Names {
		assert.Equal(t, name, p.Entities[i+1].Name)
		assert.Equal(t, DefaultPhysicalTag+i+1, p.Entities[i+1].PhysicalTag)
	}

	seen := make(map[int]int)
	for _, e := range p.Entities {
		for _, elem := range e.Elements {
			seen[elem]++
		}
	}
	assert.Len(t, seen, n)
	for _, elem := range p.Entities[0].Elements {
		assert.Equal(t, 1, seen[elem], "default element %d also in an ROI", elem)
	}
	assert.Equal(t, 2, seen[2])
	assert.Equal(t, n-7, len(p.Entities[0].Elements))
	assert.Equal(t, n+2, p.NumElements())
}

func readEntities(t *testing.T, path string) map[string]int {
	m, err := readers.ReadMeshFile(path)
	require.NoError(t, err)
	counts := make(map[string]int)
	for _, g := range m.ElementGroups {
		counts[g.Name] = len(g.Elements)
	}
	return counts
}

func TestTagMeshEntitiesCube(t *testing.T) {
	sc := prepared(t, "cube")
	out := filepath.Join(t.TempDir(), sc.Output)

	var log strings.Builder
	res, err := TagMeshEntities(sc.Mesh, sc.Boundaries, sc.Labels, Config{
		Output:  out,
		Verbose: true,
		Logf:    func(f string, args ...interface{}) { fmt.Fprintf(&log, f, args...) },
	})
	require.NoError(t, err)
	assert.Equal(t, out, res.Output)
	assert.Equal(t, 0, res.Untagged)
	assert.Equal(t, []int{res.NumTets / 2, res.NumTets / 2}, res.Assignment.Counts())
	assert.Contains(t, log.String(), "Found: 2 ROIs")
	assert.Contains(t, log.String(), "boundary 1:")

	counts := readEntities(t, out)
	assert.Equal(t, 0, counts[DefaultEntityName])
	assert.Equal(t, res.NumTets/2, counts["roi1"])
	assert.Equal(t, res.NumTets/2, counts["roi2"])
}

func TestTagMeshEntitiesOverlap(t *testing.T) {
	sc := prepared(t, "cube-overlap")
	out := filepath.Join(t.TempDir(), sc.Output)

	res, err := TagMeshEntities(sc.Mesh, sc.Boundaries, sc.Labels, Config{Output: out})
	require.NoError(t, err)
	a := res.Assignment
	assert.Equal(t, a.Elements["roi1"], a.Elements["roi2"])
	assert.Equal(t, res.NumTets/2, res.Untagged)

	counts := readEntities(t, out)
	assert.Equal(t, res.Untagged, counts[DefaultEntityName])
	assert.Equal(t, res.NumTets/2, counts["roi1"])
	assert.Equal(t, res.NumTets/2, counts["roi2"])
}

func TestTagMeshEntitiesSpineGroups(t *testing.T) {
	sc := prepared(t, "spine")
	out := filepath.Join(t.TempDir(), "spine.roi.yaml")

	res, err := TagMeshEntities(sc.Mesh, sc.Boundaries, sc.Labels, Config{Output: out, Mode: ModeGroups})
	require.NoError(t, err)
	a := res.Assignment
	require.NotEmpty(t, a.Elements["ER"])
	require.NotEmpty(t, a.Elements["PSD"])

	g, err := LoadROIGroups(out)
	require.NoError(t, err)
	assert.Equal(t, res.NumTets, g.NumTets)
	assert.Equal(t, sc.Mesh, g.Mesh)

	er, err := boundary.Load(sc.Boundaries[0])
	require.NoError(t, err)
	err = WithSession(sc.Mesh, Options{}, func(s *Session) error {
		for _, name := range a.Names {
			got, err := s.ROIData(g, name)
			require.NoError(t, err)
			assert.Equal(t, a.Elements[name], got, name)
		}
		for _, tet := range a.Elements["PSD"] {
			v := s.TetVertices(tet)
			c := r3.Scale(0.25, r3.Add(r3.Add(v[0], v[1]), r3.Add(v[2], v[3])))
			assert.False(t, er.Contains(c), "PSD tet %d inside ER", tet)
		}
		_, err := s.ROIData(g, "Cyto")
		assert.Error(t, err)
		return nil
	})
	require.NoError(t, err)
}

func TestTagMeshEntitiesReleasesSession(t *testing.T) {
	sc := prepared(t, "cube")
	dir := t.TempDir()
	before := OpenSessions()

	open := filepath.Join(dir, "open.stl")
	cube, err := boundary.GenerateRect("cube", r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	f, err := os.Create(open)
	require.NoError(t, err)
	require.NoError(t, model3d.WriteSTL(f, cube.Triangles()[1:]))
	require.NoError(t, f.Close())

	tests := []struct {
		name       string
		boundaries []string
		labels     []roi.Label
		want       error
	}{
		{"missing boundary", []string{sc.Boundaries[0], filepath.Join(dir, "none.stl")}, sc.Labels, os.ErrNotExist},
		{"open boundary", []string{sc.Boundaries[0], open}, sc.Labels, boundary.ErrNotWatertight},
		{"short signature", sc.Boundaries, labels(t, "roi1=-"), roi.ErrSignatureLength},
		{"duplicate name", sc.Boundaries, labels(t, "a=-*", "a=*-"), roi.ErrDuplicateROI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := TagMeshEntities(sc.Mesh, tt.boundaries, tt.labels, Config{Output: filepath.Join(dir, "out.msh")})
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			}
			assert.Equal(t, before, OpenSessions())
		})
	}

	_, err = TagMeshEntities(sc.Mesh, sc.Boundaries, sc.Labels, Config{Mode: "xml"})
	assert.Error(t, err)
	_, err = TagMeshEntities(filepath.Join(dir, "none.msh"), sc.Boundaries, sc.Labels, Config{})
	assert.True(t, errors.Is(err, ErrMeshNotFound))
}

func TestAbaqusImportScale(t *testing.T) {
	sc := prepared(t, "cube")
	dir := t.TempDir()

	// The cube mesh again, in micrometers
	m := mesh.NewCubeTetMesh(4, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 0)
	var sb strings.Builder
	sb.WriteString("*NODE\n")
	for i, v := range m.Vertices {
		fmt.Fprintf(&sb, "%d, %g, %g, %g\n", m.NodeIDs[i], v.X, v.Y, v.Z)
	}
	sb.WriteString("*ELEMENT, TYPE=C3D4, ELSET=tets\n")
	for e, verts := range m.EtoV {
		fmt.Fprintf(&sb, "%d, %d, %d, %d, %d\n", m.ElementIDs[e],
			m.NodeIDs[verts[0]], m.NodeIDs[verts[1]], m.NodeIDs[verts[2]], m.NodeIDs[verts[3]])
	}
	inp := filepath.Join(dir, "tets.inp")
	require.NoError(t, os.WriteFile(inp, []byte(sb.String()), 0644))

	s, err := Open(inp, Options{ImportScale: 1e-6})
	require.NoError(t, err)
	msh, err := s.Mesh()
	require.NoError(t, err)
	// Stored in meters
	assert.InDelta(t, 1e-6, msh.BoundingBox(len(msh.EtoV)-1).Max.X, 1e-12)
	require.NoError(t, s.Close())

	res, err := TagMeshEntities(inp, sc.Boundaries, sc.Labels, Config{
		ImportScale: 1e-6,
		Output:      filepath.Join(dir, "tets.msh"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{res.NumTets / 2, res.NumTets / 2}, res.Assignment.Counts())
}

func TestLookupScenario(t *testing.T) {
	for _, name := range ScenarioNames {
		sc, err := LookupScenario(name, "meshes")
		require.NoError(t, err)
		assert.Len(t, sc.Boundaries, 2)
		assert.NoError(t, roi.ValidateLabels(sc.Labels, len(sc.Boundaries)))
		assert.Equal(t, "mod_"+name+".msh", sc.Output)
	}
	_, err := LookupScenario("torus", "meshes")
	assert.Error(t, err)
}

func TestScenarioInputs(t *testing.T) {
	dir := t.TempDir()
	sc, err := LookupScenario("spine", dir)
	require.NoError(t, err)

	err = sc.Check()
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Len(t, sc.Missing(), 3)

	// Only the mesh is there: never fill in the boundaries around it
	m := mesh.NewCubeTetMesh(2, r3.Vec{}, r3.Vec{X: 1000, Y: 1000, Z: 1000}, 1)
	require.NoError(t, os.MkdirAll(filepath.Dir(sc.Mesh), 0755))
	require.NoError(t, readers.WriteGmsh22File(sc.Mesh, &readers.Partition{Mesh: m,
		Entities: []readers.PartitionEntity{{Tag: 1, PhysicalTag: 1, Name: "domain", Elements: m.Tets()}}}))

	err = sc.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Contains(t, err.Error(), sc.Boundaries[0])

	err = sc.Generate()
	assert.True(t, errors.Is(err, ErrPartialInputs), "got %v", err)
	for _, path := range sc.Boundaries {
		assert.NoFileExists(t, path)
	}

	// Tagging straight from the files fails on the absent boundary
	_, err = TagMeshEntities(sc.Mesh, sc.Boundaries, sc.Labels, Config{Output: filepath.Join(dir, "out.msh")})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// A full set of inputs is left alone
	cube := prepared(t, "cube")
	info, err := os.Stat(cube.Mesh)
	require.NoError(t, err)
	require.NoError(t, cube.Generate())
	again, err := os.Stat(cube.Mesh)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())

	// cube-overlap shares the cube directory
	overlap, err := LookupScenario("cube-overlap", filepath.Dir(filepath.Dir(cube.Mesh)))
	require.NoError(t, err)
	assert.NoError(t, overlap.Check())
}
