package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetroi/boundary"
	"github.com/notargets/tetroi/mesh"
	"github.com/notargets/tetroi/mesh/readers"
	"github.com/notargets/tetroi/roi"
)

// ScenarioNames lists the example scenarios
var ScenarioNames = []string{"cube", "cube-overlap", "spine"}

var (
	ErrMissingInput  = errors.New("missing scenario input")
	ErrPartialInputs = errors.New("scenario inputs partly present")
)

// Scenario is an example tagging run: a mesh, its boundary files and labels
type Scenario struct {
	Name       string
	Mesh       string
	Boundaries []string
	Labels     []roi.Label
	Output     string

	// inputs are all files of the scenario directory, cube and
	// cube-overlap share theirs
	inputs []string
}

func mustLabels(strs ...string) []roi.Label {
	l, err := roi.ParseLabels(strs)
	if err != nil {
		panic(err)
	}
	return l
}

// LookupScenario returns the named scenario with its files under dir
func LookupScenario(name, dir string) (*Scenario, error) {
	sc := &Scenario{Name: name, Output: "mod_" + name + ".msh"}
	cube := filepath.Join(dir, "cube")
	spine := filepath.Join(dir, "spine")
	switch name {
	case "cube":
		sc.Mesh = filepath.Join(cube, "cube.msh")
		sc.Boundaries = []string{filepath.Join(cube, "region_1.stl"), filepath.Join(cube, "region_2.stl")}
		sc.Labels = mustLabels("roi1=-*", "roi2=*-")
		sc.inputs = cubeInputs(cube)
	case "cube-overlap":
		// The same region twice, both ROIs get the same tets
		sc.Mesh = filepath.Join(cube, "cube.msh")
		sc.Boundaries = []string{filepath.Join(cube, "region_2.stl"), filepath.Join(cube, "region_2.stl")}
		sc.Labels = mustLabels("roi1=-*", "roi2=*-")
		sc.inputs = cubeInputs(cube)
	case "spine":
		sc.Mesh = filepath.Join(spine, "tets.msh")
		sc.Boundaries = []string{filepath.Join(spine, "ER.stl"), filepath.Join(spine, "PSD.stl")}
		// ER: inside ER. PSD: outside ER and inside PSD.
		sc.Labels = mustLabels("ER=-*", "PSD=+-")
		sc.inputs = append([]string{sc.Mesh}, sc.Boundaries...)
	default:
		return nil, fmt.Errorf("unknown scenario %q, options are %v", name, ScenarioNames)
	}
	return sc, nil
}

func cubeInputs(dir string) []string {
	return []string{
		filepath.Join(dir, "cube.msh"),
		filepath.Join(dir, "region_1.stl"),
		filepath.Join(dir, "region_2.stl"),
	}
}

// Missing returns the scenario input files that do not exist
func (sc *Scenario) Missing() (paths []string) {
	for _, path := range sc.inputs {
		if missing(path) {
			paths = append(paths, path)
		}
	}
	return
}

// Check returns ErrMissingInput naming the first absent input file
func (sc *Scenario) Check() error {
	if m := sc.Missing(); len(m) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingInput, m[0])
	}
	return nil
}

// Generate writes the scenario inputs from synthetic unit cube geometry.
// It only writes when every input is absent and does nothing when all are
// present; a directory holding some of them is ErrPartialInputs.
func (sc *Scenario) Generate() error {
	m := sc.Missing()
	switch {
	case len(m) == 0:
		return nil
	case len(m) < len(sc.inputs):
		return fmt.Errorf("%w: %s is missing, remove the other inputs to regenerate", ErrPartialInputs, m[0])
	}
	if err := os.MkdirAll(filepath.Dir(sc.Mesh), 0755); err != nil {
		return err
	}
	for _, path := range sc.inputs {
		if filepath.Ext(path) == ".msh" {
			if err := writeScenarioMesh(sc.Name, path); err != nil {
				return err
			}
			continue
		}
		surf, err := scenarioSurface(filepath.Base(path))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err = boundary.WriteSTL(path, surf); err != nil {
			return err
		}
	}
	return nil
}

func writeScenarioMesh(name, path string) error {
	n := 8
	if name == "spine" {
		n = 12
	}
	m := mesh.NewCubeTetMesh(n, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 1)
	return readers.WriteGmsh22File(path, &readers.Partition{Mesh: m, Entities: []readers.PartitionEntity{
		{Tag: 1, PhysicalTag: 1, Name: "domain", Elements: m.Tets()},
	}})
}

func scenarioSurface(file string) (*boundary.Surface, error) {
	switch file {
	case "region_1.stl":
		return boundary.GenerateRect("region_1", r3.Vec{}, r3.Vec{X: 0.5, Y: 1, Z: 1})
	case "region_2.stl":
		return boundary.GenerateRect("region_2", r3.Vec{X: 0.5}, r3.Vec{X: 1, Y: 1, Z: 1})
	case "ER.stl":
		return boundary.GenerateSphere("ER", r3.Vec{X: 0.5, Y: 0.5, Z: 0.45}, 0.22, 32)
	case "PSD.stl":
		return boundary.GenerateCylinder("PSD", r3.Vec{X: 0.5, Y: 0.5, Z: 0.75}, 0.3, 0.35, 32)
	}
	return nil, fmt.Errorf("no synthetic surface for %s", file)
}

func missing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}

// Summary prints the partition of a written mesh, one line per entity
func Summary(path string) error {
	m, err := readers.ReadMeshFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("Model %s (%dD)\n", path, m.GetMeshDimension())
	m.PrintStatistics()
	return nil
}
