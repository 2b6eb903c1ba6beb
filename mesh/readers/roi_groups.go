package readers

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// ROIGroup is a named group of tetrahedra stored alongside a mesh
type ROIGroup struct {
	Name        string `json:"Name"`
	ElementType string `json:"ElementType"`
	Elements    []int  `json:"Elements"` // File element ids
}

// ROIGroups is the persisted form of a tagged mesh: the source mesh, the
// scale it was tagged with, and its named element groups in tagging order
type ROIGroups struct {
	Mesh        string     `json:"Mesh"`
	ImportScale float64    `json:"ImportScale"`
	NumTets     int        `json:"NumTets"`
	ROIs        []ROIGroup `json:"ROIs"`
}

// Get returns the element ids of the named group
func (g *ROIGroups) Get(name string) ([]int, bool) {
	for _, r := range g.ROIs {
		if r.Name == name {
			return r.Elements, true
		}
	}
	return nil, false
}

// WriteROIGroups writes the groups as YAML
func WriteROIGroups(filename string, groups *ROIGroups) error {
	data, err := yaml.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encoding ROI groups: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// ReadROIGroups reads groups written by WriteROIGroups
func ReadROIGroups(filename string) (*ROIGroups, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	groups := &ROIGroups{}
	if err = yaml.Unmarshal(data, groups); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return groups, nil
}
