package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/tetroi/roi"
)

type ROIParameter struct {
	Name      string `yaml:"Name"`
	Signature string `yaml:"Signature"`
}

// Parameters obtained from the YAML input file
type TagParameters struct {
	Title       string         `yaml:"Title"`
	Mesh        string         `yaml:"Mesh"`
	ImportScale float64        `yaml:"ImportScale"`
	Boundaries  []string       `yaml:"Boundaries"`
	ROIs        []ROIParameter `yaml:"ROIs"` // List order sets the physical tag order
	Output      string         `yaml:"Output"`
	Mode        string         `yaml:"Mode"` // partition or groups
}

func (ip *TagParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Labels parses the ROI signatures in file order
func (ip *TagParameters) Labels() (labels []roi.Label, err error) {
	for _, r := range ip.ROIs {
		var sig roi.Signature
		if sig, err = roi.ParseSignature(r.Signature); err != nil {
			return nil, fmt.Errorf("ROI %s: %w", r.Name, err)
		}
		labels = append(labels, roi.Label{Name: r.Name, Signature: sig})
	}
	return
}

func (ip *TagParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t= Mesh\n", ip.Mesh)
	fmt.Printf("%8.5g\t\t= ImportScale\n", ip.ImportScale)
	for i, b := range ip.Boundaries {
		fmt.Printf("Boundaries[%d] = %s\n", i, b)
	}
	for _, r := range ip.ROIs {
		fmt.Printf("ROIs[%s] = %q\n", r.Name, r.Signature)
	}
	if ip.Output != "" {
		fmt.Printf("[%s]\t= Output\n", ip.Output)
	}
	if ip.Mode != "" {
		fmt.Printf("[%s]\t\t= Mode\n", ip.Mode)
	}
}
