/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/tetroi/InputParameters"
	"github.com/notargets/tetroi/host"
	"github.com/notargets/tetroi/roi"
)

type TagRun struct {
	MeshFile    string
	Boundaries  []string
	ROIs        []string
	ImportScale float64
	Output      string
	Mode        string
	ParamFile   string
	Verbose     bool
}

// TagCmd represents the tag command
var TagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag mesh tetrahedra with ROIs defined by boundary signatures",
	Long: `Tags the tetrahedra of a Gmsh (.msh) or Abaqus (.inp) mesh.

  tetroi tag -m tets.msh -b ER.stl -b PSD.stl -r ER=-* -r PSD=+-

Centroids are divided by the import scale before being compared with the
boundary surfaces. The result is written as a partitioned MSH 2.2 file with
one physical volume per ROI, or as a YAML file of named tet groups.`,
	Run: func(cmd *cobra.Command, args []string) {
		tr := &TagRun{}
		tr.MeshFile, _ = cmd.Flags().GetString("mesh")
		tr.Boundaries, _ = cmd.Flags().GetStringArray("boundary")
		tr.ROIs, _ = cmd.Flags().GetStringArray("roi")
		tr.Output, _ = cmd.Flags().GetString("output")
		tr.ParamFile, _ = cmd.Flags().GetString("inputParametersFile")
		tr.ImportScale = viper.GetFloat64("scale")
		tr.Mode = viper.GetString("mode")
		tr.Verbose = viper.GetBool("verbose")
		if _, err := RunTag(tr); err != nil {
			log.Fatalf("tag: %v", err)
		}
	},
}

// RunTag merges the parameter file, when given, under the command line
// values and tags the mesh
func RunTag(tr *TagRun) (*host.Result, error) {
	var (
		labels []roi.Label
		err    error
	)
	if tr.ParamFile != "" {
		var data []byte
		if data, err = os.ReadFile(tr.ParamFile); err != nil {
			return nil, err
		}
		ip := &InputParameters.TagParameters{}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", tr.ParamFile, err)
		}
		ip.Print()
		if tr.MeshFile == "" {
			tr.MeshFile = ip.Mesh
		}
		if len(tr.Boundaries) == 0 {
			tr.Boundaries = ip.Boundaries
		}
		if tr.ImportScale == 0 {
			tr.ImportScale = ip.ImportScale
		}
		if tr.Output == "" {
			tr.Output = ip.Output
		}
		if tr.Mode == "" {
			tr.Mode = ip.Mode
		}
		if len(tr.ROIs) == 0 {
			if labels, err = ip.Labels(); err != nil {
				return nil, err
			}
		}
	}
	if len(tr.ROIs) != 0 {
		if labels, err = roi.ParseLabels(tr.ROIs); err != nil {
			return nil, err
		}
	}
	if tr.MeshFile == "" {
		return nil, fmt.Errorf("must supply a mesh file (-m, --mesh) in .msh or .inp format")
	}

	res, err := host.TagMeshEntities(tr.MeshFile, tr.Boundaries, labels, host.Config{
		ImportScale: tr.ImportScale,
		Output:      tr.Output,
		Mode:        tr.Mode,
		Verbose:     tr.Verbose,
		Logf:        func(format string, args ...interface{}) { fmt.Printf(format, args...) },
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf("Untagged tets: %d\n", res.Untagged)
	return res, nil
}

func init() {
	rootCmd.AddCommand(TagCmd)
	TagCmd.Flags().StringP("mesh", "m", "", "mesh file to tag, Gmsh .msh (2.2 or 4.1 ASCII) or Abaqus .inp")
	TagCmd.Flags().StringArrayP("boundary", "b", nil, "closed STL boundary surface, repeat in signature order")
	TagCmd.Flags().StringArrayP("roi", "r", nil, "ROI as name=signature, e.g. PSD=+-, repeat for each ROI")
	TagCmd.Flags().Float64P("scale", "s", 0, "import scale, mesh coordinates are divided by it to match the boundaries (default 1)")
	TagCmd.Flags().StringP("output", "o", "", "output file (default <mesh name>.msh, or <mesh name>.roi.yaml in groups mode)")
	TagCmd.Flags().String("mode", "", "output mode: partition or groups (default partition)")
	TagCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with Mesh, ImportScale, Boundaries, ROIs, Output and Mode")
	_ = viper.BindPFlag("scale", TagCmd.Flags().Lookup("scale"))
	_ = viper.BindPFlag("mode", TagCmd.Flags().Lookup("mode"))
}
