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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetroi/boundary"
)

type SurfaceRun struct {
	Kind   string
	Center []float64
	Size   []float64
	Radius float64
	Height float64
	Round  float64
	Cells  int
	Output string
}

// SurfaceCmd represents the surface command
var SurfaceCmd = &cobra.Command{
	Use:   "surface box|sphere|cylinder",
	Short: "Write a closed STL boundary surface",
	Long: `Writes a closed STL surface for use as an ROI boundary.

  tetroi surface box --center 0.5,0.5,0.5 --size 1,1,0.5 -o slab.stl
  tetroi surface sphere --center 0,0,0 --radius 0.2 -o ER.stl
  tetroi surface cylinder --height 0.3 --radius 0.35 -o PSD.stl

A sharp box is written exactly with 12 triangles, rounded boxes, spheres and
z aligned cylinders are tessellated with marching cubes.`,
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"box", "sphere", "cylinder"},
	Run: func(cmd *cobra.Command, args []string) {
		sr := &SurfaceRun{Kind: args[0]}
		sr.Center, _ = cmd.Flags().GetFloat64Slice("center")
		sr.Size, _ = cmd.Flags().GetFloat64Slice("size")
		sr.Radius, _ = cmd.Flags().GetFloat64("radius")
		sr.Height, _ = cmd.Flags().GetFloat64("height")
		sr.Round, _ = cmd.Flags().GetFloat64("round")
		sr.Cells, _ = cmd.Flags().GetInt("cells")
		sr.Output, _ = cmd.Flags().GetString("output")
		if _, err := RunSurface(sr); err != nil {
			log.Fatalf("surface: %v", err)
		}
	},
}

func toVec(name string, v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("--%s needs 3 values, got %d", name, len(v))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// RunSurface generates the surface and writes it
func RunSurface(sr *SurfaceRun) (s *boundary.Surface, err error) {
	var center, size r3.Vec
	if center, err = toVec("center", sr.Center); err != nil {
		return
	}
	if sr.Output == "" {
		sr.Output = sr.Kind + ".stl"
	}
	name := strings.TrimSuffix(filepath.Base(sr.Output), filepath.Ext(sr.Output))
	switch sr.Kind {
	case "box":
		if size, err = toVec("size", sr.Size); err != nil {
			return
		}
		if sr.Round == 0 {
			half := r3.Scale(0.5, size)
			s, err = boundary.GenerateRect(name, r3.Sub(center, half), r3.Add(center, half))
		} else {
			s, err = boundary.GenerateBox(name, center, size, sr.Round, sr.Cells)
		}
	case "sphere":
		s, err = boundary.GenerateSphere(name, center, sr.Radius, sr.Cells)
	case "cylinder":
		s, err = boundary.GenerateCylinder(name, center, sr.Height, sr.Radius, sr.Cells)
	default:
		err = fmt.Errorf("unknown surface %q, want box, sphere or cylinder", sr.Kind)
	}
	if err != nil {
		return nil, err
	}
	if err = boundary.WriteSTL(sr.Output, s); err != nil {
		return nil, err
	}
	b := s.Bounds()
	fmt.Printf("Wrote %s: %d triangles, bounds %v - %v\n", sr.Output, s.NumTriangles(), b.Min, b.Max)
	return s, nil
}

func init() {
	rootCmd.AddCommand(SurfaceCmd)
	SurfaceCmd.Flags().Float64Slice("center", []float64{0, 0, 0}, "center x,y,z")
	SurfaceCmd.Flags().Float64Slice("size", []float64{1, 1, 1}, "box size x,y,z")
	SurfaceCmd.Flags().Float64("radius", 0.5, "sphere or cylinder radius")
	SurfaceCmd.Flags().Float64("height", 1, "cylinder height along z")
	SurfaceCmd.Flags().Float64("round", 0, "box edge rounding radius")
	SurfaceCmd.Flags().Int("cells", boundary.DefaultCells, "marching cubes cells along the longest axis")
	SurfaceCmd.Flags().StringP("output", "o", "", "output STL file (default <kind>.stl)")
}
