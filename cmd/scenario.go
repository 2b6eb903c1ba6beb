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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/tetroi/host"
)

const scenarioUsage = "<cube|cube-overlap|spine> [--interactive]"

type ScenarioRun struct {
	Name        string
	Dir         string
	OutDir      string
	Interactive bool
	Generate    bool
	Verbose     bool
}

// ScenarioCmd represents the scenario command
var ScenarioCmd = &cobra.Command{
	Use:   "scenario " + scenarioUsage,
	Short: "Run one of the example tagging scenarios",
	Long: `Runs an example scenario:

  cube          two halves of a cube, roi1=-* roi2=*-
  cube-overlap  the same boundary twice, both ROIs get the same tets
  spine         ER=-* and PSD=+- over ER.stl and PSD.stl

Input files are read from --dir. A missing input is an error; with
--generate an empty scenario directory is first filled with synthetic unit
cube geometry. The result is written to mod_<scenario>.msh.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: %s %s", cmd.Root().Name()+" scenario", scenarioUsage)
		}
		if _, err := host.LookupScenario(args[0], ""); err != nil {
			return fmt.Errorf("%w\nusage: %s %s", err, cmd.Root().Name()+" scenario", scenarioUsage)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		sr := &ScenarioRun{Name: args[0]}
		sr.Dir, _ = cmd.Flags().GetString("dir")
		sr.OutDir, _ = cmd.Flags().GetString("outDir")
		sr.Interactive, _ = cmd.Flags().GetBool("interactive")
		sr.Generate, _ = cmd.Flags().GetBool("generate")
		sr.Verbose = viper.GetBool("verbose")
		if _, err := RunScenario(sr); err != nil {
			log.Fatalf("scenario %s: %v", sr.Name, err)
		}
	},
}

// RunScenario checks, or generates, the scenario inputs and tags them
func RunScenario(sr *ScenarioRun) (*host.Result, error) {
	sc, err := host.LookupScenario(sr.Name, sr.Dir)
	if err != nil {
		return nil, err
	}
	if sr.Generate {
		if err = sc.Generate(); err != nil {
			return nil, err
		}
	}
	if err = sc.Check(); err != nil {
		return nil, err
	}
	res, err := host.TagMeshEntities(sc.Mesh, sc.Boundaries, sc.Labels, host.Config{
		Output:  filepath.Join(sr.OutDir, sc.Output),
		Verbose: sr.Verbose,
		Logf:    func(format string, args ...interface{}) { fmt.Printf(format, args...) },
	})
	if err != nil {
		return nil, err
	}
	if sr.Interactive {
		if err = host.Summary(res.Output); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func init() {
	rootCmd.AddCommand(ScenarioCmd)
	ScenarioCmd.Flags().Bool("interactive", false, "print the partitioned mesh after tagging")
	ScenarioCmd.Flags().Bool("generate", false, "write synthetic inputs when the scenario directory has none of them")
	ScenarioCmd.Flags().String("dir", "meshes", "directory holding the cube/ and spine/ scenario inputs")
	ScenarioCmd.Flags().String("outDir", ".", "directory for the tagged mesh")
}
