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

	"github.com/spf13/cobra"

	"github.com/notargets/tetroi/host"
)

// GroupCount is one line of a group store summary
type GroupCount struct {
	Name  string
	Count int
}

// GroupsCmd represents the groups command
var GroupsCmd = &cobra.Command{
	Use:   "groups file.roi.yaml",
	Short: "Summarize a stored set of ROI tet groups",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := RunGroups(args[0]); err != nil {
			log.Fatalf("groups: %v", err)
		}
	},
}

// RunGroups prints the tet count of every group, then the tets in no group
// and the total
func RunGroups(path string) ([]GroupCount, error) {
	g, err := host.LoadROIGroups(path)
	if err != nil {
		return nil, err
	}
	var (
		counts = make([]GroupCount, 0, len(g.ROIs)+2)
		tagged = make(map[int]bool)
	)
	for _, r := range g.ROIs {
		counts = append(counts, GroupCount{Name: r.Name, Count: len(r.Elements)})
		for _, id := range r.Elements {
			tagged[id] = true
		}
	}
	counts = append(counts,
		GroupCount{Name: "untagged", Count: g.NumTets - len(tagged)},
		GroupCount{Name: "all", Count: g.NumTets},
	)

	fmt.Printf("Mesh %s, import scale %g\n", g.Mesh, g.ImportScale)
	for _, c := range counts {
		fmt.Printf("%12s tets: %d\n", c.Name, c.Count)
	}
	return counts, nil
}

func init() {
	rootCmd.AddCommand(GroupsCmd)
}
