package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tetroi/mesh"
)

// ReadGmsh22 reads a Gmsh MSH file format version 2.2 (ASCII)
func ReadGmsh22(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	msh := mesh.NewMesh()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			err = readMeshFormat(scanner, msh)
		case "$PhysicalNames":
			err = readPhysicalNames(scanner, msh)
		case "$Nodes":
			err = readNodes22(scanner, msh)
		case "$Elements":
			err = readElements22(scanner, msh)
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				// Data and periodic sections carry nothing tagging needs
				err = skipSection(scanner, "$End"+line[1:])
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}

	return msh, nil
}

// readNodes22 reads nodes in v2.2 format
func readNodes22(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid Nodes count: %w", err)
	}

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}

		nodeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", parts[0], err)
		}
		coords, err := parseCoords(parts[1:4])
		if err != nil {
			return fmt.Errorf("node %d: %w", nodeID, err)
		}

		msh.AddNode(nodeID, coords)
	}

	return skipSection(scanner, "$EndNodes")
}

// readElements22 reads elements in v2.2 format
func readElements22(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElements, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid Elements count: %w", err)
	}

	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid element line: %s", scanner.Text())
		}

		elemID, _ := strconv.Atoi(parts[0])
		gmshType, _ := strconv.Atoi(parts[1])
		numTags, _ := strconv.Atoi(parts[2])

		if len(parts) < 3+numTags {
			return fmt.Errorf("element %d: invalid element tags", elemID)
		}

		tags := make([]int, numTags)
		for j := 0; j < numTags; j++ {
			tags[j], _ = strconv.Atoi(parts[3+j])
		}

		etype, ok := mesh.GmshElementTypes[gmshType]
		if !ok {
			// Skip unknown element types
			continue
		}

		expectedNodes := etype.GetNumNodes()
		nodeStart := 3 + numTags
		if len(parts) < nodeStart+expectedNodes {
			return fmt.Errorf("element %d: expected %d nodes, got %d",
				elemID, expectedNodes, len(parts)-nodeStart)
		}

		nodeIDs := make([]int, expectedNodes)
		for j := 0; j < expectedNodes; j++ {
			nodeIDs[j], _ = strconv.Atoi(parts[nodeStart+j])
		}

		if err := msh.AddElement(elemID, etype, tags, nodeIDs); err != nil {
			return err
		}
	}

	return skipSection(scanner, "$EndElements")
}

func parseCoords(fields []string) ([]float64, error) {
	coords := make([]float64, len(fields))
	for k, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", f)
		}
		coords[k] = v
	}
	return coords, nil
}
