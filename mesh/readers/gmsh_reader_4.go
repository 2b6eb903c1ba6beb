package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tetroi/mesh"
)

// entityTable holds entities of every dimension, keyed by dimension then tag
type entityTable map[int]map[int]*mesh.Entity

// ReadGmsh4 reads a Gmsh MSH file format version 4.x (ASCII)
func ReadGmsh4(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	msh := mesh.NewMesh()

	entities := entityTable{0: {}, 1: {}, 2: {}, 3: {}}

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
		case "$Entities":
			err = readEntities4(scanner, msh, entities)
		case "$Nodes":
			err = readNodes4(scanner, msh)
		case "$Elements":
			err = readElements4(scanner, msh, entities)
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
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

// readEntities4 reads the Entities section (new in v4)
func readEntities4(scanner *bufio.Scanner, msh *mesh.Mesh, entities entityTable) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Entities")
	}

	// numPoints numCurves numSurfaces numVolumes
	counts := strings.Fields(scanner.Text())
	if len(counts) < 4 {
		return fmt.Errorf("invalid entity counts")
	}

	for dim := 0; dim < 4; dim++ {
		num, _ := strconv.Atoi(counts[dim])
		for i := 0; i < num; i++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading entity of dimension %d", dim)
			}
			fields := strings.Fields(scanner.Text())

			// Points carry one coordinate triple, the rest a bounding box
			physStart := 7
			if dim == 0 {
				physStart = 4
			}
			if len(fields) < physStart+1 {
				return fmt.Errorf("invalid entity line: %s", scanner.Text())
			}

			tag, _ := strconv.Atoi(fields[0])
			entity := &mesh.Entity{Dimension: dim, Tag: tag}

			numPhysTags, _ := strconv.Atoi(fields[physStart])
			for j := 0; j < numPhysTags && physStart+1+j < len(fields); j++ {
				pt, _ := strconv.Atoi(fields[physStart+1+j])
				entity.PhysicalTags = append(entity.PhysicalTags, pt)
			}

			entities[dim][tag] = entity
			if dim == 3 {
				msh.Entities[tag] = entity
			}
		}
	}

	return skipSection(scanner, "$EndEntities")
}

// readNodes4 reads nodes in v4 format
func readNodes4(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	// numEntityBlocks numNodes minNodeTag maxNodeTag
	header := strings.Fields(scanner.Text())
	if len(header) < 4 {
		return fmt.Errorf("invalid Nodes header")
	}

	numEntityBlocks, _ := strconv.Atoi(header[0])

	for i := 0; i < numEntityBlocks; i++ {
		// entityDim entityTag parametric numNodesInBlock
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in node entity block %d", i)
		}

		blockHeader := strings.Fields(scanner.Text())
		if len(blockHeader) < 4 {
			return fmt.Errorf("invalid node block header")
		}
		numNodesInBlock, _ := strconv.Atoi(blockHeader[3])

		nodeTags := make([]int, numNodesInBlock)
		for j := 0; j < numNodesInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node tags")
			}
			nodeTags[j], _ = strconv.Atoi(strings.TrimSpace(scanner.Text()))
		}

		// Parametric coordinates, if any, follow x y z and are ignored
		for j := 0; j < numNodesInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node coordinates")
			}

			fields := strings.Fields(scanner.Text())
			if len(fields) < 3 {
				return fmt.Errorf("invalid node coordinate line")
			}
			coords, err := parseCoords(fields[:3])
			if err != nil {
				return fmt.Errorf("node %d: %w", nodeTags[j], err)
			}
			msh.AddNode(nodeTags[j], coords)
		}
	}

	return skipSection(scanner, "$EndNodes")
}

// readElements4 reads elements in v4 format
func readElements4(scanner *bufio.Scanner, msh *mesh.Mesh, entities entityTable) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	// numEntityBlocks numElements minElementTag maxElementTag
	header := strings.Fields(scanner.Text())
	if len(header) < 4 {
		return fmt.Errorf("invalid Elements header")
	}

	numEntityBlocks, _ := strconv.Atoi(header[0])

	for i := 0; i < numEntityBlocks; i++ {
		// entityDim entityTag elementType numElementsInBlock
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in element entity block %d", i)
		}

		blockHeader := strings.Fields(scanner.Text())
		if len(blockHeader) < 4 {
			return fmt.Errorf("invalid element block header")
		}

		entityDim, _ := strconv.Atoi(blockHeader[0])
		entityTag, _ := strconv.Atoi(blockHeader[1])
		gmshType, _ := strconv.Atoi(blockHeader[2])
		numElemsInBlock, _ := strconv.Atoi(blockHeader[3])

		elemType, ok := mesh.GmshElementTypes[gmshType]
		if !ok {
			// Skip unknown element types
			for j := 0; j < numElemsInBlock; j++ {
				scanner.Scan()
			}
			continue
		}

		var physicalTags []int
		if entity, ok := entities[entityDim][entityTag]; ok {
			physicalTags = entity.PhysicalTags
		}
		tags := []int{0, entityTag}
		if len(physicalTags) > 0 {
			tags[0] = physicalTags[0]
		}

		expectedNodes := elemType.GetNumNodes()
		for j := 0; j < numElemsInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading elements")
			}

			fields := strings.Fields(scanner.Text())
			if len(fields) < 1+expectedNodes {
				return fmt.Errorf("invalid element line: expected at least %d fields, got %d",
					1+expectedNodes, len(fields))
			}

			elemTag, _ := strconv.Atoi(fields[0])
			nodeIDs := make([]int, expectedNodes)
			for k := 0; k < expectedNodes; k++ {
				nodeIDs[k], _ = strconv.Atoi(fields[1+k])
			}

			if err := msh.AddElement(elemTag, elemType, append([]int(nil), tags...), nodeIDs); err != nil {
				return err
			}

			// AddElement only files the element under its first physical tag
			elemIdx := msh.NumElements - 1
			for _, pt := range physicalTags[min(1, len(physicalTags)):] {
				if group, ok := msh.ElementGroups[pt]; ok {
					group.Elements = append(group.Elements, elemIdx)
				}
			}
		}
	}

	return skipSection(scanner, "$EndElements")
}
