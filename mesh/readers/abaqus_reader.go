package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tetroi/mesh"
)

var abaqusElementTypes = map[string]mesh.ElementType{
	"C3D4":  mesh.Tet,
	"C3D10": mesh.Tet10,
	"C3D8":  mesh.Hex,
	"C3D6":  mesh.Prism,
	"S3":    mesh.Triangle,
	"CPS3":  mesh.Triangle,
}

// ReadAbaqus reads the *NODE and *ELEMENT blocks of an Abaqus input file.
// Coordinates are multiplied by scale as they are read, so a file in
// micrometers read with scale 1e-6 yields coordinates in meters. Each ELSET
// becomes an element group.
func ReadAbaqus(filename string, scale float64) (*mesh.Mesh, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("import scale must be positive, got %g", scale)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	msh := mesh.NewMesh()
	msh.FormatVersion = "abaqus"

	const (
		inNone = iota
		inNodes
		inElements
	)
	var (
		state    = inNone
		etype    mesh.ElementType
		groupTag int
		lineNum  int
	)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "**") {
			continue
		}

		if strings.HasPrefix(line, "*") {
			keyword, params := parseAbaqusKeyword(line)
			switch keyword {
			case "NODE":
				state = inNodes
			case "ELEMENT":
				var ok bool
				if etype, ok = abaqusElementTypes[params["TYPE"]]; !ok {
					// Unsupported element types are skipped as a block
					state = inNone
					continue
				}
				state = inElements
				groupTag = 0
				if name, ok := params["ELSET"]; ok {
					groupTag = len(msh.ElementGroups) + 1
					msh.ElementGroups[groupTag] = &mesh.ElementGroup{
						Dimension: etype.GetDimension(),
						Tag:       groupTag,
						Name:      name,
						Elements:  []int{},
					}
				}
			default:
				state = inNone
			}
			continue
		}

		fields := splitAbaqusLine(line)
		switch state {
		case inNodes:
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: invalid node line", filename, lineNum)
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid node id: %w", filename, lineNum, err)
			}
			coords, err := parseCoords(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNum, err)
			}
			for k := range coords {
				coords[k] *= scale
			}
			msh.AddNode(id, coords)

		case inElements:
			n := etype.GetNumNodes()
			if len(fields) < 1+n {
				return nil, fmt.Errorf("%s:%d: expected %d nodes, got %d", filename, lineNum, n, len(fields)-1)
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid element id: %w", filename, lineNum, err)
			}
			nodeIDs := make([]int, n)
			for k := 0; k < n; k++ {
				if nodeIDs[k], err = strconv.Atoi(fields[1+k]); err != nil {
					return nil, fmt.Errorf("%s:%d: invalid node reference: %w", filename, lineNum, err)
				}
			}
			if err := msh.AddElement(id, etype, []int{groupTag, 0}, nodeIDs); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNum, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	return msh, nil
}

// parseAbaqusKeyword splits "*ELEMENT, TYPE=C3D4, ELSET=EB1" into the upper
// cased keyword and its parameters
func parseAbaqusKeyword(line string) (string, map[string]string) {
	parts := strings.Split(strings.TrimPrefix(line, "*"), ",")
	params := make(map[string]string)
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		if len(kv) == 2 {
			params[key] = strings.TrimSpace(kv[1])
		} else {
			params[key] = ""
		}
	}
	if t, ok := params["TYPE"]; ok {
		params["TYPE"] = strings.ToUpper(t)
	}
	return strings.ToUpper(strings.TrimSpace(parts[0])), params
}

func splitAbaqusLine(line string) []string {
	raw := strings.Split(line, ",")
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
