package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tetroi/mesh"
)

// ReadGmshAuto automatically detects the Gmsh format version and reads the file
func ReadGmshAuto(filename string) (*mesh.Mesh, error) {
	version, err := sniffGmshVersion(filename)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(version, "4."):
		return ReadGmsh4(filename)
	case strings.HasPrefix(version, "2."):
		return ReadGmsh22(filename)
	case version == "":
		return nil, fmt.Errorf("%s: could not find $MeshFormat section", filename)
	default:
		return nil, fmt.Errorf("%s: unsupported Gmsh format version: %s", filename, version)
	}
}

func sniffGmshVersion(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "$MeshFormat" {
			continue
		}
		if scanner.Scan() {
			if parts := strings.Fields(scanner.Text()); len(parts) > 0 {
				return parts[0], nil
			}
		}
		break
	}
	return "", scanner.Err()
}

// readMeshFormat reads the MeshFormat section, common to v2.2 and v4
func readMeshFormat(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}

	msh.FormatVersion = parts[0]
	fileType, _ := strconv.Atoi(parts[1])
	msh.IsBinary = fileType == 1
	msh.DataSize, _ = strconv.Atoi(parts[2])
	if msh.IsBinary {
		return fmt.Errorf("binary MSH %s files are not supported, re-export as ASCII", msh.FormatVersion)
	}

	return skipSection(scanner, "$EndMeshFormat")
}

// readPhysicalNames reads physical group names (common to v2.2 and v4)
func readPhysicalNames(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numNames, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid PhysicalNames count: %w", err)
	}

	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid physical name line: %s", scanner.Text())
		}
		dimension, _ := strconv.Atoi(parts[0])
		tag, _ := strconv.Atoi(parts[1])

		// Names are quoted and may contain spaces
		name := strings.Trim(strings.Join(parts[2:], " "), "\"")

		msh.ElementGroups[tag] = &mesh.ElementGroup{
			Dimension: dimension,
			Tag:       tag,
			Name:      name,
			Elements:  []int{},
		}
	}

	return skipSection(scanner, "$EndPhysicalNames")
}

// skipSection skips a section until the end marker
func skipSection(scanner *bufio.Scanner, endMarker string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF while looking for %s", endMarker)
}
