package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/tetroi/mesh"
)

// ReadMeshFile reads a mesh file based on extension. Abaqus files are read
// without rescaling, use ReadAbaqus directly to apply an import scale.
func ReadMeshFile(filename string) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".msh":
		return ReadGmshAuto(filename)
	case ".inp":
		return ReadAbaqus(filename, 1.0)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
