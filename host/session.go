// Package host adapts mesh files to the ROI resolver. A Session holds a host
// mesh for the duration of one tagging run; the partition and group adapters
// write the resulting assignment back out in host formats.
package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetroi/mesh"
	"github.com/notargets/tetroi/mesh/readers"
	"github.com/notargets/tetroi/roi"
)

var (
	ErrMeshNotFound  = errors.New("mesh file not found")
	ErrNoTetrahedra  = errors.New("mesh has no tetrahedra")
	ErrSessionClosed = errors.New("session is closed")
)

var live struct {
	sync.Mutex
	n int
}

// OpenSessions returns the number of sessions opened and not yet closed
func OpenSessions() int {
	live.Lock()
	defer live.Unlock()
	return live.n
}

// Options for opening a host mesh
type Options struct {
	// ImportScale converts mesh coordinates to boundary surface units by
	// division. Abaqus files are multiplied by it on import, as STEPS does,
	// so that the same value maps them back.
	ImportScale float64
}

// Session is an open host mesh. It implements roi.MeshSource over the
// tetrahedra in file order.
type Session struct {
	path   string
	mesh   *mesh.Mesh
	tets   *roi.MeshTets
	closed bool
}

// Open reads the mesh at path. The session must be closed by the caller,
// WithSession does that on every path.
func Open(path string, opts Options) (*Session, error) {
	scale := opts.ImportScale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, fmt.Errorf("import scale must be positive, got %g", scale)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMeshNotFound, path)
		}
		return nil, err
	}

	var (
		m   *mesh.Mesh
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".inp") {
		m, err = readers.ReadAbaqus(path, scale)
	} else {
		m, err = readers.ReadMeshFile(path)
	}
	if err != nil {
		return nil, err
	}
	tets := roi.NewMeshTets(m, scale)
	if tets.NumTets() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTetrahedra, path)
	}

	live.Lock()
	live.n++
	live.Unlock()
	return &Session{path: path, mesh: m, tets: tets}, nil
}

// WithSession opens the mesh, runs fn and closes the session whatever fn
// returns
func WithSession(path string, opts Options, fn func(s *Session) error) error {
	s, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// Close releases the session, closing twice is harmless
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.mesh, s.tets = nil, nil
	live.Lock()
	live.n--
	live.Unlock()
	return nil
}

// Path returns the mesh file the session was opened on
func (s *Session) Path() string { return s.path }

// Name returns the model name, the mesh file base name without extension
func (s *Session) Name() string {
	return strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
}

// Mesh returns the host mesh
func (s *Session) Mesh() (*mesh.Mesh, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.mesh, nil
}

// Tets returns the tetrahedra view of the mesh
func (s *Session) Tets() (*roi.MeshTets, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.tets, nil
}

func (s *Session) NumTets() int {
	if s.closed {
		return 0
	}
	return s.tets.NumTets()
}

// TetVertices panics with ErrSessionClosed once the session is closed, when
// no tet number is valid
func (s *Session) TetVertices(t int) [4]r3.Vec {
	if s.closed {
		panic(ErrSessionClosed)
	}
	return s.tets.TetVertices(t)
}

func (s *Session) ImportScale() float64 {
	if s.closed {
		return 1
	}
	return s.tets.ImportScale()
}
