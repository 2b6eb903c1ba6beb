package host

import (
	"fmt"

	"github.com/notargets/tetroi/boundary"
	"github.com/notargets/tetroi/roi"
)

// Output modes
const (
	ModePartition = "partition"
	ModeGroups    = "groups"
)

// Config controls TagMeshEntities
type Config struct {
	ImportScale float64
	// Output path, "<model>.msh" or "<model>.roi.yaml" when empty
	Output string
	// Mode is ModePartition (default) or ModeGroups
	Mode string
	// Logf receives progress lines, nil is silent
	Logf func(format string, args ...interface{})
	// Verbose also passes per-boundary progress from the resolver to Logf
	Verbose bool
}

func (c Config) logf(format string, args ...interface{}) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

// Result summarizes a tagging run
type Result struct {
	Model      string
	Output     string
	NumTets    int
	Untagged   int
	Assignment *roi.Assignment
}

// TagMeshEntities opens the mesh, tags its tetrahedra against the boundary
// files and writes the result. Every boundary and label is checked before
// any classification and the mesh session is released on every return.
func TagMeshEntities(input string, boundaries []string, labels []roi.Label, cfg Config) (*Result, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModePartition
	}
	if mode != ModePartition && mode != ModeGroups {
		return nil, fmt.Errorf("unknown output mode %q, want %s or %s", mode, ModePartition, ModeGroups)
	}

	var res *Result
	err := WithSession(input, Options{ImportScale: cfg.ImportScale}, func(s *Session) error {
		m, err := s.Mesh()
		if err != nil {
			return err
		}
		cfg.logf("Model %s (%dD)\n", s.Name(), m.GetMeshDimension())

		if err = roi.ValidateLabels(labels, len(boundaries)); err != nil {
			return err
		}

		cfg.logf("Loading stl files...\n")
		surfaces := make([]roi.Classifier, len(boundaries))
		for i, path := range boundaries {
			surf, err := boundary.Load(path)
			if err != nil {
				return fmt.Errorf("boundary %d: %w", i, err)
			}
			surfaces[i] = surf
		}

		cfg.logf("Tagging ROIs...\n")
		opts := roi.Options{}
		if cfg.Verbose {
			opts.Logf = cfg.Logf
		}
		a, err := roi.Tag(s, surfaces, labels, opts)
		if err != nil {
			return err
		}
		n := s.NumTets()
		res = &Result{
			Model:      s.Name(),
			NumTets:    n,
			Untagged:   len(a.Untagged(n)),
			Assignment: a,
		}
		cfg.logf("Found: %d ROIs\n", len(a.Names))
		cfg.logf("Number of tets in original mesh: %d\n", n)
		for _, name := range a.Names {
			cfg.logf("  %s: %d tets\n", name, len(a.Elements[name]))
		}

		res.Output = cfg.Output
		switch mode {
		case ModeGroups:
			if res.Output == "" {
				res.Output = s.Name() + ".roi.yaml"
			}
			err = s.SaveROIGroups(res.Output, a)
		default:
			if res.Output == "" {
				res.Output = s.Name() + ".msh"
			}
			err = s.WritePartitioned(res.Output, a)
		}
		if err != nil {
			return err
		}
		cfg.logf("Wrote %s\n", res.Output)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
