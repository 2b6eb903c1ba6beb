package roi

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetroi/spatial"
)

// Set is a set of tet numbers
type Set map[int]struct{}

// Has reports membership
func (s Set) Has(t int) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members in increasing order
func (s Set) Sorted() []int {
	ids := make([]int, 0, len(s))
	for t := range s {
		ids = append(ids, t)
	}
	sort.Ints(ids)
	return ids
}

// Options control the membership stage
type Options struct {
	// NoPrefilter classifies every tet centroid instead of only those whose
	// box meets the surface bounds. The result is the same, only slower.
	NoPrefilter bool
	// Logf receives progress lines, nil is silent
	Logf func(format string, args ...interface{})
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Assignment maps ROI names to sorted tet numbers. Names keeps label order.
type Assignment struct {
	Names    []string
	Elements map[string][]int
}

// Counts returns the tet count of each ROI in label order
func (a *Assignment) Counts() []int {
	c := make([]int, len(a.Names))
	for i, name := range a.Names {
		c[i] = len(a.Elements[name])
	}
	return c
}

// Untagged returns the tets, out of n, that are in no ROI
func (a *Assignment) Untagged(n int) []int {
	tagged := make([]bool, n)
	for _, name := range a.Names {
		for _, t := range a.Elements[name] {
			tagged[t] = true
		}
	}
	var out []int
	for t := 0; t < n; t++ {
		if !tagged[t] {
			out = append(out, t)
		}
	}
	return out
}

// BuildIndex indexes the bounding box of every tet in unit scale
func BuildIndex(src MeshSource) (*spatial.Index, error) {
	scale := src.ImportScale()
	entries := make([]spatial.Entry, src.NumTets())
	for t := range entries {
		entries[t] = spatial.Entry{ID: t, Box: spatial.Scale(bounds(src.TetVertices(t)), scale)}
	}
	return spatial.Build(entries)
}

// Memberships computes, for every surface in order, the set of tets whose
// centroid is inside or on it
func Memberships(src MeshSource, idx *spatial.Index, surfaces []Classifier, opts Options) ([]Set, error) {
	scale := src.ImportScale()
	n := src.NumTets()
	sets := make([]Set, len(surfaces))
	for b, surf := range surfaces {
		var candidates []int
		if opts.NoPrefilter || idx == nil {
			candidates = make([]int, n)
			for t := range candidates {
				candidates[t] = t
			}
		} else {
			var err error
			if candidates, err = idx.Query(surf.Bounds()); err != nil {
				return nil, fmt.Errorf("boundary %d: %w", b, err)
			}
		}

		points := make([]r3.Vec, len(candidates))
		for i, t := range candidates {
			points[i] = r3.Scale(1/scale, centroid(src.TetVertices(t)))
		}
		dist := surf.Classify(points)

		set := make(Set)
		for i, d := range dist {
			if d >= 0 {
				set[candidates[i]] = struct{}{}
			}
		}
		sets[b] = set
		opts.logf("boundary %d: %d candidates, %d inside\n", b, len(candidates), len(set))
	}
	return sets, nil
}

// Resolve combines the membership sets by each label's signature. A '-'
// keeps only tets inside that surface, a '+' removes them and a '*' leaves
// the candidates alone.
func Resolve(n int, memberships []Set, labels []Label) *Assignment {
	a := &Assignment{
		Names:    make([]string, 0, len(labels)),
		Elements: make(map[string][]int, len(labels)),
	}
	keep := make([]bool, n)
	for _, l := range labels {
		for t := range keep {
			keep[t] = true
		}
		for b, s := range l.Signature {
			switch s {
			case Inside:
				for t := range keep {
					if keep[t] && !memberships[b].Has(t) {
						keep[t] = false
					}
				}
			case Outside:
				for t := range memberships[b] {
					keep[t] = false
				}
			}
		}
		elems := []int{}
		for t, k := range keep {
			if k {
				elems = append(elems, t)
			}
		}
		a.Names = append(a.Names, l.Name)
		a.Elements[l.Name] = elems
	}
	return a
}

// Tag validates the labels against the surfaces and runs both stages
func Tag(src MeshSource, surfaces []Classifier, labels []Label, opts Options) (*Assignment, error) {
	if err := ValidateLabels(labels, len(surfaces)); err != nil {
		return nil, err
	}
	var (
		idx *spatial.Index
		err error
	)
	if !opts.NoPrefilter {
		if idx, err = BuildIndex(src); err != nil {
			return nil, fmt.Errorf("building spatial index: %w", err)
		}
	}
	sets, err := Memberships(src, idx, surfaces, opts)
	if err != nil {
		return nil, err
	}
	return Resolve(src.NumTets(), sets, labels), nil
}
