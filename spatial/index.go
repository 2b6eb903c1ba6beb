// Package spatial indexes the axis aligned bounding boxes of mesh elements so
// that the elements near a boundary surface can be found without a scan of
// the whole mesh.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	minChildren = 25
	maxChildren = 50

	// touchTolerance pads query boxes, relative to their extent, so boxes
	// that only share a face, edge or corner with the query are returned
	touchTolerance = 1e-9
)

// ErrInvalidBox is returned for boxes with an inverted or non finite extent
var ErrInvalidBox = errors.New("invalid box")

// Entry is an element id and its bounding box
type Entry struct {
	ID  int
	Box r3.Box
}

type item struct {
	id   int
	rect rtreego.Rect
}

func (it *item) Bounds() rtreego.Rect { return it.rect }

// Index is a static R-tree over element bounding boxes. It is built once and
// queried once per boundary surface.
type Index struct {
	tree *rtreego.Rtree
	n    int
}

// Build bulk loads an index over the entries. Several entries may share the
// same extent; all of them are kept.
func Build(entries []Entry) (*Index, error) {
	objs := make([]rtreego.Spatial, 0, len(entries))
	for _, e := range entries {
		rect, err := toRect(e.Box)
		if err != nil {
			return nil, err
		}
		objs = append(objs, &item{id: e.ID, rect: rect})
	}
	return &Index{
		tree: rtreego.NewTree(3, minChildren, maxChildren, objs...),
		n:    len(entries),
	}, nil
}

// Len returns the number of indexed entries
func (idx *Index) Len() int {
	return idx.n
}

// Query returns the sorted ids of every entry whose box intersects b,
// touching boxes included. The result may contain false positives near the
// query boundary but never misses an intersecting entry.
func (idx *Index) Query(b r3.Box) ([]int, error) {
	if idx.n == 0 {
		return nil, nil
	}
	rect, err := toRect(Pad(b, touchTolerance))
	if err != nil {
		return nil, fmt.Errorf("query box %v - %v: %w", b.Min, b.Max, err)
	}
	hits := idx.tree.SearchIntersect(rect)
	seen := make(map[int]bool, len(hits))
	ids := make([]int, 0, len(hits))
	for _, h := range hits {
		id := h.(*item).id
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// Pad grows a box on every side by tol times its largest extent, with an
// absolute floor of tol so points and flat boxes get a nonzero volume
func Pad(b r3.Box, tol float64) r3.Box {
	ext := math.Max(b.Max.X-b.Min.X, math.Max(b.Max.Y-b.Min.Y, b.Max.Z-b.Min.Z))
	d := math.Max(tol*ext, tol)
	pad := r3.Vec{X: d, Y: d, Z: d}
	return r3.Box{Min: r3.Sub(b.Min, pad), Max: r3.Add(b.Max, pad)}
}

// Intersects reports whether two closed boxes overlap or touch
func Intersects(a, b r3.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y &&
		a.Min.Z <= b.Max.Z && b.Min.Z <= a.Max.Z
}

// Scale divides the box corners by s, mapping mesh-native coordinates to the
// unit scale of the boundary surfaces
func Scale(b r3.Box, s float64) r3.Box {
	return r3.Box{Min: r3.Scale(1/s, b.Min), Max: r3.Scale(1/s, b.Max)}
}

func toRect(b r3.Box) (rtreego.Rect, error) {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return rtreego.Rect{}, fmt.Errorf("%w: non finite corner", ErrInvalidBox)
		}
	}
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return rtreego.Rect{}, fmt.Errorf("%w: min %v above max %v", ErrInvalidBox, b.Min, b.Max)
	}
	// R-tree rectangles need a positive length on every axis
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z {
		b = Pad(b, touchTolerance)
	}
	return rtreego.NewRectFromPoints(
		rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z},
		rtreego.Point{b.Max.X, b.Max.Y, b.Max.Z},
	)
}
