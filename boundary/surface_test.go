package boundary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitCube(t *testing.T) *Surface {
	s, err := GenerateRect("cube", r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	return s
}

func TestRectClassify(t *testing.T) {
	s := unitCube(t)
	assert.Equal(t, 12, s.NumTriangles())

	tests := []struct {
		name   string
		p      r3.Vec
		inside bool
	}{
		{"center", r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, true},
		{"near face", r3.Vec{X: 0.999, Y: 0.5, Z: 0.5}, true},
		{"on face", r3.Vec{X: 1, Y: 0.5, Z: 0.5}, true},
		{"corner", r3.Vec{X: 0, Y: 0, Z: 0}, true},
		{"outside", r3.Vec{X: 1.5, Y: 0.5, Z: 0.5}, false},
		{"far", r3.Vec{X: -10, Y: 3, Z: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, s.Contains(tt.p))
		})
	}

	d := s.Classify([]r3.Vec{{X: 0.5, Y: 0.5, Z: 0.5}, {X: 2, Y: 0.5, Z: 0.5}})
	require.Len(t, d, 2)
	assert.InDelta(t, 0.5, d[0], 1e-9)
	assert.InDelta(t, -1.0, d[1], 1e-9)
}

func TestRectBounds(t *testing.T) {
	s, err := GenerateRect("slab", r3.Vec{X: -1, Y: 0, Z: 2}, r3.Vec{X: 1, Y: 0.5, Z: 3})
	require.NoError(t, err)
	b := s.Bounds()
	assert.Equal(t, r3.Vec{X: -1, Y: 0, Z: 2}, b.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 0.5, Z: 3}, b.Max)

	_, err = GenerateRect("flat", r3.Vec{}, r3.Vec{X: 1, Y: 1})
	assert.Error(t, err)
}

func TestNotWatertight(t *testing.T) {
	tris := unitCube(t).Triangles()

	_, err := NewSurface("open", tris[1:])
	assert.True(t, errors.Is(err, ErrNotWatertight))

	_, err = NewSurface("empty", nil)
	assert.True(t, errors.Is(err, ErrNotWatertight))

	// A lone triangle has three boundary edges
	_, err = NewSurface("sheet", []*model3d.Triangle{{
		model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0),
	}})
	assert.True(t, errors.Is(err, ErrNotWatertight))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.stl"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "region_1.stl")
		require.NoError(t, WriteSTL(path, unitCube(t)))
		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "region_1", s.Name)
		assert.Equal(t, 12, s.NumTriangles())
		assert.True(t, s.Contains(r3.Vec{X: 0.25, Y: 0.25, Z: 0.25}))
		assert.False(t, s.Contains(r3.Vec{X: 1.25, Y: 0.25, Z: 0.25}))
	})

	t.Run("open surface", func(t *testing.T) {
		path := filepath.Join(dir, "open.stl")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, model3d.WriteSTL(f, unitCube(t).Triangles()[2:]))
		require.NoError(t, f.Close())

		_, err = Load(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotWatertight))
		assert.Contains(t, err.Error(), path)
	})

	t.Run("garbage", func(t *testing.T) {
		path := filepath.Join(dir, "bad.stl")
		require.NoError(t, os.WriteFile(path, []byte("not an stl"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestGeneratedPrimitives(t *testing.T) {
	center := r3.Vec{X: 1, Y: 2, Z: 3}

	t.Run("sphere", func(t *testing.T) {
		s, err := GenerateSphere("ball", center, 1, 32)
		require.NoError(t, err)
		assert.True(t, s.Contains(center))
		assert.True(t, s.Contains(r3.Add(center, r3.Vec{X: 0.8})))
		assert.False(t, s.Contains(r3.Add(center, r3.Vec{X: 1.2})))
		b := s.Bounds()
		assert.InDelta(t, 0, b.Min.X, 0.1)
		assert.InDelta(t, 2, b.Max.X, 0.1)
	})

	t.Run("box", func(t *testing.T) {
		s, err := GenerateBox("box", center, r3.Vec{X: 2, Y: 1, Z: 1}, 0, 32)
		require.NoError(t, err)
		assert.True(t, s.Contains(r3.Add(center, r3.Vec{X: 0.9})))
		assert.False(t, s.Contains(r3.Add(center, r3.Vec{Y: 0.6})))
	})

	t.Run("cylinder", func(t *testing.T) {
		s, err := GenerateCylinder("rod", center, 4, 0.5, 48)
		require.NoError(t, err)
		assert.True(t, s.Contains(r3.Add(center, r3.Vec{Z: 1.8})))
		assert.False(t, s.Contains(r3.Add(center, r3.Vec{X: 0.7})))
	})

	t.Run("bad radius", func(t *testing.T) {
		_, err := GenerateSphere("none", center, -1, 16)
		assert.Error(t, err)
	})
}
