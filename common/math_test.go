package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestValueRange(t *testing.T) {
	tests := []struct {
		name   string
		values []float32
		lo, hi float32
	}{
		{"empty", nil, 0, 0},
		{"single", []float32{3}, 3, 3},
		{"mixed", []float32{2, -1, 5, 0}, -1, 5},
		{"skips nan and inf", []float32{math32.NaN(), 1, math32.Inf(1), 4, math32.Inf(-1)}, 1, 4},
		{"only nan", []float32{math32.NaN()}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := ValueRange(tt.values)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestBoundingRadius(t *testing.T) {
	assert.Equal(t, float32(0), BoundingRadius(nil))
	assert.InDelta(t, 5, BoundingRadius([]float32{0, 0, 0, 3, 4, 0}), 1e-6)
	// trailing partial vertex is ignored
	assert.InDelta(t, 1, BoundingRadius([]float32{1, 0, 0, 10}), 1e-6)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
	assert.Len(t, SliceToBytes([]uint32{1, 2}), 8)
}

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	m[3] = 7
	Identity(m)
	for i, v := range m {
		if i%5 == 0 {
			assert.Equal(t, float32(1), v, "diagonal %d", i)
		} else {
			assert.Equal(t, float32(0), v, "off-diagonal %d", i)
		}
	}
}

func TestPlane(t *testing.T) {
	p := Plane{Normal: [3]float32{0, 0, 2}, Distance: -2}.Normalize()
	assert.InDelta(t, 1, p.Normal[2], 1e-6)
	assert.InDelta(t, -1, p.Distance, 1e-6)
	assert.InDelta(t, 1, p.SignedDistance(0, 0, 2), 1e-6)
	assert.InDelta(t, -1, p.SignedDistance(5, 5, 0), 1e-6)

	zero := Plane{Distance: 3}
	assert.Equal(t, zero, zero.Normalize())
}

func TestTetrahedronFaces(t *testing.T) {
	faces := TetrahedronFaces([]uint32{0, 1, 2, 3, 9})
	assert.Equal(t, []uint32{0, 1, 2, 0, 3, 1, 0, 2, 3, 1, 3, 2}, faces)
	assert.Empty(t, TetrahedronFaces(nil))
}

func TestTopologyString(t *testing.T) {
	assert.Equal(t, "points", TopologyPoints.String())
	assert.Equal(t, "surface", TopologyTriangles.String())
	assert.Equal(t, "volume", TopologyTetrahedrons.String())
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "a", Coalesce("", "a", "b"))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, 2, Coalesce(0, 2))
}
