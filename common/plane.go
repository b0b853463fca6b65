package common

import (
	"github.com/chewxy/math32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Normalize rescales the plane so that its normal has unit length.
// A zero normal is left untouched.
//
// Returns:
//   - Plane: the normalized plane
func (p Plane) Normalize() Plane {
	n := p.Normal
	length := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if length == 0 {
		return p
	}
	return Plane{
		Normal:   [3]float32{n[0] / length, n[1] / length, n[2] / length},
		Distance: p.Distance / length,
	}
}

// SignedDistance returns the signed distance from the point to the plane.
// Positive values lie on the side the normal points to.
//
// Parameters:
//   - x, y, z: the point coordinates
//
// Returns:
//   - float32: the signed distance
func (p Plane) SignedDistance(x, y, z float32) float32 {
	return p.Normal[0]*x + p.Normal[1]*y + p.Normal[2]*z + p.Distance
}
