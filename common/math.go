package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ValueRange returns the smallest and largest finite values of a field array.
// NaN and infinite values are skipped. An array with no finite values yields (0, 0).
//
// Parameters:
//   - values: the field values to scan
//
// Returns:
//   - float32: the minimum finite value
//   - float32: the maximum finite value
func ValueRange(values []float32) (float32, float32) {
	lo, hi := math32.Inf(1), math32.Inf(-1)
	for _, v := range values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			continue
		}
		lo = math32.Min(lo, v)
		hi = math32.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// BoundingRadius computes the radius of the origin-centered sphere enclosing every vertex
// of a flat xyz vertex buffer. Trailing values that do not form a full vertex are ignored.
//
// Parameters:
//   - vertices: flat vertex positions, 3 floats per vertex
//
// Returns:
//   - float32: the bounding radius
func BoundingRadius(vertices []float32) float32 {
	var maxSq float32
	for i := 0; i+2 < len(vertices); i += 3 {
		x, y, z := vertices[i], vertices[i+1], vertices[i+2]
		maxSq = math32.Max(maxSq, x*x+y*y+z*z)
	}
	return math32.Sqrt(maxSq)
}
