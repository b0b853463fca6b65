// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Topology identifies which primitive layout a rendering handle draws.
type Topology int

const (
	// TopologyPoints draws every vertex as a point, used when a block carries no index buffers.
	TopologyPoints Topology = iota

	// TopologyTriangles draws the block's triangle index buffer.
	TopologyTriangles

	// TopologyTetrahedrons draws the four faces of every tetrahedron in the block's tetrahedron index buffer.
	TopologyTetrahedrons
)

// String returns the name used for labels and rendering handle names.
func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "surface"
	case TopologyTetrahedrons:
		return "volume"
	default:
		return "points"
	}
}

// TetrahedronFaces expands a tetrahedron index buffer into a triangle index buffer holding
// the four faces of every tetrahedron. Trailing indices that do not form a full tetrahedron
// are ignored.
//
// Parameters:
//   - tetrahedrons: tetrahedron indices, 4 per cell
//
// Returns:
//   - []uint32: triangle indices, 12 per cell
func TetrahedronFaces(tetrahedrons []uint32) []uint32 {
	cells := len(tetrahedrons) / 4
	faces := make([]uint32, 0, cells*12)
	for c := 0; c < cells; c++ {
		a, b, cc, d := tetrahedrons[c*4], tetrahedrons[c*4+1], tetrahedrons[c*4+2], tetrahedrons[c*4+3]
		faces = append(faces,
			a, b, cc,
			a, d, b,
			a, cc, d,
			b, d, cc,
		)
	}
	return faces
}
