package node_mesh

import (
	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// NodeMeshBuilderOption is a function that configures a node mesh during construction.
type NodeMeshBuilderOption func(*nodeMesh)

// WithTopology sets the primitive layout the handle draws. Defaults to points.
//
// Parameters:
//   - t: the topology
//
// Returns:
//   - NodeMeshBuilderOption: a function that applies the topology option to a node mesh
func WithTopology(t common.Topology) NodeMeshBuilderOption {
	return func(n *nodeMesh) {
		n.topology = t
	}
}

// WithVertices sets the flat xyz vertex positions uploaded to the geometry buffer.
//
// Parameters:
//   - vertices: 3 floats per vertex
//
// Returns:
//   - NodeMeshBuilderOption: a function that applies the vertices option to a node mesh
func WithVertices(vertices []float32) NodeMeshBuilderOption {
	return func(n *nodeMesh) {
		n.vertices = vertices
	}
}

// WithIndices sets the triangle indices uploaded to the index buffer.
//
// Parameters:
//   - indices: 3 indices per triangle
//
// Returns:
//   - NodeMeshBuilderOption: a function that applies the indices option to a node mesh
func WithIndices(indices []uint32) NodeMeshBuilderOption {
	return func(n *nodeMesh) {
		n.indices = indices
	}
}

// WithProfiler records compiles and uploads of the handle and all of its copies.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - NodeMeshBuilderOption: a function that applies the profiler option to a node mesh
func WithProfiler(p *profiler.Profiler) NodeMeshBuilderOption {
	return func(n *nodeMesh) {
		n.profiler = p
	}
}

// WithScale sets the initial per-axis scale.
//
// Parameters:
//   - scale: the scale
//
// Returns:
//   - NodeMeshBuilderOption: a function that applies the scale option to a node mesh
func WithScale(scale mgl32.Vec3) NodeMeshBuilderOption {
	return func(n *nodeMesh) {
		n.style.Scale = scale
	}
}

// WithDefaultColor sets the initial color the color graph starts from.
//
// Parameters:
//   - c: the default color
//
// Returns:
//   - NodeMeshBuilderOption: a function that applies the default color option to a node mesh
func WithDefaultColor(c colorful.Color) NodeMeshBuilderOption {
	return func(n *nodeMesh) {
		n.style.DefaultColor = c.Clamped()
	}
}
