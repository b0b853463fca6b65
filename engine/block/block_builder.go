package block

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-fields/engine/config"
	"github.com/Carmen-Shannon/oxy-fields/engine/profiler"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer"
)

// BlockBuilderOption is a function that configures a block during construction via NewBlock.
type BlockBuilderOption func(*blockConfig)

// WithTriangleIndices sets the triangle index buffer. A nil slice means the block has no triangles.
//
// Parameters:
//   - indices: 3 indices per triangle
//
// Returns:
//   - BlockBuilderOption: a function that applies the triangle indices option to a block
func WithTriangleIndices(indices []uint32) BlockBuilderOption {
	return func(c *blockConfig) {
		c.triangles = indices
	}
}

// WithTetrahedronIndices sets the tetrahedron index buffer. A nil slice means the block has no tetrahedrons.
//
// Parameters:
//   - indices: 4 indices per tetrahedron
//
// Returns:
//   - BlockBuilderOption: a function that applies the tetrahedron indices option to a block
func WithTetrahedronIndices(indices []uint32) BlockBuilderOption {
	return func(c *blockConfig) {
		c.tetrahedrons = indices
	}
}

// WithRenderer sets the renderer the block's handles are created with. The block does not
// release a renderer it was given. Without this option the block creates its own from the
// configured backend.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - BlockBuilderOption: a function that applies the renderer option to a block
func WithRenderer(r renderer.Renderer) BlockBuilderOption {
	return func(c *blockConfig) {
		c.renderer = r
	}
}

// WithName sets the block name. Defaults to "block".
//
// Parameters:
//   - name: the name
//
// Returns:
//   - BlockBuilderOption: a function that applies the name option to a block
func WithName(name string) BlockBuilderOption {
	return func(c *blockConfig) {
		c.name = name
	}
}

// WithProfiler records the compiles and uploads of the block and every effect layered on it.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - BlockBuilderOption: a function that applies the profiler option to a block
func WithProfiler(p *profiler.Profiler) BlockBuilderOption {
	return func(c *blockConfig) {
		c.profiler = p
	}
}

// WithCompileWorkers sets how many workers BuildMaterials uses. 0 or 1 compiles serially.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - BlockBuilderOption: a function that applies the compile workers option to a block
func WithCompileWorkers(n int) BlockBuilderOption {
	return func(c *blockConfig) {
		c.compileWorkers = n
	}
}

// WithSettings applies file-configured defaults: default color, scale, compile workers,
// geometry validation and renderer backend. Options after it override individual values.
// Settings that fail config.Settings.Validate make NewBlock return the validation error.
//
// Parameters:
//   - s: the settings
//
// Returns:
//   - BlockBuilderOption: a function that applies the settings to a block
func WithSettings(s config.Settings) BlockBuilderOption {
	return func(c *blockConfig) {
		if err := s.Validate(); err != nil {
			c.settingsErr = errors.Join(c.settingsErr, err)
			return
		}
		applySettings(c, s)
	}
}
