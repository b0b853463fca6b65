package material

import (
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the RGBA default color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithShader is an option builder that sets the compiled shader of the material.
//
// Parameters:
//   - s: the compiled shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shader option to a material
func WithShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.shader = s
	}
}

// WithVersion is an option builder that sets the compile version of the material.
//
// Parameters:
//   - version: the compile version
//
// Returns:
//   - MaterialBuilderOption: a function that applies the version option to a material
func WithVersion(version int) MaterialBuilderOption {
	return func(m *material) {
		m.version = version
	}
}

// WithPipeline is an option builder that sets the render pipeline of the material.
//
// Parameters:
//   - p: the render pipeline
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline option to a material
func WithPipeline(p pipeline.Pipeline) MaterialBuilderOption {
	return func(m *material) {
		m.pipeline = p
	}
}
