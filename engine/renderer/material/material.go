package material

import (
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
)

// material is the implementation of the Material interface.
type material struct {
	name        string
	baseColor   [4]float32
	pipelineKey string
	shader      shader.Shader
	pipeline    pipeline.Pipeline
	version     int
}

// Material defines the interface for a render material produced by compiling a rendering
// handle's color graph. It pairs the compiled shader with the surface properties the
// renderer needs at draw time.
//
// A Material is immutable once built; recompiling a handle produces a new Material with a
// higher version and releases the previous one.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the RGBA default color the color graph starts from.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader retrieves the compiled shader of this material.
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if none was set
	Shader() shader.Shader

	// Pipeline retrieves the render pipeline the material draws with.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if none was set
	Pipeline() pipeline.Pipeline

	// Version returns how many times the owning handle had compiled when this material was built.
	//
	// Returns:
	//   - int: the compile version, starting at 1
	Version() int

	// Release releases the GPU resources held by the material's pipeline and shader.
	Release()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) Shader() shader.Shader {
	return m.shader
}

func (m *material) Pipeline() pipeline.Pipeline {
	return m.pipeline
}

func (m *material) Version() int {
	return m.version
}

func (m *material) Release() {
	if m.pipeline != nil {
		m.pipeline.Release()
	}
	if m.shader != nil {
		m.shader.Release()
	}
}
