package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/google/uuid"
)

var (
	// ErrShaderNotCompiled is returned when a pipeline is created for a shader no backend has compiled.
	ErrShaderNotCompiled = errors.New("shader not compiled")

	// ErrAttributeConflict is returned when a key is published for a component other than the one that holds it.
	ErrAttributeConflict = errors.New("attribute key held by another component")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	compiler             ShaderCompiler
	device               *wgpu.Device
	forceFallbackAdapter bool
}

// Renderer defines the interface for the GPU side of rendering handles.
//
// The Renderer creates the buffers a handle draws from, publishes field components as
// per-vertex buffers, writes uniform data and compiles material shaders. It implements a
// backend which allows for multiple backend API implementations to exist; the headless
// backend needs no device and is what tests and offline validation run against.
type Renderer interface {
	// BackendType returns the backend this renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU, or nil for point geometry
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitUniformBuffer creates a uniform buffer and stores it on the provider at binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - binding: the binding index
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitUniformBuffer(provider bind_group_provider.BindGroupProvider, binding int, size uint64) error

	// InitAttributeBuffer uploads a field component as a per-vertex buffer and records it on the
	// provider at the next free vertex location. Publishing a key the provider already holds for
	// the same source returns the existing attribute without uploading anything.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to publish on
	//   - key: the component key
	//   - source: the id of the component the data belongs to
	//   - data: the raw component bytes
	//
	// Returns:
	//   - bind_group_provider.Attribute: the published attribute
	//   - bool: true if data was uploaded, false if the key was already published
	//   - error: ErrAttributeConflict if the key is held by another source, or an error if buffer creation fails
	InitAttributeBuffer(provider bind_group_provider.BindGroupProvider, key string, source uuid.UUID, data []byte) (bind_group_provider.Attribute, bool, error)

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CompileShader compiles a material shader with the backend and stores the compiled
	// artifact on the shader.
	//
	// Parameters:
	//   - s: the shader to compile
	//
	// Returns:
	//   - error: an error if the source does not compile
	CompileShader(s shader.Shader) error

	// CreatePipeline creates the render pipeline of a material from its compiled shader and
	// render state. Backends without a device only check that the shader was compiled.
	//
	// Parameters:
	//   - p: the pipeline to create
	//
	// Returns:
	//   - error: an error if the shader is missing or uncompiled, or pipeline creation fails
	CreatePipeline(p pipeline.Pipeline) error

	// Release releases the backend's device resources. Buffers created through the renderer
	// must be released by their providers first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if the backend could not be initialized
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		compiler:    naga.Compile,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend(r.compiler)
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(r.device, r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s renderer backend: %w", backendType, err)
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("unsupported renderer backend %s", backendType)
	}

	common.Logger().Info("renderer created", "backend", backendType.String())
	return r, nil
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitUniformBuffer(provider bind_group_provider.BindGroupProvider, binding int, size uint64) error {
	return r.backend.InitUniformBuffer(provider, binding, size)
}

func (r *renderer) InitAttributeBuffer(provider bind_group_provider.BindGroupProvider, key string, source uuid.UUID, data []byte) (bind_group_provider.Attribute, bool, error) {
	if a, ok := provider.Attribute(key); ok {
		if a.Source != source {
			return a, false, fmt.Errorf("%w: %q on %s", ErrAttributeConflict, key, provider.Label())
		}
		return a, false, nil
	}

	buf, err := r.backend.CreateVertexBuffer(provider.Label()+" "+key, data)
	if err != nil {
		return bind_group_provider.Attribute{}, false, fmt.Errorf("failed to publish %q on %s: %w", key, provider.Label(), err)
	}
	a := bind_group_provider.Attribute{
		Key:      key,
		Source:   source,
		Location: provider.NextLocation(),
		Size:     uint64(len(data)),
		Buffer:   buf,
		Owned:    true,
	}
	provider.SetAttribute(a)
	return a, true, nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) CompileShader(s shader.Shader) error {
	if err := r.backend.CompileShader(s); err != nil {
		return fmt.Errorf("failed to compile shader %q: %w", s.Key(), err)
	}
	return nil
}

func (r *renderer) CreatePipeline(p pipeline.Pipeline) error {
	if p.Shader() == nil || !p.Shader().Compiled() {
		return fmt.Errorf("%w: %q", ErrShaderNotCompiled, p.PipelineKey())
	}
	if err := r.backend.CreatePipeline(p); err != nil {
		return fmt.Errorf("failed to create pipeline %q: %w", p.PipelineKey(), err)
	}
	return nil
}

func (r *renderer) Release() {
	r.backend.Release()
}
