package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects a device-less backend that compiles material shaders to
	// SPIR-V on the CPU and records buffer metadata without allocating GPU memory.
	BackendTypeHeadless
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return fmt.Sprintf("RendererBackendType(%d)", int(t))
	}
}

// ParseBackendType maps a backend name ("wgpu" or "headless", case-insensitive) to its type.
//
// Parameters:
//   - name: the backend name
//
// Returns:
//   - RendererBackendType: the backend type
//   - error: an error if the name is unknown
func ParseBackendType(name string) (RendererBackendType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wgpu":
		return BackendTypeWGPU, nil
	case "headless", "":
		return BackendTypeHeadless, nil
	default:
		return 0, fmt.Errorf("unknown renderer backend %q", name)
	}
}

// ShaderCompiler turns WGSL source into a SPIR-V binary.
type ShaderCompiler func(source string) ([]byte, error)

// RendererBackend is the top-level backend interface for the Renderer.
// Every backend creates the same set of resources; backends without a device return nil buffers.
type RendererBackend interface {
	// InitMeshBuffers creates the position and index buffers and stores them on provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitUniformBuffer creates a uniform buffer of size bytes at binding on provider.
	InitUniformBuffer(provider bind_group_provider.BindGroupProvider, binding int, size uint64) error

	// CreateVertexBuffer creates a vertex buffer holding data.
	CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// WriteBuffers writes staged uniform data.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CompileShader compiles the shader source and stores the result on the shader.
	CompileShader(s shader.Shader) error

	// CreatePipeline creates the render pipeline for a compiled material shader.
	CreatePipeline(p pipeline.Pipeline) error

	// Release releases the backend's device resources.
	Release()
}
