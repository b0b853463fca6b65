package shader

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// VertexEntryPoint is the vertex entry point of every generated material source.
	VertexEntryPoint = "vs_main"

	// FragmentEntryPoint is the fragment entry point of every generated material source.
	FragmentEntryPoint = "fs_main"
)

// shader is the implementation of the Shader interface.
// It holds the generated WGSL source together with whatever compiled artifact the
// renderer backend produced for it.
type shader struct {
	key           string
	source        string
	vertexLayouts []wgpu.VertexBufferLayout
	spirv         []byte
	module        *wgpu.ShaderModule
}

// Shader defines the interface for a generated WGSL material shader. It exposes the
// shader's unique key, source code, entry points and vertex buffer layouts, and carries
// the compiled result set by the renderer backend (SPIR-V words for the headless backend,
// a GPU shader module for the WGPU backend).
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the vertex entry point.
	//
	// Returns:
	//   - string: the vertex entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment entry point.
	//
	// Returns:
	//   - string: the fragment entry point name
	FragmentEntryPoint() string

	// VertexLayouts returns one vertex buffer layout per vertex input: the position buffer
	// at location 0 followed by one scalar buffer per published attribute, ordered by location.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// SPIRV returns the SPIR-V binary produced by the headless backend, or nil.
	//
	// Returns:
	//   - []byte: the SPIR-V binary or nil
	SPIRV() []byte

	// SetSPIRV stores the SPIR-V binary produced by a compile.
	//
	// Parameters:
	//   - spirv: the SPIR-V binary
	SetSPIRV(spirv []byte)

	// Module returns the GPU shader module created by the WGPU backend, or nil.
	//
	// Returns:
	//   - *wgpu.ShaderModule: the shader module or nil
	Module() *wgpu.ShaderModule

	// SetModule stores the GPU shader module created by a compile.
	//
	// Parameters:
	//   - module: the shader module
	SetModule(module *wgpu.ShaderModule)

	// Compiled reports whether a backend has produced a compiled artifact for this shader.
	//
	// Returns:
	//   - bool: true once SPIR-V or a module has been set
	Compiled() bool

	// Release releases the GPU shader module, if any, and drops the compiled artifacts.
	Release()
}

var _ Shader = &shader{}

// NewShader creates a new Shader for a generated WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels and lookups
//   - source: the WGSL source
//   - attributeLocations: the vertex locations (1 or more) of the published attributes the source reads
//
// Returns:
//   - Shader: a new Shader instance
func NewShader(key, source string, attributeLocations ...int) Shader {
	locs := append([]int(nil), attributeLocations...)
	sort.Ints(locs)

	layouts := make([]wgpu.VertexBufferLayout, 0, len(locs)+1)
	layouts = append(layouts, wgpu.VertexBufferLayout{
		ArrayStride: 12,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	})
	for _, loc := range locs {
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32, Offset: 0, ShaderLocation: uint32(loc)},
			},
		})
	}

	return &shader{
		key:           key,
		source:        source,
		vertexLayouts: layouts,
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return VertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return FragmentEntryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) SPIRV() []byte {
	return s.spirv
}

func (s *shader) SetSPIRV(spirv []byte) {
	s.spirv = spirv
}

func (s *shader) Module() *wgpu.ShaderModule {
	return s.module
}

func (s *shader) SetModule(module *wgpu.ShaderModule) {
	s.module = module
}

func (s *shader) Compiled() bool {
	return len(s.spirv) > 0 || s.module != nil
}

func (s *shader) Release() {
	if s.module != nil {
		s.module.Release()
		s.module = nil
	}
	s.spirv = nil
}
