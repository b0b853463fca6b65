package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type headlessRendererBackendImpl struct {
	mu       *sync.Mutex
	compiler ShaderCompiler
}

var _ RendererBackend = &headlessRendererBackendImpl{}

func newHeadlessRendererBackend(compiler ShaderCompiler) *headlessRendererBackendImpl {
	return &headlessRendererBackendImpl{
		mu:       &sync.Mutex{},
		compiler: compiler,
	}
}

func (b *headlessRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *headlessRendererBackendImpl) InitUniformBuffer(provider bind_group_provider.BindGroupProvider, binding int, size uint64) error {
	return nil
}

func (b *headlessRendererBackendImpl) CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	common.Logger().Debug("headless vertex buffer", "label", label, "bytes", len(data))
	return nil, nil
}

func (b *headlessRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	// no device memory to write into
}

func (b *headlessRendererBackendImpl) CompileShader(s shader.Shader) error {
	b.mu.Lock()
	compiler := b.compiler
	b.mu.Unlock()

	spirv, err := compiler(s.Source())
	if err != nil {
		return err
	}
	if len(spirv) == 0 {
		return errors.New("compiler produced no output")
	}
	s.SetSPIRV(spirv)
	return nil
}

func (b *headlessRendererBackendImpl) CreatePipeline(p pipeline.Pipeline) error {
	common.Logger().Debug("headless pipeline", "key", p.PipelineKey(), "topology", p.Topology())
	return nil
}

func (b *headlessRendererBackendImpl) Release() {}
