package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCompiler(source string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07}, nil
}

func newHeadless(t *testing.T, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	opts = append([]RendererBuilderOption{WithShaderCompiler(stubCompiler)}, opts...)
	r, err := NewRenderer(BackendTypeHeadless, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

func TestParseBackendType(t *testing.T) {
	tests := []struct {
		name    string
		want    RendererBackendType
		wantErr bool
	}{
		{"wgpu", BackendTypeWGPU, false},
		{"WGPU", BackendTypeWGPU, false},
		{"headless", BackendTypeHeadless, false},
		{"", BackendTypeHeadless, false},
		{"vulkan", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBackendType(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackendTypeString(t *testing.T) {
	assert.Equal(t, "wgpu", BackendTypeWGPU.String())
	assert.Equal(t, "headless", BackendTypeHeadless.String())
	assert.Equal(t, "RendererBackendType(9)", RendererBackendType(9).String())
}

func TestNewRendererUnsupportedBackend(t *testing.T) {
	_, err := NewRenderer(RendererBackendType(9))
	assert.Error(t, err)
}

func TestInitAttributeBufferAssignsLocations(t *testing.T) {
	r := newHeadless(t)
	p := bind_group_provider.NewBindGroupProvider("mesh")
	pressure, velocity := uuid.New(), uuid.New()

	a, uploaded, err := r.InitAttributeBuffer(p, "pressure/x", pressure, make([]byte, 12))
	require.NoError(t, err)
	assert.True(t, uploaded)
	assert.Equal(t, 1, a.Location)
	assert.Equal(t, uint64(12), a.Size)
	assert.True(t, a.Owned)
	assert.Equal(t, pressure, a.Source)

	b, uploaded, err := r.InitAttributeBuffer(p, "velocity/y", velocity, make([]byte, 12))
	require.NoError(t, err)
	assert.True(t, uploaded)
	assert.Equal(t, 2, b.Location)

	again, uploaded, err := r.InitAttributeBuffer(p, "pressure/x", pressure, make([]byte, 12))
	require.NoError(t, err)
	assert.False(t, uploaded)
	assert.Equal(t, a, again)
	assert.Len(t, p.Attributes(), 2)
}

func TestInitAttributeBufferRejectsOtherSource(t *testing.T) {
	r := newHeadless(t)
	p := bind_group_provider.NewBindGroupProvider("mesh")

	_, _, err := r.InitAttributeBuffer(p, "a/b/c", uuid.New(), make([]byte, 12))
	require.NoError(t, err)

	_, uploaded, err := r.InitAttributeBuffer(p, "a/b/c", uuid.New(), make([]byte, 12))
	assert.ErrorIs(t, err, ErrAttributeConflict)
	assert.False(t, uploaded)
	assert.Len(t, p.Attributes(), 1)
}

func TestInitMeshBuffersHeadless(t *testing.T) {
	r := newHeadless(t)
	p := bind_group_provider.NewBindGroupProvider("mesh")
	require.NoError(t, r.InitMeshBuffers(p, make([]byte, 36), make([]byte, 12), 3))
	assert.Equal(t, 3, p.IndexCount())
	assert.Nil(t, p.VertexBuffer())

	require.NoError(t, r.InitUniformBuffer(p, 0, 96))
	assert.Nil(t, p.Buffer(0))

	// no buffers exist, writes are dropped
	r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: p, Binding: 0, Data: make([]byte, 96)}})
}

func TestCompileShaderHeadless(t *testing.T) {
	r := newHeadless(t)
	s := shader.NewShader("surface", "source")
	require.NoError(t, r.CompileShader(s))
	assert.True(t, s.Compiled())
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, s.SPIRV())
}

func TestCompileShaderErrors(t *testing.T) {
	failing := WithShaderCompiler(func(string) ([]byte, error) {
		return nil, errors.New("syntax error")
	})
	r := newHeadless(t, failing)
	s := shader.NewShader("surface", "source")
	err := r.CompileShader(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface")
	assert.False(t, s.Compiled())

	empty := WithShaderCompiler(func(string) ([]byte, error) { return nil, nil })
	r = newHeadless(t, empty)
	assert.Error(t, r.CompileShader(s))
}

func TestCreatePipelineHeadless(t *testing.T) {
	r := newHeadless(t)
	s := shader.NewShader("surface#1", "source")

	p := pipeline.NewPipeline("triangles|", s)
	err := r.CreatePipeline(p)
	require.ErrorIs(t, err, ErrShaderNotCompiled)

	require.NoError(t, r.CompileShader(s))
	require.NoError(t, r.CreatePipeline(p))
	// no device, no GPU object
	assert.Nil(t, p.RenderPipeline())

	assert.ErrorIs(t, r.CreatePipeline(pipeline.NewPipeline("empty", nil)), ErrShaderNotCompiled)
}

func TestCompileGeneratedSourceWithNaga(t *testing.T) {
	r, err := NewRenderer(BackendTypeHeadless)
	require.NoError(t, err)
	defer r.Release()

	g := shader_node.NewGraph()
	attr := shader_node.NewAttributeNode("pressure/x")
	g.AddColorNode(shader_node.OperationAssign, attr)
	src, err := g.Source(map[string]int{"pressure/x": 1})
	require.NoError(t, err)

	s := shader.NewShader("surface", src, 1)
	if err := r.CompileShader(s); err != nil {
		t.Skipf("naga could not compile generated source: %v", err)
	}
	assert.NotEmpty(t, s.SPIRV())
}
