package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShaderVertexLayouts(t *testing.T) {
	s := NewShader("surface#1", "// wgsl", 3, 1)
	assert.Equal(t, "surface#1", s.Key())
	assert.Equal(t, "// wgsl", s.Source())
	assert.Equal(t, VertexEntryPoint, s.VertexEntryPoint())
	assert.Equal(t, FragmentEntryPoint, s.FragmentEntryPoint())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 3)
	assert.Equal(t, uint64(12), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint32(1), layouts[1].Attributes[0].ShaderLocation)
	assert.Equal(t, uint32(3), layouts[2].Attributes[0].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32, layouts[2].Attributes[0].Format)
}

func TestShaderCompiledAndRelease(t *testing.T) {
	s := NewShader("k", "src")
	assert.False(t, s.Compiled())
	assert.Len(t, s.VertexLayouts(), 1)

	s.SetSPIRV([]byte{0x03, 0x02, 0x23, 0x07})
	assert.True(t, s.Compiled())

	s.Release()
	assert.False(t, s.Compiled())
	assert.Nil(t, s.SPIRV())
	assert.Nil(t, s.Module())
}
