package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	s := shader.NewShader("mesh#1", "src")
	p := NewPipeline("triangles|", s)

	assert.Equal(t, "triangles|", p.PipelineKey())
	assert.Same(t, s, p.Shader())
	assert.Nil(t, p.RenderPipeline())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Equal(t, DefaultColorFormat, p.ColorFormat())
	if assert.NotNil(t, p.BlendState()) {
		assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	}
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("k", nil,
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(false),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyPointList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithColorFormat(wgpu.TextureFormatBGRA8Unorm),
		WithBlendState(nil),
	)

	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, p.ColorFormat())
}

func TestTopologyFor(t *testing.T) {
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, TopologyFor(common.TopologyPoints))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, TopologyFor(common.TopologyTriangles))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, TopologyFor(common.TopologyTetrahedrons))
}

func TestReleaseWithoutGPUPipeline(t *testing.T) {
	p := NewPipeline("k", nil)
	assert.NotPanics(t, p.Release)
	assert.NotPanics(t, p.Release)
}
