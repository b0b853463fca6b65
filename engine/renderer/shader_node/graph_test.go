package shader_node

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationString(t *testing.T) {
	assert.Equal(t, "assign", OperationAssign.String())
	assert.Equal(t, "mul", OperationMul.String())
	assert.Equal(t, "div", OperationDiv.String())
	assert.Equal(t, "Operation(42)", Operation(42).String())
}

func TestGraphAddAndSet(t *testing.T) {
	g := NewGraph()
	red := NewColorNode(colorful.Color{R: 1}, 1)
	blue := NewColorNode(colorful.Color{B: 1}, 1)

	g.AddColorNode(OperationAssign, red)
	g.SetColorNode("iso", OperationMul, red)
	g.SetColorNode("iso", OperationAdd, blue)
	g.SetColorNode("", OperationSub, blue)
	g.SetColorNode("", OperationSub, blue)

	steps := g.Steps()
	require.Len(t, steps, 4)
	assert.Equal(t, ColorStep{Tag: "iso", Operation: OperationAdd, Node: blue}, steps[1])
	assert.Equal(t, OperationSub, steps[3].Operation)
}

func TestGraphClone(t *testing.T) {
	g := NewGraph()
	g.AddColorNode(OperationAssign, NewFloatNode(1))
	c := g.Clone()
	c.AddColorNode(OperationMul, NewFloatNode(2))

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 2, c.Len())
	assert.Same(t, g.Steps()[0].Node, c.Steps()[0].Node)
}

func TestGraphAttributes(t *testing.T) {
	x := NewAttributeNode("v/x")
	y := NewAttributeNode("v/y")
	j, err := NewJoinNode(x, y, x)
	require.NoError(t, err)

	g := NewGraph()
	g.AddColorNode(OperationAssign, j)
	g.AddColorNode(OperationMul, NewMathNode("abs", TypeFloat, y))

	attrs := g.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, "v/x", attrs[0].Key())
	assert.Equal(t, "v/y", attrs[1].Key())
}

func TestGraphSourceEmpty(t *testing.T) {
	src, err := NewGraph().Source(nil)
	require.NoError(t, err)
	assert.Contains(t, src, "fn vs_main(in: VertexInput) -> VertexOutput")
	assert.Contains(t, src, "fn fs_main(in: VertexOutput) -> @location(0) vec4<f32>")
	assert.Contains(t, src, "var color: vec4<f32> = uniforms.default_color;")
	assert.Contains(t, src, "discard;")
	assert.NotContains(t, src, "@location(1)")
}

func TestGraphSourceAttributesAndSteps(t *testing.T) {
	x := NewAttributeNode("v/x")
	y := NewAttributeNode("v/y")
	g := NewGraph()
	g.AddColorNode(OperationAssign, y)
	g.AddColorNode(OperationMul, x)

	src, err := g.Source(map[string]int{"v/x": 1, "v/y": 2})
	require.NoError(t, err)

	xDecl := "@location(1) " + x.Identifier() + ": f32,"
	yDecl := "@location(2) " + y.Identifier() + ": f32,"
	assert.Equal(t, 2, strings.Count(src, xDecl))
	assert.Equal(t, 2, strings.Count(src, yDecl))
	assert.Less(t, strings.Index(src, xDecl), strings.Index(src, yDecl))
	assert.Contains(t, src, "out."+x.Identifier()+" = in."+x.Identifier()+";")

	assign := "color = vec4<f32>(vec3<f32>(" + y.WGSL() + "), 1.0);"
	mul := "color = color * vec4<f32>(vec3<f32>(" + x.WGSL() + "), 1.0);"
	require.Contains(t, src, assign)
	require.Contains(t, src, mul)
	assert.Less(t, strings.Index(src, assign), strings.Index(src, mul))
}

func TestGraphSourceUnpublished(t *testing.T) {
	g := NewGraph()
	g.AddColorNode(OperationAssign, NewAttributeNode("v/x"))
	_, err := g.Source(map[string]int{"v/y": 1})
	assert.ErrorIs(t, err, ErrUnpublishedAttribute)

	_, err = g.Source(map[string]int{"v/x": 0})
	assert.ErrorIs(t, err, ErrUnpublishedAttribute)
}

func TestColorExpressionPromotion(t *testing.T) {
	v2, _ := NewConstNode(1, 2)
	assert.Equal(t, "vec4<f32>(vec2<f32>(1.0, 2.0), 0.0, 1.0)", colorExpression(v2))
	assert.Equal(t, "vec4<f32>(in.position, 1.0)", colorExpression(NewPositionNode()))
	v4, _ := NewConstNode(1, 2, 3, 4)
	assert.Equal(t, v4.WGSL(), colorExpression(v4))
}
