package block

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-fields/engine/data"
	"github.com/Carmen-Shannon/oxy-fields/engine/profiler"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/Carmen-Shannon/oxy-fields/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inputKeys(inputs []Input) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.String()
	}
	return out
}

func TestResolveDefaultInputPadding(t *testing.T) {
	f := newField(t, "scalar", "c")
	inputs, consumed, err := ResolveDefaultInput([]data.Data{f}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"scalar/c", "0", "0"}, inputKeys(inputs))
	assert.False(t, inputs[0].IsLiteral())
	assert.True(t, inputs[1].IsLiteral())
	assert.Equal(t, float32(0), inputs[2].Value())
	require.Len(t, consumed, 1)
	assert.Equal(t, "scalar/c", consumed[0].Key())
}

func TestResolveDefaultInputTruncation(t *testing.T) {
	f := newField(t, "vector", "a", "b", "c", "d")
	inputs, consumed, err := ResolveDefaultInput([]data.Data{f}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"vector/a", "vector/b"}, inputKeys(inputs))
	assert.Len(t, consumed, 2)
}

func TestResolveDefaultInputUsesFirstField(t *testing.T) {
	first := newField(t, "first", "x")
	second := newField(t, "second", "y")
	inputs, _, err := ResolveDefaultInput([]data.Data{first, second}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first/x"}, inputKeys(inputs))
}

func TestResolveDefaultInputNoData(t *testing.T) {
	_, _, err := ResolveDefaultInput(nil, 1)
	assert.ErrorIs(t, err, ErrNoDataAvailable)

	inputs, consumed, err := ResolveDefaultInput(nil, 0)
	assert.NoError(t, err)
	assert.Nil(t, inputs)
	assert.Nil(t, consumed)
}

func TestResolveInputsInvalidDimension(t *testing.T) {
	_, _, err := ResolveInputs(nil, 5, nil)
	assert.ErrorIs(t, err, ErrInvalidInputDimension)
	_, _, err = ResolveInputs(nil, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidInputDimension)
}

func TestResolveInputsExplicit(t *testing.T) {
	f := newField(t, "velocity", "x", "y", "z")
	fields := []data.Data{f}

	tests := []struct {
		name     string
		requests []InputRequest
		want     []string
		consumed int
		err      error
	}{
		{"exact arity", []InputRequest{ComponentRef("velocity", "z"), Literal(2.5), ComponentRef("velocity", "x")},
			[]string{"velocity/z", "2.5", "velocity/x"}, 2, nil},
		{"repeated component", []InputRequest{ComponentRef("velocity", "x"), ComponentRef("velocity", "x"), Literal(0)},
			[]string{"velocity/x", "velocity/x", "0"}, 1, nil},
		{"too few", []InputRequest{ComponentRef("velocity", "x"), ComponentRef("velocity", "y")}, nil, 0, ErrInputArityMismatch},
		{"too many", []InputRequest{Literal(0), Literal(0), Literal(0), Literal(0)}, nil, 0, ErrInputArityMismatch},
		{"empty list", []InputRequest{}, nil, 0, ErrInputArityMismatch},
		{"unknown field", []InputRequest{ComponentRef("pressure", "p"), Literal(0), Literal(0)}, nil, 0, ErrUnknownField},
		{"unknown component", []InputRequest{ComponentRef("velocity", "w"), Literal(0), Literal(0)}, nil, 0, data.ErrUnknownComponent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, consumed, err := ResolveInputs(fields, 3, tt.requests)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, inputKeys(inputs))
			assert.Len(t, consumed, tt.consumed)
		})
	}
}

func TestBuildInputNode(t *testing.T) {
	f := newField(t, "velocity", "a", "b", "c")
	a, _ := f.Component("a")
	b, _ := f.Component("b")
	c, _ := f.Component("c")

	node, err := BuildInputNode(nil)
	require.NoError(t, err)
	assert.Nil(t, node)

	node, err = BuildInputNode([]Input{ComponentInput(a)})
	require.NoError(t, err)
	assert.Same(t, a.Node(), node)

	node, err = BuildInputNode([]Input{LiteralInput(1.5)})
	require.NoError(t, err)
	assert.Equal(t, "1.5", node.WGSL())

	forward, err := BuildInputNode([]Input{ComponentInput(a), ComponentInput(b), ComponentInput(c)})
	require.NoError(t, err)
	backward, err := BuildInputNode([]Input{ComponentInput(c), ComponentInput(b), ComponentInput(a)})
	require.NoError(t, err)

	assert.Equal(t, shader_node.TypeVec3, forward.Type())
	assert.Equal(t, []shader_node.Node{a.Node(), b.Node(), c.Node()}, forward.Inputs())
	assert.Equal(t, []shader_node.Node{c.Node(), b.Node(), a.Node()}, backward.Inputs())
	assert.NotEqual(t, forward.WGSL(), backward.WGSL())
}

func TestEffectSharesGeometry(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f}, WithTetrahedronIndices(quadTetrahedrons))
	e, err := NewEffect(parent, 1)
	require.NoError(t, err)

	assert.Same(t, parent.Geometry(), e.Geometry())
	assert.Same(t, &parent.Vertices()[0], &e.Vertices()[0])
	assert.Equal(t, parent.Data(), e.Data())
	assert.Same(t, parent.Data()[0], e.Data()[0])
	assert.Same(t, parent, e.Parent())
	assert.NotEqual(t, uuid.Nil, e.ID())

	pm, em := parent.Meshes(), e.Meshes()
	require.Len(t, em, len(pm))
	for _, m := range em {
		for _, p := range pm {
			assert.NotSame(t, p, m)
			assert.NotSame(t, p.Attributes(), m.Attributes())
		}
	}
	for i := range em {
		assert.Same(t, pm[i].Geometry(), em[i].Geometry(), "copies share geometry buffers")
		assert.Equal(t, e.Name()+"/"+pm[i].Topology().String(), em[i].Label())
		assert.NotEqual(t, pm[i].Label(), em[i].Label())
	}
}

func TestEffectPublishesOnOwnMeshesOnly(t *testing.T) {
	p := profiler.NewProfiler()
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f}, WithProfiler(p))
	e, err := NewEffect(parent, 1)
	require.NoError(t, err)

	key := f.Components()[0].Key()
	for _, m := range e.Meshes() {
		assert.True(t, m.HasComponent(key))
	}
	for _, m := range parent.Meshes() {
		assert.False(t, m.HasComponent(key))
	}
	assert.Equal(t, 1, p.Stats().Uploads)

	// a child inherits the binding and uploads nothing
	child, err := NewEffect(e, 1)
	require.NoError(t, err)
	for _, m := range child.Meshes() {
		assert.True(t, m.HasComponent(key))
	}
	assert.Equal(t, 1, p.Stats().Uploads)
}

func TestEffectRejectsComponentWithTakenKey(t *testing.T) {
	p := profiler.NewProfiler()
	f := newField(t, "a", "x")
	parent := newTestBlock(t, []data.Data{f}, WithProfiler(p))
	e, err := NewEffect(parent, 1, WithInputs(ComponentRef("a", "x")))
	require.NoError(t, err)
	require.Equal(t, 1, p.Stats().Uploads)

	// same field and component names, different values
	other := newField(t, "a", "x")
	err = e.AddComponent(other.Components()[0])
	assert.ErrorIs(t, err, renderer.ErrAttributeConflict)
	assert.Equal(t, 1, p.Stats().Uploads)
	for _, m := range e.Meshes() {
		a, ok := m.Attributes().Attribute("a/x")
		require.True(t, ok)
		assert.Equal(t, f.Components()[0].ID(), a.Source)
	}

	// the original component is still accepted
	assert.NoError(t, e.AddComponent(f.Components()[0]))
}

func TestEffectZeroDimensionSetInputIsNoop(t *testing.T) {
	parent := newTestBlock(t, nil)
	e, err := NewEffect(parent, 0, WithInputs(ComponentRef("missing", "x"), Literal(1)))
	require.NoError(t, err)
	assert.Nil(t, e.Inputs())
	assert.Nil(t, e.InputNode())

	for _, requests := range [][]InputRequest{nil, {}, {Literal(1)}, {ComponentRef("missing", "x")}} {
		assert.NoError(t, e.SetInput(requests))
		assert.Nil(t, e.Inputs())
		assert.Nil(t, e.InputNode())
	}
}

func TestEffectDefaultInputNoData(t *testing.T) {
	parent := newTestBlock(t, nil)
	_, err := NewEffect(parent, 1)
	assert.ErrorIs(t, err, ErrNoDataAvailable)
}

func TestEffectDefaultInputPaddingAndTruncation(t *testing.T) {
	scalar := newField(t, "scalar", "c")
	parent := newTestBlock(t, []data.Data{scalar})
	e, err := NewEffect(parent, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"scalar/c", "0", "0"}, inputKeys(e.Inputs()))
	assert.Equal(t, shader_node.TypeVec3, e.InputNode().Type())

	vector := newField(t, "vector", "a", "b", "c", "d")
	parent = newTestBlock(t, []data.Data{vector})
	e, err = NewEffect(parent, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"vector/a", "vector/b"}, inputKeys(e.Inputs()))
}

func TestEffectExplicitArity(t *testing.T) {
	f := newField(t, "velocity", "x", "y", "z")
	parent := newTestBlock(t, []data.Data{f})

	_, err := NewEffect(parent, 3, WithInputs(ComponentRef("velocity", "x"), ComponentRef("velocity", "y")))
	assert.ErrorIs(t, err, ErrInputArityMismatch)

	e, err := NewEffect(parent, 3, WithInputs(ComponentRef("velocity", "x"), ComponentRef("velocity", "y"), ComponentRef("velocity", "z")))
	require.NoError(t, err)
	assert.Equal(t, []string{"velocity/x", "velocity/y", "velocity/z"}, inputKeys(e.Inputs()))
}

func TestEffectFailedConstructionDisposesCopies(t *testing.T) {
	f := newField(t, "velocity", "x")
	parent := newTestBlock(t, []data.Data{f})
	s := scene.NewScene("main")

	_, err := NewEffect(parent, 1, WithInputs(ComponentRef("nope", "x")))
	assert.ErrorIs(t, err, ErrUnknownField)

	// the parent is untouched and still usable
	assert.Equal(t, len(parent.Meshes()), parent.AddToScene(s))
	assert.NoError(t, parent.BuildMaterials())
}

func TestEffectUnknownFieldKeepsInputs(t *testing.T) {
	f := newField(t, "velocity", "x", "y")
	parent := newTestBlock(t, []data.Data{f})
	e, err := NewEffect(parent, 2)
	require.NoError(t, err)
	inputs, node := e.Inputs(), e.InputNode()

	err = e.SetInput([]InputRequest{ComponentRef("missing", "x"), Literal(1)})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, inputs, e.Inputs())
	assert.Same(t, node, e.InputNode())

	err = e.SetInput([]InputRequest{Literal(1)})
	assert.ErrorIs(t, err, ErrInputArityMismatch)
	assert.Equal(t, inputs, e.Inputs())
}

func TestEffectJoinOrder(t *testing.T) {
	f := newField(t, "velocity", "a", "b", "c")
	parent := newTestBlock(t, []data.Data{f})
	e, err := NewEffect(parent, 3, WithInputs(ComponentRef("velocity", "a"), ComponentRef("velocity", "b"), ComponentRef("velocity", "c")))
	require.NoError(t, err)
	forward := e.InputNode()

	require.NoError(t, e.SetInput([]InputRequest{ComponentRef("velocity", "c"), ComponentRef("velocity", "b"), ComponentRef("velocity", "a")}))
	backward := e.InputNode()

	a, _ := f.Component("a")
	c, _ := f.Component("c")
	assert.Same(t, a.Node(), forward.Inputs()[0])
	assert.Same(t, c.Node(), backward.Inputs()[0])
	assert.NotEqual(t, forward.WGSL(), backward.WGSL())
}

func TestEffectDisposalIsolation(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f}, WithTetrahedronIndices(quadTetrahedrons))
	e, err := NewEffect(parent, 1)
	require.NoError(t, err)

	e.Dispose()
	assert.True(t, e.Disposed())
	for _, m := range e.Meshes() {
		assert.True(t, m.Disposed())
	}
	for _, m := range parent.Meshes() {
		assert.False(t, m.Disposed())
	}

	s := scene.NewScene("main")
	assert.Equal(t, 2, parent.AddToScene(s))
	assert.NoError(t, parent.BuildMaterials())
	assert.NoError(t, parent.AddComponent(f.Components()[0]))
}

func TestEffectAddColorNode(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f})
	e, err := NewEffect(parent, 1)
	require.NoError(t, err)
	before := e.Meshes()[0].Version()

	require.NoError(t, e.AddColorNode(shader_node.OperationMul, e.InputNode()))
	require.NoError(t, e.AddColorNode(shader_node.OperationAdd, shader_node.NewFloatNode(0.1)))

	m := e.Meshes()[0]
	assert.Equal(t, before+2, m.Version())
	steps := m.ColorSteps()
	require.Len(t, steps, 2)
	assert.Equal(t, shader_node.OperationMul, steps[0].Operation)
	assert.Contains(t, m.Material().Shader().Source(), f.Components()[0].Node().Identifier())

	// the parent graph is untouched
	assert.Empty(t, parent.Meshes()[0].ColorSteps())
}

func TestSideBySideAttachment(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f})
	e, err := NewEffect(parent, 1)
	require.NoError(t, err)

	s := scene.NewScene("main")
	parent.AddToScene(s)
	e.AddToScene(s)
	assert.Equal(t, len(parent.Meshes())+len(e.Meshes()), s.Count())
}

func TestIsoColor(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f})
	iso, err := NewIsoColor(parent)
	require.NoError(t, err)

	lo, hi := iso.Range()
	assert.Equal(t, float32(0), lo)
	assert.Equal(t, float32(3), hi)

	low, high := iso.Ramp()
	assert.Equal(t, low.Hex(), iso.ColorAt(-10).Hex())
	assert.Equal(t, high.Hex(), iso.ColorAt(10).Hex())

	m := iso.Meshes()[0]
	require.Len(t, m.ColorSteps(), 1)
	assert.Equal(t, iso.ID().String(), m.ColorSteps()[0].Tag)

	// re-resolving replaces the tagged step instead of stacking another
	require.NoError(t, iso.SetInput(nil))
	require.NoError(t, iso.SetRange(-1, 1))
	require.NoError(t, iso.SetRamp(colorful.Color{}, colorful.Color{R: 1, G: 1, B: 1}))
	assert.Len(t, m.ColorSteps(), 1)
	lo, hi = iso.Range()
	assert.Equal(t, float32(-1), lo)
	assert.Equal(t, float32(1), hi)
	assert.Equal(t, "#000000", iso.ColorAt(-1).Hex())
}

func TestIsoColorLiteralInput(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f})
	iso, err := NewIsoColor(parent, WithInputs(Literal(0.25)), WithRange(0, 1))
	require.NoError(t, err)
	assert.True(t, iso.Inputs()[0].IsLiteral())
	assert.Contains(t, iso.Meshes()[0].Material().Shader().Source(), "0.25")
}

func TestThreshold(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f})
	th, err := NewThreshold(parent, WithRange(1, 2))
	require.NoError(t, err)

	assert.True(t, th.Passes(1))
	assert.True(t, th.Passes(2))
	assert.False(t, th.Passes(2.5))

	require.NoError(t, th.SetBounds(0, 5))
	assert.True(t, th.Passes(2.5))
	m := th.Meshes()[0]
	require.Len(t, m.ColorSteps(), 1)
	assert.Equal(t, shader_node.OperationMul, m.ColorSteps()[0].Operation)
	assert.Contains(t, m.Material().Shader().Source(), "discard")
}

func TestClipPlane(t *testing.T) {
	parent := newTestBlock(t, nil)
	clip, err := NewClipPlane(parent, WithPlane(mgl32.Vec3{2, 0, 0}, -1))
	require.NoError(t, err)

	plane := clip.Plane()
	assert.Equal(t, [3]float32{1, 0, 0}, plane.Normal)
	assert.Equal(t, float32(-0.5), plane.Distance)
	assert.True(t, clip.Clipped(mgl32.Vec3{1, 0, 0}))
	assert.False(t, clip.Clipped(mgl32.Vec3{0.5, 0, 0}))
	assert.Equal(t, 0, clip.InputDimension())

	require.NoError(t, clip.SetPlane(mgl32.Vec3{0, 1, 0}, 0))
	assert.True(t, clip.Clipped(mgl32.Vec3{0, 1, 0}))
	assert.Len(t, clip.Meshes()[0].ColorSteps(), 1)
	assert.Contains(t, clip.Meshes()[0].Material().Shader().Source(), "in.position")
}

func TestEffectChain(t *testing.T) {
	f := newField(t, "pressure", "p")
	parent := newTestBlock(t, []data.Data{f})
	iso, err := NewIsoColor(parent)
	require.NoError(t, err)
	clip, err := NewClipPlane(iso)
	require.NoError(t, err)

	assert.Same(t, parent.Geometry(), clip.Geometry())
	assert.Len(t, clip.Meshes()[0].ColorSteps(), 2)
	assert.Len(t, iso.Meshes()[0].ColorSteps(), 1)

	clip.Dispose()
	iso.Dispose()
	assert.False(t, parent.Disposed())
	assert.NoError(t, parent.BuildMaterials())
}
