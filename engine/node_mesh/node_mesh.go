package node_mesh

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/data"
	"github.com/Carmen-Shannon/oxy-fields/engine/profiler"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/Carmen-Shannon/oxy-fields/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrDisposed is returned by operations on a node mesh after Dispose.
	ErrDisposed = errors.New("node mesh is disposed")

	// ErrNoRenderer is returned when a node mesh is created without a renderer.
	ErrNoRenderer = errors.New("node mesh requires a renderer")

	// ErrComponentLength is returned when a component does not hold one value per vertex.
	ErrComponentLength = errors.New("component length does not match vertex count")
)

// uniformBinding is the binding of the material uniform block on the attribute provider.
const uniformBinding = 0

// style is the per-handle uniform state. It holds only values, so Copy's field-by-field copy
// with copier is equivalent to an assignment.
type style struct {
	Transform    [16]float32
	Scale        mgl32.Vec3
	DefaultColor colorful.Color
	Alpha        float32
}

// nodeMesh is the implementation of the NodeMesh interface.
type nodeMesh struct {
	mu *sync.Mutex

	label    string
	topology common.Topology
	renderer renderer.Renderer
	profiler *profiler.Profiler

	// geometry holds the position and index buffers. It is shared by every copy and released
	// only by the handle that created it.
	geometry     bind_group_provider.BindGroupProvider
	ownsGeometry bool

	// attributes holds the uniform buffer and the published component buffers.
	attributes bind_group_provider.BindGroupProvider

	graph    *shader_node.Graph
	style    style
	material material.Material
	version  int
	disposed bool

	// build-time geometry, consumed by NewNodeMesh
	vertices []float32
	indices  []uint32
}

// NodeMesh defines the interface for a rendering handle: one drawable sub-mesh with its own
// color graph, uniform state and published field components.
//
// Copies of a NodeMesh share the position and index buffers of the original and start with
// its published components, but own their graph, uniform buffer and material, so each copy
// can be styled and recompiled independently.
type NodeMesh interface {
	scene.Drawable

	// Topology returns the primitive layout this handle draws.
	//
	// Returns:
	//   - common.Topology: the topology
	Topology() common.Topology

	// VertexCount returns the number of vertices in the shared geometry.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Copy creates an independent handle over the same geometry buffers. The copy inherits
	// every published component binding, a clone of the color graph and a copy of the
	// uniform state. It has no material until BuildMaterial is called on it.
	//
	// Parameters:
	//   - label: the copy's debug label, also used for its shader keys and material name
	//
	// Returns:
	//   - NodeMesh: the copy
	//   - error: an error if the handle is disposed or the uniform buffer cannot be created
	Copy(label string) (NodeMesh, error)

	// BuildMaterial generates WGSL from the current color graph, compiles it through the
	// renderer and replaces the previous material, which is released. On failure the previous
	// material is kept. Safe to call repeatedly.
	//
	// Returns:
	//   - error: an error if a referenced component is unpublished or the shader does not compile
	BuildMaterial() error

	// AddComponent uploads a field component as a per-vertex buffer so the color graph can
	// read it. Adding a component that is already published does nothing.
	//
	// Parameters:
	//   - c: the component to publish
	//
	// Returns:
	//   - bool: true if the component was uploaded by this call
	//   - error: an error if the component length is wrong, its key is held by another component, or the upload fails
	AddComponent(c data.Component) (bool, error)

	// HasComponent reports whether the component with key is published on this handle.
	//
	// Parameters:
	//   - key: the component key
	//
	// Returns:
	//   - bool: true if published
	HasComponent(key string) bool

	// AddColorNode appends a color step to the handle's graph. The change is visible after
	// the next BuildMaterial.
	//
	// Parameters:
	//   - op: the combine operation
	//   - node: the color node
	AddColorNode(op shader_node.Operation, node shader_node.Node)

	// SetColorNode replaces the color step tagged tag, or appends it if no step has that tag.
	//
	// Parameters:
	//   - tag: the step tag
	//   - op: the combine operation
	//   - node: the color node
	SetColorNode(tag string, op shader_node.Operation, node shader_node.Node)

	// ColorSteps returns the handle's color steps in order.
	//
	// Returns:
	//   - []shader_node.ColorStep: the steps
	ColorSteps() []shader_node.ColorStep

	// Transform returns the column-major clip-space transform positions are multiplied by.
	//
	// Returns:
	//   - [16]float32: the transform, identity by default
	Transform() [16]float32

	// SetTransform sets the clip-space transform and writes the uniform block.
	//
	// Parameters:
	//   - m: the column-major transform
	SetTransform(m [16]float32)

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale and writes the uniform block.
	//
	// Parameters:
	//   - scale: the new scale
	SetScale(scale mgl32.Vec3)

	// DefaultColor returns the color the color graph starts from.
	//
	// Returns:
	//   - colorful.Color: the default color
	DefaultColor() colorful.Color

	// SetDefaultColor sets the color the color graph starts from and writes the uniform block.
	//
	// Parameters:
	//   - c: the new default color
	SetDefaultColor(c colorful.Color)

	// Version returns the number of successful BuildMaterial calls.
	//
	// Returns:
	//   - int: the compile count
	Version() int

	// Dispose releases the handle's material, uniform buffer and the component buffers it
	// uploaded, plus the geometry buffers if this handle created them. Buffers inherited from
	// another handle are left alone. Calling Dispose again does nothing.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true after Dispose
	Disposed() bool
}

var _ NodeMesh = &nodeMesh{}

// NewNodeMesh creates a new rendering handle, uploads its geometry and creates its uniform buffer.
//
// Parameters:
//   - label: a debug label, also used as the material name
//   - r: the renderer that owns the handle's GPU resources
//   - options: variadic list of NodeMeshBuilderOption functions to configure the handle
//
// Returns:
//   - NodeMesh: the new handle
//   - error: an error if no renderer is given or a buffer cannot be created
func NewNodeMesh(label string, r renderer.Renderer, options ...NodeMeshBuilderOption) (NodeMesh, error) {
	if r == nil {
		return nil, ErrNoRenderer
	}
	n := &nodeMesh{
		mu:           &sync.Mutex{},
		label:        label,
		renderer:     r,
		graph:        shader_node.NewGraph(),
		ownsGeometry: true,
		style: style{
			Scale:        mgl32.Vec3{1, 1, 1},
			DefaultColor: colorful.Color{R: 1, G: 1, B: 1},
			Alpha:        1,
		},
	}
	common.Identity(n.style.Transform[:])
	for _, opt := range options {
		opt(n)
	}

	n.geometry = bind_group_provider.NewBindGroupProvider(label + " Geometry")
	n.geometry.SetVertexCount(len(n.vertices) / 3)
	if err := r.InitMeshBuffers(n.geometry, common.SliceToBytes(n.vertices), common.SliceToBytes(n.indices), len(n.indices)); err != nil {
		n.geometry.Release()
		return nil, fmt.Errorf("failed to create geometry buffers for %s: %w", label, err)
	}
	n.vertices, n.indices = nil, nil

	if err := n.initAttributes(nil); err != nil {
		n.geometry.Release()
		return nil, err
	}
	return n, nil
}

// initAttributes creates the attribute provider with its uniform buffer, inheriting the
// published components of from when it is not nil.
func (n *nodeMesh) initAttributes(from bind_group_provider.BindGroupProvider) error {
	n.attributes = bind_group_provider.NewBindGroupProvider(n.label + " Attributes")
	if from != nil {
		n.attributes.InheritAttributes(from)
	}
	u := n.uniform()
	if err := n.renderer.InitUniformBuffer(n.attributes, uniformBinding, uint64(u.Size())); err != nil {
		n.attributes.Release()
		return fmt.Errorf("failed to create uniform buffer for %s: %w", n.label, err)
	}
	n.writeUniform()
	return nil
}

func (n *nodeMesh) uniform() *material.GPUMaterialUniform {
	u := &material.GPUMaterialUniform{Transform: n.style.Transform}
	u.Scale = [4]float32{n.style.Scale[0], n.style.Scale[1], n.style.Scale[2], 0}
	u.DefaultColor = [4]float32{float32(n.style.DefaultColor.R), float32(n.style.DefaultColor.G), float32(n.style.DefaultColor.B), n.style.Alpha}
	return u
}

func (n *nodeMesh) writeUniform() {
	n.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: n.attributes,
		Binding:  uniformBinding,
		Offset:   0,
		Data:     n.uniform().Marshal(),
	}})
}

func (n *nodeMesh) Label() string {
	return n.label
}

func (n *nodeMesh) Topology() common.Topology {
	return n.topology
}

func (n *nodeMesh) Material() material.Material {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.material
}

func (n *nodeMesh) Geometry() bind_group_provider.BindGroupProvider {
	return n.geometry
}

func (n *nodeMesh) Attributes() bind_group_provider.BindGroupProvider {
	return n.attributes
}

func (n *nodeMesh) VertexCount() int {
	return n.geometry.VertexCount()
}

func (n *nodeMesh) Copy(label string) (NodeMesh, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed {
		return nil, fmt.Errorf("copy %s: %w", n.label, ErrDisposed)
	}

	c := &nodeMesh{
		mu:       &sync.Mutex{},
		label:    label,
		topology: n.topology,
		renderer: n.renderer,
		profiler: n.profiler,
		geometry: n.geometry,
		graph:    n.graph.Clone(),
	}
	if err := copier.Copy(&c.style, &n.style); err != nil {
		return nil, fmt.Errorf("failed to copy style of %s: %w", n.label, err)
	}
	if err := c.initAttributes(n.attributes); err != nil {
		return nil, err
	}
	return c, nil
}

func (n *nodeMesh) BuildMaterial() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed {
		return fmt.Errorf("build material for %s: %w", n.label, ErrDisposed)
	}

	locations := n.attributes.AttributeLocations()
	src, err := n.graph.Source(locations)
	if err != nil {
		return fmt.Errorf("failed to generate shader for %s: %w", n.label, err)
	}

	attrs := n.graph.Attributes()
	used := make([]int, 0, len(attrs))
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		used = append(used, locations[a.Key()])
		keys = append(keys, a.Key())
	}
	sort.Strings(keys)

	version := n.version + 1
	start := time.Now()
	s := shader.NewShader(fmt.Sprintf("%s#%d", n.label, version), src, used...)
	if err := n.renderer.CompileShader(s); err != nil {
		return err
	}
	elapsed := time.Since(start)
	n.profiler.RecordCompile(elapsed)

	pipelineKey := n.topology.String() + "|" + strings.Join(keys, ",")
	p := pipeline.NewPipeline(pipelineKey, s, pipeline.WithTopology(pipeline.TopologyFor(n.topology)))
	if err := n.renderer.CreatePipeline(p); err != nil {
		s.Release()
		return err
	}

	u := n.uniform()
	m := material.NewMaterial(
		material.WithName(n.label),
		material.WithBaseColor(u.DefaultColor),
		material.WithPipelineKey(pipelineKey),
		material.WithShader(s),
		material.WithPipeline(p),
		material.WithVersion(version),
	)

	previous := n.material
	n.material = m
	n.version = version
	if previous != nil {
		previous.Release()
	}

	common.Logger().Debug("material compiled", "mesh", n.label, "version", version, "steps", n.graph.Len(), "elapsed", elapsed)
	return nil
}

func (n *nodeMesh) AddComponent(c data.Component) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed {
		return false, fmt.Errorf("publish %s on %s: %w", c.Key(), n.label, ErrDisposed)
	}
	if a, ok := n.attributes.Attribute(c.Key()); ok {
		if a.Source != c.ID() {
			return false, fmt.Errorf("publish %s on %s: %w", c.Key(), n.label, renderer.ErrAttributeConflict)
		}
		return false, nil
	}
	if vc := n.geometry.VertexCount(); vc > 0 && len(c.Array()) != vc {
		return false, fmt.Errorf("%w: %s has %d values, %s has %d vertices", ErrComponentLength, c.Key(), len(c.Array()), n.label, vc)
	}

	raw := common.SliceToBytes(c.Array())
	a, uploaded, err := n.renderer.InitAttributeBuffer(n.attributes, c.Key(), c.ID(), raw)
	if err != nil {
		return false, err
	}
	if uploaded {
		n.profiler.RecordUpload(uint64(len(raw)))
		common.Logger().Debug("component published", "mesh", n.label, "component", c.Key(), "location", a.Location, "bytes", len(raw))
	}
	return uploaded, nil
}

func (n *nodeMesh) HasComponent(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.attributes.Attribute(key)
	return ok
}

func (n *nodeMesh) AddColorNode(op shader_node.Operation, node shader_node.Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.graph.AddColorNode(op, node)
}

func (n *nodeMesh) SetColorNode(tag string, op shader_node.Operation, node shader_node.Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.graph.SetColorNode(tag, op, node)
}

func (n *nodeMesh) ColorSteps() []shader_node.ColorStep {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.graph.Steps()
}

func (n *nodeMesh) Transform() [16]float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.style.Transform
}

func (n *nodeMesh) SetTransform(m [16]float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.style.Transform = m
	if !n.disposed {
		n.writeUniform()
	}
}

func (n *nodeMesh) Scale() mgl32.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.style.Scale
}

func (n *nodeMesh) SetScale(scale mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.style.Scale = scale
	if !n.disposed {
		n.writeUniform()
	}
}

func (n *nodeMesh) DefaultColor() colorful.Color {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.style.DefaultColor
}

func (n *nodeMesh) SetDefaultColor(c colorful.Color) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.style.DefaultColor = c.Clamped()
	if !n.disposed {
		n.writeUniform()
	}
}

func (n *nodeMesh) Version() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.version
}

func (n *nodeMesh) Dispose() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed {
		common.Logger().Warn("node mesh already disposed", "mesh", n.label)
		return
	}
	n.disposed = true

	if n.material != nil {
		n.material.Release()
		n.material = nil
	}
	n.attributes.Release()
	if n.ownsGeometry {
		n.geometry.Release()
	}
}

func (n *nodeMesh) Disposed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disposed
}
