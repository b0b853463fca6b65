package block

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/camera"
	"github.com/Carmen-Shannon/oxy-fields/engine/config"
	"github.com/Carmen-Shannon/oxy-fields/engine/data"
	"github.com/Carmen-Shannon/oxy-fields/engine/node_mesh"
	"github.com/Carmen-Shannon/oxy-fields/engine/profiler"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fields/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrNoDataAvailable is returned when an effect needs a default input but the block has no fields.
	ErrNoDataAvailable = errors.New("no data available")

	// ErrInputArityMismatch is returned when the number of explicit inputs differs from the effect's input dimension.
	ErrInputArityMismatch = errors.New("input arity mismatch")

	// ErrUnknownField is returned when an explicit input names a field the block does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidGeometry is returned when vertex or index buffers are structurally inconsistent.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidInputDimension is returned when an effect declares an input dimension outside 0 to 4.
	ErrInvalidInputDimension = errors.New("input dimension must be between 0 and 4")

	// ErrDisposed is returned when an effect is layered on a disposed block.
	ErrDisposed = errors.New("block is disposed")
)

// Geometry is the immutable record a block is built from: the vertex positions, the data fields
// and the optional topology. A Geometry is created once by NewBlock and shared by pointer with
// every effect layered on the block; nothing mutates it afterwards.
type Geometry struct {
	vertices     []float32
	fields       []data.Data
	triangles    []uint32
	tetrahedrons []uint32
}

// Vertices returns the flat xyz vertex positions. The slice must not be modified.
func (g *Geometry) Vertices() []float32 {
	return g.vertices
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.vertices) / 3
}

// Data returns the fields in insertion order. The slice must not be modified.
func (g *Geometry) Data() []data.Data {
	return g.fields
}

// Field returns the first field named name.
func (g *Geometry) Field(name string) (data.Data, bool) {
	f := findField(g.fields, name)
	return f, f != nil
}

// TriangleIndices returns the triangle indices, or nil if the block has none.
func (g *Geometry) TriangleIndices() []uint32 {
	return g.triangles
}

// TetrahedronIndices returns the tetrahedron indices, or nil if the block has none.
func (g *Geometry) TetrahedronIndices() []uint32 {
	return g.tetrahedrons
}

func (g *Geometry) validate() error {
	if len(g.vertices)%3 != 0 {
		return fmt.Errorf("%w: vertex buffer length %d is not a multiple of 3", ErrInvalidGeometry, len(g.vertices))
	}
	if len(g.triangles)%3 != 0 {
		return fmt.Errorf("%w: triangle index count %d is not a multiple of 3", ErrInvalidGeometry, len(g.triangles))
	}
	if len(g.tetrahedrons)%4 != 0 {
		return fmt.Errorf("%w: tetrahedron index count %d is not a multiple of 4", ErrInvalidGeometry, len(g.tetrahedrons))
	}

	n := uint32(g.VertexCount())
	for i, idx := range g.triangles {
		if idx >= n {
			return fmt.Errorf("%w: triangle index %d at %d is out of range for %d vertices", ErrInvalidGeometry, idx, i, n)
		}
	}
	for i, idx := range g.tetrahedrons {
		if idx >= n {
			return fmt.Errorf("%w: tetrahedron index %d at %d is out of range for %d vertices", ErrInvalidGeometry, idx, i, n)
		}
	}
	names := make(map[string]struct{}, len(g.fields))
	for _, f := range g.fields {
		if f.VertexCount() != int(n) {
			return fmt.Errorf("%w: field %q has %d values per component, expected %d", ErrInvalidGeometry, f.Name(), f.VertexCount(), n)
		}
		if _, ok := names[f.Name()]; ok {
			return fmt.Errorf("%w: field %q is listed twice", ErrInvalidGeometry, f.Name())
		}
		names[f.Name()] = struct{}{}
	}
	return nil
}

// block is the implementation of the Block interface. Effects embed it.
type block struct {
	name     string
	geometry *Geometry
	meshes   []node_mesh.NodeMesh

	renderer     renderer.Renderer
	ownsRenderer bool
	profiler     *profiler.Profiler

	compileWorkers int
	pool           worker.DynamicWorkerPool

	scale        mgl32.Vec3
	defaultColor colorful.Color
	disposed     bool
}

// Block defines the interface for a geometric unit rendered through one or more rendering
// handles. A block owns its handles; its geometry is shared with every effect layered on it.
//
// Blocks are driven from a single goroutine. BuildMaterials may compile handles in parallel
// but returns only after every handle is done.
type Block interface {
	// Name returns the block name, used as a prefix for rendering handle labels.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Geometry returns the shared geometry record.
	//
	// Returns:
	//   - *Geometry: the geometry, identical for a block and all of its effects
	Geometry() *Geometry

	// Vertices returns the flat xyz vertex positions.
	//
	// Returns:
	//   - []float32: the vertices, 3 floats per vertex
	Vertices() []float32

	// Data returns the fields in insertion order.
	//
	// Returns:
	//   - []data.Data: the fields
	Data() []data.Data

	// TriangleIndices returns the triangle index buffer.
	//
	// Returns:
	//   - []uint32: the indices, or nil if the block has no triangles
	TriangleIndices() []uint32

	// TetrahedronIndices returns the tetrahedron index buffer.
	//
	// Returns:
	//   - []uint32: the indices, or nil if the block has no tetrahedrons
	TetrahedronIndices() []uint32

	// HasTriangles reports whether the block has a triangle index buffer.
	//
	// Returns:
	//   - bool: true iff the triangle indices are not nil
	HasTriangles() bool

	// HasTetrahedrons reports whether the block has a tetrahedron index buffer.
	//
	// Returns:
	//   - bool: true iff the tetrahedron indices are not nil
	HasTetrahedrons() bool

	// Meshes returns the block's rendering handles.
	//
	// Returns:
	//   - []node_mesh.NodeMesh: a copy of the handle list
	Meshes() []node_mesh.NodeMesh

	// Renderer returns the renderer the block's handles were created with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// AddToScene adds every rendering handle to s. The scene references the handles but does
	// not own them.
	//
	// Parameters:
	//   - s: the target scene
	//
	// Returns:
	//   - int: the number of handles newly added
	AddToScene(s scene.Scene) int

	// BuildMaterials rebuilds the material of every rendering handle from its current color
	// graph. Safe to call repeatedly.
	//
	// Returns:
	//   - error: the joined errors of every handle that failed
	BuildMaterials() error

	// AddComponent publishes a field component on every rendering handle. Publishing a
	// component a handle already has does nothing on that handle.
	//
	// Parameters:
	//   - c: the component
	//
	// Returns:
	//   - error: the joined errors of every handle that failed
	AddComponent(c data.Component) error

	// Frame fits cam around the scaled bounding sphere of the block's vertices and sets the
	// camera's view-projection as the transform of every rendering handle.
	//
	// Parameters:
	//   - cam: the camera to frame and draw through
	Frame(cam camera.Camera)

	// SetTransform sets the clip-space transform of every rendering handle.
	//
	// Parameters:
	//   - m: the column-major transform
	SetTransform(m [16]float32)

	// Scale returns the scale applied to every rendering handle.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale sets the scale of every rendering handle.
	//
	// Parameters:
	//   - scale: the per-axis scale
	SetScale(scale mgl32.Vec3)

	// DefaultColor returns the default color of the rendering handles.
	//
	// Returns:
	//   - colorful.Color: the color
	DefaultColor() colorful.Color

	// SetDefaultColor sets the default color of every rendering handle.
	//
	// Parameters:
	//   - hex: the color in "#rrggbb" form
	//
	// Returns:
	//   - error: an error if hex does not parse
	SetDefaultColor(hex string) error

	// Dispose releases every rendering handle the block owns. Effects must be disposed before
	// the block they are layered on. Calling Dispose again does nothing.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true after Dispose
	Disposed() bool

	base() *block
}

var _ Block = &block{}

// NewBlock creates a block from raw geometry and fields and builds one rendering handle per
// topology: a surface handle for triangles, a volume handle for tetrahedrons, or a single
// points handle when the block has neither. Every handle's material is built before returning.
//
// Parameters:
//   - vertices: flat xyz vertex positions
//   - fields: the data fields, one value per vertex in every component
//   - options: variadic list of BlockBuilderOption functions to configure the block
//
// Returns:
//   - Block: the new block
//   - error: config.ErrInvalidSettings if WithSettings received unusable settings, ErrInvalidGeometry if
//     validation is enabled and the buffers are inconsistent, or a renderer error
func NewBlock(vertices []float32, fields []data.Data, options ...BlockBuilderOption) (Block, error) {
	cfg := newBlockConfig()
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.settingsErr != nil {
		return nil, cfg.settingsErr
	}

	g := &Geometry{
		vertices:     vertices,
		fields:       fields,
		triangles:    cfg.triangles,
		tetrahedrons: cfg.tetrahedrons,
	}
	if cfg.validate {
		if err := g.validate(); err != nil {
			return nil, err
		}
	}

	b := &block{
		name:           cfg.name,
		geometry:       g,
		renderer:       cfg.renderer,
		profiler:       cfg.profiler,
		compileWorkers: cfg.compileWorkers,
		scale:          cfg.scale,
		defaultColor:   cfg.defaultColor,
	}
	if b.renderer == nil {
		r, err := renderer.NewRenderer(cfg.backend, renderer.WithForceSoftwareRenderer(cfg.forceSoftware))
		if err != nil {
			return nil, err
		}
		b.renderer = r
		b.ownsRenderer = true
	}

	if err := b.createMeshes(); err != nil {
		b.Dispose()
		return nil, err
	}
	b.initPool()

	if err := b.BuildMaterials(); err != nil {
		b.Dispose()
		return nil, err
	}

	common.Logger().Debug("block created", "block", b.name, "vertices", g.VertexCount(), "fields", len(fields), "meshes", len(b.meshes))
	return b, nil
}

func (b *block) createMeshes() error {
	type part struct {
		topology common.Topology
		indices  []uint32
	}
	var parts []part
	if b.geometry.triangles != nil {
		parts = append(parts, part{common.TopologyTriangles, b.geometry.triangles})
	}
	if b.geometry.tetrahedrons != nil {
		parts = append(parts, part{common.TopologyTetrahedrons, common.TetrahedronFaces(b.geometry.tetrahedrons)})
	}
	if len(parts) == 0 {
		parts = append(parts, part{topology: common.TopologyPoints})
	}

	for _, p := range parts {
		m, err := node_mesh.NewNodeMesh(b.name+"/"+p.topology.String(), b.renderer,
			node_mesh.WithTopology(p.topology),
			node_mesh.WithVertices(b.geometry.vertices),
			node_mesh.WithIndices(p.indices),
			node_mesh.WithProfiler(b.profiler),
			node_mesh.WithScale(b.scale),
			node_mesh.WithDefaultColor(b.defaultColor),
		)
		if err != nil {
			return err
		}
		b.meshes = append(b.meshes, m)
	}
	return nil
}

func (b *block) initPool() {
	if b.compileWorkers > 1 && len(b.meshes) > 1 {
		b.pool = worker.NewDynamicWorkerPool(b.compileWorkers, 256, 1*time.Second)
	}
}

func (b *block) base() *block {
	return b
}

func (b *block) Name() string {
	return b.name
}

func (b *block) Geometry() *Geometry {
	return b.geometry
}

func (b *block) Vertices() []float32 {
	return b.geometry.vertices
}

func (b *block) Data() []data.Data {
	return b.geometry.fields
}

func (b *block) TriangleIndices() []uint32 {
	return b.geometry.triangles
}

func (b *block) TetrahedronIndices() []uint32 {
	return b.geometry.tetrahedrons
}

func (b *block) HasTriangles() bool {
	return b.geometry.triangles != nil
}

func (b *block) HasTetrahedrons() bool {
	return b.geometry.tetrahedrons != nil
}

func (b *block) Meshes() []node_mesh.NodeMesh {
	return append([]node_mesh.NodeMesh(nil), b.meshes...)
}

func (b *block) Renderer() renderer.Renderer {
	return b.renderer
}

func (b *block) AddToScene(s scene.Scene) int {
	drawables := make([]scene.Drawable, 0, len(b.meshes))
	for _, m := range b.meshes {
		drawables = append(drawables, m)
	}
	added := s.Add(drawables...)
	common.Logger().Debug("block attached", "block", b.name, "scene", s.Name(), "added", added)
	return added
}

func (b *block) BuildMaterials() error {
	errs := make([]error, len(b.meshes))

	if b.pool == nil {
		for i, m := range b.meshes {
			errs[i] = m.BuildMaterial()
		}
		return errors.Join(errs...)
	}

	var wg sync.WaitGroup
	for i, m := range b.meshes {
		wg.Add(1)
		idx, mesh := i, m // capture for closure
		b.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = mesh.BuildMaterial()
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (b *block) AddComponent(c data.Component) error {
	var errs []error
	for _, m := range b.meshes {
		if _, err := m.AddComponent(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *block) Frame(cam camera.Camera) {
	s := b.scale
	maxScale := common.Coalesce(max(math32.Abs(s[0]), math32.Abs(s[1]), math32.Abs(s[2])), 1)
	cam.Frame(mgl32.Vec3{}, common.BoundingRadius(b.geometry.vertices)*maxScale)
	b.SetTransform(cam.ViewProjectionMatrix())
}

func (b *block) SetTransform(m [16]float32) {
	for _, mesh := range b.meshes {
		mesh.SetTransform(m)
	}
}

func (b *block) Scale() mgl32.Vec3 {
	return b.scale
}

func (b *block) SetScale(scale mgl32.Vec3) {
	b.scale = scale
	for _, m := range b.meshes {
		m.SetScale(scale)
	}
}

func (b *block) DefaultColor() colorful.Color {
	return b.defaultColor
}

func (b *block) SetDefaultColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("invalid default color %q: %w", hex, err)
	}
	b.defaultColor = c
	for _, m := range b.meshes {
		m.SetDefaultColor(c)
	}
	return nil
}

func (b *block) Dispose() {
	if b.disposed {
		common.Logger().Warn("block already disposed", "block", b.name)
		return
	}
	b.disposed = true

	for _, m := range b.meshes {
		m.Dispose()
	}
	if b.pool != nil {
		b.pool.Stop()
		b.pool = nil
	}
	if b.ownsRenderer {
		b.renderer.Release()
	}
}

func (b *block) Disposed() bool {
	return b.disposed
}

// blockConfig collects the options of NewBlock.
type blockConfig struct {
	name           string
	triangles      []uint32
	tetrahedrons   []uint32
	renderer       renderer.Renderer
	backend        renderer.RendererBackendType
	forceSoftware  bool
	profiler       *profiler.Profiler
	compileWorkers int
	validate       bool
	scale          mgl32.Vec3
	defaultColor   colorful.Color
	settingsErr    error
}

func newBlockConfig() *blockConfig {
	cfg := &blockConfig{name: "block"}
	applySettings(cfg, config.Default())
	return cfg
}

func applySettings(cfg *blockConfig, s config.Settings) {
	cfg.backend = s.BackendType()
	cfg.forceSoftware = s.Renderer.ForceSoftware
	cfg.compileWorkers = s.CompileWorkers
	cfg.validate = s.ValidateGeometry
	cfg.scale = mgl32.Vec3(s.Scale)
	cfg.defaultColor = s.Color()
}
