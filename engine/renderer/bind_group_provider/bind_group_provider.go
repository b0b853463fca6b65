package bind_group_provider

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// Attribute describes one field component published as a per-vertex buffer.
type Attribute struct {
	// Key is the component identity the attribute was published for.
	Key string
	// Source is the id of the component instance whose values the buffer holds.
	Source uuid.UUID
	// Location is the vertex shader location the attribute is bound to (1 or more; 0 is the position).
	Location int
	// Size is the byte size of the uploaded data.
	Size uint64
	// Buffer is the GPU vertex buffer, or nil on backends without a device.
	Buffer *wgpu.Buffer
	// Owned reports whether this provider created the buffer and must release it.
	// Attributes inherited from another provider are not owned.
	Owned bool
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer, not by user-creation.

	// buffers holds the GPU uniform buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// attributes holds the published per-vertex buffers, keyed by component key.
	attributes map[string]Attribute

	// The following fields are specific to geometry providers.

	// vertexBuffer is the GPU position buffer, or nil if not initialized with the Renderer.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer, or nil if not initialized with the Renderer.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices for draw calls, 0 for non-indexed geometry.
	indexCount int
	// vertexCount is the number of vertices in the position buffer.
	vertexCount int
}

// BindGroupProvider defines the interface for the GPU resources of one rendering handle.
// A rendering handle holds two providers: a geometry provider (position and index buffers),
// which copies of the handle share, and an attribute provider (uniform buffer and published
// component buffers), which every copy owns separately.
//
// Usage pattern:
//  1. The handle creates its providers with NewBindGroupProvider
//  2. The Renderer creates GPU resources and stores them on the provider
//  3. Copies inherit published attributes as non-owned with InheritAttributes
//  4. Release frees only what the provider owns
type BindGroupProvider interface {
	// Release releases the GPU resources owned by this provider.
	// Inherited attributes are forgotten but their buffers are left untouched.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Buffer returns the uniform buffer stored at a binding index.
	// Returns nil if GPU resources have not been initialized.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns a map of all uniform buffers, keyed by binding index.
	//
	// Returns:
	//   - map[int]*wgpu.Buffer: a map of buffers keyed by binding index
	Buffers() map[int]*wgpu.Buffer

	// SetBuffer stores a uniform buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// Attribute returns the attribute published for a component key.
	//
	// Parameters:
	//   - key: the component key
	//
	// Returns:
	//   - Attribute: the attribute
	//   - bool: false if no attribute is published under key
	Attribute(key string) (Attribute, bool)

	// Attributes returns every published attribute ordered by location.
	//
	// Returns:
	//   - []Attribute: the attributes
	Attributes() []Attribute

	// AttributeLocations returns the vertex location of every published attribute, keyed by component key.
	//
	// Returns:
	//   - map[string]int: locations keyed by component key
	AttributeLocations() map[string]int

	// SetAttribute stores a published attribute, replacing any attribute with the same key.
	//
	// Parameters:
	//   - a: the attribute
	SetAttribute(a Attribute)

	// NextLocation returns the first vertex location not used by a published attribute.
	//
	// Returns:
	//   - int: the next free location, starting at 1
	NextLocation() int

	// InheritAttributes copies every attribute of another provider into this one as non-owned.
	// Attributes already present are kept.
	//
	// Parameters:
	//   - from: the provider to inherit from
	InheritAttributes(from BindGroupProvider)

	// VertexBuffer returns the GPU position buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// VertexCount returns the number of vertices in the position buffer.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// SetVertexBuffer stores the GPU position buffer after creation by the Renderer.
	//
	// Parameters:
	//   - buf: the created vertex buffer
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the GPU index buffer after creation by the Renderer.
	//
	// Parameters:
	//   - buf: the created index buffer
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)

	// SetVertexCount sets the number of vertices in the position buffer.
	//
	// Parameters:
	//   - count: the vertex count
	SetVertexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:      label,
		buffers:    make(map[int]*wgpu.Buffer),
		attributes: make(map[string]Attribute),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Attribute(key string) (Attribute, bool) {
	a, ok := p.attributes[key]
	return a, ok
}

func (p *bindGroupProvider) Attributes() []Attribute {
	out := make([]Attribute, 0, len(p.attributes))
	for _, a := range p.attributes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}

func (p *bindGroupProvider) AttributeLocations() map[string]int {
	locs := make(map[string]int, len(p.attributes))
	for key, a := range p.attributes {
		locs[key] = a.Location
	}
	return locs
}

func (p *bindGroupProvider) SetAttribute(a Attribute) {
	if p.attributes == nil {
		p.attributes = make(map[string]Attribute)
	}
	p.attributes[a.Key] = a
}

func (p *bindGroupProvider) NextLocation() int {
	next := 1
	for _, a := range p.attributes {
		if a.Location >= next {
			next = a.Location + 1
		}
	}
	return next
}

func (p *bindGroupProvider) InheritAttributes(from BindGroupProvider) {
	for _, a := range from.Attributes() {
		if _, ok := p.attributes[a.Key]; ok {
			continue
		}
		a.Owned = false
		p.SetAttribute(a)
	}
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) VertexCount() int {
	return p.vertexCount
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) SetVertexCount(count int) {
	p.vertexCount = count
}

func (p *bindGroupProvider) Release() {
	for key, a := range p.attributes {
		if a.Owned && a.Buffer != nil {
			a.Buffer.Release()
		}
		delete(p.attributes, key)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
			delete(p.buffers, i)
		}
	}

	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}
