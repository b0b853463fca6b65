package data

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/google/uuid"
)

var (
	// ErrUnknownComponent is returned when a component name is not part of a field.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidDimension is returned when a field is built with 0 or more than 4 components.
	ErrInvalidDimension = errors.New("field dimension must be between 1 and 4")

	// ErrLengthMismatch is returned when the components of one field cover different vertex counts.
	ErrLengthMismatch = errors.New("component lengths differ")

	// ErrDuplicateComponent is returned when two components of a field share a name.
	ErrDuplicateComponent = errors.New("duplicate component name")

	// ErrInvalidName is returned when a field or component name is empty or contains KeySeparator.
	ErrInvalidName = errors.New("invalid name")
)

// MaxDimension is the largest number of components a field may have.
const MaxDimension = 4

// KeySeparator joins the field and component names of a component key.
const KeySeparator = "/"

// data is the implementation of the Data interface.
type data struct {
	name       string
	components []Component
	pending    []pendingComponent
}

// Data defines the interface for a named field over a mesh's vertices. A field holds one to four
// scalar components that all cover the same vertex set.
//
// Data is immutable once built; it is shared by reference between a block and every effect
// layered on it.
type Data interface {
	// Name returns the field name.
	//
	// Returns:
	//   - string: the field name
	Name() string

	// Dimension returns the number of components in the field.
	//
	// Returns:
	//   - int: the component count, between 1 and 4
	Dimension() int

	// Components returns the field's components in declaration order.
	//
	// Returns:
	//   - []Component: the components
	Components() []Component

	// Component looks up a component by name.
	//
	// Parameters:
	//   - name: the component name
	//
	// Returns:
	//   - Component: the component
	//   - error: an error wrapping ErrUnknownComponent if no component has that name
	Component(name string) (Component, error)

	// VertexCount returns the number of values in each component.
	//
	// Returns:
	//   - int: the per-component value count
	VertexCount() int
}

var _ Data = &data{}

// NewData creates a new field with the given name and components.
//
// Parameters:
//   - name: the field name
//   - options: variadic list of DataBuilderOption functions adding components
//
// Returns:
//   - Data: the new field
//   - error: an error if a name is invalid, or the component set is empty, too large, inconsistent or has duplicate names
func NewData(name string, options ...DataBuilderOption) (Data, error) {
	if err := validName(name); err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	d := &data{name: name}
	for _, opt := range options {
		opt(d)
	}

	if len(d.pending) == 0 || len(d.pending) > MaxDimension {
		return nil, fmt.Errorf("field %q has %d components: %w", name, len(d.pending), ErrInvalidDimension)
	}

	seen := make(map[string]struct{}, len(d.pending))
	n := len(d.pending[0].values)
	for _, p := range d.pending {
		if err := validName(p.name); err != nil {
			return nil, fmt.Errorf("field %q component: %w", name, err)
		}
		if _, ok := seen[p.name]; ok {
			return nil, fmt.Errorf("field %q component %q: %w", name, p.name, ErrDuplicateComponent)
		}
		seen[p.name] = struct{}{}
		if len(p.values) != n {
			return nil, fmt.Errorf("field %q component %q has %d values, expected %d: %w", name, p.name, len(p.values), n, ErrLengthMismatch)
		}
	}

	d.components = make([]Component, 0, len(d.pending))
	for _, p := range d.pending {
		d.components = append(d.components, newComponent(d.name, p.name, p.values))
	}
	d.pending = nil
	return d, nil
}

func validName(name string) error {
	if name == "" || strings.Contains(name, KeySeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (d *data) Name() string {
	return d.name
}

func (d *data) Dimension() int {
	return len(d.components)
}

func (d *data) Components() []Component {
	return d.components
}

func (d *data) Component(name string) (Component, error) {
	for _, c := range d.components {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("field %q has no component %q: %w", d.name, name, ErrUnknownComponent)
}

func (d *data) VertexCount() int {
	if len(d.components) == 0 {
		return 0
	}
	return len(d.components[0].Array())
}

// component is the implementation of the Component interface.
type component struct {
	id       uuid.UUID
	name     string
	dataName string
	key      string
	values   []float32
	node     shader_node.AttributeNode
	min, max float32
}

// Component defines the interface for one scalar channel of a field.
type Component interface {
	// ID returns the identity of this component instance. Two components built separately never
	// share an id, even when their keys are equal.
	//
	// Returns:
	//   - uuid.UUID: the component id
	ID() uuid.UUID

	// Name returns the component name.
	//
	// Returns:
	//   - string: the component name
	Name() string

	// DataName returns the name of the field the component belongs to.
	//
	// Returns:
	//   - string: the field name
	DataName() string

	// Key returns the name the component is published under on a rendering handle. Publication
	// checks ID as well, so a different component with an equal key is rejected, not skipped.
	//
	// Returns:
	//   - string: the key, "field/component"
	Key() string

	// Array returns the component values, one per vertex.
	//
	// Returns:
	//   - []float32: the values
	Array() []float32

	// Node returns the shader node reading this component per vertex.
	//
	// Returns:
	//   - shader_node.AttributeNode: the attribute node
	Node() shader_node.AttributeNode

	// Range returns the finite minimum and maximum of the values.
	//
	// Returns:
	//   - float32: the minimum
	//   - float32: the maximum
	Range() (float32, float32)
}

var _ Component = &component{}

func newComponent(dataName, name string, values []float32) *component {
	key := dataName + KeySeparator + name
	lo, hi := common.ValueRange(values)
	return &component{
		id:       uuid.New(),
		name:     name,
		dataName: dataName,
		key:      key,
		values:   values,
		node:     shader_node.NewAttributeNode(key),
		min:      lo,
		max:      hi,
	}
}

func (c *component) ID() uuid.UUID {
	return c.id
}

func (c *component) Name() string {
	return c.name
}

func (c *component) DataName() string {
	return c.dataName
}

func (c *component) Key() string {
	return c.key
}

func (c *component) Array() []float32 {
	return c.values
}

func (c *component) Node() shader_node.AttributeNode {
	return c.node
}

func (c *component) Range() (float32, float32) {
	return c.min, c.max
}
