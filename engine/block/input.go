package block

import (
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-fields/engine/data"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
)

// MaxInputDimension is the largest input dimension an effect may declare.
const MaxInputDimension = 4

// InputRequest is one explicitly requested effect input: a literal number or a reference to a
// component of a named field.
type InputRequest struct {
	literal   float32
	isLiteral bool
	field     string
	component string
}

// Literal requests a constant input.
func Literal(v float32) InputRequest {
	return InputRequest{literal: v, isLiteral: true}
}

// ComponentRef requests the named component of the named field.
func ComponentRef(field, component string) InputRequest {
	return InputRequest{field: field, component: component}
}

// IsLiteral reports whether the request is a constant.
func (r InputRequest) IsLiteral() bool {
	return r.isLiteral
}

func (r InputRequest) String() string {
	if r.isLiteral {
		return strconv.FormatFloat(float64(r.literal), 'g', -1, 32)
	}
	return r.field + "/" + r.component
}

// Input is one resolved effect input: a literal number or a field component.
type Input struct {
	literal   float32
	component data.Component
}

// LiteralInput returns a resolved constant input.
func LiteralInput(v float32) Input {
	return Input{literal: v}
}

// ComponentInput returns a resolved component input.
func ComponentInput(c data.Component) Input {
	return Input{component: c}
}

// IsLiteral reports whether the input is a constant.
func (i Input) IsLiteral() bool {
	return i.component == nil
}

// Value returns the constant of a literal input, or 0 for a component input.
func (i Input) Value() float32 {
	return i.literal
}

// Component returns the component of a component input, or nil for a literal input.
func (i Input) Component() data.Component {
	return i.component
}

// Node returns the shader node of the input: the component's attribute node, or a float node
// holding the literal.
func (i Input) Node() shader_node.Node {
	if i.component != nil {
		return i.component.Node()
	}
	return shader_node.NewFloatNode(i.literal)
}

func (i Input) String() string {
	if i.component != nil {
		return i.component.Key()
	}
	return strconv.FormatFloat(float64(i.literal), 'g', -1, 32)
}

// ResolveDefaultInput picks the inputs of an effect that was given none: the components of the
// first field, padded with literal 0 when the field has fewer components than dimension and
// truncated when it has more.
//
// Parameters:
//   - fields: the block's fields in insertion order
//   - dimension: the effect's input dimension
//
// Returns:
//   - []Input: the resolved inputs, nil when dimension is 0
//   - []data.Component: the components the inputs reference, in input order without duplicates
//   - error: ErrNoDataAvailable if there are no fields, or ErrInvalidInputDimension
func ResolveDefaultInput(fields []data.Data, dimension int) ([]Input, []data.Component, error) {
	if err := checkDimension(dimension); err != nil {
		return nil, nil, err
	}
	if dimension == 0 {
		return nil, nil, nil
	}
	if len(fields) == 0 {
		return nil, nil, ErrNoDataAvailable
	}

	components := fields[0].Components()
	inputs := make([]Input, dimension)
	for i := range inputs {
		if i < len(components) {
			inputs[i] = ComponentInput(components[i])
		} else {
			inputs[i] = LiteralInput(0)
		}
	}
	return inputs, consumedComponents(inputs), nil
}

// ResolveInputs resolves an effect's inputs. A nil request list selects the default input; any
// other list must hold exactly dimension requests. Literals pass through unchanged and component
// references are looked up by field name, the first field with that name winning. A dimension of
// 0 resolves to nothing whatever the requests are.
//
// Parameters:
//   - fields: the block's fields in insertion order
//   - dimension: the effect's input dimension
//   - requests: the explicit inputs, or nil
//
// Returns:
//   - []Input: the resolved inputs
//   - []data.Component: the components the inputs reference, in input order without duplicates
//   - error: ErrInputArityMismatch, ErrUnknownField, data.ErrUnknownComponent, or a default input error
func ResolveInputs(fields []data.Data, dimension int, requests []InputRequest) ([]Input, []data.Component, error) {
	if err := checkDimension(dimension); err != nil {
		return nil, nil, err
	}
	if dimension == 0 {
		return nil, nil, nil
	}
	if requests == nil {
		return ResolveDefaultInput(fields, dimension)
	}
	if len(requests) != dimension {
		return nil, nil, fmt.Errorf("%w: got %d inputs, expected %d", ErrInputArityMismatch, len(requests), dimension)
	}

	inputs := make([]Input, 0, dimension)
	for _, r := range requests {
		if r.isLiteral {
			inputs = append(inputs, LiteralInput(r.literal))
			continue
		}
		f := findField(fields, r.field)
		if f == nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, r.field)
		}
		c, err := f.Component(r.component)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, ComponentInput(c))
	}
	return inputs, consumedComponents(inputs), nil
}

// BuildInputNode builds the shader node an effect reads its input from. A single input is its
// own node; several inputs are joined into a vector in input order.
//
// Parameters:
//   - inputs: the resolved inputs
//
// Returns:
//   - shader_node.Node: the input node, nil when there are no inputs
//   - error: an error if the join cannot be built
func BuildInputNode(inputs []Input) (shader_node.Node, error) {
	switch len(inputs) {
	case 0:
		return nil, nil
	case 1:
		return inputs[0].Node(), nil
	}
	nodes := make([]shader_node.Node, len(inputs))
	for i, in := range inputs {
		nodes[i] = in.Node()
	}
	return shader_node.NewJoinNode(nodes...)
}

func checkDimension(dimension int) error {
	if dimension < 0 || dimension > MaxInputDimension {
		return fmt.Errorf("%w: got %d", ErrInvalidInputDimension, dimension)
	}
	return nil
}

func findField(fields []data.Data, name string) data.Data {
	for _, f := range fields {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func consumedComponents(inputs []Input) []data.Component {
	var out []data.Component
	seen := make(map[string]bool)
	for _, in := range inputs {
		c := in.Component()
		if c == nil || seen[c.Key()] {
			continue
		}
		seen[c.Key()] = true
		out = append(out, c)
	}
	return out
}
