package shader_node

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrJoinArity is returned when a join node is built from fewer than 1 or more than 4 inputs.
	ErrJoinArity = errors.New("join node takes 1 to 4 inputs")

	// ErrJoinInputType is returned when a join node input is not a scalar.
	ErrJoinInputType = errors.New("join node inputs must be scalars")

	// ErrTypeMismatch is returned when an operator node combines incompatible value types.
	ErrTypeMismatch = errors.New("incompatible node types")
)

// ValueType identifies the WGSL value type a Node evaluates to.
type ValueType int

const (
	// TypeFloat is a single f32 value.
	TypeFloat ValueType = iota + 1

	// TypeVec2 is a vec2<f32> value.
	TypeVec2

	// TypeVec3 is a vec3<f32> value.
	TypeVec3

	// TypeVec4 is a vec4<f32> value.
	TypeVec4
)

// VectorType returns the value type holding n float components.
//
// Parameters:
//   - n: the component count (1-4)
//
// Returns:
//   - ValueType: the matching value type
//   - bool: false if n is out of range
func VectorType(n int) (ValueType, bool) {
	if n < 1 || n > 4 {
		return 0, false
	}
	return ValueType(n), true
}

// Dimension returns the number of float components of the type.
func (t ValueType) Dimension() int {
	return int(t)
}

// WGSL returns the WGSL spelling of the type.
func (t ValueType) WGSL() string {
	switch t {
	case TypeFloat:
		return "f32"
	case TypeVec2, TypeVec3, TypeVec4:
		return fmt.Sprintf("vec%d<f32>", int(t))
	default:
		return "invalid"
	}
}

// Node is one immutable vertex of a shader graph. A Node evaluates to a WGSL expression
// of a known ValueType and may reference other nodes as inputs. Nodes are never mutated
// after construction, so graphs may share them freely.
type Node interface {
	// Type returns the value type the node evaluates to.
	//
	// Returns:
	//   - ValueType: the node's value type
	Type() ValueType

	// Inputs returns the nodes this node reads, in argument order.
	//
	// Returns:
	//   - []Node: the input nodes, or nil for leaves
	Inputs() []Node

	// WGSL renders the node as a WGSL expression usable inside a fragment entry point
	// whose input parameter is named "in".
	//
	// Returns:
	//   - string: the WGSL expression
	WGSL() string
}

// AttributeNode is a Node backed by a per-vertex buffer published on a rendering handle.
type AttributeNode interface {
	Node

	// Key returns the identity of the published buffer this node reads.
	//
	// Returns:
	//   - string: the attribute key
	Key() string

	// Identifier returns the WGSL member name used for this attribute in vertex inputs and varyings.
	//
	// Returns:
	//   - string: the WGSL identifier
	Identifier() string
}

type floatNode struct {
	value float32
}

// NewFloatNode creates a constant scalar node.
//
// Parameters:
//   - value: the literal value
//
// Returns:
//   - Node: the constant node
func NewFloatNode(value float32) Node {
	return &floatNode{value: value}
}

func (n *floatNode) Type() ValueType { return TypeFloat }
func (n *floatNode) Inputs() []Node  { return nil }
func (n *floatNode) WGSL() string    { return formatFloat(n.value) }

type constNode struct {
	values []float32
}

// NewConstNode creates a constant node of 1 to 4 components.
//
// Parameters:
//   - values: the literal components
//
// Returns:
//   - Node: the constant node
//   - error: ErrJoinArity if the component count is out of range
func NewConstNode(values ...float32) (Node, error) {
	if len(values) == 1 {
		return NewFloatNode(values[0]), nil
	}
	if _, ok := VectorType(len(values)); !ok {
		return nil, fmt.Errorf("%w: got %d constant components", ErrJoinArity, len(values))
	}
	return &constNode{values: append([]float32(nil), values...)}, nil
}

// NewColorNode creates a vec4 constant node from a color and an alpha value.
//
// Parameters:
//   - c: the RGB color
//   - alpha: the alpha component
//
// Returns:
//   - Node: the vec4 constant node
func NewColorNode(c colorful.Color, alpha float32) Node {
	r, g, b := c.Clamped().RGB255()
	return &constNode{values: []float32{float32(r) / 255, float32(g) / 255, float32(b) / 255, alpha}}
}

func (n *constNode) Type() ValueType { return ValueType(len(n.values)) }
func (n *constNode) Inputs() []Node  { return nil }

func (n *constNode) WGSL() string {
	parts := make([]string, len(n.values))
	for i, v := range n.values {
		parts[i] = formatFloat(v)
	}
	return fmt.Sprintf("%s(%s)", n.Type().WGSL(), strings.Join(parts, ", "))
}

type joinNode struct {
	inputs []Node
}

// NewJoinNode packs scalar nodes into a vector, preserving argument order:
// NewJoinNode(a, b, c) evaluates to vec3(a, b, c). A single input is returned as a
// one-component join that evaluates to that input.
//
// Parameters:
//   - inputs: the scalar nodes to pack (1-4)
//
// Returns:
//   - Node: the join node
//   - error: ErrJoinArity or ErrJoinInputType on invalid inputs
func NewJoinNode(inputs ...Node) (Node, error) {
	if len(inputs) < 1 || len(inputs) > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrJoinArity, len(inputs))
	}
	for i, in := range inputs {
		if in == nil || in.Type() != TypeFloat {
			return nil, fmt.Errorf("%w: input %d", ErrJoinInputType, i)
		}
	}
	return &joinNode{inputs: append([]Node(nil), inputs...)}, nil
}

func (n *joinNode) Type() ValueType { return ValueType(len(n.inputs)) }

func (n *joinNode) Inputs() []Node {
	return append([]Node(nil), n.inputs...)
}

func (n *joinNode) WGSL() string {
	if len(n.inputs) == 1 {
		return n.inputs[0].WGSL()
	}
	parts := make([]string, len(n.inputs))
	for i, in := range n.inputs {
		parts[i] = in.WGSL()
	}
	return fmt.Sprintf("%s(%s)", n.Type().WGSL(), strings.Join(parts, ", "))
}

type attributeNode struct {
	key        string
	identifier string
}

// NewAttributeNode creates a scalar node reading the per-vertex buffer published under key.
//
// Parameters:
//   - key: the published buffer identity
//
// Returns:
//   - AttributeNode: the attribute node
func NewAttributeNode(key string) AttributeNode {
	return &attributeNode{key: key, identifier: attributeIdentifier(key)}
}

func (n *attributeNode) Type() ValueType    { return TypeFloat }
func (n *attributeNode) Inputs() []Node     { return nil }
func (n *attributeNode) WGSL() string       { return "in." + n.identifier }
func (n *attributeNode) Key() string        { return n.key }
func (n *attributeNode) Identifier() string { return n.identifier }

type positionNode struct{}

// NewPositionNode creates a vec3 node reading the unscaled vertex position.
//
// Returns:
//   - Node: the position node
func NewPositionNode() Node {
	return positionNode{}
}

func (positionNode) Type() ValueType { return TypeVec3 }
func (positionNode) Inputs() []Node  { return nil }
func (positionNode) WGSL() string    { return "in.position" }

// Operator is a binary arithmetic operator.
type Operator string

const (
	OperatorAdd Operator = "+"
	OperatorSub Operator = "-"
	OperatorMul Operator = "*"
	OperatorDiv Operator = "/"
)

type operatorNode struct {
	op   Operator
	a, b Node
	typ  ValueType
}

// NewOperatorNode combines two nodes with a binary operator. Operands must share a type,
// or one of them must be a scalar, which WGSL broadcasts over the other.
//
// Parameters:
//   - op: the operator
//   - a: the left operand
//   - b: the right operand
//
// Returns:
//   - Node: the operator node
//   - error: ErrTypeMismatch if the operand types cannot be combined
func NewOperatorNode(op Operator, a, b Node) (Node, error) {
	typ, err := broadcast(a.Type(), b.Type())
	if err != nil {
		return nil, err
	}
	return &operatorNode{op: op, a: a, b: b, typ: typ}, nil
}

func (n *operatorNode) Type() ValueType { return n.typ }
func (n *operatorNode) Inputs() []Node  { return []Node{n.a, n.b} }

func (n *operatorNode) WGSL() string {
	return fmt.Sprintf("(%s %s %s)", n.a.WGSL(), n.op, n.b.WGSL())
}

type mathNode struct {
	fn   string
	typ  ValueType
	args []Node
}

// NewMathNode calls a WGSL builtin function (clamp, mix, dot, select, step, ...).
// The result type is declared by the caller since it depends on the builtin.
//
// Parameters:
//   - fn: the builtin name
//   - typ: the result type
//   - args: the arguments in call order
//
// Returns:
//   - Node: the call node
func NewMathNode(fn string, typ ValueType, args ...Node) Node {
	return &mathNode{fn: fn, typ: typ, args: append([]Node(nil), args...)}
}

func (n *mathNode) Type() ValueType { return n.typ }

func (n *mathNode) Inputs() []Node {
	return append([]Node(nil), n.args...)
}

func (n *mathNode) WGSL() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.WGSL()
	}
	return fmt.Sprintf("%s(%s)", n.fn, strings.Join(parts, ", "))
}

func broadcast(a, b ValueType) (ValueType, error) {
	switch {
	case a == b:
		return a, nil
	case a == TypeFloat:
		return b, nil
	case b == TypeFloat:
		return a, nil
	default:
		return 0, fmt.Errorf("%w: %s and %s", ErrTypeMismatch, a.WGSL(), b.WGSL())
	}
}

// formatFloat renders a float32 as a WGSL literal. Non-finite values have no literal
// form and are emitted as bit casts.
func formatFloat(v float32) string {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("bitcast<f32>(0x%08xu)", math.Float32bits(v))
	}
	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func attributeIdentifier(key string) string {
	var b strings.Builder
	b.WriteString("attr_")
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	fmt.Fprintf(&b, "_%08x", h.Sum32())
	return b.String()
}
