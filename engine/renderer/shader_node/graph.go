package shader_node

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnpublishedAttribute is returned when a graph references an attribute that has no
// vertex location on the handle being compiled.
var ErrUnpublishedAttribute = errors.New("attribute is not published")

// UniformSize is the byte size of the uniform block declared by generated sources:
// a column-major mat4x4 transform, a vec4 scale and a vec4 default color.
const UniformSize = 96

// Operation selects how a color step combines with the color accumulated so far.
type Operation int

const (
	// OperationAssign replaces the accumulated color.
	OperationAssign Operation = iota

	// OperationMul multiplies the accumulated color.
	OperationMul

	// OperationAdd adds to the accumulated color.
	OperationAdd

	// OperationSub subtracts from the accumulated color.
	OperationSub

	// OperationDiv divides the accumulated color.
	OperationDiv
)

func (o Operation) String() string {
	switch o {
	case OperationAssign:
		return "assign"
	case OperationMul:
		return "mul"
	case OperationAdd:
		return "add"
	case OperationSub:
		return "sub"
	case OperationDiv:
		return "div"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

func (o Operation) statement(expr string) string {
	switch o {
	case OperationMul:
		return fmt.Sprintf("color = color * %s;", expr)
	case OperationAdd:
		return fmt.Sprintf("color = color + %s;", expr)
	case OperationSub:
		return fmt.Sprintf("color = color - %s;", expr)
	case OperationDiv:
		return fmt.Sprintf("color = color / %s;", expr)
	default:
		return fmt.Sprintf("color = %s;", expr)
	}
}

// ColorStep is one entry of a Graph's color chain.
type ColorStep struct {
	// Tag identifies a step that its contributor may later replace. Empty for plain appends.
	Tag string

	// Operation is how the step combines with the color accumulated before it.
	Operation Operation

	// Node is the color contribution.
	Node Node
}

// Graph is the per-handle color graph: the handle's default color followed by an ordered
// chain of color steps. Each rendering handle owns its Graph; copies made with Clone share
// the immutable nodes but not the step list.
type Graph struct {
	steps []ColorStep
}

// NewGraph creates an empty color graph that renders the default color.
//
// Returns:
//   - *Graph: the empty graph
func NewGraph() *Graph {
	return &Graph{}
}

// AddColorNode appends a color step.
//
// Parameters:
//   - op: how the node combines with the accumulated color
//   - node: the color contribution
func (g *Graph) AddColorNode(op Operation, node Node) {
	g.steps = append(g.steps, ColorStep{Operation: op, Node: node})
}

// SetColorNode replaces the step carrying tag in place, or appends a new tagged step
// if none exists.
//
// Parameters:
//   - tag: the step identity
//   - op: how the node combines with the accumulated color
//   - node: the color contribution
func (g *Graph) SetColorNode(tag string, op Operation, node Node) {
	for i := range g.steps {
		if tag != "" && g.steps[i].Tag == tag {
			g.steps[i] = ColorStep{Tag: tag, Operation: op, Node: node}
			return
		}
	}
	g.steps = append(g.steps, ColorStep{Tag: tag, Operation: op, Node: node})
}

// Steps returns a copy of the color chain in evaluation order.
func (g *Graph) Steps() []ColorStep {
	return append([]ColorStep(nil), g.steps...)
}

// Len returns the number of color steps.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Clone returns an independent graph with the same steps.
func (g *Graph) Clone() *Graph {
	return &Graph{steps: append([]ColorStep(nil), g.steps...)}
}

// Attributes returns every attribute node the chain references, deduplicated by key, in
// order of first appearance.
func (g *Graph) Attributes() []AttributeNode {
	seen := make(map[string]bool)
	var out []AttributeNode
	var walk func(n Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		if a, ok := n.(AttributeNode); ok {
			if !seen[a.Key()] {
				seen[a.Key()] = true
				out = append(out, a)
			}
			return
		}
		for _, in := range n.Inputs() {
			walk(in)
		}
	}
	for _, s := range g.steps {
		walk(s.Node)
	}
	return out
}

// Source generates a complete WGSL module (vs_main and fs_main) for the graph.
// Vertex location 0 is the position; every referenced attribute must have a location
// of 1 or more in locations. Fragments whose final alpha is not positive are discarded.
//
// Parameters:
//   - locations: vertex locations keyed by attribute key
//
// Returns:
//   - string: the WGSL source
//   - error: ErrUnpublishedAttribute if a referenced attribute has no location
func (g *Graph) Source(locations map[string]int) (string, error) {
	type binding struct {
		location int
		attr     AttributeNode
	}
	var bindings []binding
	for _, a := range g.Attributes() {
		loc, ok := locations[a.Key()]
		if !ok || loc < 1 {
			return "", fmt.Errorf("%w: %q", ErrUnpublishedAttribute, a.Key())
		}
		bindings = append(bindings, binding{location: loc, attr: a})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].location < bindings[j].location })

	var b strings.Builder
	b.WriteString("struct Uniforms {\n")
	b.WriteString("    transform: mat4x4<f32>,\n")
	b.WriteString("    scale: vec4<f32>,\n")
	b.WriteString("    default_color: vec4<f32>,\n")
	b.WriteString("};\n\n")
	b.WriteString("@group(0) @binding(0) var<uniform> uniforms: Uniforms;\n\n")

	b.WriteString("struct VertexInput {\n")
	b.WriteString("    @location(0) position: vec3<f32>,\n")
	for _, bd := range bindings {
		fmt.Fprintf(&b, "    @location(%d) %s: %s,\n", bd.location, bd.attr.Identifier(), bd.attr.Type().WGSL())
	}
	b.WriteString("};\n\n")

	b.WriteString("struct VertexOutput {\n")
	b.WriteString("    @builtin(position) clip_position: vec4<f32>,\n")
	b.WriteString("    @location(0) position: vec3<f32>,\n")
	for _, bd := range bindings {
		fmt.Fprintf(&b, "    @location(%d) %s: %s,\n", bd.location, bd.attr.Identifier(), bd.attr.Type().WGSL())
	}
	b.WriteString("};\n\n")

	b.WriteString("@vertex\n")
	b.WriteString("fn vs_main(in: VertexInput) -> VertexOutput {\n")
	b.WriteString("    var out: VertexOutput;\n")
	b.WriteString("    out.clip_position = uniforms.transform * vec4<f32>(in.position * uniforms.scale.xyz, 1.0);\n")
	b.WriteString("    out.position = in.position;\n")
	for _, bd := range bindings {
		fmt.Fprintf(&b, "    out.%[1]s = in.%[1]s;\n", bd.attr.Identifier())
	}
	b.WriteString("    return out;\n")
	b.WriteString("}\n\n")

	b.WriteString("@fragment\n")
	b.WriteString("fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	b.WriteString("    var color: vec4<f32> = uniforms.default_color;\n")
	for _, s := range g.steps {
		fmt.Fprintf(&b, "    %s\n", s.Operation.statement(colorExpression(s.Node)))
	}
	b.WriteString("    if (color.a <= 0.0) {\n")
	b.WriteString("        discard;\n")
	b.WriteString("    }\n")
	b.WriteString("    return color;\n")
	b.WriteString("}\n")
	return b.String(), nil
}

// colorExpression promotes a node to a vec4 color expression.
func colorExpression(n Node) string {
	switch n.Type() {
	case TypeFloat:
		return fmt.Sprintf("vec4<f32>(vec3<f32>(%s), 1.0)", n.WGSL())
	case TypeVec2:
		return fmt.Sprintf("vec4<f32>(%s, 0.0, 1.0)", n.WGSL())
	case TypeVec3:
		return fmt.Sprintf("vec4<f32>(%s, 1.0)", n.WGSL())
	default:
		return n.WGSL()
	}
}
