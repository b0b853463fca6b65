package block

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
)

// Threshold is an effect that hides every fragment whose scalar input lies outside a closed
// value range.
type Threshold interface {
	Effect

	// Bounds returns the visible value range.
	//
	// Returns:
	//   - float32: the lower bound
	//   - float32: the upper bound
	Bounds() (float32, float32)

	// SetBounds sets the visible value range and rebuilds the materials.
	//
	// Parameters:
	//   - lower: the lower bound
	//   - upper: the upper bound
	//
	// Returns:
	//   - error: the joined material build errors
	SetBounds(lower, upper float32) error

	// Passes reports whether v lies inside the visible range.
	//
	// Parameters:
	//   - v: the input value
	//
	// Returns:
	//   - bool: true if v is visible
	Passes(v float32) bool
}

type threshold struct {
	*effect

	hasBounds    bool
	lower, upper float32
}

var _ Threshold = &threshold{}

// NewThreshold layers a Threshold on parent. It reads one input; the visible range defaults to
// the input component's value range unless WithRange says otherwise.
//
// Parameters:
//   - parent: the block or effect to layer on
//   - options: variadic list of EffectBuilderOption functions
//
// Returns:
//   - Threshold: the new effect
//   - error: a resolution, publication or material build error
func NewThreshold(parent Block, options ...EffectBuilderOption) (Threshold, error) {
	cfg := newEffectConfig("threshold")
	for _, opt := range options {
		opt(cfg)
	}

	e, err := newEffect(parent, 1, cfg)
	if err != nil {
		return nil, err
	}
	t := &threshold{
		effect:    e,
		hasBounds: cfg.hasRange,
		lower:     cfg.lower,
		upper:     cfg.upper,
	}
	if err := t.contribute(); err != nil {
		e.Dispose()
		return nil, err
	}
	return t, nil
}

func (t *threshold) SetInput(requests []InputRequest) error {
	if err := t.effect.SetInput(requests); err != nil {
		return err
	}
	return t.contribute()
}

func (t *threshold) Bounds() (float32, float32) {
	if t.hasBounds {
		return t.lower, t.upper
	}
	if comp := t.inputs[0].Component(); comp != nil {
		return comp.Range()
	}
	return t.inputs[0].Value(), t.inputs[0].Value()
}

func (t *threshold) SetBounds(lower, upper float32) error {
	t.hasBounds = true
	t.lower, t.upper = lower, upper
	return t.contribute()
}

func (t *threshold) Passes(v float32) bool {
	lo, hi := t.Bounds()
	return v >= lo && v <= hi
}

// contribute replaces the effect's tagged color step with an alpha mask over the current input.
func (t *threshold) contribute() error {
	lo, hi := t.Bounds()
	above := shader_node.NewMathNode("step", shader_node.TypeFloat, shader_node.NewFloatNode(lo), t.inputNode)
	below := shader_node.NewMathNode("step", shader_node.TypeFloat, t.inputNode, shader_node.NewFloatNode(hi))
	mask, err := shader_node.NewOperatorNode(shader_node.OperatorMul, above, below)
	if err != nil {
		return fmt.Errorf("failed to build threshold of %s: %w", t.name, err)
	}
	color, err := alphaMask(mask)
	if err != nil {
		return fmt.Errorf("failed to build threshold of %s: %w", t.name, err)
	}
	return t.SetColorNode(t.id.String(), shader_node.OperationMul, color)
}

// alphaMask packs a scalar mask into the alpha channel of an otherwise neutral color.
func alphaMask(mask shader_node.Node) (shader_node.Node, error) {
	one := shader_node.NewFloatNode(1)
	return shader_node.NewJoinNode(one, one, one, mask)
}
