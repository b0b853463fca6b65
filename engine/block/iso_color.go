package block

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
)

// IsoColor is an effect that colors its scalar input through a color ramp. The input is
// normalized over a value range, which defaults to the input component's own range, and mapped
// from the low color through their Lab midpoint to the high color.
type IsoColor interface {
	Effect

	// Range returns the value range mapped onto the ramp.
	//
	// Returns:
	//   - float32: the value mapped to the low color
	//   - float32: the value mapped to the high color
	Range() (float32, float32)

	// SetRange fixes the value range and rebuilds the materials.
	//
	// Parameters:
	//   - lower: the value mapped to the low color
	//   - upper: the value mapped to the high color
	//
	// Returns:
	//   - error: the joined material build errors
	SetRange(lower, upper float32) error

	// Ramp returns the ramp end colors.
	//
	// Returns:
	//   - colorful.Color: the low color
	//   - colorful.Color: the high color
	Ramp() (colorful.Color, colorful.Color)

	// SetRamp sets the ramp end colors and rebuilds the materials.
	//
	// Parameters:
	//   - low: the low color
	//   - high: the high color
	//
	// Returns:
	//   - error: the joined material build errors
	SetRamp(low, high colorful.Color) error

	// ColorAt evaluates the ramp on the CPU for v, matching what the shader draws.
	//
	// Parameters:
	//   - v: the input value
	//
	// Returns:
	//   - colorful.Color: the color
	ColorAt(v float32) colorful.Color
}

type isoColor struct {
	*effect

	hasRange     bool
	lower, upper float32
	low, high    colorful.Color
}

var _ IsoColor = &isoColor{}

// NewIsoColor layers an IsoColor on parent. It reads one input, the first component of the
// first field unless WithInputs says otherwise. WithRange and WithColorRamp configure it.
//
// Parameters:
//   - parent: the block or effect to layer on
//   - options: variadic list of EffectBuilderOption functions
//
// Returns:
//   - IsoColor: the new effect
//   - error: a resolution, publication or material build error
func NewIsoColor(parent Block, options ...EffectBuilderOption) (IsoColor, error) {
	cfg := newEffectConfig("iso_color")
	for _, opt := range options {
		opt(cfg)
	}

	e, err := newEffect(parent, 1, cfg)
	if err != nil {
		return nil, err
	}
	c := &isoColor{
		effect:   e,
		hasRange: cfg.hasRange,
		lower:    cfg.lower,
		upper:    cfg.upper,
		low:      cfg.lowColor,
		high:     cfg.highColor,
	}
	if err := c.contribute(); err != nil {
		e.Dispose()
		return nil, err
	}
	return c, nil
}

func (c *isoColor) SetInput(requests []InputRequest) error {
	if err := c.effect.SetInput(requests); err != nil {
		return err
	}
	return c.contribute()
}

func (c *isoColor) Range() (float32, float32) {
	if c.hasRange {
		return c.lower, c.upper
	}
	if comp := c.inputs[0].Component(); comp != nil {
		return comp.Range()
	}
	return 0, 1
}

func (c *isoColor) SetRange(lower, upper float32) error {
	c.hasRange = true
	c.lower, c.upper = lower, upper
	return c.contribute()
}

func (c *isoColor) Ramp() (colorful.Color, colorful.Color) {
	return c.low, c.high
}

func (c *isoColor) SetRamp(low, high colorful.Color) error {
	c.low, c.high = low, high
	return c.contribute()
}

func (c *isoColor) midpoint() colorful.Color {
	return c.low.BlendLab(c.high, 0.5).Clamped()
}

// normalize maps v onto [0, 1] over the range.
func (c *isoColor) normalize(v float32) float32 {
	lo, hi := c.Range()
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return math32.Min(math32.Max((v-lo)/span, 0), 1)
}

func (c *isoColor) ColorAt(v float32) colorful.Color {
	t := float64(c.normalize(v))
	mid := c.midpoint()
	if t < 0.5 {
		return c.low.BlendRgb(mid, t*2)
	}
	return mid.BlendRgb(c.high, t*2-1)
}

// contribute replaces the effect's tagged color step with the ramp over the current input.
func (c *isoColor) contribute() error {
	lo, hi := c.Range()
	span := hi - lo
	if span == 0 {
		span = 1
	}

	shifted, err := shader_node.NewOperatorNode(shader_node.OperatorSub, c.inputNode, shader_node.NewFloatNode(lo))
	if err != nil {
		return fmt.Errorf("failed to build iso color of %s: %w", c.name, err)
	}
	scaled, err := shader_node.NewOperatorNode(shader_node.OperatorDiv, shifted, shader_node.NewFloatNode(span))
	if err != nil {
		return fmt.Errorf("failed to build iso color of %s: %w", c.name, err)
	}
	t := clamp01(scaled)

	doubled, err := shader_node.NewOperatorNode(shader_node.OperatorMul, t, shader_node.NewFloatNode(2))
	if err != nil {
		return fmt.Errorf("failed to build iso color of %s: %w", c.name, err)
	}
	upperHalf, err := shader_node.NewOperatorNode(shader_node.OperatorSub, doubled, shader_node.NewFloatNode(1))
	if err != nil {
		return fmt.Errorf("failed to build iso color of %s: %w", c.name, err)
	}

	low := shader_node.NewColorNode(c.low, 1)
	mid := shader_node.NewColorNode(c.midpoint(), 1)
	high := shader_node.NewColorNode(c.high, 1)
	first := shader_node.NewMathNode("mix", shader_node.TypeVec4, low, mid, clamp01(doubled))
	second := shader_node.NewMathNode("mix", shader_node.TypeVec4, mid, high, clamp01(upperHalf))
	color := shader_node.NewMathNode("mix", shader_node.TypeVec4, first, second,
		shader_node.NewMathNode("step", shader_node.TypeFloat, shader_node.NewFloatNode(0.5), t))

	return c.SetColorNode(c.id.String(), shader_node.OperationAssign, color)
}

func clamp01(n shader_node.Node) shader_node.Node {
	return shader_node.NewMathNode("clamp", shader_node.TypeFloat, n, shader_node.NewFloatNode(0), shader_node.NewFloatNode(1))
}
