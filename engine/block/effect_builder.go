package block

import (
	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// effectConfig collects the options of NewEffect and the concrete effect constructors.
// Options a constructor has no use for are ignored.
type effectConfig struct {
	name   string
	inputs []InputRequest

	hasRange bool
	lower    float32
	upper    float32

	lowColor  colorful.Color
	highColor colorful.Color

	plane common.Plane
}

func newEffectConfig(name string) *effectConfig {
	return &effectConfig{
		name:      name,
		lowColor:  colorful.Color{R: 0.23, G: 0.3, B: 0.75},
		highColor: colorful.Color{R: 0.71, G: 0.02, B: 0.15},
		plane:     common.Plane{Normal: [3]float32{1, 0, 0}},
	}
}

// EffectBuilderOption is a function that configures an effect during construction.
type EffectBuilderOption func(*effectConfig)

// WithInputs sets the explicit inputs of the effect. Their count must equal the effect's input
// dimension. Without this option the effect resolves the default input.
//
// Parameters:
//   - requests: the inputs, in order
//
// Returns:
//   - EffectBuilderOption: a function that applies the inputs option to an effect
func WithInputs(requests ...InputRequest) EffectBuilderOption {
	return func(c *effectConfig) {
		c.inputs = append([]InputRequest{}, requests...)
	}
}

// WithEffectName sets the suffix appended to the parent's name to label the effect's handles.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - EffectBuilderOption: a function that applies the name option to an effect
func WithEffectName(name string) EffectBuilderOption {
	return func(c *effectConfig) {
		c.name = name
	}
}

// WithRange sets the value range of an IsoColor or Threshold. IsoColor defaults to the input
// component's value range; Threshold defaults to it as well.
//
// Parameters:
//   - lower: the lower bound
//   - upper: the upper bound
//
// Returns:
//   - EffectBuilderOption: a function that applies the range option to an effect
func WithRange(lower, upper float32) EffectBuilderOption {
	return func(c *effectConfig) {
		c.hasRange = true
		c.lower, c.upper = lower, upper
	}
}

// WithColorRamp sets the colors an IsoColor maps the bottom and top of its range to.
//
// Parameters:
//   - low: the color at the lower bound
//   - high: the color at the upper bound
//
// Returns:
//   - EffectBuilderOption: a function that applies the ramp option to an effect
func WithColorRamp(low, high colorful.Color) EffectBuilderOption {
	return func(c *effectConfig) {
		c.lowColor, c.highColor = low, high
	}
}

// WithPlane sets the plane of a ClipPlane: points p with dot(normal, p) + distance > 0 are hidden.
//
// Parameters:
//   - normal: the plane normal, normalized by the effect
//   - distance: the plane offset
//
// Returns:
//   - EffectBuilderOption: a function that applies the plane option to an effect
func WithPlane(normal mgl32.Vec3, distance float32) EffectBuilderOption {
	return func(c *effectConfig) {
		c.plane = common.Plane{Normal: [3]float32(normal), Distance: distance}
	}
}
