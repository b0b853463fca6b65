package block

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/go-gl/mathgl/mgl32"
)

// ClipPlane is an effect that hides everything on the side of a plane its normal points to.
// It reads no inputs.
type ClipPlane interface {
	Effect

	// Plane returns the normalized clipping plane.
	//
	// Returns:
	//   - common.Plane: the plane
	Plane() common.Plane

	// SetPlane sets the clipping plane and rebuilds the materials.
	//
	// Parameters:
	//   - normal: the plane normal
	//   - distance: the plane offset
	//
	// Returns:
	//   - error: the joined material build errors
	SetPlane(normal mgl32.Vec3, distance float32) error

	// Clipped reports whether p is hidden.
	//
	// Parameters:
	//   - p: the position
	//
	// Returns:
	//   - bool: true if p lies strictly on the positive side of the plane
	Clipped(p mgl32.Vec3) bool
}

type clipPlane struct {
	*effect

	plane common.Plane
}

var _ ClipPlane = &clipPlane{}

// NewClipPlane layers a ClipPlane on parent. WithPlane sets the plane; it defaults to the
// plane x = 0, hiding positive x.
//
// Parameters:
//   - parent: the block or effect to layer on
//   - options: variadic list of EffectBuilderOption functions
//
// Returns:
//   - ClipPlane: the new effect
//   - error: a material build error
func NewClipPlane(parent Block, options ...EffectBuilderOption) (ClipPlane, error) {
	cfg := newEffectConfig("clip_plane")
	for _, opt := range options {
		opt(cfg)
	}

	e, err := newEffect(parent, 0, cfg)
	if err != nil {
		return nil, err
	}
	c := &clipPlane{
		effect: e,
		plane:  cfg.plane.Normalize(),
	}
	if err := c.contribute(); err != nil {
		e.Dispose()
		return nil, err
	}
	return c, nil
}

func (c *clipPlane) Plane() common.Plane {
	return c.plane
}

func (c *clipPlane) SetPlane(normal mgl32.Vec3, distance float32) error {
	c.plane = common.Plane{Normal: [3]float32(normal), Distance: distance}.Normalize()
	return c.contribute()
}

func (c *clipPlane) Clipped(p mgl32.Vec3) bool {
	return c.plane.SignedDistance(p.X(), p.Y(), p.Z()) > 0
}

// contribute replaces the effect's tagged color step with an alpha mask over the fragment position.
func (c *clipPlane) contribute() error {
	n := c.plane.Normal
	normal, err := shader_node.NewConstNode(n[0], n[1], n[2])
	if err != nil {
		return fmt.Errorf("failed to build clip plane of %s: %w", c.name, err)
	}
	dot := shader_node.NewMathNode("dot", shader_node.TypeFloat, normal, shader_node.NewPositionNode())
	signed, err := shader_node.NewOperatorNode(shader_node.OperatorAdd, dot, shader_node.NewFloatNode(c.plane.Distance))
	if err != nil {
		return fmt.Errorf("failed to build clip plane of %s: %w", c.name, err)
	}
	mask := shader_node.NewMathNode("step", shader_node.TypeFloat, signed, shader_node.NewFloatNode(0))
	color, err := alphaMask(mask)
	if err != nil {
		return fmt.Errorf("failed to build clip plane of %s: %w", c.name, err)
	}
	return c.SetColorNode(c.id.String(), shader_node.OperationMul, color)
}
