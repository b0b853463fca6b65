package block

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-fields/common"
	"github.com/Carmen-Shannon/oxy-fields/engine/data"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/shader_node"
	"github.com/google/uuid"
)

// effect is the implementation of the Effect interface.
// It embeds the block record it renders through; the geometry inside that record is the
// parent's.
type effect struct {
	*block

	parent         Block
	id             uuid.UUID
	inputDimension int
	inputs         []Input
	inputNode      shader_node.Node
}

// Effect defines the interface for a block layered on another block. An effect shares its
// parent's geometry and fields but renders through its own copies of the parent's rendering
// handles, so its color graph can diverge from the parent's.
//
// An effect declares an input dimension (0 to 4) and resolves that many inputs against the
// shared fields. Concrete effects read the resolved input through InputNode and contribute
// color steps built from it.
type Effect interface {
	Block

	// Parent returns the block this effect is layered on. The effect does not own it.
	//
	// Returns:
	//   - Block: the parent
	Parent() Block

	// ID returns the effect's identity token.
	//
	// Returns:
	//   - uuid.UUID: the id
	ID() uuid.UUID

	// InputDimension returns the number of inputs the effect reads.
	//
	// Returns:
	//   - int: the input dimension, 0 to 4
	InputDimension() int

	// Inputs returns the resolved inputs.
	//
	// Returns:
	//   - []Input: a copy of the inputs, nil for a dimension of 0
	Inputs() []Input

	// InputNode returns the shader node the inputs resolve to.
	//
	// Returns:
	//   - shader_node.Node: the input node, nil for a dimension of 0
	InputNode() shader_node.Node

	// SetInput re-resolves the inputs. A nil list selects the default input. The referenced
	// components are published on the effect's own rendering handles before the new inputs
	// are committed; on error the previous inputs are kept. Does nothing for a dimension of 0.
	//
	// Parameters:
	//   - requests: the explicit inputs, or nil
	//
	// Returns:
	//   - error: a resolution or publication error
	SetInput(requests []InputRequest) error

	// AddColorNode appends a color step to every rendering handle the effect owns and
	// rebuilds their materials.
	//
	// Parameters:
	//   - op: the combine operation
	//   - node: the color node
	//
	// Returns:
	//   - error: the joined material build errors
	AddColorNode(op shader_node.Operation, node shader_node.Node) error

	// SetColorNode replaces the color step tagged tag on every rendering handle the effect
	// owns, appending it where missing, and rebuilds their materials.
	//
	// Parameters:
	//   - tag: the step tag
	//   - op: the combine operation
	//   - node: the color node
	//
	// Returns:
	//   - error: the joined material build errors
	SetColorNode(tag string, op shader_node.Operation, node shader_node.Node) error
}

var _ Effect = &effect{}

// NewEffect layers a new effect on parent. The effect shares the parent's geometry, copies
// the parent's rendering handles, resolves its inputs and builds its materials. On any failure
// the copied handles are disposed and no effect is returned.
//
// Parameters:
//   - parent: the block or effect to layer on
//   - inputDimension: the number of inputs, 0 to 4
//   - options: variadic list of EffectBuilderOption functions to configure the effect
//
// Returns:
//   - Effect: the new effect
//   - error: a resolution, publication or material build error
func NewEffect(parent Block, inputDimension int, options ...EffectBuilderOption) (Effect, error) {
	cfg := newEffectConfig("effect")
	for _, opt := range options {
		opt(cfg)
	}

	e, err := newEffect(parent, inputDimension, cfg)
	if err != nil {
		return nil, err
	}
	if err := e.BuildMaterials(); err != nil {
		e.Dispose()
		return nil, err
	}
	return e, nil
}

// newEffect builds an effect up to input resolution. The caller builds its materials.
func newEffect(parent Block, inputDimension int, cfg *effectConfig) (*effect, error) {
	if parent == nil {
		return nil, errors.New("effect requires a parent block")
	}
	if err := checkDimension(inputDimension); err != nil {
		return nil, err
	}
	pb := parent.base()
	if pb.disposed {
		return nil, fmt.Errorf("layer %s on %s: %w", cfg.name, pb.name, ErrDisposed)
	}

	b := &block{
		name:           pb.name + "/" + cfg.name,
		geometry:       pb.geometry,
		renderer:       pb.renderer,
		profiler:       pb.profiler,
		compileWorkers: pb.compileWorkers,
		scale:          pb.scale,
		defaultColor:   pb.defaultColor,
	}
	for _, m := range pb.meshes {
		c, err := m.Copy(b.name + "/" + m.Topology().String())
		if err != nil {
			b.Dispose()
			return nil, err
		}
		b.meshes = append(b.meshes, c)
	}
	b.initPool()

	e := &effect{
		block:          b,
		parent:         parent,
		id:             uuid.New(),
		inputDimension: inputDimension,
	}
	if err := e.SetInput(cfg.inputs); err != nil {
		e.Dispose()
		return nil, err
	}

	common.Logger().Debug("effect created", "effect", b.name, "id", e.id, "inputs", len(e.inputs))
	return e, nil
}

func (e *effect) Parent() Block {
	return e.parent
}

func (e *effect) ID() uuid.UUID {
	return e.id
}

func (e *effect) InputDimension() int {
	return e.inputDimension
}

func (e *effect) Inputs() []Input {
	if e.inputs == nil {
		return nil
	}
	return append([]Input(nil), e.inputs...)
}

func (e *effect) InputNode() shader_node.Node {
	return e.inputNode
}

func (e *effect) SetInput(requests []InputRequest) error {
	if e.inputDimension == 0 {
		return nil
	}

	inputs, consumed, err := ResolveInputs(e.geometry.fields, e.inputDimension, requests)
	if err != nil {
		return fmt.Errorf("failed to resolve inputs of %s: %w", e.name, err)
	}
	node, err := BuildInputNode(inputs)
	if err != nil {
		return fmt.Errorf("failed to build input node of %s: %w", e.name, err)
	}
	if err := e.publish(consumed); err != nil {
		return err
	}

	e.inputs = inputs
	e.inputNode = node
	common.Logger().Debug("effect inputs resolved", "effect", e.name, "inputs", inputs)
	return nil
}

// publish uploads every component in consumed on the effect's own handles.
func (e *effect) publish(consumed []data.Component) error {
	var errs []error
	for _, c := range consumed {
		if err := e.AddComponent(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *effect) AddColorNode(op shader_node.Operation, node shader_node.Node) error {
	for _, m := range e.meshes {
		m.AddColorNode(op, node)
	}
	return e.BuildMaterials()
}

func (e *effect) SetColorNode(tag string, op shader_node.Operation, node shader_node.Node) error {
	for _, m := range e.meshes {
		m.SetColorNode(tag, op, node)
	}
	return e.BuildMaterials()
}

