package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/material"
)

// Drawable is anything the scene can draw: a labelled set of GPU buffers with the material
// compiled for them.
type Drawable interface {
	// Label returns a debug label for the drawable.
	Label() string

	// Material returns the most recently compiled material, or nil before the first compile.
	Material() material.Material

	// Geometry returns the provider holding the position and index buffers.
	Geometry() bind_group_provider.BindGroupProvider

	// Attributes returns the provider holding the uniform buffer and published attribute buffers.
	Attributes() bind_group_provider.BindGroupProvider
}

// Scene is a render target that collects drawables. Drawables are added by blocks and effects
// attaching themselves; the scene references them but does not own them, and never releases
// their resources.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Add appends drawables to the scene in order. A drawable already in the scene is ignored.
	//
	// Parameters:
	//   - drawables: the drawables to add
	//
	// Returns:
	//   - int: the number of drawables actually added
	Add(drawables ...Drawable) int

	// Contains reports whether d has been added to the scene.
	//
	// Parameters:
	//   - d: the drawable to look for
	//
	// Returns:
	//   - bool: true if d is in the scene
	Contains(d Drawable) bool

	// Drawables returns the scene's drawables in the order they were added.
	//
	// Returns:
	//   - []Drawable: a copy of the drawable list
	Drawables() []Drawable

	// Count returns the number of drawables in the scene.
	//
	// Returns:
	//   - int: count of drawables
	Count() int

	// Clear removes all drawables from the scene.
	// Does not release GPU resources.
	Clear()
}

type scene struct {
	mu *sync.RWMutex

	name string

	drawables []Drawable
	index     map[Drawable]struct{}
}

var _ Scene = &scene{}

// NewScene creates a new empty Scene.
//
// Parameters:
//   - name: the scene identifier
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:    &sync.RWMutex{},
		name:  name,
		index: make(map[Drawable]struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Add(drawables ...Drawable) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(drawables)
}

// add appends drawables not yet present. Caller must hold s.mu write lock.
func (s *scene) add(drawables []Drawable) int {
	added := 0
	for _, d := range drawables {
		if d == nil {
			continue
		}
		if _, ok := s.index[d]; ok {
			continue
		}
		s.index[d] = struct{}{}
		s.drawables = append(s.drawables, d)
		added++
	}
	return added
}

func (s *scene) Contains(d Drawable) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[d]
	return ok
}

func (s *scene) Drawables() []Drawable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Drawable, len(s.drawables))
	copy(out, s.drawables)
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drawables)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drawables = nil
	s.index = make(map[Drawable]struct{})
}
