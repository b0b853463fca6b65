package scene

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fields/engine/renderer/material"
	"github.com/stretchr/testify/assert"
)

type fakeDrawable struct {
	label string
}

func (f *fakeDrawable) Label() string                { return f.label }
func (f *fakeDrawable) Material() material.Material { return nil }
func (f *fakeDrawable) Geometry() bind_group_provider.BindGroupProvider {
	return nil
}
func (f *fakeDrawable) Attributes() bind_group_provider.BindGroupProvider {
	return nil
}

func TestAddIgnoresDuplicates(t *testing.T) {
	s := NewScene("main")
	a := &fakeDrawable{label: "a"}
	b := &fakeDrawable{label: "b"}

	assert.Equal(t, 2, s.Add(a, b))
	assert.Equal(t, 0, s.Add(a))
	assert.Equal(t, 0, s.Add(nil))
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Contains(a))
	assert.Equal(t, []Drawable{a, b}, s.Drawables())
}

func TestDrawablesReturnsCopy(t *testing.T) {
	a := &fakeDrawable{label: "a"}
	s := NewScene("main", WithDrawables(a))
	list := s.Drawables()
	list[0] = nil
	assert.Equal(t, []Drawable{a}, s.Drawables())
}

func TestClear(t *testing.T) {
	a := &fakeDrawable{label: "a"}
	s := NewScene("main", WithDrawables(a))
	s.Clear()
	assert.Zero(t, s.Count())
	assert.False(t, s.Contains(a))
	assert.Equal(t, 1, s.Add(a))
}

func TestConcurrentAdd(t *testing.T) {
	s := NewScene("main")
	shared := &fakeDrawable{label: "shared"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(shared, &fakeDrawable{label: "own"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 9, s.Count())
}

func TestName(t *testing.T) {
	assert.Equal(t, "overlay", NewScene("overlay").Name())
}
