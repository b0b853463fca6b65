package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func project(vp [16]float32, p mgl32.Vec3) mgl32.Vec3 {
	clip := mgl32.Mat4(vp).Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Target())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Up())
	assert.InDelta(t, mgl32.DegToRad(45), c.Fov(), 1e-6)
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())

	// the target lands in the middle of the screen
	ndc := project(c.ViewProjectionMatrix(), c.Target())
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.True(t, ndc.Z() >= 0 && ndc.Z() <= 1)
}

func TestCameraOptions(t *testing.T) {
	c := NewCamera(
		WithPosition(mgl32.Vec3{5, 0, 0}),
		WithTarget(mgl32.Vec3{0, 0, 0}),
		WithUp(mgl32.Vec3{0, 0, 1}),
		WithFov(1),
		WithAspect(2),
		WithClip(1, 10),
	)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, c.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, c.Up())
	assert.Equal(t, float32(1), c.Fov())
	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, float32(1), c.Near())
	assert.Equal(t, float32(10), c.Far())
}

func TestDepthRange(t *testing.T) {
	c := NewCamera(WithClip(1, 10))
	near := project(c.ViewProjectionMatrix(), mgl32.Vec3{0, 0, 2})
	far := project(c.ViewProjectionMatrix(), mgl32.Vec3{0, 0, -7})
	assert.InDelta(t, 0, near.Z(), 1e-4)
	assert.InDelta(t, 1, far.Z(), 1e-4)
}

func TestFrameFitsSphere(t *testing.T) {
	for _, aspect := range []float32{0.5, 1, 2} {
		c := NewCamera(WithAspect(aspect))
		center := mgl32.Vec3{1, 2, 3}
		c.Frame(center, 2)

		assert.Equal(t, center, c.Target())
		vp := c.ViewProjectionMatrix()
		for _, d := range []mgl32.Vec3{{2, 0, 0}, {-2, 0, 0}, {0, 2, 0}, {0, -2, 0}, {0, 0, 2}, {0, 0, -2}} {
			ndc := project(vp, center.Add(d))
			assert.LessOrEqual(t, ndc.X(), float32(1.0001), "aspect %v point %v", aspect, d)
			assert.GreaterOrEqual(t, ndc.X(), float32(-1.0001), "aspect %v point %v", aspect, d)
			assert.LessOrEqual(t, ndc.Y(), float32(1.0001), "aspect %v point %v", aspect, d)
			assert.GreaterOrEqual(t, ndc.Y(), float32(-1.0001), "aspect %v point %v", aspect, d)
			assert.True(t, ndc.Z() >= 0 && ndc.Z() <= 1, "aspect %v point %v depth %v", aspect, d, ndc.Z())
		}
	}
}

func TestFrameKeepsViewingDirection(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{0, 4, 0}), WithUp(mgl32.Vec3{0, 0, 1}))
	c.Frame(mgl32.Vec3{}, 1)
	dir := c.Position().Sub(c.Target()).Normalize()
	assert.InDelta(t, 1, dir.Y(), 1e-5)

	// a degenerate radius falls back to a unit sphere
	c.Frame(mgl32.Vec3{}, 0)
	assert.Greater(t, c.Position().Len(), float32(1))
}

func TestLookAtAndSetters(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()
	c.LookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0})
	assert.NotEqual(t, before, c.ViewProjectionMatrix())

	c.SetFov(1)
	c.SetAspect(1.5)
	c.SetClip(0.5, 50)
	c.SetUp(mgl32.Vec3{0, 1, 0})
	assert.Equal(t, float32(1), c.Fov())
	assert.Equal(t, float32(1.5), c.Aspect())
	assert.Equal(t, float32(0.5), c.Near())
	assert.Equal(t, float32(50), c.Far())
}
