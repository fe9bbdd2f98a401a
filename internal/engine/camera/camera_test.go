package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewFPSCameraLooksDownNegativeZ(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{1, 2, 3}, 16.0/9.0)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Position())
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, c.Front(), 1e-5)
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, c.Right(), 1e-5)
}

func TestHandleMovement(t *testing.T) {
	tests := []struct {
		m    Movement
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, -20}},
		{Backward, mgl32.Vec3{0, 0, 20}},
		{Left, mgl32.Vec3{-20, 0, 0}},
		{Right, mgl32.Vec3{20, 0, 0}},
		{Up, mgl32.Vec3{0, 20, 0}},
		{Down, mgl32.Vec3{0, -20, 0}},
	}
	for _, tt := range tests {
		c := NewFPSCamera(mgl32.Vec3{}, 1)
		c.HandleMovement(tt.m, 1)
		assertVec3InDelta(t, tt.want, c.Position(), 1e-4, "movement %d: %v", tt.m, c.Position())
	}
}

func TestHandleMouseClampsPitch(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{}, 1)

	c.HandleMouse(0, -10000)
	assert.Equal(t, float32(89), c.Pitch)
	assert.Greater(t, c.Front().Y(), float32(0.99))

	c.HandleMouse(0, 20000)
	assert.Equal(t, float32(-89), c.Pitch)
}

func TestHandleMouseYaw(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{}, 1)
	c.HandleMouse(900, 0) // +90 degrees
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, c.Front(), 1e-5)
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{}, 1)
	c.HandleZoom(100)
	assert.Equal(t, c.MinFOV, c.FOV)
	c.HandleZoom(-200)
	assert.Equal(t, c.MaxFOV, c.FOV)
}

func TestLookAt(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{0, 10, 0}, 1)
	c.LookAt(mgl32.Vec3{10, 0, 0})

	want := mgl32.Vec3{1, -1, 0}.Normalize()
	assertVec3InDelta(t, want, c.Front(), 1e-5)
}

func TestViewMatrixMapsFrontToNegativeZ(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{5, 0, 0}, 1)
	c.HandleMouse(300, 100)

	p := c.Position().Add(c.Front().Mul(10))
	v := c.ViewMatrix().Mul4x1(p.Vec4(1))
	assert.InDelta(t, 0, v.X(), 1e-4)
	assert.InDelta(t, 0, v.Y(), 1e-4)
	assert.InDelta(t, -10, v.Z(), 1e-4)
}

func TestSetAspect(t *testing.T) {
	c := NewFPSCamera(mgl32.Vec3{}, 1)
	c.SetAspect(1920, 1080)
	assert.InDelta(t, 16.0/9.0, c.Aspect, 1e-6)
	c.SetAspect(10, 0)
	assert.InDelta(t, 16.0/9.0, c.Aspect, 1e-6)
}

// assertVec3InDelta compares per component. mgl32's ApproxEqual is relative
// and rejects float noise next to an exact zero.
func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, msgAndArgs...)
	}
}
