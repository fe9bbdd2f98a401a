// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Movement is a keyboard-driven camera translation.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

// FPSCamera is a free-fly camera driven by yaw and pitch.
type FPSCamera struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3
	worldUp  mgl32.Vec3

	// Euler angles in degrees
	Yaw   float32
	Pitch float32

	// Projection
	FOV    float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	// Sensitivity
	MovementSpeed    float32 // World units per second
	MouseSensitivity float32 // Degrees per pixel
	MinFOV, MaxFOV   float32
}

// NewFPSCamera creates a camera at position looking down -Z.
func NewFPSCamera(position mgl32.Vec3, aspect float32) *FPSCamera {
	c := &FPSCamera{
		position:         position,
		worldUp:          mgl32.Vec3{0, 1, 0},
		Yaw:              -90,
		Pitch:            0,
		FOV:              60,
		Aspect:           aspect,
		Near:             0.3,
		Far:              5000,
		MovementSpeed:    20,
		MouseSensitivity: 0.1,
		MinFOV:           1,
		MaxFOV:           90,
	}
	c.updateVectors()
	return c
}

// Position returns the camera position in world space.
func (c *FPSCamera) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the camera.
func (c *FPSCamera) SetPosition(p mgl32.Vec3) { c.position = p }

// Front returns the unit view direction.
func (c *FPSCamera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FPSCamera) Right() mgl32.Vec3 { return c.right }

// ViewMatrix returns the view matrix for this camera.
func (c *FPSCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *FPSCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio after a resize.
func (c *FPSCamera) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// HandleMovement translates the camera for dt seconds.
func (c *FPSCamera) HandleMovement(m Movement, dt float32) {
	velocity := c.MovementSpeed * dt
	switch m {
	case Forward:
		c.position = c.position.Add(c.front.Mul(velocity))
	case Backward:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case Left:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case Right:
		c.position = c.position.Add(c.right.Mul(velocity))
	case Up:
		c.position = c.position.Add(c.worldUp.Mul(velocity))
	case Down:
		c.position = c.position.Sub(c.worldUp.Mul(velocity))
	}
}

// HandleMouse rotates the camera by a cursor delta in pixels. Pitch is
// clamped to ±89° so the view never flips.
func (c *FPSCamera) HandleMouse(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.MouseSensitivity
	c.Pitch -= deltaY * c.MouseSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)
	c.updateVectors()
}

// HandleZoom narrows or widens the field of view.
func (c *FPSCamera) HandleZoom(delta float32) {
	c.FOV = mgl32.Clamp(c.FOV-delta, c.MinFOV, c.MaxFOV)
}

// LookAt points the camera at target.
func (c *FPSCamera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.position)
	if dir.Len() < 1e-6 {
		return
	}
	dir = dir.Normalize()
	c.Pitch = mgl32.RadToDeg(asin32(dir.Y()))
	c.Yaw = mgl32.RadToDeg(atan232(dir.Z(), dir.X()))
	c.updateVectors()
}

func (c *FPSCamera) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	c.front = mgl32.Vec3{
		cos32(yaw) * cos32(pitch),
		sin32(pitch),
		sin32(yaw) * cos32(pitch),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
