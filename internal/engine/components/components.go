// Package components holds the entity component data the renderer consumes.
package components

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in world space.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewTransform returns an identity transform at position.
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Translation: position,
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// LookingAlong returns a transform at position whose forward vector is dir.
func LookingAlong(position, dir mgl32.Vec3) Transform {
	t := NewTransform(position)
	t.Rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, -1}, dir.Normalize())
	return t
}

// Forward returns the unit vector the entity faces (-Z rotated by Rotation).
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// Matrix returns the model matrix T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
