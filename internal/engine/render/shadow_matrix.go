package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowFrustum parameterises the camera-following directional shadow
// projection.
type ShadowFrustum struct {
	// LookAhead moves the shadowed area this far ahead of the camera, along
	// the camera's front projected onto the ground plane.
	LookAhead float32
	// EyeDistance is how far back along the light the virtual eye sits.
	EyeDistance float32
	// HalfExtent is the half width and height of the orthographic box.
	HalfExtent float32
	Near       float32
	Far        float32
}

// DefaultShadowFrustum returns the engine defaults.
func DefaultShadowFrustum() ShadowFrustum {
	return ShadowFrustum{
		LookAhead:   50,
		EyeDistance: 100,
		HalfExtent:  100,
		Near:        1.0,
		Far:         200.0,
	}
}

// DirectionalLightViewProjection computes the light-space view-projection
// matrix of a directional shadow map centred ahead of the camera. lightDir is
// the direction the light travels.
func DirectionalLightViewProjection(camPos, camFront, lightDir mgl32.Vec3, f ShadowFrustum) mgl32.Mat4 {
	lookAt := camPos
	// Looking straight up or down leaves no horizontal heading to follow.
	if flat := (mgl32.Vec3{camFront.X(), 0, camFront.Z()}); flat.Len() > 1e-6 {
		lookAt = camPos.Add(flat.Normalize().Mul(f.LookAhead))
	}
	eye := lookAt.Sub(lightDir.Mul(f.EyeDistance))

	up := mgl32.Vec3{0, 1, 0}
	// If light is nearly vertical, use a different up vector
	if dir := lightDir.Normalize(); abs32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(eye, lookAt, up)
	proj := mgl32.Ortho(-f.HalfExtent, f.HalfExtent, -f.HalfExtent, f.HalfExtent, f.Near, f.Far)
	return proj.Mul4(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
