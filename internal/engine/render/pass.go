// Package render orchestrates the GPU passes of a frame: shadow map
// generation followed by the deferred geometry pass that fills the G-buffer.
package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/lighting"
)

// PassType tags draw calls with the pass issuing them, so drawables can pick
// per-pass behaviour (for example skip material binding in the shadow pass).
type PassType int

const (
	PassShadowmap PassType = iota
	PassLighting
	PassPostProcess
	PassGeometry
)

func (t PassType) String() string {
	switch t {
	case PassShadowmap:
		return "shadowmap"
	case PassLighting:
		return "lighting"
	case PassPostProcess:
		return "post-process"
	case PassGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Stencil values the geometry pass writes so the lighting pass can classify
// G-buffer pixels.
const (
	StencilModel   int32 = 1
	StencilTerrain int32 = 2
)

// Program names the passes request from the device.
const (
	ShadowmapProgram       = "shadowmap"
	ModelGeometryProgram   = "model_geometry"
	TerrainGeometryProgram = "terrain_geometry"
)

// Camera is the view the passes render from.
type Camera interface {
	Position() mgl32.Vec3
	Front() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// ModelRenderer draws the models staged by the scene.
type ModelRenderer interface {
	FlushOpaque(p gpu.Program, pass PassType)
	FlushTransparent(p gpu.Program, pass PassType)
}

// Terrain draws the scene's terrain.
type Terrain interface {
	Draw(p gpu.Program, pass PassType)
}

// LightManager is the part of lighting.Manager the passes consume.
type LightManager interface {
	Update() error
	DirectionalShadowCaster() (lighting.ShadowCaster, bool)
	DirectionalShadowTarget() gpu.DepthTarget
}

// Scene is what a pass renders.
type Scene interface {
	ModelRenderer() ModelRenderer
	// Terrain returns nil when the scene has no terrain.
	Terrain() Terrain
	// AddModelsToRenderer stages every model for the next flush.
	AddModelsToRenderer()
	// AddStaticModelsToRenderer stages only models marked static.
	AddStaticModelsToRenderer()
	LightManager() LightManager
}

// ShadowmapPassOutput is valid until the next frame.
type ShadowmapPassOutput struct {
	DirectionalLightViewProj mgl32.Mat4
	Target                   gpu.DepthTarget
}

// GeometryPassOutput is valid until the next frame.
type GeometryPassOutput struct {
	GBuffer gpu.GBuffer
}
