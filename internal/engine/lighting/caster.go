package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/components"
)

// ShadowCaster is a snapshot of the selected caster of one category,
// resolved from the scene at the time of the query.
type ShadowCaster struct {
	ID uuid.UUID
	// Index is the light's slot among all lights of its type.
	Index     int
	Transform components.Transform
	Light     components.Light
}

// Direction returns the direction the light shines in.
func (c ShadowCaster) Direction() mgl32.Vec3 {
	return c.Transform.Forward()
}

// NearFarPlane returns the shadow projection's near and far planes.
func (c ShadowCaster) NearFarPlane() mgl32.Vec2 {
	return mgl32.Vec2{c.Light.ShadowNearPlane, c.Light.ShadowFarPlane}
}

// OuterCutOffAngle returns the spot cone's outer half-angle in radians.
func (c ShadowCaster) OuterCutOffAngle() float32 {
	return float32(math.Acos(float64(c.Light.OuterCutOff)))
}

// DirectionalShadowCaster returns this frame's directional shadow caster.
func (m *Manager) DirectionalShadowCaster() (ShadowCaster, bool) {
	return m.resolve(&m.directional)
}

// SpotShadowCaster returns this frame's spot light shadow caster.
func (m *Manager) SpotShadowCaster() (ShadowCaster, bool) {
	return m.resolve(&m.spot)
}

// HasDirectionalShadowCaster reports whether a directional caster is selected.
func (m *Manager) HasDirectionalShadowCaster() bool {
	_, ok := m.DirectionalShadowCaster()
	return ok
}

// HasSpotShadowCaster reports whether a spot caster is selected.
func (m *Manager) HasSpotShadowCaster() bool {
	_, ok := m.SpotShadowCaster()
	return ok
}

func (m *Manager) resolve(c *category) (ShadowCaster, bool) {
	if !c.caster.valid {
		return ShadowCaster{}, false
	}
	t, l, ok := m.source.ResolveLight(c.caster.id)
	if !ok || l.Type != c.lightType {
		return ShadowCaster{}, false
	}
	return ShadowCaster{ID: c.caster.id, Index: c.caster.index, Transform: t, Light: l}, true
}

// missing logs a query against a category without a caster. Callers get the
// documented default, which means "no shadow available".
func (m *Manager) missing(c *category, query string) {
	m.log.Error("shadow caster does not exist in current scene",
		zap.Stringer("type", c.lightType),
		zap.String("query", query),
	)
}

// DirectionalLightShadowCasterLightDir returns the caster's direction, or
// DefaultLightDir.
func (m *Manager) DirectionalLightShadowCasterLightDir() mgl32.Vec3 {
	c, ok := m.DirectionalShadowCaster()
	if !ok {
		m.missing(&m.directional, "light direction")
		return DefaultLightDir
	}
	return c.Direction()
}

// DirectionalLightShadowCasterNearFarPlane returns the caster's near/far
// planes, or the configured defaults.
func (m *Manager) DirectionalLightShadowCasterNearFarPlane() mgl32.Vec2 {
	c, ok := m.DirectionalShadowCaster()
	if !ok {
		m.missing(&m.directional, "near/far plane")
		return mgl32.Vec2{m.opts.NearPlane, m.opts.FarPlane}
	}
	return c.NearFarPlane()
}

// DirectionalLightShadowCasterBias returns the caster's bias, or the
// configured default.
func (m *Manager) DirectionalLightShadowCasterBias() float32 {
	c, ok := m.DirectionalShadowCaster()
	if !ok {
		m.missing(&m.directional, "bias")
		return m.opts.Bias
	}
	return c.Light.ShadowBias
}

// DirectionalLightShadowCasterIndex returns the caster's slot in the
// dirLights array, or 0.
func (m *Manager) DirectionalLightShadowCasterIndex() int {
	c, ok := m.DirectionalShadowCaster()
	if !ok {
		m.missing(&m.directional, "index")
		return 0
	}
	return c.Index
}

// SpotLightShadowCasterLightDir returns the caster's direction, or
// DefaultLightDir.
func (m *Manager) SpotLightShadowCasterLightDir() mgl32.Vec3 {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "light direction")
		return DefaultLightDir
	}
	return c.Direction()
}

// SpotLightShadowCasterLightPosition returns the caster's world position,
// or the origin.
func (m *Manager) SpotLightShadowCasterLightPosition() mgl32.Vec3 {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "light position")
		return DefaultLightPosition
	}
	return c.Transform.Translation
}

// SpotLightShadowCasterOuterCutOffAngle returns the outer cone half-angle in
// radians, or 0.
func (m *Manager) SpotLightShadowCasterOuterCutOffAngle() float32 {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "outer cutoff angle")
		return 0
	}
	return c.OuterCutOffAngle()
}

// SpotLightShadowCasterAttenuationRange returns the caster's range, or 0.
func (m *Manager) SpotLightShadowCasterAttenuationRange() float32 {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "attenuation range")
		return 0
	}
	return c.Light.AttenuationRange
}

// SpotLightShadowCasterNearFarPlane returns the caster's near/far planes, or
// the configured defaults.
func (m *Manager) SpotLightShadowCasterNearFarPlane() mgl32.Vec2 {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "near/far plane")
		return mgl32.Vec2{m.opts.NearPlane, m.opts.FarPlane}
	}
	return c.NearFarPlane()
}

// SpotLightShadowCasterBias returns the caster's bias, or the configured
// default.
func (m *Manager) SpotLightShadowCasterBias() float32 {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "bias")
		return m.opts.Bias
	}
	return c.Light.ShadowBias
}

// SpotLightShadowCasterIndex returns the caster's slot in the spotLights
// array, or 0.
func (m *Manager) SpotLightShadowCasterIndex() int {
	c, ok := m.SpotShadowCaster()
	if !ok {
		m.missing(&m.spot, "index")
		return 0
	}
	return c.Index
}
