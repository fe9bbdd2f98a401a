package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
)

func TestBindLightingUniformsCounts(t *testing.T) {
	scene := &fakeScene{}
	scene.add(mgl32.Vec3{}, light(components.LightDirectional, false, 0))
	scene.add(mgl32.Vec3{1, 0, 0}, light(components.LightPoint, false, 0))
	scene.add(mgl32.Vec3{2, 0, 0}, light(components.LightPoint, false, 0))
	scene.add(mgl32.Vec3{3, 0, 0}, light(components.LightSpot, true, components.ShadowQualityHigh))

	m, _, _ := newTestManager(t, scene)
	p := gputest.NewProgram("lighting", &gputest.Log{})
	m.BindLightingUniforms(p)

	assert.Equal(t, [4]int32{1, 2, 1, 0}, p.IVec4s[NumLightsUniform])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, p.Vec3s["pointLights[0].position"])
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, p.Vec3s["pointLights[1].position"])
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, p.Vec3s["spotLights[0].position"])
	assert.Contains(t, p.Vec3s, "dirLights[0].direction")
}

func TestBindSpotLightUniformNames(t *testing.T) {
	p := gputest.NewProgram("lighting", &gputest.Log{})
	l := components.DefaultLight(components.LightSpot)
	l.Color = mgl32.Vec3{1, 0.5, 0.25}
	l.Intensity = 3
	l.AttenuationRange = 12
	l.InnerCutOff = 0.9
	l.OuterCutOff = 0.8

	BindSpotLight(p, components.NewTransform(mgl32.Vec3{4, 5, 6}), l, 2)

	assert.Equal(t, mgl32.Vec3{4, 5, 6}, p.Vec3s["spotLights[2].position"])
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, p.Vec3s["spotLights[2].direction"], 1e-5)
	assert.Equal(t, l.Color, p.Vec3s["spotLights[2].lightColour"])
	assert.Equal(t, float32(3), p.Floats["spotLights[2].intensity"])
	assert.Equal(t, float32(12), p.Floats["spotLights[2].attenuationRadius"])
	assert.Equal(t, float32(0.9), p.Floats["spotLights[2].cutOff"])
	assert.Equal(t, float32(0.8), p.Floats["spotLights[2].outerCutOff"])
}

func TestBindDirectionalLightUsesForward(t *testing.T) {
	p := gputest.NewProgram("lighting", &gputest.Log{})
	dir := mgl32.Vec3{1, -1, 0}.Normalize()
	l := components.DefaultLight(components.LightDirectional)

	BindDirectionalLight(p, components.LookingAlong(mgl32.Vec3{}, dir), l, 0)

	assertVec3InDelta(t, dir, p.Vec3s["dirLights[0].direction"], 1e-5)
	assert.Equal(t, l.Intensity, p.Floats["dirLights[0].intensity"])
}

func TestBindLightingUniformsCapsPerType(t *testing.T) {
	scene := &fakeScene{}
	for i := 0; i < MaxPointLights+2; i++ {
		scene.add(mgl32.Vec3{float32(i), 0, 0}, light(components.LightPoint, false, 0))
	}
	for i := 0; i < MaxDirLights+1; i++ {
		scene.add(mgl32.Vec3{}, light(components.LightDirectional, false, 0))
	}

	m, _, logs := newTestManager(t, scene)
	p := gputest.NewProgram("lighting", &gputest.Log{})
	m.BindLightingUniforms(p)

	assert.Equal(t, [4]int32{MaxDirLights, MaxPointLights, 0, 0}, p.IVec4s[NumLightsUniform])
	assert.NotContains(t, p.Vec3s, "pointLights[6].position")
	assert.Equal(t, 3, logs.FilterLevelExact(zapcore.DPanicLevel).Len())
}

func TestBindLightingUniformsPanicsInDevelopment(t *testing.T) {
	scene := &fakeScene{}
	for i := 0; i < MaxSpotLights+1; i++ {
		scene.add(mgl32.Vec3{}, light(components.LightSpot, false, 0))
	}

	core, _ := observer.New(zapcore.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core, zap.Development())
	m := NewManager(scene, gputest.NewDevice(), opts)

	p := gputest.NewProgram("lighting", &gputest.Log{})
	assert.Panics(t, func() { m.BindLightingUniforms(p) })
}

func TestBindStaticLightingUniforms(t *testing.T) {
	scene := &fakeScene{}
	static := light(components.LightPoint, false, 0)
	static.IsStatic = true
	scene.add(mgl32.Vec3{1, 0, 0}, light(components.LightPoint, false, 0))
	scene.add(mgl32.Vec3{2, 0, 0}, static)

	m, _, _ := newTestManager(t, scene)
	p := gputest.NewProgram("lighting", &gputest.Log{})
	m.BindStaticLightingUniforms(p)

	require.Equal(t, [4]int32{0, 1, 0, 0}, p.IVec4s[NumLightsUniform])
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, p.Vec3s["pointLights[0].position"])
}

func TestSunDirection(t *testing.T) {
	overhead := SunDirection(0, 90)
	assertVec3InDelta(t, mgl32.Vec3{0, -1, 0}, overhead, 1e-5)

	horizon := SunDirection(0, 0)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, horizon, 1e-5)

	assert.InDelta(t, 1, SunDirection(135, 30).Len(), 1e-5)
}
