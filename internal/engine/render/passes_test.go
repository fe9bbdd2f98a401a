package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
)

var testCamera = fakeCamera{pos: mgl32.Vec3{0, 10, 0}, front: mgl32.Vec3{0, 0, -1}}

func TestGeometryPassCallOrder(t *testing.T) {
	dev := gputest.NewDevice()
	scene := newFakeScene(dev.Log, &fakeLightManager{})

	pass, err := NewDeferredGeometryPass(scene, dev, GeometryPassOptions{Width: 800, Height: 600, Logger: testLogger()})
	require.NoError(t, err)
	assert.Equal(t, PassGeometry, pass.Type())
	dev.Log.Reset()

	out, err := pass.Execute(testCamera)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"viewport 0 0 800 600",
		"bind target 1",
		"clear target 1",
		"blend false",
		"multisample false",
		"stencil op 0 0 2",
		"stencil mask 0x00",
		"stencil test true",
		"use model_geometry",
		"model_geometry.view",
		"model_geometry.projection",
		"stage all",
		"stencil mask 0xff",
		"stencil func 7 1 0xff",
		"flush opaque model_geometry geometry",
		"stencil mask 0x00",
		"use terrain_geometry",
		"terrain_geometry.view",
		"terrain_geometry.projection",
		"stencil mask 0xff",
		"stencil func 7 2 0xff",
		"draw terrain terrain_geometry geometry",
		"stencil mask 0x00",
		"stencil test false",
	}, dev.Log.Calls)

	assert.Same(t, dev.Targets[0], out.GBuffer)
	assert.False(t, dev.FakeState().StencilTest)
	assert.Equal(t, uint32(0x00), dev.FakeState().WriteMask)

	model := dev.FakeProgram(ModelGeometryProgram)
	assert.Equal(t, testCamera.ViewMatrix(), model.Mat4s["view"])
	assert.Equal(t, testCamera.ProjectionMatrix(), model.Mat4s["projection"])
	terrain := dev.FakeProgram(TerrainGeometryProgram)
	assert.Equal(t, testCamera.ViewMatrix(), terrain.Mat4s["view"])
}

func TestGeometryPassStaticOnly(t *testing.T) {
	dev := gputest.NewDevice()
	scene := newFakeScene(dev.Log, &fakeLightManager{})

	pass, err := NewDeferredGeometryPass(scene, dev, GeometryPassOptions{Width: 64, Height: 64, Logger: testLogger()})
	require.NoError(t, err)
	dev.Log.Reset()

	_, err = pass.ExecutePostLighting(testCamera, true)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, dev.Log.Index("stage static"), 0)
	assert.Equal(t, -1, dev.Log.Index("stage all"))
}

func TestGeometryPassWithoutTerrain(t *testing.T) {
	dev := gputest.NewDevice()
	scene := newFakeScene(dev.Log, &fakeLightManager{})
	scene.terrain = nil

	pass, err := NewDeferredGeometryPass(scene, dev, GeometryPassOptions{Width: 64, Height: 64, Logger: testLogger()})
	require.NoError(t, err)

	_, err = pass.Execute(testCamera)
	require.NoError(t, err)
	assert.False(t, dev.FakeState().StencilTest)
}

func TestGeometryPassOwnership(t *testing.T) {
	dev := gputest.NewDevice()
	scene := newFakeScene(dev.Log, &fakeLightManager{})

	owned, err := NewDeferredGeometryPass(scene, dev, GeometryPassOptions{Width: 32, Height: 32, Logger: testLogger()})
	require.NoError(t, err)
	owned.Close()
	owned.Close()
	assert.True(t, dev.Targets[0].Destroyed)
	assert.Equal(t, 1, dev.Destroyed())

	gb, err := dev.NewGBuffer(32, 32)
	require.NoError(t, err)
	borrowed, err := NewDeferredGeometryPassWithGBuffer(scene, dev, gpu.Borrow(gb), GeometryPassOptions{Logger: testLogger()})
	require.NoError(t, err)

	out, err := borrowed.Execute(testCamera)
	require.NoError(t, err)
	assert.Same(t, gb, out.GBuffer)

	borrowed.Close()
	assert.False(t, dev.Targets[1].Destroyed)
}

func TestGeometryPassAllocationFailure(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailAlloc = true

	_, err := NewDeferredGeometryPass(newFakeScene(dev.Log, &fakeLightManager{}), dev, GeometryPassOptions{Width: 32, Height: 32})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating gbuffer 32x32")
}

func TestShadowmapPassCallOrder(t *testing.T) {
	dev := gputest.NewDevice()
	lights := &fakeLightManager{}
	scene := newFakeScene(dev.Log, lights)

	pass, err := NewShadowmapPass(scene, dev, ShadowmapPassOptions{Resolution: 1024, Logger: testLogger()})
	require.NoError(t, err)
	assert.Equal(t, PassShadowmap, pass.Type())
	dev.Log.Reset()

	out, err := pass.Generate(testCamera)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"viewport 0 0 1024 1024",
		"bind target 1",
		"clear target 1",
		"depth test true",
		"use shadowmap",
		"shadowmap.lightSpaceViewProjectionMatrix",
		"stage all",
		"flush opaque shadowmap shadowmap",
		"flush transparent shadowmap shadowmap",
		"draw terrain shadowmap shadowmap",
	}, dev.Log.Calls)

	assert.Same(t, dev.Targets[0], out.Target)
	assert.Equal(t, out.DirectionalLightViewProj,
		dev.FakeProgram(ShadowmapProgram).Mat4s["lightSpaceViewProjectionMatrix"])
}

func TestShadowmapPassUsesCasterDirection(t *testing.T) {
	dev := gputest.NewDevice()
	dir := mgl32.Vec3{1, -1, 0}.Normalize()
	lights := &fakeLightManager{
		ok: true,
		caster: lighting.ShadowCaster{
			Transform: components.LookingAlong(mgl32.Vec3{}, dir),
			Light:     components.DefaultLight(components.LightDirectional),
		},
	}
	scene := newFakeScene(dev.Log, lights)

	pass, err := NewShadowmapPass(scene, dev, ShadowmapPassOptions{Resolution: 512, Logger: testLogger()})
	require.NoError(t, err)

	out, err := pass.Generate(testCamera)
	require.NoError(t, err)

	lookAt := mgl32.Vec3{0, 10, -50}
	eye := lookAt.Sub(dir.Mul(100))
	want := mgl32.Ortho(-100, 100, -100, 100, 1, 200).Mul4(mgl32.LookAtV(eye, lookAt, mgl32.Vec3{0, 1, 0}))
	assertMat4InDelta(t, out.DirectionalLightViewProj, want, 1e-4)
}

func TestShadowmapPassWithoutCasterUsesDefaultDirection(t *testing.T) {
	dev := gputest.NewDevice()
	scene := newFakeScene(dev.Log, &fakeLightManager{})

	pass, err := NewShadowmapPass(scene, dev, ShadowmapPassOptions{Resolution: 256, Logger: testLogger()})
	require.NoError(t, err)

	out, err := pass.Generate(testCamera)
	require.NoError(t, err)
	require.NotNil(t, out.Target, "still renders without a caster")

	// Straight-down light: the view matrix needs the +Z up vector.
	want := DirectionalLightViewProjection(testCamera.pos, testCamera.front, lighting.DefaultLightDir, DefaultShadowFrustum())
	assertMat4InDelta(t, want, out.DirectionalLightViewProj, 1e-5)
	for i, v := range out.DirectionalLightViewProj {
		assert.False(t, v != v, "NaN in matrix element %d", i)
	}
}

func TestShadowmapPassBorrowedTargetFollowsOwner(t *testing.T) {
	dev := gputest.NewDevice()
	first, err := dev.NewDepthTarget(256, 256, gpu.NormalizedDepthOnly)
	require.NoError(t, err)
	lights := &fakeLightManager{target: first}
	scene := newFakeScene(dev.Log, lights)

	pass, err := NewShadowmapPassWithTarget(scene, dev, gpu.BorrowFunc(lights.DirectionalShadowTarget), ShadowmapPassOptions{Logger: testLogger()})
	require.NoError(t, err)

	out, err := pass.Generate(testCamera)
	require.NoError(t, err)
	assert.Same(t, first, out.Target)

	second, err := dev.NewDepthTarget(512, 512, gpu.NormalizedDepthOnly)
	require.NoError(t, err)
	lights.target = second
	dev.Log.Reset()

	out, err = pass.Generate(testCamera)
	require.NoError(t, err)
	assert.Same(t, second, out.Target)
	assert.Equal(t, "viewport 0 0 512 512", dev.Log.Calls[0])

	pass.Close()
	assert.Zero(t, dev.Destroyed())
}

func TestShadowmapPassWithoutTarget(t *testing.T) {
	dev := gputest.NewDevice()
	lights := &fakeLightManager{}
	scene := newFakeScene(dev.Log, lights)

	pass, err := NewShadowmapPassWithTarget(scene, dev, gpu.BorrowFunc(lights.DirectionalShadowTarget), ShadowmapPassOptions{Logger: testLogger()})
	require.NoError(t, err)

	_, err = pass.Generate(testCamera)
	assert.True(t, errors.Is(err, ErrNoTarget))
}

func TestShadowmapPassOwnedTargetDestroyedOnClose(t *testing.T) {
	dev := gputest.NewDevice()
	pass, err := NewShadowmapPass(newFakeScene(dev.Log, &fakeLightManager{}), dev, ShadowmapPassOptions{Logger: testLogger()})
	require.NoError(t, err)

	w, h := dev.Targets[0].Size()
	assert.Equal(t, int32(2048), w)
	assert.Equal(t, int32(2048), h)

	pass.Close()
	assert.True(t, dev.Targets[0].Destroyed)
}

func TestPipelineRenderFrame(t *testing.T) {
	dev := gputest.NewDevice()
	lights := &lightList{}
	sun := components.DefaultLight(components.LightDirectional)
	sun.CastShadows = true
	sun.ShadowResolution = components.ShadowQualityHigh
	lights.add(components.LookingAlong(mgl32.Vec3{0, 50, 0}, mgl32.Vec3{1, -2, 0}), sun)

	manager := lighting.NewManager(lights, dev, lighting.Options{DefaultResolution: 2048, Logger: testLogger()})
	require.NoError(t, manager.Init())
	scene := newFakeScene(dev.Log, manager)

	pipeline, err := NewPipeline(scene, dev, PipelineOptions{GBufferWidth: 640, GBufferHeight: 480, Logger: testLogger()})
	require.NoError(t, err)
	gbuffer := dev.Targets[len(dev.Targets)-1]
	dev.Log.Reset()

	out, err := pipeline.RenderFrame(testCamera)
	require.NoError(t, err)

	shadowTarget := manager.DirectionalShadowTarget().(*gputest.Target)
	assert.Same(t, shadowTarget, out.Shadowmap.Target)
	assert.Same(t, gbuffer, out.Geometry.GBuffer)

	shadowBind := dev.Log.Index(fmt.Sprintf("bind target %d", shadowTarget.ID))
	geometryBind := dev.Log.Index(fmt.Sprintf("bind target %d", gbuffer.ID))
	require.GreaterOrEqual(t, shadowBind, 0)
	assert.Less(t, shadowBind, geometryBind)

	// A resolution change reallocates the manager's target; the pass
	// follows it on the next frame.
	lights.ls[0].ShadowResolution = components.ShadowQualityLow
	out, err = pipeline.RenderFrame(testCamera)
	require.NoError(t, err)
	assert.True(t, shadowTarget.Destroyed)
	assert.Same(t, manager.DirectionalShadowTarget(), out.Shadowmap.Target)
	w, _ := out.Shadowmap.Target.Size()
	assert.Equal(t, int32(256), w)

	pipeline.Close()
	assert.True(t, gbuffer.Destroyed)
	assert.False(t, out.Shadowmap.Target.(*gputest.Target).Destroyed)
}

func TestPipelineAbortsFrameOnLightError(t *testing.T) {
	dev := gputest.NewDevice()
	lights := &fakeLightManager{err: errors.New("allocation failed")}
	target, err := dev.NewDepthTarget(64, 64, gpu.NormalizedDepthOnly)
	require.NoError(t, err)
	lights.target = target
	scene := newFakeScene(dev.Log, lights)

	pipeline, err := NewPipeline(scene, dev, PipelineOptions{GBufferWidth: 64, GBufferHeight: 64, Logger: testLogger()})
	require.NoError(t, err)
	dev.Log.Reset()

	_, err = pipeline.RenderFrame(testCamera)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 1: updating lights")
	assert.Empty(t, dev.Log.Calls)
	assert.Equal(t, 1, lights.updates)
}
