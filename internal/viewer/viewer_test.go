package viewer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/framebuffer"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/render"
)

func TestLightingOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Shadows.DefaultResolution = 1024
	cfg.Shadows.Bias = 0.01

	opts := LightingOptions(cfg)
	assert.Equal(t, int32(1024), opts.DefaultResolution)
	assert.Equal(t, float32(0.01), opts.Bias)
	assert.Equal(t, float32(1), opts.NearPlane)
	assert.Equal(t, float32(200), opts.FarPlane)
	assert.NotNil(t, opts.Logger)
}

func TestShadowFrustumDefaults(t *testing.T) {
	assert.Equal(t, render.DefaultShadowFrustum(), ShadowFrustum(config.Default()))
}

func TestDemoLights(t *testing.T) {
	lights := demoLights()
	require.Len(t, lights, 4)

	counts := map[components.LightType]int{}
	casters := map[components.LightType]int{}
	for _, l := range lights {
		counts[l.light.Type]++
		if l.light.CastShadows {
			casters[l.light.Type]++
		}
	}
	assert.LessOrEqual(t, counts[components.LightDirectional], lighting.MaxDirLights)
	assert.LessOrEqual(t, counts[components.LightPoint], lighting.MaxPointLights)
	assert.LessOrEqual(t, counts[components.LightSpot], lighting.MaxSpotLights)
	assert.Equal(t, 1, casters[components.LightDirectional])
	assert.Equal(t, 1, casters[components.LightSpot])

	sun := lights[0]
	assertVec3InDelta(t, lighting.SunDirection(135, 40), sun.transform.Forward(), 1e-4)
}

func TestSpotTransformAimsAtCentre(t *testing.T) {
	for _, angle := range []float64{0, 1, 2.5, 4} {
		tr := spotTransform(angle)
		want := tr.Translation.Mul(-1).Normalize()
		assertVec3InDelta(t, want, tr.Forward(), 1e-4, "angle %v", angle)
		assert.InDelta(t, demoOrbit, mgl32.Vec2{tr.Translation.X(), tr.Translation.Z()}.Len(), 1e-4)
	}
}

func TestDemoCubes(t *testing.T) {
	cubes := demoCubes()
	names := map[string]bool{}
	transparent := 0
	for _, c := range cubes {
		assert.False(t, names[c.name], "duplicate %s", c.name)
		names[c.name] = true
		if c.alpha < 1 {
			transparent++
		}
		half := float32(demoTiles * demoTileSize / 2)
		assert.Less(t, mgl32.Abs(c.position.X()), half)
		assert.Less(t, mgl32.Abs(c.position.Y()), half)
	}
	assert.Equal(t, 2, transparent)
}

// readableTarget adds readback to a fake target.
type readableTarget struct {
	*gputest.Target
	fail bool
}

func (r readableTarget) ReadColor(i int) ([]byte, error) {
	if r.fail {
		return nil, errors.New("read failed")
	}
	return make([]byte, int(r.Width)*int(r.Height)*4), nil
}

func (r readableTarget) ReadDepth() ([]float32, error) {
	return make([]float32, int(r.Width)*int(r.Height)), nil
}

func TestCaptureFrame(t *testing.T) {
	dev := gputest.NewDevice()
	gb, err := dev.NewGBuffer(4, 2)
	require.NoError(t, err)
	sm, err := dev.NewDepthTarget(8, 8, gpu.NormalizedDepthOnly)
	require.NoError(t, err)

	out := render.FrameOutput{
		Geometry:  render.GeometryPassOutput{GBuffer: readableTarget{Target: gb.(*gputest.Target)}},
		Shadowmap: render.ShadowmapPassOutput{Target: readableTarget{Target: sm.(*gputest.Target)}},
	}

	c := debug.NewCapture(t.TempDir(), "test")
	files, err := captureFrame(c, out, framebuffer.GBufferNormal)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Contains(t, filepath.Base(files[0]), "test_normal_")
	assert.Contains(t, filepath.Base(files[1]), "test_shadowmap_")
	for _, f := range files {
		assert.FileExists(t, f)
	}
}

func TestCaptureFrameErrors(t *testing.T) {
	dev := gputest.NewDevice()
	gb, err := dev.NewGBuffer(4, 2)
	require.NoError(t, err)

	out := render.FrameOutput{
		Geometry: render.GeometryPassOutput{GBuffer: readableTarget{Target: gb.(*gputest.Target), fail: true}},
	}
	files, err := captureFrame(debug.NewCapture(t.TempDir(), "test"), out, framebuffer.GBufferAlbedo)
	assert.ErrorContains(t, err, "read failed")
	assert.Empty(t, files)

	// Targets without readback are skipped.
	out.Geometry.GBuffer = gb
	files, err = captureFrame(debug.NewCapture(t.TempDir(), "test"), out, framebuffer.GBufferAlbedo)
	assert.NoError(t, err)
	assert.Empty(t, files)
}

// assertVec3InDelta compares per component. mgl32's ApproxEqual is relative
// and rejects float noise next to an exact zero.
func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, msgAndArgs...)
	}
}
