package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
)

type fakeCamera struct {
	pos   mgl32.Vec3
	front mgl32.Vec3
}

func (c fakeCamera) Position() mgl32.Vec3 { return c.pos }
func (c fakeCamera) Front() mgl32.Vec3    { return c.front }

func (c fakeCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.pos, c.pos.Add(c.front), mgl32.Vec3{0, 1, 0})
}

func (c fakeCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(60), 4.0/3.0, 0.1, 500)
}

type fakeModels struct{ log *gputest.Log }

func (m *fakeModels) FlushOpaque(p gpu.Program, pass PassType) {
	m.log.Add("flush opaque %s %s", p.Name(), pass)
}

func (m *fakeModels) FlushTransparent(p gpu.Program, pass PassType) {
	m.log.Add("flush transparent %s %s", p.Name(), pass)
}

type fakeTerrain struct{ log *gputest.Log }

func (t *fakeTerrain) Draw(p gpu.Program, pass PassType) {
	t.log.Add("draw terrain %s %s", p.Name(), pass)
}

type fakeLightManager struct {
	caster  lighting.ShadowCaster
	ok      bool
	target  gpu.DepthTarget
	updates int
	err     error
}

func (m *fakeLightManager) Update() error {
	m.updates++
	return m.err
}

func (m *fakeLightManager) DirectionalShadowCaster() (lighting.ShadowCaster, bool) {
	return m.caster, m.ok
}

func (m *fakeLightManager) DirectionalShadowTarget() gpu.DepthTarget { return m.target }

type fakeScene struct {
	log     *gputest.Log
	models  *fakeModels
	terrain Terrain
	lights  LightManager
}

func newFakeScene(log *gputest.Log, lights LightManager) *fakeScene {
	return &fakeScene{
		log:     log,
		models:  &fakeModels{log: log},
		terrain: &fakeTerrain{log: log},
		lights:  lights,
	}
}

func (s *fakeScene) ModelRenderer() ModelRenderer { return s.models }
func (s *fakeScene) Terrain() Terrain             { return s.terrain }
func (s *fakeScene) AddModelsToRenderer()         { s.log.Add("stage all") }
func (s *fakeScene) AddStaticModelsToRenderer()   { s.log.Add("stage static") }
func (s *fakeScene) LightManager() LightManager   { return s.lights }

// lightList is a minimal lighting.LightSource.
type lightList struct {
	camera mgl32.Vec3
	ids    []uuid.UUID
	ts     []components.Transform
	ls     []components.Light
}

func (l *lightList) add(t components.Transform, light components.Light) {
	l.ids = append(l.ids, uuid.New())
	l.ts = append(l.ts, t)
	l.ls = append(l.ls, light)
}

func (l *lightList) EachLight(fn func(uuid.UUID, components.Transform, components.Light) bool) {
	for i := range l.ids {
		if !fn(l.ids[i], l.ts[i], l.ls[i]) {
			return
		}
	}
}

func (l *lightList) ResolveLight(id uuid.UUID) (components.Transform, components.Light, bool) {
	for i := range l.ids {
		if l.ids[i] == id {
			return l.ts[i], l.ls[i], true
		}
	}
	return components.Transform{}, components.Light{}, false
}

func (l *lightList) CameraPosition() mgl32.Vec3 { return l.camera }

func testLogger() *zap.Logger { return zap.NewNop() }

// assertMat4InDelta compares per element. mgl32's ApproxEqual is relative
// and rejects float noise next to an exact zero.
func assertMat4InDelta(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d", i)
	}
}
