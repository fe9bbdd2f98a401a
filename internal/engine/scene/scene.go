// Package scene provides the entity store the render pipeline draws: lights,
// models and terrain addressed by stable handles.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/render"
	"github.com/Faultbox/lumen/internal/logger"
)

// Entity is one scene object. An entity carries a light, a model, or both.
type Entity struct {
	ID        uuid.UUID
	Name      string
	Transform components.Transform
	Light     *components.Light
	Model     *model.Model
	// Static marks models included in cached (static-only) passes.
	Static bool
}

// Scene stores entities in insertion order. Enumeration order is stable,
// which light selection relies on for tie-breaking and array slots.
type Scene struct {
	order    []uuid.UUID
	entities map[uuid.UUID]*Entity

	camera  render.Camera
	terrain render.Terrain
	lights  render.LightManager
	models  *ModelRenderer
	log     *zap.Logger
}

// New creates an empty scene whose model renderer drives state.
func New(state gpu.State, log *zap.Logger) *Scene {
	if log == nil {
		log = logger.Named("scene")
	}
	s := &Scene{
		entities: make(map[uuid.UUID]*Entity),
		log:      log,
	}
	s.models = NewModelRenderer(state, s.CameraPosition)
	return s
}

// SetCamera sets the camera light selection measures distance from.
func (s *Scene) SetCamera(c render.Camera) { s.camera = c }

// SetTerrain sets the terrain; nil removes it.
func (s *Scene) SetTerrain(t render.Terrain) { s.terrain = t }

// SetLightManager attaches the light manager the passes query.
func (s *Scene) SetLightManager(m render.LightManager) { s.lights = m }

// InitLighting creates a lighting.Manager over this scene, runs its initial
// selection and attaches it.
func (s *Scene) InitLighting(alloc lighting.TargetAllocator, opts lighting.Options) (*lighting.Manager, error) {
	m := lighting.NewManager(s, alloc, opts)
	if err := m.Init(); err != nil {
		m.Close()
		return nil, fmt.Errorf("initializing lighting: %w", err)
	}
	s.lights = m
	return m, nil
}

func (s *Scene) add(e *Entity) uuid.UUID {
	e.ID = uuid.New()
	s.entities[e.ID] = e
	s.order = append(s.order, e.ID)
	return e.ID
}

// AddLight adds a light entity.
func (s *Scene) AddLight(name string, t components.Transform, l components.Light) uuid.UUID {
	id := s.add(&Entity{Name: name, Transform: t, Light: &l})
	s.log.Debug("light added",
		zap.String("name", name),
		zap.Stringer("id", id),
		zap.Stringer("type", l.Type),
		zap.Bool("cast_shadows", l.CastShadows),
	)
	return id
}

// AddModel adds a model entity.
func (s *Scene) AddModel(name string, t components.Transform, m *model.Model, static bool) uuid.UUID {
	return s.add(&Entity{Name: name, Transform: t, Model: m, Static: static})
}

// Remove deletes an entity. Handles held elsewhere stop resolving.
func (s *Scene) Remove(id uuid.UUID) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Entity returns the entity with handle id.
func (s *Scene) Entity(id uuid.UUID) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Len returns the number of entities.
func (s *Scene) Len() int { return len(s.order) }

// SetTransform moves an entity.
func (s *Scene) SetTransform(id uuid.UUID, t components.Transform) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}
	e.Transform = t
	return true
}

// UpdateLight edits a light entity in place.
func (s *Scene) UpdateLight(id uuid.UUID, fn func(l *components.Light)) bool {
	e, ok := s.entities[id]
	if !ok || e.Light == nil {
		return false
	}
	fn(e.Light)
	return true
}

// EachLight visits light entities in insertion order.
func (s *Scene) EachLight(fn func(id uuid.UUID, t components.Transform, l components.Light) bool) {
	for _, id := range s.order {
		e := s.entities[id]
		if e.Light == nil {
			continue
		}
		if !fn(id, e.Transform, *e.Light) {
			return
		}
	}
}

// ResolveLight returns the current components of light entity id.
func (s *Scene) ResolveLight(id uuid.UUID) (components.Transform, components.Light, bool) {
	e, ok := s.entities[id]
	if !ok || e.Light == nil {
		return components.Transform{}, components.Light{}, false
	}
	return e.Transform, *e.Light, true
}

// CameraPosition returns the camera position, or the origin without a
// camera.
func (s *Scene) CameraPosition() mgl32.Vec3 {
	if s.camera == nil {
		return mgl32.Vec3{}
	}
	return s.camera.Position()
}

// ModelRenderer returns the renderer the passes flush.
func (s *Scene) ModelRenderer() render.ModelRenderer { return s.models }

// Models returns the concrete model renderer.
func (s *Scene) Models() *ModelRenderer { return s.models }

// Terrain returns the terrain, or nil.
func (s *Scene) Terrain() render.Terrain { return s.terrain }

// LightManager returns the attached light manager.
func (s *Scene) LightManager() render.LightManager { return s.lights }

// AddModelsToRenderer stages every model, replacing what was staged before.
func (s *Scene) AddModelsToRenderer() {
	s.stage(false)
}

// AddStaticModelsToRenderer stages only static models.
func (s *Scene) AddStaticModelsToRenderer() {
	s.stage(true)
}

func (s *Scene) stage(onlyStatic bool) {
	s.models.Reset()
	for _, id := range s.order {
		e := s.entities[id]
		if e.Model == nil || (onlyStatic && !e.Static) {
			continue
		}
		s.models.Submit(e.Model, e.Transform)
	}
}

var (
	_ render.Scene         = (*Scene)(nil)
	_ lighting.LightSource = (*Scene)(nil)
)
