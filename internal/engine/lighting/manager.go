// Package lighting selects shadow-casting lights, owns their shadow map
// targets and packs dynamic lights into shader uniform arrays.
package lighting

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/logger"
)

// LightSource is the scene query surface the manager reads lights through.
// Entities are referenced by handle and re-resolved at each use; the manager
// never keeps component data across frames.
type LightSource interface {
	// EachLight visits lights in a stable enumeration order until fn returns false.
	EachLight(fn func(id uuid.UUID, t components.Transform, l components.Light) bool)
	ResolveLight(id uuid.UUID) (components.Transform, components.Light, bool)
	CameraPosition() mgl32.Vec3
}

// TargetAllocator creates depth-only shadow targets.
type TargetAllocator interface {
	NewDepthTarget(width, height int32, format gpu.DepthFormat) (gpu.DepthTarget, error)
}

// Options configures a Manager.
type Options struct {
	// DefaultResolution sizes the targets Init allocates for categories
	// without a shadow caster.
	DefaultResolution int32
	// NearPlane, FarPlane and Bias are reported when no caster is selected.
	NearPlane float32
	FarPlane  float32
	Bias      float32
	Logger    *zap.Logger
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		DefaultResolution: 2048,
		NearPlane:         1.0,
		FarPlane:          200.0,
		Bias:              0.005,
	}
}

// Default values returned by the shadow caster getters when no caster exists.
var (
	DefaultLightDir      = mgl32.Vec3{0, -1, 0}
	DefaultLightPosition = mgl32.Vec3{0, 0, 0}
)

// selection is the closest shadow caster of one category for this frame.
type selection struct {
	id    uuid.UUID
	index int
	valid bool
}

// category is one shadow-casting light type with its own target.
type category struct {
	lightType components.LightType
	caster    selection
	target    gpu.DepthTarget
}

// Manager chooses one directional and one spot shadow caster per frame (the
// closest to the camera) and keeps a shadow target sized for each.
type Manager struct {
	source LightSource
	alloc  TargetAllocator
	opts   Options
	log    *zap.Logger

	directional category
	spot        category
}

// NewManager creates a manager reading lights from source.
func NewManager(source LightSource, alloc TargetAllocator, opts Options) *Manager {
	if opts.DefaultResolution <= 0 {
		opts.DefaultResolution = DefaultOptions().DefaultResolution
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("lighting")
	}
	return &Manager{
		source:      source,
		alloc:       alloc,
		opts:        opts,
		log:         log,
		directional: category{lightType: components.LightDirectional},
		spot:        category{lightType: components.LightSpot},
	}
}

// Init selects the initial shadow casters and makes sure both categories
// have a target, falling back to the default resolution.
func (m *Manager) Init() error {
	err := m.selectAll()

	for _, c := range []*category{&m.directional, &m.spot} {
		if c.target != nil {
			continue
		}
		err = multierr.Append(err, m.reallocate(c, m.opts.DefaultResolution, m.opts.DefaultResolution))
	}
	return err
}

// Update re-runs shadow caster selection for the frame. Selections from the
// previous frame are dropped first, so a caster that disappeared is never
// reported.
func (m *Manager) Update() error {
	m.directional.caster = selection{}
	m.spot.caster = selection{}
	return m.selectAll()
}

func (m *Manager) selectAll() error {
	return multierr.Combine(
		m.selectClosestCaster(&m.directional),
		m.selectClosestCaster(&m.spot),
	)
}

// selectClosestCaster picks the shadow-casting light of c's type nearest to
// the camera. The recorded index is the light's position among all lights of
// that type, casters or not, because that is its slot in the shader arrays.
func (m *Manager) selectClosestCaster(c *category) error {
	camPos := m.source.CameraPosition()
	closest := float32(math.MaxFloat32)
	index := -1
	var quality components.ShadowQuality

	m.source.EachLight(func(id uuid.UUID, t components.Transform, l components.Light) bool {
		if l.Type != c.lightType {
			return true
		}
		index++

		if !l.CastShadows {
			return true
		}

		d := t.Translation.Sub(camPos)
		if dist2 := d.Dot(d); dist2 < closest {
			closest = dist2
			c.caster = selection{id: id, index: index, valid: true}
			quality = l.ShadowResolution
		}
		return true
	})

	if !c.caster.valid {
		return nil
	}

	width, height, err := ShadowQualityResolution(quality)
	if err != nil {
		m.log.DPanic("failed to find a shadow resolution for the caster's quality setting",
			zap.Stringer("type", c.lightType),
			zap.Stringer("quality", quality),
		)
		return err
	}

	if c.target != nil {
		if w, h := c.target.Size(); w == width && h == height {
			return nil
		}
	}
	return m.reallocate(c, width, height)
}

// reallocate replaces c's target. The old target is destroyed and the slot
// cleared before the new one is published, so no caller ever observes a
// partially created target.
func (m *Manager) reallocate(c *category, width, height int32) error {
	if c.target != nil {
		c.target.Destroy()
		c.target = nil
	}

	target, err := m.alloc.NewDepthTarget(width, height, gpu.NormalizedDepthOnly)
	if err != nil {
		return fmt.Errorf("allocating %v shadow target %dx%d: %w", c.lightType, width, height, err)
	}
	c.target = target

	m.log.Debug("shadow target allocated",
		zap.Stringer("type", c.lightType),
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
	return nil
}

// BindLightingUniforms uploads every light to p.
func (m *Manager) BindLightingUniforms(p gpu.Program) {
	m.bindLights(p, false)
}

// BindStaticLightingUniforms uploads only lights marked static, for passes
// whose results are cached.
func (m *Manager) BindStaticLightingUniforms(p gpu.Program) {
	m.bindLights(p, true)
}

func (m *Manager) bindLights(p gpu.Program, onlyStatic bool) {
	var numDir, numPoint, numSpot int

	m.source.EachLight(func(_ uuid.UUID, t components.Transform, l components.Light) bool {
		if onlyStatic && !l.IsStatic {
			return true
		}

		switch l.Type {
		case components.LightDirectional:
			if numDir >= MaxDirLights {
				m.log.DPanic("directional light limit hit", zap.Int("max", MaxDirLights))
				return true
			}
			BindDirectionalLight(p, t, l, numDir)
			numDir++
		case components.LightPoint:
			if numPoint >= MaxPointLights {
				m.log.DPanic("point light limit hit", zap.Int("max", MaxPointLights))
				return true
			}
			BindPointLight(p, t, l, numPoint)
			numPoint++
		case components.LightSpot:
			if numSpot >= MaxSpotLights {
				m.log.DPanic("spot light limit hit", zap.Int("max", MaxSpotLights))
				return true
			}
			BindSpotLight(p, t, l, numSpot)
			numSpot++
		}
		return true
	})

	p.SetIVec4(NumLightsUniform, [4]int32{int32(numDir), int32(numPoint), int32(numSpot), 0})
}

// DirectionalShadowTarget returns the directional shadow map target.
func (m *Manager) DirectionalShadowTarget() gpu.DepthTarget {
	return m.directional.target
}

// SpotShadowTarget returns the spot light shadow map target.
func (m *Manager) SpotShadowTarget() gpu.DepthTarget {
	return m.spot.target
}

// Close destroys both shadow targets.
func (m *Manager) Close() {
	for _, c := range []*category{&m.directional, &m.spot} {
		if c.target != nil {
			c.target.Destroy()
			c.target = nil
		}
		c.caster = selection{}
	}
}
