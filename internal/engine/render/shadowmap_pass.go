package render

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/logger"
)

// ErrNoTarget is returned when a pass has no render target to draw into.
var ErrNoTarget = errors.New("render target unavailable")

// ShadowmapPassOptions configures a ShadowmapPass.
type ShadowmapPassOptions struct {
	// Resolution sizes the target the pass allocates for itself.
	Resolution int32
	Frustum    ShadowFrustum
	Logger     *zap.Logger
}

// DefaultShadowmapPassOptions returns the engine defaults.
func DefaultShadowmapPassOptions() ShadowmapPassOptions {
	return ShadowmapPassOptions{
		Resolution: 2048,
		Frustum:    DefaultShadowFrustum(),
	}
}

// ShadowmapPass renders scene depth from the directional shadow caster.
type ShadowmapPass struct {
	scene   Scene
	state   gpu.State
	program gpu.Program
	target  gpu.Handle[gpu.DepthTarget]
	frustum ShadowFrustum
	log     *zap.Logger
}

// NewShadowmapPass creates a pass that allocates and owns its own depth
// target.
func NewShadowmapPass(scene Scene, dev gpu.Device, opts ShadowmapPassOptions) (*ShadowmapPass, error) {
	if opts.Resolution <= 0 {
		opts.Resolution = DefaultShadowmapPassOptions().Resolution
	}
	target, err := dev.NewDepthTarget(opts.Resolution, opts.Resolution, gpu.NormalizedDepthOnly)
	if err != nil {
		return nil, fmt.Errorf("creating shadowmap target: %w", err)
	}

	p, err := NewShadowmapPassWithTarget(scene, dev, gpu.Own(target), opts)
	if err != nil {
		target.Destroy()
		return nil, err
	}
	return p, nil
}

// NewShadowmapPassWithTarget creates a pass drawing into target. A borrowed
// target is never destroyed by the pass.
func NewShadowmapPassWithTarget(scene Scene, dev gpu.Device, target gpu.Handle[gpu.DepthTarget], opts ShadowmapPassOptions) (*ShadowmapPass, error) {
	program, err := dev.Program(ShadowmapProgram)
	if err != nil {
		return nil, fmt.Errorf("loading %s program: %w", ShadowmapProgram, err)
	}
	if opts.Frustum == (ShadowFrustum{}) {
		opts.Frustum = DefaultShadowFrustum()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("render")
	}
	return &ShadowmapPass{
		scene:   scene,
		state:   dev.State(),
		program: program,
		target:  target,
		frustum: opts.Frustum,
		log:     log.With(zap.Stringer("pass", PassShadowmap)),
	}, nil
}

// Type returns PassShadowmap.
func (p *ShadowmapPass) Type() PassType { return PassShadowmap }

// Generate renders the directional shadow map for the frame seen by cam.
func (p *ShadowmapPass) Generate(cam Camera) (ShadowmapPassOutput, error) {
	target := p.target.Get()
	if target == nil {
		return ShadowmapPassOutput{}, fmt.Errorf("shadowmap pass: %w", ErrNoTarget)
	}

	w, h := target.Size()
	p.state.SetViewport(0, 0, w, h)
	target.Bind()
	target.Clear()
	p.state.SetDepthTest(true)

	mr := p.scene.ModelRenderer()
	terrain := p.scene.Terrain()

	p.state.SwitchProgram(p.program)
	lightDir := lighting.DefaultLightDir
	if caster, ok := p.scene.LightManager().DirectionalShadowCaster(); ok {
		lightDir = caster.Direction()
	} else {
		p.log.Debug("no directional shadow caster, using default light direction")
	}
	viewProj := DirectionalLightViewProjection(cam.Position(), cam.Front(), lightDir, p.frustum)
	p.program.SetMat4("lightSpaceViewProjectionMatrix", viewProj)

	p.scene.AddModelsToRenderer()
	mr.FlushOpaque(p.program, PassShadowmap)
	mr.FlushTransparent(p.program, PassShadowmap)

	if terrain != nil {
		terrain.Draw(p.program, PassShadowmap)
	}

	return ShadowmapPassOutput{
		DirectionalLightViewProj: viewProj,
		Target:                   target,
	}, nil
}

// Close releases the target if the pass owns it.
func (p *ShadowmapPass) Close() {
	p.target.Release()
}
