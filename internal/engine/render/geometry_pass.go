package render

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/logger"
)

// GeometryPassOptions configures a DeferredGeometryPass.
type GeometryPassOptions struct {
	// Width and Height size the G-buffer the pass allocates for itself.
	Width  int32
	Height int32
	Logger *zap.Logger
}

// DeferredGeometryPass rasterises models and terrain into the G-buffer and
// tags their pixels in the stencil buffer.
type DeferredGeometryPass struct {
	scene          Scene
	state          gpu.State
	modelProgram   gpu.Program
	terrainProgram gpu.Program
	gbuffer        gpu.Handle[gpu.GBuffer]
	log            *zap.Logger
}

// NewDeferredGeometryPass creates a pass that allocates and owns its
// G-buffer.
func NewDeferredGeometryPass(scene Scene, dev gpu.Device, opts GeometryPassOptions) (*DeferredGeometryPass, error) {
	gb, err := dev.NewGBuffer(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("creating gbuffer %dx%d: %w", opts.Width, opts.Height, err)
	}

	p, err := NewDeferredGeometryPassWithGBuffer(scene, dev, gpu.Own(gb), opts)
	if err != nil {
		gb.Destroy()
		return nil, err
	}
	return p, nil
}

// NewDeferredGeometryPassWithGBuffer creates a pass drawing into gbuffer. A
// borrowed G-buffer is never destroyed by the pass.
func NewDeferredGeometryPassWithGBuffer(scene Scene, dev gpu.Device, gbuffer gpu.Handle[gpu.GBuffer], opts GeometryPassOptions) (*DeferredGeometryPass, error) {
	modelProgram, errModel := dev.Program(ModelGeometryProgram)
	terrainProgram, errTerrain := dev.Program(TerrainGeometryProgram)
	if err := multierr.Combine(errModel, errTerrain); err != nil {
		return nil, fmt.Errorf("loading geometry programs: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Named("render")
	}
	return &DeferredGeometryPass{
		scene:          scene,
		state:          dev.State(),
		modelProgram:   modelProgram,
		terrainProgram: terrainProgram,
		gbuffer:        gbuffer,
		log:            log.With(zap.Stringer("pass", PassGeometry)),
	}, nil
}

// Type returns PassGeometry.
func (p *DeferredGeometryPass) Type() PassType { return PassGeometry }

// Execute fills the G-buffer with every model and the terrain.
func (p *DeferredGeometryPass) Execute(cam Camera) (GeometryPassOutput, error) {
	return p.ExecutePostLighting(cam, false)
}

// ExecutePostLighting fills the G-buffer. With renderOnlyStatic set only
// static models are staged, for passes whose results are cached.
//
// Models write StencilModel and terrain writes StencilTerrain; stencil
// writes are masked off outside those two draws and the stencil test is
// disabled again on return.
func (p *DeferredGeometryPass) ExecutePostLighting(cam Camera, renderOnlyStatic bool) (GeometryPassOutput, error) {
	gb := p.gbuffer.Get()
	if gb == nil {
		return GeometryPassOutput{}, fmt.Errorf("geometry pass: %w", ErrNoTarget)
	}

	w, h := gb.Size()
	p.state.SetViewport(0, 0, w, h)
	gb.Bind()
	gb.Clear()
	p.state.SetBlend(false)
	p.state.SetMultisample(false)

	p.state.SetStencilOp(gpu.StencilKeep, gpu.StencilKeep, gpu.StencilReplace)
	p.state.SetStencilWriteMask(0x00)
	p.state.SetStencilTest(true)

	mr := p.scene.ModelRenderer()
	terrain := p.scene.Terrain()

	p.state.SwitchProgram(p.modelProgram)
	p.modelProgram.SetMat4("view", cam.ViewMatrix())
	p.modelProgram.SetMat4("projection", cam.ProjectionMatrix())

	if renderOnlyStatic {
		p.scene.AddStaticModelsToRenderer()
	} else {
		p.scene.AddModelsToRenderer()
	}

	p.state.SetStencilWriteMask(0xFF)
	p.state.SetStencilFunc(gpu.CompareAlways, StencilModel, 0xFF)
	mr.FlushOpaque(p.modelProgram, PassGeometry)
	p.state.SetStencilWriteMask(0x00)

	p.state.SwitchProgram(p.terrainProgram)
	p.terrainProgram.SetMat4("view", cam.ViewMatrix())
	p.terrainProgram.SetMat4("projection", cam.ProjectionMatrix())

	p.state.SetStencilWriteMask(0xFF)
	p.state.SetStencilFunc(gpu.CompareAlways, StencilTerrain, 0xFF)
	if terrain != nil {
		terrain.Draw(p.terrainProgram, PassGeometry)
	} else {
		p.log.Debug("scene has no terrain")
	}
	p.state.SetStencilWriteMask(0x00)

	p.state.SetStencilTest(false)

	return GeometryPassOutput{GBuffer: gb}, nil
}

// Close releases the G-buffer if the pass owns it.
func (p *DeferredGeometryPass) Close() {
	p.gbuffer.Release()
}
