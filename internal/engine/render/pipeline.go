package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/logger"
)

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	GBufferWidth  int32
	GBufferHeight int32
	Frustum       ShadowFrustum
	Logger        *zap.Logger
}

// FrameOutput holds the results of every pass of one frame.
type FrameOutput struct {
	Shadowmap ShadowmapPassOutput
	Geometry  GeometryPassOutput
}

// Pipeline runs the passes of a frame in order: light selection, shadow map,
// geometry. The shadow pass draws into the light manager's directional
// target, resolved every frame since the manager may reallocate it.
type Pipeline struct {
	scene    Scene
	shadow   *ShadowmapPass
	geometry *DeferredGeometryPass
	log      *zap.Logger
	frame    uint64
}

// NewPipeline creates the passes for scene.
func NewPipeline(scene Scene, dev gpu.Device, opts PipelineOptions) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Named("render")
	}

	shadowTarget := gpu.BorrowFunc(scene.LightManager().DirectionalShadowTarget)
	shadow, err := NewShadowmapPassWithTarget(scene, dev, shadowTarget, ShadowmapPassOptions{
		Frustum: opts.Frustum,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	geometry, err := NewDeferredGeometryPass(scene, dev, GeometryPassOptions{
		Width:  opts.GBufferWidth,
		Height: opts.GBufferHeight,
		Logger: log,
	})
	if err != nil {
		shadow.Close()
		return nil, err
	}

	log.Info("render pipeline created",
		zap.Int32("gbuffer_width", opts.GBufferWidth),
		zap.Int32("gbuffer_height", opts.GBufferHeight),
	)
	return &Pipeline{scene: scene, shadow: shadow, geometry: geometry, log: log}, nil
}

// RenderFrame renders one frame seen by cam. Any error aborts the frame.
func (p *Pipeline) RenderFrame(cam Camera) (FrameOutput, error) {
	p.frame++

	if err := p.scene.LightManager().Update(); err != nil {
		return FrameOutput{}, fmt.Errorf("frame %d: updating lights: %w", p.frame, err)
	}

	shadow, err := p.shadow.Generate(cam)
	if err != nil {
		return FrameOutput{}, fmt.Errorf("frame %d: %w", p.frame, err)
	}

	geometry, err := p.geometry.Execute(cam)
	if err != nil {
		return FrameOutput{}, fmt.Errorf("frame %d: %w", p.frame, err)
	}

	return FrameOutput{Shadowmap: shadow, Geometry: geometry}, nil
}

// ShadowmapPass returns the pipeline's shadow pass.
func (p *Pipeline) ShadowmapPass() *ShadowmapPass { return p.shadow }

// GeometryPass returns the pipeline's geometry pass.
func (p *Pipeline) GeometryPass() *DeferredGeometryPass { return p.geometry }

// Close releases the resources the passes own.
func (p *Pipeline) Close() {
	p.shadow.Close()
	p.geometry.Close()
}
