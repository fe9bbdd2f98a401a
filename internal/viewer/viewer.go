// Package viewer runs the interactive scene viewer: window, input, scene and
// the deferred render pipeline tied together in a frame loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/framebuffer"
	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/render"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/window"
	"github.com/Faultbox/lumen/internal/logger"
)

// Viewer is the main viewer instance.
type Viewer struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Context
	camera   *camera.FPSCamera
	scene    *scene.Scene
	lights   *lighting.Manager
	pipeline *render.Pipeline
	demo     *demo
	captures *debug.Capture
	log      *zap.Logger

	// Attachment of the G-buffer shown on screen.
	presented int
}

// New creates the window, GL resources and scene described by cfg.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config:    cfg,
		log:       logger.Named("viewer"),
		presented: framebuffer.GBufferAlbedo,
		captures:  debug.NewCapture(cfg.Render.CaptureDir, "lumen"),
	}
	if err := v.init(); err != nil {
		v.Close()
		return nil, err
	}
	v.log.Info("viewer initialized", zap.Int("entities", v.scene.Len()))
	return v, nil
}

func (v *Viewer) init() error {
	cfg := v.config
	var err error

	// The window creates the GL context, so it comes first.
	v.window, err = window.New(cfg.Window)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      int(width),
		Height:     int(height),
		ClearColor: cfg.Render.ClearColor,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New(logger.Named("input"))

	v.camera = camera.NewFPSCamera(mgl32.Vec3{0, 20, 60}, float32(width)/float32(height))
	v.camera.LookAt(mgl32.Vec3{0, 0, 0})

	v.scene = scene.New(v.renderer.State(), logger.Named("scene"))
	v.scene.SetCamera(v.camera)

	if cfg.Scene.Demo {
		v.demo = buildDemo(v.scene)
	}
	if cfg.Scene.GLTFPath != "" {
		if _, err := v.scene.ImportGLTFLights(cfg.Scene.GLTFPath); err != nil {
			return err
		}
	}

	v.lights, err = v.scene.InitLighting(v.renderer, LightingOptions(cfg))
	if err != nil {
		return err
	}

	gbWidth, gbHeight := cfg.GBufferSize()
	v.pipeline, err = render.NewPipeline(v.scene, v.renderer, render.PipelineOptions{
		GBufferWidth:  gbWidth,
		GBufferHeight: gbHeight,
		Frustum:       ShadowFrustum(cfg),
		Logger:        logger.Named("render"),
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}

	return nil
}

// LightingOptions maps the shadow settings of cfg onto the light manager.
func LightingOptions(cfg *config.Config) lighting.Options {
	return lighting.Options{
		DefaultResolution: int32(cfg.Shadows.DefaultResolution),
		NearPlane:         cfg.Shadows.NearPlane,
		FarPlane:          cfg.Shadows.FarPlane,
		Bias:              cfg.Shadows.Bias,
		Logger:            logger.Named("lighting"),
	}
}

// ShadowFrustum maps the shadow settings of cfg onto the directional shadow
// projection.
func ShadowFrustum(cfg *config.Config) render.ShadowFrustum {
	return render.ShadowFrustum{
		LookAhead:   cfg.Shadows.LookAhead,
		EyeDistance: cfg.Shadows.EyeDistance,
		HalfExtent:  cfg.Shadows.OrthoHalfExtent,
		Near:        cfg.Shadows.NearPlane,
		Far:         cfg.Shadows.FarPlane,
	}
}

// Run starts the frame loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		events := v.window.PollEvents(v.input)
		if events.Quit || v.input.IsKeyPressed(int(sdl.SCANCODE_ESCAPE)) {
			v.running = false
			break
		}
		if events.Resized {
			v.renderer.Resize(int(events.Width), int(events.Height))
			v.camera.SetAspect(int(events.Width), int(events.Height))
		}

		v.update(float32(dt))

		out, err := v.pipeline.RenderFrame(v.camera)
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.input.WasKeyPressed(int(sdl.SCANCODE_F12)) {
			v.capture(out)
		}
		v.renderer.Present(out.Geometry.GBuffer, v.presented)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			v.window.SetTitle(fmt.Sprintf("%s - %d fps", v.config.Window.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

var movementKeys = []struct {
	key sdl.Scancode
	dir camera.Movement
}{
	{sdl.SCANCODE_W, camera.Forward},
	{sdl.SCANCODE_S, camera.Backward},
	{sdl.SCANCODE_A, camera.Left},
	{sdl.SCANCODE_D, camera.Right},
	{sdl.SCANCODE_SPACE, camera.Up},
	{sdl.SCANCODE_LCTRL, camera.Down},
}

var attachmentKeys = []struct {
	key        sdl.Scancode
	attachment int
}{
	{sdl.SCANCODE_1, framebuffer.GBufferAlbedo},
	{sdl.SCANCODE_2, framebuffer.GBufferNormal},
	{sdl.SCANCODE_3, framebuffer.GBufferPosition},
}

func (v *Viewer) update(dt float32) {
	for _, m := range movementKeys {
		if v.input.IsKeyPressed(int(m.key)) {
			v.camera.HandleMovement(m.dir, dt)
		}
	}

	// Mouse look while the right button is held.
	look := v.input.IsMouseButtonPressed(int(sdl.BUTTON_RIGHT))
	v.window.CaptureMouse(look)
	if look {
		dx, dy := v.input.MouseDelta()
		v.camera.HandleMouse(float32(dx), float32(dy))
	}

	if _, scroll := v.input.ScrollDelta(); scroll != 0 {
		v.camera.HandleZoom(float32(scroll))
	}

	for _, a := range attachmentKeys {
		if v.input.WasKeyPressed(int(a.key)) {
			v.presented = a.attachment
			v.log.Debug("presenting gbuffer attachment", zap.Int("attachment", a.attachment))
		}
	}

	if v.demo != nil {
		v.demo.update(v.scene, dt)
	}
}

// Close releases everything New created, newest first.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.pipeline != nil {
		v.pipeline.Close()
	}
	if v.lights != nil {
		v.lights.Close()
	}
	if v.demo != nil {
		v.demo.destroy()
	}
	if v.input != nil {
		v.input.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
