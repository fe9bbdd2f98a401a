// Package renderer provides the OpenGL device the render pipeline runs on.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/framebuffer"
	"github.com/Faultbox/lumen/internal/engine/glstate"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

// Renderer owns the GL state cache and the shader library, and allocates
// render targets. It implements gpu.Device.
type Renderer struct {
	config  Config
	state   *glstate.Cache
	shaders *shader.Library
	log     *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log := logger.Named("renderer")
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	r := &Renderer{
		config:  cfg,
		state:   glstate.New(glstate.GL{}),
		shaders: shader.NewLibrary(log),
		log:     log,
	}

	// Setup default OpenGL state
	r.state.SetDepthTest(true)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	// Compile every embedded program up front so a bad shader fails startup
	// rather than the first frame.
	for _, name := range shader.Names() {
		if _, err := r.shaders.Program(name); err != nil {
			r.shaders.Close()
			return nil, err
		}
	}

	return r, nil
}

// State returns the cached GL state.
func (r *Renderer) State() gpu.State {
	return r.state
}

// Program returns the compiled program called name.
func (r *Renderer) Program(name string) (gpu.Program, error) {
	p, err := r.shaders.Program(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// NewDepthTarget allocates a shadow map target.
func (r *Renderer) NewDepthTarget(width, height int32, format gpu.DepthFormat) (gpu.DepthTarget, error) {
	fb, err := framebuffer.NewDepthTarget(width, height, format)
	if err != nil {
		return nil, err
	}
	r.log.Debug("depth target created",
		zap.Uint32("fbo", fb.FBO()),
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Stringer("format", format),
	)
	return fb, nil
}

// NewGBuffer allocates a G-buffer cleared to the configured color.
func (r *Renderer) NewGBuffer(width, height int32) (gpu.GBuffer, error) {
	fb, err := framebuffer.NewGBuffer(width, height)
	if err != nil {
		return nil, err
	}
	fb.WithClearColor(r.config.ClearColor)
	r.log.Debug("gbuffer created",
		zap.Uint32("fbo", fb.FBO()),
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
	return fb, nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Present copies color attachment attachment of gb to the window.
func (r *Renderer) Present(gb gpu.GBuffer, attachment int) {
	fb, ok := gb.(*framebuffer.Framebuffer)
	if !ok {
		return
	}
	fb.BlitToScreen(attachment, int32(r.config.Width), int32(r.config.Height))
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.shaders.Close()
}

var _ gpu.Device = (*Renderer)(nil)
