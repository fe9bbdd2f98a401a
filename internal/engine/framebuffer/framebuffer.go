// Package framebuffer provides OpenGL framebuffers for offscreen rendering:
// shadow depth targets and the deferred G-buffer.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// ColorFormat selects the storage of a color attachment.
type ColorFormat int

const (
	// RGBA8 is an 8-bit normalized color texture.
	RGBA8 ColorFormat = iota
	// RGB16F is a half-float texture, used for positions and normals.
	RGB16F
	// RGBA16F is a half-float texture with alpha.
	RGBA16F
)

func (f ColorFormat) glFormats() (internal int32, format, xtype uint32) {
	switch f {
	case RGB16F:
		return gl.RGB16F, gl.RGB, gl.FLOAT
	case RGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

// Framebuffer is an offscreen render target. It is configured with the Add*
// methods and allocated by Create.
type Framebuffer struct {
	fbo    uint32
	width  int32
	height int32

	colorFormats  []ColorFormat
	colorTextures []uint32

	depth        bool
	depthFormat  gpu.DepthFormat
	shadowSample bool
	depthTexture uint32

	clearColor [4]float32
}

// New describes a framebuffer with the specified dimensions. Nothing is
// allocated until Create.
func New(width, height int32) *Framebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Framebuffer{width: width, height: height}
}

// AddColorTexture appends a color attachment.
func (fb *Framebuffer) AddColorTexture(format ColorFormat) *Framebuffer {
	fb.colorFormats = append(fb.colorFormats, format)
	return fb
}

// AddDepthTexture sets the depth (or depth-stencil) attachment. A
// framebuffer has at most one; a second call replaces the first.
func (fb *Framebuffer) AddDepthTexture(format gpu.DepthFormat) *Framebuffer {
	fb.depth = true
	fb.depthFormat = format
	return fb
}

// WithShadowSampling configures the depth texture for sampler2DShadow
// comparison lookups.
func (fb *Framebuffer) WithShadowSampling() *Framebuffer {
	fb.shadowSample = true
	return fb
}

// WithClearColor sets the color Clear uses.
func (fb *Framebuffer) WithClearColor(c [4]float32) *Framebuffer {
	fb.clearColor = c
	return fb
}

// Create allocates the GL objects and checks completeness.
func (fb *Framebuffer) Create() error {
	if fb.fbo != 0 {
		return fmt.Errorf("framebuffer already created")
	}
	if len(fb.colorFormats) == 0 && !fb.depth {
		return fmt.Errorf("framebuffer has no attachments")
	}

	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	drawBuffers := make([]uint32, 0, len(fb.colorFormats))
	for i, format := range fb.colorFormats {
		internal, pixelFormat, xtype := format.glFormats()
		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, fb.width, fb.height, 0, pixelFormat, xtype, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

		attachment := uint32(gl.COLOR_ATTACHMENT0 + i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
		fb.colorTextures = append(fb.colorTextures, tex)
		drawBuffers = append(drawBuffers, attachment)
	}

	if fb.depth {
		fb.createDepthTexture()
	}

	if len(drawBuffers) == 0 {
		// No color buffer for depth-only targets
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	} else {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

func (fb *Framebuffer) createDepthTexture() {
	var internal int32
	var format, xtype, attachment uint32
	switch fb.depthFormat {
	case gpu.NormalizedDepthStencil:
		internal, format, xtype = gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8
		attachment = gl.DEPTH_STENCIL_ATTACHMENT
	case gpu.FloatingPointDepthOnly:
		internal, format, xtype = gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
		attachment = gl.DEPTH_ATTACHMENT
	default:
		internal, format, xtype = gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT
		attachment = gl.DEPTH_ATTACHMENT
	}

	gl.GenTextures(1, &fb.depthTexture)
	gl.BindTexture(gl.TEXTURE_2D, fb.depthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, fb.width, fb.height, 0, format, xtype, nil)

	if fb.shadowSample {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

		// Clamp to border with white (1.0) to avoid shadow outside frustum
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		borderColor := []float32{1.0, 1.0, 1.0, 1.0}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, fb.depthTexture, 0)
}

// Bind makes this framebuffer the current render target. The viewport is
// left to the caller.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Clear clears every attachment of the bound framebuffer.
func (fb *Framebuffer) Clear() {
	var mask uint32
	if len(fb.colorTextures) > 0 {
		gl.ClearColor(fb.clearColor[0], fb.clearColor[1], fb.clearColor[2], fb.clearColor[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if fb.depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if fb.depth && fb.depthFormat == gpu.NormalizedDepthStencil {
		// glClear honours the stencil write mask, which the geometry pass
		// leaves at 0x00. Restore it afterwards so state caches stay valid.
		var prevMask int32
		gl.GetIntegerv(gl.STENCIL_WRITEMASK, &prevMask)
		gl.StencilMask(0xFF)
		gl.Clear(mask | gl.STENCIL_BUFFER_BIT)
		gl.StencilMask(uint32(prevMask))
		return
	}
	gl.Clear(mask)
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// ColorTexture returns the texture of color attachment i, or 0.
func (fb *Framebuffer) ColorTexture(i int) uint32 {
	if i < 0 || i >= len(fb.colorTextures) {
		return 0
	}
	return fb.colorTextures[i]
}

// DepthTexture returns the depth attachment texture.
func (fb *Framebuffer) DepthTexture() uint32 {
	return fb.depthTexture
}

// DepthStencilTexture returns the depth attachment texture; it carries the
// stencil bits when created with gpu.NormalizedDepthStencil.
func (fb *Framebuffer) DepthStencilTexture() uint32 {
	return fb.depthTexture
}

// FBO returns the underlying framebuffer object ID.
func (fb *Framebuffer) FBO() uint32 {
	return fb.fbo
}

// BlitToScreen copies color attachment i into the default framebuffer,
// scaled to the given window size.
func (fb *Framebuffer) BlitToScreen(i int, windowWidth, windowHeight int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.ReadBuffer(uint32(gl.COLOR_ATTACHMENT0 + i))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, windowWidth, windowHeight, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadColor reads color attachment i as RGBA8, bottom row first.
func (fb *Framebuffer) ReadColor(i int) ([]byte, error) {
	if i < 0 || i >= len(fb.colorTextures) {
		return nil, fmt.Errorf("no color attachment %d", i)
	}
	pixels := make([]byte, int(fb.width)*int(fb.height)*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.ReadBuffer(uint32(gl.COLOR_ATTACHMENT0 + i))
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels, nil
}

// ReadDepth reads the depth attachment as floats in [0, 1], bottom row first.
func (fb *Framebuffer) ReadDepth() ([]float32, error) {
	if fb.depthTexture == 0 {
		return nil, fmt.Errorf("framebuffer has no depth attachment")
	}
	depths := make([]float32, int(fb.width)*int(fb.height))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(depths))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return depths, nil
}

// Destroy releases all OpenGL resources.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if len(fb.colorTextures) > 0 {
		gl.DeleteTextures(int32(len(fb.colorTextures)), &fb.colorTextures[0])
		fb.colorTextures = nil
	}
	if fb.depthTexture != 0 {
		gl.DeleteTextures(1, &fb.depthTexture)
		fb.depthTexture = 0
	}
}
