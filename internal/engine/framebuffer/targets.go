package framebuffer

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// G-buffer color attachment indices.
const (
	GBufferPosition = iota
	GBufferNormal
	GBufferAlbedo
)

// NewDepthTarget creates a shadow map target: exactly one depth attachment,
// sampled with depth comparison.
func NewDepthTarget(width, height int32, format gpu.DepthFormat) (*Framebuffer, error) {
	fb := New(width, height).
		AddDepthTexture(format).
		WithShadowSampling()
	if err := fb.Create(); err != nil {
		return nil, fmt.Errorf("creating %v depth target %dx%d: %w", format, width, height, err)
	}
	return fb, nil
}

// NewGBuffer creates the deferred G-buffer: world position, normal and
// albedo color attachments plus a depth-stencil attachment for pixel
// classification.
func NewGBuffer(width, height int32) (*Framebuffer, error) {
	fb := New(width, height).
		AddColorTexture(RGB16F).
		AddColorTexture(RGB16F).
		AddColorTexture(RGBA8).
		AddDepthTexture(gpu.NormalizedDepthStencil)
	if err := fb.Create(); err != nil {
		return nil, fmt.Errorf("creating gbuffer %dx%d: %w", width, height, err)
	}
	return fb, nil
}

var (
	_ gpu.DepthTarget = (*Framebuffer)(nil)
	_ gpu.GBuffer     = (*Framebuffer)(nil)
)
