// Package glstate tracks fixed-function GL state and skips calls that would
// not change it.
package glstate

import (
	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Capability is a toggleable pipeline feature.
type Capability int

const (
	DepthTest Capability = iota
	Blend
	Multisample
	StencilTest
	numCapabilities
)

// Backend issues the actual state changes.
type Backend interface {
	UseProgram(p gpu.Program)
	Viewport(x, y, width, height int32)
	Enable(c Capability, enabled bool)
	StencilOp(stencilFail, depthFail, depthPass gpu.StencilOp)
	StencilFunc(fn gpu.CompareFunc, ref int32, mask uint32)
	StencilMask(mask uint32)
}

type stencilOp struct {
	sfail, dpfail, dppass gpu.StencilOp
}

type stencilFunc struct {
	fn   gpu.CompareFunc
	ref  int32
	mask uint32
}

// tracked is a value whose GL-side state is only known after it was set
// through the cache.
type tracked[T comparable] struct {
	value T
	known bool
}

func (t *tracked[T]) update(v T) bool {
	if t.known && t.value == v {
		return false
	}
	t.value, t.known = v, true
	return true
}

// Cache implements gpu.State on top of a Backend.
type Cache struct {
	backend Backend

	program     tracked[gpu.Program]
	viewport    tracked[[4]int32]
	caps        [numCapabilities]tracked[bool]
	stencilOp   tracked[stencilOp]
	stencilFunc tracked[stencilFunc]
	stencilMask tracked[uint32]

	// Skipped counts calls elided because the state already matched.
	Skipped int
}

// New returns a cache with every state unknown, so the first call of each
// kind always reaches the backend.
func New(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// Invalidate forgets all tracked state. Call it after code outside the cache
// changed GL state.
func (c *Cache) Invalidate() {
	backend := c.backend
	skipped := c.Skipped
	*c = Cache{backend: backend, Skipped: skipped}
}

func (c *Cache) skip() { c.Skipped++ }

// SwitchProgram makes p current.
func (c *Cache) SwitchProgram(p gpu.Program) {
	if !c.program.update(p) {
		c.skip()
		return
	}
	c.backend.UseProgram(p)
}

// SetViewport sets the viewport rectangle.
func (c *Cache) SetViewport(x, y, width, height int32) {
	if !c.viewport.update([4]int32{x, y, width, height}) {
		c.skip()
		return
	}
	c.backend.Viewport(x, y, width, height)
}

func (c *Cache) setCap(capability Capability, enabled bool) {
	if !c.caps[capability].update(enabled) {
		c.skip()
		return
	}
	c.backend.Enable(capability, enabled)
}

// SetDepthTest toggles depth testing.
func (c *Cache) SetDepthTest(enabled bool) { c.setCap(DepthTest, enabled) }

// SetBlend toggles blending.
func (c *Cache) SetBlend(enabled bool) { c.setCap(Blend, enabled) }

// SetMultisample toggles multisampling.
func (c *Cache) SetMultisample(enabled bool) { c.setCap(Multisample, enabled) }

// SetStencilTest toggles stencil testing.
func (c *Cache) SetStencilTest(enabled bool) { c.setCap(StencilTest, enabled) }

// SetStencilOp sets the stencil update operations.
func (c *Cache) SetStencilOp(stencilFail, depthFail, depthPass gpu.StencilOp) {
	if !c.stencilOp.update(stencilOp{stencilFail, depthFail, depthPass}) {
		c.skip()
		return
	}
	c.backend.StencilOp(stencilFail, depthFail, depthPass)
}

// SetStencilFunc sets the stencil test function.
func (c *Cache) SetStencilFunc(fn gpu.CompareFunc, ref int32, mask uint32) {
	if !c.stencilFunc.update(stencilFunc{fn, ref, mask}) {
		c.skip()
		return
	}
	c.backend.StencilFunc(fn, ref, mask)
}

// SetStencilWriteMask sets which stencil bits draws may write.
func (c *Cache) SetStencilWriteMask(mask uint32) {
	if !c.stencilMask.update(mask) {
		c.skip()
		return
	}
	c.backend.StencilMask(mask)
}

var _ gpu.State = (*Cache)(nil)
