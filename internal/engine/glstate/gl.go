package glstate

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// GL issues state changes to the current OpenGL context.
type GL struct{}

// UseProgram binds p, which must expose its GL object through ID.
func (GL) UseProgram(p gpu.Program) {
	if prog, ok := p.(interface{ ID() uint32 }); ok {
		gl.UseProgram(prog.ID())
		return
	}
	gl.UseProgram(0)
}

// Viewport sets the GL viewport.
func (GL) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// Enable toggles a capability.
func (GL) Enable(c Capability, enabled bool) {
	var capability uint32
	switch c {
	case DepthTest:
		capability = gl.DEPTH_TEST
	case Blend:
		capability = gl.BLEND
	case Multisample:
		capability = gl.MULTISAMPLE
	case StencilTest:
		capability = gl.STENCIL_TEST
	default:
		return
	}
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// StencilOp sets glStencilOp.
func (GL) StencilOp(stencilFail, depthFail, depthPass gpu.StencilOp) {
	gl.StencilOp(glStencilOp(stencilFail), glStencilOp(depthFail), glStencilOp(depthPass))
}

// StencilFunc sets glStencilFunc.
func (GL) StencilFunc(fn gpu.CompareFunc, ref int32, mask uint32) {
	gl.StencilFunc(glCompareFunc(fn), ref, mask)
}

// StencilMask sets glStencilMask.
func (GL) StencilMask(mask uint32) {
	gl.StencilMask(mask)
}

func glStencilOp(op gpu.StencilOp) uint32 {
	switch op {
	case gpu.StencilZero:
		return gl.ZERO
	case gpu.StencilReplace:
		return gl.REPLACE
	case gpu.StencilIncrClamp:
		return gl.INCR
	case gpu.StencilDecrClamp:
		return gl.DECR
	case gpu.StencilInvert:
		return gl.INVERT
	case gpu.StencilIncrWrap:
		return gl.INCR_WRAP
	case gpu.StencilDecrWrap:
		return gl.DECR_WRAP
	default:
		return gl.KEEP
	}
}

func glCompareFunc(fn gpu.CompareFunc) uint32 {
	switch fn {
	case gpu.CompareNever:
		return gl.NEVER
	case gpu.CompareLess:
		return gl.LESS
	case gpu.CompareEqual:
		return gl.EQUAL
	case gpu.CompareLessEqual:
		return gl.LEQUAL
	case gpu.CompareGreater:
		return gl.GREATER
	case gpu.CompareNotEqual:
		return gl.NOTEQUAL
	case gpu.CompareGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.ALWAYS
	}
}

var _ Backend = GL{}
