// Package gpu defines the graphics resources and fixed-function state the
// render pipeline drives. The OpenGL implementations live in the framebuffer,
// shader, glstate and renderer packages; gputest provides recording fakes.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Target is a bindable off-screen render target.
type Target interface {
	// Bind makes the target current for drawing.
	Bind()
	// Clear clears every attachment of the target.
	Clear()
	Size() (width, height int32)
	Destroy()
}

// DepthTarget is a target with a single depth or depth-stencil attachment,
// sampled by the lighting pass as a shadow map.
type DepthTarget interface {
	Target
	DepthTexture() uint32
}

// GBuffer is the multi-attachment target of the deferred pipeline.
type GBuffer interface {
	Target
	// ColorTexture returns the texture of color attachment i.
	ColorTexture(i int) uint32
	DepthStencilTexture() uint32
}

// DepthFormat selects the storage of a depth attachment.
type DepthFormat int

const (
	// NormalizedDepthOnly is a 24-bit normalized depth texture without stencil.
	NormalizedDepthOnly DepthFormat = iota
	// NormalizedDepthStencil is 24-bit normalized depth with 8-bit stencil.
	NormalizedDepthStencil
	// FloatingPointDepthOnly is a 32-bit float depth texture.
	FloatingPointDepthOnly
)

func (f DepthFormat) String() string {
	switch f {
	case NormalizedDepthOnly:
		return "NormalizedDepthOnly"
	case NormalizedDepthStencil:
		return "NormalizedDepthStencil"
	case FloatingPointDepthOnly:
		return "FloatingPointDepthOnly"
	default:
		return "Unknown"
	}
}

// Program is a linked shader program. Uniforms are addressed by name; the
// names are the contract between the engine and its GLSL sources.
type Program interface {
	Name() string
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetIVec4(name string, v [4]int32)
	SetMat4(name string, m mgl32.Mat4)
}

// State is the subset of fixed-function pipeline state the passes change.
type State interface {
	SwitchProgram(p Program)
	SetViewport(x, y, width, height int32)
	SetDepthTest(enabled bool)
	SetBlend(enabled bool)
	SetMultisample(enabled bool)
	SetStencilTest(enabled bool)
	SetStencilOp(stencilFail, depthFail, depthPass StencilOp)
	SetStencilFunc(fn CompareFunc, ref int32, mask uint32)
	SetStencilWriteMask(mask uint32)
}

// Device allocates GPU resources and exposes the state the passes drive.
type Device interface {
	State() State
	// Program returns the compiled program registered under name.
	Program(name string) (Program, error)
	// NewDepthTarget allocates a target with exactly one depth attachment.
	NewDepthTarget(width, height int32, format DepthFormat) (DepthTarget, error)
	NewGBuffer(width, height int32) (GBuffer, error)
}

// CompareFunc is a depth/stencil comparison function.
type CompareFunc int

// Comparison functions.
const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// StencilOp is a stencil buffer update operation.
type StencilOp int

// Stencil operations.
const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrClamp
	StencilDecrClamp
	StencilInvert
	StencilIncrWrap
	StencilDecrWrap
)
