package glstate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
)

type recordingBackend struct {
	calls []string
}

func (b *recordingBackend) add(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *recordingBackend) UseProgram(p gpu.Program)        { b.add("use %s", p.Name()) }
func (b *recordingBackend) Viewport(x, y, w, h int32)       { b.add("viewport %d %d %d %d", x, y, w, h) }
func (b *recordingBackend) Enable(c Capability, on bool)    { b.add("enable %d %t", c, on) }
func (b *recordingBackend) StencilMask(mask uint32)         { b.add("mask %#x", mask) }
func (b *recordingBackend) StencilOp(s, d, p gpu.StencilOp) { b.add("op %d %d %d", s, d, p) }

func (b *recordingBackend) StencilFunc(fn gpu.CompareFunc, ref int32, mask uint32) {
	b.add("func %d %d %#x", fn, ref, mask)
}

func TestCacheSkipsRedundantCalls(t *testing.T) {
	b := &recordingBackend{}
	c := New(b)

	c.SetBlend(false)
	c.SetBlend(false)
	c.SetBlend(true)
	c.SetStencilWriteMask(0x00)
	c.SetStencilWriteMask(0x00)
	c.SetStencilWriteMask(0xFF)
	c.SetViewport(0, 0, 10, 10)
	c.SetViewport(0, 0, 10, 10)

	assert.Equal(t, []string{
		"enable 1 false",
		"enable 1 true",
		"mask 0x0",
		"mask 0xff",
		"viewport 0 0 10 10",
	}, b.calls)
	assert.Equal(t, 3, c.Skipped)
}

func TestCacheFirstCallAlwaysIssued(t *testing.T) {
	b := &recordingBackend{}
	c := New(b)

	// GL defaults are not assumed.
	c.SetDepthTest(false)
	c.SetStencilTest(false)
	c.SetMultisample(false)

	assert.Len(t, b.calls, 3)
	assert.Zero(t, c.Skipped)
}

func TestCacheCapabilitiesAreIndependent(t *testing.T) {
	b := &recordingBackend{}
	c := New(b)

	c.SetDepthTest(true)
	c.SetStencilTest(true)
	c.SetDepthTest(true)

	assert.Equal(t, []string{"enable 0 true", "enable 3 true"}, b.calls)
}

func TestCacheStencilState(t *testing.T) {
	b := &recordingBackend{}
	c := New(b)

	c.SetStencilOp(gpu.StencilKeep, gpu.StencilKeep, gpu.StencilReplace)
	c.SetStencilOp(gpu.StencilKeep, gpu.StencilKeep, gpu.StencilReplace)
	c.SetStencilFunc(gpu.CompareAlways, 1, 0xFF)
	c.SetStencilFunc(gpu.CompareAlways, 2, 0xFF)
	c.SetStencilFunc(gpu.CompareAlways, 2, 0xFF)

	assert.Equal(t, []string{
		"op 0 0 2",
		"func 7 1 0xff",
		"func 7 2 0xff",
	}, b.calls)
}

func TestCacheSwitchProgram(t *testing.T) {
	b := &recordingBackend{}
	c := New(b)
	log := &gputest.Log{}
	model := gputest.NewProgram("model", log)
	terrain := gputest.NewProgram("terrain", log)

	c.SwitchProgram(model)
	c.SwitchProgram(model)
	c.SwitchProgram(terrain)
	c.SwitchProgram(model)

	assert.Equal(t, []string{"use model", "use terrain", "use model"}, b.calls)
}

func TestCacheInvalidate(t *testing.T) {
	b := &recordingBackend{}
	c := New(b)

	c.SetBlend(true)
	c.SetBlend(true)
	c.Invalidate()
	c.SetBlend(true)

	assert.Equal(t, []string{"enable 1 true", "enable 1 true"}, b.calls)
	assert.Equal(t, 1, c.Skipped)
}
