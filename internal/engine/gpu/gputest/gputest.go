// Package gputest provides recording fakes of the gpu interfaces.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Log is an ordered record of calls shared by every fake of one Device, so
// tests can assert on the interleaving of state changes, uniforms and draws.
type Log struct {
	Calls []string
}

// Add appends a formatted call.
func (l *Log) Add(format string, args ...any) {
	l.Calls = append(l.Calls, fmt.Sprintf(format, args...))
}

// Index returns the position of the first call equal to call, or -1.
func (l *Log) Index(call string) int {
	for i, c := range l.Calls {
		if c == call {
			return i
		}
	}
	return -1
}

// Reset forgets recorded calls.
func (l *Log) Reset() {
	l.Calls = l.Calls[:0]
}

// Target is a fake depth target or G-buffer.
type Target struct {
	ID        int
	Width     int32
	Height    int32
	Format    gpu.DepthFormat
	Destroyed bool
	Binds     int
	Clears    int
	log       *Log
}

// Bind records a bind.
func (t *Target) Bind() {
	t.Binds++
	t.log.Add("bind target %d", t.ID)
}

// Clear records a clear.
func (t *Target) Clear() {
	t.Clears++
	t.log.Add("clear target %d", t.ID)
}

// Size returns the allocated dimensions.
func (t *Target) Size() (int32, int32) {
	return t.Width, t.Height
}

// Destroy marks the target destroyed.
func (t *Target) Destroy() {
	t.Destroyed = true
	t.log.Add("destroy target %d", t.ID)
}

// DepthTexture returns a fake texture name derived from the target ID.
func (t *Target) DepthTexture() uint32 {
	return uint32(t.ID*10 + 1)
}

// ColorTexture returns a fake texture name for attachment i.
func (t *Target) ColorTexture(i int) uint32 {
	return uint32(t.ID*10 + 2 + i)
}

// DepthStencilTexture returns a fake texture name.
func (t *Target) DepthStencilTexture() uint32 {
	return uint32(t.ID*10 + 1)
}

// Program records uniforms by name and in call order.
type Program struct {
	ProgramName string
	Ints        map[string]int32
	Floats      map[string]float32
	Vec2s       map[string]mgl32.Vec2
	Vec3s       map[string]mgl32.Vec3
	IVec4s      map[string][4]int32
	Mat4s       map[string]mgl32.Mat4
	log         *Log
}

// NewProgram returns an empty fake program that records into log.
func NewProgram(name string, log *Log) *Program {
	return &Program{
		ProgramName: name,
		Ints:        make(map[string]int32),
		Floats:      make(map[string]float32),
		Vec2s:       make(map[string]mgl32.Vec2),
		Vec3s:       make(map[string]mgl32.Vec3),
		IVec4s:      make(map[string][4]int32),
		Mat4s:       make(map[string]mgl32.Mat4),
		log:         log,
	}
}

// Name returns the program name.
func (p *Program) Name() string { return p.ProgramName }

// SetInt records an int uniform.
func (p *Program) SetInt(name string, v int32) {
	p.Ints[name] = v
	p.log.Add("%s.%s", p.ProgramName, name)
}

// SetFloat records a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	p.Floats[name] = v
	p.log.Add("%s.%s", p.ProgramName, name)
}

// SetVec2 records a vec2 uniform.
func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	p.Vec2s[name] = v
	p.log.Add("%s.%s", p.ProgramName, name)
}

// SetVec3 records a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.Vec3s[name] = v
	p.log.Add("%s.%s", p.ProgramName, name)
}

// SetIVec4 records an ivec4 uniform.
func (p *Program) SetIVec4(name string, v [4]int32) {
	p.IVec4s[name] = v
	p.log.Add("%s.%s", p.ProgramName, name)
}

// SetMat4 records a mat4 uniform.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	p.Mat4s[name] = m
	p.log.Add("%s.%s", p.ProgramName, name)
}

// State records state changes without caching.
type State struct {
	StencilTest bool
	Blend       bool
	Multisample bool
	WriteMask   uint32
	log         *Log
}

// SwitchProgram records a program switch.
func (s *State) SwitchProgram(p gpu.Program) { s.log.Add("use %s", p.Name()) }

// SetViewport records the viewport.
func (s *State) SetViewport(x, y, w, h int32) { s.log.Add("viewport %d %d %d %d", x, y, w, h) }

// SetDepthTest records depth test enablement.
func (s *State) SetDepthTest(enabled bool) { s.log.Add("depth test %t", enabled) }

// SetBlend records blending enablement.
func (s *State) SetBlend(enabled bool) {
	s.Blend = enabled
	s.log.Add("blend %t", enabled)
}

// SetMultisample records multisampling enablement.
func (s *State) SetMultisample(enabled bool) {
	s.Multisample = enabled
	s.log.Add("multisample %t", enabled)
}

// SetStencilTest records stencil test enablement.
func (s *State) SetStencilTest(enabled bool) {
	s.StencilTest = enabled
	s.log.Add("stencil test %t", enabled)
}

// SetStencilOp records the stencil operations.
func (s *State) SetStencilOp(sfail, dpfail, dppass gpu.StencilOp) {
	s.log.Add("stencil op %d %d %d", sfail, dpfail, dppass)
}

// SetStencilFunc records the stencil function.
func (s *State) SetStencilFunc(fn gpu.CompareFunc, ref int32, mask uint32) {
	s.log.Add("stencil func %d %d 0x%02x", fn, ref, mask)
}

// SetStencilWriteMask records the stencil write mask.
func (s *State) SetStencilWriteMask(mask uint32) {
	s.WriteMask = mask
	s.log.Add("stencil mask 0x%02x", mask)
}

// Device is a fake gpu.Device that records allocations.
type Device struct {
	Log      *Log
	Targets  []*Target
	Programs map[string]*Program
	// FailAlloc makes the next allocation fail.
	FailAlloc bool
	state     *State
	nextID    int
}

// NewDevice returns a fake device with an empty call log.
func NewDevice() *Device {
	log := &Log{}
	return &Device{
		Log:      log,
		Programs: make(map[string]*Program),
		state:    &State{log: log},
	}
}

// State returns the recording state.
func (d *Device) State() gpu.State { return d.state }

// FakeState returns the concrete recording state.
func (d *Device) FakeState() *State { return d.state }

// Program returns (and creates on first use) the fake program called name.
func (d *Device) Program(name string) (gpu.Program, error) {
	return d.FakeProgram(name), nil
}

// FakeProgram returns the concrete fake program called name.
func (d *Device) FakeProgram(name string) *Program {
	p, ok := d.Programs[name]
	if !ok {
		p = NewProgram(name, d.Log)
		d.Programs[name] = p
	}
	return p
}

// NewDepthTarget records a depth target allocation.
func (d *Device) NewDepthTarget(width, height int32, format gpu.DepthFormat) (gpu.DepthTarget, error) {
	t, err := d.alloc(width, height)
	if err != nil {
		return nil, err
	}
	t.Format = format
	d.Log.Add("create depth target %d %dx%d", t.ID, width, height)
	return t, nil
}

// NewGBuffer records a G-buffer allocation.
func (d *Device) NewGBuffer(width, height int32) (gpu.GBuffer, error) {
	t, err := d.alloc(width, height)
	if err != nil {
		return nil, err
	}
	d.Log.Add("create gbuffer %d %dx%d", t.ID, width, height)
	return t, nil
}

func (d *Device) alloc(width, height int32) (*Target, error) {
	if d.FailAlloc {
		d.FailAlloc = false
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", 0x8cd6)
	}
	d.nextID++
	t := &Target{ID: d.nextID, Width: width, Height: height, log: d.Log}
	d.Targets = append(d.Targets, t)
	return t, nil
}

// Live returns the targets that have not been destroyed.
func (d *Device) Live() []*Target {
	var live []*Target
	for _, t := range d.Targets {
		if !t.Destroyed {
			live = append(live, t)
		}
	}
	return live
}

// Destroyed returns how many targets have been destroyed.
func (d *Device) Destroyed() int {
	n := 0
	for _, t := range d.Targets {
		if t.Destroyed {
			n++
		}
	}
	return n
}
