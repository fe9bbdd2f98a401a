package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Program is a linked GL program addressed by name. Uniform locations are
// looked up once and cached; a missing uniform is reported once and then
// silently ignored, as GL itself does for location -1.
type Program struct {
	name      string
	id        uint32
	locations map[string]int32
	log       *zap.Logger
}

// NewProgram compiles and links the given sources.
func NewProgram(name, vertexSrc, fragmentSrc string, log *zap.Logger) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{
		name:      name,
		id:        id,
		locations: make(map[string]int32),
		log:       log,
	}, nil
}

// Name returns the program's registered name.
func (p *Program) Name() string { return p.name }

// ID returns the GL program object.
func (p *Program) ID() uint32 { return p.id }

// Use makes the program current.
func (p *Program) Use() { gl.UseProgram(p.id) }

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	if loc < 0 {
		p.log.Debug("uniform not active", zap.String("program", p.name), zap.String("uniform", name))
	}
	p.locations[name] = loc
	return loc
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, v int32) {
	gl.ProgramUniform1i(p.id, p.location(name), v)
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	gl.ProgramUniform1f(p.id, p.location(name), v)
}

// SetVec2 sets a vec2 uniform.
func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	gl.ProgramUniform2f(p.id, p.location(name), v.X(), v.Y())
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.ProgramUniform3f(p.id, p.location(name), v.X(), v.Y(), v.Z())
}

// SetIVec4 sets an ivec4 uniform.
func (p *Program) SetIVec4(name string, v [4]int32) {
	gl.ProgramUniform4i(p.id, p.location(name), v[0], v[1], v[2], v[3])
}

// SetMat4 sets a mat4 uniform.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(p.id, p.location(name), 1, false, &m[0])
}

// Destroy deletes the GL program.
func (p *Program) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

var _ gpu.Program = (*Program)(nil)
