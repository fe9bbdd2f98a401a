package terrain

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/render"
)

// Terrain is an uploaded heightfield. It implements render.Terrain.
type Terrain struct {
	Heightmap *Heightmap
	Bounds    Bounds

	// Colours blended by height in the geometry pass.
	LowColour  mgl32.Vec3
	HighColour mgl32.Vec3

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// New builds the mesh for hm and uploads it.
func New(hm *Heightmap) *Terrain {
	mesh := BuildMesh(hm)
	t := &Terrain{
		Heightmap:  hm,
		Bounds:     mesh.Bounds,
		LowColour:  mgl32.Vec3{0.22, 0.36, 0.16},
		HighColour: mgl32.Vec3{0.55, 0.52, 0.45},
		indexCount: int32(len(mesh.Indices)),
	}

	gl.GenVertexArrays(1, &t.vao)
	gl.BindVertexArray(t.vao)

	gl.GenBuffers(1, &t.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.vbo)
	stride := int32(unsafe.Sizeof(Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &t.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, t.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, unsafe.Offsetof(Vertex{}.Position))
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, unsafe.Offsetof(Vertex{}.Normal))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return t
}

// SetUniforms writes the per-pass terrain uniforms to p.
func (t *Terrain) SetUniforms(p gpu.Program, pass render.PassType) {
	p.SetMat4("model", mgl32.Ident4())
	if pass != render.PassGeometry {
		return
	}
	p.SetVec3("lowColour", t.LowColour)
	p.SetVec3("highColour", t.HighColour)
	p.SetVec2("heightRange", mgl32.Vec2{t.Bounds.Min.Y(), t.Bounds.Max.Y()})
}

// Draw renders the terrain with p.
func (t *Terrain) Draw(p gpu.Program, pass render.PassType) {
	t.SetUniforms(p, pass)
	gl.BindVertexArray(t.vao)
	gl.DrawElements(gl.TRIANGLES, t.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// HeightAt returns the terrain height at a world position.
func (t *Terrain) HeightAt(x, z float32) float32 {
	return t.Heightmap.HeightAt(x, z)
}

// Destroy releases the GL buffers.
func (t *Terrain) Destroy() {
	if t.vao != 0 {
		gl.DeleteVertexArrays(1, &t.vao)
		t.vao = 0
	}
	if t.vbo != 0 {
		gl.DeleteBuffers(1, &t.vbo)
		t.vbo = 0
	}
	if t.ebo != 0 {
		gl.DeleteBuffers(1, &t.ebo)
		t.ebo = 0
	}
}

var _ render.Terrain = (*Terrain)(nil)
