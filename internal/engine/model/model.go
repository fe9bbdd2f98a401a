package model

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Drawable issues the draw call of an uploaded mesh.
type Drawable interface {
	Draw()
}

// Model is a mesh with a flat material.
type Model struct {
	Name   string
	Mesh   Drawable
	Bounds Bounds
	Albedo mgl32.Vec3
	// Alpha below 1 routes the model through the transparent queue.
	Alpha float32
}

// Transparent reports whether the model must be drawn after opaque geometry.
func (m *Model) Transparent() bool {
	return m.Alpha < 1
}

// Draw renders the model with world as its model matrix. Material uniforms
// are skipped for depth-only passes.
func (m *Model) Draw(p gpu.Program, world mgl32.Mat4, withMaterial bool) {
	p.SetMat4("model", world)
	if withMaterial {
		p.SetVec3("albedoColour", m.Albedo)
	}
	m.Mesh.Draw()
}

// GPUMesh is a mesh uploaded to vertex and index buffers.
type GPUMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Upload creates the GL buffers for mesh.
func Upload(mesh *Mesh) *GPUMesh {
	g := &GPUMesh{indexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	stride := int32(unsafe.Sizeof(Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, unsafe.Offsetof(Vertex{}.Position))
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, unsafe.Offsetof(Vertex{}.Normal))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return g
}

// Draw issues an indexed triangle draw.
func (g *GPUMesh) Draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the GL buffers.
func (g *GPUMesh) Destroy() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
		g.vbo = 0
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
		g.ebo = 0
	}
}
