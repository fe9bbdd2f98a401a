package model

import "github.com/go-gl/mathgl/mgl32"

// cubeFaces lists each face's outward normal and the two in-plane axes
// whose cross product equals the normal, so quads wind counter-clockwise.
var cubeFaces = [6]struct {
	normal, u, v mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
}

// BuildCube creates an axis-aligned cube of the given edge length centred on
// the origin, with flat per-face normals.
func BuildCube(size float32) *Mesh {
	h := size / 2
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
		Bounds:   emptyBounds(),
	}

	for _, f := range cubeFaces {
		center := f.normal.Mul(h)
		corners := [4]mgl32.Vec3{
			center.Sub(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Add(f.v.Mul(h)),
			center.Sub(f.u.Mul(h)).Add(f.v.Mul(h)),
		}
		mesh.addQuad(corners, f.normal)
	}
	return mesh
}

// BuildPlane creates a square in the XZ plane facing +Y.
func BuildPlane(size float32) *Mesh {
	h := size / 2
	mesh := &Mesh{Bounds: emptyBounds()}
	mesh.addQuad([4]mgl32.Vec3{
		{-h, 0, -h},
		{-h, 0, h},
		{h, 0, h},
		{h, 0, -h},
	}, mgl32.Vec3{0, 1, 0})
	return mesh
}

// addQuad appends two counter-clockwise triangles.
func (m *Mesh) addQuad(corners [4]mgl32.Vec3, normal mgl32.Vec3) {
	base := uint32(len(m.Vertices))
	for _, c := range corners {
		m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: normal})
		m.Bounds.extend(c)
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}
