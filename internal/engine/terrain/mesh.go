package terrain

import "github.com/go-gl/mathgl/mgl32"

// BuildMesh creates a triangle grid from a heightmap with smooth normals
// from central differences.
func BuildMesh(hm *Heightmap) *Mesh {
	cols := hm.TilesX + 1
	rows := hm.TilesZ + 1
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, cols*rows),
		Indices:  make([]uint32, 0, hm.TilesX*hm.TilesZ*6),
		Bounds: Bounds{
			Min: mgl32.Vec3{1e10, 1e10, 1e10},
			Max: mgl32.Vec3{-1e10, -1e10, -1e10},
		},
	}

	height := func(x, z int) float32 {
		x = min(max(x, 0), hm.TilesX)
		z = min(max(z, 0), hm.TilesZ)
		return hm.Altitudes[x][z]
	}

	for x := 0; x < cols; x++ {
		for z := 0; z < rows; z++ {
			pos := hm.Origin.Add(mgl32.Vec3{
				float32(x) * hm.TileZoom,
				height(x, z),
				float32(z) * hm.TileZoom,
			})
			dx := height(x+1, z) - height(x-1, z)
			dz := height(x, z+1) - height(x, z-1)
			normal := mgl32.Vec3{-dx, 2 * hm.TileZoom, -dz}.Normalize()

			mesh.Vertices = append(mesh.Vertices, Vertex{Position: pos, Normal: normal})
			updateBounds(&mesh.Bounds, pos)
		}
	}

	index := func(x, z int) uint32 { return uint32(x*rows + z) }
	for x := 0; x < hm.TilesX; x++ {
		for z := 0; z < hm.TilesZ; z++ {
			a, b := index(x, z), index(x, z+1)
			c, d := index(x+1, z+1), index(x+1, z)
			// Two counter-clockwise triangles seen from above
			mesh.Indices = append(mesh.Indices, a, b, c, a, c, d)
		}
	}
	return mesh
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}
