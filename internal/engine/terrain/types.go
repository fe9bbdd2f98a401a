// Package terrain provides heightfield terrain: height lookup, mesh building
// and a GPU drawable.
package terrain

import "github.com/go-gl/mathgl/mgl32"

// Vertex represents a terrain mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds the complete terrain mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Heightmap is a regular grid of heights. Altitudes[x][z] is the height of
// the grid point at world (x*TileZoom, z*TileZoom), relative to Origin.
type Heightmap struct {
	Altitudes [][]float32
	TilesX    int // Number of tiles in X direction
	TilesZ    int // Number of tiles in Z direction
	TileZoom  float32
	Origin    mgl32.Vec3
}
