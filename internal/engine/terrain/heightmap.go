package terrain

import (
	gomath "math"
)

// HeightFunc returns the terrain height at a world XZ position.
type HeightFunc func(x, z float32) float32

// BuildHeightmap samples fn on a grid of tilesX x tilesZ tiles. The grid has
// one more point than tiles along each axis.
func BuildHeightmap(tilesX, tilesZ int, tileZoom float32, fn HeightFunc) *Heightmap {
	hm := &Heightmap{
		Altitudes: make([][]float32, tilesX+1),
		TilesX:    tilesX,
		TilesZ:    tilesZ,
		TileZoom:  tileZoom,
	}
	for x := 0; x < tilesX+1; x++ {
		hm.Altitudes[x] = make([]float32, tilesZ+1)
		for z := 0; z < tilesZ+1; z++ {
			hm.Altitudes[x][z] = fn(float32(x)*tileZoom, float32(z)*tileZoom)
		}
	}
	return hm
}

// Rolling returns a smooth height function of summed sine waves.
func Rolling(amplitude, wavelength float32) HeightFunc {
	k := 2 * gomath.Pi / float64(wavelength)
	return func(x, z float32) float32 {
		fx, fz := float64(x)*k, float64(z)*k
		h := gomath.Sin(fx)*gomath.Cos(fz) + 0.5*gomath.Sin(2*fx+1.3)*gomath.Sin(1.7*fz)
		return amplitude * float32(h) / 1.5
	}
}

// HeightAt returns the bilinearly interpolated height at a world position.
// Positions outside the grid are clamped to its edge.
func (hm *Heightmap) HeightAt(worldX, worldZ float32) float32 {
	if hm == nil || hm.TilesX == 0 || hm.TilesZ == 0 {
		return 0
	}

	fx := (worldX - hm.Origin.X()) / hm.TileZoom
	fz := (worldZ - hm.Origin.Z()) / hm.TileZoom
	fx = clampf(fx, 0, float32(hm.TilesX))
	fz = clampf(fz, 0, float32(hm.TilesZ))

	cellX := min(int(fx), hm.TilesX-1)
	cellZ := min(int(fz), hm.TilesZ-1)

	// Get fractional position within cell (0-1)
	fracX := fx - float32(cellX)
	fracZ := fz - float32(cellZ)

	h00 := hm.Altitudes[cellX][cellZ]
	h10 := hm.Altitudes[cellX+1][cellZ]
	h01 := hm.Altitudes[cellX][cellZ+1]
	h11 := hm.Altitudes[cellX+1][cellZ+1]

	south := h00*(1-fracX) + h10*fracX
	north := h01*(1-fracX) + h11*fracX
	return hm.Origin.Y() + south*(1-fracZ) + north*fracZ
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
