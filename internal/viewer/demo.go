package viewer

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/terrain"
)

const (
	demoTiles    = 64
	demoTileSize = 4
	demoOrbit    = 25 // radius of the orbiting spot light
)

type demoCube struct {
	name     string
	position mgl32.Vec2 // XZ; Y follows the terrain
	size     float32
	albedo   mgl32.Vec3
	alpha    float32
	static   bool
}

type demoLight struct {
	name      string
	transform components.Transform
	light     components.Light
}

// demoCubes lays out a ring of cubes plus two transparent ones. The
// geometry pass only fills the G-buffer with opaque models, so the glass
// cubes show up as shadows alone until a forward transparency pass draws
// them.
func demoCubes() []demoCube {
	var cubes []demoCube
	const ring = 8
	for i := 0; i < ring; i++ {
		a := float64(i) / ring * 2 * gomath.Pi
		cubes = append(cubes, demoCube{
			name:     fmt.Sprintf("cube-%d", i),
			position: mgl32.Vec2{float32(gomath.Cos(a)) * 30, float32(gomath.Sin(a)) * 30},
			size:     4,
			albedo:   mgl32.Vec3{0.8, 0.3 + 0.05*float32(i), 0.2},
			alpha:    1,
			static:   i%2 == 0,
		})
	}
	cubes = append(cubes,
		demoCube{name: "monolith", size: 10, albedo: mgl32.Vec3{0.7, 0.7, 0.75}, alpha: 1, static: true},
		demoCube{name: "glass-a", position: mgl32.Vec2{12, 12}, size: 3, albedo: mgl32.Vec3{0.3, 0.6, 0.9}, alpha: 0.4},
		demoCube{name: "glass-b", position: mgl32.Vec2{-12, 12}, size: 3, albedo: mgl32.Vec3{0.9, 0.6, 0.3}, alpha: 0.6},
	)
	return cubes
}

// demoLights returns a shadow-casting sun, a shadow-casting spot light and
// two point lights.
func demoLights() []demoLight {
	sun := components.DefaultLight(components.LightDirectional)
	sun.Color = mgl32.Vec3{1, 0.95, 0.85}
	sun.Intensity = 2
	sun.CastShadows = true
	sun.IsStatic = true
	sun.ShadowResolution = components.ShadowQualityUltra

	spot := components.DefaultLight(components.LightSpot)
	spot.Intensity = 40
	spot.AttenuationRange = 60
	spot.CastShadows = true
	spot.ShadowResolution = components.ShadowQualityHigh

	warm := components.DefaultLight(components.LightPoint)
	warm.Color = mgl32.Vec3{1, 0.6, 0.3}
	warm.IsStatic = true

	cool := components.DefaultLight(components.LightPoint)
	cool.Color = mgl32.Vec3{0.3, 0.6, 1}

	return []demoLight{
		{"sun", components.LookingAlong(mgl32.Vec3{0, 100, 0}, lighting.SunDirection(135, 40)), sun},
		{"spot", spotTransform(0), spot},
		{"warm", components.NewTransform(mgl32.Vec3{15, 8, -15}), warm},
		{"cool", components.NewTransform(mgl32.Vec3{-15, 8, -15}), cool},
	}
}

// spotTransform places the orbiting spot light at angle (radians), aimed at
// the centre of the scene.
func spotTransform(angle float64) components.Transform {
	pos := mgl32.Vec3{float32(gomath.Cos(angle)) * demoOrbit, 20, float32(gomath.Sin(angle)) * demoOrbit}
	return components.LookingAlong(pos, pos.Mul(-1))
}

// demo owns the GPU resources of the built-in scene.
type demo struct {
	terrain *terrain.Terrain
	meshes  []*model.GPUMesh
	spot    uuid.UUID
	angle   float64
}

func buildDemo(s *scene.Scene) *demo {
	hm := terrain.BuildHeightmap(demoTiles, demoTiles, demoTileSize, terrain.Rolling(3, 60))
	half := float32(demoTiles * demoTileSize / 2)
	hm.Origin = mgl32.Vec3{-half, 0, -half}

	d := &demo{terrain: terrain.New(hm)}
	s.SetTerrain(d.terrain)

	type uploaded struct {
		gpu    *model.GPUMesh
		bounds model.Bounds
	}
	meshes := make(map[float32]uploaded)
	for _, c := range demoCubes() {
		mesh, ok := meshes[c.size]
		if !ok {
			cpu := model.BuildCube(c.size)
			mesh = uploaded{gpu: model.Upload(cpu), bounds: cpu.Bounds}
			meshes[c.size] = mesh
			d.meshes = append(d.meshes, mesh.gpu)
		}
		ground := hm.HeightAt(c.position.X(), c.position.Y())
		pos := mgl32.Vec3{c.position.X(), ground + c.size/2, c.position.Y()}
		m := &model.Model{
			Name:   c.name,
			Mesh:   mesh.gpu,
			Bounds: mesh.bounds,
			Albedo: c.albedo,
			Alpha:  c.alpha,
		}
		s.AddModel(c.name, components.NewTransform(pos), m, c.static)
	}

	for _, l := range demoLights() {
		id := s.AddLight(l.name, l.transform, l.light)
		if l.name == "spot" {
			d.spot = id
		}
	}
	return d
}

// update orbits the spot light.
func (d *demo) update(s *scene.Scene, dt float32) {
	d.angle = gomath.Mod(d.angle+float64(dt)*0.5, 2*gomath.Pi)
	s.SetTransform(d.spot, spotTransform(d.angle))
}

func (d *demo) destroy() {
	for _, m := range d.meshes {
		m.Destroy()
	}
	if d.terrain != nil {
		d.terrain.Destroy()
	}
}
