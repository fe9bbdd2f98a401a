package scene

import (
	"encoding/json"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/components"
)

// lightsPunctual is the KHR_lights_punctual extension name.
const lightsPunctual = "KHR_lights_punctual"

type gltfLight struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Color     *[3]float32 `json:"color"`
	Intensity *float32    `json:"intensity"`
	Range     *float32    `json:"range"`
	Spot      *struct {
		InnerConeAngle float64  `json:"innerConeAngle"`
		OuterConeAngle *float64 `json:"outerConeAngle"`
	} `json:"spot"`
	Extras *lightExtras `json:"extras"`
}

// lightExtras are engine-specific shadow settings carried in a light's
// "extras" object.
type lightExtras struct {
	CastShadows      bool     `json:"castShadows"`
	Static           bool     `json:"static"`
	ShadowResolution string   `json:"shadowResolution"`
	ShadowBias       *float32 `json:"shadowBias"`
	ShadowNearPlane  *float32 `json:"shadowNearPlane"`
	ShadowFarPlane   *float32 `json:"shadowFarPlane"`
}

// ImportedLight is a light found in a glTF scene, placed in world space.
type ImportedLight struct {
	Name      string
	Transform components.Transform
	Light     components.Light
}

// decodeExtension re-encodes an extension value into v. Extensions arrive
// either as raw JSON or as whatever a registered decoder produced.
func decodeExtension(raw any, v any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// LoadGLTFLights reads the KHR_lights_punctual lights of the glTF file at
// path. Lights are returned in node traversal order of the default scene.
func LoadGLTFLights(path string) ([]ImportedLight, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return GLTFLights(doc)
}

// GLTFLights extracts the lights of doc.
func GLTFLights(doc *gltf.Document) ([]ImportedLight, error) {
	raw, ok := doc.Extensions[lightsPunctual]
	if !ok {
		return nil, nil
	}
	var ext struct {
		Lights []gltfLight `json:"lights"`
	}
	if err := decodeExtension(raw, &ext); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", lightsPunctual, err)
	}

	var out []ImportedLight
	var visit func(idx int, parent mgl32.Mat4) error
	visit = func(idx int, parent mgl32.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", idx)
		}
		node := doc.Nodes[idx]
		world := parent.Mul4(localMatrix(node))

		if rawRef, ok := node.Extensions[lightsPunctual]; ok {
			var ref struct {
				Light *int `json:"light"`
			}
			if err := decodeExtension(rawRef, &ref); err != nil {
				return fmt.Errorf("node %q: decoding light reference: %w", node.Name, err)
			}
			if ref.Light == nil || *ref.Light < 0 || *ref.Light >= len(ext.Lights) {
				return fmt.Errorf("node %q: invalid light reference", node.Name)
			}
			imported, err := convertLight(ext.Lights[*ref.Light], world)
			if err != nil {
				return fmt.Errorf("node %q: %w", node.Name, err)
			}
			if imported.Name == "" {
				imported.Name = node.Name
			}
			out = append(out, imported)
		}

		for _, child := range node.Children {
			if err := visit(int(child), world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range sceneRoots(doc) {
		if err := visit(root, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sceneRoots returns the root nodes of the default scene, or of the first
// scene, or every parentless node when the file has no scenes.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = int(*doc.Scene)
		}
		roots := make([]int, 0, len(doc.Scenes[s].Nodes))
		for _, n := range doc.Scenes[s].Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func localMatrix(n *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i, v := range n.Matrix {
		m[i] = float32(v)
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))

	r := mgl32.QuatIdent()
	if n.Rotation != [4]float64{} {
		// glTF stores quaternions as x, y, z, w.
		r = mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}.Normalize()
	}

	s := mgl32.Vec3{1, 1, 1}
	if n.Scale != [3]float64{} {
		s = mgl32.Vec3{float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])}
	}
	return t.Mul4(r.Mat4()).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// worldTransform splits a world matrix into translation and rotation.
// Scale is discarded; lights are unaffected by it.
func worldTransform(world mgl32.Mat4) components.Transform {
	t := components.NewTransform(world.Col(3).Vec3())

	var rot mgl32.Mat4
	for c := 0; c < 3; c++ {
		col := world.Col(c).Vec3()
		if l := col.Len(); l > 1e-8 {
			col = col.Mul(1 / l)
		}
		rot.SetCol(c, col.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	return t
}

func convertLight(src gltfLight, world mgl32.Mat4) (ImportedLight, error) {
	var l components.Light
	switch src.Type {
	case "directional":
		l = components.DefaultLight(components.LightDirectional)
	case "point":
		l = components.DefaultLight(components.LightPoint)
	case "spot":
		l = components.DefaultLight(components.LightSpot)
	default:
		return ImportedLight{}, fmt.Errorf("unknown light type %q", src.Type)
	}

	if src.Color != nil {
		l.Color = mgl32.Vec3(*src.Color)
	}
	if src.Intensity != nil {
		l.Intensity = *src.Intensity
	}
	if src.Range != nil && *src.Range > 0 {
		l.AttenuationRange = *src.Range
	}
	if l.Type == components.LightSpot && src.Spot != nil {
		outer := gomath.Pi / 4
		if src.Spot.OuterConeAngle != nil {
			outer = *src.Spot.OuterConeAngle
		}
		l.InnerCutOff = float32(gomath.Cos(src.Spot.InnerConeAngle))
		l.OuterCutOff = float32(gomath.Cos(outer))
	}

	if x := src.Extras; x != nil {
		l.CastShadows = x.CastShadows
		l.IsStatic = x.Static
		if x.ShadowResolution != "" {
			q, err := components.ParseShadowQuality(x.ShadowResolution)
			if err != nil {
				return ImportedLight{}, err
			}
			l.ShadowResolution = q
		}
		if x.ShadowBias != nil {
			l.ShadowBias = *x.ShadowBias
		}
		if x.ShadowNearPlane != nil {
			l.ShadowNearPlane = *x.ShadowNearPlane
		}
		if x.ShadowFarPlane != nil {
			l.ShadowFarPlane = *x.ShadowFarPlane
		}
	}

	return ImportedLight{Name: src.Name, Transform: worldTransform(world), Light: l}, nil
}

// ImportGLTFLights adds every light of the glTF file at path to the scene.
func (s *Scene) ImportGLTFLights(path string) ([]uuid.UUID, error) {
	lights, err := LoadGLTFLights(path)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(lights))
	for _, l := range lights {
		ids = append(ids, s.AddLight(l.Name, l.Transform, l.Light))
	}
	s.log.Info("imported glTF lights", zap.String("path", path), zap.Int("count", len(ids)))
	return ids, nil
}
