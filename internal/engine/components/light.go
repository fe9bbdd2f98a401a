package components

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType tags the light variant.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

// ShadowQuality is the resolution class of a light's shadow map.
type ShadowQuality int

const (
	ShadowQualityLow ShadowQuality = iota
	ShadowQualityMedium
	ShadowQualityHigh
	ShadowQualityUltra
	ShadowQualityNightmare
)

var shadowQualityNames = [...]string{"low", "medium", "high", "ultra", "nightmare"}

func (q ShadowQuality) String() string {
	if q < 0 || int(q) >= len(shadowQualityNames) {
		return fmt.Sprintf("ShadowQuality(%d)", int(q))
	}
	return shadowQualityNames[q]
}

// ParseShadowQuality parses a case-insensitive quality name.
func ParseShadowQuality(s string) (ShadowQuality, error) {
	for i, name := range shadowQualityNames {
		if strings.EqualFold(s, name) {
			return ShadowQuality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shadow quality %q", s)
}

// Light is a dynamic light. Position and direction come from the entity's
// Transform.
type Light struct {
	Type      LightType
	Color     mgl32.Vec3
	Intensity float32

	// AttenuationRange applies to point and spot lights.
	AttenuationRange float32

	// InnerCutOff and OuterCutOff are cosines of the spot cone half-angles.
	InnerCutOff float32
	OuterCutOff float32

	IsStatic         bool
	CastShadows      bool
	ShadowResolution ShadowQuality
	ShadowBias       float32
	ShadowNearPlane  float32
	ShadowFarPlane   float32
}

// DefaultLight returns a light of type t with engine default parameters.
func DefaultLight(t LightType) Light {
	return Light{
		Type:             t,
		Color:            mgl32.Vec3{1, 1, 1},
		Intensity:        10,
		AttenuationRange: 30,
		InnerCutOff:      0.9537, // cos(17.5°)
		OuterCutOff:      0.9063, // cos(25°)
		ShadowResolution: ShadowQualityUltra,
		ShadowBias:       0.005,
		ShadowNearPlane:  1.0,
		ShadowFarPlane:   200.0,
	}
}
