package lighting

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// Per-type capacities of the light arrays declared by the lighting shaders.
const (
	MaxDirLights   = 3
	MaxPointLights = 6
	MaxSpotLights  = 6
)

// NumLightsUniform tells the shader how many slots of each array are valid.
const NumLightsUniform = "numDirPointSpotLights"

// BindDirectionalLight writes slot index of the dirLights array.
func BindDirectionalLight(p gpu.Program, t components.Transform, l components.Light, index int) {
	prefix := fmt.Sprintf("dirLights[%d].", index)
	p.SetVec3(prefix+"direction", t.Forward())
	p.SetFloat(prefix+"intensity", l.Intensity)
	p.SetVec3(prefix+"lightColour", l.Color)
}

// BindPointLight writes slot index of the pointLights array.
func BindPointLight(p gpu.Program, t components.Transform, l components.Light, index int) {
	prefix := fmt.Sprintf("pointLights[%d].", index)
	p.SetVec3(prefix+"position", t.Translation)
	p.SetFloat(prefix+"intensity", l.Intensity)
	p.SetVec3(prefix+"lightColour", l.Color)
	p.SetFloat(prefix+"attenuationRadius", l.AttenuationRange)
}

// BindSpotLight writes slot index of the spotLights array.
func BindSpotLight(p gpu.Program, t components.Transform, l components.Light, index int) {
	prefix := fmt.Sprintf("spotLights[%d].", index)
	p.SetVec3(prefix+"position", t.Translation)
	p.SetVec3(prefix+"direction", t.Forward())
	p.SetFloat(prefix+"intensity", l.Intensity)
	p.SetVec3(prefix+"lightColour", l.Color)
	p.SetFloat(prefix+"attenuationRadius", l.AttenuationRange)
	p.SetFloat(prefix+"cutOff", l.InnerCutOff)
	p.SetFloat(prefix+"outerCutOff", l.OuterCutOff)
}
