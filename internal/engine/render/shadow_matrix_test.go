package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func TestDirectionalLightViewProjectionCentresLookAhead(t *testing.T) {
	f := DefaultShadowFrustum()
	dir := mgl32.Vec3{0.3, -1, 0.2}.Normalize()

	tests := []struct {
		name   string
		pos    mgl32.Vec3
		front  mgl32.Vec3
		centre mgl32.Vec3
	}{
		{"forward", mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 5, -50}},
		{"pitched down ignores vertical", mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, -1}.Normalize(), mgl32.Vec3{0, 5, -50}},
		{"diagonal", mgl32.Vec3{10, 0, 10}, mgl32.Vec3{1, 0, 1}.Normalize(), mgl32.Vec3{10 + 35.3553, 0, 10 + 35.3553}},
		{"straight down has no look-ahead", mgl32.Vec3{3, 20, 4}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{3, 20, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := DirectionalLightViewProjection(tt.pos, tt.front, dir, f)
			c := project(vp, tt.centre)
			assert.InDelta(t, 0, c.X(), 1e-3)
			assert.InDelta(t, 0, c.Y(), 1e-3)
		})
	}
}

func TestDirectionalLightViewProjectionDepthRange(t *testing.T) {
	f := DefaultShadowFrustum()
	dir := mgl32.Vec3{1, -1, 0}.Normalize()
	pos := mgl32.Vec3{0, 0, 0}
	front := mgl32.Vec3{0, 0, -1}
	vp := DirectionalLightViewProjection(pos, front, dir, f)

	lookAt := mgl32.Vec3{0, 0, -50}
	eye := lookAt.Sub(dir.Mul(f.EyeDistance))

	// The eye itself sits before the near plane, the look-at point inside.
	assert.Less(t, project(vp, eye).Z(), float32(-1))
	z := project(vp, lookAt).Z()
	assert.Greater(t, z, float32(-1))
	assert.Less(t, z, float32(1))

	// Geometry further along the light than the far plane is clipped.
	beyond := eye.Add(dir.Mul(f.Far + 10))
	assert.Greater(t, project(vp, beyond).Z(), float32(1))
}

func TestDirectionalLightViewProjectionVerticalLight(t *testing.T) {
	vp := DirectionalLightViewProjection(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}, DefaultShadowFrustum())
	for i := 0; i < 16; i++ {
		v := vp[i]
		assert.False(t, v != v, "NaN in matrix element %d", i)
	}
}
