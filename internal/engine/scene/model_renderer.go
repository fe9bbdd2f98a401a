package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/components"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/render"
)

type queuedModel struct {
	model    *model.Model
	world    mgl32.Mat4
	position mgl32.Vec3
}

// ModelRenderer queues models staged for a pass and draws them on flush.
// Opaque models draw in submission order; transparent ones back to front
// from the camera.
type ModelRenderer struct {
	state     gpu.State
	cameraPos func() mgl32.Vec3

	opaque      []queuedModel
	transparent []queuedModel
}

// NewModelRenderer creates a renderer. cameraPos is read when transparent
// models are sorted.
func NewModelRenderer(state gpu.State, cameraPos func() mgl32.Vec3) *ModelRenderer {
	return &ModelRenderer{state: state, cameraPos: cameraPos}
}

// Reset drops everything staged.
func (r *ModelRenderer) Reset() {
	r.opaque = r.opaque[:0]
	r.transparent = r.transparent[:0]
}

// Submit stages m with transform t.
func (r *ModelRenderer) Submit(m *model.Model, t components.Transform) {
	q := queuedModel{model: m, world: t.Matrix(), position: t.Translation}
	if m.Transparent() {
		r.transparent = append(r.transparent, q)
	} else {
		r.opaque = append(r.opaque, q)
	}
}

// Pending returns how many opaque and transparent models are staged.
func (r *ModelRenderer) Pending() (opaque, transparent int) {
	return len(r.opaque), len(r.transparent)
}

// FlushOpaque draws and unstages every opaque model.
func (r *ModelRenderer) FlushOpaque(p gpu.Program, pass render.PassType) {
	withMaterial := pass != render.PassShadowmap
	for _, q := range r.opaque {
		q.model.Draw(p, q.world, withMaterial)
	}
	r.opaque = r.opaque[:0]
}

// FlushTransparent draws and unstages every transparent model, furthest
// first. Blending is enabled for the draws except in the shadow pass.
func (r *ModelRenderer) FlushTransparent(p gpu.Program, pass render.PassType) {
	if len(r.transparent) == 0 {
		return
	}

	cam := r.cameraPos()
	sort.SliceStable(r.transparent, func(i, j int) bool {
		di := r.transparent[i].position.Sub(cam)
		dj := r.transparent[j].position.Sub(cam)
		return di.Dot(di) > dj.Dot(dj)
	})

	withMaterial := pass != render.PassShadowmap
	if withMaterial {
		r.state.SetBlend(true)
	}
	for _, q := range r.transparent {
		q.model.Draw(p, q.world, withMaterial)
	}
	if withMaterial {
		r.state.SetBlend(false)
	}
	r.transparent = r.transparent[:0]
}

var _ render.ModelRenderer = (*ModelRenderer)(nil)
