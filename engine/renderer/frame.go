package renderer

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/strata-gfx/strata-go/common"
	"github.com/strata-gfx/strata-go/engine/core"
	"github.com/strata-gfx/strata-go/engine/ecs"
	"github.com/strata-gfx/strata-go/engine/geometry"
	"github.com/strata-gfx/strata-go/engine/scene"
)

// Frame runs one full render tick: resync canvas, acquire the surface,
// gather batches, upload uniforms, execute draws, submit and present.
//
// The early-out checkpoints are ordered so that a halted session, a second
// active renderer or an unready device produce no GPU work at all, and a
// surface that yields no texture this tick aborts the frame before any
// GPU-visible side effect.
func (r *Renderer) Frame() {
	if r.session.Halted() {
		return
	}
	if n := activeRenderers.Load(); n > 1 {
		core.LogError("%d renderers active; only one renderer instance is supported, skipping frame", n)
		return
	}
	if !r.backend.Ready() {
		// The adapter/device handshake has not completed. Not an error;
		// the init system is still polling it forward.
		return
	}

	r.syncCanvas()

	if err := r.backend.BeginFrame(); err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			// Presentation back-pressure; expected, retry next tick.
			core.LogWarn("frame %d: %v", r.frameIndex, err)
			return
		}
		r.session.Halt(err.Error())
		return
	}

	r.gather()
	r.updateUniforms()
	r.execute()
	r.clearBatches()

	if err := r.backend.EndFrame(); err != nil {
		r.session.Halt(err.Error())
		return
	}
	r.backend.Present()
	r.frameIndex++
}

// syncCanvas re-reads the canvas entity's dimensions and reconfigures the
// backend when they changed since the previous frame.
func (r *Renderer) syncCanvas() {
	for _, chunk := range r.canvasQuery.Chunks() {
		canvases, ok := ecs.Field[scene.Canvas](&chunk, 0)
		if !ok || len(canvases) == 0 {
			continue
		}
		c := canvases[0]
		if c.Width != r.width || c.Height != r.height {
			r.width = c.Width
			r.height = c.Height
			r.needsResize = true
		}
		break
	}
	if r.needsResize {
		r.backend.Resize(r.width, r.height)
		r.needsResize = false
	}
}

// gather builds the per-shape batch list for this frame. Shape kinds are
// processed in catalog registration order so batch order, and with it draw
// order for overlapping transparent geometry, is stable across frames.
// Batches are only emitted for shapes with at least one matching entity and
// with all geometry buffers resolved.
func (r *Renderer) gather() {
	for _, sq := range r.gatherQueries {
		count := sq.query.Count()
		if count == 0 {
			continue
		}

		transforms := make([]mgl32.Mat4, 0, count)
		colors := make([]scene.Rgb, 0, count)
		for _, chunk := range sq.query.Chunks() {
			n := chunk.Count()
			chunkTransforms, ok := ecs.Field[scene.Transform3](&chunk, geometry.TermTransform)
			if !ok {
				continue
			}
			for i := 0; i < n; i++ {
				transforms = append(transforms, chunkTransforms[i].Matrix)
			}
			if chunkColors, ok := ecs.Field[scene.Rgb](&chunk, geometry.TermColor); ok {
				colors = append(colors, chunkColors[:n]...)
			} else if shared, ok := ecs.Shared[scene.Rgb](&chunk, geometry.TermColor); ok {
				for i := 0; i < n; i++ {
					colors = append(colors, shared)
				}
			} else {
				for i := 0; i < n; i++ {
					colors = append(colors, scene.Rgb{R: 1, G: 1, B: 1})
				}
			}
		}

		mesh, err := r.backend.Mesh(sq.kind)
		if err != nil {
			core.LogWarn("frame %d: resolving %s geometry buffers: %v, skipping batch", r.frameIndex, sq.kind, err)
			continue
		}
		instances, err := r.backend.WriteInstances(sq.kind, PackInstances(transforms, colors))
		if err != nil {
			core.LogWarn("frame %d: creating %s instance buffer: %v, skipping batch", r.frameIndex, sq.kind, err)
			continue
		}
		pipeline, err := r.backend.DefaultPipeline()
		if err != nil {
			core.LogWarn("frame %d: default pipeline unavailable: %v", r.frameIndex, err)
		}

		r.batches = append(r.batches, Batch{
			Kind:          sq.kind,
			InstanceCount: uint32(len(transforms)),
			Transforms:    transforms,
			Colors:        colors,
			Mesh:          mesh,
			Instances:     instances,
			Pipeline:      pipeline,
		})
	}
}

// updateUniforms recomputes the camera matrices from the fixed placement and
// uploads both uniform buffers.
func (r *Renderer) updateUniforms() {
	aspect := float32(1)
	if r.width > 0 && r.height > 0 {
		aspect = float32(r.width) / float32(r.height)
	}
	view := mgl32.LookAtV(r.camera.Eye, r.camera.Target, r.camera.Up)
	projection := common.PerspectiveWGPU(r.camera.FovY, aspect, r.camera.Near, r.camera.Far)

	camera := CameraUniform{
		View:           view,
		Projection:     projection,
		ViewProjection: projection.Mul4(view),
	}
	r.backend.UpdateCameraUniform(camera.Marshal())
	r.backend.UpdateLightUniform(r.light.Marshal())
}

// execute encodes one indexed-instanced draw per batch, skipping any batch
// with a missing handle.
func (r *Renderer) execute() {
	for i := range r.batches {
		b := &r.batches[i]
		if !b.Drawable() {
			core.LogWarn("frame %d: %s batch missing GPU handles, skipping draw", r.frameIndex, b.Kind)
			continue
		}
		r.backend.Draw(b.Pipeline, b.Mesh, b.Instances, b.InstanceCount)
	}
}

// clearBatches drops every batch's CPU-side arrays and empties the list. GPU
// instance buffers are pooled on the backend and are not released here.
func (r *Renderer) clearBatches() {
	for i := range r.batches {
		r.batches[i].Transforms = nil
		r.batches[i].Colors = nil
	}
	r.batches = r.batches[:0]
}
