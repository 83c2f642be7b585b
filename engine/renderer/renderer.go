// Package renderer bridges an ECS world with WebGPU: each frame it gathers
// renderable entities into per-shape batches, uploads packed instance data
// and issues indexed-instanced draw calls through a command pipeline.
package renderer

import (
	"errors"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/strata-gfx/strata-go/engine/core"
	"github.com/strata-gfx/strata-go/engine/ecs"
	"github.com/strata-gfx/strata-go/engine/geometry"
	"github.com/strata-gfx/strata-go/engine/scene"
)

// activeRenderers counts the Renderer instances currently attached. Multiple
// renderers are unsupported; the frame pipeline reports a second concurrent
// instance as an error and skips the frame rather than crashing.
var activeRenderers atomic.Int32

// InitSystemName is the registered name of the one-shot initialization
// system that drives the backend handshake.
const InitSystemName = "RendererInit"

// CacheSystemName is the registered name of the geometry-cache refresh
// system.
const CacheSystemName = "GeometryCacheRefresh"

// FrameSystemName is the registered name of the per-frame render system.
const FrameSystemName = "RenderFrame"

// shapeQuery pairs a registered shape kind with its persistent gather query.
// Queries are created once at attach and reused every frame.
type shapeQuery struct {
	kind  geometry.Kind
	query *geometry.GatherQuery
}

// Renderer owns the rendering session, the GPU backend and the per-frame
// batch list for one world. The embedding application holds exactly one
// instance and passes it by reference; the type is deliberately not
// collection-shaped.
type Renderer struct {
	session *RenderSession
	backend Backend
	world   *ecs.World

	comps    scene.Components
	shapeIDs map[geometry.Kind]ecs.ComponentID

	gatherQueries []shapeQuery
	canvasQuery   *ecs.Query
	cache         *geometry.Cache

	batches []Batch

	width       uint32
	height      uint32
	needsResize bool

	camera CameraPlacement
	light  LightUniform

	frameIndex uint64
	released   bool
}

// CameraPlacement is the fixed look-from camera the frame pipeline derives
// its matrices from each frame.
type CameraPlacement struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	FovY   float32 // radians
	Near   float32
	Far    float32
}

// Option is a functional option applied to a Renderer during construction
// via NewRenderer.
type Option func(*Renderer)

// WithCamera overrides the default fixed camera placement.
//
// Parameters:
//   - placement: the camera placement to render from
//
// Returns:
//   - Option: a function that applies the camera option to a renderer
func WithCamera(placement CameraPlacement) Option {
	return func(r *Renderer) {
		r.camera = placement
	}
}

// WithLight overrides the default directional light.
//
// Parameters:
//   - light: the light uniform uploaded every frame
//
// Returns:
//   - Option: a function that applies the light option to a renderer
func WithLight(light LightUniform) Option {
	return func(r *Renderer) {
		r.light = light
	}
}

// NewRenderer creates a renderer over a world and a backend, registers the
// standard scene and catalog shape components, builds the persistent gather
// queries and the per-shape geometry cache, and registers the renderer's
// systems on the world:
//
//   - RendererInit (PhaseLoad): polls the backend handshake once per tick
//     and disables itself when the device is configured.
//   - GeometryCacheRefresh (PhaseUpdate): repopulates the per-shape cache
//     mirrors.
//   - RenderFrame (PhaseStore): the batch gather/execute frame pipeline.
//
// Parameters:
//   - world: the ECS world to render from
//   - backend: the GPU backend; NewWGPUBackend in production, a fake in tests
//   - opts: functional options
//
// Returns:
//   - *Renderer: the attached renderer
//   - error: non-nil when world or backend is missing
func NewRenderer(world *ecs.World, backend Backend, opts ...Option) (*Renderer, error) {
	if world == nil || backend == nil {
		return nil, errors.New("renderer: world and backend are required")
	}

	r := &Renderer{
		session: NewRenderSession(),
		backend: backend,
		world:   world,
		camera: CameraPlacement{
			Eye:    mgl32.Vec3{0, 0, 5},
			Target: mgl32.Vec3{0, 0, 0},
			Up:     mgl32.Vec3{0, 1, 0},
			FovY:   mgl32.DegToRad(60),
			Near:   0.1,
			Far:    100,
		},
		light: LightUniform{
			Direction: [3]float32{0.5, -1, -0.5},
			Color:     [3]float32{1, 1, 1},
			Ambient:   [3]float32{0.25, 0.25, 0.25},
			Intensity: 1,
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.comps = scene.RegisterComponents(world)
	r.shapeIDs = geometry.RegisterComponents(world)
	r.canvasQuery = world.Query(ecs.Required(r.comps.Canvas))
	r.cache = geometry.NewCache(world, r.comps.Transform3, r.comps.Rgb, r.shapeIDs)

	for _, kind := range geometry.Kinds() {
		r.gatherQueries = append(r.gatherQueries, shapeQuery{
			kind:  kind,
			query: geometry.NewGatherQuery(world, r.comps.Transform3, r.comps.Rgb, r.shapeIDs[kind]),
		})
	}

	world.AddSystem(ecs.PhaseLoad, InitSystemName, func(w *ecs.World, dt float32) {
		if r.backend.Poll(r.session) == StateConfigured {
			w.DisableSystem(InitSystemName)
		}
	})
	world.AddSystem(ecs.PhaseUpdate, CacheSystemName, func(w *ecs.World, dt float32) {
		r.cache.Refresh()
	})
	world.AddSystem(ecs.PhaseStore, FrameSystemName, func(w *ecs.World, dt float32) {
		r.Frame()
	})

	activeRenderers.Add(1)
	core.LogInfo("renderer attached, session %s", r.session.ID())
	return r, nil
}

// Session returns the renderer's session state object.
func (r *Renderer) Session() *RenderSession { return r.session }

// FrameIndex returns the number of frames fully submitted so far.
func (r *Renderer) FrameIndex() uint64 { return r.frameIndex }

// Batches returns the batch list built by the most recent gather pass. It is
// cleared at end of frame, so outside the frame pipeline it is empty.
func (r *Renderer) Batches() []Batch { return r.batches }

// Cache returns the per-shape geometry cache.
func (r *Renderer) Cache() *geometry.Cache { return r.cache }

// Release disables the renderer's systems and tears down the backend's GPU
// resources. Safe to call more than once; only the first call does work.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	r.world.DisableSystem(InitSystemName)
	r.world.DisableSystem(CacheSystemName)
	r.world.DisableSystem(FrameSystemName)
	r.backend.Release()
	activeRenderers.Add(-1)
	core.LogInfo("renderer released, session %s", r.session.ID())
}
