// Command demo opens a window and renders a row of colored boxes through the
// full ECS frame pipeline: gather, uniform upload, indexed-instanced draws.
package main

import (
	"os"
	"runtime"
	"time"

	"github.com/strata-gfx/strata-go/engine/config"
	"github.com/strata-gfx/strata-go/engine/core"
	"github.com/strata-gfx/strata-go/engine/ecs"
	"github.com/strata-gfx/strata-go/engine/geometry"
	"github.com/strata-gfx/strata-go/engine/profiler"
	"github.com/strata-gfx/strata-go/engine/renderer"
	"github.com/strata-gfx/strata-go/engine/scene"
	"github.com/strata-gfx/strata-go/engine/window"
)

const boxCount = 5

func init() {
	// GLFW event processing must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load("strata.toml")
	if err != nil {
		core.LogFatal("loading configuration: %v", err)
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		core.LogFatal("opening window: %v", err)
	}
	defer win.Close()

	backend := renderer.NewWGPUBackend(win.SurfaceDescriptor(), win.Width(), win.Height(), cfg.Renderer.Vsync)

	world := ecs.NewWorld()
	r, err := renderer.NewRenderer(world, backend)
	if err != nil {
		core.LogFatal("attaching renderer: %v", err)
	}
	defer r.Release()

	canvas := world.NewEntity()
	ecs.Set(world, canvas, scene.Canvas{Width: win.Width(), Height: win.Height()})
	win.SetResizeCallback(func(width, height uint32) {
		ecs.Set(world, canvas, scene.Canvas{Width: width, Height: height})
	})

	spawnBoxes(world)

	prof := profiler.NewProfiler(time.Second)
	last := time.Now()
	for win.Poll() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		world.Progress(dt)
		prof.Tick()
		if r.Session().Halted() {
			core.LogError("render session halted: %s", r.Session().HaltReason())
			os.Exit(1)
		}
	}
}

// spawnBoxes places boxCount unit boxes in a row along the X axis, each with
// its own color ramping from red-ish to blue-ish.
func spawnBoxes(world *ecs.World) {
	for i := 0; i < boxCount; i++ {
		e := world.NewEntity()
		ecs.Set(world, e, scene.NewTransform3(float32(i)*2-4, 0, -5))
		ecs.Set(world, e, scene.Rgb{
			R: float32(i) / boxCount,
			G: 0.5,
			B: 1 - float32(i)/boxCount,
		})
		ecs.Set(world, e, geometry.Box{Width: 1, Height: 1, Depth: 1})
	}
}
