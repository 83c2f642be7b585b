package ecs

// Phase orders system execution within one Progress tick. Systems in an
// earlier phase always run before systems in a later phase; within a phase,
// registration order is preserved.
type Phase int

const (
	// PhaseLoad runs first, for systems that sync external state into the
	// world (window size, input).
	PhaseLoad Phase = iota
	// PhaseUpdate runs second, for simulation and cache-refresh systems.
	PhaseUpdate
	// PhaseStore runs last, for systems that push world state outward
	// (rendering, persistence).
	PhaseStore

	phaseCount
)

// SystemFunc is the body of a registered system. dt is the caller-supplied
// delta time handed to Progress.
type SystemFunc func(w *World, dt float32)

type system struct {
	name    string
	fn      SystemFunc
	enabled bool
}

// AddSystem registers fn to run every Progress tick during the given phase.
// The name identifies the system for EnableSystem/DisableSystem.
func (w *World) AddSystem(phase Phase, name string, fn SystemFunc) {
	w.systems[phase] = append(w.systems[phase], system{name: name, fn: fn, enabled: true})
}

// EnableSystem re-enables a previously disabled system. Unknown names are
// ignored.
func (w *World) EnableSystem(name string) { w.setSystemEnabled(name, true) }

// DisableSystem stops a system from running on future ticks without removing
// it. Systems may disable themselves from inside their own body; one-shot
// initialization systems use this.
func (w *World) DisableSystem(name string) { w.setSystemEnabled(name, false) }

func (w *World) setSystemEnabled(name string, enabled bool) {
	for p := range w.systems {
		for i := range w.systems[p] {
			if w.systems[p][i].name == name {
				w.systems[p][i].enabled = enabled
			}
		}
	}
}

// Progress runs one scheduler tick: every enabled system, phase by phase, on
// the calling goroutine. Returns the tick number just completed, starting
// at 1.
func (w *World) Progress(dt float32) uint64 {
	for p := Phase(0); p < phaseCount; p++ {
		for i := range w.systems[p] {
			if w.systems[p][i].enabled {
				w.systems[p][i].fn(w, dt)
			}
		}
	}
	w.tick++
	return w.tick
}

// Tick returns the number of completed Progress calls.
func (w *World) Tick() uint64 { return w.tick }
