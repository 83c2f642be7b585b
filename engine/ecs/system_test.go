package ecs

import "testing"

func TestProgressRunsPhasesInOrder(t *testing.T) {
	w := NewWorld()
	var order []string

	w.AddSystem(PhaseStore, "store", func(w *World, dt float32) { order = append(order, "store") })
	w.AddSystem(PhaseLoad, "load", func(w *World, dt float32) { order = append(order, "load") })
	w.AddSystem(PhaseUpdate, "update", func(w *World, dt float32) { order = append(order, "update") })

	tick := w.Progress(0.016)
	if tick != 1 {
		t.Fatalf("first Progress returned tick %d, want 1", tick)
	}
	want := []string{"load", "update", "store"}
	if len(order) != len(want) {
		t.Fatalf("ran %d systems, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("phase order %v, want %v", order, want)
		}
	}
}

func TestDisableSystemSkipsIt(t *testing.T) {
	w := NewWorld()
	runs := 0
	w.AddSystem(PhaseUpdate, "counter", func(w *World, dt float32) { runs++ })

	w.Progress(0)
	w.DisableSystem("counter")
	w.Progress(0)
	if runs != 1 {
		t.Fatalf("disabled system ran %d times total, want 1", runs)
	}

	w.EnableSystem("counter")
	w.Progress(0)
	if runs != 2 {
		t.Fatalf("re-enabled system ran %d times total, want 2", runs)
	}
}

func TestSystemCanDisableItself(t *testing.T) {
	w := NewWorld()
	runs := 0
	w.AddSystem(PhaseLoad, "once", func(w *World, dt float32) {
		runs++
		w.DisableSystem("once")
	})

	w.Progress(0)
	w.Progress(0)
	w.Progress(0)
	if runs != 1 {
		t.Fatalf("self-disabling system ran %d times, want 1", runs)
	}
	if w.Tick() != 3 {
		t.Fatalf("Tick() = %d, want 3", w.Tick())
	}
}
