package ecs

import "testing"

type position struct{ X, Y float32 }
type velocity struct{ X, Y float32 }
type tag struct{}

func TestRegisterComponentIsIdempotent(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[position](w)
	b := RegisterComponent[position](w)
	if a != b {
		t.Fatalf("registering the same type twice returned ids %d and %d", a, b)
	}
	c := RegisterComponent[velocity](w)
	if c == a {
		t.Fatalf("distinct types share id %d", c)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	Set(w, e, position{X: 1, Y: 2})
	got, ok := Get[position](w, e)
	if !ok {
		t.Fatal("entity should own a position after Set")
	}
	if got.X != 1 || got.Y != 2 {
		t.Fatalf("got %+v, want {1 2}", got)
	}

	// Overwrite in place, no archetype move.
	Set(w, e, position{X: 3, Y: 4})
	got, _ = Get[position](w, e)
	if got.X != 3 || got.Y != 4 {
		t.Fatalf("after overwrite got %+v, want {3 4}", got)
	}
}

func TestSetMovesEntityAcrossArchetypes(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	Set(w, e, position{X: 1})
	Set(w, e, velocity{X: 5})

	p, ok := Get[position](w, e)
	if !ok || p.X != 1 {
		t.Fatalf("position lost across archetype move: %+v ok=%v", p, ok)
	}
	v, ok := Get[velocity](w, e)
	if !ok || v.X != 5 {
		t.Fatalf("velocity missing after move: %+v ok=%v", v, ok)
	}
}

func TestDeleteSwapRemoveKeepsSurvivors(t *testing.T) {
	w := NewWorld()
	var entities []Entity
	for i := 0; i < 4; i++ {
		e := w.NewEntity()
		Set(w, e, position{X: float32(i)})
		entities = append(entities, e)
	}

	// Delete from the middle so the last row swaps into its place.
	w.Delete(entities[1])

	if w.Alive(entities[1]) {
		t.Fatal("deleted entity still alive")
	}
	for _, i := range []int{0, 2, 3} {
		p, ok := Get[position](w, entities[i])
		if !ok {
			t.Fatalf("entity %d lost its component after unrelated delete", i)
		}
		if p.X != float32(i) {
			t.Fatalf("entity %d has position %v, want %d", i, p.X, i)
		}
	}
}

func TestDeleteUnknownEntityIsNoOp(t *testing.T) {
	w := NewWorld()
	w.Delete(Entity(999))
}

func TestSingletonLifecycle(t *testing.T) {
	w := NewWorld()

	if _, ok := GetSingleton[position](w); ok {
		t.Fatal("singleton present before SetSingleton")
	}
	SetSingleton(w, position{X: 7})
	got, ok := GetSingleton[position](w)
	if !ok || got.X != 7 {
		t.Fatalf("got %+v ok=%v, want {7 0} true", got, ok)
	}
	ClearSingleton[position](w)
	if _, ok := GetSingleton[position](w); ok {
		t.Fatal("singleton survived ClearSingleton")
	}
}
