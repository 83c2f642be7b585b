package ecs

import "testing"

func TestQueryMatchesRequiredTerms(t *testing.T) {
	w := NewWorld()
	posID := RegisterComponent[position](w)
	velID := RegisterComponent[velocity](w)

	moving := w.NewEntity()
	Set(w, moving, position{X: 1})
	Set(w, moving, velocity{X: 1})

	still := w.NewEntity()
	Set(w, still, position{X: 2})

	q := w.Query(Required(posID), Required(velID))
	if got := q.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}

	both := w.Query(Required(posID))
	if got := both.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}

func TestQueryRefreshesOnNewArchetype(t *testing.T) {
	w := NewWorld()
	posID := RegisterComponent[position](w)
	q := w.Query(Required(posID))

	if got := q.Count(); got != 0 {
		t.Fatalf("empty world Count() = %d, want 0", got)
	}

	// Creating this entity introduces a new archetype after the query was
	// built; the cached match list must pick it up.
	e := w.NewEntity()
	Set(w, e, position{X: 1})
	if got := q.Count(); got != 1 {
		t.Fatalf("Count() after spawn = %d, want 1", got)
	}
}

func TestQuerySkipsEmptyArchetypes(t *testing.T) {
	w := NewWorld()
	posID := RegisterComponent[position](w)

	e := w.NewEntity()
	Set(w, e, position{X: 1})
	w.Delete(e)

	q := w.Query(Required(posID))
	if chunks := q.Chunks(); len(chunks) != 0 {
		t.Fatalf("got %d chunks from an emptied archetype, want 0", len(chunks))
	}
}

func TestOptionalTermSingletonFallback(t *testing.T) {
	w := NewWorld()
	posID := RegisterComponent[position](w)
	velID := RegisterComponent[velocity](w)

	e := w.NewEntity()
	Set(w, e, position{X: 1})

	q := w.Query(Required(posID), Opt(velID))
	chunks := q.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	c := &chunks[0]

	if c.FieldIsSelf(1) {
		t.Fatal("optional term reported per-entity without the component")
	}
	if c.FieldPresent(1) {
		t.Fatal("optional term reported present without a singleton")
	}
	if _, ok := Shared[velocity](c, 1); ok {
		t.Fatal("Shared returned a value with no singleton set")
	}

	SetSingleton(w, velocity{X: 9})
	chunks = q.Chunks()
	c = &chunks[0]
	if !c.FieldPresent(1) {
		t.Fatal("optional term absent despite singleton fallback")
	}
	shared, ok := Shared[velocity](c, 1)
	if !ok || shared.X != 9 {
		t.Fatalf("Shared = %+v ok=%v, want {9 0} true", shared, ok)
	}
}

func TestPerEntityFieldWinsOverSingleton(t *testing.T) {
	w := NewWorld()
	posID := RegisterComponent[position](w)
	velID := RegisterComponent[velocity](w)
	SetSingleton(w, velocity{X: 100})

	e := w.NewEntity()
	Set(w, e, position{})
	Set(w, e, velocity{X: 1})

	q := w.Query(Required(posID), Opt(velID))
	chunks := q.Chunks()
	c := &chunks[0]
	if !c.FieldIsSelf(1) {
		t.Fatal("chunk owning the component must report per-entity")
	}
	vals, ok := Field[velocity](c, 1)
	if !ok || vals[0].X != 1 {
		t.Fatalf("Field = %+v ok=%v, want per-entity value 1", vals, ok)
	}
	if _, ok := Shared[velocity](c, 1); ok {
		t.Fatal("Shared must not bind when the chunk owns the component")
	}
}
