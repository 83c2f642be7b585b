package ecs

import (
	"fmt"
	"reflect"
)

// Entity identifies a single entity in a World. The zero value is never a
// live entity.
type Entity uint64

// ComponentID identifies a registered component type within one World.
// A World supports at most 64 component types, one bit per type in the
// archetype mask.
type ComponentID uint8

const maxComponents = 64

// column is one typed component array inside an archetype. Implemented by
// columnOf[T]; the interface carries only the untyped row plumbing needed to
// move entities between archetypes.
type column interface {
	appendZero()
	appendFrom(src column, row int)
	swapRemove(row int)
	len() int
}

type columnOf[T any] struct {
	data []T
}

func (c *columnOf[T]) appendZero() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *columnOf[T]) appendFrom(src column, row int) {
	c.data = append(c.data, src.(*columnOf[T]).data[row])
}

func (c *columnOf[T]) swapRemove(row int) {
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	c.data = c.data[:last]
}

func (c *columnOf[T]) len() int { return len(c.data) }

// archetype groups all entities sharing the same component set. Entities and
// columns are parallel arrays; iteration over an archetype is one chunk.
type archetype struct {
	mask     uint64
	entities []Entity
	columns  map[ComponentID]column
}

type entityLocation struct {
	arch *archetype
	row  int
}

// World owns entities, component storage and registered systems. All access
// is single-goroutine; World does no locking.
type World struct {
	componentIDs   map[reflect.Type]ComponentID
	newColumn      []func() column
	singletons     []any
	archetypes     []*archetype
	archetypeByKey map[uint64]*archetype
	locations      map[Entity]entityLocation
	nextEntity     Entity
	archVersion    uint32
	systems        [phaseCount][]system
	tick           uint64
}

// NewWorld creates an empty world with no registered components or systems.
func NewWorld() *World {
	return &World{
		componentIDs:   make(map[reflect.Type]ComponentID),
		archetypeByKey: make(map[uint64]*archetype),
		locations:      make(map[Entity]entityLocation),
	}
}

// RegisterComponent registers T as a component type in w and returns its ID.
// Registering the same type twice returns the same ID. Panics once the 64
// component slots are exhausted; registration happens at startup, so this is
// a programming error rather than a runtime condition.
func RegisterComponent[T any](w *World) ComponentID {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if id, ok := w.componentIDs[t]; ok {
		return id
	}
	if len(w.componentIDs) >= maxComponents {
		panic(fmt.Sprintf("ecs: component limit (%d) exceeded registering %s", maxComponents, t))
	}
	id := ComponentID(len(w.componentIDs))
	w.componentIDs[t] = id
	w.newColumn = append(w.newColumn, func() column { return &columnOf[T]{} })
	w.singletons = append(w.singletons, nil)
	return id
}

// ComponentIDOf returns the registered ID for T and whether it is registered.
func ComponentIDOf[T any](w *World) (ComponentID, bool) {
	id, ok := w.componentIDs[reflect.TypeOf((*T)(nil)).Elem()]
	return id, ok
}

// NewEntity creates a live entity with no components.
func (w *World) NewEntity() Entity {
	w.nextEntity++
	e := w.nextEntity
	arch := w.archetypeFor(0)
	arch.entities = append(arch.entities, e)
	w.locations[e] = entityLocation{arch: arch, row: len(arch.entities) - 1}
	return e
}

// Delete removes an entity and all of its components. Deleting an unknown
// entity is a no-op.
func (w *World) Delete(e Entity) {
	loc, ok := w.locations[e]
	if !ok {
		return
	}
	w.removeFromArchetype(loc)
	delete(w.locations, e)
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	_, ok := w.locations[e]
	return ok
}

// Set attaches (or overwrites) component value v on entity e, moving the
// entity to the matching archetype when the component is new for it.
func Set[T any](w *World, e Entity, v T) {
	id, ok := ComponentIDOf[T](w)
	if !ok {
		id = RegisterComponent[T](w)
	}
	loc, live := w.locations[e]
	if !live {
		return
	}
	bit := uint64(1) << id
	if loc.arch.mask&bit != 0 {
		loc.arch.columns[id].(*columnOf[T]).data[loc.row] = v
		return
	}
	dst := w.archetypeFor(loc.arch.mask | bit)
	row := w.moveEntity(e, loc, dst)
	dst.columns[id].(*columnOf[T]).data[row] = v
}

// Get returns entity e's value of component T and whether e owns one.
func Get[T any](w *World, e Entity) (T, bool) {
	var zero T
	id, ok := ComponentIDOf[T](w)
	if !ok {
		return zero, false
	}
	loc, live := w.locations[e]
	if !live || loc.arch.mask&(uint64(1)<<id) == 0 {
		return zero, false
	}
	return loc.arch.columns[id].(*columnOf[T]).data[loc.row], true
}

// SetSingleton stores a world-level value of component T. Queries whose term
// allows a singleton source fall back to this value for archetypes that do
// not own the component.
func SetSingleton[T any](w *World, v T) {
	id, ok := ComponentIDOf[T](w)
	if !ok {
		id = RegisterComponent[T](w)
	}
	w.singletons[id] = v
}

// GetSingleton returns the world-level value of component T, if set.
func GetSingleton[T any](w *World) (T, bool) {
	var zero T
	id, ok := ComponentIDOf[T](w)
	if !ok || w.singletons[id] == nil {
		return zero, false
	}
	return w.singletons[id].(T), true
}

// ClearSingleton removes the world-level value of component T.
func ClearSingleton[T any](w *World) {
	if id, ok := ComponentIDOf[T](w); ok {
		w.singletons[id] = nil
	}
}

func (w *World) archetypeFor(mask uint64) *archetype {
	if arch, ok := w.archetypeByKey[mask]; ok {
		return arch
	}
	arch := &archetype{mask: mask, columns: make(map[ComponentID]column)}
	for id := ComponentID(0); int(id) < len(w.newColumn); id++ {
		if mask&(uint64(1)<<id) != 0 {
			arch.columns[id] = w.newColumn[id]()
		}
	}
	w.archetypes = append(w.archetypes, arch)
	w.archetypeByKey[mask] = arch
	w.archVersion++
	return arch
}

// moveEntity transfers e from its current archetype into dst, growing dst's
// columns (shared components copy over, new components start zeroed) and
// returns e's row in dst.
func (w *World) moveEntity(e Entity, loc entityLocation, dst *archetype) int {
	for id, col := range dst.columns {
		if src, ok := loc.arch.columns[id]; ok {
			col.appendFrom(src, loc.row)
		} else {
			col.appendZero()
		}
	}
	dst.entities = append(dst.entities, e)
	row := len(dst.entities) - 1
	w.removeFromArchetype(loc)
	w.locations[e] = entityLocation{arch: dst, row: row}
	return row
}

// removeFromArchetype swap-removes the entity at loc and patches the location
// of the entity that was swapped into its row.
func (w *World) removeFromArchetype(loc entityLocation) {
	arch := loc.arch
	last := len(arch.entities) - 1
	moved := arch.entities[last]
	arch.entities[loc.row] = moved
	arch.entities = arch.entities[:last]
	for _, col := range arch.columns {
		col.swapRemove(loc.row)
	}
	if loc.row < len(arch.entities) {
		w.locations[moved] = entityLocation{arch: arch, row: loc.row}
	}
}
