package ecs

// Term is one component constraint in a query. All terms are read-only; the
// query layer never mutates component storage.
type Term struct {
	// Component selects which registered component the term binds.
	Component ComponentID
	// Optional terms do not restrict matching; chunks that lack the
	// component simply report it absent.
	Optional bool
	// Singleton allows the term to fall back to the world-level singleton
	// value when the chunk's archetype does not own the component.
	Singleton bool
}

// Required returns a required per-entity term for component id.
func Required(id ComponentID) Term { return Term{Component: id} }

// Opt returns an optional term for component id that may also bind the world
// singleton when the archetype lacks the component.
func Opt(id ComponentID) Term { return Term{Component: id, Optional: true, Singleton: true} }

// Query is a cached set of terms plus the list of archetypes matching them.
// Construct once with World.Query and reuse across frames; the archetype list
// refreshes itself when new archetypes appear.
type Query struct {
	world       *World
	terms       []Term
	matched     []*archetype
	seenVersion uint32
}

// Query creates a cached query over the given terms.
func (w *World) Query(terms ...Term) *Query {
	q := &Query{world: w, terms: terms}
	q.refresh()
	return q
}

func (q *Query) refresh() {
	q.matched = q.matched[:0]
	var required uint64
	for _, t := range q.terms {
		if !t.Optional {
			required |= uint64(1) << t.Component
		}
	}
	for _, arch := range q.world.archetypes {
		if arch.mask&required == required {
			q.matched = append(q.matched, arch)
		}
	}
	q.seenVersion = q.world.archVersion
}

// Chunks returns one Chunk per matching archetype that currently holds at
// least one entity. Chunk order follows archetype creation order and is
// stable across calls for an unchanged world.
func (q *Query) Chunks() []Chunk {
	if q.seenVersion != q.world.archVersion {
		q.refresh()
	}
	chunks := make([]Chunk, 0, len(q.matched))
	for _, arch := range q.matched {
		if len(arch.entities) > 0 {
			chunks = append(chunks, Chunk{world: q.world, arch: arch, terms: q.terms})
		}
	}
	return chunks
}

// Count returns the total number of entities across all matching chunks.
func (q *Query) Count() int {
	n := 0
	for _, c := range q.Chunks() {
		n += c.Count()
	}
	return n
}

// Chunk is one run of entities sharing an archetype, yielded by Query.Chunks.
// Within a chunk every term is uniformly either per-entity, shared (singleton
// fallback) or absent.
type Chunk struct {
	world *World
	arch  *archetype
	terms []Term
}

// Count returns the number of entities in the chunk.
func (c *Chunk) Count() int { return len(c.arch.entities) }

// Entities returns the chunk's entity list. The slice aliases world storage
// and must not be retained across structural changes.
func (c *Chunk) Entities() []Entity { return c.arch.entities }

// FieldIsSelf reports whether term i binds a per-entity component array in
// this chunk, as opposed to a shared singleton value or nothing at all.
func (c *Chunk) FieldIsSelf(i int) bool {
	t := c.terms[i]
	return c.arch.mask&(uint64(1)<<t.Component) != 0
}

// FieldPresent reports whether term i binds any value in this chunk, either
// per-entity or via singleton fallback.
func (c *Chunk) FieldPresent(i int) bool {
	if c.FieldIsSelf(i) {
		return true
	}
	t := c.terms[i]
	return t.Singleton && c.world.singletons[t.Component] != nil
}

// Field returns the per-entity component array bound by term i. The second
// return is false when the chunk does not own the component; callers should
// then consult Shared.
func Field[T any](c *Chunk, i int) ([]T, bool) {
	if !c.FieldIsSelf(i) {
		return nil, false
	}
	col := c.arch.columns[c.terms[i].Component].(*columnOf[T])
	return col.data, true
}

// Shared returns the singleton value bound by term i, broadcast to every
// entity in the chunk. The second return is false when no singleton is set
// or the term does not allow one.
func Shared[T any](c *Chunk, i int) (T, bool) {
	var zero T
	t := c.terms[i]
	if !t.Singleton || c.FieldIsSelf(i) {
		return zero, false
	}
	v := c.world.singletons[t.Component]
	if v == nil {
		return zero, false
	}
	return v.(T), true
}
