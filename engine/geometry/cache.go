package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strata-gfx/strata-go/common"
	"github.com/strata-gfx/strata-go/engine/ecs"
	"github.com/strata-gfx/strata-go/engine/scene"
)

// Terms index into a gather query, in declaration order.
const (
	TermTransform = 0
	TermColor     = 1
	TermShape     = 2
)

// CacheEntry maintains one shape's standing gather state: a bound query and
// CPU-side mirrors of per-instance transform, color and material data. The
// mirrors are refreshed by the cache's ECS system each tick, independently of
// the renderer's per-frame batch path. The GPU handle fields are placeholders
// for a future per-shape instancing path; nothing sets or reads them yet.
type CacheEntry struct {
	Kind          Kind
	VertexCount   uint32
	IndexCount    uint32
	Transforms    []mgl32.Mat4
	Colors        []scene.Rgb
	Materials     []float32
	InstanceCount int

	// Placeholder GPU state for per-shape instancing.
	VertexBuffer any
	IndexBuffer  any
	Pipeline     any
	BindGroup    any

	query *GatherQuery
	reg   *registration
}

// GatherQuery is a standing three-term gather query: transform (required,
// read-only), color (optional with singleton fallback), shape tag (required).
type GatherQuery struct {
	inner *ecs.Query
}

// NewGatherQuery builds the standing gather query for one shape component.
func NewGatherQuery(w *ecs.World, transformID, colorID, shapeID ecs.ComponentID) *GatherQuery {
	return &GatherQuery{inner: w.Query(
		ecs.Required(transformID),
		ecs.Opt(colorID),
		ecs.Required(shapeID),
	)}
}

// Chunks exposes the underlying query's chunk list.
func (q *GatherQuery) Chunks() []ecs.Chunk { return q.inner.Chunks() }

// Count returns the number of entities currently matching the query.
func (q *GatherQuery) Count() int { return q.inner.Count() }

// Populate refreshes the entry's CPU mirrors from its query: clears the
// arrays, appends one transform clone per matched entity with the shape's
// dimension scaling multiplied in, appends per-entity or shared colors, and
// updates InstanceCount.
func (e *CacheEntry) Populate() {
	e.Transforms = e.Transforms[:0]
	e.Colors = e.Colors[:0]
	e.Materials = e.Materials[:0]

	for _, chunk := range e.query.Chunks() {
		count := chunk.Count()
		transforms, ok := ecs.Field[scene.Transform3](&chunk, TermTransform)
		if !ok {
			continue
		}
		for i := 0; i < count; i++ {
			m := transforms[i].Matrix
			sx, sy, sz := e.reg.scale(&chunk, TermShape, i)
			common.ScaleDiagonal(&m, sx, sy, sz)
			e.Transforms = append(e.Transforms, m)
		}

		if colors, ok := ecs.Field[scene.Rgb](&chunk, TermColor); ok {
			e.Colors = append(e.Colors, colors[:count]...)
		} else if shared, ok := ecs.Shared[scene.Rgb](&chunk, TermColor); ok {
			for i := 0; i < count; i++ {
				e.Colors = append(e.Colors, shared)
			}
		} else {
			for i := 0; i < count; i++ {
				e.Colors = append(e.Colors, scene.Rgb{R: 1, G: 1, B: 1})
			}
		}

		for i := 0; i < count; i++ {
			e.Materials = append(e.Materials, 0)
		}
	}

	e.InstanceCount = len(e.Transforms)
}

// Cache owns one CacheEntry per registered shape kind.
type Cache struct {
	entries []*CacheEntry
}

// NewCache creates a cache entry for every registered shape, binding each to
// a standing query over w. The component IDs must come from
// scene.RegisterComponents and geometry.RegisterComponents on the same world.
func NewCache(w *ecs.World, transformID, colorID ecs.ComponentID, shapeIDs map[Kind]ecs.ComponentID) *Cache {
	c := &Cache{}
	for i := range registry {
		reg := &registry[i]
		shapeID, ok := shapeIDs[reg.kind]
		if !ok {
			continue
		}
		c.entries = append(c.entries, &CacheEntry{
			Kind:        reg.kind,
			VertexCount: reg.mesh.VertexCount(),
			IndexCount:  reg.mesh.IndexCount(),
			query:       NewGatherQuery(w, transformID, colorID, shapeID),
			reg:         reg,
		})
	}
	return c
}

// Entries returns the cache entries in catalog registration order.
func (c *Cache) Entries() []*CacheEntry { return c.entries }

// Entry returns the entry for a kind, or nil if the kind is unregistered.
func (c *Cache) Entry(kind Kind) *CacheEntry {
	for _, e := range c.entries {
		if e.Kind == kind {
			return e
		}
	}
	return nil
}

// Refresh populates every entry. Registered as an ECS system in PhaseUpdate
// so the mirrors are current before the render pass runs.
func (c *Cache) Refresh() {
	for _, e := range c.entries {
		e.Populate()
	}
}
