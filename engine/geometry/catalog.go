package geometry

import (
	"errors"

	"github.com/strata-gfx/strata-go/engine/ecs"
)

// Kind identifies a primitive shape in the catalog.
type Kind uint8

const (
	// KindBox is a unit cube centered on the origin, scaled per entity by
	// the Box component's dimensions.
	KindBox Kind = iota
	// KindRectangle is a unit quad in the XY plane, scaled per entity by
	// the Rectangle component's dimensions.
	KindRectangle
)

// ErrUnknownKind is returned when a Kind has no catalog registration.
var ErrUnknownKind = errors.New("geometry: unknown shape kind")

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Box tags an entity as a box shape and carries its dimensions.
type Box struct {
	Width  float32
	Height float32
	Depth  float32
}

// Rectangle tags an entity as a rectangle shape and carries its dimensions.
type Rectangle struct {
	Width  float32
	Height float32
}

// VertexFloats is the number of floats per vertex in every mesh: position
// (3), normal (3), UV (2), interleaved. The vertex shader's slot-0 layout
// depends on this value.
const VertexFloats = 8

// Mesh is one shape's static geometry: interleaved vertex data and a 16-bit
// triangle index list. Meshes are immutable after registration.
type Mesh struct {
	Vertices []float32
	Indices  []uint16
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() uint32 { return uint32(len(m.Vertices) / VertexFloats) }

// IndexCount returns the number of indices in the mesh.
func (m *Mesh) IndexCount() uint32 { return uint32(len(m.Indices)) }

// registration binds a Kind to its mesh and to the hooks the gather loop and
// geometry cache need: registering the shape's ECS component on a world and
// applying the shape's dimension scaling to a gathered transform.
type registration struct {
	kind Kind
	mesh Mesh

	// registerComponent registers the shape's tag component on a world and
	// returns its ID.
	registerComponent func(w *ecs.World) ecs.ComponentID

	// scale returns the dimension scale factors for the entity at row in
	// the chunk's shape column.
	scale func(c *ecs.Chunk, term, row int) (sx, sy, sz float32)
}

var registry []registration

// Register adds a shape to the catalog. Registration order is iteration
// order: gather and draw processing follow it deterministically. Shapes are
// registered at package init; Register is exported so an embedding
// application can add its own primitives before creating a renderer.
func Register(kind Kind, mesh Mesh, registerComponent func(w *ecs.World) ecs.ComponentID, scale func(c *ecs.Chunk, term, row int) (sx, sy, sz float32)) {
	registry = append(registry, registration{
		kind:              kind,
		mesh:              mesh,
		registerComponent: registerComponent,
		scale:             scale,
	})
}

// Kinds returns all registered shape kinds in registration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(registry))
	for i, r := range registry {
		kinds[i] = r.kind
	}
	return kinds
}

// MeshOf returns the static mesh for a kind.
func MeshOf(kind Kind) (*Mesh, error) {
	for i := range registry {
		if registry[i].kind == kind {
			return &registry[i].mesh, nil
		}
	}
	return nil, ErrUnknownKind
}

func registrationOf(kind Kind) (*registration, error) {
	for i := range registry {
		if registry[i].kind == kind {
			return &registry[i], nil
		}
	}
	return nil, ErrUnknownKind
}

// RegisterComponents registers every catalog shape's tag component on w and
// returns the IDs keyed by kind.
func RegisterComponents(w *ecs.World) map[Kind]ecs.ComponentID {
	ids := make(map[Kind]ecs.ComponentID, len(registry))
	for i := range registry {
		ids[registry[i].kind] = registry[i].registerComponent(w)
	}
	return ids
}

func init() {
	Register(KindBox, Mesh{Vertices: boxVertices[:], Indices: boxIndices[:]},
		func(w *ecs.World) ecs.ComponentID { return ecs.RegisterComponent[Box](w) },
		func(c *ecs.Chunk, term, row int) (float32, float32, float32) {
			boxes, ok := ecs.Field[Box](c, term)
			if !ok {
				return 1, 1, 1
			}
			b := boxes[row]
			return b.Width, b.Height, b.Depth
		})
	Register(KindRectangle, Mesh{Vertices: rectangleVertices[:], Indices: rectangleIndices[:]},
		func(w *ecs.World) ecs.ComponentID { return ecs.RegisterComponent[Rectangle](w) },
		func(c *ecs.Chunk, term, row int) (float32, float32, float32) {
			rects, ok := ecs.Field[Rectangle](c, term)
			if !ok {
				return 1, 1, 1
			}
			r := rects[row]
			return r.Width, r.Height, 1
		})
}

// boxVertices is a unit cube as 24 vertices (4 per face), interleaved as
// position, normal, UV.
var boxVertices = [...]float32{
	// front face
	-0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 0.0,
	0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 0.0,
	0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 1.0,
	-0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 1.0,

	// back face
	-0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 0.0,
	-0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 1.0,
	0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 1.0,
	0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 0.0,

	// top face
	-0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 1.0,
	-0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 0.0,
	0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
	0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 1.0, 1.0,

	// bottom face
	-0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 1.0, 1.0,
	0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 0.0, 1.0,
	0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 0.0, 0.0,
	-0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 1.0, 0.0,

	// right face
	0.5, -0.5, -0.5, 1.0, 0.0, 0.0, 1.0, 0.0,
	0.5, 0.5, -0.5, 1.0, 0.0, 0.0, 1.0, 1.0,
	0.5, 0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 1.0,
	0.5, -0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 0.0,

	// left face
	-0.5, -0.5, -0.5, -1.0, 0.0, 0.0, 0.0, 0.0,
	-0.5, -0.5, 0.5, -1.0, 0.0, 0.0, 1.0, 0.0,
	-0.5, 0.5, 0.5, -1.0, 0.0, 0.0, 1.0, 1.0,
	-0.5, 0.5, -0.5, -1.0, 0.0, 0.0, 0.0, 1.0,
}

var boxIndices = [...]uint16{
	0, 1, 2, 0, 2, 3, // front
	4, 5, 6, 4, 6, 7, // back
	8, 9, 10, 8, 10, 11, // top
	12, 13, 14, 12, 14, 15, // bottom
	16, 17, 18, 16, 18, 19, // right
	20, 21, 22, 20, 22, 23, // left
}

// rectangleVertices is a unit quad in the XY plane.
var rectangleVertices = [...]float32{
	-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0,
	0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 1.0, 0.0,
	0.5, 0.5, 0.0, 0.0, 0.0, 1.0, 1.0, 1.0,
	-0.5, 0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 1.0,
}

var rectangleIndices = [...]uint16{
	0, 1, 2, 0, 2, 3,
}
