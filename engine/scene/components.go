package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strata-gfx/strata-go/engine/ecs"
)

// Transform3 is an entity's world transform as a column-major 4x4 matrix.
type Transform3 struct {
	Matrix mgl32.Mat4
}

// NewTransform3 returns a transform translated to (x, y, z) with no rotation
// or scale.
func NewTransform3(x, y, z float32) Transform3 {
	return Transform3{Matrix: mgl32.Translate3D(x, y, z)}
}

// Rgb is an entity's surface color. Entities without one render opaque white.
type Rgb struct {
	R, G, B float32
}

// Material is a placeholder for a PBR material description. Only the fields
// are reserved; nothing consumes them yet.
type Material struct {
	Specular  float32
	Emissive  float32
	Metallic  float32
	Roughness float32
}

// Canvas describes the presentation target in pixels. The renderer polls it
// every frame for resize detection.
type Canvas struct {
	Width  uint32
	Height uint32
}

// Components carries the registered component IDs for the standard scene
// component set of one world.
type Components struct {
	Transform3 ecs.ComponentID
	Rgb        ecs.ComponentID
	Material   ecs.ComponentID
	Canvas     ecs.ComponentID
}

// RegisterComponents registers the standard scene components on w and returns
// their IDs. Safe to call more than once per world.
func RegisterComponents(w *ecs.World) Components {
	return Components{
		Transform3: ecs.RegisterComponent[Transform3](w),
		Rgb:        ecs.RegisterComponent[Rgb](w),
		Material:   ecs.RegisterComponent[Material](w),
		Canvas:     ecs.RegisterComponent[Canvas](w),
	}
}
