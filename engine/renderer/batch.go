package renderer

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/strata-gfx/strata-go/engine/geometry"
	"github.com/strata-gfx/strata-go/engine/renderer/resource"
	"github.com/strata-gfx/strata-go/engine/scene"
)

// InstanceStride is the byte stride of one packed instance record: 19
// float32 values, 16 for the 4x4 transform followed by 3 for RGB color. The
// layout is a bit-for-bit contract with the vertex shader's instance
// attributes and with the pipeline's slot-1 layout in the resource package.
const InstanceStride = int(resource.InstanceStride)

// Batch is the set of all entities of one shape kind gathered for one frame,
// plus the GPU handles needed to draw them in a single instanced call.
// Batches exist only between gather and execute; the CPU arrays are owned
// clones of the queried component data and are dropped at end of frame.
type Batch struct {
	Kind          geometry.Kind
	InstanceCount uint32

	// Owned clones. ECS storage is not guaranteed stable across the buffer
	// upload, so the gather pass copies rather than aliases.
	Transforms []mgl32.Mat4
	Colors     []scene.Rgb

	// Mesh refers to the catalog's static vertex/index buffers; not owned.
	Mesh MeshHandle
	// Instances refers to the backend's pooled per-kind instance buffer,
	// rewritten this frame; not owned.
	Instances InstanceHandle
	// Pipeline is the shared default pipeline cached on the renderer; not
	// owned.
	Pipeline PipelineHandle
}

// Drawable reports whether every handle required by the executor is present
// and valid. Batches failing this check are skipped with a warning rather
// than drawn.
func (b *Batch) Drawable() bool {
	return b.Pipeline != nil && b.Pipeline.Valid() &&
		b.Mesh != nil && b.Mesh.Valid() &&
		b.Instances != nil && b.Instances.Valid()
}

// PackInstances packs transform/color pairs into the wire format uploaded to
// the instance buffer: per instance, 16 little-endian float32 for the
// transform in matrix memory order (the shader reconstructs the matrix from
// four consecutive vec4 columns) followed by 3 float32 for RGB.
//
// Parameters:
//   - transforms: one matrix per instance
//   - colors: one color per instance; must be the same length as transforms
//
// Returns:
//   - []byte: len(transforms) * 76 bytes of packed instance records
func PackInstances(transforms []mgl32.Mat4, colors []scene.Rgb) []byte {
	buf := make([]byte, len(transforms)*InstanceStride)
	for i := range transforms {
		off := i * InstanceStride
		for j := 0; j < 16; j++ {
			binary.LittleEndian.PutUint32(buf[off+j*4:off+j*4+4], math.Float32bits(transforms[i][j]))
		}
		c := colors[i]
		binary.LittleEndian.PutUint32(buf[off+64:off+68], math.Float32bits(c.R))
		binary.LittleEndian.PutUint32(buf[off+68:off+72], math.Float32bits(c.G))
		binary.LittleEndian.PutUint32(buf[off+72:off+76], math.Float32bits(c.B))
	}
	return buf
}
