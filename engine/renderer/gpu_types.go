package renderer

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniform is the CPU-side mirror of the WGSL Camera struct at group 0
// binding 0: three column-major 4x4 matrices, 192 bytes. The byte size is a
// compatibility contract with the vertex shader and must not drift.
type CameraUniform struct {
	View           mgl32.Mat4 // offset   0
	Projection     mgl32.Mat4 // offset  64
	ViewProjection mgl32.Mat4 // offset 128
}

// Size returns the marshaled size of the camera uniform in bytes (192).
func (c *CameraUniform) Size() int {
	return 3 * 16 * 4
}

// Marshal serializes the camera uniform into a byte buffer suitable for GPU
// upload.
//
// Returns:
//   - []byte: 192-byte buffer ready for GPU upload
func (c *CameraUniform) Marshal() []byte {
	buf := make([]byte, c.Size())
	putMat4(buf[0:64], c.View)
	putMat4(buf[64:128], c.Projection)
	putMat4(buf[128:192], c.ViewProjection)
	return buf
}

// LightUniform is the CPU-side mirror of the WGSL Light struct at group 1
// binding 0. The marshaled layout follows WGSL struct rules: each vec3 is
// 16-byte aligned, the trailing f32 packs into the last vec3's padding.
// Size: 48 bytes.
type LightUniform struct {
	Direction [3]float32 // offset  0, 4 bytes padding after
	Color     [3]float32 // offset 16, 4 bytes padding after
	Ambient   [3]float32 // offset 32
	Intensity float32    // offset 44
}

// Size returns the marshaled size of the light uniform in bytes (48).
func (l *LightUniform) Size() int {
	return 48
}

// Marshal serializes the light uniform into a byte buffer suitable for GPU
// upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (l *LightUniform) Marshal() []byte {
	buf := make([]byte, l.Size())
	putVec3(buf[0:12], l.Direction)
	binary.LittleEndian.PutUint32(buf[12:16], 0) // padding
	putVec3(buf[16:28], l.Color)
	binary.LittleEndian.PutUint32(buf[28:32], 0) // padding
	putVec3(buf[32:44], l.Ambient)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(l.Intensity))
	return buf
}

func putMat4(buf []byte, m mgl32.Mat4) {
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(m[i]))
	}
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
