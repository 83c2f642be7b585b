package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes reinterprets a slice of any type as a raw byte slice using unsafe.
// The returned slice aliases the input's backing array, no copy is made.
//
// Parameters:
//   - data: the slice to reinterpret
//
// Returns:
//   - []byte: byte slice view of the input's memory, or nil for an empty slice
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// PerspectiveWGPU builds a right-handed perspective projection matrix with a
// [0, 1] clip-space depth range as required by WebGPU. mgl32.Perspective targets
// OpenGL's [-1, 1] depth range and cannot be used against a Depth24Plus target
// without losing half the depth precision.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width divided by height
//   - near: near clip plane distance (must be > 0)
//   - far: far clip plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix in column-major order
func PerspectiveWGPU(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ScaleDiagonal post-multiplies a non-uniform scale into a transform matrix by
// scaling its three basis columns in place. Equivalent to m * Scale(sx, sy, sz)
// but without a full matrix multiply.
//
// Parameters:
//   - m: the transform to scale, mutated in place
//   - sx, sy, sz: scale factors along the local X, Y and Z axes
func ScaleDiagonal(m *mgl32.Mat4, sx, sy, sz float32) {
	for r := 0; r < 4; r++ {
		m[r] *= sx
		m[4+r] *= sy
		m[8+r] *= sz
	}
}
