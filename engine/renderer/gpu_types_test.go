package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func f32At(t *testing.T, buf []byte, off int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func TestCameraUniformLayout(t *testing.T) {
	u := CameraUniform{
		View:           mgl32.Ident4(),
		Projection:     mgl32.Scale3D(2, 2, 2),
		ViewProjection: mgl32.Translate3D(1, 2, 3),
	}
	buf := u.Marshal()
	if len(buf) != 192 {
		t.Fatalf("camera uniform is %d bytes, want 192", len(buf))
	}

	// First element of each matrix at offsets 0 / 64 / 128.
	if got := f32At(t, buf, 0); got != 1 {
		t.Errorf("view[0] = %v, want 1", got)
	}
	if got := f32At(t, buf, 64); got != 2 {
		t.Errorf("projection[0] = %v, want 2", got)
	}
	// Translate3D stores x translation at element 12.
	if got := f32At(t, buf, 128+12*4); got != 1 {
		t.Errorf("view_projection[12] = %v, want 1", got)
	}
}

func TestLightUniformLayout(t *testing.T) {
	u := LightUniform{
		Direction: [3]float32{0.5, -1, -0.5},
		Color:     [3]float32{1, 0.9, 0.8},
		Ambient:   [3]float32{0.25, 0.25, 0.25},
		Intensity: 2,
	}
	buf := u.Marshal()
	if len(buf) != 48 {
		t.Fatalf("light uniform is %d bytes, want 48", len(buf))
	}

	// WGSL vec3 alignment: fields at 0 / 16 / 32, intensity packed at 44.
	if got := f32At(t, buf, 4); got != -1 {
		t.Errorf("direction.y = %v, want -1", got)
	}
	if got := f32At(t, buf, 12); got != 0 {
		t.Errorf("padding after direction = %v, want 0", got)
	}
	if got := f32At(t, buf, 16); got != 1 {
		t.Errorf("color.r = %v, want 1", got)
	}
	if got := f32At(t, buf, 28); got != 0 {
		t.Errorf("padding after color = %v, want 0", got)
	}
	if got := f32At(t, buf, 32); got != 0.25 {
		t.Errorf("ambient.r = %v, want 0.25", got)
	}
	if got := f32At(t, buf, 44); got != 2 {
		t.Errorf("intensity = %v, want 2", got)
	}
}
