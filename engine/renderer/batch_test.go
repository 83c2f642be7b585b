package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/strata-gfx/strata-go/engine/scene"
)

func TestPackInstancesLayout(t *testing.T) {
	transforms := []mgl32.Mat4{
		mgl32.Ident4(),
		mgl32.Translate3D(1, 2, 3),
	}
	colors := []scene.Rgb{
		{R: 0.2, G: 0.5, B: 1.0},
		{R: 1, G: 1, B: 1},
	}

	buf := PackInstances(transforms, colors)
	if len(buf) != 2*InstanceStride {
		t.Fatalf("len = %d, want %d", len(buf), 2*InstanceStride)
	}
	if InstanceStride != 76 {
		t.Fatalf("InstanceStride = %d, want 76", InstanceStride)
	}

	// Record 0: identity matrix in memory order, then the color at +64.
	if got := f32At(t, buf, 0); got != 1 {
		t.Errorf("m[0] = %v, want 1", got)
	}
	if got := f32At(t, buf, 4); got != 0 {
		t.Errorf("m[1] = %v, want 0", got)
	}
	if got := f32At(t, buf, 5*4); got != 1 {
		t.Errorf("m[5] = %v, want 1", got)
	}
	if got := f32At(t, buf, 64); got != 0.2 {
		t.Errorf("r = %v, want 0.2", got)
	}
	if got := f32At(t, buf, 68); got != 0.5 {
		t.Errorf("g = %v, want 0.5", got)
	}
	if got := f32At(t, buf, 72); got != 1.0 {
		t.Errorf("b = %v, want 1.0", got)
	}

	// Record 1 starts at one stride; its translation sits at elements 12-14.
	base := InstanceStride
	if got := f32At(t, buf, base+12*4); got != 1 {
		t.Errorf("second transform tx = %v, want 1", got)
	}
	if got := f32At(t, buf, base+14*4); got != 3 {
		t.Errorf("second transform tz = %v, want 3", got)
	}
}

func TestPackInstancesEmpty(t *testing.T) {
	if buf := PackInstances(nil, nil); len(buf) != 0 {
		t.Fatalf("empty pack produced %d bytes", len(buf))
	}
}
