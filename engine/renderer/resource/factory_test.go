package resource

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestStrideConstants(t *testing.T) {
	if VertexStride != 32 {
		t.Errorf("VertexStride = %d, want 32 (pos3 + normal3 + uv2)", VertexStride)
	}
	if InstanceStride != 76 {
		t.Errorf("InstanceStride = %d, want 76 (mat4 + rgb)", InstanceStride)
	}
	if CameraUniformSize != 192 {
		t.Errorf("CameraUniformSize = %d, want 192 (three mat4)", CameraUniformSize)
	}
	if LightUniformSize != 48 {
		t.Errorf("LightUniformSize = %d, want 48", LightUniformSize)
	}
}

func TestGeometryVertexLayouts(t *testing.T) {
	layouts := GeometryVertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("got %d layouts, want vertex + instance slots", len(layouts))
	}

	vertex := layouts[0]
	if vertex.ArrayStride != VertexStride || vertex.StepMode != wgpu.VertexStepModeVertex {
		t.Fatalf("vertex slot stride/step = %d/%v", vertex.ArrayStride, vertex.StepMode)
	}
	if len(vertex.Attributes) != 3 {
		t.Fatalf("vertex slot has %d attributes, want 3", len(vertex.Attributes))
	}

	instance := layouts[1]
	if instance.ArrayStride != InstanceStride || instance.StepMode != wgpu.VertexStepModeInstance {
		t.Fatalf("instance slot stride/step = %d/%v", instance.ArrayStride, instance.StepMode)
	}
	if len(instance.Attributes) != 5 {
		t.Fatalf("instance slot has %d attributes, want 5 (four vec4 columns + rgb)", len(instance.Attributes))
	}

	// Shader locations must be contiguous across the two slots, and the
	// transform columns 16 bytes apart.
	loc := uint32(0)
	for _, l := range layouts {
		var offset uint64
		for _, a := range l.Attributes {
			if a.ShaderLocation != loc {
				t.Fatalf("shader location %d out of sequence, want %d", a.ShaderLocation, loc)
			}
			if a.Offset < offset {
				t.Fatalf("attribute offsets not increasing at location %d", a.ShaderLocation)
			}
			offset = a.Offset
			loc++
		}
	}
	if instance.Attributes[1].Offset != 16 || instance.Attributes[4].Offset != 64 {
		t.Fatalf("instance offsets = %d/%d, want 16/64", instance.Attributes[1].Offset, instance.Attributes[4].Offset)
	}
}
