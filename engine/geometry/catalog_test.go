package geometry

import (
	"errors"
	"testing"
)

func TestCatalogRegistrationOrder(t *testing.T) {
	kinds := Kinds()
	if len(kinds) < 2 {
		t.Fatalf("catalog has %d kinds, want at least box and rectangle", len(kinds))
	}
	if kinds[0] != KindBox || kinds[1] != KindRectangle {
		t.Fatalf("kinds = %v, want box before rectangle", kinds)
	}
}

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		kind        Kind
		vertexCount uint32
		indexCount  uint32
	}{
		{KindBox, 24, 36},
		{KindRectangle, 4, 6},
	}
	for _, tt := range tests {
		mesh, err := MeshOf(tt.kind)
		if err != nil {
			t.Fatalf("MeshOf(%s): %v", tt.kind, err)
		}
		if got := mesh.VertexCount(); got != tt.vertexCount {
			t.Errorf("%s vertex count = %d, want %d", tt.kind, got, tt.vertexCount)
		}
		if got := mesh.IndexCount(); got != tt.indexCount {
			t.Errorf("%s index count = %d, want %d", tt.kind, got, tt.indexCount)
		}
		if len(mesh.Vertices)%VertexFloats != 0 {
			t.Errorf("%s vertex data length %d not a multiple of %d", tt.kind, len(mesh.Vertices), VertexFloats)
		}
	}
}

func TestMeshIndicesInRange(t *testing.T) {
	for _, kind := range Kinds() {
		mesh, err := MeshOf(kind)
		if err != nil {
			t.Fatalf("MeshOf(%s): %v", kind, err)
		}
		n := mesh.VertexCount()
		if mesh.IndexCount()%3 != 0 {
			t.Errorf("%s index count %d not a multiple of 3", kind, mesh.IndexCount())
		}
		for i, idx := range mesh.Indices {
			if uint32(idx) >= n {
				t.Fatalf("%s index %d at position %d out of range (%d vertices)", kind, idx, i, n)
			}
		}
	}
}

func TestMeshOfUnknownKind(t *testing.T) {
	if _, err := MeshOf(Kind(200)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("MeshOf(unknown) error = %v, want ErrUnknownKind", err)
	}
}

func TestKindString(t *testing.T) {
	if KindBox.String() != "box" || KindRectangle.String() != "rectangle" {
		t.Fatalf("Kind strings = %q, %q", KindBox, KindRectangle)
	}
	if Kind(200).String() != "unknown" {
		t.Fatalf("unregistered kind string = %q", Kind(200))
	}
}
