package objreader

import (
	"strings"
	"testing"
)

func TestLoadTriangle(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	tris, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	if tris[0].P1[0] != 1 {
		t.Fatalf("P1 = %v, want x=1", tris[0].P1)
	}
}

func TestLoadFanTriangulatesQuad(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	tris, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2 (fan-triangulated quad)", len(tris))
	}
}

func TestLoadNegativeRelativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	tris, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
}

func TestLoadAssignsMaterialFromUsemtl(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
v 2 0 0
usemtl blue
f 1 2 4
`
	tris, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	if tris[0].MaterialID == tris[1].MaterialID {
		t.Fatalf("expected distinct materials for 'red' and 'blue'")
	}
}

func TestLoadRejectsOutOfRangeIndex(t *testing.T) {
	src := `
v 0 0 0
f 1 2 3
`
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a face referencing undefined vertices")
	}
}
