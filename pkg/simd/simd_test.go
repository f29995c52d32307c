package simd

import "testing"

func TestMaskContract(t *testing.T) {
	allTrue := Splat(1).Equal(Splat(1))
	if !allTrue.AllTrue() {
		t.Fatalf("expected all-true mask")
	}

	var want uint8
	switch Width {
	case 1:
		want = 0x1
	case 4:
		want = 0xF
	case 8:
		want = 0xFF
	}
	if got := allTrue.Mask(); got != want {
		t.Fatalf("Mask() = %#x, want %#x for Width=%d", got, want, Width)
	}

	allFalse := Splat(1).Equal(Splat(2))
	if !allFalse.AllFalse() {
		t.Fatalf("expected all-false mask")
	}
	if allFalse.Mask() != 0 {
		t.Fatalf("Mask() = %#x, want 0", allFalse.Mask())
	}
}

func TestMadd(t *testing.T) {
	a := Splat(2)
	b := Splat(3)
	c := Splat(4)
	got := Madd(a, b, c)
	for i := 0; i < Width; i++ {
		if got.Lane(i) != 10 {
			t.Fatalf("Madd lane %d = %f, want 10", i, got.Lane(i))
		}
	}
}

func TestMsub(t *testing.T) {
	got := Msub(Splat(2), Splat(3), Splat(4))
	for i := 0; i < Width; i++ {
		if got.Lane(i) != 2 {
			t.Fatalf("Msub lane %d = %f, want 2", i, got.Lane(i))
		}
	}
}

func TestBlend(t *testing.T) {
	f := Splat(0)
	f = f.WithLane(0, 1)
	mask := f.GreaterThan(Splat(0))
	out := Blend(Splat(-1), Splat(1), mask)
	if out.Lane(0) != 1 {
		t.Fatalf("expected lane 0 to take the true value")
	}
	if Width > 1 && out.Lane(1) != -1 {
		t.Fatalf("expected lane 1 to take the false value")
	}
}

func TestRcpExact(t *testing.T) {
	got := Splat(4).Rcp()
	for i := 0; i < Width; i++ {
		if d := got.Lane(i) - 0.25; d < -1e-3 || d > 1e-3 {
			t.Fatalf("Rcp lane %d = %f, want ~0.25", i, got.Lane(i))
		}
	}
}

func TestVec3DotCross(t *testing.T) {
	a := SplatVec3(1, 0, 0)
	b := SplatVec3(0, 1, 0)
	if dot := a.Dot(b); dot.Lane(0) != 0 {
		t.Fatalf("expected orthogonal dot product of 0, got %f", dot.Lane(0))
	}
	cross := a.Cross(b)
	if cross.Lane(0) != [3]float32{0, 0, 1} {
		t.Fatalf("expected x cross y = z, got %v", cross.Lane(0))
	}
}

func TestVec3Normalize(t *testing.T) {
	v := SplatVec3(3, 4, 0)
	n := v.Normalize()
	got := n.Lane(0)
	if d := got[0] - 0.6; d < -1e-3 || d > 1e-3 {
		t.Fatalf("normalize x = %f, want 0.6", got[0])
	}
	if d := got[1] - 0.8; d < -1e-3 || d > 1e-3 {
		t.Fatalf("normalize y = %f, want 0.8", got[1])
	}

	zero := SplatVec3(0, 0, 0).Normalize()
	if zero.Lane(0) != [3]float32{0, 0, 0} {
		t.Fatalf("normalize of zero vector should stay zero, got %v", zero.Lane(0))
	}
}

func TestIntBlendAndEqual(t *testing.T) {
	a := SplatInt(1)
	b := SplatInt(1).WithLane(0, 2)
	eq := a.Equal(b)
	if eq.Lane(0) {
		t.Fatalf("lane 0 should differ")
	}
	if Width > 1 && !eq.Lane(1) {
		t.Fatalf("lane 1 should match")
	}

	blended := BlendInt(SplatInt(0), SplatInt(9), eq)
	if Width > 1 && blended.Lane(1) != 9 {
		t.Fatalf("expected blended lane 1 = 9, got %d", blended.Lane(1))
	}
}
