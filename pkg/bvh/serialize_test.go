package bvh

import (
	"bytes"
	"testing"

	"github.com/lattice-rt/bvhcore/pkg/geom"
)

func TestSerializeRoundTrip(t *testing.T) {
	tris := cubeTriangles([3]float32{1, -2, 0.5}, 1.5, 9)
	tree, err := Build(tris)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := Serialize(tree, &buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if len(got.Primitives) != len(tree.Primitives) {
		t.Fatalf("primitive count = %d, want %d", len(got.Primitives), len(tree.Primitives))
	}
	for i := range tree.Primitives {
		if got.Primitives[i].P0 != tree.Primitives[i].P0 ||
			got.Primitives[i].P1 != tree.Primitives[i].P1 ||
			got.Primitives[i].P2 != tree.Primitives[i].P2 ||
			got.Primitives[i].MaterialID != tree.Primitives[i].MaterialID {
			t.Fatalf("triangle %d round-trip mismatch: got %+v, want %+v", i, got.Primitives[i], tree.Primitives[i])
		}
	}
	if len(got.Nodes) != len(tree.Nodes) {
		t.Fatalf("node count = %d, want %d", len(got.Nodes), len(tree.Nodes))
	}
	for i := range tree.Nodes {
		if got.Nodes[i] != tree.Nodes[i] {
			t.Fatalf("node %d round-trip mismatch: got %+v, want %+v", i, got.Nodes[i], tree.Nodes[i])
		}
	}
	if len(got.Indices) != len(tree.Indices) {
		t.Fatalf("index count = %d, want %d", len(got.Indices), len(tree.Indices))
	}
	for i := range tree.Indices {
		if got.Indices[i] != tree.Indices[i] {
			t.Fatalf("index %d round-trip mismatch: got %d, want %d", i, got.Indices[i], tree.Indices[i])
		}
	}
}

func TestSerializeByteExactRoundTrip(t *testing.T) {
	tris := cubeTriangles([3]float32{0, 0, 0}, 1, 0)
	tree, err := Build(tris)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var first, second bytes.Buffer
	if err := Serialize(tree, &first); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if err := Serialize(got, &second); err != nil {
		t.Fatalf("re-Serialize: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("serialize . deserialize . serialize is not byte-for-byte identity")
	}
}

func TestDeserializeRejectsImplausibleCount(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xff, 0xff, 0x7f}) // primitive_count = 0x7fffffff, way over the sanity ceiling
	if _, err := Deserialize(&buf); err == nil {
		t.Fatalf("expected Deserialize to reject an implausible count")
	}
}

func TestDeserializeFlagsSBVHFromLeafTotal(t *testing.T) {
	tris := []geom.Triangle{
		geom.NewTriangle([3]float32{-10, -0.01, 0}, [3]float32{10, -0.01, 0}, [3]float32{-10, 0.01, 0}, 0),
		geom.NewTriangle([3]float32{-10, 0.01, 0}, [3]float32{10, 0.01, 0}, [3]float32{10, -0.01, 0}, 1),
	}
	sbvh, err := BuildSBVH(tris, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSBVH: %v", err)
	}
	if sbvh.LeafTotal <= uint32(len(tris)) {
		t.Skip("binned spatial split did not trigger for this synthetic overlap on this configuration")
	}

	var buf bytes.Buffer
	if err := Serialize(sbvh, &buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.IsSBVH {
		t.Fatalf("expected deserialized tree to be flagged as SBVH when leaf_total > primitive_count")
	}
}
