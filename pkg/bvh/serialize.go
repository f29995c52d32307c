package bvh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lattice-rt/bvhcore/pkg/geom"
)

// triangleRecordSize is the packed byte size of one serialized Triangle:
// 3 positions + 3 normals (3x float32 each) + 3 UVs (2x float32 each)
// plus a trailing int32 material id.
const triangleRecordSize = (3+3)*3*4 + 3*2*4 + 4

// nodeRecordSize is the packed byte size of one serialized Node, the same
// 32 bytes as the in-memory layout; writeNode/readNode move it field by
// field (Min, Max, LeftOrFirstRef, Count).
const nodeRecordSize = 32

// maxPlausibleCount guards against treating garbage input as a huge
// allocation request; this is not a format version tag, just a sanity
// ceiling on primitive_count/node_count/leaf_total.
const maxPlausibleCount = 1 << 28

// Serialize writes tree in the little-endian, zero-padding binary
// format: primitive_count, Triangle[primitive_count], node_count,
// Node[node_count], leaf_total, then the leaf_total-length triangle
// reference array. The format carries no version or endianness tag;
// callers needing that must layer it on top.
func Serialize(tree *Tree, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, int32(len(tree.Primitives))); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	for i := range tree.Primitives {
		if err := writeTriangle(bw, &tree.Primitives[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, int32(len(tree.Nodes))); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	for i := range tree.Nodes {
		if err := writeNode(bw, &tree.Nodes[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, int32(tree.LeafTotal)); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	for _, ref := range tree.Indices {
		if err := binary.Write(bw, binary.LittleEndian, ref); err != nil {
			return fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

// Deserialize reads back a Tree written by Serialize. The format does
// not store IsSBVH; Deserialize sets it when leaf_total differs from
// primitive_count, so an SBVH whose build duplicated no reference reads
// back with IsSBVH false.
func Deserialize(r io.Reader) (*Tree, error) {
	br := bufio.NewReader(r)

	primCount, err := readCount(br)
	if err != nil {
		return nil, err
	}
	primitives := make([]geom.Triangle, primCount)
	for i := range primitives {
		if err := readTriangle(br, &primitives[i]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	nodeCount, err := readCount(br)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, nodeCount)
	for i := range nodes {
		if err := readNode(br, &nodes[i]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	leafTotal, err := readCount(br)
	if err != nil {
		return nil, err
	}
	if leafTotal < primCount {
		return nil, fmt.Errorf("%w: leaf_total %d < primitive_count %d", ErrVersionMismatch, leafTotal, primCount)
	}
	indices := make([]uint32, leafTotal)
	for i := range indices {
		if err := binary.Read(br, binary.LittleEndian, &indices[i]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	return &Tree{
		Primitives: primitives,
		Nodes:      nodes,
		Indices:    indices,
		LeafTotal:  uint32(leafTotal),
		IsSBVH:     uint32(leafTotal) != uint32(primCount),
	}, nil
}

func readCount(r io.Reader) (int, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	if v < 0 || v > maxPlausibleCount {
		return 0, fmt.Errorf("%w: count %d out of plausible range", ErrVersionMismatch, v)
	}
	return int(v), nil
}

func writeTriangle(w io.Writer, t *geom.Triangle) error {
	fields := []geom.Vec3{t.P0, t.P1, t.P2, t.Normal0, t.Normal1, t.Normal2}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	uvs := [][2]float32{t.UV0, t.UV1, t.UV2}
	for _, uv := range uvs {
		if err := binary.Write(w, binary.LittleEndian, uv); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, t.MaterialID)
}

func readTriangle(r io.Reader, t *geom.Triangle) error {
	fields := []*geom.Vec3{&t.P0, &t.P1, &t.P2, &t.Normal0, &t.Normal1, &t.Normal2}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	uvs := []*[2]float32{&t.UV0, &t.UV1, &t.UV2}
	for _, uv := range uvs {
		if err := binary.Read(r, binary.LittleEndian, uv); err != nil {
			return err
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &t.MaterialID); err != nil {
		return err
	}
	t.BBox = geom.FromPoints(t.P0, t.P1, t.P2).Pad()
	return nil
}

func writeNode(w io.Writer, n *Node) error {
	if err := binary.Write(w, binary.LittleEndian, n.AABB.Min); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.AABB.Max); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.LeftOrFirstRef); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, n.Count)
}

func readNode(r io.Reader, n *Node) error {
	if err := binary.Read(r, binary.LittleEndian, &n.AABB.Min); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &n.AABB.Max); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &n.LeftOrFirstRef); err != nil {
		return err
	}
	return binary.Read(r, binary.LittleEndian, &n.Count)
}
