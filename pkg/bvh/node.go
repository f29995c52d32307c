// Package bvh implements the BVH/SBVH builder, traversal and
// serialization core.
package bvh

import "github.com/lattice-rt/bvhcore/pkg/geom"

// Axis identifies a split axis. The zero value is reserved and never
// appears on an inner node.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

const (
	countMask uint32 = 0x3FFFFFFF
	axisShift        = 30
)

// Node is the 32-byte packed tree node: a 24-byte
// AABB followed by two 4-byte fields. Count's low 30 bits hold a leaf's
// reference count (0 for inner nodes); its top 2 bits hold the inner
// node's split axis.
type Node struct {
	AABB           geom.AABB
	LeftOrFirstRef uint32
	Count          uint32
}

// IsLeaf reports whether the node carries a non-zero reference count.
func (n Node) IsLeaf() bool {
	return n.Count&countMask > 0
}

// RefCount returns the number of primitive references in a leaf node.
func (n Node) RefCount() uint32 {
	return n.Count & countMask
}

// FirstRef returns the offset of a leaf's first reference in the tree's
// index array.
func (n Node) FirstRef() uint32 {
	return n.LeftOrFirstRef
}

// LeftChild returns an inner node's left child index; the right child is
// always LeftChild()+1.
func (n Node) LeftChild() uint32 {
	return n.LeftOrFirstRef
}

// SplitAxis returns the inner node's split axis.
func (n Node) SplitAxis() Axis {
	return Axis(n.Count >> axisShift)
}

// SetLeaf configures the node as a leaf referencing count indices
// starting at firstRef.
func (n *Node) SetLeaf(firstRef, count uint32) {
	n.LeftOrFirstRef = firstRef
	n.Count = count & countMask
}

// SetInner configures the node as an inner node splitting on axis, with
// children at leftChild and leftChild+1.
func (n *Node) SetInner(axis Axis, leftChild uint32) {
	n.LeftOrFirstRef = leftChild
	n.Count = uint32(axis) << axisShift
}

// Tree is the built acceleration structure: a flat node array plus the
// owned triangle and index arrays it was built over.
type Tree struct {
	Primitives []geom.Triangle
	Nodes      []Node
	Indices    []uint32

	// LeafTotal is the sum of every leaf's reference count. For a BVH
	// this equals len(Primitives); for an SBVH it is >= len(Primitives)
	// because of spatial-split duplication.
	LeafTotal uint32

	// IsSBVH records which builder produced this tree, informing callers
	// whether duplicate references are expected. It is not serialized;
	// Deserialize infers it from leaf_total.
	IsSBVH bool
}

// Root returns the tree's root node. Build guarantees a tree always has
// at least one node.
func (t *Tree) Root() Node {
	return t.Nodes[0]
}
