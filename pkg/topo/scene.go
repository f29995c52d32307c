package topo

import (
	"sort"

	"github.com/lattice-rt/bvhcore/pkg/bvh"
	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

// Scene is the outer, top-level tree: a small BVH over mesh instance
// bounding boxes. Its leaves each reference exactly one instance, so
// it needs none of the spatial-split or multi-reference-per-leaf
// machinery the bottom-level bvh package carries — a plain object
// median split on the largest axis is enough for the handful of
// instances a scene typically carries.
type Scene struct {
	Instances []Instance
	Nodes     []bvh.Node
}

// BuildScene constructs the outer tree over instances. Order of
// Instances is preserved; every leaf carries RefCount 1 and its
// FirstRef is the instance's own index, so no separate index array is
// needed the way the bottom-level tree needs one.
func BuildScene(instances []Instance) (*Scene, error) {
	if len(instances) == 0 {
		return nil, bvh.ErrEmptyInput
	}
	s := &Scene{Instances: instances}
	ids := make([]uint32, len(instances))
	for i := range ids {
		ids[i] = uint32(i)
	}
	s.Nodes = append(s.Nodes, bvh.Node{})
	s.subdivide(0, ids)
	return s, nil
}

func (s *Scene) subdivide(nodeIdx uint32, ids []uint32) {
	bounds := geom.EmptyAABB()
	for _, id := range ids {
		bounds = bounds.Expand(s.Instances[id].Bounds)
	}
	bounds = bounds.Pad()

	if len(ids) <= 1 {
		s.Nodes[nodeIdx].AABB = bounds
		s.Nodes[nodeIdx].SetLeaf(ids[0], uint32(len(ids)))
		return
	}

	axis := widestAxis(bounds)
	sort.Slice(ids, func(i, j int) bool {
		return s.Instances[ids[i]].Bounds.Center()[axis] < s.Instances[ids[j]].Bounds.Center()[axis]
	})
	mid := len(ids) / 2

	if len(s.Nodes) == 1 {
		s.Nodes = append(s.Nodes, bvh.Node{})
	}
	leftIdx := uint32(len(s.Nodes))
	s.Nodes = append(s.Nodes, bvh.Node{}, bvh.Node{})

	s.Nodes[nodeIdx].AABB = bounds
	s.Nodes[nodeIdx].SetInner(bvh.Axis(axis+1), leftIdx)

	s.subdivide(leftIdx, ids[:mid])
	s.subdivide(leftIdx+1, ids[mid:])
}

func widestAxis(b geom.AABB) int {
	ext := [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
	axis := 0
	if ext[1] > ext[axis] {
		axis = 1
	}
	if ext[2] > ext[axis] {
		axis = 2
	}
	return axis
}

// QueryClosest walks the outer tree, invoking each candidate instance's
// Trace capability in turn. The per-lane nearest result across every
// instance a ray packet's leaves touch is blended directly into hit by
// Instance.Trace, so this loop needs no blending of its own.
func (s *Scene) QueryClosest(ray geom.RayPacket, hit *geom.RayHit, strategy bvh.TraversalStrategy) {
	if len(s.Nodes) == 0 {
		return
	}
	var stack [128]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		node := s.Nodes[stack[sp]]
		if node.IsLeaf() {
			inst := &s.Instances[node.FirstRef()]
			inst.Trace(ray, hit, strategy)
			continue
		}
		left := node.LeftChild()
		if sp+2 > len(stack) {
			panic(bvh.ErrStackOverflow)
		}
		stack[sp] = left + 1
		sp++
		stack[sp] = left
		sp++
	}
}

// QueryAny walks the outer tree for any instance occlusion within
// maxDistance, short-circuiting as soon as every lane has a hit.
func (s *Scene) QueryAny(ray geom.RayPacket, maxDistance float32) simd.Mask {
	mask := simd.MaskFromBits(0)
	if len(s.Nodes) == 0 {
		return mask
	}
	var stack [128]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		if mask.AllTrue() {
			return mask
		}
		sp--
		node := s.Nodes[stack[sp]]
		if node.IsLeaf() {
			inst := &s.Instances[node.FirstRef()]
			mask = mask.Or(inst.Intersect(ray, maxDistance))
			continue
		}
		left := node.LeftChild()
		if sp+2 > len(stack) {
			panic(bvh.ErrStackOverflow)
		}
		stack[sp] = left + 1
		sp++
		stack[sp] = left
		sp++
	}
	return mask
}
