package bvh

import (
	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

// stackCapacity bounds the explicit traversal stack. A tree built with
// the default leaf threshold never recurses deep enough to fill it; an
// overflow means the tree itself is malformed (or maxTraversalDepth was
// raised without raising this too), so it is treated as fatal rather
// than silently dropping work.
const stackCapacity = 128

// QueryClosest walks tree for the nearest intersection of ray, blending
// the result per-lane into hit. hit should already be zeroed via
// geom.NewRayHit so that distance starts at +inf for every lane.
func QueryClosest(tree *Tree, ray geom.RayPacket, hit *geom.RayHit, strategy TraversalStrategy) {
	if len(tree.Nodes) == 0 {
		return
	}
	invDir := ray.InvDirection()

	var stack [stackCapacity]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		node := tree.Nodes[stack[sp]]

		if strategy != BruteForce {
			slab := node.AABB.IntersectPacket(ray.Origin, invDir, hit.Distance)
			if slab.AllFalse() {
				continue
			}
		}

		if node.IsLeaf() {
			first, count := node.FirstRef(), node.RefCount()
			for i := uint32(0); i < count; i++ {
				tri := &tree.Primitives[tree.Indices[first+i]]
				geom.IntersectTrianglePacket(tri, ray, hit)
			}
			continue
		}

		left := node.LeftChild()
		right := left + 1

		if strategy == Naive || strategy == BruteForce {
			if sp+2 > stackCapacity {
				panic(ErrStackOverflow)
			}
			stack[sp] = right
			sp++
			stack[sp] = left
			sp++
			continue
		}

		// Ordered: visit the near child first by pushing the far child
		// first, so the near child is the next one popped.
		axis := int(node.SplitAxis()) - 1
		if sp+2 > stackCapacity {
			panic(ErrStackOverflow)
		}
		if ray.Direction.Lane(0)[axis] >= 0 {
			stack[sp] = right
			sp++
			stack[sp] = left
			sp++
		} else {
			stack[sp] = left
			sp++
			stack[sp] = right
			sp++
		}
	}
}

// QueryClosestCounted behaves exactly like QueryClosest but also returns
// the number of nodes popped off the traversal stack, for callers that
// want a per-ray cost estimate (the bench command) without instrumenting
// every QueryClosest call.
func QueryClosestCounted(tree *Tree, ray geom.RayPacket, hit *geom.RayHit, strategy TraversalStrategy) int {
	visited := 0
	if len(tree.Nodes) == 0 {
		return visited
	}
	invDir := ray.InvDirection()

	var stack [stackCapacity]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		visited++
		node := tree.Nodes[stack[sp]]

		if strategy != BruteForce {
			slab := node.AABB.IntersectPacket(ray.Origin, invDir, hit.Distance)
			if slab.AllFalse() {
				continue
			}
		}

		if node.IsLeaf() {
			first, count := node.FirstRef(), node.RefCount()
			for i := uint32(0); i < count; i++ {
				tri := &tree.Primitives[tree.Indices[first+i]]
				geom.IntersectTrianglePacket(tri, ray, hit)
			}
			continue
		}

		left := node.LeftChild()
		right := left + 1

		if strategy == Naive || strategy == BruteForce {
			if sp+2 > stackCapacity {
				panic(ErrStackOverflow)
			}
			stack[sp] = right
			sp++
			stack[sp] = left
			sp++
			continue
		}

		axis := int(node.SplitAxis()) - 1
		if sp+2 > stackCapacity {
			panic(ErrStackOverflow)
		}
		if ray.Direction.Lane(0)[axis] >= 0 {
			stack[sp] = right
			sp++
			stack[sp] = left
			sp++
		} else {
			stack[sp] = left
			sp++
			stack[sp] = right
			sp++
		}
	}
	return visited
}

// QueryAny walks tree for any intersection within maxDistance per lane,
// returning as soon as every lane has recorded a hit. Unlike
// QueryClosest it never blends surface attributes.
func QueryAny(tree *Tree, ray geom.RayPacket, maxDistance float32) simd.Mask {
	hitMask := simd.MaskFromBits(0)
	if len(tree.Nodes) == 0 {
		return hitMask
	}
	invDir := ray.InvDirection()
	maxDist := simd.Splat(maxDistance)

	var stack [stackCapacity]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		if hitMask.AllTrue() {
			return hitMask
		}

		sp--
		node := tree.Nodes[stack[sp]]

		slab := node.AABB.IntersectPacket(ray.Origin, invDir, maxDist)
		if slab.AllFalse() {
			continue
		}

		if node.IsLeaf() {
			first, count := node.FirstRef(), node.RefCount()
			for i := uint32(0); i < count; i++ {
				tri := &tree.Primitives[tree.Indices[first+i]]
				hitMask = hitMask.Or(geom.IntersectTriangleAny(tri, ray, maxDist))
				if hitMask.AllTrue() {
					return hitMask
				}
			}
			continue
		}

		left := node.LeftChild()
		right := left + 1

		// Push far then near so near pops first; if the near subtree
		// brings every lane to all-true, the all-true check at the top
		// of this loop skips the far child without ever descending it.
		axis := int(node.SplitAxis()) - 1
		nearIdx, farIdx := left, right
		if ray.Direction.Lane(0)[axis] < 0 {
			nearIdx, farIdx = right, left
		}
		if sp+2 > stackCapacity {
			panic(ErrStackOverflow)
		}
		stack[sp] = farIdx
		sp++
		stack[sp] = nearIdx
		sp++
	}
	return hitMask
}
