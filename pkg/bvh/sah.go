package bvh

import (
	"math"

	"github.com/lattice-rt/bvhcore/pkg/geom"
)

// axisIndices holds the three per-axis index permutations for one node's
// reference range. All three slices name the same set of triangle
// indices (equal length) but in the sort order of their own axis
// in the sort order of their own axis.
type axisIndices struct {
	X, Y, Z []uint32
}

func (a axisIndices) Len() int { return len(a.X) }

// objectSplit is the best SAH object split found by bestObjectSplit.
type objectSplit struct {
	Axis      int
	SplitIdx  int // idx[Axis][:SplitIdx] is left, idx[Axis][SplitIdx:] is right
	SplitPos  float32
	Cost      float32
	Left      geom.AABB
	Right     geom.AABB
}

// bestObjectSplit sweeps all three axes using prefix/suffix AABB
// accumulation. Ties break on lower axis index, then
// lower split position, by only ever replacing the incumbent on a
// strictly lower cost while iterating axes and positions in increasing
// order.
func bestObjectSplit(tris []geom.Triangle, idx axisIndices) (objectSplit, bool) {
	n := idx.Len()
	best := objectSplit{Cost: math.MaxFloat32}
	found := false

	axisArrays := [3][]uint32{idx.X, idx.Y, idx.Z}
	prefix := make([]geom.AABB, n)
	suffix := make([]geom.AABB, n)

	for axis := 0; axis < 3; axis++ {
		sub := axisArrays[axis]

		box := geom.EmptyAABB()
		for i := 0; i < n; i++ {
			box = box.Expand(tris[sub[i]].BBox)
			prefix[i] = box
		}
		box = geom.EmptyAABB()
		for i := n - 1; i >= 0; i-- {
			box = box.Expand(tris[sub[i]].BBox)
			suffix[i] = box
		}

		for i := 0; i < n-1; i++ {
			leftCount := float32(i + 1)
			rightCount := float32(n - i - 1)
			cost := prefix[i].SurfaceArea()*leftCount + suffix[i+1].SurfaceArea()*rightCount
			if cost < best.Cost {
				best = objectSplit{
					Axis:     axis,
					SplitIdx: i + 1,
					SplitPos: tris[sub[i]].Centroid(axis),
					Cost:     cost,
					Left:     prefix[i],
					Right:    suffix[i+1],
				}
				found = true
			}
		}
	}

	return best, found
}

// partitionObjectSplit applies the chosen split consistently across all
// three axes. The pivot axis needs no data movement — it
// is already sorted by centroid, so the chosen split index is itself the
// partition point, ties included. The other two axes are stable
// partitioned by identity-lookup membership in the pivot axis's left
// half, which is the only way to keep all three axis counts equal when
// many centroids coincide at the split point.
func partitionObjectSplit(idx axisIndices, split objectSplit) (left, right axisIndices) {
	axisArrays := [3][]uint32{idx.X, idx.Y, idx.Z}
	pivot := axisArrays[split.Axis]

	inLeft := make(map[uint32]bool, split.SplitIdx)
	for _, id := range pivot[:split.SplitIdx] {
		inLeft[id] = true
	}

	var out [3][]uint32
	var outR [3][]uint32
	for a := 0; a < 3; a++ {
		if a == split.Axis {
			out[a] = append([]uint32(nil), pivot[:split.SplitIdx]...)
			outR[a] = append([]uint32(nil), pivot[split.SplitIdx:]...)
			continue
		}
		src := axisArrays[a]
		l := make([]uint32, 0, split.SplitIdx)
		r := make([]uint32, 0, len(src)-split.SplitIdx)
		for _, id := range src {
			if inLeft[id] {
				l = append(l, id)
			} else {
				r = append(r, id)
			}
		}
		out[a] = l
		outR[a] = r
	}

	left = axisIndices{X: out[0], Y: out[1], Z: out[2]}
	right = axisIndices{X: outR[0], Y: outR[1], Z: outR[2]}
	return left, right
}
