package bvh

import (
	"math"

	"github.com/lattice-rt/bvhcore/pkg/geom"
)

// spatialBin is one uniform slab along a candidate split axis.
type spatialBin struct {
	bounds geom.AABB
	entry  int
	exit   int
}

// spatialSplit is the best Chopped-Binned spatial split found across all
// three axes.
type spatialSplit struct {
	Axis  int
	Plane float32
	Cost  float32
	Left  geom.AABB
	Right geom.AABB
}

// clipTriangleToSlab returns the AABB of tri clipped to [lo, hi] along
// axis, via Sutherland-Hodgman polygon clipping against the two bounding
// planes. This produces the same clipped extent as classifying each
// plane's relation to the triangle as LEFT/RIGHT/INTERSECTS by hand
// a plane entirely missing the triangle leaves the
// polygon unclipped on that side, a plane crossing the triangle cuts it
// down to a quadrilateral, and both planes missing collapses to the
// triangle's own vertices.
func clipTriangleToSlab(tri *geom.Triangle, axis int, lo, hi float32) geom.AABB {
	poly := [][3]float32{tri.P0, tri.P1, tri.P2}
	poly = clipHalfspace(poly, axis, lo, true)
	poly = clipHalfspace(poly, axis, hi, false)
	if len(poly) == 0 {
		return geom.EmptyAABB()
	}
	b := geom.EmptyAABB()
	for _, p := range poly {
		b = b.ExpandPoint(p)
	}
	return b
}

func clipHalfspace(poly [][3]float32, axis int, plane float32, keepGE bool) [][3]float32 {
	if len(poly) == 0 {
		return poly
	}
	out := make([][3]float32, 0, len(poly)+1)
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]
		curIn := insideHalfspace(cur[axis], plane, keepGE)
		nextIn := insideHalfspace(next[axis], plane, keepGE)
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			d := next[axis] - cur[axis]
			if d != 0 {
				t := (plane - cur[axis]) / d
				out = append(out, lerp3(cur, next, t))
			}
		}
	}
	return out
}

func insideHalfspace(v, plane float32, keepGE bool) bool {
	if keepGE {
		return v >= plane
	}
	return v <= plane
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// binAxis bins every triangle named by ids into binCount uniform slabs
// along axis, between nodeMin and nodeMax.
func binAxis(tris []geom.Triangle, ids []uint32, axis int, nodeMin, nodeMax float32, binCount int) []spatialBin {
	bins := make([]spatialBin, binCount)
	for i := range bins {
		bins[i].bounds = geom.EmptyAABB()
	}

	extent := nodeMax - nodeMin
	if extent <= 0 {
		extent = 1
	}
	binWidth := extent / float32(binCount)

	binOf := func(v float32) int {
		b := int((v - nodeMin) / binWidth)
		if b < 0 {
			b = 0
		}
		if b > binCount-1 {
			b = binCount - 1
		}
		return b
	}

	for _, id := range ids {
		tri := &tris[id]
		bMin := binOf(tri.BBox.Min[axis])
		bMax := binOf(tri.BBox.Max[axis])
		bins[bMin].entry++
		bins[bMax].exit++
		for b := bMin; b <= bMax; b++ {
			lo := nodeMin + float32(b)*binWidth
			hi := nodeMin + float32(b+1)*binWidth
			clipped := clipTriangleToSlab(tri, axis, lo, hi)
			if clipped.IsValid() {
				bins[b].bounds = bins[b].bounds.Expand(clipped)
			}
		}
	}
	return bins
}

// bestPlaneInBins sweeps prefix/suffix surface areas over the binned
// entry/exit counters to find the cheapest split plane.
func bestPlaneInBins(bins []spatialBin, nodeMin, binWidth float32) (planeCoord float32, cost float32, left, right geom.AABB, ok bool) {
	n := len(bins)
	prefix := make([]geom.AABB, n)
	suffix := make([]geom.AABB, n)

	box := geom.EmptyAABB()
	for i := 0; i < n; i++ {
		box = box.Expand(bins[i].bounds)
		prefix[i] = box
	}
	box = geom.EmptyAABB()
	for i := n - 1; i >= 0; i-- {
		box = box.Expand(bins[i].bounds)
		suffix[i] = box
	}

	rightCum := make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		rightCum[i] = rightCum[i+1] + bins[i].exit
	}

	cost = math.MaxFloat32
	leftCum := 0
	for i := 0; i < n-1; i++ {
		leftCum += bins[i].entry
		rCount := rightCum[i+1]
		if leftCum == 0 || rCount == 0 {
			continue
		}
		c := prefix[i].SurfaceArea()*float32(leftCum) + suffix[i+1].SurfaceArea()*float32(rCount)
		if c < cost {
			cost = c
			left = prefix[i]
			right = suffix[i+1]
			planeCoord = nodeMin + float32(i+1)*binWidth
			ok = true
		}
	}
	return
}

// bestSpatialSplit evaluates the binned spatial split on all three axes
// and returns the cheapest.
func bestSpatialSplit(tris []geom.Triangle, ids []uint32, bounds geom.AABB, binCount int) (spatialSplit, bool) {
	best := spatialSplit{Cost: math.MaxFloat32}
	found := false

	for axis := 0; axis < 3; axis++ {
		lo, hi := bounds.Min[axis], bounds.Max[axis]
		if hi-lo < geom.MinPad {
			continue
		}
		bins := binAxis(tris, ids, axis, lo, hi, binCount)
		plane, cost, left, right, ok := bestPlaneInBins(bins, lo, (hi-lo)/float32(binCount))
		if ok && cost < best.Cost {
			best = spatialSplit{Axis: axis, Plane: plane, Cost: cost, Left: left, Right: right}
			found = true
		}
	}
	return best, found
}

// spatialAssignment classifies one triangle's fate at a spatial split.
type spatialAssignment struct {
	goesLeft  bool
	goesRight bool
}

// partitionSpatialSplit resolves every triangle in ids against the
// chosen plane, performing reference unsplitting for straddlers whose
// AABB overlaps both children, then rebuilds all three
// axis-sorted index arrays for the two children in one stable pass so
// their counts and relative order agree.
func partitionSpatialSplit(tris []geom.Triangle, idx axisIndices, split spatialSplit) (left, right axisIndices, leftBounds, rightBounds geom.AABB, dropped int) {
	ids := idx.X
	assign := make(map[uint32]spatialAssignment, len(ids))

	leftBounds = geom.EmptyAABB()
	rightBounds = geom.EmptyAABB()
	n1, n2 := 0, 0

	// First pass: pure left/right references and their unclipped AABBs
	// establish the starting child bounds/counts that unsplitting
	// decisions for straddlers are then weighed against.
	var straddlers []uint32
	for _, id := range ids {
		box := tris[id].BBox
		switch {
		case box.Max[split.Axis] <= split.Plane:
			assign[id] = spatialAssignment{goesLeft: true}
			leftBounds = leftBounds.Expand(box)
			n1++
		case box.Min[split.Axis] >= split.Plane:
			assign[id] = spatialAssignment{goesRight: true}
			rightBounds = rightBounds.Expand(box)
			n2++
		default:
			straddlers = append(straddlers, id)
		}
	}

	for _, id := range straddlers {
		box := tris[id].BBox
		overlapLeft := geom.Overlap(box, split.Left)
		overlapRight := geom.Overlap(box, split.Right)
		validLeft := overlapLeft.IsValid()
		validRight := overlapRight.IsValid()

		switch {
		case validLeft && validRight:
			areaL := leftBounds.SurfaceArea()
			areaR := rightBounds.SurfaceArea()
			costSplit := areaL*float32(n1) + areaR*float32(n2)
			expandedL := leftBounds.Expand(box)
			expandedR := rightBounds.Expand(box)
			costLeftOnly := expandedL.SurfaceArea()*float32(n1) + areaR*float32(n2-1)
			costRightOnly := areaL*float32(n1-1) + expandedR.SurfaceArea()*float32(n2)

			if costLeftOnly < costSplit && costLeftOnly <= costRightOnly {
				assign[id] = spatialAssignment{goesLeft: true}
				leftBounds = expandedL
				n1++
			} else if costRightOnly < costSplit {
				assign[id] = spatialAssignment{goesRight: true}
				rightBounds = expandedR
				n2++
			} else {
				assign[id] = spatialAssignment{goesLeft: true, goesRight: true}
				leftBounds = expandedL
				rightBounds = expandedR
				n1++
				n2++
			}
		case validLeft:
			assign[id] = spatialAssignment{goesLeft: true}
			leftBounds = leftBounds.Expand(box)
			n1++
		case validRight:
			assign[id] = spatialAssignment{goesRight: true}
			rightBounds = rightBounds.Expand(box)
			n2++
		default:
			// Neither child's clipped bound admits the triangle; drop
			// it from both rather than leave a dangling reference. Rare
			// enough to only be worth counting for assertions.
			dropped++
		}
	}

	buildAxis := func(src []uint32) (l, r []uint32) {
		l = make([]uint32, 0, n1)
		r = make([]uint32, 0, n2)
		for _, id := range src {
			a := assign[id]
			if a.goesLeft {
				l = append(l, id)
			}
			if a.goesRight {
				r = append(r, id)
			}
		}
		return l, r
	}

	lx, rx := buildAxis(idx.X)
	ly, ry := buildAxis(idx.Y)
	lz, rz := buildAxis(idx.Z)

	left = axisIndices{X: lx, Y: ly, Z: lz}
	right = axisIndices{X: rx, Y: ry, Z: rz}
	return left, right, leftBounds.Pad(), rightBounds.Pad(), dropped
}
