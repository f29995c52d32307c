package bvh

import (
	"sort"
	"time"

	"github.com/lattice-rt/bvhcore/internal/log"
	"github.com/lattice-rt/bvhcore/pkg/geom"
)

// maxTraversalDepth mirrors the traversal stack capacity:
// the builder refuses to recurse deeper than this, since a tree deeper
// than the stack could ever hold could never be fully traversed.
const maxTraversalDepth = 128

type buildStats struct {
	nodes, leafs, maxDepth int
}

type builder struct {
	logger     log.Logger
	config     Config
	isSBVH     bool
	tris       []geom.Triangle
	nodes      []Node
	indices    []uint32
	rootSA     float32
	indexBound int
	stats      buildStats
}

// Build constructs a BVH over triangles using object SAH splits only
// with object SAH splits only.
func Build(triangles []geom.Triangle) (*Tree, error) {
	return build(triangles, DefaultConfig(), false)
}

// BuildWithConfig constructs a BVH with caller-supplied tunables.
func BuildWithConfig(triangles []geom.Triangle, cfg Config) (*Tree, error) {
	return build(triangles, cfg, false)
}

// BuildSBVH constructs a spatial-split BVH.
// Its leaf_total is >= len(triangles) because straddling triangles may be
// duplicated across leaves.
func BuildSBVH(triangles []geom.Triangle, cfg Config) (*Tree, error) {
	return build(triangles, cfg, true)
}

func build(triangles []geom.Triangle, cfg Config, sbvh bool) (*Tree, error) {
	if len(triangles) == 0 {
		return nil, ErrEmptyInput
	}
	if cfg.SpatialBinCount < 4 {
		cfg.SpatialBinCount = DefaultConfig().SpatialBinCount
	}
	if cfg.LeafThreshold < 1 {
		cfg.LeafThreshold = DefaultConfig().LeafThreshold
	}

	b := &builder{
		logger:     log.New("bvh.builder"),
		config:     cfg,
		isSBVH:     sbvh,
		tris:       triangles,
		nodes:      make([]Node, 0, 2*len(triangles)),
		indices:    make([]uint32, 0, len(triangles)),
		indexBound: 2 * len(triangles),
	}

	idx := b.initialSort()
	root := geom.EmptyAABB()
	for _, id := range idx.X {
		root = root.Expand(triangles[id].BBox)
	}
	b.rootSA = root.Pad().SurfaceArea()

	start := time.Now()
	nodeIdx := uint32(len(b.nodes))
	b.nodes = append(b.nodes, Node{})
	refs, err := b.subdivide(nodeIdx, idx, 0)
	if err != nil {
		return nil, err
	}

	b.logger.Debugf(
		"bvh build: variant=%s time=%dms nodes=%d leafs=%d maxDepth=%d refs=%d primitives=%d",
		variantName(sbvh), time.Since(start).Milliseconds(), b.stats.nodes, b.stats.leafs, b.stats.maxDepth, refs, len(triangles),
	)

	return &Tree{
		Primitives: triangles,
		Nodes:      b.nodes,
		Indices:    b.indices,
		LeafTotal:  uint32(refs),
		IsSBVH:     sbvh,
	}, nil
}

func variantName(sbvh bool) string {
	if sbvh {
		return "sbvh"
	}
	return "bvh"
}

// initialSort establishes the three-axis sorted-by-centroid invariant
// required at construction start.
func (b *builder) initialSort() axisIndices {
	n := len(b.tris)
	mk := func(axis int) []uint32 {
		ids := make([]uint32, n)
		for i := range ids {
			ids[i] = uint32(i)
		}
		sort.SliceStable(ids, func(i, j int) bool {
			return b.tris[ids[i]].Centroid(axis) < b.tris[ids[j]].Centroid(axis)
		})
		return ids
	}
	return axisIndices{X: mk(0), Y: mk(1), Z: mk(2)}
}

// subdivide implements the recursive builder control flow,
// writing into the pre-reserved node slot at nodeIdx and returning the
// number of references its subtree placed into b.indices.
func (b *builder) subdivide(nodeIdx uint32, idx axisIndices, depth int) (int, error) {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}
	n := idx.Len()

	bounds := geom.EmptyAABB()
	for _, id := range idx.X {
		bounds = bounds.Expand(b.tris[id].BBox)
	}
	bounds = bounds.Pad()

	if n < 3 || n <= b.config.LeafThreshold {
		return b.emitLeaf(nodeIdx, idx, bounds, depth)
	}
	if depth >= maxTraversalDepth-1 {
		return b.emitLeaf(nodeIdx, idx, bounds, depth)
	}

	leafCost := bounds.SurfaceArea() * float32(n)

	objSplit, objOK := bestObjectSplit(b.tris, idx)
	bestCost := leafCost
	useSpatial := false
	if objOK {
		bestCost = objSplit.Cost
	}

	var spSplit spatialSplit
	if b.isSBVH && objOK {
		lambda := geom.Overlap(objSplit.Left, objSplit.Right).SurfaceArea()
		if b.rootSA > 0 && lambda/b.rootSA > b.config.SpatialSplitAlpha {
			if s, ok := bestSpatialSplit(b.tris, idx.X, bounds, b.config.SpatialBinCount); ok && s.Cost < bestCost {
				spSplit = s
				bestCost = s.Cost
				useSpatial = true
			}
		}
	}

	if !objOK || bestCost >= leafCost {
		return b.emitLeaf(nodeIdx, idx, bounds, depth)
	}

	var left, right axisIndices
	var axis Axis
	if useSpatial {
		var leftBounds, rightBounds geom.AABB
		left, right, leftBounds, rightBounds, _ = partitionSpatialSplit(b.tris, idx, spSplit)
		if left.Len() == 0 || right.Len() == 0 {
			return b.emitLeaf(nodeIdx, idx, bounds, depth)
		}
		axis = Axis(spSplit.Axis + 1)
		bounds = leftBounds.Expand(rightBounds).Pad()
	} else {
		left, right = partitionObjectSplit(idx, objSplit)
		axis = Axis(objSplit.Axis + 1)
	}

	if len(b.nodes) == 1 {
		// Burn the reserved sibling slot of the root: the
		// first real child pair starts at index 2, never at index 1.
		b.nodes = append(b.nodes, Node{})
	}
	leftIdx := uint32(len(b.nodes))
	b.nodes = append(b.nodes, Node{}, Node{})

	b.nodes[nodeIdx].AABB = bounds
	b.nodes[nodeIdx].SetInner(axis, leftIdx)
	b.stats.nodes++

	leftRefs, err := b.subdivide(leftIdx, left, depth+1)
	if err != nil {
		return 0, err
	}
	rightRefs, err := b.subdivide(leftIdx+1, right, depth+1)
	if err != nil {
		return 0, err
	}

	return leftRefs + rightRefs, nil
}

// emitLeaf writes idx's references into b.indices and checks the true
// running total against indexBound right at the point that total grows,
// rather than reconstructing it from partial per-call sums: duplication
// from spatial splits can be spread arbitrarily across sibling subtrees,
// so only the cumulative len(b.indices) after every append reflects the
// actual overallocation the pool_size bound is meant to catch.
func (b *builder) emitLeaf(nodeIdx uint32, idx axisIndices, bounds geom.AABB, depth int) (int, error) {
	first := uint32(len(b.indices))
	b.indices = append(b.indices, idx.X...)
	b.nodes[nodeIdx].AABB = bounds
	b.nodes[nodeIdx].SetLeaf(first, uint32(idx.Len()))
	b.stats.leafs++
	if b.isSBVH && len(b.indices) > b.indexBound {
		return 0, &poolExhaustedError{depth: depth, refsBuilt: len(b.indices), bound: b.indexBound}
	}
	return idx.Len(), nil
}
