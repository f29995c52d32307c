package bvh

// TraversalStrategy selects how the tree is walked. BruteForce and Naive
// exist for testing the Ordered strategy against; production
// callers should use Ordered.
type TraversalStrategy int

const (
	// Ordered visits the near child before the far child, based on the
	// ray direction's sign along the split axis, and is the only
	// strategy that benefits from early-out pruning.
	Ordered TraversalStrategy = iota
	// Naive always visits the left child before the right child,
	// regardless of ray direction.
	Naive
	// BruteForce tests every leaf's triangles without using the tree's
	// AABBs to prune at all; only useful to validate closest-hit
	// agreement in tests.
	BruteForce
)

// Config holds the build-time tunables.
type Config struct {
	// SpatialSplitAlpha gates when a spatial split is evaluated at all:
	// evaluated only when the object split's overlap surface area,
	// relative to the root's surface area, exceeds this threshold.
	// Set to 1.0 to disable spatial splits outright.
	SpatialSplitAlpha float32

	// SpatialBinCount is the number of uniform bins used for Chopped
	// Binned spatial splits; must be >= 4.
	SpatialBinCount int

	// LeafThreshold is the minimum reference count considered for
	// splitting; ranges at or below it always become leaves.
	LeafThreshold int

	// TraversalStrategy records a traversal strategy; default Ordered.
	// Neither the builder nor the query functions read it: QueryClosest
	// takes its strategy as an argument and QueryAny always visits the
	// near child first.
	TraversalStrategy TraversalStrategy
}

// DefaultConfig returns the tunable defaults.
func DefaultConfig() Config {
	return Config{
		SpatialSplitAlpha: 1e-4,
		SpatialBinCount:   100,
		LeafThreshold:     3,
		TraversalStrategy: Ordered,
	}
}
