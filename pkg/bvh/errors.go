package bvh

import (
	"errors"
	"fmt"
)

// Error taxonomy. Build and deserialize return these to their
// caller; traversal never returns an error for well-formed input.
var (
	ErrEmptyInput         = errors.New("bvh: build called with zero primitives")
	ErrPoolExhausted      = errors.New("bvh: spatial-split duplication exceeded the index overallocation bound")
	ErrDegenerateGeometry = errors.New("bvh: degenerate triangle reached the SAH routines")
	ErrStackOverflow      = errors.New("bvh: traversal attempted to push past the explicit stack capacity")
	ErrIOFailure          = errors.New("bvh: serialization i/o failed")
	ErrVersionMismatch    = errors.New("bvh: serialized primitive_count/node_count is implausible")
)

// poolExhaustedError reports the depth/count reached when the SBVH index
// overallocation bound was exceeded.
type poolExhaustedError struct {
	depth     int
	refsBuilt int
	bound     int
}

func (e *poolExhaustedError) Error() string {
	return fmt.Sprintf("%s: depth=%d refs=%d bound=%d", ErrPoolExhausted, e.depth, e.refsBuilt, e.bound)
}

func (e *poolExhaustedError) Unwrap() error { return ErrPoolExhausted }
