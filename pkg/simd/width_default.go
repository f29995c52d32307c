//go:build !lanes1 && !lanes4

package simd

// Width is the SIMD packet width, in lanes, used by every packet type in
// this package. It is a compile-time constant: retarget the whole core to
// a narrower packet by building with -tags lanes1 or -tags lanes4 (see
// width_l1.go, width_l4.go). Nothing outside this package depends on the
// concrete value.
const Width = 8
