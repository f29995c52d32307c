//go:build lanes1

package simd

// Width is 1 lane wide: the scalar reference configuration. Every other
// packet width must agree with this one on every test in the suite.
const Width = 1
