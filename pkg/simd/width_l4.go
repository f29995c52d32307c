//go:build lanes4 && !lanes1

package simd

// Width is 4 lanes wide; see width_default.go.
const Width = 4
