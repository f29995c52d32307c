// Package simd provides a lane-width-parameterised packet type for
// float32/int32 SIMD-style arithmetic, following the scalar-fallback
// design used throughout the Go SIMD-abstraction corpus: every operation
// has a pure Go, per-lane implementation that is correct at any width,
// and is the reference the wider widths must agree with.
package simd

import "math"

// Float is a packet of Width float32 lanes.
type Float struct {
	v [Width]float32
}

// Splat returns a packet with every lane set to x.
func Splat(x float32) Float {
	var f Float
	for i := range f.v {
		f.v[i] = x
	}
	return f
}

// Zero returns the zero packet.
func Zero() Float { return Float{} }

// LoadFloat builds a packet from a slice, zero-padding short input.
func LoadFloat(src []float32) Float {
	var f Float
	n := len(src)
	if n > Width {
		n = Width
	}
	copy(f.v[:n], src[:n])
	return f
}

// Store writes the packet's lanes into dst.
func (f Float) Store(dst []float32) {
	n := len(dst)
	if n > Width {
		n = Width
	}
	copy(dst[:n], f.v[:n])
}

// Lane returns the value of lane i.
func (f Float) Lane(i int) float32 { return f.v[i] }

// WithLane returns a copy of f with lane i set to x.
func (f Float) WithLane(i int, x float32) Float {
	f.v[i] = x
	return f
}

func (a Float) Add(b Float) Float { return apply2(a, b, func(x, y float32) float32 { return x + y }) }
func (a Float) Sub(b Float) Float { return apply2(a, b, func(x, y float32) float32 { return x - y }) }
func (a Float) Mul(b Float) Float { return apply2(a, b, func(x, y float32) float32 { return x * y }) }
func (a Float) Div(b Float) Float { return apply2(a, b, func(x, y float32) float32 { return x / y }) }

func (a Float) Min(b Float) Float {
	return apply2(a, b, func(x, y float32) float32 {
		if x < y {
			return x
		}
		return y
	})
}

func (a Float) Max(b Float) Float {
	return apply2(a, b, func(x, y float32) float32 {
		if x > y {
			return x
		}
		return y
	})
}

func (a Float) Sqrt() Float  { return apply1(a, func(x float32) float32 { return float32(math.Sqrt(float64(x))) }) }
func (a Float) Rsqrt() Float { return apply1(a, func(x float32) float32 { return 1 / float32(math.Sqrt(float64(x))) }) }
func (a Float) Rcp() Float   { return apply1(a, func(x float32) float32 { return 1 / x }) }
func (a Float) Floor() Float { return apply1(a, func(x float32) float32 { return float32(math.Floor(float64(x))) }) }
func (a Float) Ceil() Float  { return apply1(a, func(x float32) float32 { return float32(math.Ceil(float64(x))) }) }
func (a Float) Neg() Float   { return apply1(a, func(x float32) float32 { return -x }) }
func (a Float) Abs() Float   { return apply1(a, func(x float32) float32 { return float32(math.Abs(float64(x))) }) }

func (a Float) Mod(b Float) Float {
	return apply2(a, b, func(x, y float32) float32 { return float32(math.Mod(float64(x), float64(y))) })
}

func (a Float) Clamp(lo, hi Float) Float {
	return a.Max(lo).Min(hi)
}

func (a Float) Sin() Float   { return apply1(a, func(x float32) float32 { return float32(math.Sin(float64(x))) }) }
func (a Float) Cos() Float   { return apply1(a, func(x float32) float32 { return float32(math.Cos(float64(x))) }) }
func (a Float) Tan() Float   { return apply1(a, func(x float32) float32 { return float32(math.Tan(float64(x))) }) }
func (a Float) Asin() Float  { return apply1(a, func(x float32) float32 { return float32(math.Asin(float64(x))) }) }
func (a Float) Acos() Float  { return apply1(a, func(x float32) float32 { return float32(math.Acos(float64(x))) }) }
func (a Float) Atan() Float  { return apply1(a, func(x float32) float32 { return float32(math.Atan(float64(x))) }) }
func (a Float) Exp() Float   { return apply1(a, func(x float32) float32 { return float32(math.Exp(float64(x))) }) }

func (a Float) Atan2(b Float) Float {
	return apply2(a, b, func(x, y float32) float32 { return float32(math.Atan2(float64(x), float64(y))) })
}

// Madd computes a*b + c (fused multiply-add).
func Madd(a, b, c Float) Float {
	var out Float
	for i := range out.v {
		out.v[i] = a.v[i]*b.v[i] + c.v[i]
	}
	return out
}

// Msub computes a*b - c.
func Msub(a, b, c Float) Float {
	var out Float
	for i := range out.v {
		out.v[i] = a.v[i]*b.v[i] - c.v[i]
	}
	return out
}

// Blend selects, per lane, fromTrue[i] when mask lane i is active,
// otherwise fromFalse[i].
func Blend(fromFalse, fromTrue Float, mask Mask) Float {
	var out Float
	for i := range out.v {
		if mask.Lane(i) {
			out.v[i] = fromTrue.v[i]
		} else {
			out.v[i] = fromFalse.v[i]
		}
	}
	return out
}

func (a Float) Equal(b Float) Mask        { return cmp(a, b, func(x, y float32) bool { return x == y }) }
func (a Float) NotEqual(b Float) Mask     { return cmp(a, b, func(x, y float32) bool { return x != y }) }
func (a Float) LessThan(b Float) Mask     { return cmp(a, b, func(x, y float32) bool { return x < y }) }
func (a Float) LessEqual(b Float) Mask    { return cmp(a, b, func(x, y float32) bool { return x <= y }) }
func (a Float) GreaterThan(b Float) Mask  { return cmp(a, b, func(x, y float32) bool { return x > y }) }
func (a Float) GreaterEqual(b Float) Mask { return cmp(a, b, func(x, y float32) bool { return x >= y }) }

func apply1(a Float, f func(float32) float32) Float {
	var out Float
	for i := range out.v {
		out.v[i] = f(a.v[i])
	}
	return out
}

func apply2(a, b Float, f func(x, y float32) float32) Float {
	var out Float
	for i := range out.v {
		out.v[i] = f(a.v[i], b.v[i])
	}
	return out
}

func cmp(a, b Float, f func(x, y float32) bool) Mask {
	var bits uint8
	for i := range a.v {
		if f(a.v[i], b.v[i]) {
			bits |= 1 << uint(i)
		}
	}
	return MaskFromBits(bits)
}
