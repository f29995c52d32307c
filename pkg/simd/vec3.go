package simd

// Vec3 is a three-dimensional vector of Float packets: X, Y and Z each
// carry one scalar per lane, so a Vec3 represents Width 3-vectors (e.g.
// Width ray origins or directions) processed together.
type Vec3 struct {
	X, Y, Z Float
}

// SplatVec3 broadcasts a single scalar 3-vector across all lanes.
func SplatVec3(x, y, z float32) Vec3 {
	return Vec3{X: Splat(x), Y: Splat(y), Z: Splat(z)}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{X: a.X.Add(b.X), Y: a.Y.Add(b.Y), Z: a.Z.Add(b.Z)}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{X: a.X.Sub(b.X), Y: a.Y.Sub(b.Y), Z: a.Z.Sub(b.Z)}
}

func (a Vec3) MulScalar(s Float) Vec3 {
	return Vec3{X: a.X.Mul(s), Y: a.Y.Mul(s), Z: a.Z.Mul(s)}
}

func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{X: a.X.Min(b.X), Y: a.Y.Min(b.Y), Z: a.Z.Min(b.Z)}
}

func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{X: a.X.Max(b.X), Y: a.Y.Max(b.Y), Z: a.Z.Max(b.Z)}
}

func (a Vec3) Rcp() Vec3 {
	return Vec3{X: a.X.Rcp(), Y: a.Y.Rcp(), Z: a.Z.Rcp()}
}

// Dot returns the per-lane dot product as a Float packet.
func (a Vec3) Dot(b Vec3) Float {
	return Madd(a.X, b.X, Madd(a.Y, b.Y, a.Z.Mul(b.Z)))
}

// Cross returns the per-lane cross product.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: Msub(a.Y, b.Z, a.Z.Mul(b.Y)),
		Y: Msub(a.Z, b.X, a.X.Mul(b.Z)),
		Z: Msub(a.X, b.Y, a.Y.Mul(b.X)),
	}
}

// Length returns the per-lane vector length.
func (a Vec3) Length() Float {
	return a.Dot(a).Sqrt()
}

// Normalize returns the per-lane unit vector; lanes with near-zero length
// are left as the zero vector rather than producing NaNs.
func (a Vec3) Normalize() Vec3 {
	lenSq := a.Dot(a)
	zeroMask := lenSq.LessThan(Splat(1e-20))
	invLen := lenSq.Rsqrt()
	n := a.MulScalar(invLen)
	zero := Vec3{}
	return Vec3{
		X: Blend(n.X, zero.X, zeroMask),
		Y: Blend(n.Y, zero.Y, zeroMask),
		Z: Blend(n.Z, zero.Z, zeroMask),
	}
}

// MaddVec3 computes a*b + c component-wise, b a per-lane scalar.
func MaddVec3(a Vec3, b Float, c Vec3) Vec3 {
	return Vec3{X: Madd(a.X, b, c.X), Y: Madd(a.Y, b, c.Y), Z: Madd(a.Z, b, c.Z)}
}

// MsubVec3 computes a*b - c component-wise, b a per-lane scalar.
func MsubVec3(a Vec3, b Float, c Vec3) Vec3 {
	return Vec3{X: Msub(a.X, b, c.X), Y: Msub(a.Y, b, c.Y), Z: Msub(a.Z, b, c.Z)}
}

// BlendVec3 selects, per lane, fromTrue when mask lane i is active.
func BlendVec3(fromFalse, fromTrue Vec3, mask Mask) Vec3 {
	return Vec3{
		X: Blend(fromFalse.X, fromTrue.X, mask),
		Y: Blend(fromFalse.Y, fromTrue.Y, mask),
		Z: Blend(fromFalse.Z, fromTrue.Z, mask),
	}
}

// Lane returns the scalar 3-vector carried in lane i.
func (a Vec3) Lane(i int) [3]float32 {
	return [3]float32{a.X.Lane(i), a.Y.Lane(i), a.Z.Lane(i)}
}

// WithLane sets lane i to the given scalar 3-vector.
func (a Vec3) WithLane(i int, v [3]float32) Vec3 {
	a.X = a.X.WithLane(i, v[0])
	a.Y = a.Y.WithLane(i, v[1])
	a.Z = a.Z.WithLane(i, v[2])
	return a
}
