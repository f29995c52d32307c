package geom

import "github.com/lattice-rt/bvhcore/pkg/simd"

// Epsilon is the minimum accepted hit distance, rejecting self-intersection
// at the origin.
const Epsilon float32 = 1e-3

// IntersectTrianglePacket runs a packetised Möller–Trumbore test of tri
// against ray, blending the nearest surviving hit into hit per lane. It
// never looks at lanes whose current hit.Distance is already closer than
// the candidate, so repeated tests of the same triangle from multiple
// SBVH leaves are idempotent.
func IntersectTrianglePacket(tri *Triangle, ray RayPacket, hit *RayHit) {
	p0 := simd.SplatVec3(tri.P0[0], tri.P0[1], tri.P0[2])
	e1 := simd.SplatVec3(tri.P1[0]-tri.P0[0], tri.P1[1]-tri.P0[1], tri.P1[2]-tri.P0[2])
	e2 := simd.SplatVec3(tri.P2[0]-tri.P0[0], tri.P2[1]-tri.P0[1], tri.P2[2]-tri.P0[2])

	h := ray.Direction.Cross(e2)
	a := e1.Dot(h)

	// Lanes with a == 0 are parallel to the triangle plane; they compute
	// f from a stand-in of 1 to avoid dividing by zero and are masked out
	// of valid below, so every lane runs the same arithmetic.
	zero := a.Equal(simd.Splat(0))
	safeA := simd.Blend(a, simd.Splat(1), zero)
	f := safeA.Rcp()

	s := ray.Origin.Sub(p0)
	u := f.Mul(s.Dot(h))

	q := s.Cross(e1)
	v := f.Mul(ray.Direction.Dot(q))

	t := f.Mul(e2.Dot(q))

	valid := zero.Not()
	valid = valid.And(u.GreaterThan(simd.Splat(0))).And(u.LessThan(simd.Splat(1)))
	valid = valid.And(v.GreaterThan(simd.Splat(0)))
	valid = valid.And(u.Add(v).LessThan(simd.Splat(1)))
	valid = valid.And(t.GreaterThan(simd.Splat(Epsilon)))
	valid = valid.And(t.LessThan(hit.Distance))

	if valid.AllFalse() {
		return
	}

	point := simd.MaddVec3(ray.Direction, t, ray.Origin)
	n0 := simd.SplatVec3(tri.Normal0[0], tri.Normal0[1], tri.Normal0[2])
	n1 := simd.SplatVec3(tri.Normal1[0], tri.Normal1[1], tri.Normal1[2])
	n2 := simd.SplatVec3(tri.Normal2[0], tri.Normal2[1], tri.Normal2[2])
	normal := n0.Add(simd.MaddVec3(n1.Sub(n0), u, n2.Sub(n0).MulScalar(v))).Normalize()

	hit.Distance = simd.Blend(hit.Distance, t, valid)
	hit.Point = simd.BlendVec3(hit.Point, point, valid)
	hit.Normal = simd.BlendVec3(hit.Normal, normal, valid)
	hit.U = simd.Blend(hit.U, u, valid)
	hit.V = simd.Blend(hit.V, v, valid)
	hit.Material = simd.BlendInt(hit.Material, simd.SplatInt(tri.MaterialID), valid)
	hit.HitMask = hit.HitMask.Or(valid)
}

// IntersectTriangleAny is the occlusion variant: it only needs to know
// whether a lane finds any triangle within [Epsilon, maxDistance), and
// never records surface attributes.
func IntersectTriangleAny(tri *Triangle, ray RayPacket, maxDist simd.Float) simd.Mask {
	p0 := simd.SplatVec3(tri.P0[0], tri.P0[1], tri.P0[2])
	e1 := simd.SplatVec3(tri.P1[0]-tri.P0[0], tri.P1[1]-tri.P0[1], tri.P1[2]-tri.P0[2])
	e2 := simd.SplatVec3(tri.P2[0]-tri.P0[0], tri.P2[1]-tri.P0[1], tri.P2[2]-tri.P0[2])

	h := ray.Direction.Cross(e2)
	a := e1.Dot(h)
	zero := a.Equal(simd.Splat(0))
	safeA := simd.Blend(a, simd.Splat(1), zero)
	f := safeA.Rcp()

	s := ray.Origin.Sub(p0)
	u := f.Mul(s.Dot(h))

	q := s.Cross(e1)
	v := f.Mul(ray.Direction.Dot(q))
	t := f.Mul(e2.Dot(q))

	valid := zero.Not()
	valid = valid.And(u.GreaterThan(simd.Splat(0))).And(u.LessThan(simd.Splat(1)))
	valid = valid.And(v.GreaterThan(simd.Splat(0)))
	valid = valid.And(u.Add(v).LessThan(simd.Splat(1)))
	valid = valid.And(t.GreaterThan(simd.Splat(Epsilon)))
	valid = valid.And(t.LessThan(maxDist))
	return valid
}
