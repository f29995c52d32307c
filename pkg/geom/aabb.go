// Package geom implements the scalar geometry primitives,
// AABB and ray/triangle intersection routines that the
// BVH builder and traversal in pkg/bvh operate over.
package geom

import (
	"math"

	"golang.org/x/image/math/f32"

	"github.com/lattice-rt/bvhcore/pkg/simd"
)

// Vec3 is the scalar (non-packetized) 3-component position/normal type:
// triangle vertices, AABB corners, and the handful of per-triangle math
// that runs once per primitive rather than once per ray-packet lane.
// Backed by the same layout a scalar position/normal vector needs.
type Vec3 = f32.Vec3

// MinPad is the minimum extent enforced along every axis after a build,
// so that a degenerate (zero-thickness) box never destabilises the slab
// test.
const MinPad float32 = 1e-3

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns an AABB in the canonical "empty" state: Min = +Inf,
// Max = -Inf componentwise, so that Expand always wins the first time.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// FromPoints builds an AABB enclosing the given points.
func FromPoints(points ...Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.ExpandPoint(p)
	}
	return b
}

// ExpandPoint returns a box extended to contain p.
func (b AABB) ExpandPoint(p Vec3) AABB {
	for d := 0; d < 3; d++ {
		if p[d] < b.Min[d] {
			b.Min[d] = p[d]
		}
		if p[d] > b.Max[d] {
			b.Max[d] = p[d]
		}
	}
	return b
}

// Expand returns a box extended to contain o.
func (b AABB) Expand(o AABB) AABB {
	return b.ExpandPoint(o.Min).ExpandPoint(o.Max)
}

// IsValid reports whether min <= max on every axis.
func (b AABB) IsValid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// SurfaceArea returns 2*(dx*dy + dy*dz + dx*dz), or 0 for an invalid box.
func (b AABB) SurfaceArea() float32 {
	if !b.IsValid() {
		return 0
	}
	d := [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// Overlap returns the intersection box of a and b. Callers must check
// IsValid before trusting the result.
func Overlap(a, b AABB) AABB {
	var out AABB
	for d := 0; d < 3; d++ {
		out.Min[d] = max32(a.Min[d], b.Min[d])
		out.Max[d] = min32(a.Max[d], b.Max[d])
	}
	return out
}

// Pad ensures every axis has at least MinPad extent, growing a thinner
// axis symmetrically. Triangle and node bounds are padded as they are
// built.
func (b AABB) Pad() AABB {
	for d := 0; d < 3; d++ {
		extent := b.Max[d] - b.Min[d]
		if extent < MinPad {
			grow := (MinPad - extent) / 2
			b.Min[d] -= grow
			b.Max[d] += grow
		}
	}
	return b
}

// Center returns the box's midpoint.
func (b AABB) Center() Vec3 {
	return Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// IntersectPacket runs the SIMD slab test against a packet of rays,
// producing a lane mask of rays that hit the box within [0, tMax).
//
// Per-axis: t1 = (min-o)*rd, t2 = (max-o)*rd, tNear = max(tNear, min(t1,t2)),
// tFar = min(tFar, max(t1,t2)). A lane hits iff tNear <= tFar, tFar >= 0 and
// tNear < tMax. rd is caller-supplied as 1/direction so that a
// zero-component direction yields ±Inf rather than a NaN.
func (b AABB) IntersectPacket(origin, invDir simd.Vec3, tMax simd.Float) simd.Mask {
	min := simd.SplatVec3(b.Min[0], b.Min[1], b.Min[2])
	max := simd.SplatVec3(b.Max[0], b.Max[1], b.Max[2])

	tNear := simd.Splat(-math.MaxFloat32)
	tFar := simd.Splat(math.MaxFloat32)

	tNear, tFar = slabAxis(min.X, max.X, origin.X, invDir.X, tNear, tFar)
	tNear, tFar = slabAxis(min.Y, max.Y, origin.Y, invDir.Y, tNear, tFar)
	tNear, tFar = slabAxis(min.Z, max.Z, origin.Z, invDir.Z, tNear, tFar)

	hit := tNear.LessEqual(tFar)
	hit = hit.And(tFar.GreaterEqual(simd.Splat(0)))
	hit = hit.And(tNear.LessThan(tMax))
	return hit
}

func slabAxis(axisMin, axisMax, origin, invDir, tNear, tFar simd.Float) (simd.Float, simd.Float) {
	t1 := axisMin.Sub(origin).Mul(invDir)
	t2 := axisMax.Sub(origin).Mul(invDir)
	tNear = tNear.Max(t1.Min(t2))
	tFar = tFar.Min(t1.Max(t2))
	return tNear, tFar
}
