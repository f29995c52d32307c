package geom

import "github.com/lattice-rt/bvhcore/pkg/simd"

// RayPacket is simd.Width rays processed together.
type RayPacket struct {
	Origin    simd.Vec3
	Direction simd.Vec3
}

// InvDirection returns 1/Direction per lane, computed once per traversal
// so that slab tests along every node only need a multiply.
func (r RayPacket) InvDirection() simd.Vec3 {
	return r.Direction.Rcp()
}

// RayHit accumulates the closest-hit result for a ray packet, blended in
// per lane as traversal proceeds.
type RayHit struct {
	HitMask  simd.Mask
	Distance simd.Float
	Point    simd.Vec3
	Normal   simd.Vec3
	Material simd.Int
	U, V     simd.Float
}

// NewRayHit returns a RayHit initialised to "nothing hit yet": distance
// +Inf, hit mask all-false.
func NewRayHit() RayHit {
	return RayHit{
		Distance: simd.Splat(maxDistance),
		Material: simd.SplatInt(-1),
	}
}

// maxDistance stands in for +Inf: large enough that no real scene
// geometry reaches it, but finite so slab/triangle arithmetic never
// has to reason about actual infinities.
const maxDistance float32 = 1e30
