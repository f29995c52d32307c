package topo

import (
	"github.com/lattice-rt/bvhcore/pkg/bvh"
	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

// Instance is a mesh instance capability: a bottom-level tree placed into
// the scene by a world transform. It implements the Primitive shape the
// top-level tree's traversal dispatches to — trace/intersect taking a
// ray packet in world space and handling the local-frame transform and
// material-id remap internally.
type Instance struct {
	Bottom         *bvh.Tree
	WorldToLocal   Mat4
	LocalToWorld   Mat4
	MaterialOffset int32
	Bounds         geom.AABB // bottom tree's root AABB, transformed into world space
}

// NewInstance derives an Instance's world-space bounds from its bottom
// tree and placement, given the already-inverted local transform (see
// Mat4.RigidInverse).
func NewInstance(bottom *bvh.Tree, worldToLocal, localToWorld Mat4, materialOffset int32) Instance {
	inst := Instance{
		Bottom:         bottom,
		WorldToLocal:   worldToLocal,
		LocalToWorld:   localToWorld,
		MaterialOffset: materialOffset,
	}
	inst.Bounds = worldBounds(bottom.Root().AABB, localToWorld)
	return inst
}

func worldBounds(local geom.AABB, localToWorld Mat4) geom.AABB {
	corners := [8][3]float32{
		{local.Min[0], local.Min[1], local.Min[2]},
		{local.Max[0], local.Min[1], local.Min[2]},
		{local.Min[0], local.Max[1], local.Min[2]},
		{local.Max[0], local.Max[1], local.Min[2]},
		{local.Min[0], local.Min[1], local.Max[2]},
		{local.Max[0], local.Min[1], local.Max[2]},
		{local.Min[0], local.Max[1], local.Max[2]},
		{local.Max[0], local.Max[1], local.Max[2]},
	}
	box := geom.EmptyAABB()
	for _, c := range corners {
		box = box.ExpandPoint(localToWorld.TransformPoint(c))
	}
	return box.Pad()
}

// Trace transforms ray into the instance's local frame, queries the
// bottom tree for the closest hit, then transforms the surviving hit's
// point/normal back into world space and remaps its material id.
func (inst *Instance) Trace(ray geom.RayPacket, hit *geom.RayHit, strategy bvh.TraversalStrategy) {
	localRay := inst.toLocal(ray)
	localHit := geom.NewRayHit()
	localHit.Distance = hit.Distance // preserve the caller's current best per lane

	bvh.QueryClosest(inst.Bottom, localRay, &localHit, strategy)

	closer := localHit.Distance.LessThan(hit.Distance).And(localHit.HitMask)
	if closer.AllFalse() {
		return
	}

	worldPoint := transformVec3(localHit.Point, inst.LocalToWorld.TransformPoint)
	worldNormal := transformVec3(localHit.Normal, inst.LocalToWorld.TransformDirection)
	material := localHit.Material.Add(simd.SplatInt(inst.MaterialOffset))

	hit.HitMask = hit.HitMask.Or(closer)
	hit.Distance = simd.Blend(hit.Distance, localHit.Distance, closer)
	hit.Point = simd.BlendVec3(hit.Point, worldPoint, closer)
	hit.Normal = simd.BlendVec3(hit.Normal, worldNormal, closer)
	hit.Material = simd.BlendInt(hit.Material, material, closer)
	hit.U = simd.Blend(hit.U, localHit.U, closer)
	hit.V = simd.Blend(hit.V, localHit.V, closer)
}

// Intersect transforms ray into local space and returns the per-lane
// occlusion mask from the bottom tree, without any attribute blending.
func (inst *Instance) Intersect(ray geom.RayPacket, maxDistance float32) simd.Mask {
	localRay := inst.toLocal(ray)
	return bvh.QueryAny(inst.Bottom, localRay, maxDistance)
}

func (inst *Instance) toLocal(ray geom.RayPacket) geom.RayPacket {
	return geom.RayPacket{
		Origin:    transformVec3(ray.Origin, inst.WorldToLocal.TransformPoint),
		Direction: transformVec3(ray.Direction, inst.WorldToLocal.TransformDirection),
	}
}

func transformVec3(v simd.Vec3, f func([3]float32) [3]float32) simd.Vec3 {
	var out simd.Vec3
	for i := 0; i < simd.Width; i++ {
		out = out.WithLane(i, f(v.Lane(i)))
	}
	return out
}
