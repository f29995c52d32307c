package topo

import (
	"testing"

	"github.com/lattice-rt/bvhcore/pkg/bvh"
	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

func cube(c [3]float32, h float32, materialID int32) []geom.Triangle {
	v := func(x, y, z float32) [3]float32 {
		return [3]float32{c[0] + x*h, c[1] + y*h, c[2] + z*h}
	}
	type quad struct{ a, b, c, d [3]float32 }
	quads := []quad{
		{v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1)},
		{v(1, -1, -1), v(-1, -1, -1), v(-1, 1, -1), v(1, 1, -1)},
		{v(1, -1, 1), v(1, -1, -1), v(1, 1, -1), v(1, 1, 1)},
		{v(-1, -1, -1), v(-1, -1, 1), v(-1, 1, 1), v(-1, 1, -1)},
		{v(-1, 1, 1), v(1, 1, 1), v(1, 1, -1), v(-1, 1, -1)},
		{v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)},
	}
	var tris []geom.Triangle
	for _, q := range quads {
		tris = append(tris, geom.NewTriangle(q.a, q.b, q.c, materialID))
		tris = append(tris, geom.NewTriangle(q.a, q.c, q.d, materialID))
	}
	return tris
}

func TestInstanceTraceTranslatesHitIntoWorldSpace(t *testing.T) {
	bottom, err := bvh.Build(cube([3]float32{0, 0, 0}, 1, 5))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Place the unit cube at world position (10, 0, 0).
	localToWorld := Translate(10, 0, 0)
	worldToLocal := localToWorld.RigidInverse()
	inst := NewInstance(bottom, worldToLocal, localToWorld, 100)

	ray := geom.RayPacket{
		Origin:    simd.SplatVec3(15, 0, 0),
		Direction: simd.SplatVec3(-1, 0, 0),
	}
	hit := geom.NewRayHit()
	inst.Trace(ray, &hit, bvh.Ordered)

	if !hit.HitMask.Lane(0) {
		t.Fatalf("expected a hit")
	}
	if d := hit.Distance.Lane(0); absf(d-4.0) > 1e-3 {
		t.Fatalf("distance = %f, want 4.0", d)
	}
	if m := hit.Material.Lane(0); m != 105 {
		t.Fatalf("material = %d, want 105 (5 + offset 100)", m)
	}
	p := hit.Point.Lane(0)
	if absf(p[0]-11) > 1e-3 {
		t.Fatalf("world hit point x = %f, want 11", p[0])
	}
}

func TestSceneQueryClosestPicksNearerInstance(t *testing.T) {
	bottom, err := bvh.Build(cube([3]float32{0, 0, 0}, 1, 0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	near := Translate(5, 0, 0)
	far := Translate(20, 0, 0)
	instances := []Instance{
		NewInstance(bottom, near.RigidInverse(), near, 1),
		NewInstance(bottom, far.RigidInverse(), far, 2),
	}
	scene, err := BuildScene(instances)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}

	ray := geom.RayPacket{
		Origin:    simd.SplatVec3(0, 0, 0),
		Direction: simd.SplatVec3(1, 0, 0),
	}
	hit := geom.NewRayHit()
	scene.QueryClosest(ray, &hit, bvh.Ordered)

	if !hit.HitMask.Lane(0) {
		t.Fatalf("expected a hit")
	}
	if m := hit.Material.Lane(0); m != 1 {
		t.Fatalf("material = %d, want 1 (nearer instance)", m)
	}
}

func TestSceneQueryAnyOcclusion(t *testing.T) {
	bottom, err := bvh.Build(cube([3]float32{0, 0, 0}, 1, 0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	world := Translate(5, 0, 0)
	instances := []Instance{NewInstance(bottom, world.RigidInverse(), world, 0)}
	scene, err := BuildScene(instances)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}

	ray := geom.RayPacket{
		Origin:    simd.SplatVec3(0, 0, 0),
		Direction: simd.SplatVec3(1, 0, 0),
	}
	if mask := scene.QueryAny(ray, 3); mask.Lane(0) {
		t.Fatalf("expected a miss within max distance 3 (instance is 4 units away)")
	}
	if mask := scene.QueryAny(ray, 10); !mask.Lane(0) {
		t.Fatalf("expected a hit within max distance 10")
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
