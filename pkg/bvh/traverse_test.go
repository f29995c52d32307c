package bvh

import (
	"testing"

	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

func TestQueryAnyOcclusion(t *testing.T) {
	// A triangle at z=0; lane 0 originates at z=1 moving +z (away from
	// the triangle, should miss); lane 1 originates at z=-1 moving +z
	// (toward the triangle, should hit within max=2).
	tri := geom.NewTriangle(
		[3]float32{-5, -5, 0},
		[3]float32{5, -5, 0},
		[3]float32{0, 5, 0},
		0,
	)
	tree, err := Build([]geom.Triangle{tri})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	origin := simd.SplatVec3(0, 0, 1).WithLane(1, [3]float32{0, 0, -1})
	ray := geom.RayPacket{
		Origin:    origin,
		Direction: simd.SplatVec3(0, 0, 1),
	}
	mask := QueryAny(tree, ray, 2)

	if mask.Lane(0) {
		t.Fatalf("lane 0 (moving away from the triangle) should miss")
	}
	if !mask.Lane(1) {
		t.Fatalf("lane 1 (moving toward the triangle) should hit")
	}
}

func TestQueryClosestOrderingInvariant(t *testing.T) {
	tris := cubeTriangles([3]float32{0, 0, 0}, 1, 3)
	tree, err := Build(tris)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray := geom.RayPacket{
		Origin:    simd.SplatVec3(5, 0.3, -0.2),
		Direction: simd.SplatVec3(-1, 0, 0),
	}

	hOrdered := geom.NewRayHit()
	QueryClosest(tree, ray, &hOrdered, Ordered)
	hNaive := geom.NewRayHit()
	QueryClosest(tree, ray, &hNaive, Naive)
	hBrute := geom.NewRayHit()
	QueryClosest(tree, ray, &hBrute, BruteForce)

	if hOrdered.Material.Lane(0) != hNaive.Material.Lane(0) || hOrdered.Material.Lane(0) != hBrute.Material.Lane(0) {
		t.Fatalf("material disagreement across strategies: ordered=%d naive=%d brute=%d",
			hOrdered.Material.Lane(0), hNaive.Material.Lane(0), hBrute.Material.Lane(0))
	}
	if d := hOrdered.Distance.Lane(0) - hBrute.Distance.Lane(0); absf(d) > 1e-4 {
		t.Fatalf("distance disagreement: ordered=%f brute=%f", hOrdered.Distance.Lane(0), hBrute.Distance.Lane(0))
	}
}

func TestQueryClosestBruteForceEquivalence(t *testing.T) {
	tris := cubeTriangles([3]float32{0, 0, 0}, 1, 0)
	for i := range tris {
		tris[i].MaterialID = int32(i)
	}
	tree, err := Build(tris)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rays := []geom.RayPacket{
		{Origin: simd.SplatVec3(5, 0, 0), Direction: simd.SplatVec3(-1, 0, 0)},
		{Origin: simd.SplatVec3(0, 5, 0.1), Direction: simd.SplatVec3(0, -1, 0)},
		{Origin: simd.SplatVec3(-5, -0.2, -0.3), Direction: simd.SplatVec3(1, 0, 0)},
	}
	for i, ray := range rays {
		got := geom.NewRayHit()
		QueryClosest(tree, ray, &got, Ordered)

		want := bruteForceClosest(tris, ray)
		if got.HitMask.Lane(0) != (want.Material.Lane(0) != -1) {
			t.Fatalf("ray %d: hit mask disagreement", i)
		}
		if got.HitMask.Lane(0) {
			rel := absf(got.Distance.Lane(0)-want.Distance.Lane(0)) / want.Distance.Lane(0)
			if rel > 1e-4 {
				t.Fatalf("ray %d: distance relative error %f exceeds 1e-4", i, rel)
			}
		}
	}
}

func bruteForceClosest(tris []geom.Triangle, ray geom.RayPacket) geom.RayHit {
	hit := geom.NewRayHit()
	for i := range tris {
		geom.IntersectTrianglePacket(&tris[i], ray, &hit)
	}
	return hit
}

func TestQueryAnyEmptyTreeMisses(t *testing.T) {
	tree := &Tree{}
	ray := geom.RayPacket{Origin: simd.SplatVec3(0, 0, 0), Direction: simd.SplatVec3(1, 0, 0)}
	mask := QueryAny(tree, ray, 10)
	if mask.Lane(0) {
		t.Fatalf("empty tree should never report a hit")
	}
}
