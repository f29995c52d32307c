package cmd

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/lattice-rt/bvhcore/pkg/bvh"
	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

// Bench fires random rays at a deserialized tree and reports hit rate,
// average node visits per ray and wall-clock throughput. It makes no
// pass/fail assertions; it is a manual inspection aid.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: bvhcore bench tree.bin")
	}

	f, err := os.Open(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer f.Close()
	tree, err := bvh.Deserialize(f)
	if err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}

	numRays := ctx.Int("rays")
	if numRays <= 0 {
		numRays = 10000
	}
	seed := int64(ctx.Int("seed"))
	rng := rand.New(rand.NewSource(seed))

	bounds := tree.Root().AABB
	center := bounds.Center()
	radius := 0.5 * math.Sqrt(float64(
		sq(bounds.Max[0]-bounds.Min[0])+sq(bounds.Max[1]-bounds.Min[1])+sq(bounds.Max[2]-bounds.Min[2]),
	))
	if radius < 1 {
		radius = 1
	}

	hits := 0
	totalVisited := 0
	start := time.Now()
	for i := 0; i < numRays; i++ {
		origin := randomPointOnSphere(rng, center, float32(radius)*2)
		target := randomPointInBox(rng, bounds)
		dir := normalize(sub(target, origin))

		ray := geom.RayPacket{
			Origin:    simd.SplatVec3(origin[0], origin[1], origin[2]),
			Direction: simd.SplatVec3(dir[0], dir[1], dir[2]),
		}
		hit := geom.NewRayHit()
		visited := bvh.QueryClosestCounted(tree, ray, &hit, bvh.Ordered)
		totalVisited += visited
		if hit.HitMask.Lane(0) {
			hits++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("rays:            %d\n", numRays)
	fmt.Printf("hit rate:        %.2f%%\n", 100*float64(hits)/float64(numRays))
	fmt.Printf("avg nodes/ray:   %.2f\n", float64(totalVisited)/float64(numRays))
	fmt.Printf("total time:      %s\n", elapsed)
	fmt.Printf("ns/ray:          %.1f\n", float64(elapsed.Nanoseconds())/float64(numRays))
	return nil
}

func sq(v float32) float32 { return v * v }

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func normalize(v [3]float32) [3]float32 {
	lenSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if lenSq < 1e-20 {
		return [3]float32{0, 0, 1}
	}
	inv := float32(1) / float32(math.Sqrt(float64(lenSq)))
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}

func randomPointOnSphere(rng *rand.Rand, center [3]float32, radius float32) [3]float32 {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	x := float32(math.Sin(phi) * math.Cos(theta))
	y := float32(math.Sin(phi) * math.Sin(theta))
	z := float32(math.Cos(phi))
	return [3]float32{
		center[0] + x*radius,
		center[1] + y*radius,
		center[2] + z*radius,
	}
}

func randomPointInBox(rng *rand.Rand, box geom.AABB) [3]float32 {
	return [3]float32{
		box.Min[0] + rng.Float32()*(box.Max[0]-box.Min[0]),
		box.Min[1] + rng.Float32()*(box.Max[1]-box.Min[1]),
		box.Min[2] + rng.Float32()*(box.Max[2]-box.Min[2]),
	}
}
