package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/lattice-rt/bvhcore/pkg/bvh"
	"github.com/lattice-rt/bvhcore/pkg/geom"
	"github.com/lattice-rt/bvhcore/pkg/simd"
)

// Trace loads a serialized tree and reports the closest hit for a single
// ray, broadcast across every SIMD lane.
func Trace(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 3 {
		return fmt.Errorf("usage: bvhcore trace tree.bin ox,oy,oz dx,dy,dz")
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

	origin, err := parseVec3Arg(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	direction, err := parseVec3Arg(ctx.Args().Get(2))
	if err != nil {
		return fmt.Errorf("direction: %w", err)
	}

	ray := geom.RayPacket{
		Origin:    simd.SplatVec3(origin[0], origin[1], origin[2]),
		Direction: simd.SplatVec3(direction[0], direction[1], direction[2]),
	}
	hit := geom.NewRayHit()
	bvh.QueryClosest(tree, ray, &hit, bvh.Ordered)

	if !hit.HitMask.Lane(0) {
		fmt.Println("miss")
		return nil
	}
	p := hit.Point.Lane(0)
	n := hit.Normal.Lane(0)
	fmt.Printf("hit: t=%g material=%d point=(%g,%g,%g) normal=(%g,%g,%g) uv=(%g,%g)\n",
		hit.Distance.Lane(0), hit.Material.Lane(0),
		p[0], p[1], p[2], n[0], n[1], n[2],
		hit.U.Lane(0), hit.V.Lane(0))
	return nil
}

func parseVec3Arg(arg string) ([3]float32, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return [3]float32{}, fmt.Errorf("expected 3 comma-separated components, got %q", arg)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return [3]float32{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
