package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lattice-rt/bvhcore/pkg/bvh"
	"github.com/lattice-rt/bvhcore/pkg/objreader"
)

// BuildScene parses one or more wavefront obj files, builds a BVH (or,
// with --sbvh, an SBVH) tree over their combined triangles, prints a
// summary table and writes the serialized tree next to the source file.
func BuildScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return fmt.Errorf("usage: bvhcore build [--sbvh] mesh1.obj mesh2.obj ...")
	}

	cfg := bvh.DefaultConfig()
	if n := ctx.Int("spatial-bins"); n > 0 {
		cfg.SpatialBinCount = n
	}
	if n := ctx.Int("leaf-threshold"); n > 0 {
		cfg.LeafThreshold = n
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		objFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(objFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", objFile)
			continue
		}

		f, err := os.Open(objFile)
		if err != nil {
			return err
		}
		triangles, err := objreader.Load(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", objFile, err)
		}

		start := time.Now()
		var tree *bvh.Tree
		if ctx.Bool("sbvh") {
			tree, err = bvh.BuildSBVH(triangles, cfg)
		} else {
			tree, err = bvh.BuildWithConfig(triangles, cfg)
		}
		elapsed := time.Since(start)
		if err != nil {
			return fmt.Errorf("%s: %w", objFile, err)
		}

		printBuildSummary(objFile, tree, elapsed)

		outFile := ctx.String("out")
		if outFile == "" {
			outFile = strings.TrimSuffix(objFile, ".obj") + ".bin"
		}
		out, err := os.Create(outFile)
		if err != nil {
			return err
		}
		err = bvh.Serialize(tree, out)
		out.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", outFile, err)
		}
		logger.Noticef("wrote %s", outFile)
	}
	return nil
}

func printBuildSummary(name string, tree *bvh.Tree, elapsed time.Duration) {
	leafCount, maxDepth := treeStats(tree)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	variant := "BVH"
	if tree.IsSBVH {
		variant = "SBVH"
	}
	table.Append([]string{"Source", name})
	table.Append([]string{"Variant", variant})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", len(tree.Primitives))})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", len(tree.Nodes))})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", leafCount)})
	table.Append([]string{"Leaf total refs", fmt.Sprintf("%d", tree.LeafTotal)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", maxDepth)})
	table.Append([]string{"Build time", elapsed.String()})
	table.Render()
}

// treeStats walks the flat node array and reports the leaf count and the
// deepest root-to-leaf path.
func treeStats(tree *bvh.Tree) (leafCount, maxDepth int) {
	var walk func(nodeIdx uint32, depth int)
	walk = func(nodeIdx uint32, depth int) {
		if depth > maxDepth {
			maxDepth = depth
		}
		node := tree.Nodes[nodeIdx]
		if node.IsLeaf() {
			leafCount++
			return
		}
		left := node.LeftChild()
		walk(left, depth+1)
		walk(left+1, depth+1)
	}
	if len(tree.Nodes) > 0 {
		walk(0, 0)
	}
	return leafCount, maxDepth
}
