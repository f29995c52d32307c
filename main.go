package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/lattice-rt/bvhcore/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvhcore"
	app.Usage = "build and query BVH/SBVH acceleration structures over triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a BVH/SBVH over one or more wavefront obj files",
			Description: `
Parse triangles from one or more wavefront obj files, build a BVH (or,
with --sbvh, a Chopped-Binned SBVH) tree, print a summary table and
write the serialized tree next to the source file.`,
			ArgsUsage: "mesh1.obj mesh2.obj ...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "sbvh",
					Usage: "build an SBVH with spatial splits instead of a plain object-split BVH",
				},
				cli.IntFlag{
					Name:  "spatial-bins",
					Usage: "spatial split bin count (default: Config default)",
				},
				cli.IntFlag{
					Name:  "leaf-threshold",
					Usage: "minimum reference count considered for splitting (default: Config default)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output filename (default: replace .obj with .bin)",
				},
			},
			Action: cmd.BuildScene,
		},
		{
			Name:      "trace",
			Usage:     "report the closest hit for a single ray against a serialized tree",
			ArgsUsage: "tree.bin ox,oy,oz dx,dy,dz",
			Action:    cmd.Trace,
		},
		{
			Name:      "bench",
			Usage:     "fire random rays at a serialized tree and report hit rate and traversal cost",
			ArgsUsage: "tree.bin",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 10000,
					Usage: "number of random rays to fire",
				},
				cli.IntFlag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed",
				},
			},
			Action: cmd.Bench,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
