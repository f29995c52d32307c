package cmd

import (
	"github.com/urfave/cli"

	"github.com/lattice-rt/bvhcore/internal/log"
)

var logger = log.New("bvhcore")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
