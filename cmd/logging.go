package cmd

import (
	"github.com/Thrillerninja/go-raytracer/log"
	"github.com/urfave/cli"
)

var logger = log.New("go-raytracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
