package cmd

import (
	"errors"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/asset/bvh"
	"github.com/urfave/cli"
)

// Parse a scene and print statistics about its assets.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := asset.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}
	sc.BvhNodes, sc.BvhIndices = bvh.Build(sc.Triangles, bvhMinLeafSize)

	logger.Noticef("scene statistics\n%s", sc.Stats())
	return nil
}
