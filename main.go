package main

import (
	"os"

	"github.com/Thrillerninja/go-raytracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 512,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 512,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: 1,
			Usage: "samples per pixel",
		},
		cli.IntFlag{
			Name:  "num-bounces",
			Value: 10,
			Usage: "max path bounces",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of tracer workers; 0 selects one per logical CPU",
		},
		cli.BoolFlag{
			Name:  "debug-rand-color",
			Usage: "visualize the per-pixel random sequence",
		},
		cli.BoolFlag{
			Name:  "debug-bvh-heat",
			Usage: "visualize BVH node visits as a heatmap",
		},
		cli.BoolFlag{
			Name:  "debug-normals",
			Usage: "visualize primary hit normals",
		},
	}

	app := cli.NewApp()
	app.Name = "go-raytracer"
	app.Usage = "render scenes using path tracing"
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
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Render a single frame and write it out as a png image.`,
					ArgsUsage:   "scene.toml",
					Flags: append(renderFlags,
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:        "interactive",
					Usage:       "render interactive view of the scene",
					Description: `Open an opengl window and render the scene continuously while the camera can be moved with the keyboard and mouse.`,
					ArgsUsage:   "scene.toml",
					Flags:       renderFlags,
					Action:      cmd.RenderInteractive,
				},
			},
		},
		{
			Name:      "info",
			Usage:     "parse a scene and print asset statistics",
			ArgsUsage: "scene.toml",
			Action:    cmd.SceneInfo,
		},
	}

	app.Run(os.Args)
}
