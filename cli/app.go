// Package cli contains the boxcollider command line tool.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/config"
	"go.viam.com/boxcollider/logging"
)

const (
	// Global flags.
	flagConfig = "config"
	flagDebug  = "debug"

	// probe flags.
	probeFlagRays   = "rays"
	probeFlagOrigin = "origin"
	probeFlagRange  = "range"

	// walk flags.
	walkFlagFrames     = "frames"
	walkFlagController = "controller"
	walkFlagRealtime   = "realtime"

	loggerMetadataKey = "logger"
)

// NewApp returns the boxcollider app writing results to out and logs to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "boxcollider",
		Usage:           "inspect collision levels and walk cameras through them",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			logger := logging.NewBlankLogger("boxcollider")
			logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
			if c.Bool(flagDebug) {
				logger.SetLevel(logging.DEBUG)
			} else {
				logger.SetLevel(logging.INFO)
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]interface{}{}
			}
			c.App.Metadata[loggerMetadataKey] = logger
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print the bounds, size and octree occupancy of the configured level",
				Action: InfoAction,
			},
			{
				Name:      "probe",
				Usage:     "cast rays in every direction from a point and summarise the hit distances",
				UsageText: "boxcollider --config FILE probe [--rays N] [--origin X,Y,Z] [--range D]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  probeFlagRays,
						Value: 256,
						Usage: "number of rays to cast",
					},
					&cli.Float64SliceFlag{
						Name:  probeFlagOrigin,
						Usage: "ray origin as three values, defaults to the level center",
					},
					&cli.Float64Flag{
						Name:  probeFlagRange,
						Usage: "ray length, defaults to the level diagonal",
					},
				},
				Action: ProbeAction,
			},
			{
				Name:  "walk",
				Usage: "run the scripted simulation of the configured controller",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  walkFlagFrames,
						Usage: "number of frames to run, overriding the config",
					},
					&cli.StringFlag{
						Name:  walkFlagController,
						Usage: "controller to run, observer or person, overriding the config",
					},
					&cli.BoolFlag{
						Name:  walkFlagRealtime,
						Usage: "pace frames with the wall clock instead of stepping as fast as possible",
					},
				},
				Action: WalkAction,
			},
		},
	}
}

func loggerFromContext(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerMetadataKey].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}

// loadLevel reads the config named by --config and builds its collision world. Unless --debug
// was given, the logger takes the level from the config.
func loadLevel(c *cli.Context) (*config.Config, *collision.Mesh, error) {
	path := c.String(flagConfig)
	if path == "" {
		return nil, nil, errors.New("a config file is required, pass one with --config")
	}
	logger := loggerFromContext(c)
	cfg, err := config.Read(path, logger)
	if err != nil {
		return nil, nil, err
	}
	if !c.Bool(flagDebug) {
		logger.SetLevel(cfg.LogLevel)
	}

	parts, err := cfg.LevelParts()
	if err != nil {
		return nil, nil, err
	}
	world, err := collision.NewMesh(parts, cfg.Level.Subdivisions, logger.Sublogger("collision"))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot build collision world from %q", path)
	}
	return cfg, world, nil
}
