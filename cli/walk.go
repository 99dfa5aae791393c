package cli

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/boxcollider/camera"
	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/config"
	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/sim"
)

// walker is a controller that can join the world as a dynamic element.
type walker interface {
	sim.Controller
	Position() r3.Vector
	Attach(world *collision.Mesh) error
	Detach() error
}

// newWalker builds the named controller at the configured start.
func newWalker(cfg *config.Config, name string, logger logging.Logger) (walker, error) {
	start, lookAt := cfg.Sim.Start, cfg.Sim.LookAt
	switch name {
	case config.ControllerObserver:
		o := camera.NewObserver(start, lookAt, camera.DefaultAngle, camera.DefaultAspect, cfg.Observer.Radius, logger)
		o.Speed = cfg.Observer.Speed
		o.BoostSpeed = cfg.Observer.BoostSpeed
		o.TurnRate = cfg.Observer.TurnRate
		o.Move = cfg.Move.Options()
		return o, nil
	case config.ControllerPerson:
		p := camera.NewPerson(start, lookAt, camera.DefaultAngle, camera.DefaultAspect, cfg.Person.Options(), logger)
		p.Speed = cfg.Person.Speed
		p.BoostSpeed = cfg.Person.BoostSpeed
		p.TurnRate = cfg.Person.TurnRate
		p.Move = cfg.Move.Options()
		return p, nil
	default:
		return nil, errors.Errorf("unknown controller %q, expected %q or %q",
			name, config.ControllerObserver, config.ControllerPerson)
	}
}

// WalkAction runs the configured script and prints where the controller ended up.
func WalkAction(c *cli.Context) (err error) {
	cfg, world, err := loadLevel(c)
	if err != nil {
		return err
	}
	logger := loggerFromContext(c)

	name := cfg.Sim.Controller
	if c.IsSet(walkFlagController) {
		name = c.String(walkFlagController)
	}
	controller, err := newWalker(cfg, name, logger.Sublogger(name))
	if err != nil {
		return err
	}
	if err := controller.Attach(world); err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, controller.Detach())
	}()

	script, err := sim.NewScript(cfg.Sim.Script)
	if err != nil {
		return err
	}
	frames := cfg.Sim.Frames
	if c.IsSet(walkFlagFrames) {
		frames = c.Int(walkFlagFrames)
	}
	if frames == 0 {
		frames = script.Len()
	}
	if frames <= 0 {
		return errors.New("nothing to walk, set sim.frames, a script or --frames")
	}

	runner, err := sim.NewRunner(world, controller, script,
		sim.Options{FrameRate: cfg.Sim.FrameRate, MaxFrames: frames}, nil, logger.Sublogger("sim"))
	if err != nil {
		return err
	}
	start := controller.Position()
	if c.Bool(walkFlagRealtime) {
		if err := runner.Run(c.Context); err != nil {
			return err
		}
	} else {
		for !runner.Done() {
			runner.Step()
		}
	}

	stats := runner.Stats()
	end := controller.Position()
	logger.Infow("walk finished",
		"controller", name,
		"frames", stats.Frames,
		"position", end,
		"collisions", stats.Collisions,
	)

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Walk", "Value"})
	t.AppendRow(table.Row{"controller", name})
	t.AppendRow(table.Row{"frames", stats.Frames})
	t.AppendRow(table.Row{"start", formatVector(start)})
	t.AppendRow(table.Row{"end", formatVector(end)})
	t.AppendRow(table.Row{"distance", fmt.Sprintf("%.3f", stats.Distance)})
	t.AppendRow(table.Row{"collisions", stats.Collisions})
	t.AppendRow(table.Row{"sweeps", stats.Iterations})
	t.Render()
	return nil
}
