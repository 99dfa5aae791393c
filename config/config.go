// Package config defines the JSON configuration of a collision level and the controllers walking it.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/boxcollider/camera"
	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/meshio"
	"go.viam.com/boxcollider/octree"
	"go.viam.com/boxcollider/sim"
)

// Level primitives.
const (
	PrimitiveFloor  = "floor"
	PrimitiveRoom   = "room"
	PrimitiveStairs = "stairs"
)

// Controller names.
const (
	ControllerObserver = "observer"
	ControllerPerson   = "person"
)

// DefaultSubdivisions is the octree depth used when none is configured.
const DefaultSubdivisions = 4

// Config describes a level, how agents move through it and how a simulation drives them.
type Config struct {
	// ConfigFilePath is where the config was read from, if anywhere. Level files are resolved
	// relative to it.
	ConfigFilePath string `json:"-"`

	Level    LevelConfig    `json:"level"`
	Move     MoveConfig     `json:"move"`
	Observer ObserverConfig `json:"observer"`
	Person   PersonConfig   `json:"person"`
	Sim      SimConfig      `json:"sim"`
	LogLevel logging.Level  `json:"log_level"`
}

// Validate checks every section, filling in defaults for unset fields. All problems are reported.
func (c *Config) Validate(path string) error {
	var err error
	err = multierr.Append(err, c.Level.Validate(joinPath(path, "level")))
	err = multierr.Append(err, c.Move.Validate(joinPath(path, "move")))
	err = multierr.Append(err, c.Observer.Validate(joinPath(path, "observer")))
	err = multierr.Append(err, c.Person.Validate(joinPath(path, "person")))
	err = multierr.Append(err, c.Sim.Validate(joinPath(path, "sim")))
	return err
}

// LevelParts loads or builds the level, resolving a relative level file against the config file.
func (c *Config) LevelParts() ([]collision.MeshPart, error) {
	dir := ""
	if c.ConfigFilePath != "" {
		dir = filepath.Dir(c.ConfigFilePath)
	}
	return c.Level.Parts(dir)
}

// LevelConfig selects the collision geometry: a PLY file or a procedural primitive.
type LevelConfig struct {
	File      string `json:"file,omitempty"`
	Primitive string `json:"primitive,omitempty"`

	// primitive dimensions
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty"`
	Steps  int     `json:"steps,omitempty"`
	Rise   float64 `json:"rise,omitempty"`
	Run    float64 `json:"run,omitempty"`

	Subdivisions int `json:"subdivisions,omitempty"`
}

// Validate ensures exactly one level source is set and fills in primitive dimensions.
func (c *LevelConfig) Validate(path string) error {
	if c.Subdivisions == 0 {
		c.Subdivisions = DefaultSubdivisions
	}
	var err error
	if c.Subdivisions < 1 || c.Subdivisions > octree.MaxDepth {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("subdivisions must be between 1 and %d, got %d", octree.MaxDepth, c.Subdivisions)))
	}

	switch {
	case c.File == "" && c.Primitive == "":
		return multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "file"))
	case c.File != "" && c.Primitive != "":
		return multierr.Append(err, utils.NewConfigValidationError(path, errors.New("only one of file and primitive may be set")))
	case c.File != "":
		return err
	}

	err = multierr.Append(err, positiveOrDefault(path, "width", &c.Width, 2000))
	err = multierr.Append(err, positiveOrDefault(path, "height", &c.Height, 600))
	err = multierr.Append(err, positiveOrDefault(path, "depth", &c.Depth, 2000))
	err = multierr.Append(err, positiveOrDefault(path, "rise", &c.Rise, 20))
	err = multierr.Append(err, positiveOrDefault(path, "run", &c.Run, 60))
	if c.Steps == 0 {
		c.Steps = 8
	}
	if c.Steps < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.Errorf("steps must be positive, got %d", c.Steps)))
	}

	switch c.Primitive {
	case PrimitiveFloor, PrimitiveRoom, PrimitiveStairs:
	default:
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("unknown primitive %q, expected one of %q, %q or %q",
				c.Primitive, PrimitiveFloor, PrimitiveRoom, PrimitiveStairs)))
	}
	return err
}

// Parts returns the mesh parts of the level. A relative File is resolved against dir.
func (c *LevelConfig) Parts(dir string) ([]collision.MeshPart, error) {
	if c.File != "" {
		path := c.File
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		part, err := meshio.ReadPLY(path)
		if err != nil {
			return nil, err
		}
		return []collision.MeshPart{part}, nil
	}

	switch c.Primitive {
	case PrimitiveFloor:
		return []collision.MeshPart{meshio.Floor(c.Width)}, nil
	case PrimitiveRoom:
		return []collision.MeshPart{meshio.Room(c.Width, c.Height, c.Depth)}, nil
	case PrimitiveStairs:
		// the flight starts at the origin in the middle of a Width square floor, Depth wide
		return []collision.MeshPart{
			meshio.Floor(c.Width),
			meshio.Stairs(c.Steps, c.Depth, c.Rise, c.Run),
		}, nil
	default:
		return nil, errors.Errorf("unknown primitive %q", c.Primitive)
	}
}

// MoveConfig tunes the slide response. Unset fields take the collision defaults.
type MoveConfig struct {
	Friction      *float64 `json:"friction,omitempty"`
	Bump          *float64 `json:"bump,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty"`
}

// Validate ensures the factors are not negative.
func (c *MoveConfig) Validate(path string) error {
	var err error
	if c.Friction != nil && *c.Friction < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("friction must not be negative")))
	}
	if c.Bump != nil && *c.Bump < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("bump must not be negative")))
	}
	if c.MaxIterations < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("max_iterations must not be negative")))
	}
	return err
}

// Options returns the move options with defaults for unset fields.
func (c MoveConfig) Options() collision.MoveOptions {
	opts := collision.DefaultMoveOptions()
	if c.Friction != nil {
		opts.Friction = *c.Friction
	}
	if c.Bump != nil {
		opts.Bump = *c.Bump
	}
	if c.MaxIterations > 0 {
		opts.MaxIterations = c.MaxIterations
	}
	return opts
}

// ObserverConfig describes the free flying camera.
type ObserverConfig struct {
	Radius     float64 `json:"radius,omitempty"`
	Speed      float64 `json:"speed,omitempty"`
	BoostSpeed float64 `json:"boost_speed,omitempty"`
	TurnRate   float64 `json:"turn_rate,omitempty"`
}

// Validate fills in defaults and rejects negative values.
func (c *ObserverConfig) Validate(path string) error {
	var err error
	err = multierr.Append(err, positiveOrDefault(path, "radius", &c.Radius, 60))
	err = multierr.Append(err, positiveOrDefault(path, "speed", &c.Speed, camera.DefaultObserverSpeed))
	err = multierr.Append(err, positiveOrDefault(path, "boost_speed", &c.BoostSpeed, camera.DefaultObserverBoostSpeed))
	err = multierr.Append(err, positiveOrDefault(path, "turn_rate", &c.TurnRate, camera.DefaultTurnRate))
	return err
}

// PersonConfig describes the walking camera.
type PersonConfig struct {
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	StepHeight float64 `json:"step_height,omitempty"`
	HeadHeight float64 `json:"head_height,omitempty"`
	Gravity    float64 `json:"gravity,omitempty"`
	JumpHeight float64 `json:"jump_height,omitempty"`
	Speed      float64 `json:"speed,omitempty"`
	BoostSpeed float64 `json:"boost_speed,omitempty"`
	TurnRate   float64 `json:"turn_rate,omitempty"`
}

// Validate fills in defaults and checks that the step and head fit in the body.
func (c *PersonConfig) Validate(path string) error {
	var err error
	err = multierr.Append(err, positiveOrDefault(path, "width", &c.Width, 60))
	err = multierr.Append(err, positiveOrDefault(path, "height", &c.Height, 180))
	err = multierr.Append(err, positiveOrDefault(path, "step_height", &c.StepHeight, 30))
	err = multierr.Append(err, positiveOrDefault(path, "head_height", &c.HeadHeight, 170))
	err = multierr.Append(err, positiveOrDefault(path, "gravity", &c.Gravity, 980))
	err = multierr.Append(err, positiveOrDefault(path, "jump_height", &c.JumpHeight, 60))
	err = multierr.Append(err, positiveOrDefault(path, "speed", &c.Speed, camera.DefaultPersonSpeed))
	err = multierr.Append(err, positiveOrDefault(path, "boost_speed", &c.BoostSpeed, camera.DefaultPersonBoostSpeed))
	err = multierr.Append(err, positiveOrDefault(path, "turn_rate", &c.TurnRate, camera.DefaultTurnRate))
	if c.StepHeight >= c.Height {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("step_height %v must be less than height %v", c.StepHeight, c.Height)))
	}
	if c.HeadHeight > c.Height {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("head_height %v must not exceed height %v", c.HeadHeight, c.Height)))
	}
	return err
}

// Options returns the body description for camera.NewPerson.
func (c PersonConfig) Options() camera.PersonOptions {
	return camera.PersonOptions{
		Width:      c.Width,
		Height:     c.Height,
		StepHeight: c.StepHeight,
		HeadHeight: c.HeadHeight,
		Gravity:    c.Gravity,
		JumpHeight: c.JumpHeight,
	}
}

// SimConfig describes a scripted run.
type SimConfig struct {
	Controller string        `json:"controller,omitempty"`
	FrameRate  float64       `json:"frame_rate,omitempty"`
	Frames     int           `json:"frames,omitempty"`
	Start      r3.Vector     `json:"start"`
	LookAt     r3.Vector     `json:"look_at"`
	Script     []sim.Segment `json:"script,omitempty"`
}

// Validate fills in defaults and checks the controller name and script.
func (c *SimConfig) Validate(path string) error {
	var err error
	if c.Controller == "" {
		c.Controller = ControllerObserver
	}
	if c.Controller != ControllerObserver && c.Controller != ControllerPerson {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("unknown controller %q, expected %q or %q", c.Controller, ControllerObserver, ControllerPerson)))
	}
	err = multierr.Append(err, positiveOrDefault(path, "frame_rate", &c.FrameRate, 60))
	if c.Frames < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("frames must not be negative")))
	}
	if c.LookAt == c.Start {
		c.LookAt = c.Start.Add(r3.Vector{Z: -1})
	}
	if _, scriptErr := sim.NewScript(c.Script); scriptErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(path, scriptErr))
	}
	return err
}

func positiveOrDefault(path, field string, v *float64, def float64) error {
	if *v == 0 {
		*v = def
		return nil
	}
	if *v < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("%s must be positive, got %v", field, *v))
	}
	return nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return fmt.Sprintf("%s.%s", path, field)
}
