// Package sim drives a camera controller through a collision world one fixed length frame at a time.
package sim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/boxcollider/camera"
	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
)

// Controller is a camera controller that can be stepped. It is implemented by camera.Observer and
// camera.Person.
type Controller interface {
	Update(dt time.Duration, world *collision.Mesh, state camera.DeviceState) collision.MoveResult
	Camera() camera.Camera
}

// Options configures a Runner.
type Options struct {
	// FrameRate is the number of frames per second, which fixes the frame length.
	FrameRate float64
	// MaxFrames stops Run after that many frames in total. Zero runs until the context ends.
	MaxFrames int
}

// Stats accumulates over every frame a Runner has stepped.
type Stats struct {
	Frames     int
	Collisions int
	// Iterations is the total number of sweeps the movement resolver ran.
	Iterations int
	// Distance is the path length travelled by the camera.
	Distance float64
}

// A Runner steps a controller at a fixed rate. It is not safe for concurrent use; Step and Run must
// be called from one goroutine.
type Runner struct {
	logger     logging.Logger
	clock      clock.Clock
	world      *collision.Mesh
	controller Controller
	input      Input
	frameTime  time.Duration
	maxFrames  int
	stats      Stats
}

// NewRunner returns a runner moving controller through world with input read once per frame.
func NewRunner(
	world *collision.Mesh,
	controller Controller,
	input Input,
	opts Options,
	clk clock.Clock,
	logger logging.Logger,
) (*Runner, error) {
	if world == nil {
		return nil, errors.New("runner needs a collision world")
	}
	if controller == nil {
		return nil, errors.New("runner needs a controller")
	}
	if opts.FrameRate <= 0 {
		return nil, errors.Errorf("frame rate must be positive, got %v", opts.FrameRate)
	}
	if opts.MaxFrames < 0 {
		return nil, errors.Errorf("max frames must not be negative, got %d", opts.MaxFrames)
	}
	if input == nil {
		input = Idle
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Runner{
		logger:     logger,
		clock:      clk,
		world:      world,
		controller: controller,
		input:      input,
		frameTime:  time.Duration(float64(time.Second) / opts.FrameRate),
		maxFrames:  opts.MaxFrames,
	}, nil
}

// FrameTime returns the length of one frame.
func (r *Runner) FrameTime() time.Duration {
	return r.frameTime
}

// Stats returns the totals so far.
func (r *Runner) Stats() Stats {
	return r.stats
}

// Step advances one frame immediately, regardless of the clock.
func (r *Runner) Step() collision.MoveResult {
	before := r.controller.Camera().Position
	result := r.controller.Update(r.frameTime, r.world, r.input.State(r.stats.Frames))
	after := r.controller.Camera().Position

	r.stats.Frames++
	r.stats.Iterations += result.Iterations
	r.stats.Distance += after.Sub(before).Norm()
	if result.Collided {
		r.stats.Collisions++
	}
	return result
}

// Done reports whether MaxFrames have been stepped.
func (r *Runner) Done() bool {
	return r.maxFrames > 0 && r.stats.Frames >= r.maxFrames
}

// Run steps once per clock tick until MaxFrames is reached, returning nil, or until ctx is done,
// returning its error.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debugw("starting frame loop", "frame_time", r.frameTime, "max_frames", r.maxFrames)
	ticker := r.clock.Ticker(r.frameTime)
	defer ticker.Stop()
	for {
		if r.Done() {
			r.logger.Infow("frame loop finished", "frames", r.stats.Frames, "collisions", r.stats.Collisions)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}
