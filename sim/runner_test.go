package sim

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/boxcollider/camera"
	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/meshio"
)

func newWorld(t *testing.T) *collision.Mesh {
	t.Helper()
	world, err := collision.NewMesh([]collision.MeshPart{meshio.Room(100, 20, 100)}, 3, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return world
}

func newObserver(t *testing.T) *camera.Observer {
	t.Helper()
	// flying towards the east wall at x=50
	return camera.NewObserver(r3.Vector{X: 0, Y: 10, Z: 0}, r3.Vector{X: 10, Y: 10, Z: 0}, camera.DefaultAngle, camera.DefaultAspect, 1,
		logging.NewTestLogger(t))
}

func forward(int) camera.DeviceState {
	return camera.DeviceState{Keys: camera.KeyW}
}

func TestNewRunner(t *testing.T) {
	logger := logging.NewTestLogger(t)
	world := newWorld(t)
	o := newObserver(t)

	_, err := NewRunner(nil, o, nil, Options{FrameRate: 60}, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewRunner(world, nil, nil, Options{FrameRate: 60}, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewRunner(world, o, nil, Options{}, nil, logger)
	test.That(t, err.Error(), test.ShouldContainSubstring, "frame rate must be positive")
	_, err = NewRunner(world, o, nil, Options{FrameRate: 60, MaxFrames: -1}, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)

	r, err := NewRunner(world, o, nil, Options{FrameRate: 100}, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r.FrameTime(), test.ShouldEqual, 10*time.Millisecond)
	r.Step()
	test.That(t, o.Position(), test.ShouldResemble, r3.Vector{X: 0, Y: 10, Z: 0})
}

func TestRunnerStep(t *testing.T) {
	world := newWorld(t)
	o := newObserver(t)
	r, err := NewRunner(world, o, InputFunc(forward), Options{FrameRate: 100}, clock.NewMock(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	for i := 0; i < 3; i++ {
		r.Step()
	}
	stats := r.Stats()
	test.That(t, stats.Frames, test.ShouldEqual, 3)
	test.That(t, stats.Collisions, test.ShouldEqual, 0)
	test.That(t, stats.Iterations, test.ShouldEqual, 3)
	test.That(t, stats.Distance, test.ShouldAlmostEqual, 12., 1e-9)

	// 4 units a frame reaches the wall
	for i := 0; i < 20; i++ {
		r.Step()
	}
	stats = r.Stats()
	test.That(t, stats.Collisions, test.ShouldBeGreaterThan, 0)
	test.That(t, o.Position().X, test.ShouldAlmostEqual, 50-1-0.01, 1e-6)
	test.That(t, stats.Distance, test.ShouldAlmostEqual, 48.99, 1e-6)
}

func TestRunnerRunWithMockClock(t *testing.T) {
	world := newWorld(t)
	o := newObserver(t)
	mock := clock.NewMock()
	r, err := NewRunner(world, o, InputFunc(forward), Options{FrameRate: 100, MaxFrames: 5}, mock, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	done := make(chan error, 1)
	go func() {
		done <- r.Run(context.Background())
	}()

	start := mock.Now()
	for {
		select {
		case err := <-done:
			test.That(t, err, test.ShouldBeNil)
			test.That(t, r.Done(), test.ShouldBeTrue)
			test.That(t, r.Stats().Frames, test.ShouldEqual, 5)
			test.That(t, o.Position().X, test.ShouldAlmostEqual, 20., 1e-9)
			test.That(t, mock.Since(start), test.ShouldBeGreaterThanOrEqualTo, 5*r.FrameTime())
			return
		default:
			mock.Add(r.FrameTime())
		}
	}
}

func TestRunnerRunCancel(t *testing.T) {
	world := newWorld(t)
	r, err := NewRunner(world, newObserver(t), nil, Options{FrameRate: 60}, clock.NewMock(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.That(t, r.Run(ctx), test.ShouldEqual, context.Canceled)
	test.That(t, r.Stats().Frames, test.ShouldEqual, 0)
}
