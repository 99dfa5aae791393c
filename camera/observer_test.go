package camera

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/spatialmath"
)

func TestObserverFlies(t *testing.T) {
	world := newLevel(t)
	o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 5, Z: -10}, DefaultAngle, DefaultAspect, 1, logging.NewTestLogger(t))

	result := o.Update(frame, world, DeviceState{Keys: KeyW})
	test.That(t, result.Collided, test.ShouldBeFalse)
	test.That(t, o.Position(), test.ShouldResemble, r3.Vector{X: 0, Y: 5, Z: -4})
	test.That(t, o.Camera().Position, test.ShouldResemble, o.Position())

	o.Update(frame, world, DeviceState{Keys: KeyW | KeyLeftShift})
	vectorAlmostEqual(t, o.Position(), r3.Vector{X: 0, Y: 5, Z: -14}, 1e-9)
}

func TestObserverStopsAtWall(t *testing.T) {
	world := newLevel(t)
	o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 10, Y: 5, Z: 0}, DefaultAngle, DefaultAspect, 1, logging.NewTestLogger(t))
	vectorAlmostEqual(t, o.Camera().Forward(), r3.Vector{X: 1, Y: 0, Z: 0}, 1e-12)

	collided := false
	for i := 0; i < 5; i++ {
		collided = o.Update(frame, world, DeviceState{Keys: KeyW}).Collided || collided
	}
	test.That(t, collided, test.ShouldBeTrue)
	vectorAlmostEqual(t, o.Position(), r3.Vector{X: 10 - 1 - 0.01, Y: 5, Z: 0}, 1e-6)
}

func TestObserverTurns(t *testing.T) {
	world := newLevel(t)
	logger := logging.NewTestLogger(t)

	t.Run("yaw", func(t *testing.T) {
		o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 5, Z: -10}, DefaultAngle, DefaultAspect, 1, logger)
		o.Update(time.Second, world, DeviceState{Keys: KeyRight})
		vectorAlmostEqual(t, o.Camera().Forward(), r3.Vector{X: math.Sin(1.4), Y: 0, Z: -math.Cos(1.4)}, 1e-9)
		test.That(t, o.Camera().Basis.IsOrthonormal(1e-9), test.ShouldBeTrue)
		test.That(t, o.Position(), test.ShouldResemble, r3.Vector{X: 0, Y: 5, Z: 0})
	})

	t.Run("right stick press holds the view", func(t *testing.T) {
		o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 5, Z: -10}, DefaultAngle, DefaultAspect, 1, logger)
		before := o.Camera().Basis
		o.Update(time.Second, world, DeviceState{Keys: KeyRight | KeyUp, Buttons: ButtonRightStick})
		vectorAlmostEqual(t, o.Camera().Basis.X, before.X, 1e-12)
		vectorAlmostEqual(t, o.Camera().Basis.Y, before.Y, 1e-12)
		vectorAlmostEqual(t, o.Camera().Basis.Z, before.Z, 1e-12)
	})

	t.Run("roll", func(t *testing.T) {
		o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 5, Z: -10}, DefaultAngle, DefaultAspect, 1, logger)
		o.Update(500*time.Millisecond, world, DeviceState{Keys: KeyA})
		vectorAlmostEqual(t, o.Camera().Basis.Y, r3.Vector{X: -math.Sin(0.7), Y: math.Cos(0.7), Z: 0}, 1e-9)
		vectorAlmostEqual(t, o.Camera().Forward(), r3.Vector{X: 0, Y: 0, Z: -1}, 1e-9)
	})

	t.Run("stays orthonormal", func(t *testing.T) {
		o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 5, Z: -10}, DefaultAngle, DefaultAspect, 1, logger)
		state := DeviceState{Keys: KeyUp | KeyRight | KeyA}
		for i := 0; i < 1000; i++ {
			o.Update(frame, world, state)
		}
		test.That(t, o.Camera().Basis.IsOrthonormal(1e-9), test.ShouldBeTrue)
	})
}

func TestObserverAttach(t *testing.T) {
	world := newLevel(t)
	o := NewObserver(r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 5, Z: -10}, DefaultAngle, DefaultAspect, 1, logging.NewTestLogger(t))
	test.That(t, o.Attach(nil), test.ShouldNotBeNil)
	test.That(t, o.Attach(world), test.ShouldBeNil)
	test.That(t, o.Attach(world), test.ShouldNotBeNil)
	test.That(t, world.Stats().DynamicElements, test.ShouldEqual, 1)

	around := func(p r3.Vector) spatialmath.AABB {
		return spatialmath.NewCubeAABB(-0.1, 0.1).Translate(p)
	}
	ids := world.GetElements(around(r3.Vector{X: 0, Y: 5, Z: 0}))
	test.That(t, ids, test.ShouldHaveLength, 1)
	test.That(t, world.Element(ids[0]), test.ShouldEqual, o.Element())

	// the observer does not collide with its own element
	result := o.Update(frame, world, DeviceState{Keys: KeyW})
	test.That(t, result.Collided, test.ShouldBeFalse)
	test.That(t, o.Element().Position, test.ShouldResemble, r3.Vector{X: 0, Y: 5, Z: -4})
	test.That(t, world.GetElements(around(r3.Vector{X: 0, Y: 5, Z: 0})), test.ShouldBeEmpty)
	test.That(t, world.GetElements(around(r3.Vector{X: 0, Y: 5, Z: -4})), test.ShouldHaveLength, 1)

	o.Reset(spatialmath.NewIdentityBasis(), r3.Vector{X: 2, Y: 6, Z: 2})
	test.That(t, o.Element().Position, test.ShouldResemble, r3.Vector{X: 2, Y: 6, Z: 2})

	test.That(t, o.Detach(), test.ShouldBeNil)
	test.That(t, world.Stats().DynamicElements, test.ShouldEqual, 0)
	test.That(t, o.Detach(), test.ShouldBeNil)
}

func TestUpdateNilWorld(t *testing.T) {
	logger := logging.NewTestLogger(t)
	o := NewObserver(r3.Vector{}, r3.Vector{X: 0, Y: 0, Z: -1}, DefaultAngle, DefaultAspect, 1, logger)
	test.That(t, func() { o.Update(frame, nil, DeviceState{}) }, test.ShouldPanic)
	p := NewPerson(r3.Vector{}, r3.Vector{X: 0, Y: 0, Z: -1}, DefaultAngle, DefaultAspect, testPersonOptions, logger)
	test.That(t, func() { p.Update(frame, nil, DeviceState{}) }, test.ShouldPanic)
}
