package camera

import (
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/spatialmath"
)

// Observer defaults.
const (
	DefaultObserverSpeed      = 400.0
	DefaultObserverBoostSpeed = 600.0
	DefaultTurnRate           = 2.0
)

// Observer is a free flying camera with a cubic collision box. It moves along its own axes and
// rotates about them, so it can roll and look anywhere.
type Observer struct {
	body
	camera Camera

	// Speed is in units per second, BoostSpeed is added at full boost.
	Speed      float64
	BoostSpeed float64
	// TurnRate is in radians per second at full input.
	TurnRate float64
	Move     collision.MoveOptions
}

// NewObserver returns an observer at position looking at lookAt with a box of the given radius.
func NewObserver(position, lookAt r3.Vector, angle, aspect, radius float64, logger logging.Logger) *Observer {
	o := &Observer{
		body:       newBody(spatialmath.NewCubeAABB(-radius, radius), logger),
		camera:     NewCamera(position, lookAt, angle, aspect),
		Speed:      DefaultObserverSpeed,
		BoostSpeed: DefaultObserverBoostSpeed,
		TurnRate:   DefaultTurnRate,
		Move:       collision.DefaultMoveOptions(),
	}
	o.element.Position = position
	return o
}

// Camera returns the current view.
func (o *Observer) Camera() Camera {
	return o.camera
}

// Position returns the center of the collision box.
func (o *Observer) Position() r3.Vector {
	return o.camera.Position
}

// Attach registers the observer as a dynamic element of world.
func (o *Observer) Attach(world *collision.Mesh) error {
	return o.attach(world, o.camera.Position)
}

// Reset places the observer with the given orientation.
func (o *Observer) Reset(basis spatialmath.Basis, position r3.Vector) {
	o.camera.Basis = basis.Orthonormalize()
	o.camera.Position = position
	o.move(position)
}

// Update moves and turns the observer for one frame of length dt.
func (o *Observer) Update(dt time.Duration, world *collision.Mesh, state DeviceState) collision.MoveResult {
	if world == nil {
		panic("camera: Update called with a nil collision world")
	}
	secs := dt.Seconds()

	boost := 0.0
	if state.Pressed(ButtonLeftStick) || state.Down(KeyLeftShift) {
		boost = 1
	}
	turn := o.TurnRate * secs
	speed := (o.Speed + o.BoostSpeed*boost) * secs

	in := InputFromDevice(state)
	if state.Pressed(ButtonRightStick) {
		in.Rotate.X, in.Rotate.Y = 0, 0
	}

	b := o.camera.Basis
	position := o.camera.Position
	target := position.
		Add(b.X.Mul(speed * in.Translate.X)).
		Add(b.Y.Mul(speed * in.Translate.Y)).
		Sub(b.Z.Mul(speed * in.Translate.Z))
	result := world.BoxMoveResult(o.box, position, target, o.Move)

	// pitch, then yaw, then roll, all about the axes held at the start of the frame
	rotation := quat.Mul(
		spatialmath.QuatFromAxisAngle(b.Z, turn*in.Rotate.Z),
		quat.Mul(
			spatialmath.QuatFromAxisAngle(b.Y, -turn*in.Rotate.Y),
			spatialmath.QuatFromAxisAngle(b.X, -turn*in.Rotate.X),
		),
	)
	o.camera.Basis = b.Rotate(rotation).Orthonormalize()
	o.camera.Position = result.Position
	o.move(result.Position)
	return result
}
