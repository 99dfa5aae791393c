package camera

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/spatialmath"
	"go.viam.com/boxcollider/utils"
)

// Person defaults.
const (
	DefaultPersonSpeed      = 300.0
	DefaultPersonBoostSpeed = 400.0

	// MaxPitch limits looking up or down, in radians.
	MaxPitch = 1.0

	// autoStepRate scales the step height into the fastest vertical correction per second.
	autoStepRate = 12.5

	// a vertical move shorter than this while rising means the head hit something
	blockedRiseEpsilon = 1e-4
)

// PersonOptions describes the body of a Person.
type PersonOptions struct {
	Width  float64
	Height float64
	// StepHeight is the tallest ledge climbed without jumping.
	StepHeight float64
	// HeadHeight is the eye height above the bottom of the body.
	HeadHeight float64
	Gravity    float64
	JumpHeight float64
}

// Person is a walking camera. The body stays upright and turns about the world Y axis while the
// view pitches within MaxPitch. Gravity pulls the body down until the ground probe finds a
// surface to stand on; small ledges are climbed by stepping.
type Person struct {
	body
	camera Camera

	Speed      float64
	BoostSpeed float64
	TurnRate   float64
	Move       collision.MoveOptions
	Probe      collision.GroundProbe

	// upright body orientation and position, the camera adds pitch and head height
	basis    spatialmath.Basis
	position r3.Vector

	headHeight float64
	stepHeight float64
	gravity    float64
	jumpHeight float64

	velocityY float64
	onGround  bool
	pitch     float64
	autoMoveY float64
}

// NewPerson returns a person whose body is at position, looking towards lookAt.
func NewPerson(position, lookAt r3.Vector, angle, aspect float64, opts PersonOptions, logger logging.Logger) *Person {
	halfWidth := opts.Width / 2
	halfHeight := opts.Height / 2
	box := spatialmath.NewAABB(
		r3.Vector{X: -halfWidth, Y: -halfHeight + opts.StepHeight, Z: -halfWidth},
		r3.Vector{X: halfWidth, Y: halfHeight, Z: halfWidth},
	)
	p := &Person{
		body:       newBody(box, logger),
		camera:     NewCamera(position, lookAt, angle, aspect),
		Speed:      DefaultPersonSpeed,
		BoostSpeed: DefaultPersonBoostSpeed,
		TurnRate:   DefaultTurnRate,
		Move:       collision.DefaultMoveOptions(),
		Probe:      collision.NewSlopeGroundProbe(),
		headHeight: opts.HeadHeight - halfHeight,
		stepHeight: opts.StepHeight,
		gravity:    opts.Gravity,
		jumpHeight: opts.JumpHeight,
	}
	look := p.camera.Basis
	p.Reset(look, position)
	p.pitch = utils.Clamp(math.Asin(utils.Clamp(look.Forward().Y, -1, 1)), -MaxPitch, MaxPitch)
	p.updateCamera()
	return p
}

// Camera returns the current view.
func (p *Person) Camera() Camera {
	return p.camera
}

// Position returns the body position. The eye is HeadHeight above the bottom of the body.
func (p *Person) Position() r3.Vector {
	return p.position
}

// OnGround reports whether the last update found ground beneath the body.
func (p *Person) OnGround() bool {
	return p.onGround
}

// VelocityY returns the current vertical speed.
func (p *Person) VelocityY() float64 {
	return p.velocityY
}

// Pitch returns the view angle above the horizon in radians.
func (p *Person) Pitch() float64 {
	return p.pitch
}

// Attach registers the body as a dynamic element of world.
func (p *Person) Attach(world *collision.Mesh) error {
	return p.attach(world, p.position)
}

// Reset places the body at position, turned to the heading of basis with a level view.
func (p *Person) Reset(basis spatialmath.Basis, position r3.Vector) {
	p.basis = levelBasis(basis)
	p.position = position
	p.pitch = 0
	p.velocityY = 0
	p.autoMoveY = 0
	p.onGround = false
	p.updateCamera()
	p.move(position)
}

// Update walks, turns and applies gravity for one frame of length dt.
func (p *Person) Update(dt time.Duration, world *collision.Mesh, state DeviceState) collision.MoveResult {
	if world == nil {
		panic("camera: Update called with a nil collision world")
	}
	secs := dt.Seconds()

	boost := state.LeftTrigger
	if state.Down(KeyLeftShift) {
		boost = 1
	}
	turn := p.TurnRate * secs
	speed := (p.Speed + p.BoostSpeed*boost) * secs

	switch {
	case !p.onGround:
		p.velocityY -= p.gravity * secs
	case state.Pressed(ButtonA) || state.Down(KeySpace):
		p.velocityY = math.Sqrt(2 * p.gravity * p.jumpHeight)
		p.onGround = false
	default:
		p.velocityY = 0
	}

	in := InputFromDevice(state)
	position := p.position
	target := position.
		Add(p.basis.X.Mul(speed * in.Translate.X)).
		Sub(p.basis.Z.Mul(speed * in.Translate.Z))
	target.Y += p.velocityY*secs + p.stepCorrection(secs)
	p.autoMoveY = 0

	result := world.BoxMoveResult(p.box, position, target, p.Move)
	if math.Abs(result.Position.Y-position.Y) < blockedRiseEpsilon && p.velocityY > 0 {
		p.velocityY = 0
	}

	if p.velocityY <= 0 {
		contact := p.Probe.Probe(world, p.box, result.Position, p.stepHeight)
		p.onGround = contact.OnGround
		if contact.OnGround {
			p.autoMoveY = contact.StepOffset
		}
	}

	p.pitch = utils.Clamp(p.pitch-turn*in.Rotate.X, -MaxPitch, MaxPitch)
	yaw := spatialmath.QuatFromAxisAngle(r3.Vector{Y: 1}, -turn*in.Rotate.Y)
	p.basis = p.basis.Rotate(yaw).Orthonormalize()
	p.position = result.Position

	p.updateCamera()
	p.move(result.Position)
	return result
}

// stepCorrection is the part of the pending step offset applied this frame.
func (p *Person) stepCorrection(secs float64) float64 {
	limit := autoStepRate * p.stepHeight * secs
	if p.autoMoveY >= 0 {
		return math.Min(limit, p.autoMoveY)
	}
	return math.Max(-limit, p.autoMoveY)
}

func (p *Person) updateCamera() {
	pitch := spatialmath.QuatFromAxisAngle(p.basis.X, p.pitch)
	p.camera.Basis = p.basis.Rotate(pitch)
	p.camera.Position = p.position.Add(r3.Vector{Y: p.headHeight})
}

// levelBasis keeps the heading of b and makes it upright.
func levelBasis(b spatialmath.Basis) spatialmath.Basis {
	up := r3.Vector{Y: 1}
	x := r3.Vector{X: b.X.X, Z: b.X.Z}
	if x.Norm() < 1e-5 {
		// rolled onto its side, take the heading from the back axis instead
		x = up.Cross(r3.Vector{X: b.Z.X, Z: b.Z.Z})
	}
	x = x.Normalize()
	return spatialmath.Basis{X: x, Y: up, Z: x.Cross(up)}
}
