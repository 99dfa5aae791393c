// Package camera contains first person controllers that move a view through a collision world.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/spatialmath"
	"go.viam.com/boxcollider/utils"
)

// Projection defaults.
const (
	DefaultNearPlane = 1.0
	DefaultFarPlane  = 10000.0
	DefaultAspect    = 1.0
)

// DefaultAngle is the default vertical field of view in radians.
var DefaultAngle = utils.DegToRad(60)

// Camera is a view into the world: an orientation and position plus perspective parameters.
type Camera struct {
	Basis    spatialmath.Basis
	Position r3.Vector

	// Angle is the vertical field of view in radians.
	Angle  float64
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera returns a camera at position looking at lookAt with Y up.
func NewCamera(position, lookAt r3.Vector, angle, aspect float64) Camera {
	return Camera{
		Basis:    spatialmath.NewLookAtBasis(position, lookAt, r3.Vector{Y: 1}),
		Position: position,
		Angle:    angle,
		Aspect:   aspect,
		Near:     DefaultNearPlane,
		Far:      DefaultFarPlane,
	}
}

// World returns the matrix placing the camera in the world.
func (c Camera) World() mgl64.Mat4 {
	return spatialmath.BasisToMat4(c.Basis, c.Position)
}

// View returns the inverse of World.
func (c Camera) View() mgl64.Mat4 {
	return c.World().Inv()
}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(c.Angle, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Forward returns the unit facing direction.
func (c Camera) Forward() r3.Vector {
	return c.Basis.Forward()
}
