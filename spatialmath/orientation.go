package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Basis is a right handed set of axes. X points right, Y up and Z backwards, so the facing
// direction is -Z.
type Basis struct {
	X r3.Vector
	Y r3.Vector
	Z r3.Vector
}

// NewIdentityBasis returns the world axes.
func NewIdentityBasis() Basis {
	return Basis{
		X: r3.Vector{X: 1},
		Y: r3.Vector{Y: 1},
		Z: r3.Vector{Z: 1},
	}
}

// NewLookAtBasis returns the basis of an observer at position looking towards target, with up
// used to resolve roll. If position and target coincide the identity basis is returned.
func NewLookAtBasis(position, target, up r3.Vector) Basis {
	back := position.Sub(target)
	if back.Norm() < directionEpsilon {
		return NewIdentityBasis()
	}
	z := back.Normalize()
	x := up.Cross(z)
	if x.Norm() < directionEpsilon {
		// looking straight along up, pick any perpendicular right axis
		x = z.Ortho()
	}
	x = x.Normalize()
	return Basis{X: x, Y: z.Cross(x), Z: z}
}

// Forward returns the facing direction, -Z.
func (b Basis) Forward() r3.Vector {
	return b.Z.Mul(-1)
}

// Orthonormalize re-derives mutually perpendicular unit axes from X and Y, removing the drift
// that accumulates when rotations are composed every frame.
func (b Basis) Orthonormalize() Basis {
	z := b.X.Cross(b.Y).Normalize()
	y := z.Cross(b.X).Normalize()
	x := y.Cross(z).Normalize()
	return Basis{X: x, Y: y, Z: z}
}

// Rotate applies the rotation q to every axis.
func (b Basis) Rotate(q quat.Number) Basis {
	return Basis{
		X: RotateVector(q, b.X),
		Y: RotateVector(q, b.Y),
		Z: RotateVector(q, b.Z),
	}
}

// IsOrthonormal reports whether the axes are unit length and mutually perpendicular within eps.
func (b Basis) IsOrthonormal(eps float64) bool {
	return math.Abs(b.X.Norm()-1) <= eps &&
		math.Abs(b.Y.Norm()-1) <= eps &&
		math.Abs(b.Z.Norm()-1) <= eps &&
		math.Abs(b.X.Dot(b.Y)) <= eps &&
		math.Abs(b.Y.Dot(b.Z)) <= eps &&
		math.Abs(b.Z.Dot(b.X)) <= eps
}

// QuatFromAxisAngle returns the unit quaternion rotating by angle radians about axis, counter
// clockwise when looking down the axis towards the origin. A zero axis yields the identity.
func QuatFromAxisAngle(axis r3.Vector, angle float64) quat.Number {
	if axis.Norm() < directionEpsilon {
		return quat.Number{Real: 1}
	}
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}
