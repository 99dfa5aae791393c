package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// R3ToVec3 converts an r3.Vector to an mgl64 vector.
func R3ToVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Vec3ToR3 converts an mgl64 vector to an r3.Vector.
func Vec3ToR3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// IsZeroTransform reports whether m is the zero matrix, which callers use to mean "no transform".
func IsZeroTransform(m mgl64.Mat4) bool {
	return m == mgl64.Mat4{}
}

// TransformPoint applies the affine transform m to p. A zero matrix is treated as the identity.
func TransformPoint(m mgl64.Mat4, p r3.Vector) r3.Vector {
	if IsZeroTransform(m) {
		return p
	}
	return Vec3ToR3(mgl64.TransformCoordinate(R3ToVec3(p), m))
}

// BasisToMat4 returns the world matrix placing basis at position.
func BasisToMat4(b Basis, position r3.Vector) mgl64.Mat4 {
	return mgl64.Mat4FromCols(
		mgl64.Vec4{b.X.X, b.X.Y, b.X.Z, 0},
		mgl64.Vec4{b.Y.X, b.Y.Y, b.Y.Z, 0},
		mgl64.Vec4{b.Z.X, b.Z.Y, b.Z.Z, 0},
		mgl64.Vec4{position.X, position.Y, position.Z, 1},
	)
}

// BasisFromMat4 extracts the rotation axes and translation of a rigid world matrix.
func BasisFromMat4(m mgl64.Mat4) (Basis, r3.Vector) {
	b := Basis{
		X: Vec3ToR3(m.Col(0).Vec3()),
		Y: Vec3ToR3(m.Col(1).Vec3()),
		Z: Vec3ToR3(m.Col(2).Vec3()),
	}
	return b, Vec3ToR3(m.Col(3).Vec3())
}
