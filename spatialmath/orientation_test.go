package spatialmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func vectorsAlmostEqual(t *testing.T, a, b r3.Vector) {
	t.Helper()
	test.That(t, a.Sub(b).Norm(), test.ShouldBeLessThan, 1e-9)
}

func TestQuatRotation(t *testing.T) {
	q := QuatFromAxisAngle(r3.Vector{X: 0, Y: 0, Z: 1}, math.Pi/2)
	vectorsAlmostEqual(t, RotateVector(q, r3.Vector{X: 1, Y: 0, Z: 0}), r3.Vector{X: 0, Y: 1, Z: 0})

	q = QuatFromAxisAngle(r3.Vector{X: 0, Y: 2, Z: 0}, math.Pi/2)
	vectorsAlmostEqual(t, RotateVector(q, r3.Vector{X: 0, Y: 0, Z: 1}), r3.Vector{X: 1, Y: 0, Z: 0})

	identity := QuatFromAxisAngle(r3.Vector{}, 1)
	vectorsAlmostEqual(t, RotateVector(identity, r3.Vector{X: 1, Y: 2, Z: 3}), r3.Vector{X: 1, Y: 2, Z: 3})
}

func TestLookAtBasis(t *testing.T) {
	b := NewLookAtBasis(r3.Vector{X: 0, Y: 0, Z: 10}, r3.Vector{}, r3.Vector{X: 0, Y: 1, Z: 0})
	vectorsAlmostEqual(t, b.X, r3.Vector{X: 1, Y: 0, Z: 0})
	vectorsAlmostEqual(t, b.Y, r3.Vector{X: 0, Y: 1, Z: 0})
	vectorsAlmostEqual(t, b.Z, r3.Vector{X: 0, Y: 0, Z: 1})
	vectorsAlmostEqual(t, b.Forward(), r3.Vector{X: 0, Y: 0, Z: -1})

	down := NewLookAtBasis(r3.Vector{X: 0, Y: 10, Z: 0}, r3.Vector{}, r3.Vector{X: 0, Y: 1, Z: 0})
	test.That(t, down.IsOrthonormal(1e-9), test.ShouldBeTrue)
	vectorsAlmostEqual(t, down.Forward(), r3.Vector{X: 0, Y: -1, Z: 0})

	same := NewLookAtBasis(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 0, Y: 1, Z: 0})
	test.That(t, same, test.ShouldResemble, NewIdentityBasis())
}

func TestOrthonormalize(t *testing.T) {
	skewed := Basis{
		X: r3.Vector{X: 1.1, Y: 0.05, Z: 0},
		Y: r3.Vector{X: 0.02, Y: 0.9, Z: 0.01},
		Z: r3.Vector{X: 0, Y: 0, Z: 3},
	}
	test.That(t, skewed.IsOrthonormal(1e-6), test.ShouldBeFalse)
	fixed := skewed.Orthonormalize()
	test.That(t, fixed.IsOrthonormal(1e-9), test.ShouldBeTrue)
	// right handed
	vectorsAlmostEqual(t, fixed.X.Cross(fixed.Y), fixed.Z)

	b := NewIdentityBasis()
	for i := 0; i < 1000; i++ {
		b = b.Rotate(QuatFromAxisAngle(r3.Vector{X: 1, Y: 2, Z: 3}, 0.01)).Orthonormalize()
	}
	test.That(t, b.IsOrthonormal(1e-9), test.ShouldBeTrue)
}

func TestTransformPoint(t *testing.T) {
	p := r3.Vector{X: 1, Y: 1, Z: 1}
	test.That(t, TransformPoint(mgl64.Mat4{}, p), test.ShouldResemble, p)
	vectorsAlmostEqual(t, TransformPoint(mgl64.Translate3D(1, 2, 3), p), r3.Vector{X: 2, Y: 3, Z: 4})
	vectorsAlmostEqual(t, TransformPoint(mgl64.Scale3D(2, 2, 2), p), r3.Vector{X: 2, Y: 2, Z: 2})

	basis := NewLookAtBasis(r3.Vector{X: 3, Y: 4, Z: 5}, r3.Vector{}, r3.Vector{X: 0, Y: 1, Z: 0})
	m := BasisToMat4(basis, r3.Vector{X: 3, Y: 4, Z: 5})
	back, pos := BasisFromMat4(m)
	vectorsAlmostEqual(t, back.X, basis.X)
	vectorsAlmostEqual(t, back.Z, basis.Z)
	vectorsAlmostEqual(t, pos, r3.Vector{X: 3, Y: 4, Z: 5})
	vectorsAlmostEqual(t, TransformPoint(m, r3.Vector{}), r3.Vector{X: 3, Y: 4, Z: 5})
}
