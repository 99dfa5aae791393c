package collision

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/spatialmath"
)

// groundPart is a 20x20 quad at y=0 facing up.
func groundPart() MeshPart {
	return MeshPart{
		Name:      "ground",
		Positions: []r3.Vector{{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}, {X: -10, Y: 0, Z: 10}, {X: 10, Y: 0, Z: 10}},
		Indices:   []int{0, 1, 2, 1, 3, 2},
	}
}

// wallXPart is a large triangle in the plane x facing -X. Its edges stay far from the origin.
func wallXPart(x float64) MeshPart {
	return MeshPart{
		Name:      "wall x",
		Positions: []r3.Vector{{X: x, Y: -10, Z: -10}, {X: x, Y: 50, Z: -10}, {X: x, Y: -10, Z: 50}},
		Indices:   []int{0, 1, 2},
	}
}

// wallZPart is a large triangle in the plane z facing -Z.
func wallZPart(z float64) MeshPart {
	return MeshPart{
		Name:      "wall z",
		Positions: []r3.Vector{{X: -10, Y: -10, Z: z}, {X: 50, Y: -10, Z: z}, {X: -10, Y: 50, Z: z}},
		Indices:   []int{0, 1, 2},
	}
}

func newTestMesh(t *testing.T, parts ...MeshPart) *Mesh {
	t.Helper()
	m, err := NewMesh(parts, 3, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return m
}

func cube(half float64) spatialmath.AABB {
	return spatialmath.NewCubeAABB(-half, half)
}

func vectorAlmostEqual(t *testing.T, actual, expected r3.Vector, eps float64) {
	t.Helper()
	test.That(t, actual.X, test.ShouldAlmostEqual, expected.X, eps)
	test.That(t, actual.Y, test.ShouldAlmostEqual, expected.Y, eps)
	test.That(t, actual.Z, test.ShouldAlmostEqual, expected.Z, eps)
}
