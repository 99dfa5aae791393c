package camera

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
)

const frame = 10 * time.Millisecond

// newLevel is a 200x200 floor at y=0 with a wall facing -X at x=10.
func newLevel(t *testing.T) *collision.Mesh {
	t.Helper()
	parts := []collision.MeshPart{
		{
			Name:      "floor",
			Positions: []r3.Vector{{X: -100, Y: 0, Z: -100}, {X: 100, Y: 0, Z: -100}, {X: -100, Y: 0, Z: 100}, {X: 100, Y: 0, Z: 100}},
			Indices:   []int{0, 1, 2, 1, 3, 2},
		},
		{
			Name:      "wall",
			Positions: []r3.Vector{{X: 10, Y: -50, Z: -50}, {X: 10, Y: 150, Z: -50}, {X: 10, Y: -50, Z: 150}},
			Indices:   []int{0, 1, 2},
		},
	}
	m, err := collision.NewMesh(parts, 4, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return m
}

func vectorAlmostEqual(t *testing.T, actual, expected r3.Vector, eps float64) {
	t.Helper()
	test.That(t, actual.X, test.ShouldAlmostEqual, expected.X, eps)
	test.That(t, actual.Y, test.ShouldAlmostEqual, expected.Y, eps)
	test.That(t, actual.Z, test.ShouldAlmostEqual, expected.Z, eps)
}
