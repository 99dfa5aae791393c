package collision

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestFacePointIntersect(t *testing.T) {
	vertices := []r3.Vector{{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}, {X: -10, Y: 0, Z: 10}}
	f := NewFace(0, 1, 2, vertices)

	test.That(t, f.Bounds().Min, test.ShouldResemble, r3.Vector{X: -10, Y: 0, Z: -10})
	test.That(t, f.Bounds().Max, test.ShouldResemble, r3.Vector{X: 10, Y: 0, Z: 10})
	test.That(t, f.Normal(vertices), test.ShouldResemble, r3.Vector{X: 0, Y: 1, Z: 0})

	t.Run("front", func(t *testing.T) {
		hit, ok := f.PointIntersect(r3.Vector{X: -2, Y: 3, Z: -4}, r3.Vector{X: 0, Y: -1, Z: 0}, vertices)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.Distance, test.ShouldAlmostEqual, 3.)
		vectorAlmostEqual(t, hit.Position, r3.Vector{X: -2, Y: 0, Z: -4}, 1e-9)
		vectorAlmostEqual(t, hit.Normal, r3.Vector{X: 0, Y: 1, Z: 0}, 1e-9)
	})
	t.Run("back", func(t *testing.T) {
		_, ok := f.PointIntersect(r3.Vector{X: -2, Y: -3, Z: -4}, r3.Vector{X: 0, Y: 1, Z: 0}, vertices)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestFaceBoxIntersect(t *testing.T) {
	t.Run("box falling onto face", func(t *testing.T) {
		vertices := []r3.Vector{{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}, {X: -10, Y: 0, Z: 10}}
		f := NewFace(0, 1, 2, vertices)
		hit, ok := f.BoxIntersect(cube(1), r3.Vector{X: -3, Y: 5, Z: -3}, r3.Vector{X: 0, Y: -1, Z: 0}, vertices)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.Distance, test.ShouldAlmostEqual, 4., 1e-9)
		vectorAlmostEqual(t, hit.Normal, r3.Vector{X: 0, Y: 1, Z: 0}, 1e-9)
		test.That(t, hit.Position.Y, test.ShouldAlmostEqual, 0., 1e-9)
	})

	t.Run("box reaching a face corner", func(t *testing.T) {
		vertices := []r3.Vector{{X: 5, Y: 0, Z: 0}, {X: 10, Y: 0, Z: -3}, {X: 10, Y: 0, Z: 3}}
		f := NewFace(0, 1, 2, vertices)
		hit, ok := f.BoxIntersect(cube(1), r3.Vector{}, r3.Vector{X: 1, Y: 0, Z: 0}, vertices)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.Distance, test.ShouldAlmostEqual, 4., 1e-9)
		test.That(t, hit.Position, test.ShouldResemble, r3.Vector{X: 5, Y: 0, Z: 0})
		vectorAlmostEqual(t, hit.Normal, r3.Vector{X: -1, Y: 0, Z: 0}, 1e-9)
	})

	t.Run("box edge crossing face edge", func(t *testing.T) {
		// vertical triangle in z=0, seen from its back so only edge contacts count
		vertices := []r3.Vector{{X: 5, Y: -5, Z: 0}, {X: 5, Y: 5, Z: 0}, {X: 8, Y: 0, Z: 0}}
		f := NewFace(0, 1, 2, vertices)
		dir := r3.Vector{X: 1, Y: 0, Z: 1}.Normalize()
		hit, ok := f.BoxIntersect(cube(1), r3.Vector{X: 0, Y: 0, Z: -4}, dir, vertices)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.Normal.Dot(dir), test.ShouldBeLessThan, 0)
		test.That(t, hit.Distance, test.ShouldBeGreaterThan, 0)
	})

	t.Run("moving away", func(t *testing.T) {
		vertices := []r3.Vector{{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}, {X: -10, Y: 0, Z: 10}}
		f := NewFace(0, 1, 2, vertices)
		_, ok := f.BoxIntersect(cube(1), r3.Vector{X: 0, Y: 5, Z: 0}, r3.Vector{X: 0, Y: 1, Z: 0}, vertices)
		test.That(t, ok, test.ShouldBeFalse)
	})
}
