package collision

import (
	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/spatialmath"
)

// BoxElement is a movable box, such as an agent, that can live in a Mesh next to the static faces.
// A BoxElement that is not Solid is only found by GetElements; sweeps pass through it so that an
// agent never collides with its own element.
type BoxElement struct {
	// Box is the extent of the element relative to Position.
	Box      spatialmath.AABB
	Position r3.Vector
	Solid    bool
}

// NewBoxElement returns a non solid element for box placed at position.
func NewBoxElement(box spatialmath.AABB, position r3.Vector) *BoxElement {
	return &BoxElement{Box: box, Position: position}
}

// Bounds returns the world space box.
func (b *BoxElement) Bounds() spatialmath.AABB {
	return b.Box.Translate(b.Position)
}

// PointIntersect casts the ray (origin, dir) against the outside of a solid element.
func (b *BoxElement) PointIntersect(origin, dir r3.Vector, _ []r3.Vector) (spatialmath.Intersection, bool) {
	if !b.Solid {
		return spatialmath.Intersection{}, false
	}
	return rayAgainstBox(b.Bounds(), origin, dir)
}

// BoxIntersect sweeps box, offset to origin, against a solid element. The sweep is reduced to a
// ray against the element grown by the extent of box.
func (b *BoxElement) BoxIntersect(box spatialmath.AABB, origin, dir r3.Vector, _ []r3.Vector) (spatialmath.Intersection, bool) {
	if !b.Solid {
		return spatialmath.Intersection{}, false
	}
	bounds := b.Bounds()
	grown := spatialmath.AABB{Min: bounds.Min.Sub(box.Max), Max: bounds.Max.Sub(box.Min)}
	return rayAgainstBox(grown, origin, dir)
}

// rayAgainstBox reports entry hits only; a ray starting inside the box does not collide.
func rayAgainstBox(box spatialmath.AABB, origin, dir r3.Vector) (spatialmath.Intersection, bool) {
	face, tNear, _ := box.RayIntersect(origin, dir)
	if face < 0 || tNear < 0 {
		return spatialmath.Intersection{}, false
	}
	return spatialmath.Intersection{
		Distance: tNear,
		Position: origin.Add(dir.Mul(tNear)),
		Normal:   spatialmath.FaceNormals[face],
	}, true
}
