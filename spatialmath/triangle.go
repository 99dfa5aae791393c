package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	// determinantEpsilon rejects back facing and edge-on triangles in RayTriangleIntersect.
	determinantEpsilon = 1e-5
	// barycentricEpsilon widens triangles slightly so that rays through shared edges are not lost.
	barycentricEpsilon = 1e-4
)

// Intersection describes where a ray or swept volume first touches a surface.
type Intersection struct {
	// Distance travelled along the sweep direction before contact.
	Distance float64
	Position r3.Vector
	// Normal is the unit surface normal at the contact, facing against the sweep.
	Normal r3.Vector
}

// TriangleNormal returns the unit front face normal of the triangle (v0, v1, v2). Rays travelling
// against this normal hit the triangle, rays travelling with it pass through.
func TriangleNormal(v0, v1, v2 r3.Vector) r3.Vector {
	return v2.Sub(v0).Cross(v1.Sub(v0)).Normalize()
}

// RayTriangleIntersect intersects a ray with the front face of a triangle using the Möller–Trumbore
// algorithm. It returns the ray parameter t and the barycentric coordinates u, v of the hit point
// (point = (1-u-v)*v0 + u*v1 + v*v2). Back facing triangles and hits at t <= 0 are misses.
// Reference: http://www.graphics.cornell.edu/pubs/1997/MT97.pdf
func RayTriangleIntersect(origin, dir, v0, v1, v2 r3.Vector) (t, u, v float64, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -determinantEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tvec := origin.Sub(v0)
	u = tvec.Dot(pvec) * invDet
	if u < -barycentricEpsilon || u > 1+barycentricEpsilon {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(edge1)
	v = dir.Dot(qvec) * invDet
	if v < -barycentricEpsilon || u+v > 1+barycentricEpsilon {
		return 0, 0, 0, false
	}

	t = edge2.Dot(qvec) * invDet
	if t <= 0 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// BarycentricPoint returns (1-u-v)*v0 + u*v1 + v*v2.
func BarycentricPoint(v0, v1, v2 r3.Vector, u, v float64) r3.Vector {
	return v0.Mul(1 - u - v).Add(v1.Mul(u)).Add(v2.Mul(v))
}

// EdgeIntersect sweeps the edge (p1, p2) along dir and intersects it with the edge (p3, p4).
// On contact it returns the distance travelled along dir and the contact point on (p3, p4).
//
// The plane containing (p1, p2) and dir is crossed by (p3, p4) at a single point; the distance is
// then found in 2D by dropping the dominant axis of the plane normal.
func EdgeIntersect(p1, p2, dir, p3, p4 r3.Vector) (float64, r3.Vector, bool) {
	v1 := p2.Sub(p1)
	v2 := p4.Sub(p3)

	planeDir := v1.Cross(dir)
	if planeDir.Norm2() < directionEpsilon*directionEpsilon {
		// moving edge is parallel to the sweep, it can only touch through its end points
		return 0, r3.Vector{}, false
	}
	planeDir = planeDir.Normalize()
	planeW := planeDir.Dot(p1)

	// both end points of (p3, p4) on the same side of the plane
	if (planeDir.Dot(p3)-planeW)*(planeDir.Dot(p4)-planeW) > 0 {
		return 0, r3.Vector{}, false
	}

	v2 = v2.Normalize()
	cos := planeDir.Dot(v2)
	if math.Abs(cos) < directionEpsilon {
		return 0, r3.Vector{}, false
	}
	crossing := p3.Add(v2.Mul((planeW - planeDir.Dot(p3)) / cos))

	axis := dominantAxis(planeDir)
	p12d := dropAxis(p1, axis)
	v12d := dropAxis(v1, axis)
	ip2d := dropAxis(crossing, axis)
	dir2d := dropAxis(dir, axis)

	denom := v12d[0]*dir2d[1] - v12d[1]*dir2d[0]
	if math.Abs(denom) < directionEpsilon*directionEpsilon {
		return 0, r3.Vector{}, false
	}
	dist := (v12d[0]*(ip2d[1]-p12d[1]) - v12d[1]*(ip2d[0]-p12d[0])) / denom
	if dist < 0 {
		return 0, r3.Vector{}, false
	}

	// the point on (p1, p2) that will reach the crossing must lie strictly between p1 and p2
	onEdge := crossing.Sub(dir.Mul(dist))
	if p1.Sub(onEdge).Dot(p2.Sub(onEdge)) >= 0 {
		return 0, r3.Vector{}, false
	}
	return dist, crossing, true
}

// dominantAxis returns the index of the largest absolute component of v.
func dominantAxis(v r3.Vector) int {
	x, y, z := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	if x > y {
		if x < z {
			return 2
		}
		return 0
	}
	if y < z {
		return 2
	}
	return 1
}

// dropAxis projects v onto the plane of the two remaining axes.
func dropAxis(v r3.Vector, axis int) [2]float64 {
	switch axis {
	case 0:
		return [2]float64{v.Y, v.Z}
	case 1:
		return [2]float64{v.X, v.Z}
	default:
		return [2]float64{v.X, v.Y}
	}
}
