package collision

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/spatialmath"
)

// Face is a triangle of a collision Mesh. It references its corners by index into the mesh's shared
// vertex buffer. Only the front face, given by TriangleNormal of its corners, is solid.
type Face struct {
	indices [3]int
	bounds  spatialmath.AABB
}

// NewFace returns the face with corners vertices[i0], vertices[i1] and vertices[i2].
func NewFace(i0, i1, i2 int, vertices []r3.Vector) *Face {
	f := &Face{indices: [3]int{i0, i1, i2}, bounds: spatialmath.NewEmptyAABB()}
	for _, i := range f.indices {
		f.bounds.AddPoint(vertices[i])
	}
	return f
}

// Bounds returns the bounding box of the face.
func (f *Face) Bounds() spatialmath.AABB {
	return f.bounds
}

// Indices returns the vertex indices of the face corners.
func (f *Face) Indices() [3]int {
	return f.indices
}

// Corners returns the face corners looked up in vertices.
func (f *Face) Corners(vertices []r3.Vector) (r3.Vector, r3.Vector, r3.Vector) {
	return vertices[f.indices[0]], vertices[f.indices[1]], vertices[f.indices[2]]
}

// Normal returns the unit front face normal.
func (f *Face) Normal(vertices []r3.Vector) r3.Vector {
	v0, v1, v2 := f.Corners(vertices)
	return spatialmath.TriangleNormal(v0, v1, v2)
}

// PointIntersect casts the ray (origin, dir) against the front of the face. dir must be unit length
// for the returned distance to be a length.
func (f *Face) PointIntersect(origin, dir r3.Vector, vertices []r3.Vector) (spatialmath.Intersection, bool) {
	v0, v1, v2 := f.Corners(vertices)
	t, u, v, ok := spatialmath.RayTriangleIntersect(origin, dir, v0, v1, v2)
	if !ok {
		return spatialmath.Intersection{}, false
	}
	return spatialmath.Intersection{
		Distance: t,
		Position: spatialmath.BarycentricPoint(v0, v1, v2, u, v),
		Normal:   spatialmath.TriangleNormal(v0, v1, v2),
	}, true
}

// BoxIntersect sweeps box, offset to origin, along the unit direction dir and returns the first
// contact with the face. Three feature pairs are tested and the closest contact wins: box edges
// against face edges, face corners against the box, and box corners against the face. Box features
// facing more than 135 degrees away from dir are skipped.
func (f *Face) BoxIntersect(box spatialmath.AABB, origin, dir r3.Vector, vertices []r3.Vector) (spatialmath.Intersection, bool) {
	best := spatialmath.Intersection{Distance: math.MaxFloat64, Position: origin}
	found := false

	corners := [3]r3.Vector{vertices[f.indices[0]], vertices[f.indices[1]], vertices[f.indices[2]]}
	worldBox := box.Translate(origin)

	edges := worldBox.Edges()
	for i, edgeNormal := range spatialmath.EdgeNormals {
		if edgeNormal.Dot(dir) < -spatialmath.Cos45 {
			continue
		}
		p1, p2 := edges[2*i], edges[2*i+1]
		for j := range corners {
			p3, p4 := corners[j], corners[(j+1)%3]
			dist, pos, ok := spatialmath.EdgeIntersect(p1, p2, dir, p3, p4)
			if !ok || dist >= best.Distance {
				continue
			}
			normal := p2.Sub(p1).Cross(p3.Sub(p4)).Normalize()
			if dir.Dot(normal) > 0 {
				normal = normal.Mul(-1)
			}
			best = spatialmath.Intersection{Distance: dist, Position: pos, Normal: normal}
			found = true
		}
	}

	back := dir.Mul(-1)
	for _, c := range corners {
		face, tNear, _ := worldBox.RayIntersect(c, back)
		if face < 0 || tNear >= best.Distance {
			continue
		}
		best = spatialmath.Intersection{Distance: tNear, Position: c, Normal: spatialmath.FaceNormals[face].Mul(-1)}
		found = true
	}

	v0, v1, v2 := corners[0], corners[1], corners[2]
	for i, p := range worldBox.Vertices() {
		if spatialmath.VertexNormals[i].Dot(dir) < -spatialmath.Cos45 {
			continue
		}
		t, u, v, ok := spatialmath.RayTriangleIntersect(p, dir, v0, v1, v2)
		if !ok || t >= best.Distance {
			continue
		}
		best = spatialmath.Intersection{
			Distance: t,
			Position: spatialmath.BarycentricPoint(v0, v1, v2, u, v),
			Normal:   spatialmath.TriangleNormal(v0, v1, v2),
		}
		found = true
	}

	return best, found
}
