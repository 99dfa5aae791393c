// Package spatialmath defines the boxes, triangles and rotations the collision code is built from.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

const (
	// Cos45 is the cosine of 45 degrees. It is the culling threshold for box features facing away
	// from a sweep and the slope limit used by ground probes.
	Cos45 = 0.70710678

	invSqrt3 = 0.57735027

	// directionEpsilon is the magnitude below which a direction component or a length is treated as zero.
	directionEpsilon = 1e-5
)

// VertexNormals holds the outward diagonal normal of each vertex returned by AABB.Vertices.
var VertexNormals = [8]r3.Vector{
	{X: -invSqrt3, Y: -invSqrt3, Z: -invSqrt3},
	{X: invSqrt3, Y: invSqrt3, Z: invSqrt3},
	{X: invSqrt3, Y: -invSqrt3, Z: -invSqrt3},
	{X: -invSqrt3, Y: invSqrt3, Z: invSqrt3},
	{X: invSqrt3, Y: invSqrt3, Z: -invSqrt3},
	{X: -invSqrt3, Y: -invSqrt3, Z: invSqrt3},
	{X: -invSqrt3, Y: invSqrt3, Z: -invSqrt3},
	{X: invSqrt3, Y: -invSqrt3, Z: invSqrt3},
}

// EdgeNormals holds the outward normal of each edge returned by AABB.Edges.
var EdgeNormals = [12]r3.Vector{
	{X: -Cos45, Y: 0, Z: -Cos45},
	{X: 0, Y: Cos45, Z: -Cos45},
	{X: Cos45, Y: 0, Z: -Cos45},
	{X: 0, Y: -Cos45, Z: -Cos45},
	{X: 0, Y: Cos45, Z: Cos45},
	{X: -Cos45, Y: 0, Z: Cos45},
	{X: 0, Y: -Cos45, Z: Cos45},
	{X: Cos45, Y: 0, Z: Cos45},
	{X: -Cos45, Y: -Cos45, Z: 0},
	{X: -Cos45, Y: Cos45, Z: 0},
	{X: Cos45, Y: Cos45, Z: 0},
	{X: Cos45, Y: -Cos45, Z: 0},
}

// FaceNormals is the ordered list of box face normals, indexed by the face ids RayIntersect returns.
var FaceNormals = [6]r3.Vector{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: -1},
}

// The 12 edges of a box as pairs of indices into AABB.Vertices, in the order of EdgeNormals.
var boxEdgeIndices = [12][2]int{
	{0, 6}, {6, 4}, {4, 2}, {2, 0},
	{1, 3}, {3, 5}, {5, 7}, {7, 1},
	{0, 5}, {3, 6}, {4, 1}, {7, 2},
}

// AABB is an axis aligned bounding box defined by its minimum and maximum corners.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the box spanning min to max.
func NewAABB(min, max r3.Vector) AABB {
	return AABB{Min: min, Max: max}
}

// NewCubeAABB returns the box spanning [min, max] on every axis.
func NewCubeAABB(min, max float64) AABB {
	return AABB{
		Min: r3.Vector{X: min, Y: min, Z: min},
		Max: r3.Vector{X: max, Y: max, Z: max},
	}
}

// NewEmptyAABB returns an inverted box that contains nothing. It is grown with AddPoint.
func NewEmptyAABB() AABB {
	return NewCubeAABB(math.MaxFloat64, -math.MaxFloat64)
}

// String returns a human readable string that represents the box.
func (b AABB) String() string {
	return fmt.Sprintf("AABB | Min: X:%.3f, Y:%.3f, Z:%.3f | Max: X:%.3f, Y:%.3f, Z:%.3f",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// IsEmpty reports whether the box is inverted on any axis, as a fresh NewEmptyAABB is.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// AddPoint grows the box so that it includes p.
func (b *AABB) AddPoint(p r3.Vector) {
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
}

// Center returns the center point of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box on each axis.
func (b AABB) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Translate returns the box moved by v.
func (b AABB) Translate(v r3.Vector) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Inflate returns the box grown by d on every side.
func (b AABB) Inflate(d float64) AABB {
	pad := r3.Vector{X: d, Y: d, Z: d}
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// BoxIntersect returns true if the two boxes overlap on all three axes. Touching boxes intersect.
func (b AABB) BoxIntersect(other AABB) bool {
	return b.Max.X >= other.Min.X && b.Min.X <= other.Max.X &&
		b.Max.Y >= other.Min.Y && b.Min.Y <= other.Max.Y &&
		b.Max.Z >= other.Min.Z && b.Min.Z <= other.Max.Z
}

// PointInside returns true if p lies in the half open box (Min, Max].
func (b AABB) PointInside(p r3.Vector) bool {
	return p.X > b.Min.X && p.X <= b.Max.X &&
		p.Y > b.Min.Y && p.Y <= b.Max.Y &&
		p.Z > b.Min.Z && p.Z <= b.Max.Z
}

// Children splits the box at its center into 8 octants. Bit 0 of the child index selects the
// upper X half, bit 1 the upper Y half and bit 2 the upper Z half.
func (b AABB) Children() [8]AABB {
	center := b.Center()
	var children [8]AABB
	for i := range children {
		child := AABB{Min: b.Min, Max: center}
		if i&1 != 0 {
			child.Min.X, child.Max.X = center.X, b.Max.X
		}
		if i&2 != 0 {
			child.Min.Y, child.Max.Y = center.Y, b.Max.Y
		}
		if i&4 != 0 {
			child.Min.Z, child.Max.Z = center.Z, b.Max.Z
		}
		children[i] = child
	}
	return children
}

// Vertices returns the 8 corners of the box in the order of VertexNormals.
func (b AABB) Vertices() [8]r3.Vector {
	return [8]r3.Vector{
		b.Min,
		b.Max,
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
	}
}

// Edges returns the 12 edges of the box as consecutive point pairs, in the order of EdgeNormals.
func (b AABB) Edges() [24]r3.Vector {
	verts := b.Vertices()
	var edges [24]r3.Vector
	for i, e := range boxEdgeIndices {
		edges[2*i] = verts[e[0]]
		edges[2*i+1] = verts[e[1]]
	}
	return edges
}

// RayIntersect intersects the ray (origin, dir) with the box using the slab method. It returns the
// index into FaceNormals of the face the ray enters through together with the entry and exit ray
// parameters, or -1 if the ray misses. If the origin is inside the box the exit face is returned.
// Direction components smaller than 1e-5 are treated as parallel to that slab.
func (b AABB) RayIntersect(origin, dir r3.Vector) (int, float64, float64) {
	tNear := -math.MaxFloat64
	tFar := math.MaxFloat64
	nearFace, farFace := -1, -1

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(d[axis]) < directionEpsilon {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return -1, tNear, tFar
			}
			continue
		}
		inv := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * inv
		t2 := (hi[axis] - o[axis]) * inv

		// travelling towards +axis enters through the minimum face, whose normal is -axis
		face := axis + 3
		if t1 > t2 {
			t1, t2 = t2, t1
			face = axis
		}
		if t1 > tNear {
			tNear = t1
			nearFace = face
		}
		if t2 < tFar {
			tFar = t2
			farFace = oppositeFace(face)
		}
		if tNear > tFar || tFar < directionEpsilon {
			return -1, tNear, tFar
		}
	}

	if tNear < 0 {
		return farFace, tNear, tFar
	}
	return nearFace, tNear, tFar
}

func oppositeFace(face int) int {
	if face > 2 {
		return face - 3
	}
	return face + 3
}
