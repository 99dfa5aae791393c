// Package collision resolves points and axis aligned boxes moving through a static triangle world.
package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/octree"
	"go.viam.com/boxcollider/spatialmath"
)

// queryInflation pads the candidate query box so that faces touching its boundary are not missed.
const queryInflation = 1e-3

// MeshPart is one vertex and index buffer pair of a level mesh, placed in the world by Transform.
// Indices is a triangle list. A zero Transform means the identity.
type MeshPart struct {
	Name      string
	Positions []r3.Vector
	Indices   []int
	Transform mgl64.Mat4
}

// Mesh is the collision world: every part flattened into one vertex buffer and one face list, with
// the faces indexed by an octree. It is not safe for concurrent use.
type Mesh struct {
	logger   logging.Logger
	vertices []r3.Vector
	faces    []*Face
	bounds   spatialmath.AABB
	tree     *octree.Tree

	// reused between queries
	candidates []octree.ElementID
}

// NewMesh flattens parts into world space and builds an octree over their faces subdivided
// subdivisions times (at most octree.MaxDepth).
func NewMesh(parts []MeshPart, subdivisions int, logger logging.Logger) (*Mesh, error) {
	numVertices, numIndices := 0, 0
	for i, part := range parts {
		if len(part.Indices)%3 != 0 {
			return nil, errors.Errorf("mesh part %d (%q) has %d indices, not a multiple of 3", i, part.Name, len(part.Indices))
		}
		numVertices += len(part.Positions)
		numIndices += len(part.Indices)
	}
	if numIndices == 0 {
		return nil, errors.New("collision mesh has no faces")
	}

	m := &Mesh{
		logger:   logger,
		vertices: make([]r3.Vector, 0, numVertices),
		faces:    make([]*Face, 0, numIndices/3),
		bounds:   spatialmath.NewEmptyAABB(),
	}

	degenerate := 0
	for i, part := range parts {
		offset := len(m.vertices)
		for _, p := range part.Positions {
			world := spatialmath.TransformPoint(part.Transform, p)
			m.vertices = append(m.vertices, world)
			m.bounds.AddPoint(world)
		}
		for j := 0; j < len(part.Indices); j += 3 {
			var idx [3]int
			for k := range idx {
				local := part.Indices[j+k]
				if local < 0 || local >= len(part.Positions) {
					return nil, errors.Errorf("mesh part %d (%q) index %d out of range [0, %d)",
						i, part.Name, local, len(part.Positions))
				}
				idx[k] = local + offset
			}
			face := NewFace(idx[0], idx[1], idx[2], m.vertices)
			if face.Normal(m.vertices).Norm2() == 0 {
				degenerate++
				continue
			}
			m.faces = append(m.faces, face)
		}
	}
	if len(m.faces) == 0 {
		return nil, errors.New("collision mesh has only degenerate faces")
	}

	m.tree = octree.New(m.bounds, subdivisions, logger.Sublogger("octree"))
	for _, f := range m.faces {
		m.tree.AddElement(f)
	}

	logger.Debugw("built collision mesh",
		"parts", len(parts),
		"vertices", len(m.vertices),
		"faces", len(m.faces),
		"degenerate_faces", degenerate,
		"depth", m.tree.Depth(),
	)
	return m, nil
}

// Bounds returns the bounding box of every vertex.
func (m *Mesh) Bounds() spatialmath.AABB {
	return m.bounds
}

// Vertices returns the world space vertex buffer. It must not be modified.
func (m *Mesh) Vertices() []r3.Vector {
	return m.vertices
}

// Faces returns the faces of the mesh.
func (m *Mesh) Faces() []*Face {
	return m.faces
}

// Stats reports the occupancy of the octree.
func (m *Mesh) Stats() octree.Stats {
	return m.tree.Stats()
}

// PointIntersect returns the closest front facing hit on the segment from start to end.
func (m *Mesh) PointIntersect(start, end r3.Vector) (spatialmath.Intersection, bool) {
	delta := end.Sub(start)
	length := delta.Norm()
	if length == 0 {
		return spatialmath.Intersection{Position: start}, false
	}

	query := spatialmath.NewEmptyAABB()
	query.AddPoint(start)
	query.AddPoint(end)

	dir := delta.Mul(1 / length)
	return m.closest(query.Inflate(queryInflation), length, start, func(e octree.Element) (spatialmath.Intersection, bool) {
		return e.PointIntersect(start, dir, m.vertices)
	})
}

// BoxIntersect returns the first contact of box, offset to start, swept to end.
func (m *Mesh) BoxIntersect(box spatialmath.AABB, start, end r3.Vector) (spatialmath.Intersection, bool) {
	delta := end.Sub(start)
	length := delta.Norm()
	if length == 0 {
		return spatialmath.Intersection{Position: start}, false
	}

	query := box.Translate(start)
	query.AddPoint(query.Min.Add(delta))
	query.AddPoint(query.Max.Add(delta))

	dir := delta.Mul(1 / length)
	return m.closest(query.Inflate(queryInflation), length, start, func(e octree.Element) (spatialmath.Intersection, bool) {
		return e.BoxIntersect(box, start, dir, m.vertices)
	})
}

// closest runs test against every element under query and keeps the nearest hit closer than
// maxDistance.
func (m *Mesh) closest(
	query spatialmath.AABB,
	maxDistance float64,
	start r3.Vector,
	test func(octree.Element) (spatialmath.Intersection, bool),
) (spatialmath.Intersection, bool) {
	m.candidates = m.tree.AppendElements(m.candidates[:0], query)

	best := spatialmath.Intersection{Distance: maxDistance, Position: start}
	found := false
	for _, id := range m.candidates {
		hit, ok := test(m.tree.Element(id))
		if ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// GetElements returns the ids of every element whose bounds intersect query.
func (m *Mesh) GetElements(query spatialmath.AABB) []octree.ElementID {
	return m.tree.GetElements(query)
}

// Element returns the element with the given id, or nil.
func (m *Mesh) Element(id octree.ElementID) octree.Element {
	return m.tree.Element(id)
}

// AddElement adds a static element to the world.
func (m *Mesh) AddElement(e octree.Element) octree.ElementID {
	return m.tree.AddElement(e)
}

// AddDynamicElement adds an element that can later be moved or removed.
func (m *Mesh) AddDynamicElement(e octree.Element) octree.ElementID {
	return m.tree.AddDynamicElement(e)
}

// UpdateDynamicElement re-files a dynamic element after its bounds changed.
func (m *Mesh) UpdateDynamicElement(id octree.ElementID) error {
	return m.tree.UpdateDynamicElement(id)
}

// RemoveElement removes a dynamic element from the world.
func (m *Mesh) RemoveElement(id octree.ElementID) error {
	return m.tree.RemoveElement(id)
}
