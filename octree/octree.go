// Package octree implements a fixed depth octree that indexes elements by their axis aligned bounds.
// Every node is built up front; elements are stored in every leaf their bounds intersect, so queries
// deduplicate results with a per query stamp.
package octree

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/spatialmath"
)

// MaxDepth is the deepest subdivision a Tree will build. Depth d has 8^d leaves.
const MaxDepth = 6

const noChildren = -1

// ElementID identifies an element within the Tree it was added to.
type ElementID int32

// Element is anything the tree can index and the collision queries can test.
type Element interface {
	// Bounds returns the current world space bounds of the element.
	Bounds() spatialmath.AABB
	// PointIntersect casts the ray (origin, dir) against the element. vertices is the shared
	// vertex buffer of the owning world.
	PointIntersect(origin, dir r3.Vector, vertices []r3.Vector) (spatialmath.Intersection, bool)
	// BoxIntersect sweeps box, positioned at origin, along dir against the element.
	BoxIntersect(box spatialmath.AABB, origin, dir r3.Vector, vertices []r3.Vector) (spatialmath.Intersection, bool)
}

type node struct {
	bounds     spatialmath.AABB
	firstChild int32
	elements   []ElementID
}

func (n *node) isLeaf() bool {
	return n.firstChild == noChildren
}

// Tree is a fixed depth octree. It is not safe for concurrent use.
type Tree struct {
	logger logging.Logger
	depth  int
	nodes  []node

	elements []Element
	// occupied holds, for dynamic elements, the indices of the leaves they are stored in. It is nil
	// for static elements.
	occupied [][]int32
	dynamic  []bool
	stamps   []uint32
	// free holds ids of removed elements, reused before the slices grow.
	free []ElementID

	recurseID uint32
	live      int
}

// New builds every node of an octree covering bounds, subdivided depth times. depth is clamped to
// [0, MaxDepth].
func New(bounds spatialmath.AABB, depth int, logger logging.Logger) *Tree {
	clamped := depth
	if clamped > MaxDepth {
		clamped = MaxDepth
	}
	if clamped < 0 {
		clamped = 0
	}
	if clamped != depth {
		logger.Warnw("octree depth out of range, clamping", "requested", depth, "used", clamped)
	}

	numNodes := 0
	for level, width := 0, 1; level <= clamped; level, width = level+1, width*8 {
		numNodes += width
	}

	tree := &Tree{
		logger: logger,
		depth:  clamped,
		nodes:  make([]node, 1, numNodes),
	}
	tree.nodes[0] = node{bounds: bounds, firstChild: noChildren}
	tree.split(0, clamped)

	logger.Debugw("built octree", "depth", clamped, "nodes", len(tree.nodes), "bounds", bounds.String())
	return tree
}

func (tree *Tree) split(idx int32, depth int) {
	if depth == 0 {
		return
	}
	first := int32(len(tree.nodes))
	tree.nodes[idx].firstChild = first
	for _, child := range tree.nodes[idx].bounds.Children() {
		tree.nodes = append(tree.nodes, node{bounds: child, firstChild: noChildren})
	}
	for i := int32(0); i < 8; i++ {
		tree.split(first+i, depth-1)
	}
}

// Bounds returns the bounds of the root node.
func (tree *Tree) Bounds() spatialmath.AABB {
	return tree.nodes[0].bounds
}

// Depth returns the subdivision depth after clamping.
func (tree *Tree) Depth() int {
	return tree.depth
}

// Len returns the number of elements currently in the tree.
func (tree *Tree) Len() int {
	return tree.live
}

// AddElement inserts a static element into every leaf its bounds intersect. Static elements can
// not be moved or removed.
func (tree *Tree) AddElement(e Element) ElementID {
	id := tree.newID(e, false)
	tree.insert(0, id, e.Bounds(), false)
	return id
}

// AddDynamicElement inserts an element that may later be moved with UpdateDynamicElement or
// removed with RemoveElement.
func (tree *Tree) AddDynamicElement(e Element) ElementID {
	id := tree.newID(e, true)
	tree.insert(0, id, e.Bounds(), true)
	return id
}

func (tree *Tree) newID(e Element, dynamic bool) ElementID {
	if n := len(tree.free); n > 0 {
		id := tree.free[n-1]
		tree.free = tree.free[:n-1]
		tree.elements[id] = e
		tree.dynamic[id] = dynamic
		tree.stamps[id] = 0
		tree.live++
		return id
	}
	if len(tree.elements) >= math.MaxInt32 {
		panic("octree: too many elements")
	}
	id := ElementID(len(tree.elements))
	tree.elements = append(tree.elements, e)
	tree.occupied = append(tree.occupied, nil)
	tree.dynamic = append(tree.dynamic, dynamic)
	tree.stamps = append(tree.stamps, 0)
	tree.live++
	return id
}

func (tree *Tree) insert(idx int32, id ElementID, bounds spatialmath.AABB, record bool) {
	n := &tree.nodes[idx]
	if !n.bounds.BoxIntersect(bounds) {
		return
	}
	if n.isLeaf() {
		n.elements = append(n.elements, id)
		if record {
			tree.occupied[id] = append(tree.occupied[id], idx)
		}
		return
	}
	for i := int32(0); i < 8; i++ {
		tree.insert(n.firstChild+i, id, bounds, record)
	}
}

// UpdateDynamicElement re-files a dynamic element under its current bounds.
func (tree *Tree) UpdateDynamicElement(id ElementID) error {
	if err := tree.checkDynamic(id); err != nil {
		return err
	}
	tree.unlink(id)
	tree.insert(0, id, tree.elements[id].Bounds(), true)
	return nil
}

// RemoveElement removes a dynamic element. The cost is proportional to the number of leaves it
// occupies. The id may be handed out again by a later add.
func (tree *Tree) RemoveElement(id ElementID) error {
	if err := tree.checkDynamic(id); err != nil {
		return err
	}
	tree.unlink(id)
	tree.elements[id] = nil
	tree.dynamic[id] = false
	tree.free = append(tree.free, id)
	tree.live--
	return nil
}

func (tree *Tree) checkDynamic(id ElementID) error {
	if id < 0 || int(id) >= len(tree.elements) || tree.elements[id] == nil {
		return errors.Errorf("unknown octree element %d", id)
	}
	if !tree.dynamic[id] {
		return errors.Errorf("octree element %d is static", id)
	}
	return nil
}

func (tree *Tree) unlink(id ElementID) {
	for _, idx := range tree.occupied[id] {
		bucket := tree.nodes[idx].elements
		for i, other := range bucket {
			if other == id {
				last := len(bucket) - 1
				bucket[i] = bucket[last]
				tree.nodes[idx].elements = bucket[:last]
				break
			}
		}
	}
	tree.occupied[id] = tree.occupied[id][:0]
}

// Element returns the element with the given id, or nil if there is none.
func (tree *Tree) Element(id ElementID) Element {
	if id < 0 || int(id) >= len(tree.elements) {
		return nil
	}
	return tree.elements[id]
}

// GetElements returns every element whose bounds intersect query, each exactly once.
func (tree *Tree) GetElements(query spatialmath.AABB) []ElementID {
	return tree.AppendElements(nil, query)
}

// AppendElements is GetElements appending to dst, so that callers can reuse a buffer.
func (tree *Tree) AppendElements(dst []ElementID, query spatialmath.AABB) []ElementID {
	tree.recurseID++
	if tree.recurseID == 0 {
		// stamps from before the wrap could collide with new ids
		for i := range tree.stamps {
			tree.stamps[i] = 0
		}
		tree.recurseID = 1
	}
	return tree.collect(0, query, dst)
}

func (tree *Tree) collect(idx int32, query spatialmath.AABB, dst []ElementID) []ElementID {
	n := &tree.nodes[idx]
	if !n.bounds.BoxIntersect(query) {
		return dst
	}
	if !n.isLeaf() {
		for i := int32(0); i < 8; i++ {
			dst = tree.collect(n.firstChild+i, query, dst)
		}
		return dst
	}
	for _, id := range n.elements {
		if tree.stamps[id] == tree.recurseID {
			continue
		}
		tree.stamps[id] = tree.recurseID
		if tree.elements[id].Bounds().BoxIntersect(query) {
			dst = append(dst, id)
		}
	}
	return dst
}
