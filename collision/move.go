package collision

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/spatialmath"
)

const (
	// moveBias is how far moves stop short of a contact, and how far past the target they look.
	moveBias = 0.01
	// moveEpsilon is the displacement below which nothing moves.
	moveEpsilon = 1e-5
)

// MoveOptions controls the response to each contact of a move. After a contact the reflected
// direction is split into the part along the contact normal and the part along the surface;
// Friction scales the surface part and Bump the normal part.
type MoveOptions struct {
	Friction      float64
	Bump          float64
	MaxIterations int
}

// DefaultMoveOptions slides along surfaces without bouncing, resolving at most 3 contacts.
func DefaultMoveOptions() MoveOptions {
	return MoveOptions{Friction: 1, Bump: 0, MaxIterations: 3}
}

// MoveResult is the outcome of a move.
type MoveResult struct {
	Position r3.Vector
	// Collided is true if any contact was found along the way.
	Collided bool
	// Iterations is the number of contact queries made, never more than MaxIterations.
	Iterations int
}

// PointMove moves a point from start towards end, sliding along the faces it hits.
func (m *Mesh) PointMove(start, end r3.Vector, opts MoveOptions) (r3.Vector, bool) {
	res := m.PointMoveResult(start, end, opts)
	return res.Position, res.Collided
}

// PointMoveResult is PointMove reporting the number of iterations used.
func (m *Mesh) PointMoveResult(start, end r3.Vector, opts MoveOptions) MoveResult {
	return resolveMove(start, end, opts, m.PointIntersect)
}

// BoxMove moves box, offset to start, towards end, sliding along the faces it hits. The returned
// position is the new offset of the box.
func (m *Mesh) BoxMove(box spatialmath.AABB, start, end r3.Vector, opts MoveOptions) (r3.Vector, bool) {
	res := m.BoxMoveResult(box, start, end, opts)
	return res.Position, res.Collided
}

// BoxMoveResult is BoxMove reporting the number of iterations used.
func (m *Mesh) BoxMoveResult(box spatialmath.AABB, start, end r3.Vector, opts MoveOptions) MoveResult {
	return resolveMove(start, end, opts, func(from, to r3.Vector) (spatialmath.Intersection, bool) {
		return m.BoxIntersect(box, from, to)
	})
}

// resolveMove is the sweep and slide loop shared by point and box moves.
func resolveMove(
	start, end r3.Vector,
	opts MoveOptions,
	intersect func(from, to r3.Vector) (spatialmath.Intersection, bool),
) MoveResult {
	res := MoveResult{Position: start}

	dir := end.Sub(start)
	length := dir.Norm()
	if length < moveEpsilon {
		return res
	}
	remaining := length
	dir = dir.Mul(1 / length)

	pos := start
	target := end
	for budget := opts.MaxIterations; budget > 0; budget-- {
		res.Iterations++
		hit, ok := intersect(pos, target.Add(dir.Mul(moveBias)))
		if !ok {
			pos = target
			break
		}
		res.Collided = true

		// stop short of the surface by moveBias measured along its normal
		dist := hit.Distance - moveBias/math.Abs(dir.Dot(hit.Normal))
		if dist > 0 {
			pos = pos.Add(dir.Mul(dist))
			remaining -= dist
		}

		reflected := dir.Sub(hit.Normal.Mul(2 * dir.Dot(hit.Normal))).Normalize()
		normalPart := hit.Normal.Mul(reflected.Dot(hit.Normal))
		tangentPart := reflected.Sub(normalPart)
		response := tangentPart.Mul(opts.Friction).Add(normalPart.Mul(opts.Bump))

		target = pos.Add(response.Mul(remaining))
		dir = target.Sub(pos)
		length = dir.Norm()
		if length < moveEpsilon {
			break
		}
		dir = dir.Mul(1 / length)
	}

	res.Position = pos
	return res
}
