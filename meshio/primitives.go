package meshio

import (
	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/collision"
)

// quads accumulates parallelograms into a mesh part.
type quads struct {
	part collision.MeshPart
}

// add appends the parallelogram spanned by u and v from origin. Its front face normal is v x u.
func (q *quads) add(origin, u, v r3.Vector) {
	base := len(q.part.Positions)
	q.part.Positions = append(q.part.Positions, origin, origin.Add(u), origin.Add(v), origin.Add(u).Add(v))
	q.part.Indices = append(q.part.Indices, base, base+1, base+2, base+1, base+3, base+2)
}

// Floor returns a size by size square at y=0 centered on the origin, facing up.
func Floor(size float64) collision.MeshPart {
	h := size / 2
	q := quads{part: collision.MeshPart{Name: "floor"}}
	q.add(r3.Vector{X: -h, Z: -h}, r3.Vector{X: size}, r3.Vector{Z: size})
	return q.part
}

// Room returns a closed box standing on y=0 and centered on the Y axis, with every face pointing
// inwards.
func Room(width, height, depth float64) collision.MeshPart {
	hw, hd := width/2, depth/2
	x := r3.Vector{X: width}
	y := r3.Vector{Y: height}
	z := r3.Vector{Z: depth}

	q := quads{part: collision.MeshPart{Name: "room"}}
	q.add(r3.Vector{X: -hw, Z: -hd}, x, z)            // floor
	q.add(r3.Vector{X: -hw, Y: height, Z: -hd}, z, x) // ceiling
	q.add(r3.Vector{X: -hw, Z: -hd}, z, y)            // west wall
	q.add(r3.Vector{X: hw, Z: -hd}, y, z)             // east wall
	q.add(r3.Vector{X: -hw, Z: -hd}, y, x)            // north wall
	q.add(r3.Vector{X: -hw, Z: hd}, x, y)             // south wall
	return q.part
}

// Stairs returns a flight of steps climbing towards +X from the origin, width wide along Z and
// centered on it. Each step has a riser facing -X and a tread facing up. The stairs are open at the
// sides and the back.
func Stairs(steps int, width, rise, run float64) collision.MeshPart {
	q := quads{part: collision.MeshPart{Name: "stairs"}}
	for i := 0; i < steps; i++ {
		x := float64(i) * run
		q.add(r3.Vector{X: x, Y: float64(i) * rise, Z: -width / 2}, r3.Vector{Y: rise}, r3.Vector{Z: width})
		q.add(r3.Vector{X: x, Y: float64(i+1) * rise, Z: -width / 2}, r3.Vector{X: run}, r3.Vector{Z: width})
	}
	return q.part
}
