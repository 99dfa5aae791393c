package meshio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
)

func TestReadPLY(t *testing.T) {
	part, err := ReadPLY("data/ramp.ply")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, part.Name, test.ShouldEqual, "ramp.ply")
	test.That(t, part.Positions, test.ShouldHaveLength, 8)
	test.That(t, part.Positions[6], test.ShouldResemble, r3.Vector{X: 20, Y: 10, Z: 5})
	test.That(t, part.Indices, test.ShouldResemble, []int{0, 2, 1, 0, 3, 2, 4, 6, 5, 4, 7, 6})

	m, err := collision.NewMesh([]collision.MeshPart{part}, 3, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Faces(), test.ShouldHaveLength, 4)
	for i, f := range m.Faces() {
		n := f.Normal(m.Vertices())
		if i < 2 {
			test.That(t, n.Y, test.ShouldAlmostEqual, 1.)
		} else {
			test.That(t, n.X, test.ShouldAlmostEqual, -n.Y)
			test.That(t, n.Y, test.ShouldBeGreaterThan, 0)
		}
	}

	// a ray dropped onto the ramp lands on its front face
	hit, ok := m.PointIntersect(r3.Vector{X: 15, Y: 20, Z: 0}, r3.Vector{X: 15, Y: -20, Z: 0})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Position.Y, test.ShouldAlmostEqual, 5.)

	_, err = ReadPLY("data/missing.ply")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot open PLY file")
}

const plyHeader = "ply\nformat ascii 1.0\n"

func TestFromPLYErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		err   string
	}{
		{"not ply", "solid cube\nendsolid\n", "cannot parse PLY"},
		{"binary", "ply\nformat binary_little_endian 1.0\nend_header\n", "cannot parse PLY"},
		{
			"no vertices",
			plyHeader + "element vertex 0\nproperty float x\nend_header\n",
			"has no vertices",
		},
		{
			"missing coordinate",
			plyHeader + "element vertex 1\nproperty float x\nproperty float y\nend_header\n1 2",
			"vertex 0 property z",
		},
		{
			"line",
			plyHeader + "element vertex 2\nproperty float x\nproperty float y\nproperty float z\n" +
				"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 1 1\n2 0 1",
			"face 0 has 2 vertices",
		},
		{
			"no index list",
			plyHeader + "element vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
				"element face 1\nproperty uchar flags\nend_header\n0 0 0\n1 1 1\n1 0 0\n7",
			"missing vertex_indices property",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromPLY(tc.name, strings.NewReader(tc.input))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}

func TestFromPLYVertexIndex(t *testing.T) {
	input := plyHeader + "element vertex 3\nproperty double x\nproperty double y\nproperty double z\n" +
		"element face 1\nproperty list uchar uint vertex_index\nend_header\n" +
		"0 0 0\n0 0 1.5\n1.25 0 0\n3 0 1 2"
	part, err := FromPLY("tri", strings.NewReader(input))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, part.Positions, test.ShouldResemble, []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1.5}, {X: 1.25, Y: 0, Z: 0}})
	test.That(t, part.Indices, test.ShouldResemble, []int{0, 2, 1})
}

func TestPLYRoundTrip(t *testing.T) {
	for _, part := range []collision.MeshPart{
		Room(10.5, 4, 6.25),
		Stairs(3, 4, 0.3, 1.1),
		{Name: "odd", Positions: []r3.Vector{{X: -1e6, Y: 1e-7, Z: 3}, {X: 0.1, Y: 0.2, Z: 0.3}, {X: -4, Y: 5, Z: -6}}, Indices: []int{0, 1, 2}},
	} {
		t.Run(part.Name, func(t *testing.T) {
			var buf bytes.Buffer
			test.That(t, WritePLY(&buf, part), test.ShouldBeNil)

			read, err := FromPLY(part.Name, &buf)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, read.Positions, test.ShouldResemble, part.Positions)
			test.That(t, read.Indices, test.ShouldResemble, part.Indices)
		})
	}

	bad := collision.MeshPart{Name: "bad", Positions: []r3.Vector{{}}, Indices: []int{0, 0}}
	test.That(t, WritePLY(&bytes.Buffer{}, bad), test.ShouldNotBeNil)
}
