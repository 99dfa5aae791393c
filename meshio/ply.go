// Package meshio loads collision meshes from files and builds simple procedural levels.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/boxcollider/collision"
)

// vertex list property names written by common exporters
var faceListProperties = []string{"vertex_indices", "vertex_index"}

// ReadPLY reads the ASCII PLY file at path into a mesh part named after the file.
func ReadPLY(path string) (collision.MeshPart, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return collision.MeshPart{}, errors.Wrapf(err, "cannot open PLY file %q", path)
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return FromPLY(filepath.Base(path), f)
}

// FromPLY parses an ASCII PLY stream. Each face is fan triangulated. PLY polygons wind counter
// clockwise around their front face while mesh parts wind clockwise, so every triangle is reversed.
func FromPLY(name string, r io.Reader) (part collision.MeshPart, err error) {
	defer func() {
		// the parser panics on malformed input
		if p := recover(); p != nil {
			part = collision.MeshPart{}
			err = errors.Errorf("cannot parse PLY %q: %v", name, p)
		}
	}()
	ply := goply.New(r)

	part.Name = name
	vertices := ply.Elements("vertex")
	if len(vertices) == 0 {
		return collision.MeshPart{}, errors.Errorf("PLY %q has no vertices", name)
	}
	part.Positions = make([]r3.Vector, len(vertices))
	for i, v := range vertices {
		var coords [3]float64
		for axis, prop := range []string{"x", "y", "z"} {
			c, err := toFloat(v.Property(prop))
			if err != nil {
				return collision.MeshPart{}, errors.Wrapf(err, "PLY %q vertex %d property %s", name, i, prop)
			}
			coords[axis] = c
		}
		part.Positions[i] = r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}
	}

	for i, f := range ply.Elements("face") {
		polygon, err := faceIndices(f)
		if err != nil {
			return collision.MeshPart{}, errors.Wrapf(err, "PLY %q face %d", name, i)
		}
		if len(polygon) < 3 {
			return collision.MeshPart{}, errors.Errorf("PLY %q face %d has %d vertices", name, i, len(polygon))
		}
		for k := 1; k+1 < len(polygon); k++ {
			part.Indices = append(part.Indices, polygon[0], polygon[k+1], polygon[k])
		}
	}
	return part, nil
}

func faceIndices(f goply.PlyElement) ([]int, error) {
	for _, prop := range faceListProperties {
		raw, ok := f[prop]
		if !ok {
			continue
		}
		list, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Errorf("property %s is not a list", prop)
		}
		indices := make([]int, len(list))
		for i, v := range list {
			idx, err := toFloat(v)
			if err != nil {
				return nil, err
			}
			indices[i] = int(idx)
		}
		return indices, nil
	}
	return nil, errors.Errorf("missing %s property", faceListProperties[0])
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int8:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, errors.Errorf("unsupported PLY value type %T", v)
	}
}

// WritePLY writes part as an ASCII PLY stream that FromPLY reads back to the same positions and
// indices. The part transform is not applied.
func WritePLY(w io.Writer, part collision.MeshPart) error {
	if len(part.Indices)%3 != 0 {
		return errors.Errorf("mesh part %q has %d indices, not a multiple of 3", part.Name, len(part.Indices))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintf(bw, "comment %s\n", part.Name)
	fmt.Fprintf(bw, "element vertex %d\n", len(part.Positions))
	fmt.Fprintln(bw, "property double x")
	fmt.Fprintln(bw, "property double y")
	fmt.Fprintln(bw, "property double z")
	fmt.Fprintf(bw, "element face %d\n", len(part.Indices)/3)
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")
	for _, p := range part.Positions {
		fmt.Fprintf(bw, "%v %v %v\n", p.X, p.Y, p.Z)
	}
	for i := 0; i < len(part.Indices); i += 3 {
		fmt.Fprintf(bw, "3 %d %d %d\n", part.Indices[i], part.Indices[i+2], part.Indices[i+1])
	}
	return errors.Wrap(bw.Flush(), "cannot write PLY")
}
