package cli

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/boxcollider/collision"
)

// ProbeResult summarises a probe. The distance fields are zero when nothing was hit.
type ProbeResult struct {
	Rays   int
	Hits   int
	Mean   float64
	Median float64
	P95    float64
	Min    float64
	Max    float64
}

// HitRatio is the fraction of rays that hit a face.
func (r ProbeResult) HitRatio() float64 {
	if r.Rays == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Rays)
}

// ProbeAction casts rays from the origin over the configured level.
func ProbeAction(c *cli.Context) error {
	_, world, err := loadLevel(c)
	if err != nil {
		return err
	}
	logger := loggerFromContext(c)

	origin := world.Bounds().Center()
	if values := c.Float64Slice(probeFlagOrigin); len(values) > 0 {
		if len(values) != 3 {
			return errors.Errorf("--%s needs exactly 3 values, got %d", probeFlagOrigin, len(values))
		}
		origin = r3.Vector{X: values[0], Y: values[1], Z: values[2]}
	}
	dist := c.Float64(probeFlagRange)
	if dist == 0 {
		dist = world.Bounds().Size().Norm()
	}

	logger.Debugw("probing", "origin", origin, "rays", c.Int(probeFlagRays), "range", dist)
	result, err := Probe(world, origin, c.Int(probeFlagRays), dist)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Probe", "Value"})
	t.AppendRow(table.Row{"origin", formatVector(origin)})
	t.AppendRow(table.Row{"rays", result.Rays})
	t.AppendRow(table.Row{"hits", result.Hits})
	t.AppendRow(table.Row{"hit ratio", fmt.Sprintf("%.3f", result.HitRatio())})
	if result.Hits > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"mean distance", fmt.Sprintf("%.3f", result.Mean)})
		t.AppendRow(table.Row{"median distance", fmt.Sprintf("%.3f", result.Median)})
		t.AppendRow(table.Row{"p95 distance", fmt.Sprintf("%.3f", result.P95)})
		t.AppendRow(table.Row{"min distance", fmt.Sprintf("%.3f", result.Min)})
		t.AppendRow(table.Row{"max distance", fmt.Sprintf("%.3f", result.Max)})
	}
	t.Render()
	return nil
}

// Probe casts rays of length dist from origin in directions spread evenly over the unit sphere
// and summarises the distances to the first face each one hits.
func Probe(world *collision.Mesh, origin r3.Vector, rays int, dist float64) (ProbeResult, error) {
	if rays <= 0 {
		return ProbeResult{}, errors.Errorf("ray count must be positive, got %d", rays)
	}
	if dist <= 0 {
		return ProbeResult{}, errors.Errorf("ray range must be positive, got %v", dist)
	}

	result := ProbeResult{Rays: rays}
	var distances stats.Float64Data
	for _, dir := range SphereDirections(rays) {
		hit, ok := world.PointIntersect(origin, origin.Add(dir.Mul(dist)))
		if !ok {
			continue
		}
		distances = append(distances, hit.Distance)
	}
	result.Hits = len(distances)
	if result.Hits == 0 {
		return result, nil
	}

	var err error
	if result.Mean, err = distances.Mean(); err != nil {
		return result, err
	}
	if result.Median, err = distances.Median(); err != nil {
		return result, err
	}
	if result.P95, err = distances.Percentile(95); err != nil {
		return result, err
	}
	if result.Min, err = distances.Min(); err != nil {
		return result, err
	}
	if result.Max, err = distances.Max(); err != nil {
		return result, err
	}
	return result, nil
}

// SphereDirections returns n unit vectors on a Fibonacci spiral. None of them lies on the poles.
func SphereDirections(n int) []r3.Vector {
	golden := math.Pi * (3 - math.Sqrt(5))
	dirs := make([]r3.Vector, n)
	for i := range dirs {
		y := 1 - (float64(i)+0.5)*2/float64(n)
		radius := math.Sqrt(1 - y*y)
		theta := golden * float64(i)
		dirs[i] = r3.Vector{X: math.Cos(theta) * radius, Y: y, Z: math.Sin(theta) * radius}
	}
	return dirs
}
