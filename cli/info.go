package cli

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// InfoAction prints a summary of the configured level.
func InfoAction(c *cli.Context) error {
	cfg, world, err := loadLevel(c)
	if err != nil {
		return err
	}

	source := cfg.Level.Primitive
	if cfg.Level.File != "" {
		source = cfg.Level.File
	}
	bounds := world.Bounds()

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Level", "Value"})
	t.AppendRow(table.Row{"source", source})
	t.AppendRow(table.Row{"vertices", len(world.Vertices())})
	t.AppendRow(table.Row{"faces", len(world.Faces())})
	t.AppendRow(table.Row{"bounds min", formatVector(bounds.Min)})
	t.AppendRow(table.Row{"bounds max", formatVector(bounds.Max)})
	t.AppendRow(table.Row{"size", formatVector(bounds.Size())})
	t.Render()

	fmt.Fprintln(c.App.Writer, world.Stats().String())
	return nil
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
