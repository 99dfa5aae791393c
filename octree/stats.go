package octree

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Stats summarises how elements are distributed over the leaves of a Tree.
type Stats struct {
	Depth           int
	Nodes           int
	Leaves          int
	EmptyLeaves     int
	Elements        int
	DynamicElements int
	// References counts element entries over all leaves. It exceeds Elements when elements
	// straddle leaf boundaries.
	References int
	MaxBucket  int
}

// Stats walks every leaf and reports occupancy.
func (tree *Tree) Stats() Stats {
	s := Stats{Depth: tree.depth, Nodes: len(tree.nodes), Elements: tree.live}
	for i := range tree.nodes {
		n := &tree.nodes[i]
		if !n.isLeaf() {
			continue
		}
		s.Leaves++
		if len(n.elements) == 0 {
			s.EmptyLeaves++
		}
		s.References += len(n.elements)
		if len(n.elements) > s.MaxBucket {
			s.MaxBucket = len(n.elements)
		}
	}
	for id, e := range tree.elements {
		if e != nil && tree.dynamic[id] {
			s.DynamicElements++
		}
	}
	return s
}

// AverageBucket is the mean number of elements per occupied leaf.
func (s Stats) AverageBucket() float64 {
	occupied := s.Leaves - s.EmptyLeaves
	if occupied == 0 {
		return 0
	}
	return float64(s.References) / float64(occupied)
}

// String renders the stats as a table.
func (s Stats) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Octree", "Value"})
	t.AppendRow(table.Row{"depth", s.Depth})
	t.AppendRow(table.Row{"nodes", s.Nodes})
	t.AppendRow(table.Row{"leaves", s.Leaves})
	t.AppendRow(table.Row{"empty leaves", s.EmptyLeaves})
	t.AppendRow(table.Row{"elements", s.Elements})
	t.AppendRow(table.Row{"dynamic elements", s.DynamicElements})
	t.AppendRow(table.Row{"leaf references", s.References})
	t.AppendRow(table.Row{"largest leaf", s.MaxBucket})
	t.AppendRow(table.Row{"mean occupied leaf", fmt.Sprintf("%.2f", s.AverageBucket())})
	return t.Render()
}
