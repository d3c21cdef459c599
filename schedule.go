// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// A Schedule is an evaluation order for the nodes of a circuit graph together
// with the level of each node.
//
// The level of a node is 0 if it has no driving gate, otherwise one more than
// the highest level of its gate inputs. The order lists nodes by increasing
// level, then by first appearance in the netlist, so every gate comes after
// all of its inputs and repeated runs over the same graph yield the same
// order.
//
type Schedule struct {
	order  []*Node
	levels []int // indexed by node ID
	depth  int
}

// NewSchedule computes the evaluation schedule of g. It returns a *CycleError
// if g contains a combinational loop.
//
func NewSchedule(g *Graph) (*Schedule, error) {
	var loops [][]graph.Node
	for _, n := range g.nodes {
		if n.self {
			loops = append(loops, []graph.Node{n})
		}
	}
	sorted, err := topo.SortStabilized(g.g, nil)
	if err != nil {
		uo, ok := err.(topo.Unorderable)
		if !ok {
			return nil, errors.Wrap(err, "topological sort")
		}
		loops = append(loops, uo...)
	}
	if len(loops) > 0 {
		return nil, cycleError(loops)
	}

	s := &Schedule{
		order:  make([]*Node, len(sorted)),
		levels: make([]int, len(g.nodes)),
	}
	for i, gn := range sorted {
		n := gn.(*Node)
		l := 0
		for _, in := range n.ins {
			if il := s.levels[in.id] + 1; il > l {
				l = il
			}
		}
		s.levels[n.id] = l
		if l > s.depth {
			s.depth = l
		}
		s.order[i] = n
	}
	sort.Slice(s.order, func(i, j int) bool {
		li, lj := s.levels[s.order[i].id], s.levels[s.order[j].id]
		if li != lj {
			return li < lj
		}
		return s.order[i].id < s.order[j].id
	})
	return s, nil
}

func cycleError(loops [][]graph.Node) *CycleError {
	for _, l := range loops {
		sort.Slice(l, func(i, j int) bool { return l[i].ID() < l[j].ID() })
	}
	sort.Slice(loops, func(i, j int) bool { return loops[i][0].ID() < loops[j][0].ID() })
	e := &CycleError{Cycles: make([][]string, len(loops))}
	for i, l := range loops {
		names := make([]string, len(l))
		for j, n := range l {
			names[j] = n.(*Node).name
		}
		e.Cycles[i] = names
	}
	return e
}

// Order returns the evaluation order.
//
func (s *Schedule) Order() []*Node {
	o := make([]*Node, len(s.order))
	copy(o, s.order)
	return o
}

// Level returns the level of node n.
//
func (s *Schedule) Level(n *Node) int {
	return s.levels[n.id]
}

// Depth returns the highest level in the schedule.
//
func (s *Schedule) Depth() int { return s.depth }

// Layers returns the nodes grouped by level, in evaluation order.
//
func (s *Schedule) Layers() [][]*Node {
	if len(s.order) == 0 {
		return nil
	}
	ls := make([][]*Node, s.depth+1)
	for _, n := range s.order {
		l := s.levels[n.id]
		ls[l] = append(ls[l], n)
	}
	return ls
}
