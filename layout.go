// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// LayoutSpacing is the horizontal distance between two nodes of the same
// level.
//
const LayoutSpacing = 2.0

// A Placement gives the label, level and 2-D position of a node for drawing.
//
type Placement struct {
	Node  *Node
	Label string
	Level int
	X, Y  float64
}

// Layout places the nodes of a scheduled graph level by level: each level is a
// row at Y = -level and the nodes of a row are centered around X = 0.
//
func Layout(s *Schedule) []Placement {
	var ps []Placement
	for l, ns := range s.Layers() {
		x0 := -LayoutSpacing * float64(len(ns)-1) / 2
		for i, n := range ns {
			ps = append(ps, Placement{
				Node:  n,
				Label: n.Label(),
				Level: l,
				X:     x0 + float64(i)*LayoutSpacing,
				Y:     -float64(l),
			})
		}
	}
	return ps
}

func dotID(n *Node) string { return "n" + strconv.FormatInt(n.id, 10) }

// WriteDot writes the graph in graphviz dot format with one rank per level and
// fixed positions from Layout.
//
func WriteDot(w io.Writer, name string, s *Schedule) error {
	b := bufio.NewWriter(w)
	b.WriteString("digraph " + strconv.Quote(name) + "\n{\n")
	b.WriteString("  node\t[fontname=\"Helvetica\"];\n")
	ps := Layout(s)
	for _, p := range ps {
		shape := "box"
		if p.Node.kind != kindGate {
			shape = "plaintext"
		}
		lbl := p.Node.name
		if p.Node.kind == kindGate {
			lbl += "\n" + p.Label
		}
		b.WriteString("  " + dotID(p.Node) + "\t[label=" + strconv.Quote(lbl) +
			", shape=" + shape +
			", pos=\"" + strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64) + "!\"];\n")
	}
	for _, l := range s.Layers() {
		b.WriteString("  {  rank=same")
		for _, n := range l {
			b.WriteString("; " + dotID(n))
		}
		b.WriteString(";}\n")
	}
	for _, n := range s.order {
		for _, in := range n.ins {
			b.WriteString("  " + dotID(in) + " -> " + dotID(n) + ";\n")
		}
	}
	b.WriteString("}\n")
	return errors.Wrap(b.Flush(), "write dot")
}
