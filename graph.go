// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
)

// Constant signal names. They can be used as gate inputs but never driven.
//
const (
	False = "1'b0"
	True  = "1'b1"
)

// An Instance is a primitive gate instance: the gate type, the signal it
// drives and its ordered input signals.
//
type Instance struct {
	Gate   string
	Output string
	Inputs []string
}

// node kinds
const (
	kindInput = iota
	kindConst
	kindGate
)

// A Node is a signal in a circuit graph.
//
type Node struct {
	id     int64
	name   string
	kind   int
	gate   GateType
	value  bool    // constant value
	ins    []*Node // driving gate inputs, in declared order
	fanout int
	self   bool // the driving gate reads its own output
}

// ID implements gonum's graph.Node.
//
func (n *Node) ID() int64 { return n.id }

// Name returns the signal name.
//
func (n *Node) Name() string { return n.name }

// Gate returns the type of the gate driving n, or 0 for primary inputs and
// constants.
//
func (n *Node) Gate() GateType { return n.gate }

// IsInput returns true if n is a primary input: a signal with no driving gate
// that is not a constant.
//
func (n *Node) IsInput() bool { return n.kind == kindInput }

// IsConst returns true if n is one of the constant signals True or False.
//
func (n *Node) IsConst() bool { return n.kind == kindConst }

// Inputs returns the inputs of the gate driving n in declared order.
//
func (n *Node) Inputs() []*Node {
	ins := make([]*Node, len(n.ins))
	copy(ins, n.ins)
	return ins
}

// Fanout returns the number of distinct gates that n drives.
//
func (n *Node) Fanout() int { return n.fanout }

// Label returns the gate name of n, "input" for primary inputs, or "0" and "1"
// for constants.
//
func (n *Node) Label() string {
	switch n.kind {
	case kindInput:
		return "input"
	case kindConst:
		if n.value {
			return "1"
		}
		return "0"
	}
	return n.gate.String()
}

func (n *Node) String() string { return n.name }

// Graph is a combinational circuit graph. Nodes are signals and edges run from
// each gate input to the gate output. A Graph is read-only once built and can
// be shared between goroutines.
//
type Graph struct {
	g      *simple.DirectedGraph
	nodes  []*Node // indexed by node ID
	byName map[string]*Node
}

// Build builds a circuit graph from a list of primitive gate instances.
//
// Signals that are never driven by a gate become primary inputs. Build fails
// with a *StructuralError if an instance uses an unknown gate type, has an
// invalid input count, drives a constant, or drives a signal already driven
// by another instance.
//
func Build(instances []Instance) (*Graph, error) {
	g := &Graph{
		g:      simple.NewDirectedGraph(),
		byName: make(map[string]*Node, len(instances)*2),
	}
	for i := range instances {
		if err := g.add(&instances[i]); err != nil {
			return nil, errors.Wrap(err, "instance #"+strconv.Itoa(i))
		}
	}
	return g, nil
}

func isConst(name string) bool {
	return name == True || name == False
}

// node returns the node for the given signal name, creating it as an input or
// constant if needed.
//
func (g *Graph) node(name string) *Node {
	if n := g.byName[name]; n != nil {
		return n
	}
	n := &Node{id: int64(len(g.nodes)), name: name, kind: kindInput}
	if isConst(name) {
		n.kind = kindConst
		n.value = name == True
	}
	g.nodes = append(g.nodes, n)
	g.byName[name] = n
	g.g.AddNode(n)
	return n
}

func (g *Graph) add(inst *Instance) error {
	if inst.Output == "" {
		return &StructuralError{Gate: inst.Gate, Msg: "gate instance has no output signal"}
	}
	t, err := ParseGateType(inst.Gate)
	if err != nil {
		return &StructuralError{Signal: inst.Output, Gate: inst.Gate, Msg: "not a primitive gate"}
	}
	if err = t.checkArity(len(inst.Inputs)); err != nil {
		err.(*StructuralError).Signal = inst.Output
		return err
	}
	if isConst(inst.Output) {
		return &StructuralError{Signal: inst.Output, Gate: inst.Gate, Msg: "gate output connected to a constant"}
	}
	out := g.node(inst.Output)
	if out.kind == kindGate {
		return &StructuralError{Signal: inst.Output, Gate: inst.Gate, Msg: "signal already driven by a " + out.gate.String() + " gate"}
	}
	out.kind = kindGate
	out.gate = t
	out.ins = make([]*Node, len(inst.Inputs))
	for i, name := range inst.Inputs {
		if name == "" {
			return &StructuralError{Signal: inst.Output, Gate: inst.Gate, Msg: "empty input signal name"}
		}
		in := g.node(name)
		out.ins[i] = in
		if in == out {
			// gonum graphs do not hold self edges.
			out.self = true
			continue
		}
		if !g.g.HasEdgeFromTo(in.id, out.id) {
			g.g.SetEdge(g.g.NewEdge(in, out))
			in.fanout++
		}
	}
	return nil
}

// Len returns the number of signals in g.
//
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all signals in g in the order they first appear in the
// netlist.
//
func (g *Graph) Nodes() []*Node {
	ns := make([]*Node, len(g.nodes))
	copy(ns, g.nodes)
	return ns
}

// Node returns the node for the named signal or nil if there is no such
// signal.
//
func (g *Graph) Node(name string) *Node {
	return g.byName[name]
}

// Inputs returns the primary inputs of g, that is all signals with no driving
// gate except constants, in netlist order.
//
func (g *Graph) Inputs() []*Node {
	var ins []*Node
	for _, n := range g.nodes {
		if n.kind == kindInput {
			ins = append(ins, n)
		}
	}
	return ins
}

// Sinks returns all signals that do not drive any gate, in netlist order.
// These are the circuit outputs.
//
func (g *Graph) Sinks() []*Node {
	var outs []*Node
	for _, n := range g.nodes {
		if n.fanout == 0 && n.kind != kindConst {
			outs = append(outs, n)
		}
	}
	return outs
}
