// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"reflect"
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// nandAnd is y = and(a, b) built from a nand and a not.
var nandAnd = []gs.Instance{
	{Gate: "nand", Output: "n1", Inputs: []string{"a", "b"}},
	{Gate: "not", Output: "y", Inputs: []string{"n1"}},
}

func nodeNames(ns []*gs.Node) []string {
	r := make([]string, len(ns))
	for i, n := range ns {
		r[i] = n.Name()
	}
	return r
}

func TestBuild(t *testing.T) {
	g, err := gs.Build([]gs.Instance{
		{Gate: "and", Output: "w", Inputs: []string{"b", "a", gs.True}},
		{Gate: "xor", Output: "y", Inputs: []string{"w", "c", "w"}},
		{Gate: "or", Output: "z", Inputs: []string{"a", gs.False}},
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if g.Len() != 8 {
		t.Errorf("expected 8 nodes, got %d: %v", g.Len(), nodeNames(g.Nodes()))
	}
	if ins := nodeNames(g.Inputs()); !reflect.DeepEqual(ins, []string{"b", "a", "c"}) {
		t.Errorf("inputs = %v", ins)
	}
	if outs := nodeNames(g.Sinks()); !reflect.DeepEqual(outs, []string{"y", "z"}) {
		t.Errorf("sinks = %v", outs)
	}

	w := g.Node("w")
	if w.Gate() != gs.And || w.Label() != "and" || w.IsInput() {
		t.Errorf("bad node w: gate %v, label %q", w.Gate(), w.Label())
	}
	if ins := nodeNames(w.Inputs()); !reflect.DeepEqual(ins, []string{"b", "a", gs.True}) {
		t.Errorf("w inputs not in declared order: %v", ins)
	}
	// duplicate connections count once in fanout.
	if f := w.Fanout(); f != 1 {
		t.Errorf("w fanout = %d", f)
	}
	if ins := nodeNames(g.Node("y").Inputs()); !reflect.DeepEqual(ins, []string{"w", "c", "w"}) {
		t.Errorf("y inputs = %v", ins)
	}
	if a := g.Node("a"); !a.IsInput() || a.Label() != "input" || a.Fanout() != 2 {
		t.Errorf("bad node a: %q, fanout %d", a.Label(), a.Fanout())
	}
	if c := g.Node(gs.True); !c.IsConst() || c.IsInput() || c.Label() != "1" {
		t.Errorf("bad constant node: %q", c.Label())
	}
	if g.Node("nope") != nil {
		t.Error("found unknown signal")
	}
}

func TestBuild_errors(t *testing.T) {
	td := []struct {
		name   string
		insts  []gs.Instance
		signal string
	}{
		{"multi_driver", []gs.Instance{
			{Gate: "and", Output: "y", Inputs: []string{"a", "b"}},
			{Gate: "or", Output: "y", Inputs: []string{"a", "b"}},
		}, "y"},
		{"unknown_gate", []gs.Instance{
			{Gate: "buf", Output: "y", Inputs: []string{"a"}},
		}, "y"},
		{"module", []gs.Instance{
			{Gate: "full_adder", Output: "s", Inputs: []string{"a", "b", "c"}},
		}, "s"},
		{"not_arity", []gs.Instance{
			{Gate: "not", Output: "y", Inputs: []string{"a", "b"}},
		}, "y"},
		{"no_input", []gs.Instance{
			{Gate: "or", Output: "y"},
		}, "y"},
		{"const_out", []gs.Instance{
			{Gate: "or", Output: gs.True, Inputs: []string{"a"}},
		}, gs.True},
		{"no_output", []gs.Instance{
			{Gate: "or", Inputs: []string{"a"}},
		}, ""},
		{"empty_input", []gs.Instance{
			{Gate: "or", Output: "y", Inputs: []string{"a", ""}},
		}, "y"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := gs.Build(d.insts)
			if err == nil {
				t.Fatal("expected error")
			}
			se, ok := errors.Cause(err).(*gs.StructuralError)
			if !ok {
				t.Fatalf("got %T: %v", errors.Cause(err), err)
			}
			if se.Signal != d.signal {
				t.Errorf("error on signal %q, expected %q: %v", se.Signal, d.signal, err)
			}
		})
	}
}

func TestBuild_empty(t *testing.T) {
	g, err := gs.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 0 || len(g.Inputs()) != 0 || len(g.Sinks()) != 0 {
		t.Errorf("non-empty graph: %v", nodeNames(g.Nodes()))
	}
}
