// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package aig compiles circuit graphs to and-inverter graphs.
//
// An and-inverter circuit evaluates 64 rows of a truth table at once and can
// be handed to a SAT solver. The package uses it to cross-check simulation
// results and to prove that two netlists compute the same functions.
//
package aig

import (
	"context"
	"strconv"

	gs "github.com/db47h/gatesim"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// A Circuit is a combinational circuit compiled to an and-inverter graph.
//
type Circuit struct {
	g       *gs.Graph
	order   []*gs.Node
	inputs  []string
	outputs []string

	c   *logic.C
	in  []z.Lit
	out []z.Lit
}

// Compile compiles a scheduled graph. inputs is the declared input list, in
// the same order and with the same checks as for gatesim.NewSimulator. The
// outputs of the circuit are those of the simulator.
//
func Compile(g *gs.Graph, s *gs.Schedule, inputs []string) (*Circuit, error) {
	sim, err := gs.NewSimulator(g, s, inputs)
	if err != nil {
		return nil, err
	}
	c := &Circuit{
		g:       g,
		order:   s.Order(),
		inputs:  sim.Inputs(),
		outputs: sim.Outputs(),
		c:       logic.NewCCap(2 * g.Len()),
	}
	ins := make(map[string]z.Lit, len(c.inputs))
	for _, n := range c.inputs {
		m := c.c.Lit()
		ins[n] = m
		c.in = append(c.in, m)
	}
	c.out, err = c.emit(c.c, ins)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CompileNetlist builds, schedules and compiles a netlist.
//
func CompileNetlist(n *gs.Netlist, inputs []string) (*Circuit, error) {
	g, err := n.Build()
	if err != nil {
		return nil, err
	}
	s, err := gs.NewSchedule(g)
	if err != nil {
		return nil, err
	}
	if inputs == nil {
		inputs = n.Inputs
	}
	return Compile(g, s, inputs)
}

// emit adds the gates of the circuit to dst, with the given literals for the
// inputs, and returns the literals of the outputs.
//
func (c *Circuit) emit(dst *logic.C, ins map[string]z.Lit) ([]z.Lit, error) {
	lits := make(map[*gs.Node]z.Lit, len(c.order))
	for _, n := range c.order {
		switch {
		case n.IsInput():
			lits[n] = ins[n.Name()]
		case n.IsConst():
			if n.Name() == gs.True {
				lits[n] = dst.T
			} else {
				lits[n] = dst.F
			}
		default:
			args := make([]z.Lit, 0, len(n.Inputs()))
			for _, in := range n.Inputs() {
				args = append(args, lits[in])
			}
			m, err := gate(dst, n.Gate(), args)
			if err != nil {
				return nil, errors.Wrap(err, "signal "+n.Name())
			}
			lits[n] = m
		}
	}
	out := make([]z.Lit, len(c.outputs))
	for i, name := range c.outputs {
		out[i] = lits[c.g.Node(name)]
	}
	return out, nil
}

func gate(c *logic.C, t gs.GateType, args []z.Lit) (z.Lit, error) {
	if len(args) == 0 {
		return z.LitNull, &gs.StructuralError{Gate: t.String(), Msg: "gate has no input"}
	}
	switch t {
	case gs.And:
		return c.Ands(args...), nil
	case gs.Nand:
		return c.Ands(args...).Not(), nil
	case gs.Or:
		return c.Ors(args...), nil
	case gs.Nor:
		return c.Ors(args...).Not(), nil
	case gs.Not:
		return args[0].Not(), nil
	case gs.Xor, gs.Xnor:
		m := args[0]
		for _, a := range args[1:] {
			m = c.Xor(m, a)
		}
		if t == gs.Xnor {
			m = m.Not()
		}
		return m, nil
	}
	return z.LitNull, &gs.UnsupportedGateError{Gate: t.String()}
}

// Inputs returns the input names in row order.
//
func (c *Circuit) Inputs() []string { return c.inputs }

// Outputs returns the output names.
//
func (c *Circuit) Outputs() []string { return c.outputs }

// Len returns the number of nodes in the and-inverter graph.
//
func (c *Circuit) Len() int { return c.c.Len() }

func value(vs []bool, m z.Lit) bool {
	v := vs[m.Var()]
	if !m.IsPos() {
		v = !v
	}
	return v
}

// Eval evaluates the circuit for the given input values and returns the output
// values.
//
func (c *Circuit) Eval(in []bool) []bool {
	vs := make([]bool, c.c.Len())
	// the constant variable
	vs[c.c.T.Var()] = true
	for i, m := range c.in {
		vs[m.Var()] = in[i]
	}
	c.c.Eval(vs)
	out := make([]bool, len(c.out))
	for i, m := range c.out {
		out[i] = value(vs, m)
	}
	return out
}

// Eval64 evaluates the 64 rows of the truth table starting at row base. Bit j
// of the returned value for output o is the value of o in row base+j. Rows past
// the end of the table evaluate as if their index wrapped around.
//
func (c *Circuit) Eval64(base uint64) []uint64 {
	vs := make([]uint64, c.c.Len())
	vs[c.c.T.Var()] = ^uint64(0)
	k := uint(len(c.in))
	for i, m := range c.in {
		var w uint64
		shift := k - 1 - uint(i)
		for j := uint64(0); j < 64; j++ {
			w |= ((base + j) >> shift & 1) << j
		}
		vs[m.Var()] = w
	}
	c.c.Eval64(vs)
	out := make([]uint64, len(c.out))
	for i, m := range c.out {
		w := vs[m.Var()]
		if !m.IsPos() {
			w = ^w
		}
		out[i] = w
	}
	return out
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Verify checks a simulation result against the circuit, 64 rows at a time.
// It returns a *gatesim.EvaluationError naming the first output that differs.
//
func (c *Circuit) Verify(ctx context.Context, r *gs.Result) error {
	if !sameNames(r.Inputs, c.inputs) || !sameNames(r.Outputs, c.outputs) {
		return errors.New("result and circuit have different inputs or outputs")
	}
	if uint64(len(r.Rows)) != uint64(1)<<uint(len(c.inputs)) {
		return errors.New("incomplete result: " + strconv.Itoa(len(r.Rows)) + " rows")
	}
	for base := 0; base < len(r.Rows); base += 64 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ws := c.Eval64(uint64(base))
		for j := 0; j < 64 && base+j < len(r.Rows); j++ {
			row := &r.Rows[base+j]
			for o, w := range ws {
				if row.Outputs[o] != (w>>uint(j)&1 != 0) {
					return &gs.EvaluationError{Signal: c.outputs[o], Msg: "simulated value differs from and-inverter graph in row " + strconv.Itoa(base+j)}
				}
			}
		}
	}
	return nil
}

// A Counterexample is an assignment of the inputs for which two circuits
// differ.
//
type Counterexample struct {
	Inputs  []string // input names, in the row order of the first circuit
	Values  []bool
	Outputs []string // outputs that differ
}

// Equivalent checks that two circuits compute the same function. Inputs are
// matched by name and both circuits must have the same set of inputs. Every
// output of a must be an output of b; extra outputs of b are ignored.
//
// Equivalent returns nil if the circuits are equivalent, or a Counterexample.
//
func Equivalent(a, b *Circuit) (*Counterexample, error) {
	if len(a.inputs) != len(b.inputs) {
		return nil, errors.Errorf("input count mismatch: %d != %d", len(a.inputs), len(b.inputs))
	}
	bOut := make(map[string]int, len(b.outputs))
	for i, n := range b.outputs {
		bOut[n] = i
	}
	for _, n := range a.outputs {
		if _, ok := bOut[n]; !ok {
			return nil, &gs.EvaluationError{Signal: n, Msg: "output missing from second circuit"}
		}
	}

	m := logic.NewCCap(a.c.Len() + b.c.Len())
	ins := make(map[string]z.Lit, len(a.inputs))
	lits := make([]z.Lit, len(a.inputs))
	for i, n := range a.inputs {
		lits[i] = m.Lit()
		ins[n] = lits[i]
	}
	for _, n := range b.inputs {
		if _, ok := ins[n]; !ok {
			return nil, &gs.EvaluationError{Signal: n, Msg: "input missing from first circuit"}
		}
	}
	oa, err := a.emit(m, ins)
	if err != nil {
		return nil, err
	}
	ob, err := b.emit(m, ins)
	if err != nil {
		return nil, err
	}
	diffs := make([]z.Lit, len(oa))
	for i, n := range a.outputs {
		diffs[i] = m.Xor(oa[i], ob[bOut[n]])
	}
	miter := m.Ors(diffs...)
	cex := &Counterexample{Inputs: a.inputs, Values: make([]bool, len(lits))}
	switch miter {
	case m.F:
		return nil, nil
	case m.T:
		// any input row will do
	default:
		s := gini.New()
		m.ToCnfFrom(s, miter)
		// pin the constant variable
		s.Add(m.T)
		s.Add(0)
		s.Assume(miter)
		switch s.Solve() {
		case 1:
		case -1:
			return nil, nil
		default:
			return nil, errors.New("SAT solver returned no result")
		}
		for i, l := range lits {
			// inputs outside of the miter's cone are free
			if l.Var() <= s.MaxVar() {
				cex.Values[i] = s.Value(l)
			}
		}
	}
	// evaluate both circuits to report the differing outputs
	va := a.Eval(cex.Values)
	bin := make([]bool, len(b.inputs))
	for i, n := range b.inputs {
		for j, an := range a.inputs {
			if an == n {
				bin[i] = cex.Values[j]
			}
		}
	}
	vb := b.Eval(bin)
	for i, n := range a.outputs {
		if va[i] != vb[bOut[n]] {
			cex.Outputs = append(cex.Outputs, n)
		}
	}
	return cex, nil
}
