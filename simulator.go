// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"context"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// MaxInputs is the maximum number of primary inputs a Simulator accepts.
//
const MaxInputs = 62

// A Row is one line of a truth table.
//
type Row struct {
	Index   uint64 // row number, the inputs read as a binary number
	Inputs  []bool // in declared input order
	Outputs []bool // in Simulator.Outputs() order
}

// a step computes one gate output from values already in the frame.
type step struct {
	out  int64
	gate GateType
	ins  []int64
}

// Simulator evaluates a circuit over every combination of its primary inputs.
//
// A Simulator is immutable and safe for concurrent use. Each evaluation uses
// its own scratch space.
//
type Simulator struct {
	inputs  []*Node
	outputs []*Node
	consts  []*Node
	plan    []step
	size    int // node count
	maxArgs int
}

// NewSimulator returns a simulator for g evaluated in the order given by s.
//
// inputs is the ordered list of primary input names. The first name is the most
// significant bit of the row index. The list must name exactly the primary
// inputs of g, otherwise an *EvaluationError identifying the first offending
// signal is returned.
//
func NewSimulator(g *Graph, s *Schedule, inputs []string) (*Simulator, error) {
	if len(s.levels) != len(g.nodes) {
		return nil, errors.New("schedule does not belong to this graph")
	}
	sim := &Simulator{size: len(g.nodes)}

	declared := make(map[*Node]bool, len(inputs))
	for _, name := range inputs {
		n := g.Node(name)
		switch {
		case n == nil:
			return nil, &EvaluationError{Signal: name, Msg: "declared input is not a signal of the netlist"}
		case n.kind == kindConst:
			return nil, &EvaluationError{Signal: name, Msg: "constant declared as input"}
		case n.kind == kindGate:
			return nil, &EvaluationError{Signal: name, Msg: "declared input is driven by a " + n.gate.String() + " gate"}
		case declared[n]:
			return nil, &EvaluationError{Signal: name, Msg: "input declared more than once"}
		}
		declared[n] = true
		sim.inputs = append(sim.inputs, n)
	}
	for _, n := range g.nodes {
		switch {
		case n.kind == kindInput && !declared[n]:
			return nil, &EvaluationError{Signal: n.name, Msg: "free signal missing from the declared inputs"}
		case n.kind == kindConst:
			sim.consts = append(sim.consts, n)
		}
	}
	if len(sim.inputs) > MaxInputs {
		return nil, &EvaluationError{Signal: sim.inputs[MaxInputs].name, Msg: "too many inputs (max " + strconv.Itoa(MaxInputs) + ")"}
	}

	// compile the evaluation plan, checking that every operand is available
	// when used.
	ready := make([]bool, len(g.nodes))
	for _, n := range sim.inputs {
		ready[n.id] = true
	}
	for _, n := range sim.consts {
		ready[n.id] = true
	}
	for _, n := range s.order {
		if n.kind != kindGate {
			continue
		}
		st := step{out: n.id, gate: n.gate, ins: make([]int64, len(n.ins))}
		for i, in := range n.ins {
			if !ready[in.id] {
				return nil, &EvaluationError{Signal: in.name, Msg: "value needed by " + strconv.Quote(n.name) + " before it is computed"}
			}
			st.ins[i] = in.id
		}
		if len(st.ins) > sim.maxArgs {
			sim.maxArgs = len(st.ins)
		}
		sim.plan = append(sim.plan, st)
		ready[n.id] = true
	}
	for _, n := range g.Sinks() {
		if !ready[n.id] {
			return nil, &EvaluationError{Signal: n.name, Msg: "output never computed"}
		}
		sim.outputs = append(sim.outputs, n)
	}
	return sim, nil
}

// Compile builds, schedules and prepares a simulator for a list of gate
// instances in one go.
//
func Compile(instances []Instance, inputs []string) (*Simulator, error) {
	g, err := Build(instances)
	if err != nil {
		return nil, err
	}
	s, err := NewSchedule(g)
	if err != nil {
		return nil, err
	}
	return NewSimulator(g, s, inputs)
}

func names(ns []*Node) []string {
	r := make([]string, len(ns))
	for i, n := range ns {
		r[i] = n.name
	}
	return r
}

// Inputs returns the declared input names.
//
func (sim *Simulator) Inputs() []string { return names(sim.inputs) }

// Outputs returns the output names: every signal that drives no gate.
//
func (sim *Simulator) Outputs() []string { return names(sim.outputs) }

// Rows returns the number of rows of the truth table, 2^len(Inputs()).
//
func (sim *Simulator) Rows() uint64 { return 1 << uint(len(sim.inputs)) }

// frame is the per-evaluation scratch space.
type frame struct {
	vals []bool // indexed by node ID
	args []bool
}

func (sim *Simulator) newFrame() *frame {
	f := &frame{
		vals: make([]bool, sim.size),
		args: make([]bool, sim.maxArgs),
	}
	for _, n := range sim.consts {
		f.vals[n.id] = n.value
	}
	return f
}

func (sim *Simulator) newRow() Row {
	return Row{
		Inputs:  make([]bool, len(sim.inputs)),
		Outputs: make([]bool, len(sim.outputs)),
	}
}

// eval computes row i into r. r.Inputs and r.Outputs must be allocated.
//
func (sim *Simulator) eval(f *frame, i uint64, r *Row) {
	k := uint(len(sim.inputs))
	r.Index = i
	for j, n := range sim.inputs {
		v := i&(1<<(k-1-uint(j))) != 0
		f.vals[n.id] = v
		r.Inputs[j] = v
	}
	vals := f.vals
	for _, st := range sim.plan {
		args := f.args[:len(st.ins)]
		for j, in := range st.ins {
			args[j] = vals[in]
		}
		vals[st.out] = st.gate.eval(args)
	}
	for j, n := range sim.outputs {
		r.Outputs[j] = vals[n.id]
	}
}

// Row evaluates the circuit for row i of the truth table.
//
func (sim *Simulator) Row(i uint64) (Row, error) {
	if i >= sim.Rows() {
		return Row{}, errors.Errorf("row %d out of range [0, %d)", i, sim.Rows())
	}
	r := sim.newRow()
	sim.eval(sim.newFrame(), i, &r)
	return r, nil
}

// Each evaluates every row in order and calls fn with each of them. The Row
// passed to fn is reused between calls and must be copied if retained.
//
// Each stops and returns ctx.Err() if ctx is cancelled between two rows, or
// the first error returned by fn.
//
func (sim *Simulator) Each(ctx context.Context, fn func(r *Row) error) error {
	f := sim.newFrame()
	r := sim.newRow()
	done := ctx.Done()
	for i, n := uint64(0), sim.Rows(); i < n; i++ {
		select {
		case <-done:
			return ctx.Err()
		default:
		}
		sim.eval(f, i, &r)
		if err := fn(&r); err != nil {
			return err
		}
	}
	return nil
}

// Result is a complete truth table.
//
type Result struct {
	Inputs  []string
	Outputs []string
	Rows    []Row // Rows[i].Index == i
}

// Run evaluates every row and returns the full truth table.
//
// workers is the number of goroutines sharing the work. If less or equal to 0,
// the value of GOMAXPROCS will be used. The result does not depend on the
// number of workers.
//
func (sim *Simulator) Run(ctx context.Context, workers int) (*Result, error) {
	n := sim.Rows()
	k, m := uint64(len(sim.inputs)), uint64(len(sim.outputs))
	res := &Result{
		Inputs:  sim.Inputs(),
		Outputs: sim.Outputs(),
		Rows:    make([]Row, n),
	}
	ins := make([]bool, n*k)
	outs := make([]bool, n*m)
	for i := range res.Rows {
		r := &res.Rows[i]
		j := uint64(i)
		r.Inputs = ins[j*k : (j+1)*k : (j+1)*k]
		r.Outputs = outs[j*m : (j+1)*m : (j+1)*m]
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	size := n / uint64(workers)
	if size*uint64(workers) < n {
		size++
	}

	eg, ctx := errgroup.WithContext(ctx)
	for start := uint64(0); start < n; start += size {
		start, end := start, start+size
		if end > n {
			end = n
		}
		eg.Go(func() error {
			f := sim.newFrame()
			done := ctx.Done()
			for i := start; i < end; i++ {
				select {
				case <-done:
					return ctx.Err()
				default:
				}
				sim.eval(f, i, &res.Rows[i])
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Index returns the row index of the given input values.
//
func Index(in []bool) uint64 {
	var i uint64
	for _, v := range in {
		i <<= 1
		if v {
			i |= 1
		}
	}
	return i
}

// Lookup returns a copy of the outputs for the given input values.
//
func (r *Result) Lookup(in []bool) ([]bool, bool) {
	if len(in) != len(r.Inputs) {
		return nil, false
	}
	out := make([]bool, len(r.Outputs))
	copy(out, r.Rows[Index(in)].Outputs)
	return out, true
}

// Value returns the value of the named input or output signal in row i.
//
func (r *Result) Value(i int, name string) (v bool, ok bool) {
	if i < 0 || i >= len(r.Rows) {
		return false, false
	}
	for j, n := range r.Inputs {
		if n == name {
			return r.Rows[i].Inputs[j], true
		}
	}
	for j, n := range r.Outputs {
		if n == name {
			return r.Rows[i].Outputs[j], true
		}
	}
	return false, false
}
