/*
Package gatesim simulates flat, combinational gate-level netlists.

A netlist is a list of primitive gate instances (and, or, not, nand, nor, xor,
xnor), each driving one signal from one or more input signals. ParseNetlist
reads one from structural Verilog, and the netlib package generates common ones
(adders, multiplexers, parity trees).

The simulation pipeline is:

	n, _ := gatesim.ParseNetlist(r, "adder.v", "")
	g, _ := n.Build()                          // circuit graph
	s, _ := gatesim.NewSchedule(g)             // levels and evaluation order
	sim, _ := gatesim.NewSimulator(g, s, n.Inputs)
	_ = sim.WriteTrace(ctx, w)                 // the full truth table

The simulator evaluates every combination of the primary inputs, in binary
counting order with the first input as the most significant bit. Outputs are
the signals that do not drive any gate.

Feedback loops, unknown gates and signals driven twice are rejected
when building and scheduling the graph. Errors can be told apart with
errors.Cause from github.com/pkg/errors: *StructuralError, *CycleError,
*UnsupportedGateError and *EvaluationError.

*/
package gatesim
