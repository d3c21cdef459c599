// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"strconv"
	"strings"
)

// A StructuralError reports a malformed or unsupported netlist: unknown
// primitive, bad gate arity, multiple drivers for a signal, hierarchical
// instantiation or several modules.
//
type StructuralError struct {
	Signal string // offending signal, if any
	Gate   string // offending gate or module type, if any
	Msg    string
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString("structural error")
	if e.Signal != "" {
		b.WriteString(" on signal ")
		b.WriteString(strconv.Quote(e.Signal))
	}
	if e.Gate != "" {
		b.WriteString(" (")
		b.WriteString(e.Gate)
		b.WriteRune(')')
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// A CycleError is returned by the scheduler when the circuit graph is not
// acyclic. Cycles lists the signals of each strongly connected component
// found.
//
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	var b strings.Builder
	b.WriteString("combinational loop through ")
	for i, c := range e.Cycles {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteRune('{')
		b.WriteString(strings.Join(c, ", "))
		b.WriteRune('}')
	}
	return b.String()
}

// An UnsupportedGateError is returned when a gate type is not one of the
// primitives and, or, not, nand, nor, xor, xnor.
//
type UnsupportedGateError struct {
	Gate string
}

func (e *UnsupportedGateError) Error() string {
	return "unsupported gate type " + strconv.Quote(e.Gate)
}

// An EvaluationError reports a signal whose value is needed before it can be
// computed, usually because the declared primary inputs do not match the free
// signals of the netlist.
//
type EvaluationError struct {
	Signal string
	Msg    string
}

func (e *EvaluationError) Error() string {
	return "evaluation error on signal " + strconv.Quote(e.Signal) + ": " + e.Msg
}
