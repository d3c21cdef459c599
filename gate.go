// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"strconv"

	"github.com/pkg/errors"
)

// GateType identifies a primitive gate.
//
type GateType int

// Primitive gate types. The zero value is not a valid gate.
//
const (
	And GateType = iota + 1
	Or
	Not
	Nand
	Nor
	Xor
	Xnor
)

var gateNames = [...]string{
	And:  "and",
	Or:   "or",
	Not:  "not",
	Nand: "nand",
	Nor:  "nor",
	Xor:  "xor",
	Xnor: "xnor",
}

// ParseGateType returns the GateType for the given primitive name. Names are
// matched case-sensitively, as in Verilog.
//
func ParseGateType(name string) (GateType, error) {
	for t, n := range gateNames {
		if n != "" && n == name {
			return GateType(t), nil
		}
	}
	return 0, &UnsupportedGateError{Gate: name}
}

// IsPrimitive returns true if name is one of the primitive gate names.
//
func IsPrimitive(name string) bool {
	_, err := ParseGateType(name)
	return err == nil
}

func (t GateType) String() string {
	if t <= 0 || int(t) >= len(gateNames) {
		return "gate(" + strconv.Itoa(int(t)) + ")"
	}
	return gateNames[t]
}

func (t GateType) valid() bool {
	return t > 0 && int(t) < len(gateNames)
}

// checkArity returns a *StructuralError if n inputs is not a valid input
// count for t.
//
func (t GateType) checkArity(n int) error {
	switch {
	case n == 0:
		return &StructuralError{Gate: t.String(), Msg: "gate has no inputs"}
	case t == Not && n != 1:
		return &StructuralError{Gate: t.String(), Msg: "not gate takes exactly one input, got " + strconv.Itoa(n)}
	}
	return nil
}

// Eval computes the output of gate t for the given ordered inputs.
//
//	and:  all inputs true
//	or:   at least one input true
//	not:  !in[0], exactly one input
//	nand: !and
//	nor:  !or
//	xor:  odd number of true inputs
//	xnor: even number of true inputs
//
func (t GateType) Eval(in []bool) (bool, error) {
	if !t.valid() {
		return false, &UnsupportedGateError{Gate: t.String()}
	}
	if err := t.checkArity(len(in)); err != nil {
		return false, err
	}
	return t.eval(in), nil
}

// eval assumes a valid gate type and arity.
func (t GateType) eval(in []bool) bool {
	switch t {
	case And, Nand:
		out := true
		for _, v := range in {
			if !v {
				out = false
				break
			}
		}
		return out != (t == Nand)
	case Or, Nor:
		out := false
		for _, v := range in {
			if v {
				out = true
				break
			}
		}
		return out != (t == Nor)
	case Not:
		return !in[0]
	case Xor, Xnor:
		out := false
		for _, v := range in {
			out = out != v
		}
		return out != (t == Xnor)
	}
	panic("invalid gate type " + t.String())
}

// Eval computes the output of the named primitive gate for the given inputs.
// It returns an *UnsupportedGateError if gate is not a primitive.
//
func Eval(gate string, in []bool) (bool, error) {
	t, err := ParseGateType(gate)
	if err != nil {
		return false, err
	}
	out, err := t.Eval(in)
	if err != nil {
		return false, errors.Wrap(err, "eval "+gate)
	}
	return out, nil
}
