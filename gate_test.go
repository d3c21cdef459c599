// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"testing"
	"testing/quick"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// reference implementations, by counting true inputs.
func ref(gate string, in []bool) bool {
	n := 0
	for _, v := range in {
		if v {
			n++
		}
	}
	switch gate {
	case "and":
		return n == len(in)
	case "nand":
		return n != len(in)
	case "or":
		return n > 0
	case "nor":
		return n == 0
	case "xor":
		return n%2 == 1
	case "xnor":
		return n%2 == 0
	case "not":
		return n == 0
	}
	panic("bad gate " + gate)
}

func bits(i, n int) []bool {
	in := make([]bool, n)
	for bit := range in {
		in[n-bit-1] = i&(1<<uint(bit)) != 0
	}
	return in
}

func TestEval_exhaustive(t *testing.T) {
	for _, g := range []string{"and", "or", "nand", "nor", "xor", "xnor"} {
		t.Run(g, func(t *testing.T) {
			for n := 1; n <= 5; n++ {
				for i := 0; i < 1<<uint(n); i++ {
					in := bits(i, n)
					got, err := gs.Eval(g, in)
					if err != nil {
						t.Fatal(err)
					}
					if exp := ref(g, in); got != exp {
						t.Errorf("%s%v = %v, got %v", g, in, exp, got)
					}
				}
			}
		})
	}
	for _, v := range []bool{false, true} {
		got, err := gs.Eval("not", []bool{v})
		if err != nil {
			t.Fatal(err)
		}
		if got == v {
			t.Errorf("not(%v) = %v", v, got)
		}
	}
}

func TestEval_commutative(t *testing.T) {
	for _, g := range []gs.GateType{gs.And, gs.Or, gs.Nand, gs.Nor, gs.Xor, gs.Xnor} {
		f := func(in []bool) bool {
			if len(in) == 0 {
				return true
			}
			rev := make([]bool, len(in))
			for i, v := range in {
				rev[len(in)-i-1] = v
			}
			a, err1 := g.Eval(in)
			b, err2 := g.Eval(rev)
			return err1 == nil && err2 == nil && a == b && a == ref(g.String(), in)
		}
		if err := quick.Check(f, nil); err != nil {
			t.Errorf("%s: %v", g, err)
		}
	}
}

func TestEval_errors(t *testing.T) {
	td := []struct {
		name string
		gate string
		in   []bool
		err  interface{}
	}{
		{"unknown", "buf", []bool{true}, &gs.UnsupportedGateError{}},
		{"case", "AND", []bool{true, true}, &gs.UnsupportedGateError{}},
		{"not_arity", "not", []bool{true, false}, &gs.StructuralError{}},
		{"not_none", "not", nil, &gs.StructuralError{}},
		{"and_none", "and", nil, &gs.StructuralError{}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := gs.Eval(d.gate, d.in)
			if err == nil {
				t.Fatal("expected error")
			}
			switch d.err.(type) {
			case *gs.UnsupportedGateError:
				if _, ok := errors.Cause(err).(*gs.UnsupportedGateError); !ok {
					t.Errorf("got %T: %v", errors.Cause(err), err)
				}
			case *gs.StructuralError:
				if _, ok := errors.Cause(err).(*gs.StructuralError); !ok {
					t.Errorf("got %T: %v", errors.Cause(err), err)
				}
			}
		})
	}
}

func TestParseGateType(t *testing.T) {
	for _, n := range []string{"and", "or", "not", "nand", "nor", "xor", "xnor"} {
		g, err := gs.ParseGateType(n)
		if err != nil {
			t.Fatal(err)
		}
		if g.String() != n {
			t.Errorf("ParseGateType(%q).String() = %q", n, g.String())
		}
		if !gs.IsPrimitive(n) {
			t.Errorf("IsPrimitive(%q) = false", n)
		}
	}
	if _, err := gs.GateType(0).Eval([]bool{true}); err == nil {
		t.Error("zero GateType evaluated")
	}
}
