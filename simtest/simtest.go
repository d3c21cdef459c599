// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing netlists.
//
package simtest

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// ExhaustiveLimit is the maximum number of inputs for which CompareNetlists
// checks every input combination. Larger netlists are checked on the all 0 and
// all 1 rows plus 1<<ExhaustiveLimit random rows.
//
const ExhaustiveLimit = 16

func compile(t testing.TB, n *gs.Netlist, inputs []string) *gs.Simulator {
	t.Helper()
	if inputs == nil {
		inputs = n.Inputs
	}
	sim, err := gs.Compile(n.Instances, inputs)
	if err != nil {
		t.Fatalf("%s: %+v", n.Module, err)
	}
	return sim
}

func rowString(names []string, vs []bool) string {
	var b strings.Builder
	for i, n := range names {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
		b.WriteRune('=')
		if vs[i] {
			b.WriteRune('1')
		} else {
			b.WriteRune('0')
		}
	}
	return b.String()
}

func outputIndex(t testing.TB, sim *gs.Simulator, outputs []string) []int {
	t.Helper()
	idx := make(map[string]int)
	for i, n := range sim.Outputs() {
		idx[n] = i
	}
	r := make([]int, len(outputs))
	for i, o := range outputs {
		j, ok := idx[o]
		if !ok {
			t.Fatalf("%s is not an output of the netlist (outputs: %v)", o, sim.Outputs())
		}
		r[i] = j
	}
	return r
}

// Truth simulates n over all input combinations and checks its declared
// outputs against want. If inputs is nil, the declared inputs of n are used.
// want gets the input values in the order of inputs and must return the
// expected values of n.Outputs in declaration order.
//
func Truth(t testing.TB, n *gs.Netlist, inputs []string, want func(in []bool) []bool) {
	t.Helper()
	sim := compile(t, n, inputs)
	outs := outputIndex(t, sim, n.Outputs)
	err := sim.Each(context.Background(), func(r *gs.Row) error {
		exp := want(r.Inputs)
		for i, o := range outs {
			if r.Outputs[o] != exp[i] {
				return errors.Errorf("%s: %s => %s=%v, expected %v", n.Module, rowString(sim.Inputs(), r.Inputs), n.Outputs[i], r.Outputs[o], exp[i])
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// CompareNetlists takes two netlists and compares their declared outputs given
// the same inputs. Both netlists must have the same inputs and a must not have
// outputs missing from b. If inputs is nil, the declared inputs of a are used.
//
func CompareNetlists(t testing.TB, a, b *gs.Netlist, inputs []string) {
	t.Helper()
	if inputs == nil {
		inputs = a.Inputs
	}
	s1, s2 := compile(t, a, inputs), compile(t, b, inputs)
	o1, o2 := outputIndex(t, s1, a.Outputs), outputIndex(t, s2, a.Outputs)

	check := func(r1, r2 *gs.Row) {
		t.Helper()
		for i, o := range a.Outputs {
			if v1, v2 := r1.Outputs[o1[i]], r2.Outputs[o2[i]]; v1 != v2 {
				t.Fatalf("\nExpected %s => %s=%v\nGot %v", rowString(inputs, r1.Inputs), o, v1, v2)
			}
		}
	}
	row := func(s *gs.Simulator, i uint64) *gs.Row {
		t.Helper()
		r, err := s.Row(i)
		if err != nil {
			t.Fatal(err)
		}
		return &r
	}

	start := time.Now()
	var rows uint64
	if len(inputs) <= ExhaustiveLimit {
		r1, err := s1.Run(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		r2, err := s2.Run(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		for i := range r1.Rows {
			check(&r1.Rows[i], &r2.Rows[i])
		}
		rows = uint64(len(r1.Rows))
	} else {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		// all 0, all 1, then random rows
		last := s1.Rows() - 1
		check(row(s1, 0), row(s2, 0))
		check(row(s1, last), row(s2, last))
		for i := 0; i < 1<<ExhaustiveLimit; i++ {
			n := uint64(rnd.Int63()) & last
			check(row(s1, n), row(s2, n))
		}
		rows = 2 + 1<<ExhaustiveLimit
	}
	t.Logf("%s/%s: %d rows in %v", a.Module, b.Module, rows, time.Since(start))
}
