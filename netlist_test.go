// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

const simTest = `
// y = a & b via double negation
module simtest(a, b, c, y);
  input a, b;
  input c;
  output y;
  wire n1, n2;

  nand g1(n1, a, b);
  not (n2, n1);
  and g3(y, n2, 1'b1), g4(unused, c, c);
endmodule
`

func TestParseNetlist(t *testing.T) {
	n, err := gs.ParseNetlist(strings.NewReader(simTest), "simtest.v", "")
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if n.Module != "simtest" {
		t.Errorf("module = %q", n.Module)
	}
	if !reflect.DeepEqual(n.Inputs, []string{"a", "b", "c"}) || !reflect.DeepEqual(n.Outputs, []string{"y"}) {
		t.Errorf("ports: in %v, out %v", n.Inputs, n.Outputs)
	}
	exp := []gs.Instance{
		{Gate: "nand", Output: "n1", Inputs: []string{"a", "b"}},
		{Gate: "not", Output: "n2", Inputs: []string{"n1"}},
		{Gate: "and", Output: "y", Inputs: []string{"n2", gs.True}},
		{Gate: "and", Output: "unused", Inputs: []string{"c", "c"}},
	}
	if !reflect.DeepEqual(n.Instances, exp) {
		t.Errorf("instances = %+v", n.Instances)
	}

	sim, err := gs.Compile(n.Instances, n.Inputs)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = sim.WriteTrace(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[7] != "Inputs: a=1, b=1, c=1 => Outputs: y=1, unused=1" {
		t.Errorf("bad line %q", lines[7])
	}
}

func TestParseNetlist_errors(t *testing.T) {
	td := []struct {
		name string
		src  string
		top  string
		err  string
	}{
		{"hierarchy", `
module half(s, a, b); input a, b; output s; xor(s, a, b); endmodule
module top(y, a, b); input a, b; output y; half h(y, a, b); endmodule
`, "top", "hierarchical instantiation"},
		{"multi", `
module m1(y, a); input a; output y; not(y, a); endmodule
module m2(y, a); input a; output y; not(y, a); endmodule
`, "", "select a top module"},
		{"no_top", `module m1(y, a); input a; output y; not(y, a); endmodule`, "m2", "module not found"},
		{"unknown", `module m(y, a); input a; output y; buf(y, a); endmodule`, "", "not a primitive gate"},
		{"short", `module m(y); output y; and(y); endmodule`, "", "needs an output"},
		{"empty", `// nothing`, "", "no module"},
		{"syntax", `module m(y, a); input a; output y; assign y = a; endmodule`, "", "t.v:1:36: continuous assignments"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := gs.ParseNetlist(strings.NewReader(d.src), "t.v", d.top)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), d.err) {
				t.Errorf("error %q does not contain %q", err, d.err)
			}
		})
	}
	_, err := gs.ParseNetlist(strings.NewReader(`module top(y, a); input a; output y; sub s(y, a); endmodule`), "t.v", "")
	if _, ok := errors.Cause(err).(*gs.StructuralError); !ok {
		t.Errorf("expected *StructuralError, got %v", err)
	}
}

func TestFormatVerilog(t *testing.T) {
	n, err := gs.ParseNetlist(strings.NewReader(`
module bus(input [1:0] a, input b, output y);
  wire w;
  and(w, a[1], a[0]);
  xor(y, w, b, 1'b0);
endmodule`), "bus.v", "")
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = gs.FormatVerilog(&b, n); err != nil {
		t.Fatal(err)
	}
	n2, err := gs.ParseNetlist(&b, "bus2.v", "")
	if err != nil {
		t.Fatalf("%v\n%s", err, b.String())
	}
	if !reflect.DeepEqual(n, n2) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", n, n2)
	}
}

func TestParseSignals(t *testing.T) {
	td := []struct {
		in  string
		out []string
		err bool
	}{
		{"", nil, false},
		{"a", []string{"a"}, false},
		{"a, b,c", []string{"a", "b", "c"}, false},
		{"sel, in[2]", []string{"sel", "in[0]", "in[1]"}, false},
		{"c[3..1], d[0:1]", []string{"c[3]", "c[2]", "c[1]", "d[0]", "d[1]"}, false},
		{"a,", nil, true},
		{"a b", nil, true},
		{"a[]", nil, true},
		{"a[0]", nil, true},
		{"a[1..", nil, true},
		{"1a", nil, true},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			out, err := gs.ParseSignals(d.in)
			if (err != nil) != d.err {
				t.Fatalf("error = %v", err)
			}
			if !reflect.DeepEqual(out, d.out) {
				t.Errorf("got %v, expected %v", out, d.out)
			}
		})
	}
}
