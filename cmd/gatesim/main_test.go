// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/gatesim/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func gen(t *testing.T, dir string, part ...string) string {
	t.Helper()
	name := filepath.Join(dir, strings.Join(part, "")+".v")
	if _, err := run(t, append([]string{"gen", "-o", name}, part...)...); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestSim(t *testing.T) {
	dir := t.TempDir()
	v := gen(t, dir, "fulladder")
	trace := filepath.Join(dir, "trace.txt")
	dot := filepath.Join(dir, "fa.dot")
	if _, err := run(t, "sim", "--trace", trace, "--dot", dot, "--verify", "--log-level", "error", v); err != nil {
		t.Fatalf("%+v", err)
	}
	data, err := ioutil.ReadFile(trace)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d trace lines, expected 8", len(lines))
	}
	if exp := "Inputs: a=1, b=1, cin=0 => Outputs: s=0, cout=1"; lines[6] != exp {
		t.Errorf("got %q, expected %q", lines[6], exp)
	}
	if data, err = ioutil.ReadFile(dot); err != nil || !bytes.HasPrefix(data, []byte(`digraph "fulladder"`)) {
		t.Errorf("bad dot file: %v", err)
	}

	// sequential streaming with a custom input order
	if _, err = run(t, "sim", "-o", trace, "-w", "1", "-i", "cin, b, a", "--log-level", "error", v); err != nil {
		t.Fatal(err)
	}
	if data, err = ioutil.ReadFile(trace); err != nil {
		t.Fatal(err)
	}
	if exp := "Inputs: cin=0, b=0, a=1 => Outputs: s=1, cout=0\n"; !strings.Contains(string(data), exp) {
		t.Errorf("missing %q in trace:\n%s", exp, data)
	}
}

func TestInMemory(t *testing.T) {
	td := []struct {
		workers int
		verify  bool
		want    bool
	}{
		{0, false, false},
		{1, false, false},
		{4, false, true},
		{-1, false, true},
		{0, true, true},
		{1, true, true},
	}
	for _, d := range td {
		c := config.Default()
		c.Workers = d.workers
		if got := inMemory(c, d.verify); got != d.want {
			t.Errorf("inMemory(workers=%d, verify=%v) = %v, expected %v", d.workers, d.verify, got, d.want)
		}
	}
	if config.Default().Workers != 0 {
		t.Error("default configuration does not stream")
	}
}

func TestSim_config(t *testing.T) {
	dir := t.TempDir()
	v := gen(t, dir, "parity", "6")
	cfg := filepath.Join(dir, "sim.yaml")
	trace := filepath.Join(dir, "parity.txt")
	err := ioutil.WriteFile(cfg, []byte("netlist: "+v+"\ntrace: "+trace+"\nmax_inputs: 4\nlog_level: error\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = run(t, "sim", "--config", cfg); err == nil || !strings.Contains(err.Error(), "max_inputs") {
		t.Fatalf("expected max_inputs error, got %v", err)
	}
	// flags override the file
	if _, err = run(t, "sim", "--config", cfg, "--max-inputs", "6"); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(trace)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 64 {
		t.Fatalf("got %d rows, expected 64", n)
	}
}

func TestEquiv(t *testing.T) {
	dir := t.TempDir()
	a := gen(t, dir, "adder", "3")
	if _, err := run(t, "equiv", "--log-level", "error", a, a); err == nil {
		t.Fatal("expected unknown flag error")
	}
	if _, err := run(t, "equiv", a, a); err != nil {
		t.Fatalf("%+v", err)
	}
	and := gen(t, dir, "and", "2")
	or := gen(t, dir, "or", "2")
	out, err := run(t, "equiv", and, or)
	if err == nil {
		t.Fatal("and2 and or2 reported equivalent")
	}
	if !strings.Contains(out, "Differing outputs: out") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGen_errors(t *testing.T) {
	for _, args := range [][]string{
		{"gen", "alu"},
		{"gen", "fulladder", "3"},
		{"gen", "adder", "zero"},
		{"gen", "parity", "0"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
