// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilog

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// SplitBit splits a bit name like "a[3]" into its bus name and index.
//
func SplitBit(name string) (bus string, i int, ok bool) {
	b := strings.IndexByte(name, '[')
	if b <= 0 || !strings.HasSuffix(name, "]") {
		return name, 0, false
	}
	i, err := strconv.Atoi(name[b+1 : len(name)-1])
	if err != nil {
		return name, 0, false
	}
	return name[:b], i, true
}

// a group is a scalar or a run of consecutive bits of the same bus.
type group struct {
	name     string
	msb, lsb int
	bus      bool
}

func groups(names []string) []group {
	var gs []group
	for _, n := range names {
		bus, i, ok := SplitBit(n)
		if !ok {
			gs = append(gs, group{name: n})
			continue
		}
		if l := len(gs) - 1; l >= 0 && gs[l].bus && gs[l].name == bus {
			g := &gs[l]
			if g.msb == g.lsb && (i == g.lsb+1 || i == g.lsb-1) ||
				g.msb > g.lsb && i == g.lsb-1 ||
				g.msb < g.lsb && i == g.lsb+1 {
				g.lsb = i
				continue
			}
		}
		gs = append(gs, group{name: bus, msb: i, lsb: i, bus: true})
	}
	return gs
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || !isIdent(r) {
			return false
		}
	}
	return true
}

// formatSignal returns s as it must be written in a netlist.
//
func formatSignal(s string) string {
	if s == Const0 || s == Const1 || isPlainIdent(s) {
		return s
	}
	if bus, i, ok := SplitBit(s); ok && isPlainIdent(bus) {
		return BitName(bus, i)
	}
	return "\\" + s + " "
}

// Format writes m as a structural Verilog module.
//
func Format(w io.Writer, m *Module) error {
	b := bufio.NewWriter(w)
	b.WriteString("module ")
	b.WriteString(formatSignal(m.Name))
	b.WriteByte('(')
	seen := make(map[string]bool)
	first := true
	for _, g := range groups(m.Ports) {
		if seen[g.name] {
			continue
		}
		seen[g.name] = true
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(formatSignal(g.name))
	}
	b.WriteString(");\n")

	decl := func(kw string, names []string) {
		var scalars []string
		for _, g := range groups(names) {
			if !g.bus {
				scalars = append(scalars, formatSignal(g.name))
				continue
			}
			b.WriteString("  " + kw + " [" + strconv.Itoa(g.msb) + ":" + strconv.Itoa(g.lsb) + "] " + formatSignal(g.name) + ";\n")
		}
		if len(scalars) > 0 {
			b.WriteString("  " + kw + " " + strings.Join(scalars, ", ") + ";\n")
		}
	}
	decl("input", m.Inputs)
	decl("output", m.Outputs)
	decl("wire", m.Wires)

	for _, inst := range m.Instances {
		b.WriteString("  ")
		b.WriteString(inst.Type)
		if inst.Name != "" {
			b.WriteByte(' ')
			b.WriteString(formatSignal(inst.Name))
		}
		b.WriteByte('(')
		for i, p := range inst.Ports {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatSignal(p))
		}
		b.WriteString(");\n")
	}
	b.WriteString("endmodule\n")
	return b.Flush()
}
