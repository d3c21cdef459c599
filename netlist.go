// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"io"
	"io/ioutil"
	"strconv"

	"github.com/db47h/gatesim/internal/verilog"
	"github.com/pkg/errors"
)

// A Netlist is a flat, single module gate-level netlist.
//
type Netlist struct {
	Module    string
	Inputs    []string // declared input ports
	Outputs   []string // declared output ports
	Wires     []string
	Instances []Instance
}

// ParseNetlist reads a structural Verilog netlist from r. filename is only
// used in error messages.
//
// If the source defines several modules, top selects the one to use. Modules
// may only instantiate primitive gates; instantiating another module returns a
// *StructuralError.
//
func ParseNetlist(r io.Reader, filename, top string) (*Netlist, error) {
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read netlist")
	}
	mods, err := verilog.Parse(filename, string(src))
	if err != nil {
		return nil, err
	}
	var m *verilog.Module
	switch {
	case len(mods) == 0:
		return nil, &StructuralError{Msg: "no module found in " + filename}
	case top != "":
		for _, mod := range mods {
			if mod.Name == top {
				m = mod
				break
			}
		}
		if m == nil {
			return nil, &StructuralError{Gate: top, Msg: "module not found in " + filename}
		}
	case len(mods) > 1:
		return nil, &StructuralError{Gate: mods[1].Name, Msg: strconv.Itoa(len(mods)) + " modules in " + filename + ", select a top module"}
	default:
		m = mods[0]
	}
	return fromModule(filename, m, mods)
}

func fromModule(filename string, m *verilog.Module, mods []*verilog.Module) (*Netlist, error) {
	n := &Netlist{
		Module:    m.Name,
		Inputs:    m.Inputs,
		Outputs:   m.Outputs,
		Wires:     m.Wires,
		Instances: make([]Instance, 0, len(m.Instances)),
	}
	for _, inst := range m.Instances {
		at := filename + ":" + inst.Pos.String()
		if !IsPrimitive(inst.Type) {
			msg := "not a primitive gate"
			for _, mod := range mods {
				if mod.Name == inst.Type {
					msg = "hierarchical instantiation is not supported"
					break
				}
			}
			var sig string
			if len(inst.Ports) > 0 {
				sig = inst.Ports[0]
			}
			return nil, errors.Wrap(&StructuralError{Signal: sig, Gate: inst.Type, Msg: msg}, at)
		}
		if len(inst.Ports) < 2 {
			return nil, errors.Wrap(&StructuralError{Gate: inst.Type, Msg: "gate instance needs an output and at least one input"}, at)
		}
		n.Instances = append(n.Instances, Instance{
			Gate:   inst.Type,
			Output: inst.Ports[0],
			Inputs: inst.Ports[1:],
		})
	}
	return n, nil
}

// Build returns the circuit graph of n.
//
func (n *Netlist) Build() (*Graph, error) {
	return Build(n.Instances)
}

// FormatVerilog writes n as a structural Verilog module. Gate instances are
// named g0, g1, ...
//
func FormatVerilog(w io.Writer, n *Netlist) error {
	m := &verilog.Module{
		Name:    n.Module,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
		Wires:   n.Wires,
	}
	m.Ports = append(append(m.Ports, n.Inputs...), n.Outputs...)
	for i, inst := range n.Instances {
		m.Instances = append(m.Instances, verilog.Instance{
			Type:  inst.Gate,
			Name:  "g" + strconv.Itoa(i),
			Ports: append([]string{inst.Output}, inst.Inputs...),
		})
	}
	return errors.Wrap(verilog.Format(w, m), "format netlist")
}
