// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlib provides a library of reusable parts that expand to flat
// gate-level netlists.
//
// Parts are connected with connection strings like "a=x, b=y[2], out=z" where
// the left hand side is a port of the part and the right hand side a signal in
// the enclosing chip. Bus ranges like "in[0..3]=w[4..7]" are expanded bit by
// bit, and a whole bus port can be connected to a bus of the same size with
// "in=w".
//
package netlib

import (
	"sort"
	"strconv"
	"strings"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// common port names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// make bus names
func bus(bits int, names ...string) []string {
	b := make([]string, len(names)*bits)
	for i, n := range names {
		for j := 0; j < bits; j++ {
			b[i*bits+j] = n + "[" + strconv.Itoa(j) + "]"
		}
	}
	return b
}

// A MountFn mounts a part into socket s. It should query the socket for
// the signal names connected to its ports and add gates or sub-parts.
//
// For example, a Not gate is defined like this:
//
//	not := &PartSpec{
//		Name:    "Not",
//		Inputs:  []string{"in"},
//		Outputs: []string{"out"},
//		Mount: func(s *Socket) {
//			s.Gate(gatesim.Not, "out", "in")
//		}}
//
type MountFn func(s *Socket)

// A PartSpec is a part blueprint.
//
type PartSpec struct {
	// Part name.
	Name string
	// Input port names, buses expanded to individual bits.
	Inputs []string
	// Output port names.
	Outputs []string
	// Mount function (see MountFn).
	Mount MountFn
}

// A Connection connects a port of a part (PP) to a signal of its container (CP).
//
type Connection struct {
	PP string
	CP string
}

// A Part wraps a part specification together with its connections within a
// host chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// A NewPartFn is a function that takes a connection string and returns a new
// Part.
//
type NewPartFn func(c string) Part

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string is malformed.
//
func (p *PartSpec) NewPart(connections string) Part {
	cs, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, cs}
}

func (p *PartSpec) isInput(name string) bool  { return contains(p.Inputs, name) }
func (p *PartSpec) isOutput(name string) bool { return contains(p.Outputs, name) }

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// ParseConnections parses a connection string like "a=x, b[0..1]=y[2..3]".
//
func ParseConnections(c string) ([]Connection, error) {
	var cs []Connection
	if strings.TrimSpace(c) == "" {
		return nil, nil
	}
	seen := make(map[string]bool)
	for _, f := range strings.Split(c, ",") {
		kv := strings.Split(f, "=")
		if len(kv) != 2 {
			return nil, errors.Errorf("in %q: invalid connection %q", c, strings.TrimSpace(f))
		}
		k, v := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		if k == "" || v == "" {
			return nil, errors.Errorf("in %q: invalid connection %q", c, strings.TrimSpace(f))
		}
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand "+v)
		}
		if len(ks) != len(vs) {
			return nil, errors.New("pin count mismatch in connection " + k + "=" + v)
		}
		for i := range ks {
			if seen[ks[i]] {
				return nil, errors.New("port " + ks[i] + " connected more than once")
			}
			seen[ks[i]] = true
			cs = append(cs, Connection{ks[i], vs[i]})
		}
	}
	return cs, nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	b := name[:i]
	if b == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	n = n[i+2:]
	i = strings.IndexRune(n, ']')
	if i < 0 || i != len(n)-1 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	step := 1
	if end < start {
		step = -1
	}
	r := make([]string, 0, (end-start)*step+1)
	for i := start; ; i += step {
		r = append(r, b+"["+strconv.Itoa(i)+"]")
		if i == end {
			break
		}
	}
	return r, nil
}

// A Builder collects the gate instances of mounted parts.
//
type Builder struct {
	insts []gs.Instance
	count map[string]int
	err   error
}

// Add mounts p at the top level of the netlist. Its connections refer
// directly to netlist signals.
//
func (b *Builder) Add(p Part) error {
	top := &Socket{b: b, m: map[string]string{}}
	top.Mount(p)
	return b.err
}

// Instances returns the gate instances added so far.
//
func (b *Builder) Instances() []gs.Instance {
	return b.insts
}

func (b *Builder) prefix(name string) string {
	if b.count == nil {
		b.count = make(map[string]int)
	}
	n := b.count[name]
	b.count[name]++
	return strings.ToLower(name) + "_" + strconv.Itoa(n) + "_"
}

// A Socket maps the port names of a mounted part to signal names in the
// netlist.
//
type Socket struct {
	b      *Builder
	m      map[string]string
	prefix string
}

// Pin returns the signal connected to the given port. Names that are not ports
// of the part are internal wires and get a name unique to this instance.
// The constants gatesim.True and gatesim.False are returned as is.
//
func (s *Socket) Pin(name string) string {
	if name == gs.True || name == gs.False {
		return name
	}
	if n, ok := s.m[name]; ok {
		return n
	}
	return s.prefix + name
}

// Bus returns the signals connected to bits 0 to bits-1 of the given bus.
//
func (s *Socket) Bus(name string, bits int) []string {
	out := make([]string, bits)
	for i := range out {
		out[i] = s.Pin(name + "[" + strconv.Itoa(i) + "]")
	}
	return out
}

// Gate adds a primitive gate instance. out and in are names local to the
// socket.
//
func (s *Socket) Gate(t gs.GateType, out string, in ...string) {
	ins := make([]string, len(in))
	for i, n := range in {
		ins[i] = s.Pin(n)
	}
	s.b.insts = append(s.b.insts, gs.Instance{Gate: t.String(), Output: s.Pin(out), Inputs: ins})
}

// Mount mounts the given sub-part. The right hand side of its connections are
// names local to s.
//
// Unconnected inputs are tied to gatesim.False and unconnected outputs are
// left dangling.
//
func (s *Socket) Mount(p Part) {
	if s.b.err != nil {
		return
	}
	sub := &Socket{b: s.b, m: make(map[string]string), prefix: s.b.prefix(p.Name)}
	for _, c := range p.Conns {
		ports := []string{c.PP}
		sigs := []string{c.CP}
		if !p.isInput(c.PP) && !p.isOutput(c.PP) {
			// whole bus
			ports = busPorts(p.PartSpec, c.PP)
			if ports == nil {
				s.b.err = errors.New("invalid pin name " + c.PP + " for part " + p.Name)
				return
			}
			sigs = bus(len(ports), c.CP)
		}
		for i, pp := range ports {
			if _, ok := sub.m[pp]; ok {
				s.b.err = errors.New("pin " + pp + " of part " + p.Name + " connected more than once")
				return
			}
			sig := s.Pin(sigs[i])
			if p.isOutput(pp) && (sig == gs.True || sig == gs.False) {
				s.b.err = errors.New("output pin " + pp + " of part " + p.Name + " connected to a constant")
				return
			}
			sub.m[pp] = sig
		}
	}
	for _, in := range p.Inputs {
		if _, ok := sub.m[in]; !ok {
			sub.m[in] = gs.False
		}
	}
	p.Mount(sub)
}

func busPorts(p *PartSpec, name string) []string {
	var ports []string
	for i := 0; ; i++ {
		n := name + "[" + strconv.Itoa(i) + "]"
		if !p.isInput(n) && !p.isOutput(n) {
			return ports
		}
		ports = append(ports, n)
	}
}

// Chip composes existing parts into a new part. The inputs and outputs
// strings are parsed with gatesim.ParseSignals and become the ports of the
// chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		Nand("a=a, b=b, out=nandAB"),
//		Nand("a=a, b=nandAB, out=w0"),
//		Nand("a=b, b=nandAB, out=w1"),
//		Nand("a=w0, b=w1, out=out"),
//	)
//
func Chip(name string, inputs, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := gs.ParseSignals(inputs)
	if err != nil {
		return nil, errors.Wrap(err, "chip "+name+" inputs")
	}
	outs, err := gs.ParseSignals(outputs)
	if err != nil {
		return nil, errors.Wrap(err, "chip "+name+" outputs")
	}
	ports := make(map[string]bool)
	for _, n := range append(append([]string(nil), ins...), outs...) {
		if ports[n] {
			return nil, errors.New("chip " + name + ": duplicate port " + n)
		}
		ports[n] = true
	}
	// check that every part pin name is valid
	for _, p := range parts {
		for _, c := range p.Conns {
			if !p.isInput(c.PP) && !p.isOutput(c.PP) && busPorts(p.PartSpec, c.PP) == nil {
				return nil, errors.New("chip " + name + ": invalid pin name " + c.PP + " for part " + p.Name)
			}
		}
	}
	chip := &PartSpec{
		Name:    name,
		Inputs:  ins,
		Outputs: outs,
		Mount: func(s *Socket) {
			for _, p := range parts {
				s.Mount(p)
			}
		},
	}
	return chip.NewPart, nil
}

// Netlist expands p into a flat netlist whose ports are the ports of p.
//
func Netlist(p *PartSpec) (*gs.Netlist, error) {
	var cs []Connection
	for _, n := range p.Inputs {
		cs = append(cs, Connection{n, n})
	}
	for _, n := range p.Outputs {
		cs = append(cs, Connection{n, n})
	}
	var b Builder
	if err := b.Add(Part{p, cs}); err != nil {
		return nil, errors.Wrap(err, "netlist "+p.Name)
	}
	ports := make(map[string]bool)
	for _, n := range p.Inputs {
		ports[n] = true
	}
	for _, n := range p.Outputs {
		ports[n] = true
	}
	var wires []string
	for _, i := range b.insts {
		if !ports[i.Output] {
			wires = append(wires, i.Output)
		}
	}
	sort.Strings(wires)
	return &gs.Netlist{
		Module:    strings.ToLower(p.Name),
		Inputs:    p.Inputs,
		Outputs:   p.Outputs,
		Wires:     wires,
		Instances: b.insts,
	}, nil
}
