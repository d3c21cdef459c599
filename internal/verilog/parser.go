// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilog

import (
	"strconv"
)

// An Instance is a gate or module instance with positional port connections.
//
type Instance struct {
	Type  string
	Name  string // optional instance name
	Ports []string
	Pos   Pos
}

// A Module is a parsed module definition.
//
// Bus declarations are expanded to individual bits named like "a[3]", most
// significant bit first for [msb:lsb] ranges.
//
type Module struct {
	Name      string
	Pos       Pos
	Ports     []string
	Inputs    []string
	Outputs   []string
	Wires     []string
	Instances []Instance
}

// An Error is a syntax error.
//
type Error struct {
	File string
	Pos  Pos
	Msg  string
}

func (e *Error) Error() string {
	f := e.File
	if f == "" {
		f = "<input>"
	}
	return f + ":" + e.Pos.String() + ": " + e.Msg
}

// signal directions
const (
	dirNone = iota
	dirInput
	dirOutput
	dirWire
)

var unsupported = map[string]string{
	"assign":     "continuous assignments",
	"always":     "always blocks",
	"initial":    "initial blocks",
	"reg":        "registers",
	"inout":      "inout ports",
	"parameter":  "parameters",
	"localparam": "parameters",
	"function":   "functions",
	"task":       "tasks",
	"generate":   "generate blocks",
	"supply0":    "supply nets",
	"supply1":    "supply nets",
}

// parser state for one file.
type parser struct {
	file string
	l    *Lexer
	i    Item
	m    *Module
	dirs map[string]int
	vecs map[string][]string // bits of declared buses
}

// Parse parses all module definitions in input. file is only used in error
// messages.
//
func Parse(file, input string) ([]*Module, error) {
	p := &parser{file: file, l: NewLexer(input)}
	p.next()
	var mods []*Module
	for p.i.Type != EOF {
		m, err := p.module()
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func (p *parser) next() {
	p.i = p.l.Lex()
}

func (p *parser) errorf(pos Pos, msg string) error {
	return &Error{File: p.file, Pos: pos, Msg: msg}
}

func (p *parser) unexpected(want string) error {
	if p.i.Type == Raw {
		return p.errorf(p.i.Pos, p.i.Value.(string))
	}
	return p.errorf(p.i.Pos, "expected "+want+", got "+p.i.String())
}

func (p *parser) expect(t Type) error {
	if p.i.Type != t {
		return p.unexpected(t.String())
	}
	p.next()
	return nil
}

func (p *parser) isKeyword(kw string) bool {
	return p.i.Type == Ident && p.i.Value.(string) == kw
}

func (p *parser) ident() (string, error) {
	if p.i.Type != Ident {
		return "", p.unexpected("identifier")
	}
	s := p.i.Value.(string)
	p.next()
	return s, nil
}

func (p *parser) module() (*Module, error) {
	if !p.isKeyword("module") {
		return nil, p.unexpected("module")
	}
	p.m = &Module{Pos: p.i.Pos}
	p.dirs = make(map[string]int)
	p.vecs = make(map[string][]string)
	p.next()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	p.m.Name = name
	if p.i.Type == Hash {
		return nil, p.errorf(p.i.Pos, "module parameters are not supported")
	}
	if p.i.Type == ParenOpen {
		p.next()
		if err = p.portList(); err != nil {
			return nil, err
		}
	}
	if err = p.expect(Semicolon); err != nil {
		return nil, err
	}
	for !p.isKeyword("endmodule") {
		if err = p.item(); err != nil {
			return nil, err
		}
	}
	p.next()
	var ports []string
	for _, port := range p.m.Ports {
		bits, ok := p.vecs[port]
		if !ok {
			bits = []string{port}
		}
		for _, b := range bits {
			if p.dirs[b] != dirInput && p.dirs[b] != dirOutput {
				return nil, p.errorf(p.m.Pos, "port "+strconv.Quote(port)+" of module "+p.m.Name+" has no direction")
			}
		}
		ports = append(ports, bits...)
	}
	p.m.Ports = ports
	return p.m, nil
}

// portList parses ANSI and non-ANSI port lists up to and including the closing
// parenthesis.
//
func (p *parser) portList() error {
	if p.i.Type == ParenClose {
		p.next()
		return nil
	}
	dir := dirNone
	var rng []int
	for {
		if p.isKeyword("input") || p.isKeyword("output") {
			dir = dirInput
			if p.isKeyword("output") {
				dir = dirOutput
			}
			p.next()
			if p.isKeyword("wire") {
				p.next()
			}
			var err error
			if rng, err = p.optRange(); err != nil {
				return err
			}
		} else if p.i.Type == Ident {
			if what, ok := unsupported[p.i.Value.(string)]; ok {
				return p.errorf(p.i.Pos, what+" are not supported")
			}
		}
		pos := p.i.Pos
		name, err := p.ident()
		if err != nil {
			return err
		}
		if dir == dirNone {
			p.m.Ports = append(p.m.Ports, name)
		} else {
			bits := expand(name, rng)
			if rng != nil {
				p.vecs[name] = bits
			}
			p.m.Ports = append(p.m.Ports, bits...)
			if err = p.declare(pos, dir, bits); err != nil {
				return err
			}
		}
		switch p.i.Type {
		case Comma:
			p.next()
		case ParenClose:
			p.next()
			return nil
		default:
			return p.unexpected("',' or ')'")
		}
	}
}

// optRange parses an optional [msb:lsb] range.
//
func (p *parser) optRange() ([]int, error) {
	if p.i.Type != BracketOpen {
		return nil, nil
	}
	p.next()
	msb, err := p.integer()
	if err != nil {
		return nil, err
	}
	if err = p.expect(Colon); err != nil {
		return nil, err
	}
	lsb, err := p.integer()
	if err != nil {
		return nil, err
	}
	if err = p.expect(BracketClose); err != nil {
		return nil, err
	}
	return []int{msb, lsb}, nil
}

func (p *parser) integer() (int, error) {
	if p.i.Type != Int {
		return 0, p.unexpected("integer")
	}
	v := p.i.Value.(int)
	p.next()
	return v, nil
}

// expand returns the bit names of a signal declared with the given range.
//
func expand(name string, rng []int) []string {
	if rng == nil {
		return []string{name}
	}
	return BusBits(name, rng[0], rng[1])
}

// BusBits returns the names of bits msb to lsb of bus name.
//
func BusBits(name string, msb, lsb int) []string {
	step := 1
	if msb > lsb {
		step = -1
	}
	bits := make([]string, 0, (msb-lsb)*-step+1)
	for i := msb; ; i += step {
		bits = append(bits, BitName(name, i))
		if i == lsb {
			break
		}
	}
	return bits
}

// BitName returns the name of bit i of bus name.
//
func BitName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

func (p *parser) declare(pos Pos, dir int, names []string) error {
	for _, n := range names {
		switch d := p.dirs[n]; {
		case d == dirNone || d == dir:
		case dir == dirWire && (d == dirInput || d == dirOutput):
			// "input a; wire a;" is legal.
			continue
		case d == dirWire && (dir == dirInput || dir == dirOutput):
			p.m.Wires = removeString(p.m.Wires, n)
		default:
			return p.errorf(pos, "signal "+strconv.Quote(n)+" declared as both input and output")
		}
		if p.dirs[n] == dir {
			continue
		}
		p.dirs[n] = dir
		switch dir {
		case dirInput:
			p.m.Inputs = append(p.m.Inputs, n)
		case dirOutput:
			p.m.Outputs = append(p.m.Outputs, n)
		case dirWire:
			p.m.Wires = append(p.m.Wires, n)
		}
	}
	return nil
}

func removeString(ss []string, s string) []string {
	for i, v := range ss {
		if v == s {
			return append(ss[:i], ss[i+1:]...)
		}
	}
	return ss
}

// item parses a declaration or an instance statement.
//
func (p *parser) item() error {
	if p.i.Type != Ident {
		return p.unexpected("declaration, instance or endmodule")
	}
	kw := p.i.Value.(string)
	if what, ok := unsupported[kw]; ok {
		return p.errorf(p.i.Pos, what+" are not supported in structural netlists")
	}
	switch kw {
	case "module":
		return p.errorf(p.i.Pos, "nested module definition")
	case "input", "output", "wire":
		return p.declaration()
	}
	return p.instances()
}

func (p *parser) declaration() error {
	dir := dirWire
	switch p.i.Value.(string) {
	case "input":
		dir = dirInput
	case "output":
		dir = dirOutput
	}
	p.next()
	if dir != dirWire && p.isKeyword("wire") {
		p.next()
	}
	if p.i.Type == Ident {
		if what, ok := unsupported[p.i.Value.(string)]; ok {
			return p.errorf(p.i.Pos, what+" are not supported in structural netlists")
		}
	}
	rng, err := p.optRange()
	if err != nil {
		return err
	}
	for {
		pos := p.i.Pos
		name, err := p.ident()
		if err != nil {
			return err
		}
		bits := expand(name, rng)
		if rng != nil {
			p.vecs[name] = bits
		}
		if err = p.declare(pos, dir, bits); err != nil {
			return err
		}
		switch p.i.Type {
		case Comma:
			p.next()
		case Semicolon:
			p.next()
			return nil
		default:
			return p.unexpected("',' or ';'")
		}
	}
}

// instances parses "type [name] (ports) {, [name] (ports)} ;"
//
func (p *parser) instances() error {
	pos := p.i.Pos
	typ, _ := p.ident()
	if p.i.Type == Hash {
		return p.errorf(p.i.Pos, "delays and parameters are not supported")
	}
	for {
		inst := Instance{Type: typ, Pos: pos}
		if p.i.Type == Ident {
			inst.Name = p.i.Value.(string)
			p.next()
			if p.i.Type == BracketOpen {
				return p.errorf(p.i.Pos, "instance arrays are not supported")
			}
		}
		if err := p.expect(ParenOpen); err != nil {
			return err
		}
		for p.i.Type != ParenClose {
			c, err := p.connection()
			if err != nil {
				return err
			}
			inst.Ports = append(inst.Ports, c)
			if p.i.Type == Comma {
				p.next()
				if p.i.Type == ParenClose {
					return p.unexpected("connection")
				}
			} else if p.i.Type != ParenClose {
				return p.unexpected("',' or ')'")
			}
		}
		p.next()
		p.m.Instances = append(p.m.Instances, inst)
		switch p.i.Type {
		case Comma:
			p.next()
			pos = p.i.Pos
		case Semicolon:
			p.next()
			return nil
		default:
			return p.unexpected("',' or ';'")
		}
	}
}

// connection parses a positional port connection: a signal, a bit select or
// a constant.
//
func (p *parser) connection() (string, error) {
	switch p.i.Type {
	case Const:
		c := p.i.Value.(string)
		p.next()
		return c, nil
	case Dot:
		return "", p.errorf(p.i.Pos, "named port connections are not supported for primitive instances")
	case Ident:
	default:
		return "", p.unexpected("signal")
	}
	name, _ := p.ident()
	if p.i.Type != BracketOpen {
		return name, nil
	}
	p.next()
	idx, err := p.integer()
	if err != nil {
		return "", err
	}
	if p.i.Type == Colon {
		return "", p.errorf(p.i.Pos, "part selects are not supported")
	}
	if err = p.expect(BracketClose); err != nil {
		return "", err
	}
	return BitName(name, idx), nil
}
