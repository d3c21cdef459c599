// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"github.com/db47h/gatesim/internal/verilog"
	"github.com/pkg/errors"
)

// ParseSignals parses a comma separated list of signal names and returns
// individual names in a slice, also expanding bus declarations to individual
// bit names. For example:
//
//	ParseSignals("sel, in[2], c[3..1]") // returns []string{"sel", "in[0]", "in[1]", "c[3]", "c[2]", "c[1]"}
//
// A range can also be written c[3:1].
//
func ParseSignals(spec string) ([]string, error) {
	var out []string

	l := verilog.NewLexer(spec)

	i := l.Lex()
	if i.Type == verilog.EOF {
		return nil, nil
	}
	for {
		if i.Type != verilog.Ident {
			return nil, parseError(spec, i, "expected signal name")
		}
		name := i.Value.(string)
		// after ident, expect comma, [ or EOF
		i = l.Lex()
		if i.Type == verilog.BracketOpen {
			i = l.Lex()
			if i.Type != verilog.Int {
				return nil, parseError(spec, i, "missing bus size")
			}
			n := i.Value.(int)
			i = l.Lex()
			switch i.Type {
			case verilog.BracketClose:
				if n == 0 {
					return nil, parseError(spec, i, "empty bus")
				}
				out = append(out, verilog.BusBits(name, 0, n-1)...)
			case verilog.Range, verilog.Colon:
				i = l.Lex()
				if i.Type != verilog.Int {
					return nil, parseError(spec, i, "missing end of range")
				}
				out = append(out, verilog.BusBits(name, n, i.Value.(int))...)
				i = l.Lex()
				if i.Type != verilog.BracketClose {
					return nil, parseError(spec, i, "missing close bracket")
				}
			default:
				return nil, parseError(spec, i, "expected close bracket or range")
			}
			i = l.Lex()
		} else {
			out = append(out, name)
		}
		switch i.Type {
		case verilog.EOF:
			return out, nil
		case verilog.Comma:
			i = l.Lex()
		default:
			return nil, parseError(spec, i, "expected comma or end of input")
		}
	}
}

func parseError(in string, i verilog.Item, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, i.Pos.Col, msg)
}
