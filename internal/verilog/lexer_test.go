// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilog_test

import (
	"testing"

	"github.com/db47h/gatesim/internal/verilog"
	"github.com/stretchr/testify/assert"
)

func lexAll(input string) []verilog.Item {
	l := verilog.NewLexer(input)
	var items []verilog.Item
	for {
		i := l.Lex()
		items = append(items, i)
		if i.Type == verilog.EOF || i.Type == verilog.Raw {
			return items
		}
	}
}

func TestLexer(t *testing.T) {
	items := lexAll("and g1 (y, \\a+b , 1'b1); // done\n/* block\n */ x[3:0] ..#.")
	exp := []verilog.Item{
		{Type: verilog.Ident, Pos: verilog.Pos{1, 1}, Value: "and"},
		{Type: verilog.Ident, Pos: verilog.Pos{1, 5}, Value: "g1"},
		{Type: verilog.ParenOpen, Pos: verilog.Pos{1, 8}, Value: "("},
		{Type: verilog.Ident, Pos: verilog.Pos{1, 9}, Value: "y"},
		{Type: verilog.Comma, Pos: verilog.Pos{1, 10}, Value: ","},
		{Type: verilog.Ident, Pos: verilog.Pos{1, 12}, Value: "a+b"},
		{Type: verilog.Comma, Pos: verilog.Pos{1, 17}, Value: ","},
		{Type: verilog.Const, Pos: verilog.Pos{1, 19}, Value: verilog.Const1},
		{Type: verilog.ParenClose, Pos: verilog.Pos{1, 23}, Value: ")"},
		{Type: verilog.Semicolon, Pos: verilog.Pos{1, 24}, Value: ";"},
		{Type: verilog.Ident, Pos: verilog.Pos{3, 5}, Value: "x"},
		{Type: verilog.BracketOpen, Pos: verilog.Pos{3, 6}, Value: "["},
		{Type: verilog.Int, Pos: verilog.Pos{3, 7}, Value: 3},
		{Type: verilog.Colon, Pos: verilog.Pos{3, 8}, Value: ":"},
		{Type: verilog.Int, Pos: verilog.Pos{3, 9}, Value: 0},
		{Type: verilog.BracketClose, Pos: verilog.Pos{3, 10}, Value: "]"},
		{Type: verilog.Range, Pos: verilog.Pos{3, 12}, Value: ".."},
		{Type: verilog.Hash, Pos: verilog.Pos{3, 14}, Value: "#"},
		{Type: verilog.Dot, Pos: verilog.Pos{3, 15}, Value: "."},
		{Type: verilog.EOF, Pos: verilog.Pos{3, 16}, Value: "end of input"},
	}
	assert.Equal(t, exp, items)
}

func TestLexer_errors(t *testing.T) {
	td := []struct {
		name  string
		input string
		msg   string
	}{
		{"char", "a = b", "="},
		{"const", "4'b0101", "only 1'b0 and 1'b1 constants are supported"},
		{"hex", "1'h1", "only 1'b0 and 1'b1 constants are supported"},
		{"comment", "a /* b", "unterminated comment"},
		{"slash", "a / b", "/"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			items := lexAll(d.input)
			last := items[len(items)-1]
			if assert.Equal(t, verilog.Raw, last.Type) {
				assert.Equal(t, d.msg, last.Value)
			}
		})
	}
	// after an error, the lexer only returns EOF.
	l := verilog.NewLexer("a = b")
	for i := 0; i < 2; i++ {
		l.Lex()
	}
	assert.Equal(t, verilog.EOF, l.Lex().Type)
	assert.Equal(t, verilog.EOF, l.Lex().Type)
}
