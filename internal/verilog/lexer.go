// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package verilog implements a lexer and parser for the structural subset of
// Verilog used by gate-level netlists: modules, port and wire declarations and
// primitive gate instances.
//
package verilog

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Type is a token type.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	Int
	Const
	Comma
	Semicolon
	ParenOpen
	ParenClose
	BracketOpen
	BracketClose
	Colon
	Dot
	Range
	Hash
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "invalid character",
	Ident:        "identifier",
	Int:          "integer",
	Const:        "constant",
	Comma:        "','",
	Semicolon:    "';'",
	ParenOpen:    "'('",
	ParenClose:   "')'",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Colon:        "':'",
	Dot:          "'.'",
	Range:        "'..'",
	Hash:         "'#'",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "token(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Canonical spelling of the 1-bit constants.
//
const (
	Const0 = "1'b0"
	Const1 = "1'b1"
)

// EOFRune is returned by Lexer.Next at end of input.
//
const EOFRune rune = -1

// Pos is a position in the input.
//
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Item is a lexed token. Value is a string for Ident, Const and Raw, an int
// for Int.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case Ident, Const:
		return i.Type.String() + " " + i.Value.(string)
	case Int:
		return "integer " + strconv.Itoa(i.Value.(int))
	case Raw:
		return strconv.Quote(i.Value.(string))
	}
	return i.Type.String()
}

// A StateFn is a lexer state function. Returning nil resets the lexer to its
// initial state.
//
type StateFn func(l *Lexer) StateFn

// Lexer tokenizes a netlist.
//
type Lexer struct {
	input  string
	pos    int
	width  int
	cur    rune
	curPos Pos // position of cur
	line   int
	col    int
	tokPos Pos // position of the first rune of the current token
	state  StateFn
	items  []Item
}

// NewLexer returns a new lexer for input.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Lex returns the next token.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		st := l.state
		if st == nil {
			st = lexInit
		}
		l.state = st(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

// Next reads the next rune from the input.
//
func (l *Lexer) Next() rune {
	l.curPos = Pos{l.line, l.col}
	if l.pos >= len(l.input) {
		l.width = 0
		l.cur = EOFRune
		return EOFRune
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.cur = r
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// Backup unreads the last rune. It can only be called once per call to Next.
//
func (l *Lexer) Backup() {
	l.pos -= l.width
	l.width = 0
	l.line, l.col = l.curPos.Line, l.curPos.Col
}

// Current returns the last rune read.
//
func (l *Lexer) Current() rune { return l.cur }

// AcceptWhile reads runes while f returns true.
//
func (l *Lexer) AcceptWhile(f func(rune) bool) {
	for r := l.Next(); r != EOFRune && f(r); r = l.Next() {
	}
	l.Backup()
}

// Emit emits a token positioned at the start of the current token.
//
func (l *Lexer) Emit(t Type, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.tokPos, Value: v})
}

func isIdentStart(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && unicode.IsLetter(r)
}

func isIdent(r rune) bool {
	return isIdentStart(r) || r == '$' || '0' <= r && r <= '9'
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func lexInit(l *Lexer) StateFn {
	r := l.Next()
	l.tokPos = l.curPos
	switch {
	case r == EOFRune:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case r == '/':
		switch l.Next() {
		case '/':
			l.AcceptWhile(func(r rune) bool { return r != '\n' })
		case '*':
			return lexBlockComment
		default:
			l.Backup()
			l.Emit(Raw, "/")
			return lexEOF
		}
	case isIdentStart(r):
		return lexIdent
	case r == '\\':
		return lexEscapedIdent
	case isDigit(r):
		return lexNumber
	case r == ',':
		l.Emit(Comma, ",")
	case r == ';':
		l.Emit(Semicolon, ";")
	case r == '(':
		l.Emit(ParenOpen, "(")
	case r == ')':
		l.Emit(ParenClose, ")")
	case r == '[':
		l.Emit(BracketOpen, "[")
	case r == ']':
		l.Emit(BracketClose, "]")
	case r == ':':
		l.Emit(Colon, ":")
	case r == '#':
		l.Emit(Hash, "#")
	case r == '.':
		if l.Next() == '.' {
			l.Emit(Range, "..")
			break
		}
		l.Backup()
		l.Emit(Dot, ".")
	default:
		l.Emit(Raw, string(r))
		return lexEOF
	}
	return nil
}

func lexBlockComment(l *Lexer) StateFn {
	for {
		switch l.Next() {
		case EOFRune:
			l.Emit(Raw, "unterminated comment")
			return lexEOF
		case '*':
			if l.Next() == '/' {
				return nil
			}
			l.Backup()
		}
	}
}

func lexIdent(l *Lexer) StateFn {
	var buf strings.Builder
	buf.WriteRune(l.Current())
	r := l.Next()
	for isIdent(r) {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	l.Emit(Ident, buf.String())
	return nil
}

// escaped identifiers run up to the next white space, the backslash is not
// part of the name.
func lexEscapedIdent(l *Lexer) StateFn {
	var buf strings.Builder
	r := l.Next()
	for r != EOFRune && !unicode.IsSpace(r) {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	if buf.Len() == 0 {
		l.Emit(Raw, "\\")
		return lexEOF
	}
	l.Emit(Ident, buf.String())
	return nil
}

// lexNumber lexes decimal integers and the sized constants 1'b0 and 1'b1.
//
func lexNumber(l *Lexer) StateFn {
	i := int(l.Current() - '0')
	r := l.Next()
	for isDigit(r) {
		i = i*10 + int(r-'0')
		r = l.Next()
	}
	if r != '\'' {
		l.Backup()
		l.Emit(Int, i)
		return nil
	}
	base := l.Next()
	v := l.Next()
	if i != 1 || (base != 'b' && base != 'B') || (v != '0' && v != '1') || isIdent(l.Next()) {
		l.Emit(Raw, "only 1'b0 and 1'b1 constants are supported")
		return lexEOF
	}
	l.Backup()
	if v == '0' {
		l.Emit(Const, Const0)
	} else {
		l.Emit(Const, Const1)
	}
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *Lexer) StateFn {
	l.tokPos = Pos{l.line, l.col}
	l.Emit(EOF, "end of input")
	return lexEOF
}
