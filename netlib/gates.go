// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlib

import (
	"strconv"

	gs "github.com/db47h/gatesim"
)

var notGate = &PartSpec{Name: "Not", Inputs: []string{pIn}, Outputs: []string{pOut},
	Mount: func(s *Socket) { s.Gate(gs.Not, pOut, pIn) },
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(c string) Part {
	return notGate.NewPart(c)
}

func newGate(t gs.GateType) *PartSpec {
	return &PartSpec{
		Name:    t.String(),
		Inputs:  []string{pA, pB},
		Outputs: []string{pOut},
		Mount:   func(s *Socket) { s.Gate(t, pOut, pA, pB) },
	}
}

var (
	and  = newGate(gs.And)
	nand = newGate(gs.Nand)
	or   = newGate(gs.Or)
	nor  = newGate(gs.Nor)
	xor  = newGate(gs.Xor)
	xnor = newGate(gs.Xnor)
)

// And returns a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(c string) Part { return and.NewPart(c) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(c string) Part { return nand.NewPart(c) }

// Or returns a OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or(c string) Part { return or.NewPart(c) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor(c string) Part { return nor.NewPart(c) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
//
func Xor(c string) Part { return xor.NewPart(c) }

// Xnor returns a XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
//
func Xnor(c string) Part { return xnor.NewPart(c) }

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = !in[i] }
//
func NotN(bits int) NewPartFn {
	return (&PartSpec{
		Name:    "Not" + strconv.Itoa(bits),
		Inputs:  bus(bits, pIn),
		Outputs: bus(bits, pOut),
		Mount: func(s *Socket) {
			in, out := bus(bits, pIn), bus(bits, pOut)
			for i := range in {
				s.Gate(gs.Not, out[i], in[i])
			}
		}}).NewPart
}

// GateN returns a N-bits logic gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = t(a[i], b[i]) }
//
func GateN(t gs.GateType, bits int) NewPartFn {
	return (&PartSpec{
		Name:    t.String() + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: bus(bits, pOut),
		Mount: func(s *Socket) {
			a, b, out := bus(bits, pA), bus(bits, pB), bus(bits, pOut)
			for i := range out {
				s.Gate(t, out[i], a[i], b[i])
			}
		}}).NewPart
}

func nWay(t gs.GateType, ways int) NewPartFn {
	return (&PartSpec{
		Name:    t.String() + strconv.Itoa(ways) + "Way",
		Inputs:  bus(ways, pIn),
		Outputs: []string{pOut},
		Mount: func(s *Socket) {
			s.Gate(t, pOut, bus(ways, pIn)...)
		}}).NewPart
}

// OrNWay returns a N-Way OR gate.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = in[0] || in[1] || in[2] || ... || in[n-1]
//
func OrNWay(ways int) NewPartFn { return nWay(gs.Or, ways) }

// AndNWay returns a N-Way AND gate.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = in[0] && in[1] && in[2] && ... && in[n-1]
//
func AndNWay(ways int) NewPartFn { return nWay(gs.And, ways) }

// Parity returns an n-bits parity generator built as a balanced tree of
// 2-input XOR gates.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = in[0] ^ in[1] ^ ... ^ in[n-1]
//
// Parity panics if n < 1.
//
func Parity(n int) NewPartFn {
	if n < 1 {
		panic("invalid parity width " + strconv.Itoa(n))
	}
	return (&PartSpec{
		Name:    "Parity" + strconv.Itoa(n),
		Inputs:  bus(n, pIn),
		Outputs: []string{pOut},
		Mount: func(s *Socket) {
			level := bus(n, pIn)
			if n == 1 {
				// buffer
				s.Gate(gs.And, pOut, level[0], level[0])
				return
			}
			for w := 0; len(level) > 1; {
				var next []string
				for i := 0; i+1 < len(level); i += 2 {
					out := "t" + strconv.Itoa(w)
					if len(level) == 2 {
						out = pOut
					}
					s.Gate(gs.Xor, out, level[i], level[i+1])
					next = append(next, out)
					w++
				}
				if len(level)%2 != 0 {
					next = append(next, level[len(level)-1])
				}
				level = next
			}
		}}).NewPart
}
