// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlib

import (
	"strconv"

	gs "github.com/db47h/gatesim"
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(c string) Part { return mux.NewPart(c) }

var mux = &PartSpec{
	Name:    "Mux",
	Inputs:  []string{pA, pB, pSel},
	Outputs: []string{pOut},
	Mount: func(s *Socket) {
		s.Gate(gs.Not, "notSel", pSel)
		s.Gate(gs.And, "w0", pA, "notSel")
		s.Gate(gs.And, "w1", pB, pSel)
		s.Gate(gs.Or, pOut, "w0", "w1")
	},
}

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(c string) Part { return dmux.NewPart(c) }

var dmux = &PartSpec{
	Name:    "DMux",
	Inputs:  []string{pIn, pSel},
	Outputs: []string{pA, pB},
	Mount: func(s *Socket) {
		s.Gate(gs.Not, "notSel", pSel)
		s.Gate(gs.And, pA, pIn, "notSel")
		s.Gate(gs.And, pB, pIn, pSel)
	},
}

// MuxN returns an n-bits Mux.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: for i := range out { if sel == 0 { out[i] = a[i] } else { out[i] = b[i] } }
//
func MuxN(bits int) NewPartFn {
	return (&PartSpec{
		Name:    "Mux" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pA, pB), pSel),
		Outputs: bus(bits, pOut),
		Mount: func(s *Socket) {
			for i := 0; i < bits; i++ {
				n := strconv.Itoa(i)
				s.Mount(Mux("a=a[" + n + "], b=b[" + n + "], sel=sel, out=out[" + n + "]"))
			}
		}}).NewPart
}
