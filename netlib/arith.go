// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlib

import (
	"strconv"

	gs "github.com/db47h/gatesim"
)

var hAdder = &PartSpec{
	Name:    "HalfAdder",
	Inputs:  []string{pA, pB},
	Outputs: []string{"s", "c"},
	Mount: func(s *Socket) {
		s.Gate(gs.Xor, "s", pA, pB)
		s.Gate(gs.And, "c", pA, pB)
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(c string) Part {
	return hAdder.NewPart(c)
}

var adder = &PartSpec{
	Name:    "FullAdder",
	Inputs:  []string{pA, pB, "cin"},
	Outputs: []string{"s", "cout"},
	Mount: func(s *Socket) {
		s.Mount(HalfAdder("a=a, b=b, s=s0, c=c0"))
		s.Mount(HalfAdder("a=s0, b=cin, s=s, c=c1"))
		s.Gate(gs.Or, "cout", "c0", "c1")
	}}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(c string) Part {
	return adder.NewPart(c)
}

// AdderN returns a N-bits ripple carry adder. Bit 0 is the least significant
// bit.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = lsb(a + b), c = carry out
//
func AdderN(bits int) NewPartFn {
	return (&PartSpec{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: append(bus(bits, pOut), "c"),
		Mount: func(s *Socket) {
			cin := ""
			for i := 0; i < bits; i++ {
				n := strconv.Itoa(i)
				cout := "c" + n
				if i == bits-1 {
					cout = "c"
				}
				conns := "a=a[" + n + "], b=b[" + n + "], s=out[" + n + "]"
				if i == 0 {
					s.Mount(HalfAdder(conns + ", c=" + cout))
				} else {
					s.Mount(FullAdder(conns + ", cin=" + cin + ", cout=" + cout))
				}
				cin = cout
			}
		}}).NewPart
}
