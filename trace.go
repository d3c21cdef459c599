// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"bufio"
	"context"
	"io"

	"github.com/pkg/errors"
)

func writeAssign(b *bufio.Writer, names []string, vs []bool) {
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
		b.WriteByte('=')
		if vs[i] {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
}

func writeRow(b *bufio.Writer, ins, outs []string, r *Row) {
	b.WriteString("Inputs: ")
	writeAssign(b, ins, r.Inputs)
	b.WriteString(" => Outputs: ")
	writeAssign(b, outs, r.Outputs)
	b.WriteByte('\n')
}

// WriteTrace writes r to w, one line per row:
//
//	Inputs: a=0, b=1 => Outputs: y=0
//
func WriteTrace(w io.Writer, r *Result) error {
	b := bufio.NewWriter(w)
	for i := range r.Rows {
		writeRow(b, r.Inputs, r.Outputs, &r.Rows[i])
	}
	return errors.Wrap(b.Flush(), "write trace")
}

// WriteTrace streams the truth table to w in the same format as the
// WriteTrace function, without holding the whole table in memory.
//
func (sim *Simulator) WriteTrace(ctx context.Context, w io.Writer) error {
	b := bufio.NewWriter(w)
	ins, outs := sim.Inputs(), sim.Outputs()
	err := sim.Each(ctx, func(r *Row) error {
		writeRow(b, ins, outs, r)
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Wrap(b.Flush(), "write trace")
}
