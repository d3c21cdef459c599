// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"strconv"

	gs "github.com/db47h/gatesim"
	nl "github.com/db47h/gatesim/netlib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// sized parts take a bit count.
var sized = map[string]func(bits int) nl.NewPartFn{
	"adder":  nl.AdderN,
	"parity": nl.Parity,
	"mux":    nl.MuxN,
	"and":    nl.AndNWay,
	"or":     nl.OrNWay,
}

var fixed = map[string]nl.NewPartFn{
	"halfadder": nl.HalfAdder,
	"fulladder": nl.FullAdder,
	"mux":       nl.Mux,
	"dmux":      nl.DMux,
}

func lookupPart(args []string) (nl.NewPartFn, error) {
	if len(args) == 1 {
		if fn, ok := fixed[args[0]]; ok {
			return fn, nil
		}
		return nil, errors.Errorf("unknown part %q", args[0])
	}
	fn, ok := sized[args[0]]
	if !ok {
		return nil, errors.Errorf("part %q does not take a size", args[0])
	}
	bits, err := strconv.Atoi(args[1])
	if err != nil || bits < 1 {
		return nil, errors.Errorf("invalid size %q", args[1])
	}
	return fn(bits), nil
}

func newGenCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "gen part [bits]",
		Short: "Write the netlist of a library part",
		Long: `Gen writes a flat structural Verilog netlist for one of the parts of the
built-in library:

	adder N, parity N, mux N, and N, or N   sized parts
	halfadder, fulladder, mux, dmux          fixed parts`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := lookupPart(args)
			if err != nil {
				return err
			}
			n, err := nl.Netlist(fn("").PartSpec)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out != "-" {
				f, err := create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err = gs.FormatVerilog(w, n); err != nil {
				return err
			}
			log.WithField("module", n.Module).Debugf("%d gates", len(n.Instances))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file")
	return cmd
}
