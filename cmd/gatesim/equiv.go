// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/aig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newEquivCmd() *cobra.Command {
	var modA, modB, inputs string
	cmd := &cobra.Command{
		Use:   "equiv a.v b.v",
		Short: "Check that two netlists compute the same outputs",
		Long: `Equiv proves with a SAT solver that every output of the first netlist is
computed identically by the output of the same name in the second one. Inputs
are matched by name. If the netlists differ, a counterexample is printed and
the command fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ins []string
			if inputs != "" {
				var err error
				if ins, err = gs.ParseSignals(inputs); err != nil {
					return errors.Wrap(err, "inputs")
				}
			}
			a, err := compileFile(args[0], modA, ins)
			if err != nil {
				return err
			}
			b, err := compileFile(args[1], modB, ins)
			if err != nil {
				return err
			}
			cex, err := aig.Equivalent(a, b)
			if err != nil {
				return err
			}
			l := log.WithFields(logrus.Fields{"a": args[0], "b": args[1], "inputs": len(a.Inputs())})
			if cex == nil {
				l.Info("netlists are equivalent")
				return nil
			}
			printCounterexample(cmd.OutOrStdout(), cex)
			return errors.Errorf("%s and %s differ on %s", args[0], args[1], strings.Join(cex.Outputs, ", "))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&modA, "module-a", "", "top module of the first netlist")
	fl.StringVar(&modB, "module-b", "", "top module of the second netlist")
	fl.StringVarP(&inputs, "inputs", "i", "", "primary inputs (default: input ports of each module)")
	return cmd
}

func compileFile(name, module string, inputs []string) (*aig.Circuit, error) {
	n, err := openNetlist(name, module)
	if err != nil {
		return nil, err
	}
	c, err := aig.CompileNetlist(n, inputs)
	return c, errors.Wrap(err, name)
}

func printCounterexample(w io.Writer, cex *aig.Counterexample) {
	fmt.Fprint(w, "Counterexample:")
	for i, n := range cex.Inputs {
		v := 0
		if cex.Values[i] {
			v = 1
		}
		fmt.Fprintf(w, " %s=%d", n, v)
	}
	fmt.Fprintf(w, "\nDiffering outputs: %s\n", strings.Join(cex.Outputs, ", "))
}
