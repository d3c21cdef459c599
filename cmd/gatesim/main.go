// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command gatesim simulates flat gate-level Verilog netlists.
//
//	gatesim sim [--inputs "a, b[3..0]"] [--trace file] [--dot file] netlist.v
//	gatesim equiv a.v b.v
//	gatesim gen adder 4 > adder4.v
//
package main

import (
	"context"
	"os"
	"os/signal"

	gs "github.com/db47h/gatesim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gatesim",
		Short:         "Exhaustive simulator for combinational gate-level netlists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSimCmd(), newEquivCmd(), newGenCmd())
	return root
}

func openNetlist(name, module string) (*gs.Netlist, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gs.ParseNetlist(f, name, module)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("%+v", err)
	}
}
