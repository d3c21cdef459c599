// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"
	"time"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/aig"
	"github.com/db47h/gatesim/internal/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type simFlags struct {
	config string
	inputs string
	verify bool
}

func newSimCmd() *cobra.Command {
	var f simFlags
	c := config.Default()
	cmd := &cobra.Command{
		Use:   "sim [netlist.v]",
		Short: "Write the truth table of a netlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f, c, args)
			if err != nil {
				return err
			}
			return simulate(cmd.Context(), cfg, f.verify)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "configuration file (default "+config.DefaultFile+" if present)")
	fl.StringVarP(&c.Module, "module", "m", c.Module, "top module")
	fl.StringVarP(&f.inputs, "inputs", "i", "", "primary inputs, most significant first (default: module input ports)")
	fl.StringVarP(&c.Trace, "trace", "o", c.Trace, "trace file, - for stdout")
	fl.StringVar(&c.Dot, "dot", c.Dot, "write the leveled graph in graphviz format to this file")
	fl.IntVarP(&c.Workers, "workers", "w", c.Workers, "simulation goroutines, < 0 for GOMAXPROCS; 0 or 1 streams the trace without holding the table in memory")
	fl.IntVar(&c.MaxInputs, "max-inputs", c.MaxInputs, "maximum number of primary inputs")
	fl.BoolVar(&f.verify, "verify", false, "cross-check the truth table against an and-inverter graph")
	fl.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	return cmd
}

// loadConfig reads the configuration file and applies the flags set on the
// command line over it.
//
func loadConfig(cmd *cobra.Command, f *simFlags, flags *config.Config, args []string) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	if fl.Changed("module") {
		cfg.Module = flags.Module
	}
	if fl.Changed("trace") {
		cfg.Trace = flags.Trace
	}
	if fl.Changed("dot") {
		cfg.Dot = flags.Dot
	}
	if fl.Changed("workers") {
		cfg.Workers = flags.Workers
	}
	if fl.Changed("max-inputs") {
		cfg.MaxInputs = flags.MaxInputs
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if fl.Changed("inputs") {
		if err = cfg.SetInputs(f.inputs); err != nil {
			return nil, err
		}
	}
	if len(args) > 0 {
		cfg.Netlist = args[0]
	}
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	return cfg, cfg.Validate()
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := make(map[string]bool, len(a))
	for _, s := range a {
		m[s] = true
	}
	for _, s := range b {
		if !m[s] {
			return false
		}
	}
	return true
}

func create(name string) (io.WriteCloser, error) {
	if name == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(name)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// inMemory returns true if the whole truth table must be computed by
// Simulator.Run rather than streamed row by row.
//
func inMemory(cfg *config.Config, verify bool) bool {
	return verify || cfg.Workers < 0 || cfg.Workers > 1
}

func simulate(ctx context.Context, cfg *config.Config, verify bool) error {
	start := time.Now()
	n, err := openNetlist(cfg.Netlist, cfg.Module)
	if err != nil {
		return err
	}
	inputs := cfg.Inputs
	if len(inputs) == 0 {
		inputs = n.Inputs
	}
	l := log.WithFields(logrus.Fields{"netlist": cfg.Netlist, "module": n.Module})
	if len(inputs) > cfg.MaxInputs {
		return errors.Errorf("%s: %d inputs, max_inputs is %d", n.Module, len(inputs), cfg.MaxInputs)
	}

	g, err := n.Build()
	if err != nil {
		return err
	}
	s, err := gs.NewSchedule(g)
	if err != nil {
		return err
	}
	sim, err := gs.NewSimulator(g, s, inputs)
	if err != nil {
		return err
	}
	l = l.WithFields(logrus.Fields{"inputs": len(inputs), "rows": sim.Rows()})
	if len(n.Outputs) > 0 && !sameSet(sim.Outputs(), n.Outputs) {
		l.WithField("sinks", sim.Outputs()).Warnf("sinks differ from declared outputs %v", n.Outputs)
	}
	l.WithField("depth", s.Depth()).Debug("schedule")

	if cfg.Dot != "" {
		if err = writeDot(cfg.Dot, n.Module, s); err != nil {
			return err
		}
		l.WithField("dot", cfg.Dot).Debug("graph written")
	}

	w, err := create(cfg.Trace)
	if err != nil {
		return err
	}
	defer w.Close()

	if inMemory(cfg, verify) {
		var r *gs.Result
		if r, err = sim.Run(ctx, cfg.Workers); err != nil {
			return err
		}
		if verify {
			if err = verifyResult(ctx, g, s, inputs, r); err != nil {
				return err
			}
			l.Info("truth table verified")
		}
		err = gs.WriteTrace(w, r)
	} else {
		err = sim.WriteTrace(ctx, w)
	}
	if err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, cfg.Trace)
	}
	l.WithField("elapsed", time.Since(start)).Info("simulation complete")
	return nil
}

func verifyResult(ctx context.Context, g *gs.Graph, s *gs.Schedule, inputs []string, r *gs.Result) error {
	c, err := aig.Compile(g, s, inputs)
	if err != nil {
		return err
	}
	log.WithField("aig", c.Len()).Debug("and-inverter graph compiled")
	return c.Verify(ctx, r)
}

func writeDot(name, module string, s *gs.Schedule) error {
	w, err := create(name)
	if err != nil {
		return err
	}
	if err = gs.WriteDot(w, module, s); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
