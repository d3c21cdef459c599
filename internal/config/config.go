// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads gatesim run parameters from a YAML file.
//
package config

import (
	"io/ioutil"
	"os"
	"strings"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultFile is the configuration file read when none is given and it exists
// in the current directory.
//
const DefaultFile = "gatesim.yaml"

// Config holds the parameters of a simulation run.
//
type Config struct {
	Netlist   string   `yaml:"netlist"`    // Verilog source file
	Module    string   `yaml:"module"`     // top module, required if Netlist defines several
	Inputs    []string `yaml:"inputs"`     // primary inputs, MSB first; the module ports if empty
	Trace     string   `yaml:"trace"`      // trace file, "-" for stdout
	Dot       string   `yaml:"dot"`        // graphviz output file, none if empty
	Workers   int      `yaml:"workers"`    // 0 or 1 streams rows, < 0 means GOMAXPROCS
	MaxInputs int      `yaml:"max_inputs"` // refuse to run above 2^MaxInputs rows
	LogLevel  string   `yaml:"log_level"`
}

// Default returns the default configuration.
//
func Default() *Config {
	return &Config{
		Trace:     "tracefile.txt",
		MaxInputs: 20,
		LogLevel:  "info",
	}
}

// Load reads the configuration file at path over the defaults. If path is
// empty, DefaultFile is read if it exists, otherwise the defaults are
// returned.
//
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return c, nil
		}
		path = DefaultFile
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

// SetInputs sets the input list from a comma separated signal list like
// "a, b, c[3..0]".
//
func (c *Config) SetInputs(list string) error {
	if strings.TrimSpace(list) == "" {
		c.Inputs = nil
		return nil
	}
	ins, err := gs.ParseSignals(list)
	if err != nil {
		return errors.Wrap(err, "inputs")
	}
	c.Inputs = ins
	return nil
}

// Validate checks the configuration for a simulation run.
//
func (c *Config) Validate() error {
	switch {
	case c.Netlist == "":
		return errors.New("no netlist file")
	case c.Trace == "":
		return errors.New("no trace file")
	case c.MaxInputs < 1 || c.MaxInputs > gs.MaxInputs:
		return errors.Errorf("max_inputs must be between 1 and %d", gs.MaxInputs)
	}
	seen := make(map[string]bool, len(c.Inputs))
	for _, in := range c.Inputs {
		if seen[in] {
			return errors.Errorf("input %s listed more than once", in)
		}
		seen[in] = true
	}
	if len(c.Inputs) > c.MaxInputs {
		return errors.Errorf("%d inputs, max_inputs is %d", len(c.Inputs), c.MaxInputs)
	}
	return nil
}
