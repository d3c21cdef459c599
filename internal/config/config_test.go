// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/db47h/gatesim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, data string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "gatesim.yaml")
	require.NoError(t, ioutil.WriteFile(name, []byte(data), 0644))
	return name
}

func TestLoad(t *testing.T) {
	name := write(t, `
netlist: adder.v
module: adder4
inputs: [cin, "a[3]", "a[2]"]
workers: 4
max_inputs: 24
`)
	c, err := config.Load(name)
	require.NoError(t, err)
	assert.Equal(t, "adder.v", c.Netlist)
	assert.Equal(t, "adder4", c.Module)
	assert.Equal(t, []string{"cin", "a[3]", "a[2]"}, c.Inputs)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 24, c.MaxInputs)
	// defaults are kept
	assert.Equal(t, "tracefile.txt", c.Trace)
	assert.Equal(t, "info", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestLoad_default(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestLoad_errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(write(t, "netlist: a.v\nworkrs: 3\n"))
	assert.Error(t, err, "unknown key")

	_, err = config.Load(write(t, "workers: [1]\n"))
	assert.Error(t, err)
}

func TestSetInputs(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.SetInputs("sel, in[2], c[1..0]"))
	assert.Equal(t, []string{"sel", "in[0]", "in[1]", "c[1]", "c[0]"}, c.Inputs)
	require.NoError(t, c.SetInputs(" "))
	assert.Nil(t, c.Inputs)
	assert.Error(t, c.SetInputs("a,,b"))
}

func TestValidate(t *testing.T) {
	td := []struct {
		name string
		set  func(c *config.Config)
		ok   bool
	}{
		{"ok", func(c *config.Config) {}, true},
		{"no_netlist", func(c *config.Config) { c.Netlist = "" }, false},
		{"no_trace", func(c *config.Config) { c.Trace = "" }, false},
		{"max_inputs_low", func(c *config.Config) { c.MaxInputs = 0 }, false},
		{"max_inputs_high", func(c *config.Config) { c.MaxInputs = 63 }, false},
		{"duplicate", func(c *config.Config) { c.Inputs = []string{"a", "b", "a"} }, false},
		{"too_many", func(c *config.Config) { c.MaxInputs = 2; c.Inputs = []string{"a", "b", "c"} }, false},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c := config.Default()
			c.Netlist = "x.v"
			d.set(c)
			err := c.Validate()
			if d.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
