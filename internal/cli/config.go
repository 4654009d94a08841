// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"io"
	"os"

	"github.com/db47h/bnnbench/bench"
	"github.com/db47h/bnnbench/dut"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the layout of the configuration file:
//
//	bench:
//	  period: 20
//	  reset_cycles: 5
//	  settle_cycles: 1
//	dut:
//	  weights: 0xFF
//	  threshold: 4
//	  registered: true
//	vectors: patients.yaml
//
// Missing values keep their defaults.
type FileConfig struct {
	Bench   bench.Config `yaml:"bench"`
	DUT     dut.Params   `yaml:"dut"`
	Vectors string       `yaml:"vectors"`
}

// DefaultFileConfig returns the default configuration.
func DefaultFileConfig() FileConfig {
	return FileConfig{Bench: bench.DefaultConfig(), DUT: dut.DefaultParams()}
}

// LoadConfig reads a configuration from r on top of the defaults.
func LoadConfig(r io.Reader) (FileConfig, error) {
	c := DefaultFileConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return c, errors.Wrap(err, "config")
	}
	return c, nil
}

// LoadConfigFile reads the named configuration file. An empty name returns
// the defaults.
func LoadConfigFile(name string) (FileConfig, error) {
	if name == "" {
		return DefaultFileConfig(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return FileConfig{}, errors.WithStack(err)
	}
	defer f.Close()
	c, err := LoadConfig(f)
	if err != nil {
		return c, errors.Wrap(err, name)
	}
	return c, nil
}
