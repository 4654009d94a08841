// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"github.com/db47h/bnnbench/sim"
	"github.com/pkg/errors"
)

// MinResetCycles is the minimum number of clock cycles the reset is held.
//
const MinResetCycles = 5

// Config holds the timing parameters of a verification session.
//
type Config struct {
	// Clock period, in time units. Must be even.
	Period sim.Time `yaml:"period"`
	// Number of rising clock edges during which reset is held low.
	ResetCycles int `yaml:"reset_cycles"`
	// Number of rising clock edges to wait between the falling edge that
	// follows an input change and sampling the output. Zero samples right at
	// the falling edge, which only suits combinational designs.
	SettleCycles int `yaml:"settle_cycles"`
	// Level of the first clock phase.
	ClockStartHigh bool `yaml:"clock_start_high"`
	// Simulation time limit, 0 for none.
	MaxTime sim.Time `yaml:"max_time"`
	// Name of the time unit, for reports only.
	TimeUnit string `yaml:"time_unit"`
}

// DefaultConfig returns the default configuration: a 20ns clock, reset held
// for 5 cycles and one settle cycle.
//
func DefaultConfig() Config {
	return Config{
		Period:       20,
		ResetCycles:  MinResetCycles,
		SettleCycles: 1,
		TimeUnit:     "ns",
	}
}

// Validate checks the configuration.
//
func (c Config) Validate() error {
	switch {
	case c.Period < 2 || c.Period%2 != 0:
		return errors.Errorf("clock period %d must be even and at least 2", c.Period)
	case c.ResetCycles < MinResetCycles:
		return errors.Errorf("reset cycles %d must be at least %d", c.ResetCycles, MinResetCycles)
	case c.SettleCycles < 0:
		return errors.Errorf("negative settle cycles %d", c.SettleCycles)
	}
	return nil
}
