// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"github.com/db47h/bnnbench/logic"
	"github.com/pkg/errors"
)

// A Clock toggles a 1 bit signal with a fixed period.
//
type Clock struct {
	sig     *Signal
	period  Time
	running bool
}

// NewClock returns a clock for sig. period must be even and at least 2.
//
func NewClock(sig *Signal, period Time) (*Clock, error) {
	if sig.width != 1 {
		return nil, errors.Errorf("clock %s: signal must be 1 bit wide", sig.name)
	}
	if period < 2 || period%2 != 0 {
		return nil, errors.Errorf("clock %s: period %d must be even and at least 2", sig.name, period)
	}
	return &Clock{sig: sig, period: period}, nil
}

// Start claims the clock signal and starts a task that toggles it every half
// period, forever. The first transition is to Hi if startHigh is true, to Lo
// otherwise.
//
func (c *Clock) Start(startHigh bool) error {
	if c.running {
		return errors.Errorf("clock %s already running", c.sig.name)
	}
	d, err := c.sig.Claim("clock")
	if err != nil {
		return errors.Wrap(err, "clock")
	}
	c.running = true
	half := c.period / 2
	c.sig.s.StartSoon("clock "+c.sig.name, func(t *Task) error {
		l := logic.FromBool(startHigh)
		for {
			d.SetLevel(l)
			if err := t.Sleep(half); err != nil {
				return nil
			}
			l = l.Not()
		}
	})
	return nil
}

// Running returns true once the clock has been started.
//
func (c *Clock) Running() bool { return c.running }

// Period returns the clock period.
//
func (c *Clock) Period() Time { return c.period }

// Signal returns the clock signal.
//
func (c *Clock) Signal() *Signal { return c.sig }
