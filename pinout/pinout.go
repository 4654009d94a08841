// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pinout declares the signals on the boundary of the classifier
// design.
//
package pinout

import (
	"github.com/db47h/bnnbench/sim"
	"github.com/pkg/errors"
)

// Signal names.
//
const (
	Clk   = "clk"
	RstN  = "rst_n"
	Ena   = "ena"
	UIIn  = "ui_in"
	UOOut = "uo_out"
)

// BusWidth is the width of the ui_in and uo_out buses.
//
const BusWidth = 8

// DecisionBit is the bit of uo_out carrying the classification result.
//
const DecisionBit = 0

// Pins is the set of signals of the design.
//
type Pins struct {
	Clk   *sim.Signal // clock, harness to design
	RstN  *sim.Signal // active low reset, harness to design
	Ena   *sim.Signal // design enable, harness to design
	UIIn  *sim.Signal // 8 bits feature vector, harness to design
	UOOut *sim.Signal // 8 bits result, design to harness
}

// New creates the design signals in s.
//
func New(s *sim.Scheduler) (*Pins, error) {
	var p Pins
	for _, d := range []struct {
		sig   **sim.Signal
		name  string
		width int
		dir   sim.Direction
	}{
		{&p.Clk, Clk, 1, sim.ToDUT},
		{&p.RstN, RstN, 1, sim.ToDUT},
		{&p.Ena, Ena, 1, sim.ToDUT},
		{&p.UIIn, UIIn, BusWidth, sim.ToDUT},
		{&p.UOOut, UOOut, BusWidth, sim.FromDUT},
	} {
		sig, err := s.NewSignal(d.name, d.width, d.dir)
		if err != nil {
			return nil, errors.Wrap(err, "pinout")
		}
		*d.sig = sig
	}
	return &p, nil
}

// Inputs returns the signals driven by the harness, in declaration order.
//
func (p *Pins) Inputs() []*sim.Signal {
	return []*sim.Signal{p.Clk, p.RstN, p.Ena, p.UIIn}
}
