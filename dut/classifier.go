// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dut provides a gate level reference implementation of the binarized
// neural network classifier and binds it to the design signals.
//
// The classifier multiplies each input bit by a fixed binary weight (an XNOR
// gate), counts the matching bits and compares the count to a threshold:
//
//	decision = popcount(XNOR(ui_in, weights)) >= threshold
//
package dut

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/db47h/bnnbench/hwlib"
	"github.com/db47h/bnnbench/netlist"
	"github.com/db47h/bnnbench/pinout"
	"github.com/pkg/errors"
)

// Name is the name of the top level chip.
//
const Name = "tt_um_bnn_classifier"

// MaxThreshold is the largest threshold the 4 bits comparator can hold.
//
const MaxThreshold = 15

// Params are the synthesis parameters of the classifier.
//
type Params struct {
	// Weights holds one binary weight per input bit.
	Weights uint8 `yaml:"weights"`
	// Threshold is the minimum number of matching bits for a positive
	// decision.
	Threshold int `yaml:"threshold"`
	// Registered adds an output register with enable and synchronous active
	// low reset. The decision then shows on uo_out one clock edge after the
	// input.
	Registered bool `yaml:"registered"`
}

// DefaultParams returns the parameters of the reference design.
//
func DefaultParams() Params {
	return Params{Weights: 0xFF, Threshold: 4, Registered: true}
}

// Validate checks p.
//
func (p Params) Validate() error {
	if p.Threshold < 0 || p.Threshold > MaxThreshold {
		return errors.Errorf("threshold %d out of range [0, %d]", p.Threshold, MaxThreshold)
	}
	return nil
}

// Model returns the behavioral model of the classifier.
//
func Model(p Params) func(in uint8) uint8 {
	return func(in uint8) uint8 {
		if bits.OnesCount8(^(in ^ p.Weights)) >= p.Threshold {
			return 1
		}
		return 0
	}
}

func constant(b bool) string {
	if b {
		return netlist.True
	}
	return netlist.False
}

func bus(name string, i int) string { return netlist.BusPinName(name, i) }

// Core returns the combinational datapath of the classifier.
//
//	Inputs: in[8]
//	Outputs: out, count[4]
//
func Core(p Params) (netlist.NewPartFn, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var parts netlist.Parts

	// binarized multiply
	for i := 0; i < 8; i++ {
		w := constant(p.Weights&(1<<uint(i)) != 0)
		parts = append(parts, hwlib.Xnor("a="+bus("in", i)+", b="+w+", out="+bus("x", i)))
	}

	// popcount adder tree
	parts = append(parts,
		hwlib.FullAdder("a=x[0], b=x[1], cin=x[2], s=s0, cout=c0"),
		hwlib.FullAdder("a=x[3], b=x[4], cin=x[5], s=s1, cout=c1"),
		hwlib.HalfAdder("a=x[6], b=x[7], s=s2, c=c2"),
		hwlib.FullAdder("a=s0, b=s1, cin=s2, s=count[0], cout=c3"),
		hwlib.FullAdder("a=c0, b=c1, cin=c2, s=t0, cout=d0"),
		hwlib.HalfAdder("a=t0, b=c3, s=count[1], c=d1"),
		hwlib.HalfAdder("a=d0, b=d1, s=count[2], c=count[3]"),
	)

	// count >= threshold, lsb first:
	// ge[i] = count[i] > t[i] || count[i] == t[i] && ge[i-1]
	ge := netlist.True
	for i := 0; i < 4; i++ {
		out := "ge" + strconv.Itoa(i)
		if i == 3 {
			out = "out"
		}
		conn := "a=" + bus("count", i) + ", b=" + ge + ", out=" + out
		if p.Threshold&(1<<uint(i)) != 0 {
			parts = append(parts, hwlib.And(conn))
		} else {
			parts = append(parts, hwlib.Or(conn))
		}
		ge = out
	}

	return netlist.Chip("BNNCore", netlist.In("in[8]"), netlist.Out("out, count[4]"), parts)
}

// Classifier returns the top level chip.
//
//	Inputs: rst_n, ena, ui_in[8]
//	Outputs: uo_out[8]
//
// Only uo_out[pinout.DecisionBit] is used, the other output bits are tied low.
//
func Classifier(p Params) (netlist.NewPartFn, error) {
	core, err := Core(p)
	if err != nil {
		return nil, err
	}
	decision := bus(pinout.UOOut, pinout.DecisionBit)
	var unused []string
	for i := 0; i < pinout.BusWidth; i++ {
		if i != pinout.DecisionBit {
			unused = append(unused, "out="+bus(pinout.UOOut, i))
		}
	}
	parts := netlist.Parts{
		// tie-low cell
		hwlib.And("a=false, b=false, " + strings.Join(unused, ", ")),
	}
	if p.Registered {
		parts = append(parts,
			core("in=ui_in, out=d"),
			hwlib.Mux("a=q, b=d, sel=ena, out=next"),
			hwlib.And("a=rst_n, b=next, out=rd"),
			hwlib.DFF("in=rd, out=q, out="+decision),
		)
	} else {
		parts = append(parts, core("in=ui_in, out="+decision))
	}
	return netlist.Chip(Name,
		netlist.In(pinout.RstN+", "+pinout.Ena+", "+pinout.UIIn+"[8]"),
		netlist.Out(pinout.UOOut+"[8]"),
		parts)
}
