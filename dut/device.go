// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import (
	"io"

	"github.com/db47h/bnnbench/hwlib"
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
	"github.com/db47h/bnnbench/pinout"
	"github.com/db47h/bnnbench/sim"
	"github.com/pkg/errors"
)

// maxSteps bounds the number of simulation steps needed for the netlist to
// settle after an input change.
const maxSteps = 256

// A Device binds a classifier netlist to the design signals. The netlist is
// settled synchronously on every change of an input signal, and its outputs
// are driven on uo_out before the writer of the input resumes.
//
type Device struct {
	pins *pinout.Pins
	c    *netlist.Circuit
	drv  *sim.Driver
	out  logic.Value
}

// New builds a classifier with parameters p and binds it to pins. It claims
// uo_out.
//
func New(pins *pinout.Pins, p Params) (*Device, error) {
	chip, err := Classifier(p)
	if err != nil {
		return nil, errors.Wrap(err, "dut")
	}
	d := &Device{pins: pins, out: logic.Undefined(pinout.BusWidth)}
	d.c, err = netlist.NewCircuit(1,
		hwlib.Input(pins.RstN.Level)("out=rst_n"),
		hwlib.Input(pins.Ena.Level)("out=ena"),
		hwlib.InputN(pinout.BusWidth, pins.UIIn.Value)("out=ui_in"),
		chip("rst_n=rst_n, ena=ena, ui_in=ui_in, uo_out=uo_out"),
		hwlib.OutputN(pinout.BusWidth, func(v logic.Value) { d.out = v })("in=uo_out"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "dut")
	}
	d.drv, err = pins.UOOut.Claim("dut")
	if err != nil {
		d.c.Dispose()
		return nil, errors.Wrap(err, "dut")
	}
	for _, sig := range pins.Inputs() {
		sig.OnChange(d.update)
	}
	d.settle()
	return d, nil
}

func (d *Device) update(_, _ logic.Value) { d.settle() }

func (d *Device) settle() {
	d.c.SetClock(d.pins.Clk.Level())
	if _, err := d.c.Settle(maxSteps); err != nil {
		panic(errors.Wrap(err, "dut"))
	}
	if err := d.drv.SetValue(d.out); err != nil {
		panic(errors.Wrap(err, "dut"))
	}
}

// Output returns the last settled value of uo_out.
//
func (d *Device) Output() logic.Value { return d.out }

// Close releases the netlist resources.
//
func (d *Device) Close() error {
	d.c.Dispose()
	return nil
}

// Attach returns a function that builds a Device with parameters p on a set of
// pins.
//
func Attach(p Params) func(*pinout.Pins) (io.Closer, error) {
	return func(pins *pinout.Pins) (io.Closer, error) {
		d, err := New(pins, p)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
