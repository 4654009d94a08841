// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for netlist circuits.
//
// All parts operate on three-valued logic levels: an unknown input yields an
// unknown output unless the other inputs force the result.
//
package hwlib

import (
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// make a bus name
func bus(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for j := 0; j < bits; j++ {
			b = append(b, netlist.BusPinName(n, j))
		}
	}
	return b
}

// Read returns the levels of the given pins as a Value. Pin 0 is the lsb.
//
func Read(c *netlist.Circuit, pins []int) logic.Value {
	v := logic.Undefined(len(pins))
	for bit, p := range pins {
		v = v.WithBit(bit, c.Get(p))
	}
	return v
}

// Write sets the pins to the bits of v. Pins beyond v's width are set to X.
//
func Write(c *netlist.Circuit, pins []int, v logic.Value) {
	for bit, p := range pins {
		c.Set(p, v.Bit(bit))
	}
}
