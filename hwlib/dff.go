// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

var dff = &netlist.PartSpec{
	Name:    "DFF",
	Inputs:  netlist.Inputs{pIn},
	Outputs: netlist.Outputs{pOut},
	Mount: func(s *netlist.Socket) []netlist.Component {
		in, out, clk := s.Pin(pIn), s.Pin(pOut), s.Pin(netlist.Clk)
		cur, prev := logic.X, logic.X
		return []netlist.Component{
			func(c *netlist.Circuit) {
				k := c.Get(clk)
				if prev == logic.Lo && k == logic.Hi {
					cur = c.Get(in)
				}
				prev = k
				c.Set(out, cur)
			}}
	}}

// DFF returns a data flip flop clocked by the circuit's Clk pin. Its output
// is X until the first rising edge of Clk.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) netlist.Part { return dff.NewPart(w) }
