// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

var mux = &netlist.PartSpec{
	Name:    "MUX",
	Inputs:  netlist.Inputs{pA, pB, pSel},
	Outputs: netlist.Outputs{pOut},
	Mount: func(s *netlist.Socket) []netlist.Component {
		a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
		return []netlist.Component{func(c *netlist.Circuit) {
			c.Set(out, logic.Mux(c.Get(a), c.Get(b), c.Get(sel)))
		}}
	}}

// Mux returns a multiplexer. With an unknown sel, out is known only if a and b
// agree.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: If sel=0 then out=a else out=b.
//
func Mux(w string) netlist.Part { return mux.NewPart(w) }
