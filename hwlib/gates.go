// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

var notGate = &netlist.PartSpec{Name: "NOT", Inputs: netlist.Inputs{pIn}, Outputs: netlist.Outputs{pOut},
	Mount: func(s *netlist.Socket) []netlist.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []netlist.Component{
			func(c *netlist.Circuit) { c.Set(out, c.Get(in).Not()) },
		}
	},
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) netlist.Part {
	return notGate.NewPart(w)
}

// other gates
type gate func(a, b logic.Level) logic.Level

func (g gate) mount(s *netlist.Socket) []netlist.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []netlist.Component{
		func(c *netlist.Circuit) { c.Set(out, g(c.Get(a), c.Get(b))) },
	}
}

func newGate(name string, fn gate) *netlist.PartSpec {
	return &netlist.PartSpec{
		Name:    name,
		Inputs:  gateIn,
		Outputs: gateOut,
		Mount:   fn.mount,
	}
}

var (
	gateIn  = netlist.Inputs{pA, pB}
	gateOut = netlist.Outputs{pOut}

	and  = newGate("AND", logic.And)
	nand = newGate("NAND", logic.Nand)
	or   = newGate("OR", logic.Or)
	nor  = newGate("NOR", logic.Nor)
	xor  = newGate("XOR", logic.Xor)
	xnor = newGate("XNOR", logic.Xnor)
)

// And returns a AND gate. A low input forces a low output.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(w string) netlist.Part { return and.NewPart(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(w string) netlist.Part { return nand.NewPart(w) }

// Or returns a OR gate. A high input forces a high output.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or(w string) netlist.Part { return or.NewPart(w) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor(w string) netlist.Part { return nor.NewPart(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && !b || !a && b
//
func Xor(w string) netlist.Part { return xor.NewPart(w) }

// Xnor returns a XNOR gate. It is the binarized multiply of a weight bit by
// an activation bit.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
//
func Xnor(w string) netlist.Part { return xnor.NewPart(w) }
