// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() logic.Level) netlist.NewPartFn {
	p := &netlist.PartSpec{
		Name:    "Input",
		Outputs: netlist.Outputs{pOut},
		Mount: func(s *netlist.Socket) []netlist.Component {
			pin := s.Pin(pOut)
			return []netlist.Component{
				func(c *netlist.Circuit) { c.Set(pin, f()) },
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(logic.Level)) netlist.NewPartFn {
	p := &netlist.PartSpec{
		Name:   "Output",
		Inputs: netlist.Inputs{pIn},
		Mount: func(s *netlist.Socket) []netlist.Component {
			in := s.Pin(pIn)
			return []netlist.Component{
				func(c *netlist.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size. Bits of the returned
// value beyond its width read as X.
//
//	Outputs: out[bits]
//	Function: out = f()
//
func InputN(bits int, f func() logic.Value) netlist.NewPartFn {
	return (&netlist.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Outputs: bus(bits, pOut),
		Mount: func(s *netlist.Socket) []netlist.Component {
			pins := s.Bus(pOut, bits)
			return []netlist.Component{func(c *netlist.Circuit) {
				Write(c, pins, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
//
func OutputN(bits int, f func(logic.Value)) netlist.NewPartFn {
	return (&netlist.PartSpec{
		Name:   "OUTPUT" + strconv.Itoa(bits),
		Inputs: bus(bits, pIn),
		Mount: func(s *netlist.Socket) []netlist.Component {
			pins := s.Bus(pIn, bits)
			return []netlist.Component{func(c *netlist.Circuit) {
				f(Read(c, pins))
			}}
		}}).NewPart
}
