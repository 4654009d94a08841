// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"strings"

	"github.com/db47h/bnnbench/internal/hdl"
	"github.com/pkg/errors"
)

// A Component updates the next state of some wires from the current state
// of others. See Circuit.Get and Circuit.Set.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. It looks up the wire numbers bound
// to the part's pins and returns the components that drive its outputs.
//
// A buffer could be defined like this:
//
//	buf := &PartSpec{
//		Name:    "BUF",
//		Inputs:  In("in"),
//		Outputs: Out("out"),
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{func(c *Circuit) { c.Set(out, c.Get(in)) }}
//		}}
//
type MountFn func(s *Socket) []Component

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// In parses a pin specification string like "a, b, bus[8]" into a list of
// input pin names. It panics if the specification is invalid.
//
func In(spec string) Inputs {
	return Inputs(mustParseIO(spec))
}

// Out parses a pin specification string like "out[8], carry" into a list of
// output pin names. It panics if the specification is invalid.
//
func Out(spec string) Outputs {
	return Outputs(mustParseIO(spec))
}

func mustParseIO(spec string) []string {
	pins, err := hdl.ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// BusPinName returns the name of pin i of the given bus.
//
var BusPinName = hdl.BusPinName

// A PartSpec is the blueprint of a part: its name, pins and mount function.
// Its NewPart method is the NewPartFn used to place the part in a chip:
//
//	var Buf = bufSpec.NewPart
//
//	c, _ := Chip("BUF2", In("a, b"), Out("c, d"), Parts{
//		Buf("in=a, out=c"),
//		Buf("in=b, out=d"),
//	})
//
type PartSpec struct {
	Name string
	// Input and output pin names, with buses expanded. See In and Out.
	Inputs  Inputs
	Outputs Outputs
	// Pinout maps the pin names of the part to the names its MountFn looks up
	// in the Socket. Nil maps every pin to itself, which is what custom parts
	// want; Chip uses it to map pins to internal wires.
	Pinout map[string]string
	Mount  MountFn
}

// NewPart returns a Part placing p with the given connections. It panics if
// the connection string is invalid.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := p.connect(connections)
	if err != nil {
		panic(errors.Wrap(err, p.Name))
	}
	if p.Pinout == nil {
		m := make(map[string]string, len(p.Inputs)+len(p.Outputs))
		for _, n := range append(append([]string(nil), p.Inputs...), p.Outputs...) {
			m[n] = n
		}
		p.Pinout = m
	}
	return Part{p, conns}
}

// busPins returns the pins of bus name in p, in index order.
//
func (p *PartSpec) busPins(name string) []string {
	var out []string
	for i := 0; ; i++ {
		n := BusPinName(name, i)
		if !p.hasPin(n) {
			return out
		}
		out = append(out, n)
	}
}

func (p *PartSpec) hasPin(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// connect builds the connection map of a part from a connection string. Keys
// are pin names of the part, values the names of the wires they connect to in
// the container chip.
//
// A bus of the part can be referenced by its bare name, in which case it is
// connected one to one to a bus of the same size in the container:
//
//	"out=t" // out[0]=t[0], out[1]=t[1], ...
//
func (p *PartSpec) connect(connections string) (map[string][]string, error) {
	as, err := hdl.ParseConnections(connections)
	if err != nil {
		return nil, err
	}
	r := make(map[string][]string, len(as))
	for _, a := range as {
		ks := a.Part.Expand()
		if !a.Part.Indexed() && !p.hasPin(a.Part.Name) {
			if bus := p.busPins(a.Part.Name); len(bus) > 0 {
				ks = bus
			}
		}
		vs := a.Chip.Expand()
		if !a.Chip.Indexed() && len(ks) > 1 && !isConstant(a.Chip.Name) {
			vs = make([]string, len(ks))
			for i := range vs {
				vs[i] = BusPinName(a.Chip.Name, i)
			}
		}
		switch {
		case len(ks) == len(vs):
			for i, k := range ks {
				r[k] = append(r[k], vs[i])
			}
		case len(ks) == 1:
			// fan out
			r[ks[0]] = append(r[ks[0]], vs...)
		case len(vs) == 1:
			// all pins to the same wire
			for _, k := range ks {
				r[k] = append(r[k], vs[0])
			}
		default:
			return nil, errors.New("pin count mismatch in pin mapping: " +
				strings.Join(ks, ",") + "=" + strings.Join(vs, ","))
		}
	}
	return r, nil
}

func isConstant(name string) bool {
	return name == True || name == False || name == Clk
}

// A NewPartFn returns a Part with the given connections, like
// "a=x, b=true, out=y[0..1]".
//
type NewPartFn func(c string) Part

// A Part is a PartSpec placed in a chip, with its connections.
//
type Part struct {
	*PartSpec
	Conns map[string][]string
}

// Parts lists the parts of a chip.
//
type Parts []Part
