// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"github.com/pkg/errors"
)

type chip struct {
	PartSpec
	parts []*PartSpec
	// wires maps the pins of the chip and its parts to the name of the wire
	// they connect to: a chip pin name, a constant or a generated __N name.
	wires map[pin]string
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component
	for i, p := range c.parts {
		sub := newSocket(s.c)
		for ext, local := range p.Pinout {
			if local == "" {
				continue
			}
			name := c.wires[pin{i, ext}]
			if name == "" {
				// only inputs can be left unconnected.
				sub.m[local] = cstFalse
				continue
			}
			w := s.PinOrNew(name)
			prev, ok := sub.m[local]
			switch {
			case !ok:
				sub.m[local] = w
			case prev != w:
				// several outputs of p share the same internal wire.
				cs = append(cs, buffer(prev, w))
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// buffer copies the state of pin in to pin out.
func buffer(in, out int) Component {
	return func(c *Circuit) { c.Set(out, c.Get(in)) }
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names given as inputs and outputs are the pins of the chip.
//
// A single binary neuron with a fixed weight of 1 could be built like this:
//
//	neuron, err := Chip("NEURON", In("x[2]"), Out("y"), Parts{
//		hwlib.Xnor("a=x[0], b=true, out=m0"),
//		hwlib.Xnor("a=x[1], b=true, out=m1"),
//		hwlib.And("a=m0, b=m1, out=y"),
//	})
//
// The returned NewPartFn composes the new part with others into other chips:
//
//	layer, err := Chip("LAYER", In("x[4]"), Out("y[2]"), Parts{
//		neuron("x=x[0..1], y=y[0]"),
//		neuron("x=x[2..3], y=y[1]"),
//	})
//
// Unconnected part inputs are tied to false. Part outputs may be left
// unconnected.
//
func Chip(name string, inputs Inputs, outputs Outputs, parts Parts) (NewPartFn, error) {
	wr := newWiring(inputs, outputs)
	spcs := make([]*PartSpec, len(parts))

	for i, p := range parts {
		spcs[i] = p.PartSpec
		if err := wirePart(wr, spcs, i, p); err != nil {
			return nil, err
		}
	}

	wires, err := wr.check(spcs)
	if err != nil {
		return nil, err
	}

	// every chip pin gets an entry, mount skips the unused ones.
	pinout := make(map[string]string, len(inputs)+len(outputs))
	for _, n := range inputs {
		pinout[n] = wires[pin{-1, n}]
	}
	for _, n := range outputs {
		pinout[n] = wires[pin{-1, n}]
	}

	c := &chip{
		PartSpec: PartSpec{
			Name:    name,
			Inputs:  inputs,
			Outputs: outputs,
			Pinout:  pinout,
		},
		parts: spcs,
		wires: wires,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}

// wirePart adds the connections of part number i to wr.
func wirePart(wr *wiring, spcs []*PartSpec, i int, p Part) error {
	sp := p.PartSpec
	for k := range p.Conns {
		if _, ok := sp.Pinout[k]; !ok {
			return errors.Errorf("invalid pin name %s for part %s", k, sp.Name)
		}
	}
	wrap := func(err error, src, dst pin) error {
		return errors.Wrap(err, pinName(spcs, src)+":"+pinName(spcs, dst))
	}
	for _, k := range sp.Inputs {
		ws, ok := p.Conns[k]
		if !ok {
			continue
		}
		if len(ws) > 1 {
			return errors.Errorf("%s input pin %s connected to more than one output", sp.Name, k)
		}
		src, dst := pin{-1, ws[0]}, pin{i, k}
		if err := wr.connect(src, kindUnknown, dst, kindInput); err != nil {
			return wrap(err, src, dst)
		}
	}
	for _, k := range sp.Outputs {
		src := pin{i, k}
		ws, ok := p.Conns[k]
		if !ok {
			wr.endpoint(src, kindOutput)
			continue
		}
		for _, w := range ws {
			dst := pin{-1, w}
			if err := wr.connect(src, kindOutput, dst, kindUnknown); err != nil {
				return wrap(err, src, dst)
			}
		}
	}
	return nil
}
