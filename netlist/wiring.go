// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"strconv"

	"github.com/pkg/errors"
)

// a pin is identified by the part it belongs to and its name in that part's
// interface. Chip level pins have p == -1.
type pin struct {
	p    int
	name string
}

func (p pin) chipLevel() bool { return p.p < 0 }

type pinKind int

const (
	kindUnknown pinKind = iota
	kindInput
	kindOutput
)

// an endpoint is a pin in the wire graph of a chip. Wires flow from src to
// the endpoints in sinks.
type endpoint struct {
	pin   pin
	kind  pinKind
	wire  string // wire name, set by check
	src   *endpoint
	sinks []*endpoint
}

func (e *endpoint) label(name string) {
	e.wire = name
	for _, s := range e.sinks {
		s.label(name)
	}
}

// internal returns true for chip level pins that are neither chip inputs nor
// outputs.
func (e *endpoint) internal() bool {
	return e.pin.chipLevel() && e.kind != kindOutput
}

type wiring struct {
	eps map[pin]*endpoint
	// ext is the source of chip inputs and constants.
	ext *endpoint
}

func newWiring(ins Inputs, outs Outputs) *wiring {
	wr := &wiring{
		eps: make(map[pin]*endpoint, len(ins)+len(outs)+cstCount),
		ext: &endpoint{pin: pin{-1, "__EXT__"}, kind: kindInput},
	}
	for _, name := range []string{False, True, Clk} {
		p := pin{-1, name}
		wr.eps[p] = &endpoint{pin: p, src: wr.ext}
	}
	for _, name := range ins {
		p := pin{-1, name}
		e := &endpoint{pin: p, src: wr.ext}
		wr.eps[p] = e
		wr.ext.sinks = append(wr.ext.sinks, e)
	}
	for _, name := range outs {
		p := pin{-1, name}
		wr.eps[p] = &endpoint{pin: p, kind: kindOutput}
	}
	return wr
}

func (wr *wiring) endpoint(p pin, k pinKind) *endpoint {
	e := wr.eps[p]
	if e == nil {
		e = &endpoint{pin: p, kind: k}
		wr.eps[p] = e
	}
	return e
}

// connect adds a wire from src to dst.
func (wr *wiring) connect(src pin, srcKind pinKind, dst pin, dstKind pinKind) error {
	if dst.chipLevel() {
		switch dst.name {
		case False:
			return errors.New("output pin connected to constant false input")
		case True:
			return errors.New("output pin connected to constant true input")
		case Clk:
			return errors.New("output pin connected to clock signal")
		}
	}
	s := wr.endpoint(src, srcKind)
	d, ok := wr.eps[dst]
	switch {
	case !ok:
		d = &endpoint{pin: dst, kind: dstKind, src: s}
		wr.eps[dst] = d
	case d.src == wr.ext:
		return errors.New("chip input pin used as output")
	case d.src != nil:
		return errors.New("output pin already used as output")
	default:
		d.src = s
	}
	s.sinks = append(s.sinks, d)
	return nil
}

// check verifies that every wire has a driver and that no internal wire is
// left dangling. It then removes internal pins from the graph and returns the
// name of the wire connected to each pin. Wires are named after the chip pin
// or constant driving them or, failing that, get a unique __N name.
func (wr *wiring) check(spcs []*PartSpec) (map[pin]string, error) {
	n := 0
	for _, e := range wr.eps {
		if e.kind != kindOutput && e.src == nil {
			return nil, errors.New("pin " + pinName(spcs, e.pin) + " not connected to any output")
		}
		if err := wr.collapse(spcs, e); err != nil {
			return nil, err
		}
		if e.wire != "" {
			continue
		}
		root := e
		for root.src != nil && root.src != wr.ext {
			root = root.src
		}
		if root.src == wr.ext {
			root.label(root.pin.name)
		} else {
			root.label("__" + strconv.Itoa(n))
			n++
		}
	}
	wires := make(map[pin]string, len(wr.eps))
	for p, e := range wr.eps {
		wires[p] = e.wire
	}
	return wires, nil
}

// collapse bypasses the sinks of e that forward the wire to other pins, so
// that e feeds their sinks directly. Forwarding internal pins are dropped.
func (wr *wiring) collapse(spcs []*PartSpec, e *endpoint) error {
	for i := 0; i < len(e.sinks); {
		s := e.sinks[i]
		if len(s.sinks) == 0 {
			if s.internal() {
				return errors.New("pin " + pinName(spcs, s.pin) + " not connected to any input")
			}
			i++
			continue
		}
		for _, ss := range s.sinks {
			ss.src = e
		}
		e.sinks = append(e.sinks, s.sinks...)
		s.sinks = nil
		if s.internal() {
			last := len(e.sinks) - 1
			e.sinks[i] = e.sinks[last]
			e.sinks = e.sinks[:last]
			delete(wr.eps, s.pin)
		}
	}
	return nil
}

func pinName(spcs []*PartSpec, p pin) string {
	if p.chipLevel() {
		return p.name
	}
	return spcs[p.p].Name + "." + p.name
}
