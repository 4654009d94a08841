// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math/bits"
	"strconv"

	"github.com/db47h/bnnbench/logic"
	"github.com/db47h/bnnbench/netlist"
)

var hAdder = &netlist.PartSpec{
	Name:    "HalfAdder",
	Inputs:  netlist.Inputs{pA, pB},
	Outputs: netlist.Outputs{"s", "c"},
	Mount: func(s *netlist.Socket) []netlist.Component {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []netlist.Component{
			func(c *netlist.Circuit) {
				va, vb := c.Get(a), c.Get(b)
				c.Set(sum, logic.Xor(va, vb))
				c.Set(cout, logic.And(va, vb))
			}}
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(c string) netlist.Part {
	return hAdder.NewPart(c)
}

var adder = &netlist.PartSpec{
	Name:    "FullAdder",
	Inputs:  netlist.Inputs{pA, pB, "cin"},
	Outputs: netlist.Outputs{"s", "cout"},
	Mount: func(s *netlist.Socket) []netlist.Component {
		a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin("cin")
		sum, cout := s.Pin("s"), s.Pin("cout")
		return []netlist.Component{
			func(c *netlist.Circuit) {
				va, vb, vc := c.Get(a), c.Get(b), c.Get(cin)
				if !va.Known() || !vb.Known() || !vc.Known() {
					c.Set(sum, logic.X)
					c.Set(cout, logic.X)
					return
				}
				s := logic.Xor(va, vb)
				c.Set(sum, logic.Xor(s, vc))
				c.Set(cout, logic.Or(logic.And(s, vc), logic.And(va, vb)))
			}}
	}}

// FullAdder returns a 3 bit adder. Any unknown input makes both outputs
// unknown.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(c string) netlist.Part {
	return adder.NewPart(c)
}

// AdderN returns a N-bits adder. Any unknown input bit makes all outputs
// unknown.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = lsb(a + b), c = carry out
//
func AdderN(bits int) netlist.NewPartFn {
	adderN := &netlist.PartSpec{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: append(bus(bits, pOut), "c"),
		Mount: func(s *netlist.Socket) []netlist.Component {
			a, b := s.Bus(pA, bits), s.Bus(pB, bits)
			out, cout := s.Bus(pOut, bits), s.Pin("c")
			return []netlist.Component{
				func(c *netlist.Circuit) {
					va, vb := Read(c, a), Read(c, b)
					x, okA := va.Uint()
					y, okB := vb.Uint()
					if !okA || !okB {
						Write(c, out, logic.Undefined(bits))
						c.Set(cout, logic.X)
						return
					}
					sum := logic.New(bits+1, x+y)
					Write(c, out, sum)
					c.Set(cout, sum.Bit(bits))
				}}
		}}
	return adderN.NewPart
}

type popCount8 struct {
	In  [8]int `hw:"in"`
	Out [4]int `hw:"out"`
}

func (p *popCount8) Update(c *netlist.Circuit) {
	var v uint8
	for i, pin := range p.In {
		switch c.Get(pin) {
		case logic.Hi:
			v |= 1 << uint(i)
		case logic.Lo:
		default:
			for _, o := range p.Out {
				c.Set(o, logic.X)
			}
			return
		}
	}
	n := bits.OnesCount8(v)
	for i, o := range p.Out {
		c.Set(o, logic.FromBool(n&(1<<uint(i)) != 0))
	}
}

var popCount8Spec = netlist.MakePart((*popCount8)(nil))

// PopCount8 returns a behavioral population counter. It serves as a reference
// model for gate level implementations.
//
//	Inputs: in[8]
//	Outputs: out[4]
//	Function: out = number of high bits in in
//
func PopCount8(c string) netlist.Part { return popCount8Spec.NewPart(c) }
