// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

// Names of the constant wires available to every part.
//
// Clk follows the level set by Circuit.SetClock. Parts may read it but no
// part may drive it.
//
const (
	False = "false"
	True  = "true"
	Clk   = "clk"
)

// wire numbers of the constants.
const (
	cstFalse = iota
	cstTrue
	cstClk
	cstCount
)

// A Socket binds the pin names of a part being mounted to wire numbers in
// a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	m := make(map[string]int, cstCount)
	m[False], m[True], m[Clk] = cstFalse, cstTrue, cstClk
	return &Socket{m: m, c: c}
}

// Pin returns the wire number bound to the named pin. It panics if there is
// no such pin.
//
func (s *Socket) Pin(name string) int {
	if w, ok := s.m[name]; ok {
		return w
	}
	panic("pin " + name + " does not exist")
}

// PinOrNew returns the wire number bound to the named pin, binding it to a
// newly allocated wire if needed.
//
func (s *Socket) PinOrNew(name string) int {
	w, ok := s.m[name]
	if !ok {
		w = s.c.allocPin()
		s.m[name] = w
	}
	return w
}

// Bus returns the wire numbers bound to the pins of the named bus, bit 0
// first. It panics if any of the bus pins is missing.
//
func (s *Socket) Bus(name string, bits int) []int {
	ws := make([]int, bits)
	for i := range ws {
		ws[i] = s.Pin(BusPinName(name, i))
	}
	return ws
}
