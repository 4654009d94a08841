// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"runtime"
	"sync"

	"github.com/db47h/bnnbench/logic"
	"github.com/pkg/errors"
)

// ErrUnstable is returned by Settle when the circuit did not reach a stable
// state within the allowed number of steps.
//
var ErrUnstable = errors.New("circuit did not settle")

// Circuit is a runnable circuit simulation.
//
// Wire states are double buffered: during a step, components read the
// previous frame with Get and write the next one with Set. Every wire starts
// as logic.X.
//
// The Clk constant pin is not generated internally: it follows the level set
// by SetClock, which makes it possible to slave a circuit to an external
// clock.
//
type Circuit struct {
	s0    []logic.Level // wire states frame #0
	s1    []logic.Level // wire states frame #1
	cs    []Component
	count int // wire count
	clk   logic.Level
	steps uint

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	// new circuit with room for constant value pins.
	cc := &Circuit{count: cstCount, clk: logic.X}
	wrap, err := Chip("CIRCUIT", nil, nil, parts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	cs := wrap("").Mount(newSocket(cc))
	cs = append(cs, updConstants)
	cc.cs = cs
	cc.s0 = make([]logic.Level, cc.count)
	cc.s1 = make([]logic.Level, cc.count)
	for i := range cc.s0 {
		cc.s0[i], cc.s1[i] = logic.X, logic.X
	}
	cc.s0[cstFalse], cc.s1[cstFalse] = logic.Lo, logic.Lo
	cc.s0[cstTrue], cc.s1[cstTrue] = logic.Hi, logic.Hi

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	for len(cs) > 0 {
		size := len(cs) / workers
		if size*workers < len(cs) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, cs[:size], wc)
		cs = cs[size:]
	}

	return cc, nil
}

func updConstants(c *Circuit) {
	if c.s0[cstFalse] != logic.Lo || c.s0[cstTrue] != logic.Hi {
		panic("true or false constants have been overwritten")
	}
	c.s1[cstFalse] = logic.Lo
	c.s1[cstTrue] = logic.Hi
	c.s1[cstClk] = c.clk
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.steps
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

// Wires returns the number of wires in the circuit, constants included.
//
func (c *Circuit) Wires() int { return c.count }

// SetClock sets the level of the Clk pin. The new level becomes visible to
// components after the next step.
//
func (c *Circuit) SetClock(l logic.Level) {
	c.clk = l
}

// Clock returns the current level of the Clk pin.
//
func (c *Circuit) Clock() logic.Level {
	return c.s0[cstClk]
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) logic.Level {
	return c.s0[n]
}

// Set sets the state l of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, l logic.Level) {
	c.s1[n] = l
}

// Step advances the simulation by one step. It returns true if any wire
// changed state.
//
func (c *Circuit) Step() bool {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}
	c.wg.Wait()
	c.steps++

	changed := false
	for i := range c.s1 {
		if c.s0[i] != c.s1[i] {
			changed = true
			break
		}
	}
	c.s0, c.s1 = c.s1, c.s0
	return changed
}

// Settle steps the simulation until no wire changes state and returns the
// number of steps taken, the last, quiet one included. It returns ErrUnstable
// if the circuit is still changing after max steps.
//
func (c *Circuit) Settle(max int) (int, error) {
	for n := 1; n <= max; n++ {
		if !c.Step() {
			return n, nil
		}
	}
	return max, errors.Wrapf(ErrUnstable, "after %d steps", max)
}
