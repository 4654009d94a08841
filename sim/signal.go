// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"github.com/db47h/bnnbench/logic"
	"github.com/pkg/errors"
)

// Direction tells which side of the design boundary drives a signal.
//
type Direction int

// Signal directions.
//
const (
	ToDUT   Direction = iota // driven by the test bench
	FromDUT                  // driven by the design under test
)

func (d Direction) String() string {
	if d == FromDUT {
		return "output"
	}
	return "input"
}

// A Listener is notified of every value change of a signal, synchronously,
// before any waiting task is resumed.
//
type Listener func(prev, next logic.Value)

type waiter struct {
	kind edgeKind
	fire func()
}

// A Signal is a named bit or bit vector on the design boundary. Its initial
// value is all X.
//
type Signal struct {
	s         *Scheduler
	name      string
	width     int
	dir       Direction
	val       logic.Value
	owner     string
	listeners []Listener
	waiters   []waiter
}

// NewSignal creates a new signal. Signal names are unique within a scheduler.
//
func (s *Scheduler) NewSignal(name string, width int, dir Direction) (*Signal, error) {
	if width < 1 || width > logic.MaxWidth {
		return nil, errors.Errorf("signal %s: invalid width %d", name, width)
	}
	if _, ok := s.signals[name]; ok {
		return nil, errors.Errorf("signal %s already exists", name)
	}
	sig := &Signal{s: s, name: name, width: width, dir: dir, val: logic.Undefined(width)}
	s.signals[name] = sig
	return sig, nil
}

// Name returns the signal name.
//
func (sig *Signal) Name() string { return sig.name }

// Width returns the signal width in bits.
//
func (sig *Signal) Width() int { return sig.width }

// Direction returns the signal direction.
//
func (sig *Signal) Direction() Direction { return sig.dir }

// Value returns the current value of the signal.
//
func (sig *Signal) Value() logic.Value { return sig.val }

// Level returns the level of bit 0 of the signal.
//
func (sig *Signal) Level() logic.Level { return sig.val.Bit(0) }

// Owner returns the name of the signal's driver, or an empty string if it has
// none.
//
func (sig *Signal) Owner() string { return sig.owner }

// OnChange registers a persistent listener.
//
func (sig *Signal) OnChange(l Listener) {
	sig.listeners = append(sig.listeners, l)
}

// Claim makes owner the single driver of the signal. It fails with
// ErrAlreadyDriven if the signal already has a driver.
//
func (sig *Signal) Claim(owner string) (*Driver, error) {
	if sig.owner != "" {
		return nil, errors.Wrapf(ErrAlreadyDriven, "%s: claimed by %s, requested by %s", sig.name, sig.owner, owner)
	}
	sig.owner = owner
	return &Driver{sig: sig}, nil
}

func (sig *Signal) set(v logic.Value) {
	prev := sig.val
	if prev == v {
		return
	}
	sig.val = v
	sig.s.log.Debug("signal",
		"sim_time", uint64(sig.s.now),
		"name", sig.name,
		"value", v.BinString(),
		"driver", sig.owner)

	for _, l := range sig.listeners {
		l(prev, v)
	}

	ws := sig.waiters
	sig.waiters = nil
	for _, w := range ws {
		if w.kind.matches(prev, v) {
			sig.s.at(sig.s.now, w.fire)
		} else {
			sig.waiters = append(sig.waiters, w)
		}
	}
}

// A Driver is the write handle of a signal.
//
type Driver struct {
	sig *Signal
}

// Signal returns the driven signal.
//
func (d *Driver) Signal() *Signal { return d.sig }

// Set sets all bits of the signal at once from the low bits of v.
//
func (d *Driver) Set(v uint64) {
	d.sig.set(logic.New(d.sig.width, v))
}

// SetLevel sets a 1 bit signal. It panics if the signal is wider.
//
func (d *Driver) SetLevel(l logic.Level) {
	if d.sig.width != 1 {
		panic(errors.Errorf("SetLevel on %d bits signal %s", d.sig.width, d.sig.name))
	}
	d.sig.set(logic.FromLevel(l))
}

// SetValue sets the signal to v, which may contain X bits. v must have the
// signal's width.
//
func (d *Driver) SetValue(v logic.Value) error {
	if v.Width() != d.sig.width {
		return errors.Errorf("signal %s: cannot set %d bits signal to %v", d.sig.name, d.sig.width, v)
	}
	d.sig.set(v)
	return nil
}
