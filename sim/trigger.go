// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"strconv"

	"github.com/db47h/bnnbench/logic"
	"github.com/pkg/errors"
)

// A Trigger is an event a task can wait for with Task.Await.
//
type Trigger interface {
	// prime arranges for fire to be called once when the trigger occurs.
	prime(s *Scheduler, fire func()) error
	String() string
}

type timer Time

// Timer returns a trigger that fires after d time units. Timer(0) fires at the
// current time, after all already scheduled events.
//
func Timer(d Time) Trigger { return timer(d) }

func (d timer) prime(s *Scheduler, fire func()) error {
	s.at(s.now+Time(d), fire)
	return nil
}

func (d timer) String() string { return "Timer(" + strconv.FormatUint(uint64(d), 10) + ")" }

type edgeKind int

const (
	edgeRising edgeKind = iota
	edgeFalling
	edgeAny
	valueChange
)

var edgeNames = [...]string{
	edgeRising:  "RisingEdge",
	edgeFalling: "FallingEdge",
	edgeAny:     "Edge",
	valueChange: "Changed",
}

// matches returns true if the transition from prev to next is an edge of kind k.
func (k edgeKind) matches(prev, next logic.Value) bool {
	o, n := prev.Bit(0), next.Bit(0)
	switch k {
	case edgeRising:
		return n == logic.Hi && o != logic.Hi
	case edgeFalling:
		return n == logic.Lo && o != logic.Lo
	case edgeAny:
		return o != n && n.Known()
	}
	return prev != next
}

type edge struct {
	sig  *Signal
	kind edgeKind
}

// RisingEdge returns a trigger that fires when sig transitions to Hi from any
// other level. sig must be 1 bit wide.
//
func RisingEdge(sig *Signal) Trigger { return edge{sig, edgeRising} }

// FallingEdge returns a trigger that fires when sig transitions to Lo from
// any other level. sig must be 1 bit wide.
//
func FallingEdge(sig *Signal) Trigger { return edge{sig, edgeFalling} }

// Edge returns a trigger that fires when sig transitions to Hi or Lo. sig must
// be 1 bit wide.
//
func Edge(sig *Signal) Trigger { return edge{sig, edgeAny} }

// Changed returns a trigger that fires on any value change of sig.
//
func Changed(sig *Signal) Trigger { return edge{sig, valueChange} }

func (e edge) prime(s *Scheduler, fire func()) error {
	if e.sig == nil {
		return errors.New("nil signal")
	}
	if e.kind != valueChange && e.sig.width != 1 {
		return errors.Errorf("%s requires a 1 bit signal, %s is %d bits wide", edgeNames[e.kind], e.sig.name, e.sig.width)
	}
	e.sig.waiters = append(e.sig.waiters, waiter{kind: e.kind, fire: fire})
	return nil
}

func (e edge) String() string {
	name := "<nil>"
	if e.sig != nil {
		name = e.sig.name
	}
	return edgeNames[e.kind] + "(" + name + ")"
}
